/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/wso2/identity-contact-reconciliation-service/internal/identity/model"
	"github.com/wso2/identity-contact-reconciliation-service/internal/identity/provider"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/errors"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/utils"
)

// IdentityHandler serves the identify endpoint.
type IdentityHandler struct {
	provider provider.IdentityProviderInterface
}

// NewIdentityHandler returns a new IdentityHandler instance.
func NewIdentityHandler() *IdentityHandler {
	return &IdentityHandler{
		provider: provider.NewIdentityProvider(),
	}
}

// Identify handles POST /identify
func (h *IdentityHandler) Identify(w http.ResponseWriter, r *http.Request) {

	var request model.IdentifyRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		clientError := errors.NewClientError(errors.ErrorMessage{
			Code:        errors.BAD_REQUEST.Code,
			Message:     errors.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "identify"),
		}, http.StatusBadRequest)
		utils.HandleError(w, clientError)
		return
	}

	identityService, err := h.provider.GetIdentityService()
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	view, err := identityService.Identify(r.Context(), request.Email, request.PhoneNumber)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, view)
}
