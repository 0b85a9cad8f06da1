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
	"net/http"

	"github.com/wso2/identity-contact-reconciliation-service/internal/contact/model"
	"github.com/wso2/identity-contact-reconciliation-service/internal/contact/provider"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/errors"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/utils"
)

// ContactHandler serves read-only views of stored contacts.
type ContactHandler struct {
	provider provider.ContactProviderInterface
}

// NewContactHandler returns a new ContactHandler instance.
func NewContactHandler() *ContactHandler {
	return &ContactHandler{
		provider: provider.NewContactProvider(),
	}
}

// GetContact handles GET /contacts/{id}
func (h *ContactHandler) GetContact(w http.ResponseWriter, r *http.Request) {

	id, err := utils.ParseContactID(r.PathValue("id"))
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	contactService, err := h.provider.GetContactService()
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	contact, err := contactService.GetContact(r.Context(), id)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, contact)
}

// ListContacts handles GET /contacts
func (h *ContactHandler) ListContacts(w http.ResponseWriter, r *http.Request) {

	limit, offset, err := utils.ParsePagination(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	query := r.URL.Query()
	filter := model.ContactFilter{
		Email:       query.Get("email"),
		PhoneNumber: query.Get("phoneNumber"),
		Limit:       limit,
		Offset:      offset,
	}
	if precedence := query.Get("linkPrecedence"); precedence != "" {
		switch model.LinkPrecedence(precedence) {
		case model.LinkPrecedencePrimary, model.LinkPrecedenceSecondary:
			filter.LinkPrecedence = model.LinkPrecedence(precedence)
		default:
			utils.HandleError(w, errors.NewClientError(errors.ErrorMessage{
				Code:        errors.BAD_REQUEST.Code,
				Message:     "Invalid link precedence.",
				Description: "linkPrecedence must be either primary or secondary.",
			}, http.StatusBadRequest))
			return
		}
	}

	contactService, err := h.provider.GetContactService()
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	contacts, err := contactService.ListContacts(r.Context(), filter)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, contacts)
}
