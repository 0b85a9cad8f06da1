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

package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/wso2/identity-contact-reconciliation-service/internal/system/constants"
	customerrors "github.com/wso2/identity-contact-reconciliation-service/internal/system/errors"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/log"
)

// HandleError sends an HTTP error response based on the provided error. Client errors carry their own
// status and details. Storage failures map to 503 and everything else to 500, without internal detail.
func HandleError(w http.ResponseWriter, err error) {
	var clientError *customerrors.ClientError
	w.Header().Set("Content-Type", "application/json")
	if ok := errors.As(err, &clientError); ok {
		if clientError.TraceID != "" {
			w.Header().Set(constants.TraceIDHeader, clientError.TraceID)
		}
		w.WriteHeader(clientError.StatusCode)
		_ = json.NewEncoder(w).Encode(struct {
			Code        string `json:"code"`
			Message     string `json:"message"`
			Description string `json:"description"`
			TraceID     string `json:"traceId,omitempty"`
		}{
			Code:        clientError.ErrorMessage.Code,
			Message:     clientError.ErrorMessage.Message,
			Description: clientError.ErrorMessage.Description,
			TraceID:     clientError.TraceID,
		})
		return
	}

	logger := log.GetLogger()
	status := http.StatusInternalServerError
	body := map[string]string{
		"error": "Internal server error",
	}
	var serverError *customerrors.ServerError
	if ok := errors.As(err, &serverError); ok {
		if serverError.TraceID != "" {
			w.Header().Set(constants.TraceIDHeader, serverError.TraceID)
			body["traceId"] = serverError.TraceID
		}
		if serverError.Kind == customerrors.StorageFailure {
			status = http.StatusServiceUnavailable
			body["error"] = "Service temporarily unavailable"
		}
		fields := []log.Field{log.String("kind", serverError.Kind.String()),
			log.String("trace_id", serverError.TraceID)}
		if serverError.Kind == customerrors.IntegrityViolation {
			// Already reported at ERROR by the identity service.
			logger.Debug(err.Error(), fields...)
		} else {
			logger.Error(err.Error(), fields...)
		}
	} else if err != nil {
		logger.Error(err.Error())
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteJSONResponse writes data as a JSON body with the given status.
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// ParseContactID parses a contact id path value.
func ParseContactID(value string) (int64, error) {

	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, customerrors.NewClientError(customerrors.ErrorMessage{
			Code:        customerrors.INVALID_CONTACT_ID.Code,
			Message:     customerrors.INVALID_CONTACT_ID.Message,
			Description: "Contact id must be a positive integer.",
		}, http.StatusBadRequest)
	}
	return id, nil
}

// ParsePagination reads the limit and offset query parameters, applying the default and maximum limit.
func ParsePagination(r *http.Request) (limit, offset int, err error) {

	limit = constants.DefaultContactListLimit
	query := r.URL.Query()
	if raw := query.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 || limit > constants.MaxContactListLimit {
			return 0, 0, paginationError("limit must be an integer between 1 and " +
				strconv.Itoa(constants.MaxContactListLimit) + ".")
		}
	}
	if raw := query.Get("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, paginationError("offset must be a non-negative integer.")
		}
	}
	return limit, offset, nil
}

func paginationError(description string) error {
	return customerrors.NewClientError(customerrors.ErrorMessage{
		Code:        customerrors.INVALID_PAGINATION.Code,
		Message:     customerrors.INVALID_PAGINATION.Message,
		Description: description,
	}, http.StatusBadRequest)
}
