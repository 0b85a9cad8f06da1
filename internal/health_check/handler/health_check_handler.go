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

	"github.com/wso2/identity-contact-reconciliation-service/internal/health_check/provider"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/constants"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/utils"
)

// HealthHandler implements health and readiness endpoints.
type HealthHandler struct {
	provider provider.HealthCheckProviderInterface
}

// NewHealthHandler creates a new instance of HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{provider: provider.NewHealthCheckProvider()}
}

// NewHealthHandlerWithProvider creates a HealthHandler over the given provider.
func NewHealthHandlerWithProvider(p provider.HealthCheckProviderInterface) *HealthHandler {
	return &HealthHandler{provider: p}
}

// HandleHealth responds to /health requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{"status": "ok"}
	utils.WriteJSONResponse(w, http.StatusOK, response)
}

// HandleReadiness responds to /ready requests.
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	healthCheckService := h.provider.GetHealthCheckService()
	if err := healthCheckService.CheckReadiness(r.Context()); err != nil {
		response := map[string]string{
			"status": "not ready",
			"error":  "database unavailable",
		}
		utils.WriteJSONResponse(w, http.StatusServiceUnavailable, response)
		return
	}

	response := map[string]string{"status": "ready"}
	utils.WriteJSONResponse(w, http.StatusOK, response)
}

// HandleServiceInfo responds to / with the service name and version.
func (h *HealthHandler) HandleServiceInfo(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"message":     constants.ServiceName,
		"description": "API for identifying contacts and reconciling them into identity clusters",
		"version":     constants.ServiceVersion,
	}
	utils.WriteJSONResponse(w, http.StatusOK, response)
}
