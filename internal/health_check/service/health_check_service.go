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

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/wso2/identity-contact-reconciliation-service/internal/contact/store"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/log"
)

const readinessTimeout = 2 * time.Second

// HealthCheckServiceInterface defines the service interface.
type HealthCheckServiceInterface interface {
	CheckReadiness(ctx context.Context) error
}

// HealthCheckService is the default implementation.
type HealthCheckService struct {
	repository func() (store.ContactRepositoryInterface, error)
}

// GetHealthCheckService returns a new instance.
func GetHealthCheckService() HealthCheckServiceInterface {
	return &HealthCheckService{repository: store.GetContactRepository}
}

// NewHealthCheckService creates a service checking the given repository.
func NewHealthCheckService(repository store.ContactRepositoryInterface) HealthCheckServiceInterface {
	return &HealthCheckService{repository: func() (store.ContactRepositoryInterface, error) {
		return repository, nil
	}}
}

func (h HealthCheckService) CheckReadiness(ctx context.Context) error {

	repository, err := h.repository()
	if err != nil {
		return fmt.Errorf("failed to create contact repository: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()
	// Perform a lightweight query to ensure DB connectivity.
	if err := repository.Ping(ctx); err != nil {
		log.GetLogger().Warn("Readiness check failed", log.Error(err))
		return fmt.Errorf("database connectivity check failed: %w", err)
	}
	return nil
}
