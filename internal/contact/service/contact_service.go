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
	"net/http"
	"sync"

	"github.com/wso2/identity-contact-reconciliation-service/internal/contact/model"
	"github.com/wso2/identity-contact-reconciliation-service/internal/contact/store"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/errors"
)

// ContactServiceInterface exposes read-only access to stored contacts.
type ContactServiceInterface interface {
	GetContact(ctx context.Context, id int64) (*model.Contact, error)
	ListContacts(ctx context.Context, filter model.ContactFilter) (*model.ContactList, error)
}

// ContactService is the default implementation.
type ContactService struct {
	repository store.ContactRepositoryInterface
}

var (
	contactService   ContactServiceInterface
	contactServiceMu sync.Mutex
)

func NewContactService(repository store.ContactRepositoryInterface) *ContactService {
	return &ContactService{repository: repository}
}

// GetContactService returns the process wide contact service.
func GetContactService() (ContactServiceInterface, error) {

	contactServiceMu.Lock()
	defer contactServiceMu.Unlock()
	if contactService != nil {
		return contactService, nil
	}
	repository, err := store.GetContactRepository()
	if err != nil {
		return nil, err
	}
	contactService = NewContactService(repository)
	return contactService, nil
}

// SetContactService replaces the process wide contact service.
func SetContactService(service ContactServiceInterface) {

	contactServiceMu.Lock()
	defer contactServiceMu.Unlock()
	contactService = service
}

func (s *ContactService) GetContact(ctx context.Context, id int64) (*model.Contact, error) {

	contact, err := s.repository.GetContact(ctx, id)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, errors.NewClientError(errors.ErrorMessage{
			Code:        errors.CONTACT_NOT_FOUND.Code,
			Message:     errors.CONTACT_NOT_FOUND.Message,
			Description: fmt.Sprintf("No contact record found for the contact id %d", id),
		}, http.StatusNotFound)
	}
	return contact, nil
}

func (s *ContactService) ListContacts(ctx context.Context, filter model.ContactFilter) (*model.ContactList, error) {

	contacts, err := s.repository.ListContacts(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &model.ContactList{
		Contacts: contacts,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	}, nil
}
