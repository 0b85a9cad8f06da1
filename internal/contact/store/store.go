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

package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/wso2/identity-contact-reconciliation-service/internal/contact/model"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/config"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/database/provider"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/errors"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/log"
)

// ContactStoreInterface is the view of the contacts table available inside one transaction.
// Every read locks the returned rows until the transaction ends.
type ContactStoreInterface interface {
	LockIdentifiers(ctx context.Context, keys ...string) error
	FindByEmailOrPhone(ctx context.Context, email, phoneNumber *string) ([]model.Contact, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.Contact, error)
	FindClusterMembers(ctx context.Context, primaryIds []int64) ([]model.Contact, error)
	Insert(ctx context.Context, contact model.NewContact) (*model.Contact, error)
	UpdateMany(ctx context.Context, ids []int64, update model.ContactUpdate) (int64, error)
}

// TxFunc is a unit of work run by RunInTx.
type TxFunc func(ctx context.Context, store ContactStoreInterface) error

// ContactRepositoryInterface owns transaction boundaries and the read-only queries.
type ContactRepositoryInterface interface {
	// RunInTx runs fn in one transaction. The transaction commits only if fn returns nil.
	RunInTx(ctx context.Context, fn TxFunc) error
	GetContact(ctx context.Context, id int64) (*model.Contact, error)
	ListContacts(ctx context.Context, filter model.ContactFilter) ([]model.Contact, error)
	Ping(ctx context.Context) error
}

var (
	repository   ContactRepositoryInterface
	repositoryMu sync.Mutex
)

// GetContactRepository returns the process wide repository backed by the configured database.
func GetContactRepository() (ContactRepositoryInterface, error) {

	repositoryMu.Lock()
	defer repositoryMu.Unlock()
	if repository != nil {
		return repository, nil
	}

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		errorMsg := "Failed to get db client for the contact repository."
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return nil, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.DB_CLIENT_INIT.Code,
			Message:     errors.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	repository = NewPostgresContactRepository(dbClient, config.GetCRSRuntime().Config.Identify)
	return repository, nil
}

// SetContactRepository replaces the process wide repository.
func SetContactRepository(repo ContactRepositoryInterface) {

	repositoryMu.Lock()
	defer repositoryMu.Unlock()
	repository = repo
}

func lockKeysDescription(keys []string) string {
	return fmt.Sprintf("Failed to lock identifiers %v", keys)
}
