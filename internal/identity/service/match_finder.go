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
	"net/http"

	contactModel "github.com/wso2/identity-contact-reconciliation-service/internal/contact/model"
	"github.com/wso2/identity-contact-reconciliation-service/internal/contact/store"
	"github.com/wso2/identity-contact-reconciliation-service/internal/identity/model"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/constants"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/errors"
)

// MatchFinder collects the contacts an observation touches.
type MatchFinder struct{}

func NewMatchFinder() *MatchFinder {
	return &MatchFinder{}
}

// FindCandidates returns every non-deleted contact sharing the observed email or phone number,
// primaries and secondaries alike, locked for the rest of the transaction.
func (f *MatchFinder) FindCandidates(ctx context.Context, contactStore store.ContactStoreInterface,
	observation model.Observation) ([]contactModel.Contact, error) {

	if observation.Email == nil && observation.PhoneNumber == nil {
		return nil, errors.NewClientError(errors.IDENTIFIER_REQUIRED, http.StatusBadRequest)
	}
	return contactStore.FindByEmailOrPhone(ctx, observation.Email, observation.PhoneNumber)
}

// LoadRoots locks and returns the contacts the candidates link to, keyed by id. Candidates are
// included as they are, so a primary candidate resolves to itself without another read.
func (f *MatchFinder) LoadRoots(ctx context.Context, contactStore store.ContactStoreInterface,
	candidates []contactModel.Contact) (map[int64]contactModel.Contact, error) {

	roots := make(map[int64]contactModel.Contact, len(candidates))
	for _, candidate := range candidates {
		roots[candidate.Id] = candidate
	}

	var missing []int64
	requested := map[int64]bool{}
	for _, candidate := range candidates {
		if candidate.LinkedId == nil {
			continue
		}
		linkedId := *candidate.LinkedId
		if _, ok := roots[linkedId]; ok || requested[linkedId] {
			continue
		}
		requested[linkedId] = true
		missing = append(missing, linkedId)
	}
	if len(missing) == 0 {
		return roots, nil
	}

	linked, err := contactStore.FindByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for _, contact := range linked {
		roots[contact.Id] = contact
	}
	return roots, nil
}

// identifierLockKeys names the advisory locks guarding an observation's identifiers.
func identifierLockKeys(observation model.Observation) []string {

	var keys []string
	if observation.Email != nil {
		keys = append(keys, constants.EmailLockPrefix+*observation.Email)
	}
	if observation.PhoneNumber != nil {
		keys = append(keys, constants.PhoneLockPrefix+*observation.PhoneNumber)
	}
	return keys
}
