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
	"sort"
	"sync"
	"time"

	"github.com/wso2/identity-contact-reconciliation-service/internal/contact/model"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/errors"
)

// Operation names accepted by MemoryContactRepository.InjectFault.
const (
	OpLockIdentifiers    = "LockIdentifiers"
	OpFindByEmailOrPhone = "FindByEmailOrPhone"
	OpFindByIDs          = "FindByIDs"
	OpFindClusterMembers = "FindClusterMembers"
	OpInsert             = "Insert"
	OpUpdateMany         = "UpdateMany"
	OpCommit             = "Commit"
)

type fault struct {
	err       error
	remaining int
}

// MemoryContactRepository keeps contacts in process. Transactions are serialised and work on a copy
// of the table that replaces the committed state only when the unit of work succeeds.
type MemoryContactRepository struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	contacts map[int64]model.Contact
	nextID   int64
	faults   map[string]*fault
	now      func() time.Time
}

// NewMemoryContactRepository creates an empty in-memory repository.
func NewMemoryContactRepository() *MemoryContactRepository {

	return &MemoryContactRepository{
		contacts: map[int64]model.Contact{},
		nextID:   1,
		faults:   map[string]*fault{},
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Seed stores the given contacts as they are, keeping their ids.
func (r *MemoryContactRepository) Seed(contacts ...model.Contact) {

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, contact := range contacts {
		if contact.CreatedAt.IsZero() {
			contact.CreatedAt = r.now()
		}
		if contact.UpdatedAt.IsZero() {
			contact.UpdatedAt = contact.CreatedAt
		}
		r.contacts[contact.Id] = contact
		if contact.Id >= r.nextID {
			r.nextID = contact.Id + 1
		}
	}
}

// Contacts returns every stored contact, deleted ones included, ordered by id.
func (r *MemoryContactRepository) Contacts() []model.Contact {

	r.mu.Lock()
	defer r.mu.Unlock()
	return sortedContacts(r.contacts, func(model.Contact) bool { return true })
}

// InjectFault makes the next times calls of op fail with err. A times value of zero or less fails
// every call until ClearFaults.
func (r *MemoryContactRepository) InjectFault(op string, err error, times int) {

	r.mu.Lock()
	defer r.mu.Unlock()
	r.faults[op] = &fault{err: err, remaining: times}
}

func (r *MemoryContactRepository) ClearFaults() {

	r.mu.Lock()
	defer r.mu.Unlock()
	r.faults = map[string]*fault{}
}

func (r *MemoryContactRepository) takeFault(op string) error {

	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.faults[op]
	if !ok {
		return nil
	}
	if f.remaining > 0 {
		f.remaining--
		if f.remaining == 0 {
			delete(r.faults, op)
		}
	}
	return f.err
}

func (r *MemoryContactRepository) RunInTx(ctx context.Context, fn TxFunc) error {

	r.txMu.Lock()
	defer r.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return storageError(err, errors.TX_BEGIN, "Context ended before the contact transaction started.")
	}

	r.mu.Lock()
	tx := &memoryTxStore{
		repo:     r,
		contacts: make(map[int64]model.Contact, len(r.contacts)),
		nextID:   r.nextID,
	}
	for id, contact := range r.contacts {
		tx.contacts[id] = contact
	}
	r.mu.Unlock()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := r.takeFault(OpCommit); err != nil {
		return storageError(err, errors.TX_COMMIT, "Failed to commit contact transaction.")
	}
	if err := ctx.Err(); err != nil {
		return storageError(err, errors.TX_COMMIT, "Context ended before the contact transaction committed.")
	}

	r.mu.Lock()
	r.contacts = tx.contacts
	r.nextID = tx.nextID
	r.mu.Unlock()
	return nil
}

func (r *MemoryContactRepository) GetContact(_ context.Context, id int64) (*model.Contact, error) {

	r.mu.Lock()
	defer r.mu.Unlock()
	contact, ok := r.contacts[id]
	if !ok || contact.DeletedAt != nil {
		return nil, nil
	}
	return &contact, nil
}

func (r *MemoryContactRepository) ListContacts(_ context.Context, filter model.ContactFilter) ([]model.Contact, error) {

	r.mu.Lock()
	defer r.mu.Unlock()
	contacts := sortedContacts(r.contacts, func(c model.Contact) bool {
		if c.DeletedAt != nil {
			return false
		}
		if filter.Email != "" && (c.Email == nil || *c.Email != filter.Email) {
			return false
		}
		if filter.PhoneNumber != "" && (c.PhoneNumber == nil || *c.PhoneNumber != filter.PhoneNumber) {
			return false
		}
		return filter.LinkPrecedence == "" || c.LinkPrecedence == filter.LinkPrecedence
	})
	if filter.Offset >= len(contacts) {
		return []model.Contact{}, nil
	}
	contacts = contacts[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(contacts) {
		contacts = contacts[:filter.Limit]
	}
	return contacts, nil
}

func (r *MemoryContactRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

// memoryTxStore is the working copy of one in-memory transaction.
type memoryTxStore struct {
	repo     *MemoryContactRepository
	contacts map[int64]model.Contact
	nextID   int64
}

func (s *memoryTxStore) LockIdentifiers(ctx context.Context, keys ...string) error {

	if err := s.repo.takeFault(OpLockIdentifiers); err != nil {
		return storageError(err, errors.LOCK_ACQUIRE, lockKeysDescription(keys))
	}
	return nil
}

func (s *memoryTxStore) FindByEmailOrPhone(ctx context.Context, email, phoneNumber *string) ([]model.Contact, error) {

	if err := s.repo.takeFault(OpFindByEmailOrPhone); err != nil {
		return nil, storageError(err, errors.FETCH_CONTACTS, "Failed to fetch contacts matching the given email or phone number.")
	}
	return sortedContacts(s.contacts, func(c model.Contact) bool {
		if c.DeletedAt != nil {
			return false
		}
		return (email != nil && c.Email != nil && *c.Email == *email) ||
			(phoneNumber != nil && c.PhoneNumber != nil && *c.PhoneNumber == *phoneNumber)
	}), nil
}

func (s *memoryTxStore) FindByIDs(ctx context.Context, ids []int64) ([]model.Contact, error) {

	if err := s.repo.takeFault(OpFindByIDs); err != nil {
		return nil, storageError(err, errors.FETCH_CONTACTS, "Failed to fetch contacts by id.")
	}
	wanted := toSet(ids)
	return sortedContacts(s.contacts, func(c model.Contact) bool {
		return c.DeletedAt == nil && wanted[c.Id]
	}), nil
}

func (s *memoryTxStore) FindClusterMembers(ctx context.Context, primaryIds []int64) ([]model.Contact, error) {

	if err := s.repo.takeFault(OpFindClusterMembers); err != nil {
		return nil, storageError(err, errors.FETCH_CONTACTS, "Failed to fetch cluster members.")
	}
	wanted := toSet(primaryIds)
	return sortedContacts(s.contacts, func(c model.Contact) bool {
		if c.DeletedAt != nil {
			return false
		}
		return wanted[c.Id] || (c.LinkedId != nil && wanted[*c.LinkedId])
	}), nil
}

func (s *memoryTxStore) Insert(ctx context.Context, contact model.NewContact) (*model.Contact, error) {

	if err := s.repo.takeFault(OpInsert); err != nil {
		return nil, storageError(err, errors.ADD_CONTACT, "Failed to insert contact.")
	}
	now := s.repo.now()
	created := model.Contact{
		Id:             s.nextID,
		Email:          cloneString(contact.Email),
		PhoneNumber:    cloneString(contact.PhoneNumber),
		LinkedId:       cloneInt64(contact.LinkedId),
		LinkPrecedence: contact.LinkPrecedence,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.nextID++
	s.contacts[created.Id] = created
	return &created, nil
}

func (s *memoryTxStore) UpdateMany(ctx context.Context, ids []int64, update model.ContactUpdate) (int64, error) {

	if err := s.repo.takeFault(OpUpdateMany); err != nil {
		return 0, storageError(err, errors.UPDATE_CONTACTS, "Failed to update contacts.")
	}
	now := s.repo.now()
	var count int64
	for id := range toSet(ids) {
		contact, ok := s.contacts[id]
		if !ok || contact.DeletedAt != nil {
			continue
		}
		contact.LinkPrecedence = update.LinkPrecedence
		contact.LinkedId = cloneInt64(update.LinkedId)
		contact.UpdatedAt = now
		s.contacts[id] = contact
		count++
	}
	return count, nil
}

func sortedContacts(contacts map[int64]model.Contact, keep func(model.Contact) bool) []model.Contact {

	result := []model.Contact{}
	for _, contact := range contacts {
		if keep(contact) {
			result = append(result, contact)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Id < result[j].Id })
	return result
}

func toSet(ids []int64) map[int64]bool {

	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}

func cloneInt64(value *int64) *int64 {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}
