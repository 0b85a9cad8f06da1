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
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/wso2/identity-contact-reconciliation-service/internal/contact/model"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/config"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/constants"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/database/client"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/database/lock"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/database/scripts"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/errors"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/log"
)

const contactsTable = "contacts"

var contactColumns = []string{
	"id", "email", "phone_number", "linked_id", "link_precedence", "created_at", "updated_at", "deleted_at",
}

// PostgresContactRepository stores contacts in PostgreSQL.
type PostgresContactRepository struct {
	dbClient    client.DBClientInterface
	dbType      string
	lockTimeout time.Duration
	txTimeout   time.Duration
	locker      *lock.TxLocker
}

// NewPostgresContactRepository creates a repository over the given client.
func NewPostgresContactRepository(dbClient client.DBClientInterface, cfg config.IdentifyConfig) *PostgresContactRepository {

	return &PostgresContactRepository{
		dbClient:    dbClient,
		dbType:      constants.PostgresDBType,
		lockTimeout: cfg.LockTimeout,
		txTimeout:   cfg.TxTimeout,
		locker:      lock.NewTxLocker(constants.PostgresDBType),
	}
}

// RunInTx runs fn in a READ COMMITTED transaction whose lock waits are bounded by the lock timeout.
// A context without a deadline is bounded by the transaction timeout.
func (r *PostgresContactRepository) RunInTx(ctx context.Context, fn TxFunc) (err error) {

	if _, ok := ctx.Deadline(); !ok && r.txTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.txTimeout)
		defer cancel()
	}

	logger := log.GetLogger()
	tx, err := r.dbClient.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		errorMsg := "Failed to begin transaction for contact resolution."
		logger.Debug(errorMsg, log.Error(err))
		return storageError(err, errors.TX_BEGIN, errorMsg)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !stderrors.Is(rbErr, sql.ErrTxDone) {
				logger.Warn("Failed to roll back contact transaction", log.Error(rbErr))
			}
		}
	}()

	if r.lockTimeout > 0 {
		timeout := fmt.Sprintf("%dms", r.lockTimeout.Milliseconds())
		if _, err = tx.ExecContext(ctx, scripts.SetLockTimeout[r.dbType], timeout); err != nil {
			errorMsg := "Failed to set the lock timeout for contact resolution."
			logger.Debug(errorMsg, log.Error(err))
			return storageError(err, errors.TX_BEGIN, errorMsg)
		}
	}

	if err = fn(ctx, &postgresTxStore{tx: tx, dbType: r.dbType, locker: r.locker}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		errorMsg := "Failed to commit contact transaction."
		logger.Debug(errorMsg, log.Error(err))
		return storageError(err, errors.TX_COMMIT, errorMsg)
	}
	return nil
}

// GetContact returns the non-deleted contact with the given id, or nil when there is none.
func (r *PostgresContactRepository) GetContact(ctx context.Context, id int64) (*model.Contact, error) {

	var contact model.Contact
	err := r.dbClient.GetDB().GetContext(ctx, &contact, scripts.GetContactByID[r.dbType], id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch contact: %d", id)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return nil, storageError(err, errors.FETCH_CONTACTS, errorMsg)
	}
	return &contact, nil
}

// ListContacts returns non-deleted contacts ordered by id.
func (r *PostgresContactRepository) ListContacts(ctx context.Context, filter model.ContactFilter) ([]model.Contact, error) {

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(contactColumns...).From(contactsTable).Where(sb.IsNull("deleted_at"))
	if filter.Email != "" {
		sb.Where(sb.Equal("email", filter.Email))
	}
	if filter.PhoneNumber != "" {
		sb.Where(sb.Equal("phone_number", filter.PhoneNumber))
	}
	if filter.LinkPrecedence != "" {
		sb.Where(sb.Equal("link_precedence", string(filter.LinkPrecedence)))
	}
	sb.OrderBy("id").Asc()
	if filter.Limit > 0 {
		sb.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		sb.Offset(filter.Offset)
	}
	query, args := sb.Build()

	contacts := []model.Contact{}
	if err := r.dbClient.GetDB().SelectContext(ctx, &contacts, query, args...); err != nil {
		errorMsg := "Failed to list contacts."
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return nil, storageError(err, errors.FETCH_CONTACTS, errorMsg)
	}
	return contacts, nil
}

// Ping runs a trivial query to check the database is serving requests.
func (r *PostgresContactRepository) Ping(ctx context.Context) error {

	results, err := r.dbClient.ExecuteQuery(ctx, scripts.HealthCheck[r.dbType])
	if err != nil {
		return storageError(err, errors.FETCH_CONTACTS, "Database health check failed.")
	}
	if len(results) != 1 {
		return errors.NewServerError(errors.ErrorMessage{
			Code:        errors.FETCH_CONTACTS.Code,
			Message:     errors.FETCH_CONTACTS.Message,
			Description: "Database health check returned no rows.",
		}, nil)
	}
	return nil
}

// postgresTxStore runs contact queries on an open transaction.
type postgresTxStore struct {
	tx     *sqlx.Tx
	dbType string
	locker *lock.TxLocker
}

func (s *postgresTxStore) LockIdentifiers(ctx context.Context, keys ...string) error {

	if len(keys) == 0 {
		return nil
	}
	if err := s.locker.LockKeys(ctx, s.tx, keys); err != nil {
		errorMsg := lockKeysDescription(keys)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return storageError(err, errors.LOCK_ACQUIRE, errorMsg)
	}
	return nil
}

func (s *postgresTxStore) FindByEmailOrPhone(ctx context.Context, email, phoneNumber *string) ([]model.Contact, error) {

	contacts := []model.Contact{}
	err := s.tx.SelectContext(ctx, &contacts, scripts.FindContactsByEmailOrPhone[s.dbType], email, phoneNumber)
	if err != nil {
		errorMsg := "Failed to fetch contacts matching the given email or phone number."
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return nil, storageError(err, errors.FETCH_CONTACTS, errorMsg)
	}
	return contacts, nil
}

func (s *postgresTxStore) FindByIDs(ctx context.Context, ids []int64) ([]model.Contact, error) {

	contacts := []model.Contact{}
	if len(ids) == 0 {
		return contacts, nil
	}
	err := s.tx.SelectContext(ctx, &contacts, scripts.FindContactsByIDs[s.dbType], pq.Array(ids))
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch contacts: %v", ids)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return nil, storageError(err, errors.FETCH_CONTACTS, errorMsg)
	}
	return contacts, nil
}

func (s *postgresTxStore) FindClusterMembers(ctx context.Context, primaryIds []int64) ([]model.Contact, error) {

	contacts := []model.Contact{}
	if len(primaryIds) == 0 {
		return contacts, nil
	}
	err := s.tx.SelectContext(ctx, &contacts, scripts.FindClusterMembers[s.dbType], pq.Array(primaryIds))
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch members of clusters: %v", primaryIds)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return nil, storageError(err, errors.FETCH_CONTACTS, errorMsg)
	}
	return contacts, nil
}

func (s *postgresTxStore) Insert(ctx context.Context, contact model.NewContact) (*model.Contact, error) {

	ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
	ib.InsertInto(contactsTable).
		Cols("email", "phone_number", "linked_id", "link_precedence").
		Values(contact.Email, contact.PhoneNumber, contact.LinkedId, string(contact.LinkPrecedence))
	ib.Returning(contactColumns...)
	query, args := ib.Build()

	var created model.Contact
	if err := s.tx.GetContext(ctx, &created, query, args...); err != nil {
		errorMsg := fmt.Sprintf("Failed to insert %s contact.", contact.LinkPrecedence)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return nil, storageError(err, errors.ADD_CONTACT, errorMsg)
	}
	return &created, nil
}

func (s *postgresTxStore) UpdateMany(ctx context.Context, ids []int64, update model.ContactUpdate) (int64, error) {

	if len(ids) == 0 {
		return 0, nil
	}
	ub := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	ub.Update(contactsTable).
		Set(
			ub.Assign("link_precedence", string(update.LinkPrecedence)),
			ub.Assign("linked_id", update.LinkedId),
			"updated_at = now()",
		).
		Where(ub.In("id", sqlbuilder.Flatten(ids)...), ub.IsNull("deleted_at"))
	query, args := ub.Build()

	result, err := s.tx.ExecContext(ctx, query, args...)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to update contacts: %v", ids)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return 0, storageError(err, errors.UPDATE_CONTACTS, errorMsg)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, storageError(err, errors.UPDATE_CONTACTS, "Failed to read the updated contact count.")
	}
	return count, nil
}
