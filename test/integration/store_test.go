//go:build integration

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

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/identity-contact-reconciliation-service/internal/contact/model"
	"github.com/wso2/identity-contact-reconciliation-service/internal/contact/store"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/config"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/database/client"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/errors"
	"github.com/wso2/identity-contact-reconciliation-service/test/integration/utils"
)

func newRepository(lockTimeout time.Duration) *store.PostgresContactRepository {
	return store.NewPostgresContactRepository(client.NewDBClient(sqlx.NewDb(testDB, "postgres")),
		config.IdentifyConfig{LockTimeout: lockTimeout, TxTimeout: 5 * time.Second})
}

func TestPostgresStore_LockedRowTimesOut(t *testing.T) {
	utils.ResetContacts(t, testDB)
	utils.SeedContact(t, testDB, strPtr("a@x.com"), nil, nil, model.LinkPrecedencePrimary)

	holder, err := testDB.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer func() { _ = holder.Rollback() }()
	_, err = holder.Exec(`SELECT id FROM contacts WHERE id = 1 FOR UPDATE`)
	require.NoError(t, err)

	repo := newRepository(200 * time.Millisecond)
	err = repo.RunInTx(context.Background(), func(ctx context.Context, s store.ContactStoreInterface) error {
		_, err := s.FindByEmailOrPhone(ctx, strPtr("a@x.com"), nil)
		return err
	})

	require.Error(t, err)
	assert.True(t, errors.IsRetryable(err))
	assert.Equal(t, errors.LOCK_TIMEOUT.Code, err.(*errors.ServerError).Code)
}

func TestPostgresStore_RollsBackOnError(t *testing.T) {
	utils.ResetContacts(t, testDB)
	repo := newRepository(time.Second)

	err := repo.RunInTx(context.Background(), func(ctx context.Context, s store.ContactStoreInterface) error {
		if err := s.LockIdentifiers(ctx, "email:a@x.com", "phone:1111111"); err != nil {
			return err
		}
		if _, err := s.Insert(ctx, model.NewContact{Email: strPtr("a@x.com"),
			LinkPrecedence: model.LinkPrecedencePrimary}); err != nil {
			return err
		}
		return assert.AnError
	})

	assert.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, utils.FetchContacts(t, testDB))
}

func TestPostgresStore_TxOperations(t *testing.T) {
	utils.ResetContacts(t, testDB)
	utils.SeedContact(t, testDB, strPtr("a@x.com"), strPtr("1111111"), nil, model.LinkPrecedencePrimary)
	utils.SeedContact(t, testDB, strPtr("b@y.com"), nil, nil, model.LinkPrecedencePrimary)
	utils.SeedContact(t, testDB, nil, strPtr("2222222"), int64Ptr(2), model.LinkPrecedenceSecondary)
	repo := newRepository(time.Second)

	err := repo.RunInTx(context.Background(), func(ctx context.Context, s store.ContactStoreInterface) error {
		matches, err := s.FindByEmailOrPhone(ctx, strPtr("b@y.com"), strPtr("1111111"))
		require.NoError(t, err)
		assert.Len(t, matches, 2)

		members, err := s.FindClusterMembers(ctx, []int64{2})
		require.NoError(t, err)
		assert.Len(t, members, 2)

		byIds, err := s.FindByIDs(ctx, []int64{3, 1})
		require.NoError(t, err)
		require.Len(t, byIds, 2)
		assert.Equal(t, int64(1), byIds[0].Id)

		count, err := s.UpdateMany(ctx, []int64{2, 3}, model.ContactUpdate{
			LinkPrecedence: model.LinkPrecedenceSecondary,
			LinkedId:       int64Ptr(1),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		created, err := s.Insert(ctx, model.NewContact{Email: strPtr("b@y.com"), PhoneNumber: strPtr("1111111"),
			LinkPrecedence: model.LinkPrecedenceSecondary, LinkedId: int64Ptr(1)})
		require.NoError(t, err)
		assert.Equal(t, int64(4), created.Id)
		assert.False(t, created.CreatedAt.IsZero())
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, utils.CountPrimaries(t, testDB))
	utils.AssertClusterInvariants(t, testDB)
}
