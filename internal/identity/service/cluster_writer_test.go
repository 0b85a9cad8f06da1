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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	contactModel "github.com/wso2/identity-contact-reconciliation-service/internal/contact/model"
	"github.com/wso2/identity-contact-reconciliation-service/internal/contact/store"
	"github.com/wso2/identity-contact-reconciliation-service/internal/identity/model"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/errors"
)

func applyInTx(t *testing.T, repo *store.MemoryContactRepository, action *model.MergeAction) (*model.Cluster, error) {
	t.Helper()
	var cluster *model.Cluster
	err := repo.RunInTx(context.Background(), func(ctx context.Context, contactStore store.ContactStoreInterface) error {
		var err error
		cluster, err = NewClusterWriter().Apply(ctx, contactStore, action)
		return err
	})
	return cluster, err
}

func TestApply_CreatePrimary_InsertsOneRow(t *testing.T) {
	repo := store.NewMemoryContactRepository()

	cluster, err := applyInTx(t, repo, &model.MergeAction{
		Type:        model.ActionCreatePrimary,
		Observation: model.Observation{Email: strPtr("a@x.com")},
	})

	require.NoError(t, err)
	assert.True(t, cluster.Primary.IsPrimary())
	assert.Nil(t, cluster.Primary.LinkedId)
	assert.Empty(t, cluster.Secondaries)
	assert.Len(t, repo.Contacts(), 1)
}

func TestApply_AttachSecondary_LinksToWinner(t *testing.T) {
	repo := store.NewMemoryContactRepository()
	p1 := primary(1, strPtr("a@x.com"), strPtr("111"))
	repo.Seed(p1)

	cluster, err := applyInTx(t, repo, &model.MergeAction{
		Type:            model.ActionAttachSecondary,
		Observation:     model.Observation{Email: strPtr("a@x.com"), PhoneNumber: strPtr("222")},
		Winner:          &p1,
		CreateSecondary: true,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), cluster.Primary.Id)
	require.Len(t, cluster.Secondaries, 1)
	assert.Equal(t, int64(1), *cluster.Secondaries[0].LinkedId)
	assert.Equal(t, "222", *cluster.Secondaries[0].PhoneNumber)
}

func TestApply_NoOp_WritesNothing(t *testing.T) {
	repo := store.NewMemoryContactRepository()
	p1 := primary(1, strPtr("a@x.com"), strPtr("111"))
	repo.Seed(p1, secondary(2, 1, strPtr("b@y.com"), nil))
	before := repo.Contacts()

	cluster, err := applyInTx(t, repo, &model.MergeAction{
		Type:        model.ActionNoOp,
		Observation: model.Observation{Email: strPtr("a@x.com")},
		Winner:      &p1,
	})

	require.NoError(t, err)
	assert.Len(t, cluster.Secondaries, 1)
	assert.Equal(t, before, repo.Contacts())
}

func TestApply_MergeClusters_DemotesAndRelinks(t *testing.T) {
	repo := store.NewMemoryContactRepository()
	p1 := primary(1, strPtr("a@x.com"), strPtr("111"))
	p2 := primary(2, strPtr("b@y.com"), strPtr("222"))
	p4 := primary(4, strPtr("d@w.com"), strPtr("444"))
	repo.Seed(p1, p2, secondary(3, 2, strPtr("c@z.com"), strPtr("222")), p4,
		secondary(5, 4, strPtr("d@w.com"), strPtr("555")))

	cluster, err := applyInTx(t, repo, &model.MergeAction{
		Type:            model.ActionMergeClusters,
		Observation:     model.Observation{Email: strPtr("a@x.com"), PhoneNumber: strPtr("444")},
		Winner:          &p1,
		Losers:          []contactModel.Contact{p2, p4},
		CreateSecondary: true,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), cluster.Primary.Id)
	require.Len(t, cluster.Secondaries, 5)
	for _, member := range repo.Contacts() {
		if member.Id == 1 {
			assert.True(t, member.IsPrimary())
			continue
		}
		assert.Equal(t, contactModel.LinkPrecedenceSecondary, member.LinkPrecedence, "contact %d", member.Id)
		require.NotNil(t, member.LinkedId)
		assert.Equal(t, int64(1), *member.LinkedId, "contact %d", member.Id)
	}
}

func TestApply_MergeClusters_MissingLoser_IsIntegrityError(t *testing.T) {
	repo := store.NewMemoryContactRepository()
	p1 := primary(1, strPtr("a@x.com"), nil)
	repo.Seed(p1)
	before := repo.Contacts()

	_, err := applyInTx(t, repo, &model.MergeAction{
		Type:        model.ActionMergeClusters,
		Observation: model.Observation{Email: strPtr("a@x.com")},
		Winner:      &p1,
		Losers:      []contactModel.Contact{primary(2, strPtr("b@y.com"), nil)},
	})

	require.Error(t, err)
	assert.True(t, errors.IsIntegrityError(err))
	assert.Equal(t, before, repo.Contacts())
}

func TestApply_StorageFailureMidMerge_RollsBack(t *testing.T) {
	repo := store.NewMemoryContactRepository()
	p1 := primary(1, strPtr("a@x.com"), strPtr("111"))
	p2 := primary(2, strPtr("b@y.com"), strPtr("222"))
	repo.Seed(p1, p2, secondary(3, 2, nil, strPtr("333")))
	before := repo.Contacts()
	repo.InjectFault(store.OpInsert, assert.AnError, 1)

	_, err := applyInTx(t, repo, &model.MergeAction{
		Type:            model.ActionMergeClusters,
		Observation:     model.Observation{Email: strPtr("a@x.com"), PhoneNumber: strPtr("222")},
		Winner:          &p1,
		Losers:          []contactModel.Contact{p2},
		CreateSecondary: true,
	})

	require.Error(t, err)
	assert.True(t, errors.IsStorageError(err))
	assert.Equal(t, before, repo.Contacts())
}
