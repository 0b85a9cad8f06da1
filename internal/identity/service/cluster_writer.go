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

	contactModel "github.com/wso2/identity-contact-reconciliation-service/internal/contact/model"
	"github.com/wso2/identity-contact-reconciliation-service/internal/contact/store"
	"github.com/wso2/identity-contact-reconciliation-service/internal/identity/model"
)

// ClusterWriter applies a MergeAction. It must run inside the transaction the action was resolved
// in, so the rows it relies on are still locked.
type ClusterWriter struct{}

func NewClusterWriter() *ClusterWriter {
	return &ClusterWriter{}
}

// Apply performs the writes of action and returns the resulting cluster.
func (w *ClusterWriter) Apply(ctx context.Context, contactStore store.ContactStoreInterface,
	action *model.MergeAction) (*model.Cluster, error) {

	switch action.Type {
	case model.ActionCreatePrimary:
		created, err := contactStore.Insert(ctx, contactModel.NewContact{
			Email:          action.Observation.Email,
			PhoneNumber:    action.Observation.PhoneNumber,
			LinkPrecedence: contactModel.LinkPrecedencePrimary,
		})
		if err != nil {
			return nil, err
		}
		return &model.Cluster{Primary: *created}, nil

	case model.ActionNoOp:

	case model.ActionAttachSecondary:
		if err := w.insertSecondary(ctx, contactStore, action); err != nil {
			return nil, err
		}

	case model.ActionMergeClusters:
		if err := w.merge(ctx, contactStore, action); err != nil {
			return nil, err
		}
		if action.CreateSecondary {
			if err := w.insertSecondary(ctx, contactStore, action); err != nil {
				return nil, err
			}
		}

	default:
		return nil, integrityError(fmt.Sprintf("Unknown merge action %q.", action.Type))
	}

	return w.loadCluster(ctx, contactStore, action.Winner.Id)
}

// merge demotes the losing primaries under the winner and re-points their secondaries at it, keeping
// every link one hop deep.
func (w *ClusterWriter) merge(ctx context.Context, contactStore store.ContactStoreInterface,
	action *model.MergeAction) error {

	winnerId := action.Winner.Id
	loserIds := make([]int64, 0, len(action.Losers))
	for _, loser := range action.Losers {
		loserIds = append(loserIds, loser.Id)
	}

	toWinner := contactModel.ContactUpdate{
		LinkPrecedence: contactModel.LinkPrecedenceSecondary,
		LinkedId:       &winnerId,
	}
	demoted, err := contactStore.UpdateMany(ctx, loserIds, toWinner)
	if err != nil {
		return err
	}
	if demoted != int64(len(loserIds)) {
		return integrityError(fmt.Sprintf("Demoted %d of primaries %v under contact %d.",
			demoted, loserIds, winnerId))
	}

	members, err := contactStore.FindClusterMembers(ctx, loserIds)
	if err != nil {
		return err
	}
	var relinkIds []int64
	for _, member := range members {
		if member.LinkedId != nil && *member.LinkedId != winnerId {
			relinkIds = append(relinkIds, member.Id)
		}
	}
	if len(relinkIds) == 0 {
		return nil
	}
	relinked, err := contactStore.UpdateMany(ctx, relinkIds, toWinner)
	if err != nil {
		return err
	}
	if relinked != int64(len(relinkIds)) {
		return integrityError(fmt.Sprintf("Relinked %d of secondaries %v to contact %d.",
			relinked, relinkIds, winnerId))
	}
	return nil
}

func (w *ClusterWriter) insertSecondary(ctx context.Context, contactStore store.ContactStoreInterface,
	action *model.MergeAction) error {

	winnerId := action.Winner.Id
	_, err := contactStore.Insert(ctx, contactModel.NewContact{
		Email:          action.Observation.Email,
		PhoneNumber:    action.Observation.PhoneNumber,
		LinkPrecedence: contactModel.LinkPrecedenceSecondary,
		LinkedId:       &winnerId,
	})
	return err
}

// loadCluster reads the primary and secondaries of a cluster from the store.
func (w *ClusterWriter) loadCluster(ctx context.Context, contactStore store.ContactStoreInterface,
	primaryId int64) (*model.Cluster, error) {

	members, err := contactStore.FindClusterMembers(ctx, []int64{primaryId})
	if err != nil {
		return nil, err
	}

	cluster := &model.Cluster{}
	found := false
	for _, member := range members {
		if member.Id == primaryId {
			if !member.IsPrimary() {
				return nil, integrityError(fmt.Sprintf("Cluster root %d is not a primary contact.", primaryId))
			}
			cluster.Primary = member
			found = true
			continue
		}
		if member.IsPrimary() {
			return nil, integrityError(fmt.Sprintf("Primary contact %d links to contact %d.", member.Id, primaryId))
		}
		cluster.Secondaries = append(cluster.Secondaries, member)
	}
	if !found {
		return nil, integrityError(fmt.Sprintf("Cluster root %d was not found.", primaryId))
	}
	return cluster, nil
}
