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
	"fmt"
	"sort"

	contactModel "github.com/wso2/identity-contact-reconciliation-service/internal/contact/model"
	"github.com/wso2/identity-contact-reconciliation-service/internal/identity/model"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/errors"
)

// ClusterResolver decides how an observation changes the clusters it touches. It performs no I/O.
type ClusterResolver struct{}

func NewClusterResolver() *ClusterResolver {
	return &ClusterResolver{}
}

// Resolve classifies the candidates by cluster root and returns the action absorbing the observation.
// roots must hold every contact a candidate links to; LoadRoots builds it.
func (r *ClusterResolver) Resolve(candidates []contactModel.Contact, roots map[int64]contactModel.Contact,
	observation model.Observation) (*model.MergeAction, error) {

	if len(candidates) == 0 {
		return &model.MergeAction{
			Type:        model.ActionCreatePrimary,
			Observation: observation,
		}, nil
	}

	distinct := map[int64]contactModel.Contact{}
	for _, candidate := range candidates {
		root, err := resolveRoot(candidate, roots)
		if err != nil {
			return nil, err
		}
		distinct[root.Id] = root
	}

	ordered := make([]contactModel.Contact, 0, len(distinct))
	for _, root := range distinct {
		ordered = append(ordered, root)
	}
	// Seniority is the id order; the lowest id survives a merge.
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Id < ordered[j].Id })

	represented := false
	for _, candidate := range candidates {
		if candidate.Holds(observation.Email, observation.PhoneNumber) {
			represented = true
			break
		}
	}

	winner := ordered[0]
	if len(ordered) == 1 {
		if represented {
			return &model.MergeAction{
				Type:        model.ActionNoOp,
				Observation: observation,
				Winner:      &winner,
			}, nil
		}
		return &model.MergeAction{
			Type:            model.ActionAttachSecondary,
			Observation:     observation,
			Winner:          &winner,
			CreateSecondary: true,
		}, nil
	}

	return &model.MergeAction{
		Type:            model.ActionMergeClusters,
		Observation:     observation,
		Winner:          &winner,
		Losers:          ordered[1:],
		CreateSecondary: !represented,
	}, nil
}

// resolveRoot returns the primary a candidate belongs to. Links are one hop deep, so anything other
// than a live primary at the end of the link is corrupt data.
func resolveRoot(candidate contactModel.Contact, roots map[int64]contactModel.Contact) (contactModel.Contact, error) {

	if candidate.IsPrimary() {
		if candidate.LinkedId != nil {
			return contactModel.Contact{}, integrityError(fmt.Sprintf(
				"Primary contact %d links to contact %d.", candidate.Id, *candidate.LinkedId))
		}
		return candidate, nil
	}
	if candidate.LinkPrecedence != contactModel.LinkPrecedenceSecondary {
		return contactModel.Contact{}, integrityError(fmt.Sprintf(
			"Contact %d has unknown link precedence %q.", candidate.Id, candidate.LinkPrecedence))
	}
	if candidate.LinkedId == nil {
		return contactModel.Contact{}, integrityError(fmt.Sprintf(
			"Secondary contact %d has no linked contact.", candidate.Id))
	}

	root, ok := roots[*candidate.LinkedId]
	if !ok || root.DeletedAt != nil {
		return contactModel.Contact{}, integrityError(fmt.Sprintf(
			"Secondary contact %d links to missing contact %d.", candidate.Id, *candidate.LinkedId))
	}
	if !root.IsPrimary() {
		return contactModel.Contact{}, integrityError(fmt.Sprintf(
			"Secondary contact %d links to secondary contact %d.", candidate.Id, root.Id))
	}
	if root.LinkedId != nil {
		return contactModel.Contact{}, integrityError(fmt.Sprintf(
			"Primary contact %d links to contact %d.", root.Id, *root.LinkedId))
	}
	return root, nil
}

func integrityError(description string) error {
	return errors.NewIntegrityError(errors.ErrorMessage{
		Code:        errors.CLUSTER_INTEGRITY.Code,
		Message:     errors.CLUSTER_INTEGRITY.Message,
		Description: description,
	}, nil)
}
