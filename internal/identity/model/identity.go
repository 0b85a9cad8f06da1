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

package model

import (
	contactModel "github.com/wso2/identity-contact-reconciliation-service/internal/contact/model"
)

// ActionType names the structural change an observation causes.
type ActionType string

const (
	ActionNoOp            ActionType = "no_op"
	ActionCreatePrimary   ActionType = "create_primary"
	ActionAttachSecondary ActionType = "attach_secondary"
	ActionMergeClusters   ActionType = "merge_clusters"
)

// Observation is a normalised identifier pair. At least one field is set.
type Observation struct {
	Email       *string
	PhoneNumber *string
}

// MergeAction describes the mutations needed to absorb an observation.
type MergeAction struct {
	Type        ActionType
	Observation Observation
	// Winner is the primary the observation ends up in. Nil for CreatePrimary.
	Winner *contactModel.Contact
	// Losers are the primaries demoted under Winner, ascending by id. MergeClusters only.
	Losers []contactModel.Contact
	// CreateSecondary asks for a new secondary under Winner holding the observed pair.
	CreateSecondary bool
}

// Cluster is a primary and its current secondaries.
type Cluster struct {
	Primary     contactModel.Contact
	Secondaries []contactModel.Contact
}

// ClusterView is the unified identity returned to callers.
type ClusterView struct {
	PrimaryContactId    int64    `json:"primaryContactId"`
	Emails              []string `json:"emails"`
	PhoneNumbers        []string `json:"phoneNumbers"`
	SecondaryContactIds []int64  `json:"secondaryContactIds"`
}

// IdentifyRequest is the body of an identify call.
type IdentifyRequest struct {
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phoneNumber"`
}
