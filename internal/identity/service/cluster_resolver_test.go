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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	contactModel "github.com/wso2/identity-contact-reconciliation-service/internal/contact/model"
	"github.com/wso2/identity-contact-reconciliation-service/internal/identity/model"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/errors"
)

func TestResolve_NoCandidates_CreatesPrimary(t *testing.T) {
	observation := model.Observation{Email: strPtr("a@x.com")}

	action, err := NewClusterResolver().Resolve(nil, nil, observation)

	require.NoError(t, err)
	assert.Equal(t, model.ActionCreatePrimary, action.Type)
	assert.Nil(t, action.Winner)
	assert.Equal(t, observation, action.Observation)
}

func TestResolve_SingleCluster(t *testing.T) {
	p1 := primary(1, strPtr("a@x.com"), strPtr("111"))
	s2 := secondary(2, 1, strPtr("a@x.com"), strPtr("222"))

	tests := []struct {
		name            string
		candidates      []contactModel.Contact
		observation     model.Observation
		expectedType    model.ActionType
		createSecondary bool
	}{
		{
			name:         "exact pair on primary",
			candidates:   []contactModel.Contact{p1},
			observation:  model.Observation{Email: strPtr("a@x.com"), PhoneNumber: strPtr("111")},
			expectedType: model.ActionNoOp,
		},
		{
			name:         "exact pair on secondary",
			candidates:   []contactModel.Contact{p1, s2},
			observation:  model.Observation{Email: strPtr("a@x.com"), PhoneNumber: strPtr("222")},
			expectedType: model.ActionNoOp,
		},
		{
			name:         "email only already known",
			candidates:   []contactModel.Contact{p1, s2},
			observation:  model.Observation{Email: strPtr("a@x.com")},
			expectedType: model.ActionNoOp,
		},
		{
			name:         "phone only already known",
			candidates:   []contactModel.Contact{s2},
			observation:  model.Observation{PhoneNumber: strPtr("222")},
			expectedType: model.ActionNoOp,
		},
		{
			name:            "new phone for known email",
			candidates:      []contactModel.Contact{p1, s2},
			observation:     model.Observation{Email: strPtr("a@x.com"), PhoneNumber: strPtr("333")},
			expectedType:    model.ActionAttachSecondary,
			createSecondary: true,
		},
		{
			name:            "new email for phone held by secondary",
			candidates:      []contactModel.Contact{s2},
			observation:     model.Observation{Email: strPtr("c@z.com"), PhoneNumber: strPtr("222")},
			expectedType:    model.ActionAttachSecondary,
			createSecondary: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, err := NewClusterResolver().Resolve(tt.candidates, index(p1, s2), tt.observation)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedType, action.Type)
			require.NotNil(t, action.Winner)
			assert.Equal(t, int64(1), action.Winner.Id)
			assert.Empty(t, action.Losers)
			assert.Equal(t, tt.createSecondary, action.CreateSecondary)
		})
	}
}

func TestResolve_BridgingObservation_MergesUnderLowestId(t *testing.T) {
	p1 := primary(1, strPtr("a@x.com"), strPtr("111"))
	p2 := primary(2, strPtr("b@y.com"), strPtr("222"))
	observation := model.Observation{Email: strPtr("a@x.com"), PhoneNumber: strPtr("222")}

	// Candidate order must not influence the winner.
	action, err := NewClusterResolver().Resolve([]contactModel.Contact{p2, p1}, index(p1, p2), observation)

	require.NoError(t, err)
	assert.Equal(t, model.ActionMergeClusters, action.Type)
	assert.Equal(t, int64(1), action.Winner.Id)
	require.Len(t, action.Losers, 1)
	assert.Equal(t, int64(2), action.Losers[0].Id)
	assert.True(t, action.CreateSecondary)
}

func TestResolve_BridgingThroughSecondaries_MergesRoots(t *testing.T) {
	p1 := primary(1, strPtr("a@x.com"), strPtr("111"))
	p3 := primary(3, strPtr("b@y.com"), strPtr("333"))
	s5 := secondary(5, 3, strPtr("c@z.com"), strPtr("555"))
	observation := model.Observation{Email: strPtr("c@z.com"), PhoneNumber: strPtr("111")}

	action, err := NewClusterResolver().Resolve([]contactModel.Contact{p1, s5}, index(p1, p3, s5), observation)

	require.NoError(t, err)
	assert.Equal(t, model.ActionMergeClusters, action.Type)
	assert.Equal(t, int64(1), action.Winner.Id)
	require.Len(t, action.Losers, 1)
	assert.Equal(t, int64(3), action.Losers[0].Id)
}

func TestResolve_ThreeClusters_AllLosersInOnePass(t *testing.T) {
	p4 := primary(4, strPtr("a@x.com"), nil)
	p2 := primary(2, nil, strPtr("222"))
	p9 := primary(9, strPtr("c@z.com"), nil)
	s10 := secondary(10, 9, strPtr("c@z.com"), strPtr("222"))
	observation := model.Observation{Email: strPtr("a@x.com"), PhoneNumber: strPtr("222")}

	action, err := NewClusterResolver().Resolve([]contactModel.Contact{p2, p4, s10}, index(p2, p4, p9, s10), observation)

	require.NoError(t, err)
	assert.Equal(t, model.ActionMergeClusters, action.Type)
	assert.Equal(t, int64(2), action.Winner.Id)
	require.Len(t, action.Losers, 2)
	assert.Equal(t, int64(4), action.Losers[0].Id)
	assert.Equal(t, int64(9), action.Losers[1].Id)
}

func TestResolve_MergeWithRepresentedPair_SkipsNewSecondary(t *testing.T) {
	p1 := primary(1, strPtr("a@x.com"), strPtr("111"))
	p2 := primary(2, strPtr("a@x.com"), strPtr("222"))
	observation := model.Observation{Email: strPtr("a@x.com"), PhoneNumber: strPtr("111")}

	action, err := NewClusterResolver().Resolve([]contactModel.Contact{p1, p2}, index(p1, p2), observation)

	require.NoError(t, err)
	assert.Equal(t, model.ActionMergeClusters, action.Type)
	assert.False(t, action.CreateSecondary)
}

func TestResolve_CorruptLinks_ReturnIntegrityError(t *testing.T) {
	p1 := primary(1, strPtr("a@x.com"), nil)
	chained := secondary(2, 1, strPtr("b@y.com"), nil)
	deleted := primary(7, strPtr("gone@x.com"), nil)
	deleted.DeletedAt = &p1.CreatedAt
	observation := model.Observation{Email: strPtr("c@z.com")}

	tests := []struct {
		name      string
		candidate contactModel.Contact
		roots     map[int64]contactModel.Contact
	}{
		{
			name:      "secondary linked to secondary",
			candidate: secondary(3, 2, strPtr("c@z.com"), nil),
			roots:     index(p1, chained),
		},
		{
			name:      "secondary without link",
			candidate: contactModel.Contact{Id: 3, Email: strPtr("c@z.com"), LinkPrecedence: contactModel.LinkPrecedenceSecondary},
			roots:     index(p1),
		},
		{
			name:      "dangling link",
			candidate: secondary(3, 42, strPtr("c@z.com"), nil),
			roots:     index(p1),
		},
		{
			name:      "link to deleted primary",
			candidate: secondary(3, 7, strPtr("c@z.com"), nil),
			roots:     index(deleted),
		},
		{
			name: "primary carrying a link",
			candidate: contactModel.Contact{Id: 3, Email: strPtr("c@z.com"), LinkedId: int64Ptr(1),
				LinkPrecedence: contactModel.LinkPrecedencePrimary},
			roots: index(p1),
		},
		{
			name:      "unknown precedence",
			candidate: contactModel.Contact{Id: 3, Email: strPtr("c@z.com"), LinkPrecedence: "tertiary"},
			roots:     index(p1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, err := NewClusterResolver().Resolve([]contactModel.Contact{tt.candidate}, tt.roots, observation)

			require.Error(t, err)
			assert.Nil(t, action)
			assert.True(t, errors.IsIntegrityError(err))
			assert.False(t, errors.IsRetryable(err))
		})
	}
}
