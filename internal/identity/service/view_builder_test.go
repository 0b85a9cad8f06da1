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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	contactModel "github.com/wso2/identity-contact-reconciliation-service/internal/contact/model"
)

func TestBuildView_OrdersPrimaryFirstThenSecondariesById(t *testing.T) {
	p1 := primary(1, strPtr("a@x.com"), strPtr("111"))
	secondaries := []contactModel.Contact{
		secondary(7, 1, strPtr("c@z.com"), strPtr("111")),
		secondary(3, 1, strPtr("b@y.com"), strPtr("333")),
		secondary(5, 1, strPtr("a@x.com"), nil),
		secondary(4, 1, nil, strPtr("222")),
	}

	view := NewViewBuilder().BuildView(p1, secondaries)

	assert.Equal(t, int64(1), view.PrimaryContactId)
	assert.Equal(t, []string{"a@x.com", "b@y.com", "c@z.com"}, view.Emails)
	assert.Equal(t, []string{"111", "333", "222"}, view.PhoneNumbers)
	assert.Equal(t, []int64{3, 4, 5, 7}, view.SecondaryContactIds)
	// The caller's slice is left untouched.
	assert.Equal(t, int64(7), secondaries[0].Id)
}

func TestBuildView_PrimaryWithoutPhone_EncodesEmptyLists(t *testing.T) {
	view := NewViewBuilder().BuildView(primary(1, strPtr("a@x.com"), nil), nil)

	body, err := json.Marshal(view)
	require.NoError(t, err)
	assert.JSONEq(t, `{"primaryContactId":1,"emails":["a@x.com"],"phoneNumbers":[],"secondaryContactIds":[]}`,
		string(body))
}

func TestBuildView_SecondaryValuesBeforePrimaryGaps(t *testing.T) {
	view := NewViewBuilder().BuildView(primary(2, nil, strPtr("222")), []contactModel.Contact{
		secondary(6, 2, strPtr("b@y.com"), strPtr("222")),
	})

	assert.Equal(t, []string{"b@y.com"}, view.Emails)
	assert.Equal(t, []string{"222"}, view.PhoneNumbers)
	assert.Equal(t, []int64{6}, view.SecondaryContactIds)
}
