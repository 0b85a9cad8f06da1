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

package utils

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleDecodeError(t *testing.T) {
	type payload struct {
		Email *string `json:"email"`
	}
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty", "", "Request body for identify is empty."},
		{"unknown field", `{"name":"x"}`, `Unknown field "name" in identify request body.`},
		{"malformed", `{"email":`, "Invalid JSON payload for identify."},
		{"syntax", `{"email" 1}`, "Malformed JSON in identify request body."},
		{"wrong field type", `{"email":5}`, "Invalid type for field 'email' in identify request body."},
		{"array body", `["a@x.com"]`, "Request body for identify must be a JSON object."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoder := json.NewDecoder(strings.NewReader(tt.body))
			decoder.DisallowUnknownFields()
			var p payload

			err := decoder.Decode(&p)

			assert.Equal(t, tt.want, HandleDecodeError(err, "identify"))
		})
	}
	assert.Empty(t, HandleDecodeError(nil, "identify"))
}
