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
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/errors"
)

func TestStorageError_Classification(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"lock not available", &pq.Error{Code: "55P03"}, errors.LOCK_TIMEOUT.Code},
		{"statement cancelled", &pq.Error{Code: "57014"}, errors.LOCK_TIMEOUT.Code},
		{"serialization failure", &pq.Error{Code: "40001"}, errors.TX_CONFLICT.Code},
		{"deadlock", fmt.Errorf("exec: %w", &pq.Error{Code: "40P01"}), errors.TX_CONFLICT.Code},
		{"deadline", context.DeadlineExceeded, errors.LOCK_TIMEOUT.Code},
		{"cancelled", context.Canceled, errors.LOCK_TIMEOUT.Code},
		{"other", assert.AnError, errors.ADD_CONTACT.Code},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := storageError(tt.err, errors.ADD_CONTACT, "insert failed")

			serverErr, ok := err.(*errors.ServerError)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, serverErr.Code)
			assert.Equal(t, "insert failed", serverErr.Description)
			assert.True(t, errors.IsRetryable(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestStorageError_RejectedDataIsNotRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"value too long", &pq.Error{Code: "22001"}},
		{"invalid text representation", fmt.Errorf("exec: %w", &pq.Error{Code: "22P02"})},
		{"check violation", &pq.Error{Code: "23514"}},
		{"unique violation", &pq.Error{Code: "23505"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := storageError(tt.err, errors.ADD_CONTACT, "insert failed")

			serverErr, ok := err.(*errors.ServerError)
			require.True(t, ok)
			assert.Equal(t, errors.DATA_REJECTED.Code, serverErr.Code)
			assert.Equal(t, "insert failed", serverErr.Description)
			assert.True(t, errors.IsDataRejected(err))
			assert.False(t, errors.IsStorageError(err))
			assert.False(t, errors.IsRetryable(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestStorageError_PassesTypedErrorsThrough(t *testing.T) {
	integrity := errors.NewIntegrityError(errors.CLUSTER_INTEGRITY, nil)
	client := errors.NewClientError(errors.BAD_REQUEST, 400)

	assert.Same(t, integrity, storageError(integrity, errors.FETCH_CONTACTS, "x"))
	assert.Same(t, client, storageError(client, errors.FETCH_CONTACTS, "x"))
}
