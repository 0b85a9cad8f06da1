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

package errors

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	storage := NewServerError(LOCK_TIMEOUT, context.DeadlineExceeded)
	integrity := NewIntegrityError(CLUSTER_INTEGRITY, nil)
	rejected := NewDataRejectedError(DATA_REJECTED, nil)
	client := NewClientError(IDENTIFIER_REQUIRED, 400)

	tests := []struct {
		name           string
		err            error
		wantValidation bool
		wantStorage    bool
		wantIntegrity  bool
	}{
		{"storage", storage, false, true, false},
		{"wrapped storage", fmt.Errorf("identify: %w", storage), false, true, false},
		{"integrity", integrity, false, false, true},
		{"data rejected", rejected, false, false, false},
		{"client", client, true, false, false},
		{"plain", fmt.Errorf("boom"), false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantValidation, IsValidationError(tt.err))
			assert.Equal(t, tt.wantStorage, IsStorageError(tt.err))
			assert.Equal(t, tt.wantIntegrity, IsIntegrityError(tt.err))
			assert.Equal(t, tt.wantStorage, IsRetryable(tt.err))
		})
	}
}

func TestServerError_Error(t *testing.T) {
	withCause := NewServerError(TX_COMMIT, fmt.Errorf("connection reset"))
	assert.Equal(t, fmt.Sprintf("[%s] %s: connection reset", TX_COMMIT.Code, TX_COMMIT.Message), withCause.Error())
	assert.ErrorIs(t, NewServerError(LOCK_TIMEOUT, context.Canceled), context.Canceled)

	withoutCause := NewIntegrityError(ErrorMessage{Code: "X", Message: "broken", Description: "details"}, nil)
	assert.Equal(t, "[X] broken details", withoutCause.Error())
}

func TestWithTraceID(t *testing.T) {
	client := NewClientError(INVALID_EMAIL, 400)
	server := NewServerError(TX_BEGIN, nil)
	stamped := NewServerErrorWithTraceID(TX_BEGIN, nil, "first")

	WithTraceID(client, "t-1")
	WithTraceID(fmt.Errorf("wrapped: %w", server), "t-2")
	WithTraceID(stamped, "second")

	assert.Equal(t, "t-1", client.TraceID)
	assert.Equal(t, "t-2", server.TraceID)
	assert.Equal(t, "first", stamped.TraceID)

	plain := fmt.Errorf("plain")
	assert.Same(t, plain, WithTraceID(plain, "t-3"))
	assert.Equal(t, StorageFailure.String(), "storage_failure")
	assert.Equal(t, IntegrityViolation.String(), "integrity_violation")
	assert.Equal(t, DataRejected.String(), "data_rejected")
	assert.True(t, IsDataRejected(fmt.Errorf("insert: %w", NewDataRejectedError(DATA_REJECTED, nil))))
}
