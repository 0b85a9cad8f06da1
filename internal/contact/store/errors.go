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
	stderrors "errors"

	"github.com/lib/pq"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/errors"
)

const (
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
	pqLockNotAvailable     = "55P03"
	pqQueryCanceled        = "57014"

	pqClassDataException       = "22"
	pqClassIntegrityConstraint = "23"
)

// storageError wraps a database failure as a StorageFailure server error. Lock waits that ran out and
// transactions aborted by the database keep their own codes so callers can tell them apart. Data
// exceptions and constraint violations fail the same way on every attempt and are reported as
// DataRejected instead.
func storageError(err error, msg errors.ErrorMessage, description string) error {

	var serverError *errors.ServerError
	if stderrors.As(err, &serverError) {
		return err
	}
	var clientError *errors.ClientError
	if stderrors.As(err, &clientError) {
		return err
	}

	errorMessage := msg
	var pqErr *pq.Error
	switch {
	case stderrors.As(err, &pqErr):
		switch string(pqErr.Code.Class()) {
		case pqClassDataException, pqClassIntegrityConstraint:
			return errors.NewDataRejectedError(errors.ErrorMessage{
				Code:        errors.DATA_REJECTED.Code,
				Message:     errors.DATA_REJECTED.Message,
				Description: description,
			}, err)
		}
		switch string(pqErr.Code) {
		case pqLockNotAvailable, pqQueryCanceled:
			errorMessage = errors.LOCK_TIMEOUT
		case pqSerializationFailure, pqDeadlockDetected:
			errorMessage = errors.TX_CONFLICT
		}
	case stderrors.Is(err, context.DeadlineExceeded), stderrors.Is(err, context.Canceled):
		errorMessage = errors.LOCK_TIMEOUT
	}

	return errors.NewServerError(errors.ErrorMessage{
		Code:        errorMessage.Code,
		Message:     errorMessage.Message,
		Description: description,
	}, err)
}
