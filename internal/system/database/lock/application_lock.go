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

package lock

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/jmoiron/sqlx"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/database/scripts"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/errors"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/log"
)

// TxLocker takes transaction scoped PostgreSQL advisory locks. The locks are released when the
// surrounding transaction commits or rolls back.
type TxLocker struct {
	dbType string
}

func NewTxLocker(dbType string) *TxLocker {
	return &TxLocker{dbType: dbType}
}

// GenerateLockKey hashes a string key into the bigint space used by pg advisory locks.
func GenerateLockKey(key string) (int64, error) {

	h := fnv.New64a()
	if _, err := h.Write([]byte(key)); err != nil {
		errorMsg := fmt.Sprintf("failed to hash lock key '%s'", key)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return 0, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_KEY_GEN.Code,
			Message:     errors.LOCK_KEY_GEN.Message,
			Description: errorMsg,
		}, err)
	}
	return int64(h.Sum64()), nil
}

// LockKeys hashes the given keys and acquires their locks in ascending key order, blocking until each
// one is granted. Duplicate keys are locked once.
func (l *TxLocker) LockKeys(ctx context.Context, tx *sqlx.Tx, keys []string) error {

	logger := log.GetLogger()
	lockIDs := make([]int64, 0, len(keys))
	seen := make(map[int64]bool, len(keys))
	for _, key := range keys {
		lockID, err := GenerateLockKey(key)
		if err != nil {
			return err
		}
		if seen[lockID] {
			continue
		}
		seen[lockID] = true
		lockIDs = append(lockIDs, lockID)
	}
	// A fixed acquisition order keeps two transactions from waiting on each other.
	sort.Slice(lockIDs, func(i, j int) bool { return lockIDs[i] < lockIDs[j] })

	query := scripts.AcquireXactLock[l.dbType]
	for _, lockID := range lockIDs {
		if _, err := tx.ExecContext(ctx, query, lockID); err != nil {
			errorMsg := fmt.Sprintf("Failed to acquire advisory lock %d", lockID)
			logger.Debug(errorMsg, log.Error(err))
			return err
		}
	}
	logger.Debug("Advisory locks acquired", log.Int("count", len(lockIDs)))
	return nil
}
