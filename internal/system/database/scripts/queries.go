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

package scripts

var AcquireXactLock = map[string]string{
	"postgres": `SELECT pg_advisory_xact_lock($1)`,
}

// SetLockTimeout bounds every row or advisory lock wait in the current transaction.
var SetLockTimeout = map[string]string{
	"postgres": `SELECT set_config('lock_timeout', $1, true)`,
}

var HealthCheck = map[string]string{
	"postgres": `SELECT 1 AS ok`,
}

var FindContactsByEmailOrPhone = map[string]string{
	"postgres": `SELECT id, email, phone_number, linked_id, link_precedence, created_at, updated_at, deleted_at
        FROM contacts WHERE deleted_at IS NULL AND (email = $1 OR phone_number = $2)
        ORDER BY id FOR UPDATE`,
}

var FindContactsByIDs = map[string]string{
	"postgres": `SELECT id, email, phone_number, linked_id, link_precedence, created_at, updated_at, deleted_at
        FROM contacts WHERE deleted_at IS NULL AND id = ANY($1)
        ORDER BY id FOR UPDATE`,
}

var FindClusterMembers = map[string]string{
	"postgres": `SELECT id, email, phone_number, linked_id, link_precedence, created_at, updated_at, deleted_at
        FROM contacts WHERE deleted_at IS NULL AND (id = ANY($1) OR linked_id = ANY($1))
        ORDER BY id FOR UPDATE`,
}

var GetContactByID = map[string]string{
	"postgres": `SELECT id, email, phone_number, linked_id, link_precedence, created_at, updated_at, deleted_at
        FROM contacts WHERE id = $1 AND deleted_at IS NULL`,
}
