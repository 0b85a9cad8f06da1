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
	"database/sql"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/identity-contact-reconciliation-service/internal/contact/model"
)

// ResetContacts empties the contact table and restarts its id sequence.
func ResetContacts(t testing.TB, db *sql.DB) {
	t.Helper()
	_, err := db.Exec(`TRUNCATE contacts RESTART IDENTITY`)
	require.NoError(t, err)
}

// SeedContact inserts a contact row as is and returns its id.
func SeedContact(t testing.TB, db *sql.DB, email, phoneNumber *string, linkedId *int64,
	precedence model.LinkPrecedence) int64 {
	t.Helper()
	var id int64
	err := db.QueryRow(`INSERT INTO contacts (email, phone_number, linked_id, link_precedence)
		VALUES ($1, $2, $3, $4) RETURNING id`, email, phoneNumber, linkedId, precedence).Scan(&id)
	require.NoError(t, err)
	return id
}

// SoftDeleteContact marks a contact row as deleted.
func SoftDeleteContact(t testing.TB, db *sql.DB, id int64) {
	t.Helper()
	_, err := db.Exec(`UPDATE contacts SET deleted_at = now() WHERE id = $1`, id)
	require.NoError(t, err)
}

// FetchContacts returns every live contact ordered by id.
func FetchContacts(t testing.TB, db *sql.DB) []model.Contact {
	t.Helper()
	var contacts []model.Contact
	err := sqlx.NewDb(db, "postgres").Select(&contacts, `SELECT id, email, phone_number, linked_id,
		link_precedence, created_at, updated_at, deleted_at FROM contacts WHERE deleted_at IS NULL ORDER BY id`)
	require.NoError(t, err)
	return contacts
}

// AssertClusterInvariants checks that every secondary links straight to a live primary and that
// no identifier is shared across two clusters.
func AssertClusterInvariants(t testing.TB, db *sql.DB) {
	t.Helper()
	contacts := FetchContacts(t, db)
	byId := make(map[int64]model.Contact, len(contacts))
	for _, contact := range contacts {
		byId[contact.Id] = contact
	}

	rootOf := func(contact model.Contact) int64 {
		if contact.IsPrimary() {
			return contact.Id
		}
		return *contact.LinkedId
	}
	emailCluster := map[string]int64{}
	phoneCluster := map[string]int64{}
	for _, contact := range contacts {
		if contact.IsPrimary() {
			assert.Nil(t, contact.LinkedId, "primary %d carries a link", contact.Id)
		} else {
			require.NotNil(t, contact.LinkedId, "secondary %d has no link", contact.Id)
			root, ok := byId[*contact.LinkedId]
			require.True(t, ok, "secondary %d links to a missing contact", contact.Id)
			assert.True(t, root.IsPrimary(), "secondary %d links to secondary %d", contact.Id, root.Id)
		}
		root := rootOf(contact)
		if contact.Email != nil {
			if other, seen := emailCluster[*contact.Email]; seen {
				assert.Equal(t, other, root, "email %s spans two clusters", *contact.Email)
			}
			emailCluster[*contact.Email] = root
		}
		if contact.PhoneNumber != nil {
			if other, seen := phoneCluster[*contact.PhoneNumber]; seen {
				assert.Equal(t, other, root, "phone number %s spans two clusters", *contact.PhoneNumber)
			}
			phoneCluster[*contact.PhoneNumber] = root
		}
	}
}

// CountPrimaries returns the number of live primary contacts.
func CountPrimaries(t testing.TB, db *sql.DB) int {
	t.Helper()
	var count int
	require.NoError(t, db.QueryRow(
		`SELECT count(*) FROM contacts WHERE link_precedence = 'primary' AND deleted_at IS NULL`).Scan(&count))
	return count
}
