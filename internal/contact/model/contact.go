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

import "time"

type LinkPrecedence string

const (
	LinkPrecedencePrimary   LinkPrecedence = "primary"
	LinkPrecedenceSecondary LinkPrecedence = "secondary"
)

// Contact is a single stored identifier observation. Secondaries point at their cluster primary
// through LinkedId; primaries never carry one.
type Contact struct {
	Id             int64          `json:"id" db:"id"`
	Email          *string        `json:"email" db:"email"`
	PhoneNumber    *string        `json:"phoneNumber" db:"phone_number"`
	LinkedId       *int64         `json:"linkedId" db:"linked_id"`
	LinkPrecedence LinkPrecedence `json:"linkPrecedence" db:"link_precedence"`
	CreatedAt      time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time      `json:"updatedAt" db:"updated_at"`
	DeletedAt      *time.Time     `json:"deletedAt,omitempty" db:"deleted_at"`
}

// IsPrimary reports whether the contact is the canonical record of its cluster.
func (c Contact) IsPrimary() bool {
	return c.LinkPrecedence == LinkPrecedencePrimary
}

// Holds reports whether the contact carries the given pair. A nil field matches anything.
func (c Contact) Holds(email, phoneNumber *string) bool {
	if email != nil && (c.Email == nil || *c.Email != *email) {
		return false
	}
	if phoneNumber != nil && (c.PhoneNumber == nil || *c.PhoneNumber != *phoneNumber) {
		return false
	}
	return true
}

// NewContact carries the fields of a contact about to be inserted.
type NewContact struct {
	Email          *string
	PhoneNumber    *string
	LinkPrecedence LinkPrecedence
	LinkedId       *int64
}

// ContactUpdate carries the link fields set by a bulk update.
type ContactUpdate struct {
	LinkPrecedence LinkPrecedence
	LinkedId       *int64
}

// ContactFilter narrows a contact listing. Zero values mean no filter.
type ContactFilter struct {
	Email          string
	PhoneNumber    string
	LinkPrecedence LinkPrecedence
	Limit          int
	Offset         int
}

type ContactList struct {
	Contacts []Contact `json:"contacts"`
	Limit    int       `json:"limit"`
	Offset   int       `json:"offset"`
}
