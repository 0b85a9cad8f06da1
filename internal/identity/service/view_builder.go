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
	"sort"

	contactModel "github.com/wso2/identity-contact-reconciliation-service/internal/contact/model"
	"github.com/wso2/identity-contact-reconciliation-service/internal/identity/model"
)

type ViewBuilder struct{}

func NewViewBuilder() *ViewBuilder {
	return &ViewBuilder{}
}

// BuildView lists the distinct emails and phone numbers of a cluster, the primary's first and then
// the secondaries' in ascending id order, along with the secondary ids.
func (b *ViewBuilder) BuildView(primary contactModel.Contact, secondaries []contactModel.Contact) model.ClusterView {

	ordered := make([]contactModel.Contact, len(secondaries))
	copy(ordered, secondaries)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Id < ordered[j].Id })

	view := model.ClusterView{
		PrimaryContactId:    primary.Id,
		Emails:              []string{},
		PhoneNumbers:        []string{},
		SecondaryContactIds: make([]int64, 0, len(ordered)),
	}
	seenEmails := map[string]bool{}
	seenPhones := map[string]bool{}
	add := func(contact contactModel.Contact) {
		if contact.Email != nil && !seenEmails[*contact.Email] {
			seenEmails[*contact.Email] = true
			view.Emails = append(view.Emails, *contact.Email)
		}
		if contact.PhoneNumber != nil && !seenPhones[*contact.PhoneNumber] {
			seenPhones[*contact.PhoneNumber] = true
			view.PhoneNumbers = append(view.PhoneNumbers, *contact.PhoneNumber)
		}
	}

	add(primary)
	for _, secondary := range ordered {
		add(secondary)
		view.SecondaryContactIds = append(view.SecondaryContactIds, secondary.Id)
	}
	return view
}
