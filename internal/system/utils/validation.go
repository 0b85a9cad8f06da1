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
	"net/http"
	"regexp"
	"strings"

	"github.com/wso2/identity-contact-reconciliation-service/internal/system/errors"
)

var (
	emailPattern          = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneNumberPattern    = regexp.MustCompile(`^[\+]?[1-9][\d\s\-\(\)\.]{6,20}$`)
	phoneSeparatorPattern = regexp.MustCompile(`[\s\-\(\)\.]+`)
)

const (
	minPhoneNumberLength = 7
	// maxEmailLength matches the width of the contacts.email column.
	maxEmailLength       = 255
)

// NormalizeEmail trims the value and validates its format and length. Nil or blank input yields nil.
func NormalizeEmail(email *string) (*string, error) {

	value := trimmed(email)
	if value == nil {
		return nil, nil
	}
	if len(*value) > maxEmailLength {
		return nil, errors.NewClientError(errors.ErrorMessage{
			Code:        errors.INVALID_EMAIL.Code,
			Message:     errors.INVALID_EMAIL.Message,
			Description: "Email must not exceed 255 characters",
		}, http.StatusBadRequest)
	}
	if !emailPattern.MatchString(*value) {
		return nil, errors.NewClientError(errors.ErrorMessage{
			Code:        errors.INVALID_EMAIL.Code,
			Message:     errors.INVALID_EMAIL.Message,
			Description: "Invalid email format",
		}, http.StatusBadRequest)
	}
	return value, nil
}

// NormalizePhoneNumber trims the value and validates its format. Nil or blank input yields nil.
// The stored value keeps the caller's formatting.
func NormalizePhoneNumber(phoneNumber *string) (*string, error) {

	value := trimmed(phoneNumber)
	if value == nil {
		return nil, nil
	}
	digits := phoneSeparatorPattern.ReplaceAllString(*value, "")
	if !phoneNumberPattern.MatchString(*value) || len(digits) < minPhoneNumberLength {
		return nil, errors.NewClientError(errors.ErrorMessage{
			Code:        errors.INVALID_PHONE_NUMBER.Code,
			Message:     errors.INVALID_PHONE_NUMBER.Message,
			Description: "Invalid phone number format",
		}, http.StatusBadRequest)
	}
	return value, nil
}

// NormalizeIdentifiers normalizes both identifiers and requires at least one of them.
func NormalizeIdentifiers(email, phoneNumber *string) (*string, *string, error) {

	normalizedEmail, err := NormalizeEmail(email)
	if err != nil {
		return nil, nil, err
	}
	normalizedPhone, err := NormalizePhoneNumber(phoneNumber)
	if err != nil {
		return nil, nil, err
	}
	if normalizedEmail == nil && normalizedPhone == nil {
		return nil, nil, errors.NewClientError(errors.IDENTIFIER_REQUIRED, http.StatusBadRequest)
	}
	return normalizedEmail, normalizedPhone, nil
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}
