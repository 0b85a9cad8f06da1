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

const errorPrefix = "CRS-"

var (
	// Server error codes

	DB_CLIENT_INIT = ErrorMessage{
		Code:    errorPrefix + "15001",
		Message: "Unable to initialize database client.",
	}

	FETCH_CONTACTS = ErrorMessage{
		Code:    errorPrefix + "15002",
		Message: "Error while fetching contacts.",
	}

	ADD_CONTACT = ErrorMessage{
		Code:    errorPrefix + "15003",
		Message: "Error while adding contact.",
	}

	UPDATE_CONTACTS = ErrorMessage{
		Code:    errorPrefix + "15004",
		Message: "Error while updating contacts.",
	}

	LOCK_ACQUIRE = ErrorMessage{
		Code:    errorPrefix + "15005",
		Message: "Advisory lock acquisition failed",
	}

	LOCK_KEY_GEN = ErrorMessage{
		Code:    errorPrefix + "15006",
		Message: "Error generating advisory lock key",
	}

	LOCK_TIMEOUT = ErrorMessage{
		Code:    errorPrefix + "15007",
		Message: "Timed out while waiting for contact locks.",
	}

	TX_CONFLICT = ErrorMessage{
		Code:    errorPrefix + "15008",
		Message: "Concurrent modification of contacts detected.",
	}

	TX_BEGIN = ErrorMessage{
		Code:    errorPrefix + "15009",
		Message: "Error while starting the contact transaction.",
	}

	TX_COMMIT = ErrorMessage{
		Code:    errorPrefix + "15010",
		Message: "Error while committing the contact transaction.",
	}

	CLUSTER_INTEGRITY = ErrorMessage{
		Code:    errorPrefix + "15011",
		Message: "Contact cluster integrity violation.",
	}

	DB_MIGRATION = ErrorMessage{
		Code:    errorPrefix + "15012",
		Message: "Error while migrating the database schema.",
	}

	DATA_REJECTED = ErrorMessage{
		Code:    errorPrefix + "15013",
		Message: "Contact data rejected by the database.",
	}

	// Client error codes
	BAD_REQUEST = ErrorMessage{
		Code:    errorPrefix + "11001",
		Message: "Invalid body format.",
	}

	IDENTIFIER_REQUIRED = ErrorMessage{
		Code:        errorPrefix + "11002",
		Message:     "Missing contact identifier.",
		Description: "At least one of email or phoneNumber must be provided",
	}

	INVALID_EMAIL = ErrorMessage{
		Code:    errorPrefix + "11003",
		Message: "Invalid email format.",
	}

	INVALID_PHONE_NUMBER = ErrorMessage{
		Code:    errorPrefix + "11004",
		Message: "Invalid phone number format.",
	}

	CONTACT_NOT_FOUND = ErrorMessage{
		Code:        errorPrefix + "11005",
		Message:     "Contact not found.",
		Description: "No contact record found for the given contact id",
	}

	INVALID_CONTACT_ID = ErrorMessage{
		Code:    errorPrefix + "11006",
		Message: "Invalid contact id.",
	}

	INVALID_PAGINATION = ErrorMessage{
		Code:    errorPrefix + "11007",
		Message: "Invalid pagination parameters.",
	}
)
