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
	"errors"
	"fmt"
)

type ErrorMessage struct {
	Code        string `json:"error_code"`
	Message     string `json:"error_message"`
	Description string `json:"error_description"`
	TraceID     string `json:"trace_id,omitempty"`
}

// ServerErrorKind separates transient storage failures from structural data corruption.
type ServerErrorKind int

const (
	// StorageFailure is a transient I/O, lock timeout or transaction conflict. Safe to retry.
	StorageFailure ServerErrorKind = iota
	// IntegrityViolation is pre-existing data corruption of a contact cluster. Never retried.
	IntegrityViolation
	// DataRejected is a write the database refuses on every attempt, such as an oversized value or a
	// failed constraint. Never retried.
	DataRejected
)

func (k ServerErrorKind) String() string {
	switch k {
	case StorageFailure:
		return "storage_failure"
	case IntegrityViolation:
		return "integrity_violation"
	case DataRejected:
		return "data_rejected"
	default:
		return "unknown"
	}
}

type ClientError struct {
	ErrorMessage
	StatusCode int
}

type ServerError struct {
	ErrorMessage
	Kind ServerErrorKind
	Err  error
}

func (e *ServerError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("[%s] %s %s", e.Code, e.Message, e.Description)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
}

func (e *ServerError) Unwrap() error {
	return e.Err
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewServerError creates a storage failure. Storage failures are retryable.
func NewServerError(msg ErrorMessage, cause error) *ServerError {
	return &ServerError{
		ErrorMessage: msg,
		Kind:         StorageFailure,
		Err:          cause,
	}
}

// NewIntegrityError creates an error describing a broken contact cluster invariant.
func NewIntegrityError(msg ErrorMessage, cause error) *ServerError {
	return &ServerError{
		ErrorMessage: msg,
		Kind:         IntegrityViolation,
		Err:          cause,
	}
}

// NewDataRejectedError creates an error for a statement the database will never accept as sent.
func NewDataRejectedError(msg ErrorMessage, cause error) *ServerError {
	return &ServerError{
		ErrorMessage: msg,
		Kind:         DataRejected,
		Err:          cause,
	}
}

func NewClientError(msg ErrorMessage, code int) *ClientError {
	return &ClientError{
		ErrorMessage: msg,
		StatusCode:   code,
	}
}

func NewServerErrorWithTraceID(msg ErrorMessage, cause error, traceID string) *ServerError {
	msg.TraceID = traceID
	return NewServerError(msg, cause)
}

func NewClientErrorWithTraceID(msg ErrorMessage, code int, traceID string) *ClientError {
	msg.TraceID = traceID
	return &ClientError{
		ErrorMessage: msg,
		StatusCode:   code,
	}
}

// WithTraceID stamps the trace id on a client or server error. Other errors are returned as is.
func WithTraceID(err error, traceID string) error {
	if traceID == "" {
		return err
	}
	var clientError *ClientError
	if errors.As(err, &clientError) {
		if clientError.TraceID == "" {
			clientError.TraceID = traceID
		}
		return err
	}
	var serverError *ServerError
	if errors.As(err, &serverError) {
		if serverError.TraceID == "" {
			serverError.TraceID = traceID
		}
	}
	return err
}

// IsValidationError reports whether err rejects the caller's input.
func IsValidationError(err error) bool {
	var clientError *ClientError
	return errors.As(err, &clientError)
}

// IsStorageError reports whether err is a transient storage failure.
func IsStorageError(err error) bool {
	var serverError *ServerError
	return errors.As(err, &serverError) && serverError.Kind == StorageFailure
}

// IsIntegrityError reports whether err signals corrupted cluster data.
func IsIntegrityError(err error) bool {
	var serverError *ServerError
	return errors.As(err, &serverError) && serverError.Kind == IntegrityViolation
}

// IsDataRejected reports whether err is a permanent rejection of the written data.
func IsDataRejected(err error) bool {
	var serverError *ServerError
	return errors.As(err, &serverError) && serverError.Kind == DataRejected
}

// IsRetryable reports whether the whole identify call may be replayed from scratch.
func IsRetryable(err error) bool {
	return IsStorageError(err)
}
