// Copyright ComAI Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"fmt"
	"net/http"
)

// ErrorCode classifies a request failure so clients can tell validation
// problems, upstream trouble, and bugs apart instead of receiving one
// generic error message.
type ErrorCode string

const (
	ErrorCodeValidation      ErrorCode = "validation_error"
	ErrorCodeUpstreamTimeout ErrorCode = "upstream_timeout"
	ErrorCodeUpstream        ErrorCode = "upstream_error"
	ErrorCodeInternal        ErrorCode = "internal_error"
)

// Error is a typed request-processing error carried from the engine to the
// HTTP edge, where Code maps to a distinct response status.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the response status for the error's code.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case ErrorCodeValidation:
		return http.StatusBadRequest
	case ErrorCodeUpstreamTimeout:
		return http.StatusGatewayTimeout
	case ErrorCodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError reports a malformed or unusable request.
func NewValidationError(message string) *Error {
	return &Error{Code: ErrorCodeValidation, Message: message}
}

// NewUpstreamTimeoutError reports an upstream call that hit its deadline.
func NewUpstreamTimeoutError(message string, err error) *Error {
	return &Error{Code: ErrorCodeUpstreamTimeout, Message: message, Err: err}
}

// NewUpstreamError reports an upstream call that failed for another reason.
func NewUpstreamError(message string, err error) *Error {
	return &Error{Code: ErrorCodeUpstream, Message: message, Err: err}
}

// NewInternalError reports everything else.
func NewInternalError(message string, err error) *Error {
	return &Error{Code: ErrorCodeInternal, Message: message, Err: err}
}
