package apperr

import (
	"errors"
	"net/http"
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a client-facing failure. Code and Message are safe to return; cause is for logs only.
type Error struct {
	Code    string
	Message string
	Status  int
	Details []FieldError
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) Cause() error {
	return e.cause
}

func (e *Error) WithCause(err error) *Error {
	e.cause = err
	return e
}

func (e *Error) HTTPStatus() int {
	if e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}

func New(status int, code, message string) *Error {
	return &Error{Code: code, Message: message, Status: status}
}

func Validation(details []FieldError) *Error {
	return &Error{
		Code:    CodeValidationFailed,
		Message: "Validation failed",
		Status:  http.StatusBadRequest,
		Details: details,
	}
}

func BadRequest(code, message string) *Error {
	return New(http.StatusBadRequest, code, message)
}

func Unauthenticated(code, message string) *Error {
	return New(http.StatusUnauthorized, code, message)
}

func Forbidden(code, message string) *Error {
	return New(http.StatusForbidden, code, message)
}

func NotFound(code, message string) *Error {
	return New(http.StatusNotFound, code, message)
}

func Conflict(code, message string) *Error {
	return New(http.StatusConflict, code, message)
}

func TooManyRequests() *Error {
	return New(http.StatusTooManyRequests, CodeTooManyRequests, "Too many requests, slow down")
}

func Internal(cause error) *Error {
	return New(http.StatusInternalServerError, CodeServerError, "Internal server error").WithCause(cause)
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

const (
	CodeInvalidRequest     = "invalid_request"
	CodeValidationFailed   = "validation_failed"
	CodeMissingToken       = "missing_token"
	CodeInvalidToken       = "invalid_token"
	CodePrincipalNotFound  = "principal_not_found"
	CodeInvalidCredentials = "invalid_credentials"
	CodeEmailTaken         = "email_taken"
	CodeUserNotFound       = "user_not_found"
	CodeAdminNotFound      = "admin_not_found"
	CodeAssignmentNotFound = "assignment_not_found"
	CodeNoAssignments      = "no_assignments"
	CodeInvalidStatus      = "invalid_status"
	CodeNotAssignmentOwner = "not_assignment_owner"
	CodeAlreadyReviewed    = "assignment_already_reviewed"
	CodeForbidden          = "forbidden"
	CodeTooManyRequests    = "too_many_requests"
	CodeStoreUnavailable   = "store_unavailable"
	CodeServerError        = "server_error"
)
