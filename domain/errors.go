package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a domain-level failure carrying an explicit HTTP status
// and a machine-readable code, as opposed to an unexpected error.
type Error struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error with the default code.
func NewError(status int, message string) *Error {
	return &Error{Status: status, Code: "ERROR", Message: message}
}

// NewCodedError builds a domain error with an explicit code.
func NewCodedError(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// WrapError classifies an underlying error, typically a store failure,
// prefixing it with a descriptive message.
func WrapError(status int, message string, err error) *Error {
	return &Error{Status: status, Code: "ERROR", Message: message, Err: err}
}

// AsError extracts a domain error from an error chain.
func AsError(err error) (*Error, bool) {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr, true
	}
	return nil, false
}

// ErrRouteNotFound terminates every unmatched request.
var ErrRouteNotFound = NewError(http.StatusNotFound, "Route not found")
