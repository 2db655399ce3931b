package store

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound signals that a single-row query matched nothing. Callers
// translate it into a nil result rather than a failure.
var ErrNotFound = errors.New("store: no rows found")

// pgrstNoRows is the PostgREST code for "zero rows where one was expected".
const pgrstNoRows = "PGRST116"

// APIError is a failure reported by the hosted backend.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return e.Message
}

type restErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func decodeRESTError(status int, body []byte) error {
	var parsed restErrorBody
	_ = json.Unmarshal(body, &parsed)
	if parsed.Code == pgrstNoRows {
		return ErrNotFound
	}
	if parsed.Message == "" {
		parsed.Message = fmt.Sprintf("unexpected store response (HTTP %d)", status)
	}
	return &APIError{StatusCode: status, Code: parsed.Code, Message: parsed.Message}
}

type authErrorBody struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorCode        string `json:"error_code"`
	ErrorDescription string `json:"error_description"`
}

func decodeAuthError(status int, body []byte) error {
	var parsed authErrorBody
	_ = json.Unmarshal(body, &parsed)
	message := parsed.Msg
	if message == "" {
		message = parsed.Message
	}
	if message == "" {
		message = parsed.ErrorDescription
	}
	if message == "" {
		message = fmt.Sprintf("unexpected identity provider response (HTTP %d)", status)
	}
	return &APIError{StatusCode: status, Code: parsed.ErrorCode, Message: message}
}
