package transport

import "encoding/json"

// ListResponse is the paginated success envelope.
type ListResponse struct {
	Success  bool        `json:"success"`
	Data     interface{} `json:"data"`
	Count    int         `json:"count"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
}

// ItemResponse wraps a single record, optionally with a confirmation message.
type ItemResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message,omitempty"`
}

// MessageResponse carries a confirmation with no record attached.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the uniform failure envelope.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// FieldError is the bare controller-level error shape used for expected
// authentication, validation and not-found outcomes.
type FieldError struct {
	Error string `json:"error"`
}

func NewList(data interface{}, count, page, pageSize int) ListResponse {
	return ListResponse{Success: true, Data: data, Count: count, Page: page, PageSize: pageSize}
}

func NewItem(data interface{}, message string) ItemResponse {
	return ItemResponse{Success: true, Data: data, Message: message}
}

func NewMessage(message string) MessageResponse {
	return MessageResponse{Success: true, Message: message}
}

func NewFailure(message, code string) ErrorResponse {
	return ErrorResponse{Success: false, Error: message, Code: code}
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e ErrorResponse) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}
