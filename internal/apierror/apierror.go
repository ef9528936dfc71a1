// Package apierror defines the JSON error envelope returned by every endpoint.
package apierror

import "net/http"

// Body is what clients receive for any 4xx/5xx response.
type Body struct {
	Error  string            `json:"error"`
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Error carries an HTTP status alongside a machine-readable code. Handlers
// return it like a *fiber.Error when the client needs more than a message.
type Error struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Body() Body {
	return Body{Error: e.Message, Code: e.Code, Fields: e.Fields}
}

func New(status int, code, msg string) *Error {
	return &Error{Status: status, Code: code, Message: msg}
}

func NewValidation(fields map[string]string) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Code:    "validation_failed",
		Message: "Invalid data provided",
		Fields:  fields,
	}
}
