// Package apierror defines the closed set of error kinds the API can return.
// Every domain failure is tagged with a kind; a single boundary in the
// handler layer maps kind to an HTTP status and a JSON body. Anything that is
// not an *Error surfaces as a generic 500 without leaking internals.
package apierror

import "net/http"

type Kind int

const (
	KindValidation Kind = iota
	KindUnauthorised
	KindForbidden
	KindNotFound
	KindConflict
	KindInsufficientFunds
	KindInternal
)

var kindStatus = map[Kind]int{
	KindValidation:        http.StatusBadRequest,
	KindUnauthorised:      http.StatusUnauthorized,
	KindForbidden:         http.StatusForbidden,
	KindNotFound:          http.StatusNotFound,
	KindConflict:          http.StatusConflict,
	KindInsufficientFunds: http.StatusUnprocessableEntity,
	KindInternal:          http.StatusInternalServerError,
}

// FieldError describes a single validation violation so callers can render
// per-field form errors.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

type Error struct {
	Kind    Kind
	Message string
	Details []FieldError
}

func (e *Error) Error() string {
	return e.Message
}

// Status returns the HTTP status the error maps to.
func (e *Error) Status() int {
	if s, ok := kindStatus[e.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func Validation(message string, details ...FieldError) *Error {
	if message == "" {
		message = "Validation failed"
	}
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

func Unauthorised(message string) *Error {
	if message == "" {
		message = "Access token is missing or invalid"
	}
	return &Error{Kind: KindUnauthorised, Message: message}
}

func Forbidden(message string) *Error {
	if message == "" {
		message = "Access forbidden"
	}
	return &Error{Kind: KindForbidden, Message: message}
}

func NotFound(message string) *Error {
	if message == "" {
		message = "Resource not found"
	}
	return &Error{Kind: KindNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func InsufficientFunds() *Error {
	return &Error{Kind: KindInsufficientFunds, Message: "Insufficient funds to process transaction"}
}

func Internal() *Error {
	return &Error{Kind: KindInternal, Message: "An unexpected error occurred"}
}
