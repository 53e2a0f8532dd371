package util

import (
	"errors"
	"net/http"
)

// Error kinds. Classify with errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrStore      = errors.New("store error")
	ErrTransport  = errors.New("transport error")
)

// Error is the error type returned by the services. Message is what the
// client sees; Details carries the underlying diagnostic when it is reported
// separately from the message.
type Error struct {
	Kind    error
	Message string
	Details string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func ValidationError(msg string) error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func NotFoundError(msg string) error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

// StoreError surfaces the raw driver message to the client.
func StoreError(cause error) error {
	return &Error{Kind: ErrStore, Message: cause.Error(), Cause: cause}
}

func TransportError(msg string, cause error) error {
	return &Error{Kind: ErrTransport, Message: msg, Details: cause.Error(), Cause: cause}
}

/*
* Validation -> 400
* NotFound -> 404
* Everything else, store and transport failures included -> 500
 */
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
