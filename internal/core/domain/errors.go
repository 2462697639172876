package domain

import (
	"errors"
	"fmt"
)

var ErrNoSavedSession = errors.New("no saved session")
var ErrSessionExpired = errors.New("saved session expired")
var ErrNoToken = errors.New("no token persisted")

// APIError is a non-2xx response from the storefront API, carrying the
// message extracted from its body. Message honours the extraction priority:
// the body's "message" field, then its "error" field, then the HTTP status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// IsUnauthorized reports whether err is an APIError with a 401 status.
func IsUnauthorized(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == 401
}

// DecodeError marks a response body that could not be deserialised into the
// expected shape. Kept distinct from APIError so callers can tell a broken
// payload from a refused request.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
