package explorer

import (
	"errors"
	"fmt"
)

// ErrInvalidProxy is wrapped by NewClient when the proxy URL cannot be used.
var ErrInvalidProxy = errors.New("invalid proxy URL")

// TransportError covers connection, TLS, proxy and timeout failures.
type TransportError struct {
	Token string
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError is returned for any non-2xx response. Body holds the raw response text.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Request failed with status: %s. Response: %s", e.Status, e.Body)
}

// ParseError means the response body was not valid JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid JSON response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
