package requester

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized indicates the API key was missing or rejected.
	ErrUnauthorized = errors.New("requester: unauthorized")

	// ErrNotFound indicates no snapshot exists for the requested timestamp.
	ErrNotFound = errors.New("requester: snapshot not found")

	// ErrServer indicates an ln-history API server failure.
	ErrServer = errors.New("requester: server error")
)

// APIError carries the HTTP status of a failed request. It unwraps to one of
// the sentinel errors above so callers can branch with errors.Is.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ln-history API request failed with status %d: %s", e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == 401 || e.StatusCode == 403:
		return ErrUnauthorized
	case e.StatusCode == 404:
		return ErrNotFound
	case e.StatusCode >= 500:
		return ErrServer
	}
	return nil
}
