package catalog

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned when the API has no record for the requested id.
	ErrNotFound = errors.New("catalog: not found")

	// ErrInvalidID is returned for record ids that cannot name a single path segment.
	ErrInvalidID = errors.New("catalog: invalid id")

	// ErrMalformedResponse is returned when a response body is not the expected JSON envelope.
	ErrMalformedResponse = errors.New("catalog: malformed response")
)

// APIError reports a non-success HTTP status from the catalog API.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string // message field of the error body, if any
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("catalog: %s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("catalog: %s %s: status %d", e.Method, e.URL, e.StatusCode)
}

// Is lets errors.Is(err, ErrNotFound) match a 404.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}
