package tmdb

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized indicates a missing or rejected bearer token
	ErrUnauthorized = errors.New("tmdb: unauthorized")
	// ErrNotFound indicates the endpoint or resource does not exist
	ErrNotFound = errors.New("tmdb: resource not found")
	// ErrInvalidConfig indicates the client cannot be built from the given settings
	ErrInvalidConfig = errors.New("tmdb: invalid configuration")
	// ErrMalformedResponse indicates a 2xx body that is not a result page
	ErrMalformedResponse = errors.New("tmdb: malformed response")
)

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	// TMDB's own status_code from the error envelope, if present
	Code    int
	Message string
	Body    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("tmdb API error: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("tmdb API error: status %d", e.StatusCode)
}

// Is lets errors.Is match the sentinels above.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// errorEnvelope is the body TMDB sends with 4xx responses.
type errorEnvelope struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       *bool  `json:"success"`
}
