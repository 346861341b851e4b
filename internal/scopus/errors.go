package scopus

import (
	"errors"
	"fmt"
)

// Common errors returned by the Scopus client.
var (
	// ErrNotFound indicates the author was not found.
	ErrNotFound = errors.New("not found in Scopus")

	// ErrUnauthorized indicates an authentication error (missing/invalid API key).
	ErrUnauthorized = errors.New("Scopus authentication error")

	// ErrRateLimited indicates the rate limit has been exceeded.
	ErrRateLimited = errors.New("Scopus rate limit exceeded")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with Scopus")

	// ErrInvalidResponse indicates an unexpected API response.
	ErrInvalidResponse = errors.New("invalid response from Scopus")
)

// APIError represents an error response from the Scopus API.
type APIError struct {
	StatusCode int
	AuthorID   string
	Message    string
}

func (e *APIError) Error() string {
	if e.AuthorID != "" {
		return fmt.Sprintf("Scopus API error (status %d): %s (author: %s)", e.StatusCode, e.Message, e.AuthorID)
	}
	return fmt.Sprintf("Scopus API error (status %d): %s", e.StatusCode, e.Message)
}

// IsNotFound returns true if the error indicates the author was not found.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}

// IsUnauthorized returns true if the error indicates an authentication problem.
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrUnauthorized) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && (apiErr.StatusCode == 401 || apiErr.StatusCode == 403)
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 429
}
