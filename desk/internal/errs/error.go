package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrValidation: a precondition (status, eligibility, date ordering,
	// limit) was violated. No retry, record state unchanged.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound: the record is gone or no longer in the expected status;
	// the owning view should re-fetch to reconcile.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable: transport or service failure. No partial mutation.
	ErrUnavailable = errors.New("service unavailable")

	ErrUserName = errors.New("username is required")
)

// APIError carries the circulation service's structured error body.
type APIError struct {
	Code    int    `json:"-"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("circulation api: status %d", e.Code)
}

// Unwrap classifies by status code so callers can errors.Is against the
// taxonomy sentinels.
func (e *APIError) Unwrap() error {
	switch {
	case e.Code == http.StatusNotFound:
		return ErrNotFound
	case e.Code == http.StatusBadRequest,
		e.Code == http.StatusConflict,
		e.Code == http.StatusUnprocessableEntity:
		return ErrValidation
	default:
		return ErrUnavailable
	}
}

// UserMessage returns the server-provided message verbatim when present,
// else the per-action fallback.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
