package domain

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// Sentinel errors shared across services and delivery.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrRateLimited        = errors.New("too many requests")
	ErrConsentRequired    = errors.New("you must accept both partnership criteria")
	ErrUnknownHub         = errors.New("invalid hub selection")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrStorage            = errors.New("file storage failed")
)

// ValidationError carries field-scoped messages, one per field.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns a ValidationError for the given field messages.
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// RateLimitError is returned when a caller exhausted its attempts. It matches ErrRateLimited.
type RateLimitError struct {
	ResetAt time.Time
}

func (e *RateLimitError) Error() string { return ErrRateLimited.Error() }

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }
