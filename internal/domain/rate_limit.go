package domain

import (
	"context"
	"time"
)

// ActionSubmitForm is the rate-limit action for public submissions.
const ActionSubmitForm = "submit_form"

// RateLimitWindow counts attempts for one identifier+action until ExpiresAt.
type RateLimitWindow struct {
	ID          string
	Identifier  string
	Action      string
	Count       int
	WindowStart time.Time
	ExpiresAt   time.Time
}

// RateLimitResult is the outcome of a rate-limit check.
type RateLimitResult struct {
	Allowed   bool      `json:"allowed"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}

// RateLimitRepository defines storage for rate-limit windows.
type RateLimitRepository interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	// FindActive returns the window for identifier+action started at or after since, or ErrNotFound.
	FindActive(ctx context.Context, identifier, action string, since time.Time) (*RateLimitWindow, error)
	Increment(ctx context.Context, id string) error
	Create(ctx context.Context, w *RateLimitWindow) error
	Delete(ctx context.Context, identifier, action string) error
}

// RateLimiter counts attempts per identifier+action within a window.
type RateLimiter interface {
	Check(ctx context.Context, identifier, action string, maxAttempts int, window time.Duration) (*RateLimitResult, error)
	Reset(ctx context.Context, identifier, action string) error
}
