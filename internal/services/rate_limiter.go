package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"partnershipintake/internal/domain"
)

// Default submission limits.
const (
	DefaultRateLimitMaxAttempts = 5
	DefaultRateLimitWindow      = 60 * time.Minute
)

type rateLimiter struct {
	repo domain.RateLimitRepository
	now  func() time.Time
}

// NewRateLimiter returns a RateLimiter that keeps fixed windows in the given repository.
// now may be nil, in which case time.Now is used.
func NewRateLimiter(repo domain.RateLimitRepository, now func() time.Time) domain.RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &rateLimiter{repo: repo, now: now}
}

func (l *rateLimiter) Check(ctx context.Context, identifier, action string, maxAttempts int, window time.Duration) (*domain.RateLimitResult, error) {
	now := l.now()

	if _, err := l.repo.DeleteExpired(ctx, now); err != nil {
		return nil, fmt.Errorf("purge expired rate limits: %w", err)
	}

	w, err := l.repo.FindActive(ctx, identifier, action, now.Add(-window))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("find rate limit window: %w", err)
		}
		w = &domain.RateLimitWindow{
			Identifier:  identifier,
			Action:      action,
			Count:       1,
			WindowStart: now,
			ExpiresAt:   now.Add(window),
		}
		if err := l.repo.Create(ctx, w); err != nil {
			return nil, fmt.Errorf("create rate limit window: %w", err)
		}
		return &domain.RateLimitResult{Allowed: true, Remaining: maxAttempts - 1, ResetAt: w.ExpiresAt}, nil
	}

	if w.Count >= maxAttempts {
		return &domain.RateLimitResult{Allowed: false, Remaining: 0, ResetAt: w.ExpiresAt}, nil
	}
	if err := l.repo.Increment(ctx, w.ID); err != nil {
		return nil, fmt.Errorf("increment rate limit window: %w", err)
	}
	return &domain.RateLimitResult{Allowed: true, Remaining: maxAttempts - w.Count - 1, ResetAt: w.ExpiresAt}, nil
}

func (l *rateLimiter) Reset(ctx context.Context, identifier, action string) error {
	if err := l.repo.Delete(ctx, identifier, action); err != nil {
		return fmt.Errorf("reset rate limit: %w", err)
	}
	return nil
}
