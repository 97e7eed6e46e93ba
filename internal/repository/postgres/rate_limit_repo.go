package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"partnershipintake/internal/domain"
)

type rateLimitRepository struct {
	DB *sql.DB
}

func NewRateLimitRepository(db *sql.DB) domain.RateLimitRepository {
	return &rateLimitRepository{DB: db}
}

func (r *rateLimitRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM rate_limits WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *rateLimitRepository) FindActive(ctx context.Context, identifier, action string, since time.Time) (*domain.RateLimitWindow, error) {
	query := `
		SELECT id, identifier, action, count, window_start, expires_at
		FROM rate_limits
		WHERE identifier = $1 AND action = $2 AND window_start >= $3
		ORDER BY window_start DESC
		LIMIT 1
	`
	w := &domain.RateLimitWindow{}
	err := r.DB.QueryRowContext(ctx, query, identifier, action, since).Scan(
		&w.ID, &w.Identifier, &w.Action, &w.Count, &w.WindowStart, &w.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return w, nil
}

func (r *rateLimitRepository) Increment(ctx context.Context, id string) error {
	return execOne(ctx, r.DB, `UPDATE rate_limits SET count = count + 1 WHERE id = $1`, id)
}

func (r *rateLimitRepository) Create(ctx context.Context, w *domain.RateLimitWindow) error {
	query := `
		INSERT INTO rate_limits (identifier, action, count, window_start, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, w.Identifier, w.Action, w.Count, w.WindowStart, w.ExpiresAt).Scan(&w.ID)
}

func (r *rateLimitRepository) Delete(ctx context.Context, identifier, action string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM rate_limits WHERE identifier = $1 AND action = $2`, identifier, action)
	return err
}
