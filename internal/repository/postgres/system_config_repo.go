package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"partnershipintake/internal/domain"
)

type systemConfigRepository struct {
	DB *sql.DB
}

func NewSystemConfigRepository(db *sql.DB) domain.SystemConfigRepository {
	return &systemConfigRepository{DB: db}
}

func (r *systemConfigRepository) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var value []byte
	err := r.DB.QueryRowContext(ctx, `SELECT value FROM system_config WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return json.RawMessage(value), nil
}

func (r *systemConfigRepository) Set(ctx context.Context, key string, value json.RawMessage) error {
	query := `
		INSERT INTO system_config (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	_, err := r.DB.ExecContext(ctx, query, key, string(value))
	return err
}
