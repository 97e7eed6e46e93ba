package postgres

import (
	"context"
	"database/sql"
	"errors"

	"partnershipintake/internal/domain"
)

type hubRepository struct {
	DB *sql.DB
}

func NewHubRepository(db *sql.DB) domain.HubRepository {
	return &hubRepository{DB: db}
}

const hubColumns = `id, name, timezone, open_time, close_time, address, capacity, is_active, created_at, updated_at`

func scanHub(s rowScanner) (*domain.Hub, error) {
	h := &domain.Hub{}
	var address sql.NullString
	var capacity sql.NullInt64
	if err := s.Scan(
		&h.ID, &h.Name, &h.Timezone, &h.OpenTime, &h.CloseTime, &address, &capacity, &h.IsActive, &h.CreatedAt, &h.UpdatedAt,
	); err != nil {
		return nil, err
	}
	h.Address = stringPtr(address)
	if capacity.Valid {
		c := int(capacity.Int64)
		h.Capacity = &c
	}
	return h, nil
}

func (r *hubRepository) GetByName(ctx context.Context, name domain.HubName) (*domain.Hub, error) {
	query := `SELECT ` + hubColumns + ` FROM hubs WHERE name = $1`
	h, err := scanHub(r.DB.QueryRowContext(ctx, query, string(name)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return h, nil
}

func (r *hubRepository) List(ctx context.Context, activeOnly bool) ([]*domain.Hub, error) {
	query := `SELECT ` + hubColumns + ` FROM hubs`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name ASC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var hubs []*domain.Hub
	for rows.Next() {
		h, err := scanHub(rows)
		if err != nil {
			return nil, err
		}
		hubs = append(hubs, h)
	}
	return hubs, rows.Err()
}

func (r *hubRepository) Upsert(ctx context.Context, h *domain.Hub) error {
	query := `
		INSERT INTO hubs (name, timezone, open_time, close_time, address, capacity, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (name) DO UPDATE SET
			timezone = EXCLUDED.timezone,
			open_time = EXCLUDED.open_time,
			close_time = EXCLUDED.close_time,
			address = EXCLUDED.address,
			capacity = EXCLUDED.capacity,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	var capacity sql.NullInt64
	if h.Capacity != nil {
		capacity = sql.NullInt64{Int64: int64(*h.Capacity), Valid: true}
	}
	return r.DB.QueryRowContext(ctx, query,
		string(h.Name), h.Timezone, h.OpenTime, h.CloseTime, nullString(h.Address), capacity, h.IsActive,
	).Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt)
}
