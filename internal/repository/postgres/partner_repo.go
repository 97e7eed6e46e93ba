package postgres

import (
	"context"
	"database/sql"
	"errors"

	"partnershipintake/internal/domain"
)

type partnerRepository struct {
	DB *sql.DB
}

func NewPartnerRepository(db *sql.DB) domain.PartnerRepository {
	return &partnerRepository{DB: db}
}

// Upsert matches partners on poc_email. xmax is 0 only for a freshly inserted row.
func (r *partnerRepository) Upsert(ctx context.Context, p *domain.Partner) (bool, error) {
	query := `
		INSERT INTO partners (org_name, poc_name, poc_email, poc_phone, org_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (poc_email) DO UPDATE SET
			org_name = EXCLUDED.org_name,
			poc_name = EXCLUDED.poc_name,
			poc_phone = EXCLUDED.poc_phone,
			org_url = EXCLUDED.org_url,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at, (xmax = 0) AS inserted
	`
	var created bool
	err := r.DB.QueryRowContext(ctx, query,
		p.OrgName, p.PocName, p.PocEmail, p.PocPhone, nullString(p.OrgURL), p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt, &created)
	if err != nil {
		return false, err
	}
	return created, nil
}

func (r *partnerRepository) GetByEmail(ctx context.Context, email string) (*domain.Partner, error) {
	query := `
		SELECT id, org_name, poc_name, poc_email, poc_phone, org_url, created_at, updated_at
		FROM partners
		WHERE poc_email = $1
	`
	p := &domain.Partner{}
	var orgURL sql.NullString
	err := r.DB.QueryRowContext(ctx, query, email).Scan(
		&p.ID, &p.OrgName, &p.PocName, &p.PocEmail, &p.PocPhone, &orgURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	p.OrgURL = stringPtr(orgURL)
	return p, nil
}
