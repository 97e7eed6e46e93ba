package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"partnershipintake/internal/domain"
)

type staffUserRepository struct {
	DB *sql.DB
}

func NewStaffUserRepository(db *sql.DB) domain.StaffUserRepository {
	return &staffUserRepository{DB: db}
}

func (r *staffUserRepository) Create(ctx context.Context, u *domain.StaffUser) error {
	query := `
		INSERT INTO staff_users (email, full_name, role, password_hash, salt, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		u.Email, u.FullName, string(u.Role), u.PasswordHash, u.Salt, u.IsActive, u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *staffUserRepository) GetByEmail(ctx context.Context, email string) (*domain.StaffUser, error) {
	query := `
		SELECT id, email, full_name, role, password_hash, salt, is_active, created_at, updated_at
		FROM staff_users
		WHERE email = $1
	`
	return r.getOne(ctx, query, email)
}

func (r *staffUserRepository) GetByID(ctx context.Context, id string) (*domain.StaffUser, error) {
	query := `
		SELECT id, email, full_name, role, password_hash, salt, is_active, created_at, updated_at
		FROM staff_users
		WHERE id = $1
	`
	return r.getOne(ctx, query, id)
}

func (r *staffUserRepository) getOne(ctx context.Context, query string, arg any) (*domain.StaffUser, error) {
	u := &domain.StaffUser{}
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.FullName, &u.Role, &u.PasswordHash, &u.Salt, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}
