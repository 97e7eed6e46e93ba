package domain

import (
	"context"
	"time"
)

// StaffRole is the dashboard role of a staff user.
type StaffRole string

const (
	RoleAdmin      StaffRole = "ADMIN"
	RoleReviewer   StaffRole = "REVIEWER"
	RoleTeamMember StaffRole = "TEAM_MEMBER"
	RoleScheduler  StaffRole = "SCHEDULER"
)

// Valid reports whether r is a known role.
func (r StaffRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleReviewer, RoleTeamMember, RoleScheduler:
		return true
	}
	return false
}

// StaffUser is a dashboard user who reviews requests.
// swagger:model StaffUser
type StaffUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Role         StaffRole `json:"role"`
	IsActive     bool      `json:"is_active"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewStaffUser returns a StaffUser. ID is typically set by the repository on create.
func NewStaffUser(email, fullName string, role StaffRole, passwordHash, salt string, createdAt, updatedAt time.Time) *StaffUser {
	return &StaffUser{
		Email:        email,
		FullName:     fullName,
		Role:         role,
		IsActive:     true,
		PasswordHash: passwordHash,
		Salt:         salt,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenClaims are the identity facts carried by a verified token.
type TokenClaims struct {
	UserID string
	Email  string
	Role   StaffRole
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated staff user.
type TokenIssuer interface {
	Issue(userID, email string, role StaffRole, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*TokenClaims, error)
}

// StaffUserRepository defines storage for staff users.
type StaffUserRepository interface {
	Create(ctx context.Context, user *StaffUser) error
	GetByEmail(ctx context.Context, email string) (*StaffUser, error)
	GetByID(ctx context.Context, id string) (*StaffUser, error)
}

// AuthService defines staff authentication operations.
type AuthService interface {
	Login(ctx context.Context, email, password string) (token string, user *StaffUser, err error)
	CreateStaff(ctx context.Context, email, fullName string, role StaffRole, password string) (*StaffUser, error)
}
