package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"partnershipintake/internal/domain"
)

const minPasswordLen = 8

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type authService struct {
	staffRepo   domain.StaffUserRepository
	hasher      domain.PasswordHasher
	tokenIssuer domain.TokenIssuer
	tokenExpiry time.Duration
	logger      *slog.Logger
}

// NewAuthService creates an AuthService for staff users.
func NewAuthService(staffRepo domain.StaffUserRepository, hasher domain.PasswordHasher, tokenIssuer domain.TokenIssuer, tokenExpiry time.Duration, logger *slog.Logger) domain.AuthService {
	return &authService{
		staffRepo:   staffRepo,
		hasher:      hasher,
		tokenIssuer: tokenIssuer,
		tokenExpiry: tokenExpiry,
		logger:      logger,
	}
}

// Login returns ErrInvalidCredentials for unknown emails, inactive users and wrong
// passwords alike.
func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.StaffUser, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}
	user, err := s.staffRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to get staff user: %w", err)
	}
	if !user.IsActive || user.PasswordHash == "" {
		s.logger.Info("login refused for inactive staff user", "user_id", user.ID)
		return "", nil, domain.ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	token, err := s.tokenIssuer.Issue(user.ID, user.Email, user.Role, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}
	s.logger.Info("staff login", "user_id", user.ID, "role", user.Role)
	return token, user, nil
}

func (s *authService) CreateStaff(ctx context.Context, email, fullName string, role domain.StaffRole, password string) (*domain.StaffUser, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	fullName = strings.TrimSpace(fullName)
	fields := map[string]string{}
	if !emailRegexp.MatchString(email) {
		fields["email"] = "Invalid email address"
	}
	if fullName == "" {
		fields["full_name"] = "Full name is required"
	}
	if !role.Valid() {
		fields["role"] = "Unknown role"
	}
	if len(password) < minPasswordLen {
		fields["password"] = fmt.Sprintf("Password must be at least %d characters", minPasswordLen)
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := domain.NewStaffUser(email, fullName, role, hash, salt, now, now)
	if err := s.staffRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create staff user: %w", err)
	}
	s.logger.Info("staff user created", "user_id", user.ID, "role", role)
	return user, nil
}
