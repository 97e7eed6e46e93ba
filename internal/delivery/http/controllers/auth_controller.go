package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "partnershipintake/internal/delivery/http/helpers"
	"partnershipintake/internal/domain"
)

// LoginRequest is the request body for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the response body for POST /auth/login
type LoginResponse struct {
	Token     string            `json:"token"`
	TokenType string            `json:"token_type"`
	User      *domain.StaffUser `json:"user"`
}

// CreateStaffRequest is the request body for POST /staff
type CreateStaffRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required,max=100"`
	Role     string `json:"role" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

type AuthController struct {
	Logger  *slog.Logger
	Service domain.AuthService
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// Login godoc
// @Summary Staff log in
// @Description Authenticate with email and password. Returns a JWT carrying the staff id, email and role.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} helpers.APIResponse "data contains token, token_type and user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or validation_failed"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	token, user, err := c.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid credentials")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal server error")
		return
	}

	h.WriteJSONSuccess(w, http.StatusOK, LoginResponse{Token: token, TokenType: "Bearer", User: user})
}

// CreateStaff godoc
// @Summary Create a staff user
// @Description Admin only. Role is one of ADMIN, REVIEWER, TEAM_MEMBER, SCHEDULER.
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateStaffRequest true "Staff user"
// @Success 201 {object} helpers.APIResponse "data contains the created staff user"
// @Failure 400 {object} helpers.APIResponse "error.code: validation_failed"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /staff [post]
func (c *AuthController) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req CreateStaffRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	role := domain.StaffRole(strings.ToUpper(strings.TrimSpace(req.Role)))
	user, err := c.Service.CreateStaff(r.Context(), req.Email, req.FullName, role, req.Password)
	if err != nil {
		var valErr *domain.ValidationError
		switch {
		case errors.As(err, &valErr):
			h.WriteValidationError(w, valErr.Fields)
		case errors.Is(err, domain.ErrDuplicateEmail):
			h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "email already registered")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal server error")
		}
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, user)
}
