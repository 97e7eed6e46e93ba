package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	h "partnershipintake/internal/delivery/http/helpers"
	"partnershipintake/internal/domain"
)

type contextKey string

const claimsKey contextKey = "claims"

// SetClaims returns a context carrying the authenticated staff claims.
func SetClaims(ctx context.Context, claims *domain.TokenClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the authenticated staff claims, if present.
func ClaimsFromContext(ctx context.Context) (*domain.TokenClaims, bool) {
	c, ok := ctx.Value(claimsKey).(*domain.TokenClaims)
	return c, ok && c != nil
}

// RequireAuth returns a wrapper that validates the Bearer token and stores its claims in the request context.
// If the token is missing or invalid, it responds with 401 and does not call next.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authorization header")
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid authorization format")
				return
			}
			token := strings.TrimSpace(auth[len(prefix):])
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing token")
				return
			}
			claims, err := verifier.Verify(token)
			if err != nil {
				logger.DebugContext(r.Context(), "token rejected", "err", err)
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			next(w, r.WithContext(SetClaims(r.Context(), claims)))
		}
	}
}

// RequireRole wraps an authenticated handler and answers 403 unless the caller has one of roles.
func RequireRole(roles ...domain.StaffRole) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
				return
			}
			for _, role := range roles {
				if claims.Role == role {
					next(w, r)
					return
				}
			}
			h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "insufficient role")
		}
	}
}
