package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	h "partnershipintake/internal/delivery/http/helpers"
)

// Recover turns a handler panic into a 500 internal_error response.
func Recover(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.ErrorContext(r.Context(), "panic serving request",
					"path", r.URL.Path, "method", r.Method, "panic", rec, "stack", string(debug.Stack()))
				h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
