package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"partnershipintake/internal/delivery/http/controllers"
	"partnershipintake/internal/delivery/http/helpers"
	"partnershipintake/internal/delivery/http/middleware"
	"partnershipintake/internal/domain"
)

// Pinger reports whether a dependency is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps are the collaborators the router wires together.
type RouterDeps struct {
	Logger         *slog.Logger
	Submission     *controllers.SubmissionController
	Requests       *controllers.RequestController
	Public         *controllers.PublicController
	Auth           *controllers.AuthController
	TokenVerifier  domain.TokenVerifier
	Health         Pinger
	AllowedOrigins []string
}

// NewRouter initializes the HTTP router with all application routes and wraps it
// with recovery, metrics, logging, and CORS.
func NewRouter(d RouterDeps) http.Handler {
	mux := http.NewServeMux()

	authed := middleware.RequireAuth(d.TokenVerifier, d.Logger)
	editors := middleware.RequireRole(domain.RoleAdmin, domain.RoleReviewer, domain.RoleScheduler)
	admins := middleware.RequireRole(domain.RoleAdmin)

	// Public
	mux.HandleFunc("POST /api/v1/public/submit", d.Submission.Submit)
	mux.HandleFunc("GET /api/v1/public/track/{reference}", d.Public.Track)
	mux.HandleFunc("GET /api/v1/hubs", d.Public.ListHubs)

	// Auth
	mux.HandleFunc("POST /api/v1/auth/login", d.Auth.Login)
	mux.HandleFunc("POST /api/v1/staff", authed(admins(d.Auth.CreateStaff)))

	// Staff dashboard
	mux.HandleFunc("GET /api/v1/requests", authed(d.Requests.List))
	mux.HandleFunc("GET /api/v1/requests/{id}", authed(d.Requests.Get))
	mux.HandleFunc("PATCH /api/v1/requests/{id}", authed(editors(d.Requests.Update)))
	mux.HandleFunc("GET /api/v1/requests/{id}/notifications", authed(d.Requests.ListNotifications))
	mux.HandleFunc("GET /api/v1/requests/{id}/audit", authed(d.Requests.ListAuditLog))

	// Operations
	mux.HandleFunc("GET /healthz", healthz(d.Health))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	var h http.Handler = mux
	h = middleware.Metrics(h)
	h = middleware.Recover(d.Logger, h)
	h = middleware.LoggingMiddleware(d.Logger, h)
	h = middleware.CORS(d.AllowedOrigins, h)
	return h
}

func healthz(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := p.PingContext(ctx); err != nil {
				helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeInternalError, "database unavailable")
				return
			}
		}
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
