package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"partnershipintake/config"
	authadapter "partnershipintake/internal/adapters/auth"
	"partnershipintake/internal/adapters/email"
	"partnershipintake/internal/adapters/ratelimit"
	"partnershipintake/internal/adapters/storage"
	"partnershipintake/internal/domain"
	"partnershipintake/internal/metrics"
	"partnershipintake/internal/repository/postgres"
	"partnershipintake/internal/services"
)

const dbConnectRetries = 5

// app holds the collaborators shared by the commands. Every command builds only what it uses.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *sql.DB
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := config.NewLogger(cfg.Environment, cfg.LogLevel)
	slog.SetDefault(logger)

	db, err := postgres.Open(ctx, cfg.DBUrl, dbConnectRetries, logger)
	if err != nil {
		return nil, err
	}
	metrics.Register()
	return &app{cfg: cfg, logger: logger, db: db}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.logger.Warn("closing database", "err", err)
	}
}

type repositories struct {
	partners      domain.PartnerRepository
	hubs          domain.HubRepository
	requests      domain.RequestRepository
	staff         domain.StaffUserRepository
	audit         domain.AuditLogRepository
	notifications domain.NotificationRepository
	rateLimits    domain.RateLimitRepository
	systemConfig  domain.SystemConfigRepository
}

func (a *app) repositories() repositories {
	return repositories{
		partners:      postgres.NewPartnerRepository(a.db),
		hubs:          postgres.NewHubRepository(a.db),
		requests:      postgres.NewRequestRepository(a.db),
		staff:         postgres.NewStaffUserRepository(a.db),
		audit:         postgres.NewAuditLogRepository(a.db),
		notifications: postgres.NewNotificationRepository(a.db),
		rateLimits:    postgres.NewRateLimitRepository(a.db),
		systemConfig:  postgres.NewSystemConfigRepository(a.db),
	}
}

func (a *app) notifier(repo domain.NotificationRepository) (domain.NotificationDispatcher, error) {
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    a.cfg.Email.Provider,
		FromAddress: a.cfg.Email.From,
		FromName:    a.cfg.Email.FromName,
		SES: email.SESConfig{
			Region:          a.cfg.AWS.Region,
			AccessKeyID:     a.cfg.AWS.AccessKeyID,
			SecretAccessKey: a.cfg.AWS.SecretAccessKey,
		},
	}, a.logger)
	if err != nil {
		return nil, fmt.Errorf("create mailer: %w", err)
	}
	return services.NewNotificationDispatcher(repo, mailer, email.NewTemplateRenderer(), a.logger), nil
}

func (a *app) limiter(ctx context.Context, repo domain.RateLimitRepository) (domain.RateLimiter, error) {
	if a.cfg.RateLimit.Backend != "redis" {
		return services.NewRateLimiter(repo, time.Now), nil
	}
	client, err := ratelimit.NewRedisClient(ctx, ratelimit.Config{
		Addr:     a.cfg.Redis.Addr,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})
	if err != nil {
		return nil, err
	}
	a.logger.Info("using redis rate limiter", "addr", a.cfg.Redis.Addr)
	return ratelimit.NewRedisLimiter(client), nil
}

func (a *app) objectStore() (domain.ObjectStore, error) {
	return storage.NewObjectStore(storage.Config{
		Provider:        a.cfg.Storage.Provider,
		Bucket:          a.cfg.Storage.Bucket,
		Region:          a.cfg.AWS.Region,
		Endpoint:        a.cfg.Storage.Endpoint,
		PublicURL:       a.cfg.Storage.PublicURL,
		AccessKeyID:     a.cfg.AWS.AccessKeyID,
		SecretAccessKey: a.cfg.AWS.SecretAccessKey,
	}, a.logger)
}

func (a *app) authService(staff domain.StaffUserRepository) (domain.AuthService, *authadapter.JWT) {
	tokens := authadapter.NewJWT(a.cfg.JWTSecret)
	hasher := authadapter.NewBcryptHasher(authadapter.DefaultBcryptCost)
	return services.NewAuthService(staff, hasher, tokens, a.cfg.JWTExpiry, a.logger), tokens
}
