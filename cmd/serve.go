package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	_ "partnershipintake/docs"
	delivery "partnershipintake/internal/delivery/http"
	"partnershipintake/internal/delivery/http/controllers"
	"partnershipintake/internal/services"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long:  `Start the public intake and staff dashboard HTTP API. Pending migrations are applied first unless --skip-migrate is set.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Bool("skip-migrate", false, "do not apply pending migrations on start")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if skip, _ := cmd.Flags().GetBool("skip-migrate"); !skip {
		applied, err := migrateDB(ctx, a)
		if err != nil {
			return err
		}
		if len(applied) > 0 {
			a.logger.Info("migrations applied", "files", applied)
		}
	}

	handler, err := buildHandler(ctx, a)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              net.JoinHostPort("", a.cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("http server listening", "addr", server.Addr, "env", a.cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down http server")
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func buildHandler(ctx context.Context, a *app) (http.Handler, error) {
	repos := a.repositories()

	notifier, err := a.notifier(repos.notifications)
	if err != nil {
		return nil, err
	}
	limiter, err := a.limiter(ctx, repos.rateLimits)
	if err != nil {
		return nil, err
	}
	store, err := a.objectStore()
	if err != nil {
		return nil, err
	}
	authSvc, tokens := a.authService(repos.staff)

	submissionSvc := services.NewSubmissionService(
		repos.partners, repos.hubs, repos.requests, repos.audit, repos.systemConfig,
		limiter, services.NewFileIntake(store), notifier,
		services.SubmissionConfig{
			MinBusinessDays: a.cfg.BusinessDaysAdvance,
			RateLimitMax:    a.cfg.RateLimit.MaxAttempts,
			RateLimitWindow: a.cfg.RateLimit.Window,
			AdminCC:         a.cfg.Email.AdminCC,
			AppURL:          a.cfg.AppURL,
			Location:        a.cfg.Location(),
			Timeout:         a.cfg.RequestTimeout,
		},
		a.logger,
	)
	requestSvc := services.NewRequestService(
		repos.requests, repos.hubs, repos.staff, repos.audit, repos.notifications,
		notifier, a.cfg.AppURL, a.cfg.RequestTimeout, a.logger,
	)

	return delivery.NewRouter(delivery.RouterDeps{
		Logger:         a.logger,
		Submission:     controllers.NewSubmissionController(a.logger, submissionSvc),
		Requests:       controllers.NewRequestController(a.logger, requestSvc),
		Public:         controllers.NewPublicController(a.logger, requestSvc),
		Auth:           controllers.NewAuthController(a.logger, authSvc),
		TokenVerifier:  tokens,
		Health:         a.db,
		AllowedOrigins: a.cfg.CORSAllowedOrigins,
	}), nil
}
