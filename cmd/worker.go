package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"partnershipintake/internal/domain"
	"partnershipintake/internal/services"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the background worker",
	Long:  `Start the background worker that periodically retries failed notifications and purges expired rate-limit windows.`,
	RunE:  runWorker,
}

func init() {
	workerCmd.Flags().Duration("interval", 0, "retry interval (defaults to NOTIFICATION_RETRY_INTERVAL)")
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	repos := a.repositories()
	notifier, err := a.notifier(repos.notifications)
	if err != nil {
		return err
	}

	interval, _ := cmd.Flags().GetDuration("interval")
	if interval <= 0 {
		interval = a.cfg.Notification.RetryInterval
	}
	maxRetries := a.cfg.Notification.MaxRetries

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return err
		}
		_, err = scheduler.NewJob(
			gocron.DurationJob(interval),
			gocron.NewTask(func() {
				retrySweep(ctx, notifier, maxRetries, a.logger)
			}),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
			gocron.WithStartAt(gocron.WithStartImmediately()),
		)
		if err != nil {
			return err
		}
		_, err = scheduler.NewJob(
			gocron.DurationJob(time.Hour),
			gocron.NewTask(func() {
				purgeRateLimits(ctx, repos.rateLimits, a.logger)
			}),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return err
		}

		a.logger.Info("worker started", "retry_interval", interval.String(), "max_retries", maxRetries)
		scheduler.Start()
		<-ctx.Done()
		return scheduler.Shutdown()
	})

	if err := g.Wait(); err != nil {
		a.logger.Error("worker error", "err", err)
		return err
	}
	a.logger.Info("worker shutting down gracefully")
	return nil
}

// retrySweep runs one retry batch and logs the outcome. Errors never stop the worker.
func retrySweep(ctx context.Context, notifier domain.NotificationDispatcher, maxRetries int, logger *slog.Logger) *domain.RetryReport {
	report, err := notifier.RetryFailed(ctx, maxRetries, services.DefaultNotificationBatchSize)
	if err != nil {
		logger.Error("notification retry sweep failed", "err", err)
		return nil
	}
	if report.Attempted > 0 {
		logger.Info("notification retry sweep", "attempted", report.Attempted, "sent", report.Sent, "failed", report.Failed)
	}
	return report
}

func purgeRateLimits(ctx context.Context, repo domain.RateLimitRepository, logger *slog.Logger) {
	n, err := repo.DeleteExpired(ctx, time.Now())
	if err != nil {
		logger.Error("purge rate limits failed", "err", err)
		return
	}
	if n > 0 {
		logger.Info("expired rate-limit windows purged", "count", n)
	}
}
