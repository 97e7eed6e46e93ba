package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var retryNotificationsCmd = &cobra.Command{
	Use:   "retry-notifications",
	Short: "Retry failed notifications once (for cron)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		notifier, err := a.notifier(a.repositories().notifications)
		if err != nil {
			return err
		}
		maxRetries, _ := cmd.Flags().GetInt("max-retries")
		if maxRetries <= 0 {
			maxRetries = a.cfg.Notification.MaxRetries
		}
		report := retrySweep(ctx, notifier, maxRetries, a.logger)
		if report == nil {
			return errors.New("retry sweep failed")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "attempted=%d sent=%d failed=%d\n", report.Attempted, report.Sent, report.Failed)
		return nil
	},
}

func init() {
	retryNotificationsCmd.Flags().Int("max-retries", 0, "skip notifications retried this many times (defaults to NOTIFICATION_MAX_RETRIES)")
	rootCmd.AddCommand(retryNotificationsCmd)
}
