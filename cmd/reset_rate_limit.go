package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"partnershipintake/internal/domain"
)

var resetRateLimitCmd = &cobra.Command{
	Use:   "reset-rate-limit <identifier>",
	Short: "Clear the rate-limit window for an identifier (usually a client IP)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		action, _ := cmd.Flags().GetString("action")

		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		limiter, err := a.limiter(ctx, a.repositories().rateLimits)
		if err != nil {
			return err
		}
		if err := limiter.Reset(ctx, args[0], action); err != nil {
			return fmt.Errorf("reset rate limit: %w", err)
		}
		a.logger.Info("rate limit reset", "identifier", args[0], "action", action, "backend", a.cfg.RateLimit.Backend)
		return nil
	},
}

func init() {
	resetRateLimitCmd.Flags().String("action", domain.ActionSubmitForm, "rate-limited action")
	rootCmd.AddCommand(resetRateLimitCmd)
}
