package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"partnershipintake/internal/repository/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		applied, err := migrateDB(cmd.Context(), a)
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			a.logger.Info("database is up to date")
			return nil
		}
		a.logger.Info("migrations applied", "files", applied)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func migrateDB(ctx context.Context, a *app) ([]string, error) {
	applied, err := postgres.Migrate(ctx, a.db)
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return applied, nil
}
