package cmd

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"partnershipintake/internal/domain"
	"partnershipintake/internal/validation"
)

//go:embed seed/hubs.yaml
var defaultSeed []byte

type seedFile struct {
	Hubs     []*domain.Hub `yaml:"hubs"`
	Holidays []string      `yaml:"holidays"`
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed hubs, the holiday calendar and optionally an admin user",
	Long: `Upsert hubs and the holiday calendar from the embedded seed file (or --file).
When --admin-email is given an ADMIN staff user is created as well; its password is read
from --admin-password or the SEED_ADMIN_PASSWORD environment variable.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().String("file", "", "seed YAML file (defaults to the embedded seed)")
	seedCmd.Flags().String("admin-email", "", "create an ADMIN staff user with this email")
	seedCmd.Flags().String("admin-name", "Administrator", "full name of the admin user")
	seedCmd.Flags().String("admin-password", "", "admin password (or SEED_ADMIN_PASSWORD)")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	data := defaultSeed
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read seed file: %w", err)
		}
		data = b
	}
	seed, err := parseSeed(data)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	repos := a.repositories()

	for _, hub := range seed.Hubs {
		if err := repos.hubs.Upsert(ctx, hub); err != nil {
			return fmt.Errorf("upsert hub %s: %w", hub.Name, err)
		}
		a.logger.Info("hub seeded", "name", hub.Name, "id", hub.ID, "active", hub.IsActive)
	}

	holidays, err := json.Marshal(seed.Holidays)
	if err != nil {
		return err
	}
	if err := repos.systemConfig.Set(ctx, domain.ConfigKeyHolidays, holidays); err != nil {
		return fmt.Errorf("store holidays: %w", err)
	}
	a.logger.Info("holiday calendar seeded", "count", len(seed.Holidays))

	adminEmail, _ := cmd.Flags().GetString("admin-email")
	if adminEmail == "" {
		return nil
	}
	name, _ := cmd.Flags().GetString("admin-name")
	password, _ := cmd.Flags().GetString("admin-password")
	if password == "" {
		password = os.Getenv("SEED_ADMIN_PASSWORD")
	}
	authSvc, _ := a.authService(repos.staff)
	user, err := authSvc.CreateStaff(ctx, adminEmail, name, domain.RoleAdmin, password)
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	a.logger.Info("admin user created", "id", user.ID, "email", user.Email)
	return nil
}

// parseSeed decodes and checks a seed file. Hubs without a window get the default one.
func parseSeed(data []byte) (*seedFile, error) {
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	if len(seed.Hubs) == 0 {
		return nil, fmt.Errorf("seed has no hubs")
	}
	for i, hub := range seed.Hubs {
		if !hub.Name.Valid() {
			return nil, fmt.Errorf("hub %d: unknown name %q", i, hub.Name)
		}
		if hub.Timezone == "" {
			hub.Timezone = domain.DefaultTimezone
		}
		if _, err := time.LoadLocation(hub.Timezone); err != nil {
			return nil, fmt.Errorf("hub %s: %w", hub.Name, err)
		}
		if hub.OpenTime == "" {
			hub.OpenTime = domain.DefaultOpenTime
		}
		if hub.CloseTime == "" {
			hub.CloseTime = domain.DefaultCloseTime
		}
		open, err := validation.ParseTimeOfDay(hub.OpenTime)
		if err != nil {
			return nil, fmt.Errorf("hub %s: open_time: %w", hub.Name, err)
		}
		closing, err := validation.ParseTimeOfDay(hub.CloseTime)
		if err != nil {
			return nil, fmt.Errorf("hub %s: close_time: %w", hub.Name, err)
		}
		if closing <= open {
			return nil, fmt.Errorf("hub %s: close_time must be after open_time", hub.Name)
		}
	}
	if seed.Holidays == nil {
		seed.Holidays = []string{}
	}
	for _, d := range seed.Holidays {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return nil, fmt.Errorf("holiday %q: want YYYY-MM-DD", d)
		}
	}
	return &seed, nil
}
