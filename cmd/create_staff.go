package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"partnershipintake/internal/domain"
)

var createStaffCmd = &cobra.Command{
	Use:   "create-staff",
	Short: "Create a staff user for the dashboard",
	Long:  `Create a staff user. The password is read from --password or the STAFF_PASSWORD environment variable.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		email, _ := cmd.Flags().GetString("email")
		name, _ := cmd.Flags().GetString("name")
		role, _ := cmd.Flags().GetString("role")
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			password = os.Getenv("STAFF_PASSWORD")
		}

		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		authSvc, _ := a.authService(a.repositories().staff)
		user, err := authSvc.CreateStaff(ctx, email, name, domain.StaffRole(strings.ToUpper(role)), password)
		if err != nil {
			return fmt.Errorf("create staff: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", user.Role, user.Email, user.ID)
		return nil
	},
}

func init() {
	createStaffCmd.Flags().String("email", "", "staff email (required)")
	createStaffCmd.Flags().String("name", "", "full name (required)")
	createStaffCmd.Flags().String("role", string(domain.RoleReviewer), "ADMIN, REVIEWER, TEAM_MEMBER or SCHEDULER")
	createStaffCmd.Flags().String("password", "", "password, at least 8 characters")
	_ = createStaffCmd.MarkFlagRequired("email")
	_ = createStaffCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(createStaffCmd)
}
