package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kirankshetty/Hackathon-sub000/internal/config"
	"github.com/kirankshetty/Hackathon-sub000/internal/database"
	"github.com/kirankshetty/Hackathon-sub000/internal/logging"
	"github.com/kirankshetty/Hackathon-sub000/internal/models"
	"github.com/kirankshetty/Hackathon-sub000/internal/repository"
	"github.com/kirankshetty/Hackathon-sub000/internal/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "hackctl: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "hackctl",
		Short:        "Hackathon portal operator CLI",
		Long:         `hackctl runs database migrations, creates staff accounts and sweeps expired OTPs and sessions.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(os.Getenv("APP_ENV"))
		},
	}
	cmd.AddCommand(
		newMigrateCmd(),
		newCreateStaffCmd(),
		newSweepCmd(),
	)
	return cmd
}

func connect() (*config.Config, error) {
	cfg := config.Load()
	if err := database.Connect(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the portal tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := connect(); err != nil {
				return err
			}
			if err := database.Migrate(); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func newCreateStaffCmd() *cobra.Command {
	var email, password, name, role string
	cmd := &cobra.Command{
		Use:   "create-staff",
		Short: "Create an admin or jury account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := connect()
			if err != nil {
				return err
			}
			auth := services.NewStaffAuthService(repository.NewGorm(database.DB), cfg.JWTSecret, cfg.JWTAccessExpiry, nil)
			staff, err := auth.CreateStaff(cmd.Context(), email, password, name, models.StaffRole(role))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s account %s (%s)\n", staff.Role, staff.Email, staff.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Login e-mail")
	cmd.Flags().StringVar(&password, "password", "", "Password, at least 8 characters")
	cmd.Flags().StringVar(&name, "name", "", "Full name")
	cmd.Flags().StringVar(&role, "role", string(models.RoleAdmin), "admin or jury")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newSweepCmd() *cobra.Command {
	var logRetention time.Duration
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Delete expired OTPs and sessions, and old system logs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := connect()
			if err != nil {
				return err
			}
			sessions := services.NewSessionService(repository.NewGorm(database.DB), cfg.SessionTTL, nil)
			s, o, err := sessions.SweepExpired(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d sessions and %d otps\n", s, o)

			if logRetention > 0 {
				n, err := logging.PurgeSystemLogs(database.DB, time.Now().Add(-logRetention))
				if err != nil {
					return fmt.Errorf("purge system logs: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d system log rows\n", n)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&logRetention, "log-retention", 30*24*time.Hour, "Delete system logs older than this; 0 keeps them")
	return cmd
}
