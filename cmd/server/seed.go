package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fieldcrew/maintenance-api/internal/domain"
	"github.com/fieldcrew/maintenance-api/internal/platform/postgres"
	"github.com/fieldcrew/maintenance-api/internal/service"
	"github.com/fieldcrew/maintenance-api/internal/service/auth"
	"github.com/fieldcrew/maintenance-api/internal/store"
	"github.com/spf13/cobra"
)

// seedPassword is shared by the demo accounts.
const seedPassword = "super-secret-password"

type seedAccount struct {
	email string
	name  string
	role  domain.Role
}

var seedAccounts = []seedAccount{
	{email: "technician@example.com", name: "Technician", role: domain.RoleTechnician},
	{email: "manager@example.com", name: "Manager", role: domain.RoleManager},
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the demo technician and manager accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			ctx := commandContext(cmd)

			db, err := postgres.Open(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			return seedUsers(ctx, postgres.NewPostgresUserStore(db, log), cfg.Auth.BcryptCost, log)
		},
	}
}

// seedUsers is idempotent; accounts that already exist are left untouched.
func seedUsers(ctx context.Context, users store.UserStore, cost int, log *slog.Logger) error {
	svc, err := service.NewUserService(users, func(pw string) (string, error) {
		return auth.HashPassword(pw, cost)
	}, log)
	if err != nil {
		return err
	}

	for _, a := range seedAccounts {
		user, created, err := svc.EnsureUser(ctx, a.email, a.name, a.role, seedPassword)
		if err != nil {
			return fmt.Errorf("seed %s: %w", a.email, err)
		}
		log.Info("seeded user", "email", user.Email, "role", user.Role, "created", created)
	}
	return nil
}
