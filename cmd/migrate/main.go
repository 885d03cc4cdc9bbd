package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hris-workforce-go/internal/config"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-workforce-go/internal/repository/postgresql"
	userService "github.com/cmlabs-hris/hris-workforce-go/internal/service/user"
)

func main() {
	skipBootstrap := flag.Bool("skip-bootstrap", false, "do not create the super admin from SUPER_ADMIN_EMAIL")
	flag.Parse()

	if err := run(*skipBootstrap); err != nil {
		slog.Error("migrate failed", "error", err)
		os.Exit(1)
	}
}

func run(skipBootstrap bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{MaxConns: 2})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	applied, err := database.Migrate(ctx, db)
	for _, version := range applied {
		slog.Info("migration applied", "version", version)
	}
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		slog.Info("schema is up to date")
	}

	if skipBootstrap || cfg.Bootstrap.SuperAdminEmail == "" {
		return nil
	}
	return bootstrapSuperAdmin(ctx, postgresql.NewUserRepository(db), cfg.Bootstrap)
}

// bootstrapSuperAdmin creates the platform operator once; later runs leave it alone.
func bootstrapSuperAdmin(ctx context.Context, users user.UserRepository, bootstrap config.BootstrapConfig) error {
	_, err := users.GetByEmail(ctx, bootstrap.SuperAdminEmail)
	if err == nil {
		slog.Info("super admin already exists", "email", bootstrap.SuperAdminEmail)
		return nil
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return fmt.Errorf("look up super admin: %w", err)
	}

	hash, err := userService.HashPassword(bootstrap.SuperAdminPassword)
	if err != nil {
		return fmt.Errorf("hash super admin password: %w", err)
	}

	created, err := users.Create(ctx, user.User{
		Email:        bootstrap.SuperAdminEmail,
		PasswordHash: hash,
		Role:         user.RoleSuperAdmin,
	})
	if err != nil {
		return fmt.Errorf("create super admin: %w", err)
	}

	slog.Info("super admin created", "user_id", created.ID, "email", created.Email)
	return nil
}
