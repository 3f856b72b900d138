// Package main creates the admin account from ADMIN_USERNAME / ADMIN_PASSWORD,
// or with -d removes every account.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/casinohub/backend/config"
	"github.com/casinohub/backend/internal/auth"
	"github.com/casinohub/backend/internal/models"
	"github.com/casinohub/backend/pkg/database"
)

// userSeeder is the part of auth.Repository the seeder uses.
type userSeeder interface {
	Upsert(ctx context.Context, username, passwordHash string, isAdmin bool) (*models.AdminUser, error)
	DeleteAll(ctx context.Context) (int64, error)
}

func main() {
	destroy := flag.Bool("d", false, "remove every admin account instead of seeding")
	flag.Parse()

	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	if err := database.Migrate(cfg.Database.DSN(), logger); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := seed(ctx, auth.NewRepository(pool), cfg.Admin, *destroy, logger); err != nil {
		logger.Fatal("seed", zap.Error(err))
	}
}

func seed(ctx context.Context, users userSeeder, admin config.AdminConfig, destroy bool, logger *zap.Logger) error {
	if destroy {
		n, err := users.DeleteAll(ctx)
		if err != nil {
			return fmt.Errorf("delete users: %w", err)
		}
		logger.Info("all users removed", zap.Int64("count", n))
		return nil
	}

	if admin.Username == "" {
		return errors.New("ADMIN_USERNAME is empty")
	}
	if len(admin.Password) < 8 {
		return errors.New("ADMIN_PASSWORD must be set and at least 8 characters")
	}
	hash, err := auth.HashPassword(admin.Password)
	if err != nil {
		return err
	}
	u, err := users.Upsert(ctx, admin.Username, hash, true)
	if err != nil {
		return fmt.Errorf("upsert admin: %w", err)
	}
	logger.Info("admin user ready", zap.String("username", u.Username), zap.String("id", u.ID.String()))
	return nil
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
