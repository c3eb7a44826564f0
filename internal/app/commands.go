package app

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/storyfeed/internal/adapter/postgres"
	"github.com/heartmarshall/storyfeed/internal/auth"
	"github.com/heartmarshall/storyfeed/internal/config"
	"github.com/heartmarshall/storyfeed/internal/service/definition"
)

// Migrate applies all pending database migrations.
func Migrate(ctx context.Context, cfg *config.Config) error {
	logger := NewLogger(cfg.Log)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	return postgres.Migrate(ctx, pool, logger)
}

// SyncDefinitions reconciles the definition documents with the registry once.
// A partial report is returned next to per-document errors.
func SyncDefinitions(ctx context.Context, cfg *config.Config) (definition.Report, error) {
	logger := NewLogger(cfg.Log)

	st, err := openStorage(ctx, cfg, logger, false)
	if err != nil {
		return definition.Report{}, err
	}
	defer st.Close()

	report, err := st.definitions.Reconcile(ctx)
	if err == nil {
		logger.Info("definitions synced", slog.Int("mutations", report.Mutations()))
	}
	return report, err
}

// CheckSync lists documents that differ from the registry without changing it.
func CheckSync(ctx context.Context, cfg *config.Config) ([]definition.PendingSync, error) {
	logger := NewLogger(cfg.Log)

	st, err := openStorage(ctx, cfg, logger, false)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	return st.definitions.CheckSyncRequired(ctx)
}

// AdminToken issues an admin bearer token for subject.
func AdminToken(cfg *config.Config, subject string) (string, error) {
	m, err := auth.NewJWTManager(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.AdminTokenTTL)
	if err != nil {
		return "", err
	}
	return m.GenerateAdminToken(subject)
}
