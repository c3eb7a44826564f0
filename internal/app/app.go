package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/storyfeed/internal/adapter/defstore"
	"github.com/heartmarshall/storyfeed/internal/adapter/postgres"
	defrepo "github.com/heartmarshall/storyfeed/internal/adapter/postgres/definition"
	"github.com/heartmarshall/storyfeed/internal/config"
	"github.com/heartmarshall/storyfeed/internal/service/definition"
)

// storage is the database-backed core shared by the server and the CLI.
type storage struct {
	pool        *pgxpool.Pool
	registry    *defrepo.Repo
	store       *defstore.Store
	definitions *definition.Service
}

// openStorage connects the pool, applies migrations when enabled and makes
// sure the definition directory exists. A missing or broken definition
// directory is logged and does not fail startup.
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger, migrate bool) (*storage, error) {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	if migrate {
		if err := postgres.Migrate(ctx, pool, logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	store := defstore.New(cfg.Definitions)
	created, err := store.EnsureStorageLocation()
	switch {
	case err != nil:
		logger.Error("definition directory unavailable", slog.String("error", err.Error()))
	case created:
		logger.Info("definition directory created", slog.String("dir", store.Dir()))
	}

	registry := defrepo.New(pool)

	return &storage{
		pool:     pool,
		registry: registry,
		store:    store,
		definitions: definition.NewService(logger, registry, store, postgres.NewTxManager(pool), definition.Options{
			RetryDelay:    cfg.Definitions.RetryDelay,
			WatchDebounce: cfg.Definitions.WatchDebounce,
		}),
	}, nil
}

func (s *storage) Close() {
	s.pool.Close()
}

// Run starts the service and blocks until ctx is cancelled or a component
// fails. Startup order: logger, database, migrations, definition directory,
// definition reconcile, routes, embed directives, deferred reconcile, serve.
func Run(ctx context.Context, cfg *config.Config) error {
	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	st, err := openStorage(ctx, cfg, logger, cfg.Database.AutoMigrate)
	if err != nil {
		return err
	}
	defer st.Close()

	report := st.definitions.ReconcileAtStartup(ctx)
	logger.Info("definitions reconciled",
		slog.Int("mutations", report.Mutations()),
		slog.Bool("retry_pending", st.definitions.RetryPending()),
	)

	web, err := newWeb(ctx, cfg, logger, st)
	if err != nil {
		return err
	}
	defer web.Close()

	st.definitions.RunDeferred(ctx)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      web.handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down http server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	if cfg.Definitions.Watch {
		g.Go(func() error {
			if err := st.definitions.Watch(gctx); err != nil {
				logger.Error("definition watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	if cfg.Definitions.CheckSchedule != "" {
		g.Go(func() error {
			return st.definitions.ScheduleCheck(gctx, cfg.Definitions.CheckSchedule)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("application stopped")
	return nil
}
