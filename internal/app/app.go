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
	"github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/ndt-conclusions/internal/adapter/postgres"
	"github.com/heartmarshall/ndt-conclusions/internal/adapter/postgres/audit"
	"github.com/heartmarshall/ndt-conclusions/internal/config"
	"github.com/heartmarshall/ndt-conclusions/internal/service/journal"
	"github.com/heartmarshall/ndt-conclusions/internal/service/session"
	"github.com/heartmarshall/ndt-conclusions/internal/transport/middleware"
	"github.com/heartmarshall/ndt-conclusions/internal/transport/rest"
	"github.com/heartmarshall/ndt-conclusions/migrations"
)

// Run is the application entry point. It loads configuration, initializes
// the logger and serves until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.Bool("audit", cfg.Audit.Enabled),
	)

	return Serve(ctx, cfg, logger)
}

// Serve wires the session registry, the optional audit journal and the HTTP
// server, then blocks until ctx is cancelled or a component fails. Shutdown
// drains in-flight requests for at most Server.ShutdownTimeout.
func Serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	var (
		pool   *pgxpool.Pool
		repo   *audit.Repo
		writer *journal.Writer
	)
	if cfg.Audit.Enabled {
		var err error
		pool, err = postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("audit database: %w", err)
		}
		defer pool.Close()

		if cfg.Audit.AutoMigrate {
			if err := migrate(ctx, pool, logger); err != nil {
				return err
			}
		}
		repo = audit.New(pool)
		writer = journal.NewWriter(logger, repo, cfg.Audit.BufferSize, cfg.Audit.WriteTimeout)
	}

	sessions := newSessionService(logger, writer, cfg.Session)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
	defer limiter.Stop()

	var health *rest.HealthHandler
	if pool != nil {
		health = rest.NewHealthHandler(pool, sessions, BuildVersion())
	} else {
		health = rest.NewHealthHandler(nil, sessions, BuildVersion())
	}

	var journalHandler *rest.JournalHandler
	if repo != nil {
		journalHandler = rest.NewJournalHandler(repo, logger)
	}

	handler := rest.NewRouter(rest.RouterDeps{
		Sessions:    rest.NewSessionHandler(sessions, logger),
		Journal:     journalHandler,
		Health:      health,
		RateLimiter: limiter,
		RateLimit:   cfg.RateLimit,
		CORS:        cfg.CORS,
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	// The journal outlives the HTTP server so records from draining
	// requests are still flushed.
	journalCtx, stopJournal := context.WithCancel(context.Background())
	defer stopJournal()
	if writer != nil {
		g.Go(func() error {
			return writer.Run(journalCtx)
		})
	}

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return sessions.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		defer stopJournal()
		logger.Info("shutting down", slog.Int("open_sessions", sessions.Count()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func newSessionService(logger *slog.Logger, writer *journal.Writer, cfg config.SessionConfig) *session.Service {
	if writer == nil {
		return session.NewService(logger, nil, cfg)
	}
	return session.NewService(logger, writer, cfg)
}

func migrate(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	applied, err := migrations.Up(ctx, db)
	if err != nil {
		return fmt.Errorf("migrate audit schema: %w", err)
	}
	logger.Info("audit schema migrated", slog.Int("applied", applied))
	return nil
}
