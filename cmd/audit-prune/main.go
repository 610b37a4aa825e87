// Command audit-prune removes audit journal records older than the
// configured retention period. It is intended to be invoked by an external
// cron job, not as an in-process goroutine.
//
// Exit codes: 0 = success (or audit disabled), 1 = error.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/ndt-conclusions/internal/adapter/postgres"
	"github.com/heartmarshall/ndt-conclusions/internal/adapter/postgres/audit"
	"github.com/heartmarshall/ndt-conclusions/internal/app"
	"github.com/heartmarshall/ndt-conclusions/internal/config"
)

type options struct {
	retentionDays int
	dryRun        bool
	timeout       time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "audit-prune:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "audit-prune",
		Short:         "Remove audit journal records past the retention window",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			return run(ctx, opts)
		},
	}

	cmd.Flags().IntVar(&opts.retentionDays, "retention-days", 0, "override audit.retention_days (0 keeps the configured value)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "report how many records would be removed without deleting")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 5*time.Minute, "overall deadline")

	return cmd
}

func (o options) validate() error {
	if o.retentionDays < 0 {
		return fmt.Errorf("--retention-days must be >= 0 (got %d)", o.retentionDays)
	}
	if o.timeout <= 0 {
		return fmt.Errorf("--timeout must be > 0 (got %s)", o.timeout)
	}
	return nil
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := app.NewLogger(cfg.Log)

	if !cfg.Audit.Enabled {
		logger.Info("audit journal disabled, nothing to prune")
		return nil
	}

	retention := cfg.Audit.RetentionDays
	if opts.retentionDays > 0 {
		retention = opts.retentionDays
	}
	threshold := time.Now().UTC().AddDate(0, 0, -retention)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		return err
	}
	defer pool.Close()

	repo := audit.New(pool)

	if opts.dryRun {
		n, err := repo.CountOlderThan(ctx, threshold)
		if err != nil {
			logger.Error("audit prune dry run failed", slog.String("error", err.Error()))
			return err
		}
		logger.Info("audit prune dry run",
			slog.Int64("would_delete", n),
			slog.Int("retention_days", retention),
			slog.Time("threshold", threshold),
		)
		return nil
	}

	deleted, err := repo.DeleteOlderThan(ctx, threshold)
	if err != nil {
		logger.Error("audit prune failed",
			slog.String("error", err.Error()),
			slog.Time("threshold", threshold),
		)
		return err
	}

	logger.Info("audit prune completed",
		slog.Int64("deleted", deleted),
		slog.Int("retention_days", retention),
		slog.Time("threshold", threshold),
	)
	return nil
}
