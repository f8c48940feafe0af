package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/lock"
	"github.com/sethvargo/go-retry"

	// registers the "pgx" database/sql driver used by goose.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Mansurxan1/hadiya/migrations"
	"github.com/Mansurxan1/hadiya/pkg/config"
)

const connectTimeout = 5 * time.Second

// Connect opens a pool and waits for the database to answer a ping. Postgres often
// starts together with the service, so a failing ping is retried with exponential
// backoff up to cfg.ConnectRetries times. A malformed DSN fails at once.
func Connect(ctx context.Context, cfg config.Postgres) (*pgxpool.Pool, error) {
	dbCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	dbCfg.MaxConns = cfg.MaxConn
	dbCfg.ConnConfig.ConnectTimeout = connectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}

	backoff := retry.WithMaxRetries(cfg.ConnectRetries, retry.NewExponential(cfg.ConnectBackoff))

	attempt := 0

	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++

		pingErr := pool.Ping(ctx)
		if pingErr != nil {
			slog.WarnContext(ctx, "postgres is not ready", "attempt", attempt, "error", pingErr)
			return retry.RetryableError(pingErr)
		}

		return nil
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping after %d attempts: %w", attempt, err)
	}

	return pool, nil
}

// UpMigrations applies the embedded migrations that are not applied yet.
func UpMigrations(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	defer db.Close()

	// Replicas starting together wait for each other on an advisory lock.
	locker, err := lock.NewPostgresSessionLocker()
	if err != nil {
		return fmt.Errorf("create migration lock: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS, goose.WithSessionLocker(locker))
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("up migrations: %w", err)
	}

	for _, r := range results {
		slog.InfoContext(ctx, "migration applied", "version", r.Source.Version, "path", r.Source.Path, "took", r.Duration.String())
	}

	return nil
}
