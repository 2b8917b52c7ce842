// Package pg opens PostgreSQL connections for the pgstore backend.
//
// Connections go through a pgx pool wrapped by bun with the pgdialect. Every bun
// database gets an OpenTelemetry query hook and, when Config.Debug is set, a hook that
// logs each statement.
package pg

import (
	"context"

	"github.com/avast/retry-go/v4"
	"github.com/code19m/errx"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rise-and-shine/docrepo/logger"
	"github.com/rise-and-shine/docrepo/pg/hooks"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/extra/bunotel"
)

// NewPool creates a pgx connection pool. No connection is opened yet.
func NewPool(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, errx.Wrap(err)
	}

	poolConfig.MaxConns = cfg.PoolMaxConns
	poolConfig.MinConns = cfg.PoolMinConns
	poolConfig.MaxConnIdleTime = cfg.PoolMaxConnIdleTime
	poolConfig.MaxConnLifetime = cfg.PoolMaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return pool, nil
}

// NewBunDB wraps a new pool in a bun database with the query hooks applied.
func NewBunDB(ctx context.Context, cfg Config) (*bun.DB, error) {
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	db := bun.NewDB(stdlib.OpenDBFromPool(pool), pgdialect.New())
	applyHooks(db, cfg.Debug)
	return db, nil
}

// Connect is NewBunDB followed by a ping that is retried until the server answers,
// Config.ConnectAttempts is exhausted or ctx is done.
func Connect(ctx context.Context, cfg Config) (*bun.DB, error) {
	db, err := NewBunDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	log := logger.Named("pg").WithContext(ctx)
	err = retry.Do(
		func() error {
			return db.PingContext(ctx)
		},
		retry.Attempts(max(cfg.ConnectAttempts, 1)),
		retry.Delay(cfg.ConnectRetryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.With("attempt", n+1, "host", cfg.Host, "error", err.Error()).Warn("postgres is not reachable yet")
		}),
		retry.Context(ctx),
	)
	if err != nil {
		_ = db.Close()
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"host": cfg.Host, "database": cfg.Database}))
	}

	return db, nil
}

func applyHooks(db *bun.DB, debug bool) {
	db.AddQueryHook(hooks.NewDebugHook(hooks.WithEnabled(debug)))
	db.AddQueryHook(bunotel.NewQueryHook(bunotel.WithDBName("docrepo")))
}
