// Package database wraps a pgx connection pool with the retry behavior the
// explain subcommand needs when it runs a compiled statement against a live
// catalog database.
package database

import (
	"context"
	"errors"
	"time"

	"github.com/cloudflare/backoff"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/accented-ai/genquery2/internal/util"
)

const (
	lockNotAvailableCode = "55P03"
	maxBackoffDuration   = 1 * time.Minute
	backoffInterval      = 1 * time.Second
)

// Pool wraps a *pgxpool.Pool.
type Pool struct {
	pool *pgxpool.Pool
}

// NewPoolFromURL opens and pings a connection pool against url.
func NewPoolFromURL(ctx context.Context, url string) (*Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, util.WrapError("parse pool config", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, util.WrapError("create connection pool", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, util.WrapError("ping database", err)
	}

	return &Pool{pool: pool}, nil
}

func (p *Pool) Close() {
	p.pool.Close()
}

// QueryRetrying runs sql, retrying with exponential backoff if the catalog
// reports a lock_not_available error — the same condition the generated
// recursive CTE queries can hit against a busy R_RESC_MAIN.
func (p *Pool) QueryRetrying(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	b := backoff.New(maxBackoffDuration, backoffInterval)

	for {
		rows, err := p.pool.Query(ctx, sql, args...)
		if err == nil {
			return rows, nil
		}

		pgErr := &pgconn.PgError{}
		if errors.As(err, &pgErr) && pgErr.Code == lockNotAvailableCode {
			if sleepErr := sleepCtx(ctx, b.Duration()); sleepErr != nil {
				return nil, sleepErr
			}

			continue
		}

		return nil, util.WrapError("execute query", err)
	}
}

func (p *Pool) CurrentDatabase(ctx context.Context) (string, error) {
	var dbName string

	err := p.pool.QueryRow(ctx, "SELECT current_database()").Scan(&dbName)
	if err != nil {
		return "", util.WrapError("get current database", err)
	}

	return dbName, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
