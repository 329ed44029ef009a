package driver

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolConfig holds pgxpool sizing and connection lifetimes.
type PoolConfig struct {
	MaxConns              int32
	MinConns              int32
	MaxConnLifetime       time.Duration
	MaxConnIdleTime       time.Duration
	HealthCheckPeriod     time.Duration
	MaxConnLifetimeJitter time.Duration
}

// DefaultPoolConfig returns the production defaults.
func DefaultPoolConfig() *PoolConfig {
	return &PoolConfig{
		MaxConns:              25,
		MinConns:              5,
		MaxConnLifetime:       30 * time.Minute,
		MaxConnIdleTime:       5 * time.Minute,
		HealthCheckPeriod:     time.Minute,
		MaxConnLifetimeJitter: 30 * time.Second,
	}
}

// Apply copies the non-zero settings onto a parsed pgxpool config.
func (c *PoolConfig) Apply(cfg *pgxpool.Config) {
	if c == nil {
		c = DefaultPoolConfig()
	}
	if c.MaxConns > 0 {
		cfg.MaxConns = c.MaxConns
	}
	if c.MinConns > 0 {
		cfg.MinConns = c.MinConns
	}
	if c.MaxConnLifetime > 0 {
		cfg.MaxConnLifetime = c.MaxConnLifetime
	}
	if c.MaxConnIdleTime > 0 {
		cfg.MaxConnIdleTime = c.MaxConnIdleTime
	}
	if c.HealthCheckPeriod > 0 {
		cfg.HealthCheckPeriod = c.HealthCheckPeriod
	}
	if c.MaxConnLifetimeJitter > 0 {
		cfg.MaxConnLifetimeJitter = c.MaxConnLifetimeJitter
	}
}

// NewPgxPoolWithConfig parses databaseURL, applies poolConfig and opens the pool.
// A nil poolConfig means DefaultPoolConfig.
func NewPgxPoolWithConfig(ctx context.Context, databaseURL string, poolConfig *PoolConfig) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	poolConfig.Apply(cfg)
	return pgxpool.NewWithConfig(ctx, cfg)
}

// PgxPoolAdapter adapts *pgxpool.Pool to DB.
type PgxPoolAdapter struct {
	pool *pgxpool.Pool
}

// NewPgxPool wraps an open pool.
func NewPgxPool(pool *pgxpool.Pool) DB {
	return &PgxPoolAdapter{pool: pool}
}

func (a *PgxPoolAdapter) Exec(ctx context.Context, query string, args ...interface{}) (Result, error) {
	tag, err := a.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgxResult{tag: tag}, nil
}

func (a *PgxPoolAdapter) Query(ctx context.Context, query string, args ...interface{}) (Rows, error) {
	rows, err := a.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &pgxRows{rows: rows}, nil
}

func (a *PgxPoolAdapter) QueryRow(ctx context.Context, query string, args ...interface{}) Row {
	return pgxRow{row: a.pool.QueryRow(ctx, query, args...)}
}

func (a *PgxPoolAdapter) Begin(ctx context.Context) (Tx, error) {
	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &pgxTx{tx: tx}, nil
}

// SQLDB is always nil for pgxpool. DDL goes through the pgx stdlib driver.
func (a *PgxPoolAdapter) SQLDB() *sql.DB { return nil }

func (a *PgxPoolAdapter) Ping(ctx context.Context) error { return a.pool.Ping(ctx) }

func (a *PgxPoolAdapter) Close() { a.pool.Close() }

type pgxResult struct {
	tag pgconn.CommandTag
}

func (r pgxResult) RowsAffected() int64 { return r.tag.RowsAffected() }

type pgxRows struct {
	rows pgx.Rows
}

func (r *pgxRows) Close()                         { r.rows.Close() }
func (r *pgxRows) Err() error                     { return r.rows.Err() }
func (r *pgxRows) Next() bool                     { return r.rows.Next() }
func (r *pgxRows) Scan(dest ...interface{}) error { return r.rows.Scan(dest...) }

func (r *pgxRows) Columns() ([]string, error) {
	fields := r.rows.FieldDescriptions()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names, nil
}

// pgxRow reports sql.ErrNoRows instead of pgx.ErrNoRows so callers only
// check one sentinel.
type pgxRow struct {
	row pgx.Row
}

func (r pgxRow) Scan(dest ...interface{}) error {
	err := r.row.Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
		return sql.ErrNoRows
	}
	return err
}

type pgxTx struct {
	tx pgx.Tx
}

func (t *pgxTx) Commit(ctx context.Context) error { return t.tx.Commit(ctx) }

func (t *pgxTx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

func (t *pgxTx) Exec(ctx context.Context, query string, args ...interface{}) (Result, error) {
	tag, err := t.tx.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgxResult{tag: tag}, nil
}

func (t *pgxTx) Query(ctx context.Context, query string, args ...interface{}) (Rows, error) {
	rows, err := t.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &pgxRows{rows: rows}, nil
}

func (t *pgxTx) QueryRow(ctx context.Context, query string, args ...interface{}) Row {
	return pgxRow{row: t.tx.QueryRow(ctx, query, args...)}
}
