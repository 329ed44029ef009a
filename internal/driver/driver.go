// Package driver hides the difference between database/sql and pgx behind a
// small set of interfaces that the query builder executes against.
package driver

import (
	"context"
	"database/sql"
)

// Executor is the part of DB and Tx that runs statements.
type Executor interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (Result, error)
	Query(ctx context.Context, sql string, args ...interface{}) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) Row
}

// DB is a connection pool.
type DB interface {
	Executor

	// Begin starts a transaction.
	Begin(ctx context.Context) (Tx, error)

	// SQLDB returns the underlying *sql.DB, or nil when the pool is not
	// database/sql based (pgxpool).
	SQLDB() *sql.DB
}

// Tx is an open transaction.
type Tx interface {
	Executor
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Result reports the outcome of Exec.
type Result interface {
	RowsAffected() int64
}

// Rows iterates a result set. Close must be called once the caller is done.
type Rows interface {
	Close()
	Err() error
	Next() bool
	Scan(dest ...interface{}) error
	Columns() ([]string, error)
}

// Row is the result of QueryRow. Scan reports sql.ErrNoRows or pgx.ErrNoRows
// when the query matched nothing.
type Row interface {
	Scan(dest ...interface{}) error
}

// Pinger is implemented by pools that can check connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Closer is implemented by pools that own their connections.
type Closer interface {
	Close()
}
