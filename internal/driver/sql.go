package driver

import (
	"context"
	"database/sql"
)

// SQLAdapter adapts *sql.DB to DB. It serves the mysql and sqlite3 drivers
// and the pgx stdlib driver.
type SQLAdapter struct {
	db *sql.DB
}

// NewSQLDB wraps a database/sql pool.
func NewSQLDB(db *sql.DB) DB {
	return &SQLAdapter{db: db}
}

func (a *SQLAdapter) Exec(ctx context.Context, query string, args ...interface{}) (Result, error) {
	res, err := a.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return sqlResult{res: res}, nil
}

func (a *SQLAdapter) Query(ctx context.Context, query string, args ...interface{}) (Rows, error) {
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &sqlRows{rows: rows}, nil
}

func (a *SQLAdapter) QueryRow(ctx context.Context, query string, args ...interface{}) Row {
	return a.db.QueryRowContext(ctx, query, args...)
}

func (a *SQLAdapter) Begin(ctx context.Context) (Tx, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqlTx{tx: tx}, nil
}

func (a *SQLAdapter) SQLDB() *sql.DB {
	return a.db
}

// Ping verifies the pool can reach the server.
func (a *SQLAdapter) Ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

// Close closes every connection in the pool.
func (a *SQLAdapter) Close() {
	_ = a.db.Close()
}

type sqlResult struct {
	res sql.Result
}

// RowsAffected returns -1 when the driver cannot report it.
func (r sqlResult) RowsAffected() int64 {
	n, err := r.res.RowsAffected()
	if err != nil {
		return -1
	}
	return n
}

type sqlRows struct {
	rows *sql.Rows
}

func (r *sqlRows) Close()                         { _ = r.rows.Close() }
func (r *sqlRows) Err() error                     { return r.rows.Err() }
func (r *sqlRows) Next() bool                     { return r.rows.Next() }
func (r *sqlRows) Scan(dest ...interface{}) error { return r.rows.Scan(dest...) }
func (r *sqlRows) Columns() ([]string, error)     { return r.rows.Columns() }

type sqlTx struct {
	tx *sql.Tx
}

// Commit ignores ctx; database/sql binds the transaction to the context
// given to BeginTx.
func (t *sqlTx) Commit(ctx context.Context) error {
	return t.tx.Commit()
}

func (t *sqlTx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback()
	if err == sql.ErrTxDone {
		return nil
	}
	return err
}

func (t *sqlTx) Exec(ctx context.Context, query string, args ...interface{}) (Result, error) {
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return sqlResult{res: res}, nil
}

func (t *sqlTx) Query(ctx context.Context, query string, args ...interface{}) (Rows, error) {
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &sqlRows{rows: rows}, nil
}

func (t *sqlTx) QueryRow(ctx context.Context, query string, args ...interface{}) Row {
	return t.tx.QueryRowContext(ctx, query, args...)
}
