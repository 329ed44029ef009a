package builder

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	contextutil "github.com/carlosnayan/gigboard/internal/context"
	"github.com/carlosnayan/gigboard/internal/dialect"
	"github.com/carlosnayan/gigboard/internal/driver"
	"github.com/carlosnayan/gigboard/internal/errors"
	"github.com/carlosnayan/gigboard/internal/logger"
	"github.com/carlosnayan/gigboard/internal/query"
	"github.com/carlosnayan/gigboard/schema"
)

// DBTX is an alias for driver.DB
type DBTX = driver.DB

// Session is what every table of one client shares: the executor statements
// run on, its dialect, the schema, the logger and the N+1 detector. A
// transaction gets its own Session bound to the open transaction.
type Session struct {
	exec     driver.Executor
	db       driver.DB
	dialect  dialect.Dialect
	schema   *schema.Schema
	logger   *logger.Logger
	detector *query.N1Detector
}

// NewSession creates a session over db. A nil dialect means PostgreSQL.
func NewSession(db driver.DB, d dialect.Dialect, s *schema.Schema) *Session {
	if d == nil {
		d = dialect.GetDialect("postgresql")
	}
	return &Session{exec: db, db: db, dialect: d, schema: s}
}

// WithLogger returns a copy logging to l instead of the default logger.
func (s *Session) WithLogger(l *logger.Logger) *Session {
	c := *s
	c.logger = l
	return &c
}

// WithDetector returns a copy reporting SELECTs to d.
func (s *Session) WithDetector(d *query.N1Detector) *Session {
	c := *s
	c.detector = d
	return &c
}

func (s *Session) withTx(tx driver.Tx) *Session {
	c := *s
	c.exec = tx
	c.db = nil
	return &c
}

// Dialect returns the session's dialect.
func (s *Session) Dialect() dialect.Dialect { return s.dialect }

// Schema returns the model metadata.
func (s *Session) Schema() *schema.Schema { return s.schema }

// DB returns the pool, or nil inside a transaction.
func (s *Session) DB() driver.DB { return s.db }

// Executor returns what statements run on: the pool or the transaction.
func (s *Session) Executor() driver.Executor { return s.exec }

// InTransaction reports whether the session is bound to a transaction.
func (s *Session) InTransaction() bool { return s.db == nil }

// Detector returns the N+1 detector, if any.
func (s *Session) Detector() *query.N1Detector { return s.detector }

// getLogger returns the session logger, falling back to the current default
// so that loggers configured after the client was built are honoured.
func (s *Session) getLogger() *logger.Logger {
	if s.logger != nil {
		return s.logger
	}
	return logger.GetDefaultLogger()
}

// Exec runs a statement written with ? placeholders.
func (s *Session) Exec(ctx context.Context, model, stmt string, args ...interface{}) (driver.Result, error) {
	ctx, cancel := contextutil.WithQueryTimeout(ctx)
	defer cancel()

	stmt = rebind(s.dialect, stmt)
	start := time.Now()
	res, err := s.exec.Exec(ctx, stmt, args...)
	logStatement(s.getLogger(), model, stmt, args, time.Since(start), err)
	if err != nil {
		return nil, errors.MapDriverError(err, model)
	}
	return res, nil
}

// Query runs a SELECT written with ? placeholders and hands the rows to fn.
// The rows are closed when fn returns.
func (s *Session) Query(ctx context.Context, model, stmt string, args []interface{}, fn func(driver.Rows) error) error {
	ctx, cancel := contextutil.WithQueryTimeout(ctx)
	defer cancel()

	stmt = rebind(s.dialect, stmt)
	s.detector.Record(stmt, model)

	start := time.Now()
	rows, err := s.exec.Query(ctx, stmt, args...)
	if err != nil {
		logStatement(s.getLogger(), model, stmt, args, time.Since(start), err)
		return errors.MapDriverError(err, model)
	}
	defer rows.Close()

	err = fn(rows)
	if err == nil {
		err = rows.Err()
	}
	logStatement(s.getLogger(), model, stmt, args, time.Since(start), err)
	if err != nil {
		return errors.MapDriverError(err, model)
	}
	return nil
}

// QueryRow runs a single row SELECT and scans it into dest. A query that
// matches nothing returns sql.ErrNoRows unmapped.
func (s *Session) QueryRow(ctx context.Context, model, stmt string, args []interface{}, dest ...interface{}) error {
	ctx, cancel := contextutil.WithQueryTimeout(ctx)
	defer cancel()

	stmt = rebind(s.dialect, stmt)
	s.detector.Record(stmt, model)

	start := time.Now()
	err := s.exec.QueryRow(ctx, stmt, args...).Scan(dest...)
	if stderrors.Is(err, sql.ErrNoRows) {
		logStatement(s.getLogger(), model, stmt, args, time.Since(start), nil)
		return sql.ErrNoRows
	}
	logStatement(s.getLogger(), model, stmt, args, time.Since(start), err)
	return errors.MapDriverError(err, model)
}
