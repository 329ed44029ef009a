// Package raw runs hand written SQL on the same session as the client:
// statements are logged, time limited and their errors mapped like any
// other client call, and inside Client.Transaction they join the
// transaction.
//
// Placeholders are written as ? for every database and rewritten to $n on
// PostgreSQL.
package raw

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/carlosnayan/gigboard/builder"
	"github.com/carlosnayan/gigboard/internal/driver"
	"github.com/carlosnayan/gigboard/internal/errors"
	"github.com/carlosnayan/gigboard/internal/limits"
)

// Executor provides methods for executing raw SQL queries
type Executor struct {
	session *builder.Session
}

// New creates a new raw query executor
func New(s *builder.Session) *Executor {
	return &Executor{session: s}
}

// Query executes a raw SQL query and scans every row into dest, a pointer
// to a slice of structs whose db tags name the selected columns.
//
// Example:
//
//	var rows []struct {
//	    Status string `db:"status"`
//	    Total  int64  `db:"total"`
//	}
//	err := client.Raw().Query(ctx, &rows, `
//	    SELECT "status", COUNT(*) AS "total"
//	    FROM "Assignment"
//	    WHERE "posterId" = ?
//	    GROUP BY "status"
//	`, posterID)
func (e *Executor) Query(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	if err := checkSize(query); err != nil {
		return err
	}
	return e.session.Query(ctx, "", query, args, func(rows driver.Rows) error {
		return builder.ScanAll(rows, dest)
	})
}

// QueryMaps executes a raw SQL query and returns each row as a column ->
// value map. Text columns come back as string.
func (e *Executor) QueryMaps(ctx context.Context, query string, args ...interface{}) ([]map[string]interface{}, error) {
	if err := checkSize(query); err != nil {
		return nil, err
	}
	out := []map[string]interface{}{}
	err := e.session.Query(ctx, "", query, args, func(rows driver.Rows) error {
		cols, err := rows.Columns()
		if err != nil {
			return err
		}
		for rows.Next() {
			if len(out) >= limits.MaxScanRows {
				return errors.Validation("", "queryRaw", "result set too large: maximum %d rows allowed", limits.MaxScanRows)
			}
			values := make([]interface{}, len(cols))
			dest := make([]interface{}, len(cols))
			for i := range values {
				dest[i] = &values[i]
			}
			if err := rows.Scan(dest...); err != nil {
				return err
			}
			row := make(map[string]interface{}, len(cols))
			for i, col := range cols {
				if b, ok := values[i].([]byte); ok {
					row[col] = string(b)
					continue
				}
				row[col] = values[i]
			}
			out = append(out, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// QueryRow executes a raw SQL query that returns a single row and scans it
// into dest. No row is a P2025 error.
//
// Example:
//
//	var total, open int64
//	err := client.Raw().QueryRow(ctx, `
//	    SELECT COUNT(*), COUNT(CASE WHEN "status" = 'OPEN' THEN 1 END)
//	    FROM "Assignment"
//	`, nil, &total, &open)
func (e *Executor) QueryRow(ctx context.Context, query string, args []interface{}, dest ...interface{}) error {
	if err := checkSize(query); err != nil {
		return err
	}
	err := e.session.QueryRow(ctx, "", query, args, dest...)
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.NotFound("", "raw query returned no rows")
	}
	return err
}

// Exec executes a raw SQL command (INSERT, UPDATE, DELETE) and returns the
// number of affected rows.
//
// Example:
//
//	n, err := client.Raw().Exec(ctx, `
//	    UPDATE "Message" SET "read" = TRUE
//	    WHERE "receiverId" = ? AND "createdAt" < ?
//	`, userID, cutoff)
func (e *Executor) Exec(ctx context.Context, query string, args ...interface{}) (int64, error) {
	if err := checkSize(query); err != nil {
		return 0, err
	}
	res, err := e.session.Exec(ctx, "", query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

func checkSize(query string) error {
	if len(query) > limits.MaxRawQuerySize {
		return errors.Validation("", "queryRaw", "query exceeds maximum size of %d bytes", limits.MaxRawQuerySize)
	}
	return nil
}
