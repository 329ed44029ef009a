package errors

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

var (
	sqliteUniqueTarget = regexp.MustCompile(`UNIQUE constraint failed: (.+)$`)
	mysqlUniqueTarget  = regexp.MustCompile(`for key '([^']+)'`)
)

// MapDriverError classifies a driver error for model. Errors that are
// already part of the taxonomy pass through unchanged.
func MapDriverError(err error, model string) error {
	if err == nil {
		return nil
	}

	var known *KnownRequestError
	var validation *ValidationError
	var unknown *UnknownRequestError
	if errors.As(err, &known) || errors.As(err, &validation) || errors.As(err, &unknown) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Known(ErrTimeout, model, nil, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapPostgres(pgErr, model)
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return mapMySQL(myErr, model)
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		if mapped := mapSQLite(liteErr, model); mapped != nil {
			return mapped
		}
	}

	return mapByMessage(err, model)
}

func mapPostgres(e *pgconn.PgError, model string) error {
	switch e.Code {
	case "23505":
		return Known(ErrUniqueConstraint, model, map[string]interface{}{"target": e.ConstraintName}, e)
	case "23503":
		return Known(ErrForeignKeyConstraint, model, map[string]interface{}{"field_name": e.ConstraintName}, e)
	case "23502":
		return Known(ErrNullConstraint, model, map[string]interface{}{"constraint": e.ColumnName}, e)
	case "22001":
		return Known(ErrValueTooLong, model, map[string]interface{}{"column_name": e.ColumnName}, e)
	case "40001", "40P01":
		return Known(ErrWriteConflict, model, nil, e)
	case "42P01":
		return Known(ErrTableNotFound, model, map[string]interface{}{"table": e.TableName}, e)
	case "57014":
		return Known(ErrTimeout, model, nil, e)
	}
	return &UnknownRequestError{Message: "database error " + e.Code, cause: e}
}

func mapMySQL(e *mysql.MySQLError, model string) error {
	switch e.Number {
	case 1062:
		meta := map[string]interface{}{}
		if m := mysqlUniqueTarget.FindStringSubmatch(e.Message); m != nil {
			meta["target"] = m[1]
		}
		return Known(ErrUniqueConstraint, model, meta, e)
	case 1451, 1452:
		return Known(ErrForeignKeyConstraint, model, nil, e)
	case 1048, 1364:
		return Known(ErrNullConstraint, model, nil, e)
	case 1406:
		return Known(ErrValueTooLong, model, nil, e)
	case 1205, 1213:
		return Known(ErrWriteConflict, model, nil, e)
	case 1146:
		return Known(ErrTableNotFound, model, nil, e)
	}
	return &UnknownRequestError{Message: "database error", cause: e}
}

func mapSQLite(e sqlite3.Error, model string) error {
	switch e.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		meta := map[string]interface{}{}
		if m := sqliteUniqueTarget.FindStringSubmatch(e.Error()); m != nil {
			meta["target"] = uniqueFields(m[1])
		}
		return Known(ErrUniqueConstraint, model, meta, e)
	case sqlite3.ErrConstraintForeignKey:
		return Known(ErrForeignKeyConstraint, model, nil, e)
	case sqlite3.ErrConstraintNotNull:
		return Known(ErrNullConstraint, model, nil, e)
	}
	switch e.Code {
	case sqlite3.ErrBusy, sqlite3.ErrLocked:
		return Known(ErrWriteConflict, model, nil, e)
	}
	return nil
}

// uniqueFields turns "User.email, User.clerkId" into [email clerkId].
func uniqueFields(s string) []string {
	parts := strings.Split(s, ",")
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if i := strings.LastIndex(p, "."); i >= 0 {
			p = p[i+1:]
		}
		fields = append(fields, p)
	}
	return fields
}

func mapByMessage(err error, model string) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "no such table"), strings.Contains(msg, "doesn't exist") && strings.Contains(msg, "table"):
		return Known(ErrTableNotFound, model, nil, err)
	case strings.Contains(msg, "unique constraint"), strings.Contains(msg, "duplicate key"), strings.Contains(msg, "duplicate entry"):
		return Known(ErrUniqueConstraint, model, nil, err)
	case strings.Contains(msg, "foreign key constraint"):
		return Known(ErrForeignKeyConstraint, model, nil, err)
	case strings.Contains(msg, "not null constraint"), strings.Contains(msg, "not-null constraint"):
		return Known(ErrNullConstraint, model, nil, err)
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"):
		return Known(ErrTimeout, model, nil, err)
	case strings.Contains(msg, "connection refused"), strings.Contains(msg, "no such host"), strings.Contains(msg, "network is unreachable"):
		return Known(ErrConnectionFailed, model, nil, err)
	}
	return &UnknownRequestError{Message: "Unknown request error", cause: err}
}

// MapConnectError classifies a failure to open or ping a database.
func MapConnectError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == "28P01" || pgErr.Code == "28000") {
		return Initialization(ErrAuthenticationFailed, err)
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1045 {
		return Initialization(ErrAuthenticationFailed, err)
	}
	return Initialization(ErrDatabaseUnreachable, err)
}
