// Package dialect isolates the SQL differences between PostgreSQL, MySQL and
// SQLite: identifier quoting, placeholders, type mapping and a few clauses.
package dialect

import (
	"strconv"
	"strings"
)

// Dialect describes one database flavour.
type Dialect interface {
	// Name is the canonical provider name: postgresql, mysql or sqlite.
	Name() string

	// QuoteIdentifier quotes a table or column name.
	QuoteIdentifier(name string) string

	// QuoteString renders a string literal.
	QuoteString(value string) string

	// MapType maps a schema scalar type (String, Int, Float, Boolean,
	// DateTime, Json, Enum) to a column type.
	MapType(schemaType string, isNullable bool) string

	// MapDefaultValue renders a schema default (now(), true, 0, OPEN) as a
	// column DEFAULT expression. Empty means no database default.
	MapDefaultValue(value string) string

	// GetPlaceholder returns the bind parameter for the 1-based index.
	GetPlaceholder(index int) string

	GetNowFunction() string

	// GetDriverName is the database/sql driver name.
	GetDriverName() string

	// GetLimitOffsetSyntax renders LIMIT/OFFSET. A negative limit means
	// unlimited, zero is a real LIMIT 0.
	GetLimitOffsetSyntax(limit, offset int) string

	// SensitiveLike renders a case-sensitive match of an already quoted
	// column against a LIKE pattern whose wildcards are escaped with escape.
	// It returns SQL with one placeholder "?" and the argument to bind.
	SensitiveLike(column, pattern, escape string) (string, interface{})

	// InsensitiveLike renders a case-insensitive LIKE of an already quoted
	// column against one placeholder "?".
	InsensitiveLike(column string) string

	// InsertIgnore returns the statement prefix and suffix that make an
	// INSERT skip rows violating a unique constraint.
	InsertIgnore() (prefix, suffix string)

	// LockingClause is appended to a SELECT to lock the selected rows for
	// the current transaction. Empty when the database locks per file.
	LockingClause() string

	// TableOptions is appended to CREATE TABLE.
	TableOptions() string
}

// GetDialect returns the dialect for a provider name; unknown names get PostgreSQL.
func GetDialect(provider string) Dialect {
	switch strings.ToLower(provider) {
	case "mysql", "mariadb":
		return &MySQLDialect{}
	case "sqlite", "sqlite3", "file":
		return &SQLiteDialect{}
	default:
		return &PostgreSQLDialect{}
	}
}

// DetectProvider infers the provider from a connection URL.
func DetectProvider(url string) string {
	u := strings.ToLower(url)
	switch {
	case strings.HasPrefix(u, "postgres://"), strings.HasPrefix(u, "postgresql://"):
		return "postgresql"
	case strings.HasPrefix(u, "mysql://"):
		return "mysql"
	case strings.HasPrefix(u, "sqlite://"), strings.HasPrefix(u, "file:"), strings.HasSuffix(u, ".db"):
		return "sqlite"
	}
	return "postgresql"
}

// mapDefault covers the defaults every dialect renders the same way.
func mapDefault(d Dialect, value string) (string, bool) {
	v := strings.TrimSpace(value)
	switch strings.ToLower(v) {
	case "":
		return "", true
	case "uuid()", "cuid()", "autoincrement()":
		// ids are generated by the client
		return "", true
	case "true":
		return "TRUE", true
	case "false":
		return "FALSE", true
	}
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return v, true
	}
	if strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`) && len(v) >= 2 {
		return d.QuoteString(v[1 : len(v)-1]), true
	}
	return "", false
}

func limitOffset(limit, offset int, offsetOnly string) string {
	switch {
	case limit >= 0 && offset > 0:
		return "LIMIT " + strconv.Itoa(limit) + " OFFSET " + strconv.Itoa(offset)
	case limit >= 0:
		return "LIMIT " + strconv.Itoa(limit)
	case offset > 0:
		return offsetOnly + strconv.Itoa(offset)
	}
	return ""
}
