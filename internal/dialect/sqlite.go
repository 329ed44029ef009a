package dialect

import (
	"strings"
)

// SQLiteDialect targets SQLite through mattn/go-sqlite3.
type SQLiteDialect struct{}

func (d *SQLiteDialect) Name() string { return "sqlite" }

func (d *SQLiteDialect) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (d *SQLiteDialect) QuoteString(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

// MapType keeps the DATETIME and BOOLEAN declarations: go-sqlite3 uses the
// declared type to hand back time.Time and bool values.
func (d *SQLiteDialect) MapType(schemaType string, isNullable bool) string {
	switch strings.ToLower(schemaType) {
	case "int", "bigint":
		return "INTEGER"
	case "float":
		return "REAL"
	case "boolean":
		return "BOOLEAN"
	case "datetime":
		return "DATETIME"
	default:
		return "TEXT"
	}
}

func (d *SQLiteDialect) MapDefaultValue(value string) string {
	if v, ok := mapDefault(d, value); ok {
		return v
	}
	if strings.EqualFold(value, "now()") {
		return d.GetNowFunction()
	}
	return d.QuoteString(value)
}

func (d *SQLiteDialect) GetPlaceholder(index int) string { return "?" }

func (d *SQLiteDialect) GetNowFunction() string { return "CURRENT_TIMESTAMP" }

func (d *SQLiteDialect) GetDriverName() string { return "sqlite3" }

func (d *SQLiteDialect) GetLimitOffsetSyntax(limit, offset int) string {
	return limitOffset(limit, offset, "LIMIT -1 OFFSET ")
}

// SensitiveLike matches with GLOB, since LIKE ignores ASCII case unless
// case_sensitive_like is set on the connection.
func (d *SQLiteDialect) SensitiveLike(column, pattern, escape string) (string, interface{}) {
	return column + " GLOB ?", likeToGlob(pattern, escape)
}

// likeToGlob rewrites a LIKE pattern into the equivalent GLOB pattern.
func likeToGlob(pattern, escape string) string {
	var b strings.Builder
	escaped := false
	for _, r := range pattern {
		switch {
		case escaped:
			escaped = false
			globLiteral(&b, r)
		case string(r) == escape:
			escaped = true
		case r == '%':
			b.WriteByte('*')
		case r == '_':
			b.WriteByte('?')
		default:
			globLiteral(&b, r)
		}
	}
	return b.String()
}

func globLiteral(b *strings.Builder, r rune) {
	switch r {
	case '*', '?', '[':
		b.WriteByte('[')
		b.WriteRune(r)
		b.WriteByte(']')
	default:
		b.WriteRune(r)
	}
}

// InsensitiveLike relies on LIKE being ASCII case-insensitive in SQLite.
func (d *SQLiteDialect) InsensitiveLike(column string) string {
	return column + " LIKE ?"
}

func (d *SQLiteDialect) InsertIgnore() (string, string) {
	return "INSERT OR IGNORE INTO", ""
}

func (d *SQLiteDialect) LockingClause() string { return "" }

func (d *SQLiteDialect) TableOptions() string { return "" }
