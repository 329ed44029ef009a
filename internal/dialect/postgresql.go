package dialect

import (
	"strconv"
	"strings"
)

// PostgreSQLDialect targets PostgreSQL through pgx.
type PostgreSQLDialect struct{}

func (d *PostgreSQLDialect) Name() string { return "postgresql" }

func (d *PostgreSQLDialect) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (d *PostgreSQLDialect) QuoteString(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

func (d *PostgreSQLDialect) MapType(schemaType string, isNullable bool) string {
	switch strings.ToLower(schemaType) {
	case "int":
		return "INTEGER"
	case "bigint":
		return "BIGINT"
	case "float":
		return "DOUBLE PRECISION"
	case "boolean":
		return "BOOLEAN"
	case "datetime":
		return "TIMESTAMP(3)"
	case "json":
		return "JSONB"
	default:
		return "TEXT"
	}
}

func (d *PostgreSQLDialect) MapDefaultValue(value string) string {
	if v, ok := mapDefault(d, value); ok {
		return v
	}
	if strings.EqualFold(value, "now()") {
		return d.GetNowFunction()
	}
	return d.QuoteString(value)
}

func (d *PostgreSQLDialect) GetPlaceholder(index int) string { return "$" + strconv.Itoa(index) }

func (d *PostgreSQLDialect) GetNowFunction() string { return "CURRENT_TIMESTAMP" }

func (d *PostgreSQLDialect) GetDriverName() string { return "pgx" }

func (d *PostgreSQLDialect) GetLimitOffsetSyntax(limit, offset int) string {
	return limitOffset(limit, offset, "OFFSET ")
}

func (d *PostgreSQLDialect) SensitiveLike(column, pattern, escape string) (string, interface{}) {
	return column + " LIKE ? ESCAPE '" + escape + "'", pattern
}

func (d *PostgreSQLDialect) InsensitiveLike(column string) string {
	return column + " ILIKE ?"
}

func (d *PostgreSQLDialect) InsertIgnore() (string, string) {
	return "INSERT INTO", " ON CONFLICT DO NOTHING"
}

func (d *PostgreSQLDialect) LockingClause() string { return " FOR UPDATE" }

func (d *PostgreSQLDialect) TableOptions() string { return "" }
