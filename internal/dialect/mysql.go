package dialect

import (
	"strings"
)

// MySQLDialect targets MySQL 8 and MariaDB through go-sql-driver/mysql.
type MySQLDialect struct{}

func (d *MySQLDialect) Name() string { return "mysql" }

func (d *MySQLDialect) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (d *MySQLDialect) QuoteString(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	return "'" + strings.ReplaceAll(escaped, "'", "''") + "'"
}

// MapType uses VARCHAR(191) for strings so they can carry unique indexes
// under utf8mb4.
func (d *MySQLDialect) MapType(schemaType string, isNullable bool) string {
	switch strings.ToLower(schemaType) {
	case "int":
		return "INT"
	case "bigint":
		return "BIGINT"
	case "float":
		return "DOUBLE"
	case "boolean":
		return "TINYINT(1)"
	case "datetime":
		return "DATETIME(3)"
	case "json":
		return "JSON"
	case "text":
		return "TEXT"
	default:
		return "VARCHAR(191)"
	}
}

func (d *MySQLDialect) MapDefaultValue(value string) string {
	if v, ok := mapDefault(d, value); ok {
		return v
	}
	if strings.EqualFold(value, "now()") {
		return "CURRENT_TIMESTAMP(3)"
	}
	return d.QuoteString(value)
}

func (d *MySQLDialect) GetPlaceholder(index int) string { return "?" }

func (d *MySQLDialect) GetNowFunction() string { return "CURRENT_TIMESTAMP(3)" }

func (d *MySQLDialect) GetDriverName() string { return "mysql" }

// GetLimitOffsetSyntax needs a LIMIT whenever OFFSET is present.
func (d *MySQLDialect) GetLimitOffsetSyntax(limit, offset int) string {
	return limitOffset(limit, offset, "LIMIT 18446744073709551615 OFFSET ")
}

// SensitiveLike compares as binary: the default collations ignore case.
func (d *MySQLDialect) SensitiveLike(column, pattern, escape string) (string, interface{}) {
	return "CAST(" + column + " AS BINARY) LIKE ? ESCAPE '" + escape + "'", pattern
}

func (d *MySQLDialect) InsensitiveLike(column string) string {
	return "LOWER(" + column + ") LIKE LOWER(?)"
}

func (d *MySQLDialect) InsertIgnore() (string, string) {
	return "INSERT IGNORE INTO", ""
}

func (d *MySQLDialect) LockingClause() string { return " FOR UPDATE" }

func (d *MySQLDialect) TableOptions() string {
	return " ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci"
}
