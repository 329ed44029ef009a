package migrations

import (
	"context"
	"fmt"
	"strings"

	"github.com/carlosnayan/gigboard/internal/dialect"
	"github.com/carlosnayan/gigboard/internal/driver"
)

// DatabaseSchema is what the database currently holds.
type DatabaseSchema struct {
	Tables map[string]*TableInfo
}

// TableInfo describes an existing table.
type TableInfo struct {
	Name    string
	Columns map[string]*ColumnInfo
	// Order lists column names by ordinal position.
	Order []string
}

// ColumnInfo describes an existing column.
type ColumnInfo struct {
	Name       string
	Type       string
	IsNullable bool
}

// HasTable reports whether the database has table name.
func (s *DatabaseSchema) HasTable(name string) bool {
	_, ok := s.Tables[name]
	return ok
}

// TableNames returns the table names, sorted.
func (s *DatabaseSchema) TableNames() []string {
	return sortedTableNames(s.Tables)
}

func introspectQuery(d dialect.Dialect) (string, error) {
	switch d.Name() {
	case "postgresql":
		return `SELECT table_name, column_name, data_type, is_nullable
			FROM information_schema.columns
			WHERE table_schema = current_schema()
			ORDER BY table_name, ordinal_position`, nil
	case "mysql":
		return `SELECT table_name, column_name, data_type, is_nullable
			FROM information_schema.columns
			WHERE table_schema = DATABASE()
			ORDER BY table_name, ordinal_position`, nil
	case "sqlite":
		return `SELECT m.name, p.name, p.type, CASE WHEN p."notnull" = 0 THEN 'YES' ELSE 'NO' END
			FROM sqlite_master m JOIN pragma_table_info(m.name) p
			WHERE m.type = 'table' AND m.name NOT LIKE 'sqlite_%'
			ORDER BY m.name, p.cid`, nil
	}
	return "", fmt.Errorf("unsupported provider for introspection: %s", d.Name())
}

// Introspect reads the tables and columns of the connected database.
func Introspect(ctx context.Context, exec driver.Executor, d dialect.Dialect) (*DatabaseSchema, error) {
	query, err := introspectQuery(d)
	if err != nil {
		return nil, err
	}
	rows, err := exec.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	defer rows.Close()

	db := &DatabaseSchema{Tables: make(map[string]*TableInfo)}
	for rows.Next() {
		var table, column, dataType, nullable string
		if err := rows.Scan(&table, &column, &dataType, &nullable); err != nil {
			return nil, fmt.Errorf("failed to read column: %w", err)
		}
		t, ok := db.Tables[table]
		if !ok {
			t = &TableInfo{Name: table, Columns: make(map[string]*ColumnInfo)}
			db.Tables[table] = t
		}
		t.Columns[column] = &ColumnInfo{
			Name:       column,
			Type:       strings.ToUpper(dataType),
			IsNullable: strings.EqualFold(nullable, "YES"),
		}
		t.Order = append(t.Order, column)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return db, nil
}

// ListTables returns the table names of the connected database.
func ListTables(ctx context.Context, exec driver.Executor, d dialect.Dialect) ([]string, error) {
	db, err := Introspect(ctx, exec, d)
	if err != nil {
		return nil, err
	}
	return db.TableNames(), nil
}
