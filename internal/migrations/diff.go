package migrations

import (
	"fmt"
	"sort"
	"strings"

	"github.com/carlosnayan/gigboard/internal/dialect"
	"github.com/carlosnayan/gigboard/schema"
)

// SchemaDiff is what push has to do to bring the database up to the schema.
// Push only adds: tables and columns the schema no longer has are reported
// in the Unknown fields and left alone.
type SchemaDiff struct {
	TablesToCreate  []TableDefinition
	TablesToAlter   []TableAlteration
	IndexesToCreate []IndexDefinition

	UnknownTables  []string
	UnknownColumns map[string][]string
}

// TableAlteration adds columns to an existing table.
type TableAlteration struct {
	TableName  string
	AddColumns []ColumnDefinition
}

// Empty reports whether the database already matches the schema.
func (d *SchemaDiff) Empty() bool {
	return len(d.TablesToCreate) == 0 && len(d.TablesToAlter) == 0
}

// Diff compares the schema against the introspected database.
func Diff(s *schema.Schema, current *DatabaseSchema, d dialect.Dialect) (*SchemaDiff, error) {
	tables, err := TablesFromSchema(s, d)
	if err != nil {
		return nil, err
	}

	diff := &SchemaDiff{UnknownColumns: map[string][]string{}}
	known := make(map[string]bool, len(tables))
	for _, t := range tables {
		known[t.Name] = true
		existing, ok := current.Tables[t.Name]
		if !ok {
			diff.TablesToCreate = append(diff.TablesToCreate, t)
			diff.IndexesToCreate = append(diff.IndexesToCreate, t.Indexes...)
			continue
		}

		alter := TableAlteration{TableName: t.Name}
		wanted := make(map[string]bool, len(t.Columns))
		for _, col := range t.Columns {
			wanted[col.Name] = true
			if _, ok := existing.Columns[col.Name]; !ok {
				alter.AddColumns = append(alter.AddColumns, col)
			}
		}
		if len(alter.AddColumns) > 0 {
			diff.TablesToAlter = append(diff.TablesToAlter, alter)
		}
		for _, name := range existing.Order {
			if !wanted[name] {
				diff.UnknownColumns[t.Name] = append(diff.UnknownColumns[t.Name], name)
			}
		}
	}
	for _, name := range current.TableNames() {
		if !known[name] {
			diff.UnknownTables = append(diff.UnknownTables, name)
		}
	}
	return diff, nil
}

// Statements renders the diff as SQL in execution order.
func (diff *SchemaDiff) Statements(d dialect.Dialect) []string {
	var stmts []string
	for _, t := range diff.TablesToCreate {
		stmts = append(stmts, CreateTableSQL(d, t))
	}
	for _, alter := range diff.TablesToAlter {
		for _, col := range alter.AddColumns {
			stmts = append(stmts, AddColumnSQL(d, alter.TableName, col))
		}
	}
	for _, idx := range diff.IndexesToCreate {
		if stmt := CreateIndexSQL(d, idx); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// Format summarizes the diff for humans.
func (diff *SchemaDiff) Format() string {
	var b strings.Builder
	for _, t := range diff.TablesToCreate {
		fmt.Fprintf(&b, "[+] Added table `%s`\n", t.Name)
		for _, col := range t.Columns {
			fmt.Fprintf(&b, "  [+] Added column `%s`\n", col.Name)
		}
	}
	for _, alter := range diff.TablesToAlter {
		fmt.Fprintf(&b, "[*] Changed the `%s` table\n", alter.TableName)
		for _, col := range alter.AddColumns {
			fmt.Fprintf(&b, "  [+] Added column `%s`\n", col.Name)
		}
	}
	for _, name := range diff.UnknownTables {
		fmt.Fprintf(&b, "[?] Table `%s` is not in the schema\n", name)
	}
	for _, table := range sortedKeys(diff.UnknownColumns) {
		for _, col := range diff.UnknownColumns[table] {
			fmt.Fprintf(&b, "[?] Column `%s`.`%s` is not in the schema\n", table, col)
		}
	}
	if b.Len() == 0 {
		return "The database is already in sync with the schema.\n"
	}
	return b.String()
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
