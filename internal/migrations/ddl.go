package migrations

import (
	"fmt"
	"sort"
	"strings"

	"github.com/carlosnayan/gigboard/internal/dialect"
	"github.com/carlosnayan/gigboard/schema"
)

// TableDefinition is a table to be created.
type TableDefinition struct {
	Name        string
	Columns     []ColumnDefinition
	PrimaryKey  string
	Uniques     []IndexDefinition
	Indexes     []IndexDefinition
	ForeignKeys []ForeignKey
}

// ColumnDefinition is one column.
type ColumnDefinition struct {
	Name         string
	Type         string
	IsNullable   bool
	DefaultValue string
	// Values restricts an enum column with a CHECK constraint.
	Values []string
}

// IndexDefinition is a unique constraint or a plain index.
type IndexDefinition struct {
	Name      string
	TableName string
	Columns   []string
	IsUnique  bool
}

// ForeignKey references the primary key of another table.
type ForeignKey struct {
	Name      string
	Column    string
	RefTable  string
	RefColumn string
	OnDelete  string
}

// TablesFromSchema derives the table definitions of s, ordered so that every
// table comes after the tables its foreign keys reference.
func TablesFromSchema(s *schema.Schema, d dialect.Dialect) ([]TableDefinition, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	tables := make(map[string]TableDefinition, len(s.Models))
	for _, m := range s.Models {
		tables[m.Name] = tableFromModel(s, m, d)
	}

	order, err := dependencyOrder(s)
	if err != nil {
		return nil, err
	}
	out := make([]TableDefinition, 0, len(order))
	for _, name := range order {
		out = append(out, tables[name])
	}
	return out, nil
}

func tableFromModel(s *schema.Schema, m *schema.Model, d dialect.Dialect) TableDefinition {
	t := TableDefinition{Name: m.Name, PrimaryKey: m.PrimaryKey()}
	for _, f := range m.Fields {
		col := ColumnDefinition{
			Name:       f.Name,
			Type:       columnType(s, f, d),
			IsNullable: f.Optional,
		}
		if f.Default != "" {
			col.DefaultValue = d.MapDefaultValue(f.Default)
		}
		if e, ok := s.Enum(f.Type); ok {
			col.Values = e.Values
		}
		t.Columns = append(t.Columns, col)
		if f.Unique && !f.ID {
			t.Uniques = append(t.Uniques, IndexDefinition{
				Name: m.UniqueName(f.Name), TableName: m.Name, Columns: []string{f.Name}, IsUnique: true,
			})
		}
	}
	for _, fields := range m.Uniques {
		t.Uniques = append(t.Uniques, IndexDefinition{
			Name: m.UniqueName(fields...), TableName: m.Name, Columns: fields, IsUnique: true,
		})
	}
	for _, fields := range m.Indexes {
		t.Indexes = append(t.Indexes, IndexDefinition{
			Name: m.Name + "_" + strings.Join(fields, "_") + "_idx", TableName: m.Name, Columns: fields,
		})
	}
	for _, r := range m.Relations {
		if !r.Owner {
			continue
		}
		t.ForeignKeys = append(t.ForeignKeys, ForeignKey{
			Name:      m.Name + "_" + r.From + "_fkey",
			Column:    r.From,
			RefTable:  r.Model,
			RefColumn: r.To,
			OnDelete:  r.OnDelete,
		})
	}
	return t
}

func columnType(s *schema.Schema, f *schema.Field, d dialect.Dialect) string {
	switch {
	case s.IsEnum(f.Type):
		return d.MapType(schema.String, f.Optional)
	case f.Text:
		return d.MapType("text", f.Optional)
	}
	return d.MapType(f.Type, f.Optional)
}

// dependencyOrder sorts models so referenced tables come first. Ties keep
// declaration order.
func dependencyOrder(s *schema.Schema) ([]string, error) {
	deps := make(map[string][]string, len(s.Models))
	for _, m := range s.Models {
		for _, r := range m.Relations {
			if r.Owner && r.Model != m.Name {
				deps[m.Name] = append(deps[m.Name], r.Model)
			}
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(s.Models))
	var order []string
	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("foreign key cycle: %s", strings.Join(append(path, name), " -> "))
		}
		state[name] = visiting
		for _, dep := range deps[name] {
			if err := visit(dep, append(path, name)); err != nil {
				return err
			}
		}
		state[name] = done
		order = append(order, name)
		return nil
	}
	for _, m := range s.Models {
		if err := visit(m.Name, nil); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// CreateTableSQL renders CREATE TABLE IF NOT EXISTS with inline primary
// key, unique, foreign key and enum CHECK constraints.
func CreateTableSQL(d dialect.Dialect, t TableDefinition) string {
	var lines []string
	for _, col := range t.Columns {
		def := fmt.Sprintf("  %s %s", d.QuoteIdentifier(col.Name), col.Type)
		if !col.IsNullable {
			def += " NOT NULL"
		}
		if col.DefaultValue != "" {
			def += " DEFAULT " + col.DefaultValue
		}
		if len(col.Values) > 0 {
			quoted := make([]string, len(col.Values))
			for i, v := range col.Values {
				quoted[i] = d.QuoteString(v)
			}
			def += fmt.Sprintf(" CHECK (%s IN (%s))", d.QuoteIdentifier(col.Name), strings.Join(quoted, ", "))
		}
		lines = append(lines, def)
	}
	if t.PrimaryKey != "" {
		lines = append(lines, fmt.Sprintf("  CONSTRAINT %s PRIMARY KEY (%s)",
			d.QuoteIdentifier(t.Name+"_pkey"), d.QuoteIdentifier(t.PrimaryKey)))
	}
	for _, u := range t.Uniques {
		lines = append(lines, fmt.Sprintf("  CONSTRAINT %s UNIQUE (%s)", d.QuoteIdentifier(u.Name), quoteList(d, u.Columns)))
	}
	if d.Name() == "mysql" {
		// MySQL has no CREATE INDEX IF NOT EXISTS
		for _, idx := range t.Indexes {
			lines = append(lines, fmt.Sprintf("  INDEX %s (%s)", d.QuoteIdentifier(idx.Name), quoteList(d, idx.Columns)))
		}
	}
	for _, fk := range t.ForeignKeys {
		line := fmt.Sprintf("  CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)",
			d.QuoteIdentifier(fk.Name), d.QuoteIdentifier(fk.Column), d.QuoteIdentifier(fk.RefTable), d.QuoteIdentifier(fk.RefColumn))
		if action := referentialAction(fk.OnDelete); action != "" {
			line += " ON DELETE " + action
		}
		lines = append(lines, line)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n)%s", d.QuoteIdentifier(t.Name), strings.Join(lines, ",\n"), d.TableOptions())
}

// CreateIndexSQL renders a plain index. MySQL indexes are part of CREATE
// TABLE, so it returns "" there.
func CreateIndexSQL(d dialect.Dialect, idx IndexDefinition) string {
	if d.Name() == "mysql" {
		return ""
	}
	return fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)",
		d.QuoteIdentifier(idx.Name), d.QuoteIdentifier(idx.TableName), quoteList(d, idx.Columns))
}

// AddColumnSQL renders ALTER TABLE ADD COLUMN for a column missing from an
// existing table. A required column without a default cannot be added to a
// table that has rows; the database reports that.
func AddColumnSQL(d dialect.Dialect, table string, col ColumnDefinition) string {
	def := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", d.QuoteIdentifier(table), d.QuoteIdentifier(col.Name), col.Type)
	if !col.IsNullable {
		def += " NOT NULL"
	}
	if col.DefaultValue != "" {
		def += " DEFAULT " + col.DefaultValue
	}
	return def
}

// DropTableSQL renders DROP TABLE IF EXISTS.
func DropTableSQL(d dialect.Dialect, table string) string {
	stmt := "DROP TABLE IF EXISTS " + d.QuoteIdentifier(table)
	if d.Name() == "postgresql" {
		stmt += " CASCADE"
	}
	return stmt
}

// GenerateSQL returns every statement that creates the schema from scratch.
func GenerateSQL(s *schema.Schema, d dialect.Dialect) ([]string, error) {
	tables, err := TablesFromSchema(s, d)
	if err != nil {
		return nil, err
	}
	var stmts []string
	for _, t := range tables {
		stmts = append(stmts, CreateTableSQL(d, t))
	}
	for _, t := range tables {
		for _, idx := range t.Indexes {
			if stmt := CreateIndexSQL(d, idx); stmt != "" {
				stmts = append(stmts, stmt)
			}
		}
	}
	return stmts, nil
}

func referentialAction(onDelete string) string {
	switch onDelete {
	case schema.Cascade:
		return "CASCADE"
	case schema.SetNull:
		return "SET NULL"
	case schema.Restrict:
		return "RESTRICT"
	}
	return ""
}

func quoteList(d dialect.Dialect, cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = d.QuoteIdentifier(c)
	}
	return strings.Join(quoted, ", ")
}

func sortedTableNames(tables map[string]*TableInfo) []string {
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
