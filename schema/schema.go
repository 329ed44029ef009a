// Package schema describes data models the way a schema.prisma file does:
// models with scalar fields, relations between them, and enums. The runtime
// uses it to build SQL and the migrations package uses it to emit DDL.
package schema

import (
	"fmt"
	"strings"
)

// Scalar types.
const (
	String   = "String"
	Int      = "Int"
	Float    = "Float"
	Boolean  = "Boolean"
	DateTime = "DateTime"
	Json     = "Json"
)

// Default value functions.
const (
	DefaultUUID = "uuid()"
	DefaultNow  = "now()"
)

// Referential actions.
const (
	Cascade  = "Cascade"
	SetNull  = "SetNull"
	Restrict = "Restrict"
)

// Schema is a set of models and enums.
type Schema struct {
	Models []*Model
	Enums  []*Enum
}

// Enum is a named set of string values.
type Enum struct {
	Name   string
	Values []string
}

// Has reports whether v is one of the enum's values.
func (e *Enum) Has(v string) bool {
	for _, ev := range e.Values {
		if ev == v {
			return true
		}
	}
	return false
}

// Model maps to one table named after the model.
type Model struct {
	Name      string
	Fields    []*Field
	Relations []*Relation
	// Uniques lists compound @@unique constraints.
	Uniques [][]string
	// Indexes lists @@index declarations.
	Indexes [][]string
}

// Field is a scalar column.
type Field struct {
	Name string
	// Type is a scalar type or the name of an enum.
	Type     string
	Optional bool
	ID       bool
	Unique   bool
	// Default is the @default argument: uuid(), now(), false, 0 or an enum value.
	Default   string
	UpdatedAt bool
	// Text marks long strings (@db.Text).
	Text bool
}

// Relation is a navigation from one model to another. Loading a relation
// selects the target rows whose To field matches this model's From field.
type Relation struct {
	Name  string
	Model string
	From  string
	To    string
	List  bool
	// Owner is set on the side that holds the foreign key column (From).
	Owner    bool
	Optional bool
	OnDelete string
}

// Model returns the model named name.
func (s *Schema) Model(name string) (*Model, bool) {
	for _, m := range s.Models {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// Enum returns the enum named name.
func (s *Schema) Enum(name string) (*Enum, bool) {
	for _, e := range s.Enums {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

// IsEnum reports whether typ names an enum.
func (s *Schema) IsEnum(typ string) bool {
	_, ok := s.Enum(typ)
	return ok
}

// Field returns the scalar field named name.
func (m *Model) Field(name string) (*Field, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Relation returns the relation named name.
func (m *Model) Relation(name string) (*Relation, bool) {
	for _, r := range m.Relations {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}

// PrimaryKey is the @id field name.
func (m *Model) PrimaryKey() string {
	for _, f := range m.Fields {
		if f.ID {
			return f.Name
		}
	}
	return ""
}

// Columns lists the scalar field names in declaration order.
func (m *Model) Columns() []string {
	cols := make([]string, len(m.Fields))
	for i, f := range m.Fields {
		cols[i] = f.Name
	}
	return cols
}

// UniqueFields lists the fields that identify a single record on their own:
// the primary key followed by @unique fields.
func (m *Model) UniqueFields() []string {
	var out []string
	if pk := m.PrimaryKey(); pk != "" {
		out = append(out, pk)
	}
	for _, f := range m.Fields {
		if f.Unique && !f.ID {
			out = append(out, f.Name)
		}
	}
	return out
}

// IsUniqueSelector reports whether fields, in any order, are exactly the
// primary key, a @unique field or a compound @@unique.
func (m *Model) IsUniqueSelector(fields []string) bool {
	if len(fields) == 1 {
		for _, u := range m.UniqueFields() {
			if u == fields[0] {
				return true
			}
		}
	}
	for _, u := range m.Uniques {
		if sameSet(u, fields) {
			return true
		}
	}
	return false
}

// UniqueName is the Prisma constraint name for fields: Model_a_b_key.
func (m *Model) UniqueName(fields ...string) string {
	return m.Name + "_" + strings.Join(fields, "_") + "_key"
}

// CompoundName is the Go-side selector name for a compound unique: a_b.
func CompoundName(fields []string) string {
	return strings.Join(fields, "_")
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, s := range a {
		seen[s]++
	}
	for _, s := range b {
		if seen[s] == 0 {
			return false
		}
		seen[s]--
	}
	return true
}

// Validate checks that every relation and constraint refers to something
// that exists.
func (s *Schema) Validate() error {
	var problems []string
	models := make(map[string]bool)
	for _, m := range s.Models {
		if models[m.Name] {
			problems = append(problems, fmt.Sprintf("model %s is declared twice", m.Name))
		}
		models[m.Name] = true
	}

	for _, m := range s.Models {
		if m.PrimaryKey() == "" {
			problems = append(problems, fmt.Sprintf("model %s has no @id field", m.Name))
		}
		for _, f := range m.Fields {
			if !isScalar(f.Type) && !s.IsEnum(f.Type) {
				problems = append(problems, fmt.Sprintf("%s.%s has unknown type %s", m.Name, f.Name, f.Type))
			}
			if e, ok := s.Enum(f.Type); ok && f.Default != "" && !e.Has(f.Default) {
				problems = append(problems, fmt.Sprintf("%s.%s default %s is not a %s value", m.Name, f.Name, f.Default, e.Name))
			}
		}
		for _, r := range m.Relations {
			target, ok := s.Model(r.Model)
			if !ok {
				problems = append(problems, fmt.Sprintf("%s.%s points at unknown model %s", m.Name, r.Name, r.Model))
				continue
			}
			if _, ok := m.Field(r.From); !ok {
				problems = append(problems, fmt.Sprintf("%s.%s: unknown field %s", m.Name, r.Name, r.From))
			}
			if _, ok := target.Field(r.To); !ok {
				problems = append(problems, fmt.Sprintf("%s.%s: unknown field %s.%s", m.Name, r.Name, r.Model, r.To))
			}
		}
		for _, u := range append(append([][]string{}, m.Uniques...), m.Indexes...) {
			for _, name := range u {
				if _, ok := m.Field(name); !ok {
					problems = append(problems, fmt.Sprintf("%s: constraint on unknown field %s", m.Name, name))
				}
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid schema:\n  %s", strings.Join(problems, "\n  "))
	}
	return nil
}

func isScalar(t string) bool {
	switch t {
	case String, Int, Float, Boolean, DateTime, Json:
		return true
	}
	return false
}

// IsNumeric reports whether the field supports _avg and _sum.
func (f *Field) IsNumeric() bool {
	return f.Type == Int || f.Type == Float
}
