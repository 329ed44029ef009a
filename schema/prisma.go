package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Prisma renders the schema as schema.prisma source for provider, with
// columns aligned the way `prisma format` aligns them.
func (s *Schema) Prisma(provider string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "datasource db {\n  provider = %q\n  url      = env(\"DATABASE_URL\")\n}\n", provider)

	for _, m := range s.Models {
		b.WriteString("\n")
		b.WriteString(formatModel(m))
	}

	enums := make([]*Enum, len(s.Enums))
	copy(enums, s.Enums)
	sort.Slice(enums, func(i, j int) bool { return enums[i].Name < enums[j].Name })
	for _, e := range enums {
		b.WriteString("\n")
		fmt.Fprintf(&b, "enum %s {\n", e.Name)
		for _, v := range e.Values {
			fmt.Fprintf(&b, "  %s\n", v)
		}
		b.WriteString("}\n")
	}
	return b.String()
}

func formatModel(m *Model) string {
	var rows [][3]string
	for _, f := range m.Fields {
		typ := f.Type
		if f.Optional {
			typ += "?"
		}
		rows = append(rows, [3]string{f.Name, typ, strings.Join(fieldAttributes(f), " ")})
	}
	for _, r := range m.Relations {
		typ := r.Model
		switch {
		case r.List:
			typ += "[]"
		case r.Optional:
			typ += "?"
		}
		attr := ""
		if r.Owner {
			attr = fmt.Sprintf("@relation(%q, fields: [%s], references: [%s]", r.Name, r.From, r.To)
			if r.OnDelete != "" {
				attr += ", onDelete: " + r.OnDelete
			}
			attr += ")"
		}
		rows = append(rows, [3]string{r.Name, typ, attr})
	}

	nameWidth, typeWidth := 0, 0
	for _, row := range rows {
		nameWidth = max(nameWidth, len(row[0]))
		typeWidth = max(typeWidth, len(row[1]))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "model %s {\n", m.Name)
	for _, row := range rows {
		line := fmt.Sprintf("  %-*s %-*s %s", nameWidth, row[0], typeWidth, row[1], row[2])
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteString("\n")
	}
	if len(m.Uniques) > 0 || len(m.Indexes) > 0 {
		b.WriteString("\n")
	}
	for _, u := range m.Uniques {
		fmt.Fprintf(&b, "  @@unique([%s])\n", strings.Join(u, ", "))
	}
	for _, idx := range m.Indexes {
		fmt.Fprintf(&b, "  @@index([%s])\n", strings.Join(idx, ", "))
	}
	b.WriteString("}\n")
	return b.String()
}

func fieldAttributes(f *Field) []string {
	var attrs []string
	if f.ID {
		attrs = append(attrs, "@id")
	}
	if f.Unique {
		attrs = append(attrs, "@unique")
	}
	if f.Default != "" {
		attrs = append(attrs, "@default("+f.Default+")")
	}
	if f.UpdatedAt {
		attrs = append(attrs, "@updatedAt")
	}
	if f.Text {
		attrs = append(attrs, "@db.Text")
	}
	return attrs
}
