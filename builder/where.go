package builder

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/carlosnayan/gigboard/internal/dialect"
)

// Where represents a map of field conditions for queries, similar to Prisma's where clause.
// Each key is a field name, and the value can be either:
//   - A direct value for equality comparison
//   - A WhereOperator for complex comparisons
//   - nil for IS NULL checks
//
// Example:
//
//	where := builder.Where{
//	    "email":    "user@example.com",
//	    "budget":   builder.Gte(18),
//	    "status":   builder.In("OPEN", "IN_PROGRESS"),
//	    "workerId": nil,
//	}
//
// Conditions inside one map are joined with AND. Keys are rendered in sorted
// order so the same map always produces the same SQL.
type Where map[string]interface{}

// WhereOperator represents a conditional operator with its value
type WhereOperator struct {
	op    string
	value interface{}
}

// Equals creates an equality operator (=). Equals(nil) is IS NULL.
func Equals(value interface{}) WhereOperator {
	return WhereOperator{op: "=", value: value}
}

// NotEquals creates a not equal operator (<>). NotEquals(nil) is IS NOT NULL.
func NotEquals(value interface{}) WhereOperator {
	return WhereOperator{op: "<>", value: value}
}

// Gt creates a greater than operator (>)
func Gt(value interface{}) WhereOperator {
	return WhereOperator{op: ">", value: value}
}

// Gte creates a greater than or equal operator (>=)
func Gte(value interface{}) WhereOperator {
	return WhereOperator{op: ">=", value: value}
}

// Lt creates a less than operator (<)
func Lt(value interface{}) WhereOperator {
	return WhereOperator{op: "<", value: value}
}

// Lte creates a less than or equal operator (<=)
func Lte(value interface{}) WhereOperator {
	return WhereOperator{op: "<=", value: value}
}

// Like matches a raw LIKE pattern; % and _ keep their wildcard meaning.
func Like(pattern string) WhereOperator {
	return WhereOperator{op: "LIKE", value: pattern}
}

// ILike is Like ignoring case.
func ILike(pattern string) WhereOperator {
	return WhereOperator{op: "ILIKE", value: pattern}
}

// In matches any value in the list. An empty list matches nothing.
func In(values ...interface{}) WhereOperator {
	return WhereOperator{op: "IN", value: values}
}

// NotIn matches values outside the list. An empty list matches everything.
func NotIn(values ...interface{}) WhereOperator {
	return WhereOperator{op: "NOT IN", value: values}
}

// IsNull creates an IS NULL operator
func IsNull() WhereOperator {
	return WhereOperator{op: "IS NULL"}
}

// IsNotNull creates an IS NOT NULL operator
func IsNotNull() WhereOperator {
	return WhereOperator{op: "IS NOT NULL"}
}

// Contains matches values containing s. Wildcards in s are matched literally.
func Contains(s string) WhereOperator {
	return WhereOperator{op: "LIKE", value: "%" + escapeLike(s) + "%"}
}

// StartsWith matches values beginning with s.
func StartsWith(s string) WhereOperator {
	return WhereOperator{op: "LIKE", value: escapeLike(s) + "%"}
}

// EndsWith matches values ending with s.
func EndsWith(s string) WhereOperator {
	return WhereOperator{op: "LIKE", value: "%" + escapeLike(s)}
}

// ContainsInsensitive is Contains ignoring case.
func ContainsInsensitive(s string) WhereOperator {
	return WhereOperator{op: "ILIKE", value: "%" + escapeLike(s) + "%"}
}

// StartsWithInsensitive is StartsWith ignoring case.
func StartsWithInsensitive(s string) WhereOperator {
	return WhereOperator{op: "ILIKE", value: escapeLike(s) + "%"}
}

// EndsWithInsensitive is EndsWith ignoring case.
func EndsWithInsensitive(s string) WhereOperator {
	return WhereOperator{op: "ILIKE", value: "%" + escapeLike(s)}
}

// GetOp returns the operator string
func (wo WhereOperator) GetOp() string {
	return wo.op
}

// GetValue returns the operator value
func (wo WhereOperator) GetValue() interface{} {
	return wo.value
}

// likeEscape is portable across the three dialects; a backslash would need
// doubling inside MySQL string literals.
const likeEscape = "!"

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Condition is a boolean SQL expression. It is rendered with ? placeholders
// for a dialect and rebound to the dialect's placeholders when the full
// statement is assembled. An empty rendering means "no restriction".
type Condition interface {
	render(d dialect.Dialect) (string, []interface{})
}

func (w Where) render(d dialect.Dialect) (string, []interface{}) {
	if len(w) == 0 {
		return "", nil
	}
	keys := make([]string, 0, len(w))
	for k := range w {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	var args []interface{}
	for _, field := range keys {
		sql, fieldArgs := renderField(d, d.QuoteIdentifier(field), w[field])
		if sql == "" {
			continue
		}
		parts = append(parts, sql)
		args = append(args, fieldArgs...)
	}
	return strings.Join(parts, " AND "), args
}

func renderField(d dialect.Dialect, column string, value interface{}) (string, []interface{}) {
	op, ok := value.(WhereOperator)
	if !ok {
		if value == nil {
			return column + " IS NULL", nil
		}
		return column + " = ?", []interface{}{normalizeArg(value)}
	}

	switch op.op {
	case "IS NULL", "IS NOT NULL":
		return column + " " + op.op, nil
	case "=":
		if op.value == nil {
			return column + " IS NULL", nil
		}
	case "<>":
		if op.value == nil {
			return column + " IS NOT NULL", nil
		}
	case "IN", "NOT IN":
		values := flatten(op.value)
		if len(values) == 0 {
			if op.op == "IN" {
				return "1 = 0", nil
			}
			return "", nil
		}
		return fmt.Sprintf("%s %s (%s)", column, op.op, placeholders(len(values))), values
	case "LIKE":
		pattern, _ := op.value.(string)
		sql, arg := d.SensitiveLike(column, pattern, likeEscape)
		return sql, []interface{}{arg}
	case "ILIKE":
		return d.InsensitiveLike(column) + " ESCAPE '" + likeEscape + "'", []interface{}{op.value}
	}
	return fmt.Sprintf("%s %s ?", column, op.op), []interface{}{normalizeArg(op.value)}
}

type junction struct {
	op    string
	conds []Condition
}

// And joins conditions with AND. And() with no restricting conditions
// matches everything.
func And(conds ...Condition) Condition {
	return junction{op: "AND", conds: conds}
}

// Or joins conditions with OR. Or() with no conditions matches nothing.
func Or(conds ...Condition) Condition {
	return junction{op: "OR", conds: conds}
}

func (j junction) render(d dialect.Dialect) (string, []interface{}) {
	var parts []string
	var args []interface{}
	for _, c := range j.conds {
		if c == nil {
			continue
		}
		sql, condArgs := c.render(d)
		if sql == "" {
			if j.op == "OR" {
				// an unrestricted branch makes the whole OR true
				return "", nil
			}
			continue
		}
		parts = append(parts, sql)
		args = append(args, condArgs...)
	}
	switch len(parts) {
	case 0:
		if j.op == "OR" {
			return "1 = 0", nil
		}
		return "", nil
	case 1:
		return parts[0], args
	}
	return "(" + strings.Join(parts, ") "+j.op+" (") + ")", args
}

type negation struct {
	conds []Condition
}

// Not matches rows where none of conds hold. Not() matches everything.
func Not(conds ...Condition) Condition {
	return negation{conds: conds}
}

func (n negation) render(d dialect.Dialect) (string, []interface{}) {
	var parts []string
	var args []interface{}
	for _, c := range n.conds {
		if c == nil {
			continue
		}
		sql, condArgs := c.render(d)
		if sql == "" {
			// NOT TRUE
			return "1 = 0", nil
		}
		parts = append(parts, "NOT ("+sql+")")
		args = append(args, condArgs...)
	}
	return strings.Join(parts, " AND "), args
}

type rawCondition struct {
	sql  string
	args []interface{}
}

// Raw is a SQL fragment with ? placeholders. A slice argument expands to a
// parenthesised list: Raw(`"id" IN ?`, ids).
func Raw(sql string, args ...interface{}) Condition {
	return rawCondition{sql: sql, args: args}
}

func (r rawCondition) render(dialect.Dialect) (string, []interface{}) {
	if len(r.args) == 0 {
		return r.sql, nil
	}
	var b strings.Builder
	var args []interface{}
	argPos := 0
	for i := 0; i < len(r.sql); i++ {
		if r.sql[i] != '?' || argPos >= len(r.args) {
			b.WriteByte(r.sql[i])
			continue
		}
		arg := r.args[argPos]
		argPos++
		if isList(arg) {
			values := flatten(arg)
			b.WriteString("(" + placeholders(len(values)) + ")")
			args = append(args, values...)
			continue
		}
		b.WriteByte('?')
		args = append(args, normalizeArg(arg))
	}
	return b.String(), args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func isList(v interface{}) bool {
	if v == nil {
		return false
	}
	if _, ok := v.([]byte); ok {
		return false
	}
	k := reflect.TypeOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}

// flatten turns []interface{} or any typed slice into normalized arguments.
func flatten(v interface{}) []interface{} {
	if v == nil {
		return nil
	}
	if list, ok := v.([]interface{}); ok {
		// In("a", "b") and In(ids...) where ids is []interface{}
		if len(list) == 1 && isList(list[0]) {
			return flatten(list[0])
		}
		out := make([]interface{}, len(list))
		for i, item := range list {
			out[i] = normalizeArg(item)
		}
		return out
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []interface{}{normalizeArg(v)}
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = normalizeArg(rv.Index(i).Interface())
	}
	return out
}

// rebind replaces ? outside quoted text with the dialect's placeholders.
func rebind(d dialect.Dialect, sql string) string {
	if d.GetPlaceholder(1) == "?" {
		return sql
	}
	var b strings.Builder
	b.Grow(len(sql) + 16)
	n := 0
	var quote byte
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case c == '?':
			n++
			b.WriteString(d.GetPlaceholder(n))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
