package builder

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/carlosnayan/gigboard/internal/driver"
	"github.com/carlosnayan/gigboard/internal/errors"
	"github.com/carlosnayan/gigboard/internal/limits"
)

// Query is a chainable SELECT over one table.
//
//	var open []db.Assignment
//	err := builder.NewQuery(session, "Assignment").
//	    Where(builder.Where{"status": "OPEN"}).
//	    Where(`"budget" > ?`, 100).
//	    Order("deadline ASC").
//	    Take(20).
//	    Find(ctx, &open)
//
// Invalid arguments (a bad order direction, a negative Take) are recorded and
// returned by the executing method as a ValidationError.
type Query struct {
	session *Session
	model   string
	columns []string

	conds        []Condition
	orderBy      []OrderBy
	take         *int
	skip         *int
	selectFields []string
	distinct     bool
	groupBy      []string
	having       []Condition
	forUpdate    bool
	err          error
}

// NewQuery starts a query on model. Columns default to the model's scalar
// fields when the session knows the model.
func NewQuery(s *Session, model string) *Query {
	q := &Query{session: s, model: model}
	if s.schema != nil {
		if m, ok := s.schema.Model(model); ok {
			q.columns = m.Columns()
		}
	}
	return q
}

// Err returns the first invalid argument recorded on the query.
func (q *Query) Err() error { return q.err }

func (q *Query) fail(format string, args ...interface{}) *Query {
	if q.err == nil {
		q.err = errors.Validation(q.model, "query", format, args...)
	}
	return q
}

// toCondition accepts a raw SQL string with args, a Where map or a Condition.
func toCondition(condition interface{}, args []interface{}) (Condition, error) {
	switch c := condition.(type) {
	case nil:
		return nil, nil
	case string:
		return Raw(c, args...), nil
	case Where:
		return c, nil
	case map[string]interface{}:
		return Where(c), nil
	case Condition:
		return c, nil
	}
	return nil, fmt.Errorf("unsupported condition type %T", condition)
}

// Where adds a condition joined with AND.
// Supports:
//  1. Direct SQL: q.Where(`"title" = ?`, "essay")
//  2. Prisma map: q.Where(builder.Where{"title": "essay", "budget": builder.Gt(18)})
//  3. Composed conditions: q.Where(builder.Or(a, b))
func (q *Query) Where(condition interface{}, args ...interface{}) *Query {
	c, err := toCondition(condition, args)
	if err != nil {
		return q.fail("%v", err)
	}
	if c != nil {
		q.conds = append(q.conds, c)
	}
	return q
}

// Or joins everything added so far with condition using OR.
func (q *Query) Or(condition interface{}, args ...interface{}) *Query {
	c, err := toCondition(condition, args)
	if err != nil {
		return q.fail("%v", err)
	}
	if c == nil {
		return q
	}
	if len(q.conds) == 0 {
		q.conds = []Condition{c}
		return q
	}
	q.conds = []Condition{Or(And(q.conds...), c)}
	return q
}

// Not adds a negated condition.
func (q *Query) Not(condition interface{}, args ...interface{}) *Query {
	c, err := toCondition(condition, args)
	if err != nil {
		return q.fail("%v", err)
	}
	if c != nil {
		q.conds = append(q.conds, Not(c))
	}
	return q
}

// Select restricts the selected columns.
func (q *Query) Select(fields ...string) *Query {
	if len(q.selectFields)+len(fields) > limits.MaxSelectFields {
		return q.fail("select accepts at most %d fields", limits.MaxSelectFields)
	}
	q.selectFields = append(q.selectFields, fields...)
	return q
}

// Order adds ORDER BY from "field" or "field DESC".
func (q *Query) Order(order string) *Query {
	parts := strings.Fields(order)
	switch len(parts) {
	case 1:
		return q.OrderBy(OrderBy{Field: parts[0], Order: "ASC"})
	case 2:
		return q.OrderBy(OrderBy{Field: parts[0], Order: parts[1]})
	}
	return q.fail("invalid order %q", order)
}

// OrderBy adds ORDER BY terms.
func (q *Query) OrderBy(orders ...OrderBy) *Query {
	for _, o := range orders {
		if len(q.orderBy) >= limits.MaxOrderByFields {
			return q.fail("orderBy accepts at most %d fields", limits.MaxOrderByFields)
		}
		dir, err := direction(o.Order)
		if err != nil {
			return q.fail("%v", err)
		}
		o.Order = dir
		q.orderBy = append(q.orderBy, o)
	}
	return q
}

// Take sets the LIMIT
func (q *Query) Take(take int) *Query {
	if take < 0 {
		return q.fail("take must not be negative, got %d", take)
	}
	q.take = &take
	return q
}

// Skip sets the OFFSET
func (q *Query) Skip(skip int) *Query {
	if skip < 0 {
		return q.fail("skip must not be negative, got %d", skip)
	}
	q.skip = &skip
	return q
}

// Distinct selects distinct rows of the selected columns.
func (q *Query) Distinct() *Query {
	q.distinct = true
	return q
}

// Group adds GROUP BY
func (q *Query) Group(fields ...string) *Query {
	if len(q.groupBy)+len(fields) > limits.MaxGroupByFields {
		return q.fail("groupBy accepts at most %d fields", limits.MaxGroupByFields)
	}
	q.groupBy = append(q.groupBy, fields...)
	return q
}

// Having adds HAVING
func (q *Query) Having(condition interface{}, args ...interface{}) *Query {
	c, err := toCondition(condition, args)
	if err != nil {
		return q.fail("%v", err)
	}
	if c != nil {
		q.having = append(q.having, c)
	}
	return q
}

// ForUpdate locks the selected rows until the transaction ends, where the
// database supports row locks.
func (q *Query) ForUpdate() *Query {
	q.forUpdate = true
	return q
}

// Build renders the SELECT with ? placeholders.
func (q *Query) Build() (string, []interface{}, error) {
	if q.err != nil {
		return "", nil, q.err
	}
	d := q.session.dialect

	var b strings.Builder
	b.Grow(256)
	b.WriteString("SELECT ")
	if q.distinct {
		b.WriteString("DISTINCT ")
	}
	cols := q.columns
	if len(q.selectFields) > 0 {
		cols = q.selectFields
	}
	if len(cols) == 0 {
		b.WriteString("*")
	}
	for i, col := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(selectExpr(d.QuoteIdentifier, col))
	}
	b.WriteString(" FROM ")
	b.WriteString(d.QuoteIdentifier(q.model))

	var args []interface{}
	if where, whereArgs := And(q.conds...).render(d); where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
		args = append(args, whereArgs...)
	}

	if len(q.groupBy) > 0 {
		b.WriteString(" GROUP BY ")
		for i, field := range q.groupBy {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(d.QuoteIdentifier(field))
		}
	}

	if having, havingArgs := And(q.having...).render(d); having != "" {
		b.WriteString(" HAVING ")
		b.WriteString(having)
		args = append(args, havingArgs...)
	}

	if len(q.orderBy) > 0 {
		b.WriteString(" ORDER BY ")
		for i, o := range q.orderBy {
			if i > 0 {
				b.WriteString(", ")
			}
			if o.Aggregate != "" {
				expr, err := aggregateExpr(d, o.Aggregate, o.Field)
				if err != nil {
					return "", nil, errors.Validation(q.model, "query", "%v", err)
				}
				b.WriteString(expr)
			} else {
				b.WriteString(d.QuoteIdentifier(o.Field))
			}
			b.WriteString(" ")
			b.WriteString(o.Order)
		}
	}

	if q.take != nil || q.skip != nil {
		limit, offset := -1, 0
		if q.take != nil {
			limit = *q.take
		}
		if q.skip != nil {
			offset = *q.skip
		}
		if lo := d.GetLimitOffsetSyntax(limit, offset); lo != "" {
			b.WriteString(" ")
			b.WriteString(lo)
		}
	}

	if q.forUpdate {
		b.WriteString(d.LockingClause())
	}
	return b.String(), args, nil
}

// selectExpr quotes a plain column and passes expressions through.
func selectExpr(quote func(string) string, col string) string {
	if strings.ContainsAny(col, "( *") || strings.Trim(col, "0123456789") == "" {
		return col
	}
	return quote(col)
}

// First scans the first matching row into dest (a pointer to struct). It
// returns a P2025 KnownRequestError when nothing matches.
func (q *Query) First(ctx context.Context, dest interface{}) error {
	destVal := reflect.ValueOf(dest)
	if destVal.Kind() != reflect.Pointer || destVal.Elem().Kind() != reflect.Struct {
		return errors.Validation(q.model, "first", "dest must be a pointer to struct, got %T", dest)
	}
	one := 1
	take := q.take
	q.take = &one
	defer func() { q.take = take }()

	found := false
	err := q.rows(ctx, func(rows driver.Rows) error {
		items, err := scanStructs(rows, destVal.Elem().Type())
		if err != nil || len(items) == 0 {
			return err
		}
		destVal.Elem().Set(items[0].Elem())
		found = true
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return errors.NotFound(q.model, "No "+q.model+" found")
	}
	return nil
}

// Find scans every matching row into dest, a pointer to a slice of structs
// or of struct pointers.
func (q *Query) Find(ctx context.Context, dest interface{}) error {
	if err := checkSliceDest(q.model, dest); err != nil {
		return err
	}
	return q.rows(ctx, func(rows driver.Rows) error {
		return ScanAll(rows, dest)
	})
}

// Count returns the number of matching rows, honouring Take and Skip.
func (q *Query) Count(ctx context.Context) (int64, error) {
	selected := q.selectFields
	q.selectFields = []string{"1"}
	inner, args, err := q.Build()
	q.selectFields = selected
	if err != nil {
		return 0, err
	}
	stmt := "SELECT COUNT(*) FROM (" + inner + ") " + q.session.dialect.QuoteIdentifier("sub")

	var count int64
	err = q.session.QueryRow(ctx, q.model, stmt, args, &count)
	if stderrors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return count, err
}

// Rows runs the query and hands the open rows to fn.
func (q *Query) Rows(ctx context.Context, fn func(driver.Rows) error) error {
	return q.rows(ctx, fn)
}

func (q *Query) rows(ctx context.Context, fn func(driver.Rows) error) error {
	stmt, args, err := q.Build()
	if err != nil {
		return err
	}
	return q.session.Query(ctx, q.model, stmt, args, fn)
}
