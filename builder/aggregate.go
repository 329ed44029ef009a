package builder

import (
	"context"
	"fmt"
	"strings"

	"github.com/carlosnayan/gigboard/internal/dialect"
	"github.com/carlosnayan/gigboard/internal/driver"
	"github.com/carlosnayan/gigboard/internal/errors"
	"github.com/carlosnayan/gigboard/internal/limits"
	"github.com/carlosnayan/gigboard/schema"
)

// Aggregate function names.
const (
	AggCount = "_count"
	AggAvg   = "_avg"
	AggSum   = "_sum"
	AggMin   = "_min"
	AggMax   = "_max"
)

// aggregateExpr renders fn over field; field "_all" counts rows.
func aggregateExpr(d dialect.Dialect, fn, field string) (string, error) {
	if fn == AggCount && field == "_all" {
		return "COUNT(*)", nil
	}
	col := d.QuoteIdentifier(field)
	switch fn {
	case AggCount:
		return "COUNT(" + col + ")", nil
	case AggAvg:
		return "AVG(" + col + ")", nil
	case AggSum:
		return "SUM(" + col + ")", nil
	case AggMin:
		return "MIN(" + col + ")", nil
	case AggMax:
		return "MAX(" + col + ")", nil
	}
	return "", fmt.Errorf("unknown aggregate %q", fn)
}

type aggCondition struct {
	fn    string
	field string
	op    WhereOperator
}

// HavingAgg compares an aggregate in a GroupBy having clause:
//
//	builder.HavingAgg(builder.AggAvg, "budget", builder.Gt(100))
func HavingAgg(fn, field string, op WhereOperator) Condition {
	return aggCondition{fn: fn, field: field, op: op}
}

func (a aggCondition) render(d dialect.Dialect) (string, []interface{}) {
	expr, err := aggregateExpr(d, a.fn, a.field)
	if err != nil {
		// rejected by validation before rendering
		return "1 = 0", nil
	}
	return renderField(d, expr, a.op)
}

type aggColumn struct {
	fn    string
	field string
}

func (s AggregateSelect) columns() []aggColumn {
	var cols []aggColumn
	add := func(fn string, fields []string) {
		for _, f := range fields {
			cols = append(cols, aggColumn{fn: fn, field: f})
		}
	}
	add(AggCount, s.Count)
	add(AggAvg, s.Avg)
	add(AggSum, s.Sum)
	add(AggMin, s.Min)
	add(AggMax, s.Max)
	return cols
}

func validateAggregateSelect(m *schema.Model, op string, sel AggregateSelect) error {
	for _, c := range sel.columns() {
		if c.fn == AggCount && c.field == "_all" {
			continue
		}
		f, ok := m.Field(c.field)
		if !ok {
			return errors.Validation(m.Name, op, "Unknown field `%s` in %s", c.field, c.fn)
		}
		if (c.fn == AggAvg || c.fn == AggSum) && !f.IsNumeric() {
			return errors.Validation(m.Name, op, "%s is only available on numeric fields, `%s` is %s", c.fn, c.field, f.Type)
		}
	}
	return nil
}

func newAggregateResult() AggregateResult {
	return AggregateResult{
		Count: map[string]int64{},
		Avg:   map[string]*float64{},
		Sum:   map[string]*float64{},
		Min:   map[string]interface{}{},
		Max:   map[string]interface{}{},
	}
}

// aggregateDest returns scan destinations for cols and a function that
// stores the scanned values into r.
func (t *Table[T]) aggregateDest(cols []aggColumn) ([]interface{}, func(r *AggregateResult) error) {
	dest := make([]interface{}, len(cols))
	for i, c := range cols {
		switch c.fn {
		case AggCount:
			dest[i] = new(interface{})
		case AggAvg, AggSum:
			dest[i] = new(*float64)
		default:
			dest[i] = new(interface{})
		}
	}
	store := func(r *AggregateResult) error {
		for i, c := range cols {
			switch c.fn {
			case AggCount:
				n, err := toInt(*dest[i].(*interface{}))
				if err != nil {
					return err
				}
				r.Count[c.field] = n
			case AggAvg:
				r.Avg[c.field] = *dest[i].(**float64)
			case AggSum:
				r.Sum[c.field] = *dest[i].(**float64)
			case AggMin, AggMax:
				f, _ := t.model.Field(c.field)
				v, err := coerce(f.Type, *dest[i].(*interface{}))
				if err != nil {
					return err
				}
				if c.fn == AggMin {
					r.Min[c.field] = v
				} else {
					r.Max[c.field] = v
				}
			}
		}
		return nil
	}
	return dest, store
}

// Aggregate computes _count, _avg, _sum, _min and _max over the records
// matching args. Where, OrderBy, Take and Skip pick the aggregated rows.
func (t *Table[T]) Aggregate(ctx context.Context, args AggregateArgs) (*AggregateResult, error) {
	const op = "aggregate"
	if err := t.validateArgs(op, args.Where, args.OrderBy, args.Take, args.Skip); err != nil {
		return nil, err
	}
	if args.Select.empty() {
		return nil, errors.Validation(t.model.Name, op, "select at least one aggregate")
	}
	if err := validateAggregateSelect(t.model, op, args.Select); err != nil {
		return nil, err
	}

	d := t.session.dialect
	cols := args.Select.columns()
	exprs := make([]string, len(cols))
	for i, c := range cols {
		exprs[i], _ = aggregateExpr(d, c.fn, c.field)
	}

	inner := t.Query().Where(args.Where).OrderBy(args.OrderBy...)
	if args.Take != nil {
		inner.Take(*args.Take)
	}
	if args.Skip != nil {
		inner.Skip(*args.Skip)
	}
	innerSQL, innerArgs, err := inner.Build()
	if err != nil {
		return nil, err
	}
	stmt := fmt.Sprintf("SELECT %s FROM (%s) %s", strings.Join(exprs, ", "), innerSQL, d.QuoteIdentifier("sub"))

	dest, store := t.aggregateDest(cols)
	if err := t.session.QueryRow(ctx, t.model.Name, stmt, innerArgs, dest...); err != nil {
		return nil, err
	}
	result := newAggregateResult()
	if err := store(&result); err != nil {
		return nil, errors.MapDriverError(err, t.model.Name)
	}
	return &result, nil
}

// GroupBy groups the records matching Where by the By fields and computes
// the selected aggregates per group.
func (t *Table[T]) GroupBy(ctx context.Context, args GroupByArgs) ([]GroupByRow, error) {
	const op = "groupBy"
	if len(args.By) == 0 {
		return nil, errors.Validation(t.model.Name, op, "Argument `by` must not be empty")
	}
	if len(args.By) > limits.MaxGroupByFields {
		return nil, errors.Validation(t.model.Name, op, "by accepts at most %d fields", limits.MaxGroupByFields)
	}
	if err := validateFields(t.model, op, args.By); err != nil {
		return nil, err
	}
	if err := t.validateArgs(op, args.Where, args.OrderBy, args.Take, args.Skip); err != nil {
		return nil, err
	}
	if err := validateCondition(t.model, op, args.Having); err != nil {
		return nil, err
	}
	if err := validateAggregateSelect(t.model, op, args.Select); err != nil {
		return nil, err
	}
	for _, o := range args.OrderBy {
		if o.Aggregate == "" && !containsString(args.By, o.Field) {
			return nil, errors.Validation(t.model.Name, op, "orderBy field `%s` must be in `by`", o.Field)
		}
	}

	d := t.session.dialect
	cols := args.Select.columns()
	selected := make([]string, 0, len(args.By)+len(cols))
	for _, by := range args.By {
		selected = append(selected, by)
	}
	for _, c := range cols {
		expr, _ := aggregateExpr(d, c.fn, c.field)
		selected = append(selected, expr)
	}

	q := t.Query().Select(selected...).Where(args.Where).Group(args.By...).Having(args.Having).OrderBy(args.OrderBy...)
	if args.Take != nil {
		q.Take(*args.Take)
	}
	if args.Skip != nil {
		q.Skip(*args.Skip)
	}

	rows := []GroupByRow{}
	err := q.Rows(ctx, func(r driver.Rows) error {
		for r.Next() {
			if len(rows) >= limits.MaxScanRows {
				return fmt.Errorf("result set too large: maximum %d rows allowed", limits.MaxScanRows)
			}
			keyDest := make([]interface{}, len(args.By))
			for i := range keyDest {
				keyDest[i] = new(interface{})
			}
			aggDest, store := t.aggregateDest(cols)
			if err := r.Scan(append(keyDest, aggDest...)...); err != nil {
				return err
			}

			row := GroupByRow{Keys: make(map[string]interface{}, len(args.By)), AggregateResult: newAggregateResult()}
			for i, by := range args.By {
				f, _ := t.model.Field(by)
				v, err := coerce(f.Type, *keyDest[i].(*interface{}))
				if err != nil {
					return err
				}
				row.Keys[by] = v
			}
			if err := store(&row.AggregateResult); err != nil {
				return err
			}
			rows = append(rows, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
