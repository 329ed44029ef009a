package db

import (
	"github.com/carlosnayan/gigboard/builder"
	"github.com/carlosnayan/gigboard/internal/errors"
)

type (
	// BatchPayload is the result of CreateMany, UpdateMany and DeleteMany.
	BatchPayload = builder.BatchPayload
	// AggregateResult holds the _count, _avg, _sum, _min and _max values
	// keyed by field name.
	AggregateResult = builder.AggregateResult
	// GroupByRow is one group of a GroupBy.
	GroupByRow = builder.GroupByRow
)

// conditionsOf renders a list of nested WhereInputs. An empty input
// matches every row.
func conditionsOf[W any, PW interface {
	*W
	condition() builder.Condition
}](list []W) []builder.Condition {
	out := make([]builder.Condition, len(list))
	for i := range list {
		c := PW(&list[i]).condition()
		if c == nil {
			c = builder.And()
		}
		out[i] = c
	}
	return out
}

// OrderBy sorts by a scalar field. With Aggregate set it sorts GroupBy rows
// by that aggregate of the field instead.
type OrderBy[F ~string] struct {
	Field     F
	Order     SortOrder
	Aggregate AggregateFunc
}

func orderBy[F ~string](list []OrderBy[F]) []builder.OrderBy {
	if len(list) == 0 {
		return nil
	}
	out := make([]builder.OrderBy, len(list))
	for i, o := range list {
		out[i] = builder.OrderBy{Field: string(o.Field), Order: string(o.Order), Aggregate: string(o.Aggregate)}
	}
	return out
}

func fieldNames[F ~string](fields []F) []string {
	if len(fields) == 0 {
		return nil
	}
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = string(f)
	}
	return out
}

// AggregateFunc names an aggregate in Having and OrderBy.
type AggregateFunc string

const (
	AggCount AggregateFunc = builder.AggCount
	AggAvg   AggregateFunc = builder.AggAvg
	AggSum   AggregateFunc = builder.AggSum
	AggMin   AggregateFunc = builder.AggMin
	AggMax   AggregateFunc = builder.AggMax
)

// AggregateSelect picks the fields of each aggregate. CountAll counts rows.
type AggregateSelect[F ~string] struct {
	CountAll bool
	Count    []F
	Avg      []F
	Sum      []F
	Min      []F
	Max      []F
}

func (s AggregateSelect[F]) selection() builder.AggregateSelect {
	sel := builder.AggregateSelect{
		Count: fieldNames(s.Count),
		Avg:   fieldNames(s.Avg),
		Sum:   fieldNames(s.Sum),
		Min:   fieldNames(s.Min),
		Max:   fieldNames(s.Max),
	}
	if s.CountAll {
		sel.Count = append([]string{All}, sel.Count...)
	}
	return sel
}

// Having filters GroupBy groups on an aggregate of Field.
//
//	db.Having[db.AssignmentScalarField]{Aggregate: db.AggAvg, Field: db.AssignmentFieldBudget, Filter: db.FloatFilter{Gt: db.Ptr(100.0)}}
type Having[F ~string] struct {
	Aggregate AggregateFunc
	Field     F
	Filter    FloatFilter
}

func having[F ~string](list []Having[F]) builder.Condition {
	if len(list) == 0 {
		return nil
	}
	var conds []builder.Condition
	for _, h := range list {
		f := h.Filter
		for _, c := range f.conditions(string(h.Field)) {
			// each filter condition is a single-key Where
			for _, op := range c.(builder.Where) {
				conds = append(conds, builder.HavingAgg(string(h.Aggregate), string(h.Field), op.(builder.WhereOperator)))
			}
		}
	}
	return builder.And(conds...)
}

// Nullable is the update value of an optional field: Null() writes NULL.
type Nullable[T any] struct {
	Value *T
}

// NullableOf sets an optional field to v.
func NullableOf[T any](v T) *Nullable[T] { return &Nullable[T]{Value: &v} }

// Null clears an optional field.
func Null[T any]() *Nullable[T] { return &Nullable[T]{} }

// IntUpdate is the update of an Int field: exactly one of its members.
type IntUpdate struct {
	Set       *int
	Increment *int
	Decrement *int
	Multiply  *int
	Divide    *int
}

// FloatUpdate is the update of a Float field: exactly one of its members.
type FloatUpdate struct {
	Set       *float64
	Increment *float64
	Decrement *float64
	Multiply  *float64
	Divide    *float64
}

func numericOp[V int | float64](model, field string, set, inc, dec, mul, div *V) (interface{}, error) {
	var ops []interface{}
	if set != nil {
		ops = append(ops, *set)
	}
	if inc != nil {
		ops = append(ops, builder.Increment(*inc))
	}
	if dec != nil {
		ops = append(ops, builder.Decrement(*dec))
	}
	if mul != nil {
		ops = append(ops, builder.Multiply(*mul))
	}
	if div != nil {
		if *div == 0 {
			return nil, errors.Validation(model, "update", "Argument `%s`: division by zero", field)
		}
		ops = append(ops, builder.Divide(*div))
	}
	if len(ops) != 1 {
		return nil, errors.Validation(model, "update", "Argument `%s` needs exactly one of set, increment, decrement, multiply, divide", field)
	}
	return ops[0], nil
}

// dataBuilder accumulates the columns of a create or update input.
type dataBuilder struct {
	model string
	cols  builder.Data
	err   error
}

func newData(model string) *dataBuilder {
	return &dataBuilder{model: model, cols: builder.Data{}}
}

func set[V any](d *dataBuilder, col string, v *V) {
	if v != nil {
		d.cols[col] = *v
	}
}

func setNullable[V any](d *dataBuilder, col string, v *Nullable[V]) {
	if v == nil {
		return
	}
	if v.Value == nil {
		d.cols[col] = nil
		return
	}
	d.cols[col] = *v.Value
}

func setInt(d *dataBuilder, col string, u *IntUpdate) {
	if u == nil || d.err != nil {
		return
	}
	v, err := numericOp(d.model, col, u.Set, u.Increment, u.Decrement, u.Multiply, u.Divide)
	if err != nil {
		d.err = err
		return
	}
	d.cols[col] = v
}

func setFloat(d *dataBuilder, col string, u *FloatUpdate) {
	if u == nil || d.err != nil {
		return
	}
	v, err := numericOp(d.model, col, u.Set, u.Increment, u.Decrement, u.Multiply, u.Divide)
	if err != nil {
		d.err = err
		return
	}
	d.cols[col] = v
}

func (d *dataBuilder) result() (builder.Data, error) {
	return d.cols, d.err
}

type enum interface {
	~string
	IsValid() bool
}

func setEnum[E enum](d *dataBuilder, col string, v *E) {
	if v == nil || d.err != nil {
		return
	}
	if !(*v).IsValid() {
		d.err = errors.Validation(d.model, "write", "Argument `%s`: invalid value %q", col, string(*v))
		return
	}
	d.cols[col] = *v
}
