package db

import (
	"time"

	"github.com/carlosnayan/gigboard/builder"
)

// SortOrder is the direction of an OrderBy.
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// QueryMode selects case sensitivity of string filters.
type QueryMode string

const (
	QueryModeDefault     QueryMode = "default"
	QueryModeInsensitive QueryMode = "insensitive"
)

// Ptr returns a pointer to v, for optional input fields.
func Ptr[V any](v V) *V { return &v }

// scalarConds renders the comparison part shared by every filter. Each
// operator is its own condition so several can apply to one column.
func scalarConds[V any](field string, equals, not *V, in, notIn []V, lt, lte, gt, gte *V) []builder.Condition {
	var out []builder.Condition
	add := func(op builder.WhereOperator) {
		out = append(out, builder.Where{field: op})
	}
	if equals != nil {
		add(builder.Equals(*equals))
	}
	if not != nil {
		add(builder.NotEquals(*not))
	}
	if in != nil {
		add(builder.In(in))
	}
	if notIn != nil {
		add(builder.NotIn(notIn))
	}
	if lt != nil {
		add(builder.Lt(*lt))
	}
	if lte != nil {
		add(builder.Lte(*lte))
	}
	if gt != nil {
		add(builder.Gt(*gt))
	}
	if gte != nil {
		add(builder.Gte(*gte))
	}
	return out
}

func nullConds(field string, isNull *bool) []builder.Condition {
	if isNull == nil {
		return nil
	}
	if *isNull {
		return []builder.Condition{builder.Where{field: builder.IsNull()}}
	}
	return []builder.Condition{builder.Where{field: builder.IsNotNull()}}
}

// StringFilter filters a required String field. Contains, StartsWith and
// EndsWith match their argument literally; Mode insensitive ignores case.
type StringFilter struct {
	Equals     *string
	Not        *string
	In         []string
	NotIn      []string
	Lt         *string
	Lte        *string
	Gt         *string
	Gte        *string
	Contains   *string
	StartsWith *string
	EndsWith   *string
	Mode       QueryMode
}

func (f *StringFilter) conditions(field string) []builder.Condition {
	if f == nil {
		return nil
	}
	out := scalarConds(field, f.Equals, f.Not, f.In, f.NotIn, f.Lt, f.Lte, f.Gt, f.Gte)
	insensitive := f.Mode == QueryModeInsensitive
	if f.Contains != nil {
		op := builder.Contains(*f.Contains)
		if insensitive {
			op = builder.ContainsInsensitive(*f.Contains)
		}
		out = append(out, builder.Where{field: op})
	}
	if f.StartsWith != nil {
		op := builder.StartsWith(*f.StartsWith)
		if insensitive {
			op = builder.StartsWithInsensitive(*f.StartsWith)
		}
		out = append(out, builder.Where{field: op})
	}
	if f.EndsWith != nil {
		op := builder.EndsWith(*f.EndsWith)
		if insensitive {
			op = builder.EndsWithInsensitive(*f.EndsWith)
		}
		out = append(out, builder.Where{field: op})
	}
	return out
}

// StringNullableFilter filters an optional String field.
type StringNullableFilter struct {
	StringFilter
	IsNull *bool
}

func (f *StringNullableFilter) conditions(field string) []builder.Condition {
	if f == nil {
		return nil
	}
	return append(f.StringFilter.conditions(field), nullConds(field, f.IsNull)...)
}

type IntFilter struct {
	Equals *int
	Not    *int
	In     []int
	NotIn  []int
	Lt     *int
	Lte    *int
	Gt     *int
	Gte    *int
}

func (f *IntFilter) conditions(field string) []builder.Condition {
	if f == nil {
		return nil
	}
	return scalarConds(field, f.Equals, f.Not, f.In, f.NotIn, f.Lt, f.Lte, f.Gt, f.Gte)
}

type FloatFilter struct {
	Equals *float64
	Not    *float64
	In     []float64
	NotIn  []float64
	Lt     *float64
	Lte    *float64
	Gt     *float64
	Gte    *float64
}

func (f *FloatFilter) conditions(field string) []builder.Condition {
	if f == nil {
		return nil
	}
	return scalarConds(field, f.Equals, f.Not, f.In, f.NotIn, f.Lt, f.Lte, f.Gt, f.Gte)
}

type BoolFilter struct {
	Equals *bool
	Not    *bool
}

func (f *BoolFilter) conditions(field string) []builder.Condition {
	if f == nil {
		return nil
	}
	return scalarConds(field, f.Equals, f.Not, nil, nil, nil, nil, nil, nil)
}

type DateTimeFilter struct {
	Equals *time.Time
	Not    *time.Time
	In     []time.Time
	NotIn  []time.Time
	Lt     *time.Time
	Lte    *time.Time
	Gt     *time.Time
	Gte    *time.Time
}

func (f *DateTimeFilter) conditions(field string) []builder.Condition {
	if f == nil {
		return nil
	}
	return scalarConds(field, f.Equals, f.Not, f.In, f.NotIn, f.Lt, f.Lte, f.Gt, f.Gte)
}

type DateTimeNullableFilter struct {
	DateTimeFilter
	IsNull *bool
}

func (f *DateTimeNullableFilter) conditions(field string) []builder.Condition {
	if f == nil {
		return nil
	}
	return append(f.DateTimeFilter.conditions(field), nullConds(field, f.IsNull)...)
}

// EnumFilter filters an enum field.
type EnumFilter[E ~string] struct {
	Equals *E
	Not    *E
	In     []E
	NotIn  []E
}

func (f *EnumFilter[E]) conditions(field string) []builder.Condition {
	if f == nil {
		return nil
	}
	return scalarConds(field, f.Equals, f.Not, f.In, f.NotIn, nil, nil, nil, nil)
}

type (
	AssignmentStatusFilter = EnumFilter[AssignmentStatus]
	PaymentStatusFilter    = EnumFilter[PaymentStatus]
	DisputeStatusFilter    = EnumFilter[DisputeStatus]
)

// filter is implemented by every field filter.
type filter interface {
	conditions(field string) []builder.Condition
}

// whereOf collects field filters and the AND / OR / NOT combinators of a
// WhereInput into one condition. An empty input is nil, no restriction.
type whereOf struct {
	conds []builder.Condition
}

func (w *whereOf) field(name string, f filter) {
	w.conds = append(w.conds, f.conditions(name)...)
}

func (w *whereOf) and(conds ...builder.Condition) {
	if len(conds) > 0 {
		w.conds = append(w.conds, builder.And(conds...))
	}
}

// or adds OR over conds; a non-nil empty OR list matches nothing.
func (w *whereOf) or(set bool, conds ...builder.Condition) {
	if set {
		w.conds = append(w.conds, builder.Or(conds...))
	}
}

func (w *whereOf) not(conds ...builder.Condition) {
	if len(conds) > 0 {
		w.conds = append(w.conds, builder.Not(conds...))
	}
}

func (w *whereOf) condition() builder.Condition {
	switch len(w.conds) {
	case 0:
		return nil
	case 1:
		return w.conds[0]
	}
	return builder.And(w.conds...)
}

// All stands for "every row" in aggregate counts, having clauses and
// aggregate orderBy: Count: []UserScalarField{db.All}.
const All = "_all"
