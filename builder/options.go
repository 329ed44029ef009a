package builder

// OrderBy defines sorting for a single field
type OrderBy struct {
	// Field name to sort by
	Field string

	// Order direction: "ASC" or "DESC"
	Order string

	// Aggregate orders a GroupBy by an aggregate of Field: _count, _avg,
	// _sum, _min or _max.
	Aggregate string
}

// Asc orders by field ascending.
func Asc(field string) OrderBy { return OrderBy{Field: field, Order: "ASC"} }

// Desc orders by field descending.
func Desc(field string) OrderBy { return OrderBy{Field: field, Order: "DESC"} }

// Ptr returns a pointer to v.
func Ptr[V any](v V) *V {
	return &v
}

// BatchPayload represents the result of batch operations (CreateMany, UpdateMany, DeleteMany)
type BatchPayload struct {
	// Count is the number of records affected
	Count int64 `json:"count"`
}

// FindManyArgs are the arguments of FindMany and FindFirst.
type FindManyArgs struct {
	Where   Condition
	OrderBy []OrderBy
	Take    *int
	Skip    *int
	// Distinct keeps the first row of each combination of these fields.
	Distinct []string
	Include  Include
}

// Include names the relations to load with the result. A nil *IncludeArgs
// loads the whole relation.
type Include map[string]*IncludeArgs

// IncludeArgs filter, order and nest a relation load. Take and Skip apply
// per parent record.
type IncludeArgs struct {
	Where   Condition
	OrderBy []OrderBy
	Take    *int
	Skip    *int
	Include Include
}

// Data is the column -> value map of a create or update. Update values may
// be UpdateOp; nil writes NULL.
type Data map[string]interface{}

// UpdateOp is an atomic numeric update.
type UpdateOp struct {
	op    string
	value interface{}
}

// Set writes value; the same as putting value in Data directly.
func Set(value interface{}) UpdateOp { return UpdateOp{op: "set", value: value} }

// Increment adds n to the current value.
func Increment(n interface{}) UpdateOp { return UpdateOp{op: "+", value: n} }

// Decrement subtracts n from the current value.
func Decrement(n interface{}) UpdateOp { return UpdateOp{op: "-", value: n} }

// Multiply multiplies the current value by n.
func Multiply(n interface{}) UpdateOp { return UpdateOp{op: "*", value: n} }

// Divide divides the current value by n.
func Divide(n interface{}) UpdateOp { return UpdateOp{op: "/", value: n} }

// AggregateSelect picks the fields of each aggregate. Count accepts "_all".
type AggregateSelect struct {
	Count []string
	Avg   []string
	Sum   []string
	Min   []string
	Max   []string
}

func (s AggregateSelect) empty() bool {
	return len(s.Count)+len(s.Avg)+len(s.Sum)+len(s.Min)+len(s.Max) == 0
}

// AggregateArgs are the arguments of Aggregate. Take, Skip and OrderBy
// restrict the rows that are aggregated.
type AggregateArgs struct {
	Where   Condition
	OrderBy []OrderBy
	Take    *int
	Skip    *int
	Select  AggregateSelect
}

// AggregateResult holds one value per selected field. Empty sets give a
// zero count and nil for the other aggregates.
type AggregateResult struct {
	Count map[string]int64
	Avg   map[string]*float64
	Sum   map[string]*float64
	Min   map[string]interface{}
	Max   map[string]interface{}
}

// GroupByArgs are the arguments of GroupBy.
type GroupByArgs struct {
	By      []string
	Where   Condition
	Having  Condition
	OrderBy []OrderBy
	Take    *int
	Skip    *int
	Select  AggregateSelect
}

// GroupByRow is one group: the values of the By fields and the aggregates.
type GroupByRow struct {
	Keys map[string]interface{}
	AggregateResult
}
