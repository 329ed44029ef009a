package db

import (
	"context"
	"time"

	"github.com/carlosnayan/gigboard/builder"
)

// DisputeScalarField names a column of Dispute.
type DisputeScalarField string

const (
	DisputeFieldID           DisputeScalarField = "id"
	DisputeFieldReason       DisputeScalarField = "reason"
	DisputeFieldStatus       DisputeScalarField = "status"
	DisputeFieldResolution   DisputeScalarField = "resolution"
	DisputeFieldAssignmentID DisputeScalarField = "assignmentId"
	DisputeFieldPaymentID    DisputeScalarField = "paymentId"
	DisputeFieldRaisedByID   DisputeScalarField = "raisedById"
	DisputeFieldCreatedAt    DisputeScalarField = "createdAt"
	DisputeFieldResolvedAt   DisputeScalarField = "resolvedAt"
)

type DisputeOrderByInput = OrderBy[DisputeScalarField]

// DisputeWhereInput filters Dispute rows. Field filters and AND are joined with
// AND; a non-nil empty OR matches nothing.
type DisputeWhereInput struct {
	ID           *StringFilter
	Reason       *StringFilter
	Status       *DisputeStatusFilter
	Resolution   *StringNullableFilter
	AssignmentID *StringFilter
	PaymentID    *StringNullableFilter
	RaisedByID   *StringFilter
	CreatedAt    *DateTimeFilter
	ResolvedAt   *DateTimeNullableFilter

	AND []DisputeWhereInput
	OR  []DisputeWhereInput
	NOT []DisputeWhereInput
}

func (w *DisputeWhereInput) condition() builder.Condition {
	if w == nil {
		return nil
	}
	var b whereOf
	b.field("id", w.ID)
	b.field("reason", w.Reason)
	b.field("status", w.Status)
	b.field("resolution", w.Resolution)
	b.field("assignmentId", w.AssignmentID)
	b.field("paymentId", w.PaymentID)
	b.field("raisedById", w.RaisedByID)
	b.field("createdAt", w.CreatedAt)
	b.field("resolvedAt", w.ResolvedAt)
	b.and(conditionsOf(w.AND)...)
	b.or(w.OR != nil, conditionsOf(w.OR)...)
	b.not(conditionsOf(w.NOT)...)
	return b.condition()
}

// DisputeWhereUniqueInput selects one Dispute: set exactly one member.
type DisputeWhereUniqueInput struct {
	ID *string
}

func (u DisputeWhereUniqueInput) where() builder.Where {
	w := builder.Where{}
	if u.ID != nil {
		w["id"] = *u.ID
	}
	return w
}

type DisputeCreateInput struct {
	ID           *string        `json:"id"`
	Reason       string         `json:"reason" validate:"required,max=5000"`
	Status       *DisputeStatus `json:"status"`
	Resolution   *string        `json:"resolution" validate:"max=5000"`
	AssignmentID string         `json:"assignmentId" validate:"required"`
	PaymentID    *string        `json:"paymentId"`
	RaisedByID   string         `json:"raisedById" validate:"required"`
	ResolvedAt   *time.Time     `json:"resolvedAt"`
}

func (c DisputeCreateInput) data() (builder.Data, error) {
	if err := builder.ValidateStruct("Dispute", "create", c); err != nil {
		return nil, err
	}
	d := newData("Dispute")
	set(d, "id", c.ID)
	d.cols["reason"] = c.Reason
	setEnum(d, "status", c.Status)
	set(d, "resolution", c.Resolution)
	d.cols["assignmentId"] = c.AssignmentID
	set(d, "paymentId", c.PaymentID)
	d.cols["raisedById"] = c.RaisedByID
	set(d, "resolvedAt", c.ResolvedAt)
	return d.result()
}

type DisputeUpdateInput struct {
	Reason       *string `json:"reason" validate:"max=5000"`
	Status       *DisputeStatus
	Resolution   *Nullable[string]
	AssignmentID *string
	PaymentID    *Nullable[string]
	RaisedByID   *string
	ResolvedAt   *Nullable[time.Time]
}

func (u DisputeUpdateInput) data() (builder.Data, error) {
	if err := builder.ValidateStruct("Dispute", "update", u); err != nil {
		return nil, err
	}
	d := newData("Dispute")
	set(d, "reason", u.Reason)
	setEnum(d, "status", u.Status)
	setNullable(d, "resolution", u.Resolution)
	set(d, "assignmentId", u.AssignmentID)
	setNullable(d, "paymentId", u.PaymentID)
	set(d, "raisedById", u.RaisedByID)
	setNullable(d, "resolvedAt", u.ResolvedAt)
	return d.result()
}

// DisputeInclude names the relations loaded with a Dispute.
type DisputeInclude struct {
	Assignment *AssignmentIncludeArgs
	Payment    *PaymentIncludeArgs
	RaisedBy   *UserIncludeArgs
}

func (i *DisputeInclude) include() builder.Include {
	if i == nil {
		return nil
	}
	inc := builder.Include{}
	if i.Assignment != nil {
		inc["assignment"] = i.Assignment.args()
	}
	if i.Payment != nil {
		inc["payment"] = i.Payment.args()
	}
	if i.RaisedBy != nil {
		inc["raisedBy"] = i.RaisedBy.args()
	}
	return inc
}

// DisputeIncludeArgs shapes a loaded Dispute relation. The zero value loads all
// related rows; Take, Skip and OrderBy apply to list relations only.
type DisputeIncludeArgs struct {
	Where   *DisputeWhereInput
	OrderBy []DisputeOrderByInput
	Take    *int
	Skip    *int
	Include *DisputeInclude
}

func (a *DisputeIncludeArgs) args() *builder.IncludeArgs {
	return &builder.IncludeArgs{
		Where:   a.Where.condition(),
		OrderBy: orderBy(a.OrderBy),
		Take:    a.Take,
		Skip:    a.Skip,
		Include: a.Include.include(),
	}
}

type DisputeFindManyArgs struct {
	Where    *DisputeWhereInput
	OrderBy  []DisputeOrderByInput
	Take     *int
	Skip     *int
	Distinct []DisputeScalarField
	Include  *DisputeInclude
}

func (a DisputeFindManyArgs) args() builder.FindManyArgs {
	return builder.FindManyArgs{
		Where:    a.Where.condition(),
		OrderBy:  orderBy(a.OrderBy),
		Take:     a.Take,
		Skip:     a.Skip,
		Distinct: fieldNames(a.Distinct),
		Include:  a.Include.include(),
	}
}

type DisputeAggregateArgs struct {
	Where   *DisputeWhereInput
	OrderBy []DisputeOrderByInput
	Take    *int
	Skip    *int
	Select  AggregateSelect[DisputeScalarField]
}

type DisputeGroupByArgs struct {
	By      []DisputeScalarField
	Where   *DisputeWhereInput
	Having  []Having[DisputeScalarField]
	OrderBy []DisputeOrderByInput
	Take    *int
	Skip    *int
	Select  AggregateSelect[DisputeScalarField]
}

// DisputeDelegate runs the Dispute operations.
type DisputeDelegate struct {
	table *builder.Table[Dispute]
}

// Query starts a fluent query on the Dispute table.
func (d *DisputeDelegate) Query() *builder.Query { return d.table.Query() }

func (d *DisputeDelegate) FindUnique(ctx context.Context, where DisputeWhereUniqueInput, include *DisputeInclude) (*Dispute, error) {
	return d.table.FindUnique(ctx, where.where(), include.include())
}

func (d *DisputeDelegate) FindUniqueOrThrow(ctx context.Context, where DisputeWhereUniqueInput, include *DisputeInclude) (*Dispute, error) {
	return d.table.FindUniqueOrThrow(ctx, where.where(), include.include())
}

func (d *DisputeDelegate) FindFirst(ctx context.Context, args DisputeFindManyArgs) (*Dispute, error) {
	return d.table.FindFirst(ctx, args.args())
}

func (d *DisputeDelegate) FindFirstOrThrow(ctx context.Context, args DisputeFindManyArgs) (*Dispute, error) {
	return d.table.FindFirstOrThrow(ctx, args.args())
}

func (d *DisputeDelegate) FindMany(ctx context.Context, args DisputeFindManyArgs) ([]Dispute, error) {
	return d.table.FindMany(ctx, args.args())
}

func (d *DisputeDelegate) Count(ctx context.Context, where *DisputeWhereInput) (int64, error) {
	return d.table.Count(ctx, where.condition())
}

func (d *DisputeDelegate) Create(ctx context.Context, input DisputeCreateInput, include *DisputeInclude) (*Dispute, error) {
	data, err := input.data()
	if err != nil {
		return nil, err
	}
	return d.table.Create(ctx, data, include.include())
}

func (d *DisputeDelegate) CreateMany(ctx context.Context, inputs []DisputeCreateInput, skipDuplicates bool) (BatchPayload, error) {
	rows := make([]builder.Data, len(inputs))
	for i, input := range inputs {
		data, err := input.data()
		if err != nil {
			return BatchPayload{}, err
		}
		rows[i] = data
	}
	return d.table.CreateMany(ctx, rows, skipDuplicates)
}

func (d *DisputeDelegate) Update(ctx context.Context, where DisputeWhereUniqueInput, input DisputeUpdateInput, include *DisputeInclude) (*Dispute, error) {
	data, err := input.data()
	if err != nil {
		return nil, err
	}
	return d.table.Update(ctx, where.where(), data, include.include())
}

func (d *DisputeDelegate) UpdateMany(ctx context.Context, where *DisputeWhereInput, input DisputeUpdateInput) (BatchPayload, error) {
	data, err := input.data()
	if err != nil {
		return BatchPayload{}, err
	}
	return d.table.UpdateMany(ctx, where.condition(), data)
}

func (d *DisputeDelegate) Upsert(ctx context.Context, where DisputeWhereUniqueInput, create DisputeCreateInput, update DisputeUpdateInput, include *DisputeInclude) (*Dispute, error) {
	createData, err := create.data()
	if err != nil {
		return nil, err
	}
	updateData, err := update.data()
	if err != nil {
		return nil, err
	}
	return d.table.Upsert(ctx, where.where(), createData, updateData, include.include())
}

func (d *DisputeDelegate) Delete(ctx context.Context, where DisputeWhereUniqueInput, include *DisputeInclude) (*Dispute, error) {
	return d.table.Delete(ctx, where.where(), include.include())
}

func (d *DisputeDelegate) DeleteMany(ctx context.Context, where *DisputeWhereInput) (BatchPayload, error) {
	return d.table.DeleteMany(ctx, where.condition())
}

func (d *DisputeDelegate) Aggregate(ctx context.Context, args DisputeAggregateArgs) (*AggregateResult, error) {
	return d.table.Aggregate(ctx, builder.AggregateArgs{
		Where:   args.Where.condition(),
		OrderBy: orderBy(args.OrderBy),
		Take:    args.Take,
		Skip:    args.Skip,
		Select:  args.Select.selection(),
	})
}

func (d *DisputeDelegate) GroupBy(ctx context.Context, args DisputeGroupByArgs) ([]GroupByRow, error) {
	return d.table.GroupBy(ctx, builder.GroupByArgs{
		By:      fieldNames(args.By),
		Where:   args.Where.condition(),
		Having:  having(args.Having),
		OrderBy: orderBy(args.OrderBy),
		Take:    args.Take,
		Skip:    args.Skip,
		Select:  args.Select.selection(),
	})
}
