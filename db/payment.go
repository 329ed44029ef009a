package db

import (
	"context"

	"github.com/carlosnayan/gigboard/builder"
)

// PaymentScalarField names a column of Payment.
type PaymentScalarField string

const (
	PaymentFieldID           PaymentScalarField = "id"
	PaymentFieldAmount       PaymentScalarField = "amount"
	PaymentFieldStatus       PaymentScalarField = "status"
	PaymentFieldAssignmentID PaymentScalarField = "assignmentId"
	PaymentFieldPayerID      PaymentScalarField = "payerId"
	PaymentFieldPayeeID      PaymentScalarField = "payeeId"
	PaymentFieldProviderRef  PaymentScalarField = "providerRef"
	PaymentFieldCreatedAt    PaymentScalarField = "createdAt"
	PaymentFieldUpdatedAt    PaymentScalarField = "updatedAt"
)

type PaymentOrderByInput = OrderBy[PaymentScalarField]

// PaymentWhereInput filters Payment rows. Field filters and AND are joined with
// AND; a non-nil empty OR matches nothing.
type PaymentWhereInput struct {
	ID           *StringFilter
	Amount       *FloatFilter
	Status       *PaymentStatusFilter
	AssignmentID *StringFilter
	PayerID      *StringFilter
	PayeeID      *StringFilter
	ProviderRef  *StringNullableFilter
	CreatedAt    *DateTimeFilter
	UpdatedAt    *DateTimeFilter

	AND []PaymentWhereInput
	OR  []PaymentWhereInput
	NOT []PaymentWhereInput
}

func (w *PaymentWhereInput) condition() builder.Condition {
	if w == nil {
		return nil
	}
	var b whereOf
	b.field("id", w.ID)
	b.field("amount", w.Amount)
	b.field("status", w.Status)
	b.field("assignmentId", w.AssignmentID)
	b.field("payerId", w.PayerID)
	b.field("payeeId", w.PayeeID)
	b.field("providerRef", w.ProviderRef)
	b.field("createdAt", w.CreatedAt)
	b.field("updatedAt", w.UpdatedAt)
	b.and(conditionsOf(w.AND)...)
	b.or(w.OR != nil, conditionsOf(w.OR)...)
	b.not(conditionsOf(w.NOT)...)
	return b.condition()
}

// PaymentWhereUniqueInput selects one Payment: set exactly one member.
type PaymentWhereUniqueInput struct {
	ID           *string
	AssignmentID *string
}

func (u PaymentWhereUniqueInput) where() builder.Where {
	w := builder.Where{}
	if u.ID != nil {
		w["id"] = *u.ID
	}
	if u.AssignmentID != nil {
		w["assignmentId"] = *u.AssignmentID
	}
	return w
}

type PaymentCreateInput struct {
	ID           *string        `json:"id"`
	Amount       float64        `json:"amount" validate:"required"`
	Status       *PaymentStatus `json:"status"`
	AssignmentID string         `json:"assignmentId" validate:"required"`
	PayerID      string         `json:"payerId" validate:"required"`
	PayeeID      string         `json:"payeeId" validate:"required"`
	ProviderRef  *string        `json:"providerRef"`
}

func (c PaymentCreateInput) data() (builder.Data, error) {
	if err := builder.ValidateStruct("Payment", "create", c); err != nil {
		return nil, err
	}
	d := newData("Payment")
	set(d, "id", c.ID)
	d.cols["amount"] = c.Amount
	setEnum(d, "status", c.Status)
	d.cols["assignmentId"] = c.AssignmentID
	d.cols["payerId"] = c.PayerID
	d.cols["payeeId"] = c.PayeeID
	set(d, "providerRef", c.ProviderRef)
	return d.result()
}

type PaymentUpdateInput struct {
	Amount       *FloatUpdate
	Status       *PaymentStatus
	AssignmentID *string
	PayerID      *string
	PayeeID      *string
	ProviderRef  *Nullable[string]
}

func (u PaymentUpdateInput) data() (builder.Data, error) {
	if err := builder.ValidateStruct("Payment", "update", u); err != nil {
		return nil, err
	}
	d := newData("Payment")
	setFloat(d, "amount", u.Amount)
	setEnum(d, "status", u.Status)
	set(d, "assignmentId", u.AssignmentID)
	set(d, "payerId", u.PayerID)
	set(d, "payeeId", u.PayeeID)
	setNullable(d, "providerRef", u.ProviderRef)
	return d.result()
}

// PaymentInclude names the relations loaded with a Payment.
type PaymentInclude struct {
	Assignment *AssignmentIncludeArgs
	Payer      *UserIncludeArgs
	Payee      *UserIncludeArgs
	Disputes   *DisputeIncludeArgs
}

func (i *PaymentInclude) include() builder.Include {
	if i == nil {
		return nil
	}
	inc := builder.Include{}
	if i.Assignment != nil {
		inc["assignment"] = i.Assignment.args()
	}
	if i.Payer != nil {
		inc["payer"] = i.Payer.args()
	}
	if i.Payee != nil {
		inc["payee"] = i.Payee.args()
	}
	if i.Disputes != nil {
		inc["disputes"] = i.Disputes.args()
	}
	return inc
}

// PaymentIncludeArgs shapes a loaded Payment relation. The zero value loads all
// related rows; Take, Skip and OrderBy apply to list relations only.
type PaymentIncludeArgs struct {
	Where   *PaymentWhereInput
	OrderBy []PaymentOrderByInput
	Take    *int
	Skip    *int
	Include *PaymentInclude
}

func (a *PaymentIncludeArgs) args() *builder.IncludeArgs {
	return &builder.IncludeArgs{
		Where:   a.Where.condition(),
		OrderBy: orderBy(a.OrderBy),
		Take:    a.Take,
		Skip:    a.Skip,
		Include: a.Include.include(),
	}
}

type PaymentFindManyArgs struct {
	Where    *PaymentWhereInput
	OrderBy  []PaymentOrderByInput
	Take     *int
	Skip     *int
	Distinct []PaymentScalarField
	Include  *PaymentInclude
}

func (a PaymentFindManyArgs) args() builder.FindManyArgs {
	return builder.FindManyArgs{
		Where:    a.Where.condition(),
		OrderBy:  orderBy(a.OrderBy),
		Take:     a.Take,
		Skip:     a.Skip,
		Distinct: fieldNames(a.Distinct),
		Include:  a.Include.include(),
	}
}

type PaymentAggregateArgs struct {
	Where   *PaymentWhereInput
	OrderBy []PaymentOrderByInput
	Take    *int
	Skip    *int
	Select  AggregateSelect[PaymentScalarField]
}

type PaymentGroupByArgs struct {
	By      []PaymentScalarField
	Where   *PaymentWhereInput
	Having  []Having[PaymentScalarField]
	OrderBy []PaymentOrderByInput
	Take    *int
	Skip    *int
	Select  AggregateSelect[PaymentScalarField]
}

// PaymentDelegate runs the Payment operations.
type PaymentDelegate struct {
	table *builder.Table[Payment]
}

// Query starts a fluent query on the Payment table.
func (d *PaymentDelegate) Query() *builder.Query { return d.table.Query() }

func (d *PaymentDelegate) FindUnique(ctx context.Context, where PaymentWhereUniqueInput, include *PaymentInclude) (*Payment, error) {
	return d.table.FindUnique(ctx, where.where(), include.include())
}

func (d *PaymentDelegate) FindUniqueOrThrow(ctx context.Context, where PaymentWhereUniqueInput, include *PaymentInclude) (*Payment, error) {
	return d.table.FindUniqueOrThrow(ctx, where.where(), include.include())
}

func (d *PaymentDelegate) FindFirst(ctx context.Context, args PaymentFindManyArgs) (*Payment, error) {
	return d.table.FindFirst(ctx, args.args())
}

func (d *PaymentDelegate) FindFirstOrThrow(ctx context.Context, args PaymentFindManyArgs) (*Payment, error) {
	return d.table.FindFirstOrThrow(ctx, args.args())
}

func (d *PaymentDelegate) FindMany(ctx context.Context, args PaymentFindManyArgs) ([]Payment, error) {
	return d.table.FindMany(ctx, args.args())
}

func (d *PaymentDelegate) Count(ctx context.Context, where *PaymentWhereInput) (int64, error) {
	return d.table.Count(ctx, where.condition())
}

func (d *PaymentDelegate) Create(ctx context.Context, input PaymentCreateInput, include *PaymentInclude) (*Payment, error) {
	data, err := input.data()
	if err != nil {
		return nil, err
	}
	return d.table.Create(ctx, data, include.include())
}

func (d *PaymentDelegate) CreateMany(ctx context.Context, inputs []PaymentCreateInput, skipDuplicates bool) (BatchPayload, error) {
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

func (d *PaymentDelegate) Update(ctx context.Context, where PaymentWhereUniqueInput, input PaymentUpdateInput, include *PaymentInclude) (*Payment, error) {
	data, err := input.data()
	if err != nil {
		return nil, err
	}
	return d.table.Update(ctx, where.where(), data, include.include())
}

func (d *PaymentDelegate) UpdateMany(ctx context.Context, where *PaymentWhereInput, input PaymentUpdateInput) (BatchPayload, error) {
	data, err := input.data()
	if err != nil {
		return BatchPayload{}, err
	}
	return d.table.UpdateMany(ctx, where.condition(), data)
}

func (d *PaymentDelegate) Upsert(ctx context.Context, where PaymentWhereUniqueInput, create PaymentCreateInput, update PaymentUpdateInput, include *PaymentInclude) (*Payment, error) {
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

func (d *PaymentDelegate) Delete(ctx context.Context, where PaymentWhereUniqueInput, include *PaymentInclude) (*Payment, error) {
	return d.table.Delete(ctx, where.where(), include.include())
}

func (d *PaymentDelegate) DeleteMany(ctx context.Context, where *PaymentWhereInput) (BatchPayload, error) {
	return d.table.DeleteMany(ctx, where.condition())
}

func (d *PaymentDelegate) Aggregate(ctx context.Context, args PaymentAggregateArgs) (*AggregateResult, error) {
	return d.table.Aggregate(ctx, builder.AggregateArgs{
		Where:   args.Where.condition(),
		OrderBy: orderBy(args.OrderBy),
		Take:    args.Take,
		Skip:    args.Skip,
		Select:  args.Select.selection(),
	})
}

func (d *PaymentDelegate) GroupBy(ctx context.Context, args PaymentGroupByArgs) ([]GroupByRow, error) {
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
