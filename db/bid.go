package db

import (
	"context"

	"github.com/carlosnayan/gigboard/builder"
)

// BidScalarField names a column of Bid.
type BidScalarField string

const (
	BidFieldID           BidScalarField = "id"
	BidFieldAmount       BidScalarField = "amount"
	BidFieldMessage      BidScalarField = "message"
	BidFieldAssignmentID BidScalarField = "assignmentId"
	BidFieldBidderID     BidScalarField = "bidderId"
	BidFieldAccepted     BidScalarField = "accepted"
	BidFieldCreatedAt    BidScalarField = "createdAt"
)

type BidOrderByInput = OrderBy[BidScalarField]

// BidWhereInput filters Bid rows. Field filters and AND are joined with
// AND; a non-nil empty OR matches nothing.
type BidWhereInput struct {
	ID           *StringFilter
	Amount       *FloatFilter
	Message      *StringNullableFilter
	AssignmentID *StringFilter
	BidderID     *StringFilter
	Accepted     *BoolFilter
	CreatedAt    *DateTimeFilter

	AND []BidWhereInput
	OR  []BidWhereInput
	NOT []BidWhereInput
}

func (w *BidWhereInput) condition() builder.Condition {
	if w == nil {
		return nil
	}
	var b whereOf
	b.field("id", w.ID)
	b.field("amount", w.Amount)
	b.field("message", w.Message)
	b.field("assignmentId", w.AssignmentID)
	b.field("bidderId", w.BidderID)
	b.field("accepted", w.Accepted)
	b.field("createdAt", w.CreatedAt)
	b.and(conditionsOf(w.AND)...)
	b.or(w.OR != nil, conditionsOf(w.OR)...)
	b.not(conditionsOf(w.NOT)...)
	return b.condition()
}

type BidAssignmentIDBidderIDCompoundUniqueInput struct {
	AssignmentID string
	BidderID     string
}

// BidWhereUniqueInput selects one Bid: set exactly one member.
type BidWhereUniqueInput struct {
	ID                   *string
	AssignmentIDBidderID *BidAssignmentIDBidderIDCompoundUniqueInput
}

func (u BidWhereUniqueInput) where() builder.Where {
	w := builder.Where{}
	if u.ID != nil {
		w["id"] = *u.ID
	}
	if u.AssignmentIDBidderID != nil {
		w["assignmentId"] = u.AssignmentIDBidderID.AssignmentID
		w["bidderId"] = u.AssignmentIDBidderID.BidderID
	}
	return w
}

type BidCreateInput struct {
	ID           *string `json:"id"`
	Amount       float64 `json:"amount" validate:"required"`
	Message      *string `json:"message" validate:"max=2000"`
	AssignmentID string  `json:"assignmentId" validate:"required"`
	BidderID     string  `json:"bidderId" validate:"required"`
	Accepted     *bool   `json:"accepted"`
}

func (c BidCreateInput) data() (builder.Data, error) {
	if err := builder.ValidateStruct("Bid", "create", c); err != nil {
		return nil, err
	}
	d := newData("Bid")
	set(d, "id", c.ID)
	d.cols["amount"] = c.Amount
	set(d, "message", c.Message)
	d.cols["assignmentId"] = c.AssignmentID
	d.cols["bidderId"] = c.BidderID
	set(d, "accepted", c.Accepted)
	return d.result()
}

type BidUpdateInput struct {
	Amount       *FloatUpdate
	Message      *Nullable[string]
	AssignmentID *string
	BidderID     *string
	Accepted     *bool
}

func (u BidUpdateInput) data() (builder.Data, error) {
	if err := builder.ValidateStruct("Bid", "update", u); err != nil {
		return nil, err
	}
	d := newData("Bid")
	setFloat(d, "amount", u.Amount)
	setNullable(d, "message", u.Message)
	set(d, "assignmentId", u.AssignmentID)
	set(d, "bidderId", u.BidderID)
	set(d, "accepted", u.Accepted)
	return d.result()
}

// BidInclude names the relations loaded with a Bid.
type BidInclude struct {
	Assignment *AssignmentIncludeArgs
	Bidder     *UserIncludeArgs
}

func (i *BidInclude) include() builder.Include {
	if i == nil {
		return nil
	}
	inc := builder.Include{}
	if i.Assignment != nil {
		inc["assignment"] = i.Assignment.args()
	}
	if i.Bidder != nil {
		inc["bidder"] = i.Bidder.args()
	}
	return inc
}

// BidIncludeArgs shapes a loaded Bid relation. The zero value loads all
// related rows; Take, Skip and OrderBy apply to list relations only.
type BidIncludeArgs struct {
	Where   *BidWhereInput
	OrderBy []BidOrderByInput
	Take    *int
	Skip    *int
	Include *BidInclude
}

func (a *BidIncludeArgs) args() *builder.IncludeArgs {
	return &builder.IncludeArgs{
		Where:   a.Where.condition(),
		OrderBy: orderBy(a.OrderBy),
		Take:    a.Take,
		Skip:    a.Skip,
		Include: a.Include.include(),
	}
}

type BidFindManyArgs struct {
	Where    *BidWhereInput
	OrderBy  []BidOrderByInput
	Take     *int
	Skip     *int
	Distinct []BidScalarField
	Include  *BidInclude
}

func (a BidFindManyArgs) args() builder.FindManyArgs {
	return builder.FindManyArgs{
		Where:    a.Where.condition(),
		OrderBy:  orderBy(a.OrderBy),
		Take:     a.Take,
		Skip:     a.Skip,
		Distinct: fieldNames(a.Distinct),
		Include:  a.Include.include(),
	}
}

type BidAggregateArgs struct {
	Where   *BidWhereInput
	OrderBy []BidOrderByInput
	Take    *int
	Skip    *int
	Select  AggregateSelect[BidScalarField]
}

type BidGroupByArgs struct {
	By      []BidScalarField
	Where   *BidWhereInput
	Having  []Having[BidScalarField]
	OrderBy []BidOrderByInput
	Take    *int
	Skip    *int
	Select  AggregateSelect[BidScalarField]
}

// BidDelegate runs the Bid operations.
type BidDelegate struct {
	table *builder.Table[Bid]
}

// Query starts a fluent query on the Bid table.
func (d *BidDelegate) Query() *builder.Query { return d.table.Query() }

func (d *BidDelegate) FindUnique(ctx context.Context, where BidWhereUniqueInput, include *BidInclude) (*Bid, error) {
	return d.table.FindUnique(ctx, where.where(), include.include())
}

func (d *BidDelegate) FindUniqueOrThrow(ctx context.Context, where BidWhereUniqueInput, include *BidInclude) (*Bid, error) {
	return d.table.FindUniqueOrThrow(ctx, where.where(), include.include())
}

func (d *BidDelegate) FindFirst(ctx context.Context, args BidFindManyArgs) (*Bid, error) {
	return d.table.FindFirst(ctx, args.args())
}

func (d *BidDelegate) FindFirstOrThrow(ctx context.Context, args BidFindManyArgs) (*Bid, error) {
	return d.table.FindFirstOrThrow(ctx, args.args())
}

func (d *BidDelegate) FindMany(ctx context.Context, args BidFindManyArgs) ([]Bid, error) {
	return d.table.FindMany(ctx, args.args())
}

func (d *BidDelegate) Count(ctx context.Context, where *BidWhereInput) (int64, error) {
	return d.table.Count(ctx, where.condition())
}

func (d *BidDelegate) Create(ctx context.Context, input BidCreateInput, include *BidInclude) (*Bid, error) {
	data, err := input.data()
	if err != nil {
		return nil, err
	}
	return d.table.Create(ctx, data, include.include())
}

func (d *BidDelegate) CreateMany(ctx context.Context, inputs []BidCreateInput, skipDuplicates bool) (BatchPayload, error) {
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

func (d *BidDelegate) Update(ctx context.Context, where BidWhereUniqueInput, input BidUpdateInput, include *BidInclude) (*Bid, error) {
	data, err := input.data()
	if err != nil {
		return nil, err
	}
	return d.table.Update(ctx, where.where(), data, include.include())
}

func (d *BidDelegate) UpdateMany(ctx context.Context, where *BidWhereInput, input BidUpdateInput) (BatchPayload, error) {
	data, err := input.data()
	if err != nil {
		return BatchPayload{}, err
	}
	return d.table.UpdateMany(ctx, where.condition(), data)
}

func (d *BidDelegate) Upsert(ctx context.Context, where BidWhereUniqueInput, create BidCreateInput, update BidUpdateInput, include *BidInclude) (*Bid, error) {
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

func (d *BidDelegate) Delete(ctx context.Context, where BidWhereUniqueInput, include *BidInclude) (*Bid, error) {
	return d.table.Delete(ctx, where.where(), include.include())
}

func (d *BidDelegate) DeleteMany(ctx context.Context, where *BidWhereInput) (BatchPayload, error) {
	return d.table.DeleteMany(ctx, where.condition())
}

func (d *BidDelegate) Aggregate(ctx context.Context, args BidAggregateArgs) (*AggregateResult, error) {
	return d.table.Aggregate(ctx, builder.AggregateArgs{
		Where:   args.Where.condition(),
		OrderBy: orderBy(args.OrderBy),
		Take:    args.Take,
		Skip:    args.Skip,
		Select:  args.Select.selection(),
	})
}

func (d *BidDelegate) GroupBy(ctx context.Context, args BidGroupByArgs) ([]GroupByRow, error) {
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
