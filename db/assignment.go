package db

import (
	"context"
	"time"

	"github.com/carlosnayan/gigboard/builder"
)

// AssignmentScalarField names a column of Assignment.
type AssignmentScalarField string

const (
	AssignmentFieldID            AssignmentScalarField = "id"
	AssignmentFieldTitle         AssignmentScalarField = "title"
	AssignmentFieldSlug          AssignmentScalarField = "slug"
	AssignmentFieldDescription   AssignmentScalarField = "description"
	AssignmentFieldSubject       AssignmentScalarField = "subject"
	AssignmentFieldBudget        AssignmentScalarField = "budget"
	AssignmentFieldDeadline      AssignmentScalarField = "deadline"
	AssignmentFieldStatus        AssignmentScalarField = "status"
	AssignmentFieldPosterID      AssignmentScalarField = "posterId"
	AssignmentFieldWorkerID      AssignmentScalarField = "workerId"
	AssignmentFieldAcceptedBidID AssignmentScalarField = "acceptedBidId"
	AssignmentFieldCreatedAt     AssignmentScalarField = "createdAt"
	AssignmentFieldUpdatedAt     AssignmentScalarField = "updatedAt"
)

type AssignmentOrderByInput = OrderBy[AssignmentScalarField]

// AssignmentWhereInput filters Assignment rows. Field filters and AND are joined with
// AND; a non-nil empty OR matches nothing.
type AssignmentWhereInput struct {
	ID            *StringFilter
	Title         *StringFilter
	Slug          *StringFilter
	Description   *StringFilter
	Subject       *StringNullableFilter
	Budget        *FloatFilter
	Deadline      *DateTimeFilter
	Status        *AssignmentStatusFilter
	PosterID      *StringFilter
	WorkerID      *StringNullableFilter
	AcceptedBidID *StringNullableFilter
	CreatedAt     *DateTimeFilter
	UpdatedAt     *DateTimeFilter

	AND []AssignmentWhereInput
	OR  []AssignmentWhereInput
	NOT []AssignmentWhereInput
}

func (w *AssignmentWhereInput) condition() builder.Condition {
	if w == nil {
		return nil
	}
	var b whereOf
	b.field("id", w.ID)
	b.field("title", w.Title)
	b.field("slug", w.Slug)
	b.field("description", w.Description)
	b.field("subject", w.Subject)
	b.field("budget", w.Budget)
	b.field("deadline", w.Deadline)
	b.field("status", w.Status)
	b.field("posterId", w.PosterID)
	b.field("workerId", w.WorkerID)
	b.field("acceptedBidId", w.AcceptedBidID)
	b.field("createdAt", w.CreatedAt)
	b.field("updatedAt", w.UpdatedAt)
	b.and(conditionsOf(w.AND)...)
	b.or(w.OR != nil, conditionsOf(w.OR)...)
	b.not(conditionsOf(w.NOT)...)
	return b.condition()
}

// AssignmentWhereUniqueInput selects one Assignment: set exactly one member.
type AssignmentWhereUniqueInput struct {
	ID   *string
	Slug *string
}

func (u AssignmentWhereUniqueInput) where() builder.Where {
	w := builder.Where{}
	if u.ID != nil {
		w["id"] = *u.ID
	}
	if u.Slug != nil {
		w["slug"] = *u.Slug
	}
	return w
}

type AssignmentCreateInput struct {
	ID            *string           `json:"id"`
	Title         string            `json:"title" validate:"required,min=3,max=200"`
	Slug          string            `json:"slug" validate:"required,max=255"`
	Description   string            `json:"description" validate:"required"`
	Subject       *string           `json:"subject" validate:"max=100"`
	Budget        float64           `json:"budget" validate:"required"`
	Deadline      time.Time         `json:"deadline" validate:"required"`
	Status        *AssignmentStatus `json:"status"`
	PosterID      string            `json:"posterId" validate:"required"`
	WorkerID      *string           `json:"workerId"`
	AcceptedBidID *string           `json:"acceptedBidId"`
}

func (c AssignmentCreateInput) data() (builder.Data, error) {
	if err := builder.ValidateStruct("Assignment", "create", c); err != nil {
		return nil, err
	}
	d := newData("Assignment")
	set(d, "id", c.ID)
	d.cols["title"] = c.Title
	d.cols["slug"] = c.Slug
	d.cols["description"] = c.Description
	set(d, "subject", c.Subject)
	d.cols["budget"] = c.Budget
	d.cols["deadline"] = c.Deadline
	setEnum(d, "status", c.Status)
	d.cols["posterId"] = c.PosterID
	set(d, "workerId", c.WorkerID)
	set(d, "acceptedBidId", c.AcceptedBidID)
	return d.result()
}

type AssignmentUpdateInput struct {
	Title         *string `json:"title" validate:"min=3,max=200"`
	Slug          *string `json:"slug" validate:"max=255"`
	Description   *string
	Subject       *Nullable[string]
	Budget        *FloatUpdate
	Deadline      *time.Time
	Status        *AssignmentStatus
	PosterID      *string
	WorkerID      *Nullable[string]
	AcceptedBidID *Nullable[string]
}

func (u AssignmentUpdateInput) data() (builder.Data, error) {
	if err := builder.ValidateStruct("Assignment", "update", u); err != nil {
		return nil, err
	}
	d := newData("Assignment")
	set(d, "title", u.Title)
	set(d, "slug", u.Slug)
	set(d, "description", u.Description)
	setNullable(d, "subject", u.Subject)
	setFloat(d, "budget", u.Budget)
	set(d, "deadline", u.Deadline)
	setEnum(d, "status", u.Status)
	set(d, "posterId", u.PosterID)
	setNullable(d, "workerId", u.WorkerID)
	setNullable(d, "acceptedBidId", u.AcceptedBidID)
	return d.result()
}

// AssignmentInclude names the relations loaded with a Assignment.
type AssignmentInclude struct {
	Poster      *UserIncludeArgs
	Worker      *UserIncludeArgs
	Bids        *BidIncludeArgs
	Submissions *SubmissionIncludeArgs
	Reviews     *ReviewIncludeArgs
	Messages    *MessageIncludeArgs
	Payment     *PaymentIncludeArgs
	Disputes    *DisputeIncludeArgs
}

func (i *AssignmentInclude) include() builder.Include {
	if i == nil {
		return nil
	}
	inc := builder.Include{}
	if i.Poster != nil {
		inc["poster"] = i.Poster.args()
	}
	if i.Worker != nil {
		inc["worker"] = i.Worker.args()
	}
	if i.Bids != nil {
		inc["bids"] = i.Bids.args()
	}
	if i.Submissions != nil {
		inc["submissions"] = i.Submissions.args()
	}
	if i.Reviews != nil {
		inc["reviews"] = i.Reviews.args()
	}
	if i.Messages != nil {
		inc["messages"] = i.Messages.args()
	}
	if i.Payment != nil {
		inc["payment"] = i.Payment.args()
	}
	if i.Disputes != nil {
		inc["disputes"] = i.Disputes.args()
	}
	return inc
}

// AssignmentIncludeArgs shapes a loaded Assignment relation. The zero value loads all
// related rows; Take, Skip and OrderBy apply to list relations only.
type AssignmentIncludeArgs struct {
	Where   *AssignmentWhereInput
	OrderBy []AssignmentOrderByInput
	Take    *int
	Skip    *int
	Include *AssignmentInclude
}

func (a *AssignmentIncludeArgs) args() *builder.IncludeArgs {
	return &builder.IncludeArgs{
		Where:   a.Where.condition(),
		OrderBy: orderBy(a.OrderBy),
		Take:    a.Take,
		Skip:    a.Skip,
		Include: a.Include.include(),
	}
}

type AssignmentFindManyArgs struct {
	Where    *AssignmentWhereInput
	OrderBy  []AssignmentOrderByInput
	Take     *int
	Skip     *int
	Distinct []AssignmentScalarField
	Include  *AssignmentInclude
}

func (a AssignmentFindManyArgs) args() builder.FindManyArgs {
	return builder.FindManyArgs{
		Where:    a.Where.condition(),
		OrderBy:  orderBy(a.OrderBy),
		Take:     a.Take,
		Skip:     a.Skip,
		Distinct: fieldNames(a.Distinct),
		Include:  a.Include.include(),
	}
}

type AssignmentAggregateArgs struct {
	Where   *AssignmentWhereInput
	OrderBy []AssignmentOrderByInput
	Take    *int
	Skip    *int
	Select  AggregateSelect[AssignmentScalarField]
}

type AssignmentGroupByArgs struct {
	By      []AssignmentScalarField
	Where   *AssignmentWhereInput
	Having  []Having[AssignmentScalarField]
	OrderBy []AssignmentOrderByInput
	Take    *int
	Skip    *int
	Select  AggregateSelect[AssignmentScalarField]
}

// AssignmentDelegate runs the Assignment operations.
type AssignmentDelegate struct {
	table *builder.Table[Assignment]
}

// Query starts a fluent query on the Assignment table.
func (d *AssignmentDelegate) Query() *builder.Query { return d.table.Query() }

func (d *AssignmentDelegate) FindUnique(ctx context.Context, where AssignmentWhereUniqueInput, include *AssignmentInclude) (*Assignment, error) {
	return d.table.FindUnique(ctx, where.where(), include.include())
}

func (d *AssignmentDelegate) FindUniqueOrThrow(ctx context.Context, where AssignmentWhereUniqueInput, include *AssignmentInclude) (*Assignment, error) {
	return d.table.FindUniqueOrThrow(ctx, where.where(), include.include())
}

func (d *AssignmentDelegate) FindFirst(ctx context.Context, args AssignmentFindManyArgs) (*Assignment, error) {
	return d.table.FindFirst(ctx, args.args())
}

func (d *AssignmentDelegate) FindFirstOrThrow(ctx context.Context, args AssignmentFindManyArgs) (*Assignment, error) {
	return d.table.FindFirstOrThrow(ctx, args.args())
}

func (d *AssignmentDelegate) FindMany(ctx context.Context, args AssignmentFindManyArgs) ([]Assignment, error) {
	return d.table.FindMany(ctx, args.args())
}

func (d *AssignmentDelegate) Count(ctx context.Context, where *AssignmentWhereInput) (int64, error) {
	return d.table.Count(ctx, where.condition())
}

func (d *AssignmentDelegate) Create(ctx context.Context, input AssignmentCreateInput, include *AssignmentInclude) (*Assignment, error) {
	data, err := input.data()
	if err != nil {
		return nil, err
	}
	return d.table.Create(ctx, data, include.include())
}

func (d *AssignmentDelegate) CreateMany(ctx context.Context, inputs []AssignmentCreateInput, skipDuplicates bool) (BatchPayload, error) {
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

func (d *AssignmentDelegate) Update(ctx context.Context, where AssignmentWhereUniqueInput, input AssignmentUpdateInput, include *AssignmentInclude) (*Assignment, error) {
	data, err := input.data()
	if err != nil {
		return nil, err
	}
	return d.table.Update(ctx, where.where(), data, include.include())
}

func (d *AssignmentDelegate) UpdateMany(ctx context.Context, where *AssignmentWhereInput, input AssignmentUpdateInput) (BatchPayload, error) {
	data, err := input.data()
	if err != nil {
		return BatchPayload{}, err
	}
	return d.table.UpdateMany(ctx, where.condition(), data)
}

func (d *AssignmentDelegate) Upsert(ctx context.Context, where AssignmentWhereUniqueInput, create AssignmentCreateInput, update AssignmentUpdateInput, include *AssignmentInclude) (*Assignment, error) {
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

func (d *AssignmentDelegate) Delete(ctx context.Context, where AssignmentWhereUniqueInput, include *AssignmentInclude) (*Assignment, error) {
	return d.table.Delete(ctx, where.where(), include.include())
}

func (d *AssignmentDelegate) DeleteMany(ctx context.Context, where *AssignmentWhereInput) (BatchPayload, error) {
	return d.table.DeleteMany(ctx, where.condition())
}

func (d *AssignmentDelegate) Aggregate(ctx context.Context, args AssignmentAggregateArgs) (*AggregateResult, error) {
	return d.table.Aggregate(ctx, builder.AggregateArgs{
		Where:   args.Where.condition(),
		OrderBy: orderBy(args.OrderBy),
		Take:    args.Take,
		Skip:    args.Skip,
		Select:  args.Select.selection(),
	})
}

func (d *AssignmentDelegate) GroupBy(ctx context.Context, args AssignmentGroupByArgs) ([]GroupByRow, error) {
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
