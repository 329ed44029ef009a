package db

import (
	"context"

	"github.com/carlosnayan/gigboard/builder"
)

// SubmissionScalarField names a column of Submission.
type SubmissionScalarField string

const (
	SubmissionFieldID           SubmissionScalarField = "id"
	SubmissionFieldAssignmentID SubmissionScalarField = "assignmentId"
	SubmissionFieldWorkerID     SubmissionScalarField = "workerId"
	SubmissionFieldContent      SubmissionScalarField = "content"
	SubmissionFieldFileURL      SubmissionScalarField = "fileUrl"
	SubmissionFieldCreatedAt    SubmissionScalarField = "createdAt"
)

type SubmissionOrderByInput = OrderBy[SubmissionScalarField]

// SubmissionWhereInput filters Submission rows. Field filters and AND are joined with
// AND; a non-nil empty OR matches nothing.
type SubmissionWhereInput struct {
	ID           *StringFilter
	AssignmentID *StringFilter
	WorkerID     *StringFilter
	Content      *StringFilter
	FileURL      *StringNullableFilter
	CreatedAt    *DateTimeFilter

	AND []SubmissionWhereInput
	OR  []SubmissionWhereInput
	NOT []SubmissionWhereInput
}

func (w *SubmissionWhereInput) condition() builder.Condition {
	if w == nil {
		return nil
	}
	var b whereOf
	b.field("id", w.ID)
	b.field("assignmentId", w.AssignmentID)
	b.field("workerId", w.WorkerID)
	b.field("content", w.Content)
	b.field("fileUrl", w.FileURL)
	b.field("createdAt", w.CreatedAt)
	b.and(conditionsOf(w.AND)...)
	b.or(w.OR != nil, conditionsOf(w.OR)...)
	b.not(conditionsOf(w.NOT)...)
	return b.condition()
}

// SubmissionWhereUniqueInput selects one Submission: set exactly one member.
type SubmissionWhereUniqueInput struct {
	ID *string
}

func (u SubmissionWhereUniqueInput) where() builder.Where {
	w := builder.Where{}
	if u.ID != nil {
		w["id"] = *u.ID
	}
	return w
}

type SubmissionCreateInput struct {
	ID           *string `json:"id"`
	AssignmentID string  `json:"assignmentId" validate:"required"`
	WorkerID     string  `json:"workerId" validate:"required"`
	Content      string  `json:"content" validate:"required"`
	FileURL      *string `json:"fileUrl"`
}

func (c SubmissionCreateInput) data() (builder.Data, error) {
	if err := builder.ValidateStruct("Submission", "create", c); err != nil {
		return nil, err
	}
	d := newData("Submission")
	set(d, "id", c.ID)
	d.cols["assignmentId"] = c.AssignmentID
	d.cols["workerId"] = c.WorkerID
	d.cols["content"] = c.Content
	set(d, "fileUrl", c.FileURL)
	return d.result()
}

type SubmissionUpdateInput struct {
	AssignmentID *string
	WorkerID     *string
	Content      *string
	FileURL      *Nullable[string]
}

func (u SubmissionUpdateInput) data() (builder.Data, error) {
	if err := builder.ValidateStruct("Submission", "update", u); err != nil {
		return nil, err
	}
	d := newData("Submission")
	set(d, "assignmentId", u.AssignmentID)
	set(d, "workerId", u.WorkerID)
	set(d, "content", u.Content)
	setNullable(d, "fileUrl", u.FileURL)
	return d.result()
}

// SubmissionInclude names the relations loaded with a Submission.
type SubmissionInclude struct {
	Assignment *AssignmentIncludeArgs
	Worker     *UserIncludeArgs
}

func (i *SubmissionInclude) include() builder.Include {
	if i == nil {
		return nil
	}
	inc := builder.Include{}
	if i.Assignment != nil {
		inc["assignment"] = i.Assignment.args()
	}
	if i.Worker != nil {
		inc["worker"] = i.Worker.args()
	}
	return inc
}

// SubmissionIncludeArgs shapes a loaded Submission relation. The zero value loads all
// related rows; Take, Skip and OrderBy apply to list relations only.
type SubmissionIncludeArgs struct {
	Where   *SubmissionWhereInput
	OrderBy []SubmissionOrderByInput
	Take    *int
	Skip    *int
	Include *SubmissionInclude
}

func (a *SubmissionIncludeArgs) args() *builder.IncludeArgs {
	return &builder.IncludeArgs{
		Where:   a.Where.condition(),
		OrderBy: orderBy(a.OrderBy),
		Take:    a.Take,
		Skip:    a.Skip,
		Include: a.Include.include(),
	}
}

type SubmissionFindManyArgs struct {
	Where    *SubmissionWhereInput
	OrderBy  []SubmissionOrderByInput
	Take     *int
	Skip     *int
	Distinct []SubmissionScalarField
	Include  *SubmissionInclude
}

func (a SubmissionFindManyArgs) args() builder.FindManyArgs {
	return builder.FindManyArgs{
		Where:    a.Where.condition(),
		OrderBy:  orderBy(a.OrderBy),
		Take:     a.Take,
		Skip:     a.Skip,
		Distinct: fieldNames(a.Distinct),
		Include:  a.Include.include(),
	}
}

type SubmissionAggregateArgs struct {
	Where   *SubmissionWhereInput
	OrderBy []SubmissionOrderByInput
	Take    *int
	Skip    *int
	Select  AggregateSelect[SubmissionScalarField]
}

type SubmissionGroupByArgs struct {
	By      []SubmissionScalarField
	Where   *SubmissionWhereInput
	Having  []Having[SubmissionScalarField]
	OrderBy []SubmissionOrderByInput
	Take    *int
	Skip    *int
	Select  AggregateSelect[SubmissionScalarField]
}

// SubmissionDelegate runs the Submission operations.
type SubmissionDelegate struct {
	table *builder.Table[Submission]
}

// Query starts a fluent query on the Submission table.
func (d *SubmissionDelegate) Query() *builder.Query { return d.table.Query() }

func (d *SubmissionDelegate) FindUnique(ctx context.Context, where SubmissionWhereUniqueInput, include *SubmissionInclude) (*Submission, error) {
	return d.table.FindUnique(ctx, where.where(), include.include())
}

func (d *SubmissionDelegate) FindUniqueOrThrow(ctx context.Context, where SubmissionWhereUniqueInput, include *SubmissionInclude) (*Submission, error) {
	return d.table.FindUniqueOrThrow(ctx, where.where(), include.include())
}

func (d *SubmissionDelegate) FindFirst(ctx context.Context, args SubmissionFindManyArgs) (*Submission, error) {
	return d.table.FindFirst(ctx, args.args())
}

func (d *SubmissionDelegate) FindFirstOrThrow(ctx context.Context, args SubmissionFindManyArgs) (*Submission, error) {
	return d.table.FindFirstOrThrow(ctx, args.args())
}

func (d *SubmissionDelegate) FindMany(ctx context.Context, args SubmissionFindManyArgs) ([]Submission, error) {
	return d.table.FindMany(ctx, args.args())
}

func (d *SubmissionDelegate) Count(ctx context.Context, where *SubmissionWhereInput) (int64, error) {
	return d.table.Count(ctx, where.condition())
}

func (d *SubmissionDelegate) Create(ctx context.Context, input SubmissionCreateInput, include *SubmissionInclude) (*Submission, error) {
	data, err := input.data()
	if err != nil {
		return nil, err
	}
	return d.table.Create(ctx, data, include.include())
}

func (d *SubmissionDelegate) CreateMany(ctx context.Context, inputs []SubmissionCreateInput, skipDuplicates bool) (BatchPayload, error) {
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

func (d *SubmissionDelegate) Update(ctx context.Context, where SubmissionWhereUniqueInput, input SubmissionUpdateInput, include *SubmissionInclude) (*Submission, error) {
	data, err := input.data()
	if err != nil {
		return nil, err
	}
	return d.table.Update(ctx, where.where(), data, include.include())
}

func (d *SubmissionDelegate) UpdateMany(ctx context.Context, where *SubmissionWhereInput, input SubmissionUpdateInput) (BatchPayload, error) {
	data, err := input.data()
	if err != nil {
		return BatchPayload{}, err
	}
	return d.table.UpdateMany(ctx, where.condition(), data)
}

func (d *SubmissionDelegate) Upsert(ctx context.Context, where SubmissionWhereUniqueInput, create SubmissionCreateInput, update SubmissionUpdateInput, include *SubmissionInclude) (*Submission, error) {
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

func (d *SubmissionDelegate) Delete(ctx context.Context, where SubmissionWhereUniqueInput, include *SubmissionInclude) (*Submission, error) {
	return d.table.Delete(ctx, where.where(), include.include())
}

func (d *SubmissionDelegate) DeleteMany(ctx context.Context, where *SubmissionWhereInput) (BatchPayload, error) {
	return d.table.DeleteMany(ctx, where.condition())
}

func (d *SubmissionDelegate) Aggregate(ctx context.Context, args SubmissionAggregateArgs) (*AggregateResult, error) {
	return d.table.Aggregate(ctx, builder.AggregateArgs{
		Where:   args.Where.condition(),
		OrderBy: orderBy(args.OrderBy),
		Take:    args.Take,
		Skip:    args.Skip,
		Select:  args.Select.selection(),
	})
}

func (d *SubmissionDelegate) GroupBy(ctx context.Context, args SubmissionGroupByArgs) ([]GroupByRow, error) {
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
