package db

import (
	"context"

	"github.com/carlosnayan/gigboard/builder"
)

// ReviewScalarField names a column of Review.
type ReviewScalarField string

const (
	ReviewFieldID           ReviewScalarField = "id"
	ReviewFieldRating       ReviewScalarField = "rating"
	ReviewFieldComment      ReviewScalarField = "comment"
	ReviewFieldAssignmentID ReviewScalarField = "assignmentId"
	ReviewFieldReviewerID   ReviewScalarField = "reviewerId"
	ReviewFieldRevieweeID   ReviewScalarField = "revieweeId"
	ReviewFieldCreatedAt    ReviewScalarField = "createdAt"
)

type ReviewOrderByInput = OrderBy[ReviewScalarField]

// ReviewWhereInput filters Review rows. Field filters and AND are joined with
// AND; a non-nil empty OR matches nothing.
type ReviewWhereInput struct {
	ID           *StringFilter
	Rating       *IntFilter
	Comment      *StringNullableFilter
	AssignmentID *StringFilter
	ReviewerID   *StringFilter
	RevieweeID   *StringFilter
	CreatedAt    *DateTimeFilter

	AND []ReviewWhereInput
	OR  []ReviewWhereInput
	NOT []ReviewWhereInput
}

func (w *ReviewWhereInput) condition() builder.Condition {
	if w == nil {
		return nil
	}
	var b whereOf
	b.field("id", w.ID)
	b.field("rating", w.Rating)
	b.field("comment", w.Comment)
	b.field("assignmentId", w.AssignmentID)
	b.field("reviewerId", w.ReviewerID)
	b.field("revieweeId", w.RevieweeID)
	b.field("createdAt", w.CreatedAt)
	b.and(conditionsOf(w.AND)...)
	b.or(w.OR != nil, conditionsOf(w.OR)...)
	b.not(conditionsOf(w.NOT)...)
	return b.condition()
}

type ReviewAssignmentIDReviewerIDCompoundUniqueInput struct {
	AssignmentID string
	ReviewerID   string
}

// ReviewWhereUniqueInput selects one Review: set exactly one member.
type ReviewWhereUniqueInput struct {
	ID                     *string
	AssignmentIDReviewerID *ReviewAssignmentIDReviewerIDCompoundUniqueInput
}

func (u ReviewWhereUniqueInput) where() builder.Where {
	w := builder.Where{}
	if u.ID != nil {
		w["id"] = *u.ID
	}
	if u.AssignmentIDReviewerID != nil {
		w["assignmentId"] = u.AssignmentIDReviewerID.AssignmentID
		w["reviewerId"] = u.AssignmentIDReviewerID.ReviewerID
	}
	return w
}

type ReviewCreateInput struct {
	ID           *string `json:"id"`
	Rating       int     `json:"rating" validate:"min=1,max=5"`
	Comment      *string `json:"comment" validate:"max=2000"`
	AssignmentID string  `json:"assignmentId" validate:"required"`
	ReviewerID   string  `json:"reviewerId" validate:"required"`
	RevieweeID   string  `json:"revieweeId" validate:"required"`
}

func (c ReviewCreateInput) data() (builder.Data, error) {
	if err := builder.ValidateStruct("Review", "create", c); err != nil {
		return nil, err
	}
	d := newData("Review")
	set(d, "id", c.ID)
	d.cols["rating"] = c.Rating
	set(d, "comment", c.Comment)
	d.cols["assignmentId"] = c.AssignmentID
	d.cols["reviewerId"] = c.ReviewerID
	d.cols["revieweeId"] = c.RevieweeID
	return d.result()
}

type ReviewUpdateInput struct {
	Rating       *IntUpdate
	Comment      *Nullable[string]
	AssignmentID *string
	ReviewerID   *string
	RevieweeID   *string
}

func (u ReviewUpdateInput) data() (builder.Data, error) {
	if err := builder.ValidateStruct("Review", "update", u); err != nil {
		return nil, err
	}
	d := newData("Review")
	setInt(d, "rating", u.Rating)
	setNullable(d, "comment", u.Comment)
	set(d, "assignmentId", u.AssignmentID)
	set(d, "reviewerId", u.ReviewerID)
	set(d, "revieweeId", u.RevieweeID)
	return d.result()
}

// ReviewInclude names the relations loaded with a Review.
type ReviewInclude struct {
	Assignment *AssignmentIncludeArgs
	Reviewer   *UserIncludeArgs
	Reviewee   *UserIncludeArgs
}

func (i *ReviewInclude) include() builder.Include {
	if i == nil {
		return nil
	}
	inc := builder.Include{}
	if i.Assignment != nil {
		inc["assignment"] = i.Assignment.args()
	}
	if i.Reviewer != nil {
		inc["reviewer"] = i.Reviewer.args()
	}
	if i.Reviewee != nil {
		inc["reviewee"] = i.Reviewee.args()
	}
	return inc
}

// ReviewIncludeArgs shapes a loaded Review relation. The zero value loads all
// related rows; Take, Skip and OrderBy apply to list relations only.
type ReviewIncludeArgs struct {
	Where   *ReviewWhereInput
	OrderBy []ReviewOrderByInput
	Take    *int
	Skip    *int
	Include *ReviewInclude
}

func (a *ReviewIncludeArgs) args() *builder.IncludeArgs {
	return &builder.IncludeArgs{
		Where:   a.Where.condition(),
		OrderBy: orderBy(a.OrderBy),
		Take:    a.Take,
		Skip:    a.Skip,
		Include: a.Include.include(),
	}
}

type ReviewFindManyArgs struct {
	Where    *ReviewWhereInput
	OrderBy  []ReviewOrderByInput
	Take     *int
	Skip     *int
	Distinct []ReviewScalarField
	Include  *ReviewInclude
}

func (a ReviewFindManyArgs) args() builder.FindManyArgs {
	return builder.FindManyArgs{
		Where:    a.Where.condition(),
		OrderBy:  orderBy(a.OrderBy),
		Take:     a.Take,
		Skip:     a.Skip,
		Distinct: fieldNames(a.Distinct),
		Include:  a.Include.include(),
	}
}

type ReviewAggregateArgs struct {
	Where   *ReviewWhereInput
	OrderBy []ReviewOrderByInput
	Take    *int
	Skip    *int
	Select  AggregateSelect[ReviewScalarField]
}

type ReviewGroupByArgs struct {
	By      []ReviewScalarField
	Where   *ReviewWhereInput
	Having  []Having[ReviewScalarField]
	OrderBy []ReviewOrderByInput
	Take    *int
	Skip    *int
	Select  AggregateSelect[ReviewScalarField]
}

// ReviewDelegate runs the Review operations.
type ReviewDelegate struct {
	table *builder.Table[Review]
}

// Query starts a fluent query on the Review table.
func (d *ReviewDelegate) Query() *builder.Query { return d.table.Query() }

func (d *ReviewDelegate) FindUnique(ctx context.Context, where ReviewWhereUniqueInput, include *ReviewInclude) (*Review, error) {
	return d.table.FindUnique(ctx, where.where(), include.include())
}

func (d *ReviewDelegate) FindUniqueOrThrow(ctx context.Context, where ReviewWhereUniqueInput, include *ReviewInclude) (*Review, error) {
	return d.table.FindUniqueOrThrow(ctx, where.where(), include.include())
}

func (d *ReviewDelegate) FindFirst(ctx context.Context, args ReviewFindManyArgs) (*Review, error) {
	return d.table.FindFirst(ctx, args.args())
}

func (d *ReviewDelegate) FindFirstOrThrow(ctx context.Context, args ReviewFindManyArgs) (*Review, error) {
	return d.table.FindFirstOrThrow(ctx, args.args())
}

func (d *ReviewDelegate) FindMany(ctx context.Context, args ReviewFindManyArgs) ([]Review, error) {
	return d.table.FindMany(ctx, args.args())
}

func (d *ReviewDelegate) Count(ctx context.Context, where *ReviewWhereInput) (int64, error) {
	return d.table.Count(ctx, where.condition())
}

func (d *ReviewDelegate) Create(ctx context.Context, input ReviewCreateInput, include *ReviewInclude) (*Review, error) {
	data, err := input.data()
	if err != nil {
		return nil, err
	}
	return d.table.Create(ctx, data, include.include())
}

func (d *ReviewDelegate) CreateMany(ctx context.Context, inputs []ReviewCreateInput, skipDuplicates bool) (BatchPayload, error) {
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

func (d *ReviewDelegate) Update(ctx context.Context, where ReviewWhereUniqueInput, input ReviewUpdateInput, include *ReviewInclude) (*Review, error) {
	data, err := input.data()
	if err != nil {
		return nil, err
	}
	return d.table.Update(ctx, where.where(), data, include.include())
}

func (d *ReviewDelegate) UpdateMany(ctx context.Context, where *ReviewWhereInput, input ReviewUpdateInput) (BatchPayload, error) {
	data, err := input.data()
	if err != nil {
		return BatchPayload{}, err
	}
	return d.table.UpdateMany(ctx, where.condition(), data)
}

func (d *ReviewDelegate) Upsert(ctx context.Context, where ReviewWhereUniqueInput, create ReviewCreateInput, update ReviewUpdateInput, include *ReviewInclude) (*Review, error) {
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

func (d *ReviewDelegate) Delete(ctx context.Context, where ReviewWhereUniqueInput, include *ReviewInclude) (*Review, error) {
	return d.table.Delete(ctx, where.where(), include.include())
}

func (d *ReviewDelegate) DeleteMany(ctx context.Context, where *ReviewWhereInput) (BatchPayload, error) {
	return d.table.DeleteMany(ctx, where.condition())
}

func (d *ReviewDelegate) Aggregate(ctx context.Context, args ReviewAggregateArgs) (*AggregateResult, error) {
	return d.table.Aggregate(ctx, builder.AggregateArgs{
		Where:   args.Where.condition(),
		OrderBy: orderBy(args.OrderBy),
		Take:    args.Take,
		Skip:    args.Skip,
		Select:  args.Select.selection(),
	})
}

func (d *ReviewDelegate) GroupBy(ctx context.Context, args ReviewGroupByArgs) ([]GroupByRow, error) {
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
