package db

import (
	"context"

	"github.com/carlosnayan/gigboard/builder"
)

// UserScalarField names a column of User.
type UserScalarField string

const (
	UserFieldID        UserScalarField = "id"
	UserFieldClerkID   UserScalarField = "clerkId"
	UserFieldEmail     UserScalarField = "email"
	UserFieldName      UserScalarField = "name"
	UserFieldImageURL  UserScalarField = "imageUrl"
	UserFieldBio       UserScalarField = "bio"
	UserFieldRating    UserScalarField = "rating"
	UserFieldCreatedAt UserScalarField = "createdAt"
	UserFieldUpdatedAt UserScalarField = "updatedAt"
)

type UserOrderByInput = OrderBy[UserScalarField]

// UserWhereInput filters User rows. Field filters and AND are joined with
// AND; a non-nil empty OR matches nothing.
type UserWhereInput struct {
	ID        *StringFilter
	ClerkID   *StringFilter
	Email     *StringFilter
	Name      *StringNullableFilter
	ImageURL  *StringNullableFilter
	Bio       *StringNullableFilter
	Rating    *FloatFilter
	CreatedAt *DateTimeFilter
	UpdatedAt *DateTimeFilter

	AND []UserWhereInput
	OR  []UserWhereInput
	NOT []UserWhereInput
}

func (w *UserWhereInput) condition() builder.Condition {
	if w == nil {
		return nil
	}
	var b whereOf
	b.field("id", w.ID)
	b.field("clerkId", w.ClerkID)
	b.field("email", w.Email)
	b.field("name", w.Name)
	b.field("imageUrl", w.ImageURL)
	b.field("bio", w.Bio)
	b.field("rating", w.Rating)
	b.field("createdAt", w.CreatedAt)
	b.field("updatedAt", w.UpdatedAt)
	b.and(conditionsOf(w.AND)...)
	b.or(w.OR != nil, conditionsOf(w.OR)...)
	b.not(conditionsOf(w.NOT)...)
	return b.condition()
}

// UserWhereUniqueInput selects one User: set exactly one member.
type UserWhereUniqueInput struct {
	ID      *string
	ClerkID *string
	Email   *string
}

func (u UserWhereUniqueInput) where() builder.Where {
	w := builder.Where{}
	if u.ID != nil {
		w["id"] = *u.ID
	}
	if u.ClerkID != nil {
		w["clerkId"] = *u.ClerkID
	}
	if u.Email != nil {
		w["email"] = *u.Email
	}
	return w
}

type UserCreateInput struct {
	ID       *string  `json:"id"`
	ClerkID  string   `json:"clerkId" validate:"required"`
	Email    string   `json:"email" validate:"required,email"`
	Name     *string  `json:"name" validate:"max=100"`
	ImageURL *string  `json:"imageUrl"`
	Bio      *string  `json:"bio" validate:"max=2000"`
	Rating   *float64 `json:"rating" validate:"min=0,max=5"`
}

func (c UserCreateInput) data() (builder.Data, error) {
	if err := builder.ValidateStruct("User", "create", c); err != nil {
		return nil, err
	}
	d := newData("User")
	set(d, "id", c.ID)
	d.cols["clerkId"] = c.ClerkID
	d.cols["email"] = c.Email
	set(d, "name", c.Name)
	set(d, "imageUrl", c.ImageURL)
	set(d, "bio", c.Bio)
	set(d, "rating", c.Rating)
	return d.result()
}

type UserUpdateInput struct {
	ClerkID  *string
	Email    *string `json:"email" validate:"email"`
	Name     *Nullable[string]
	ImageURL *Nullable[string]
	Bio      *Nullable[string]
	Rating   *FloatUpdate
}

func (u UserUpdateInput) data() (builder.Data, error) {
	if err := builder.ValidateStruct("User", "update", u); err != nil {
		return nil, err
	}
	d := newData("User")
	set(d, "clerkId", u.ClerkID)
	set(d, "email", u.Email)
	setNullable(d, "name", u.Name)
	setNullable(d, "imageUrl", u.ImageURL)
	setNullable(d, "bio", u.Bio)
	setFloat(d, "rating", u.Rating)
	return d.result()
}

// UserInclude names the relations loaded with a User.
type UserInclude struct {
	PostedAssignments   *AssignmentIncludeArgs
	AcceptedAssignments *AssignmentIncludeArgs
	Bids                *BidIncludeArgs
	Submissions         *SubmissionIncludeArgs
	ReviewsGiven        *ReviewIncludeArgs
	ReviewsReceived     *ReviewIncludeArgs
	SentMessages        *MessageIncludeArgs
	ReceivedMessages    *MessageIncludeArgs
	PaymentsMade        *PaymentIncludeArgs
	PaymentsReceived    *PaymentIncludeArgs
	DisputesRaised      *DisputeIncludeArgs
}

func (i *UserInclude) include() builder.Include {
	if i == nil {
		return nil
	}
	inc := builder.Include{}
	if i.PostedAssignments != nil {
		inc["postedAssignments"] = i.PostedAssignments.args()
	}
	if i.AcceptedAssignments != nil {
		inc["acceptedAssignments"] = i.AcceptedAssignments.args()
	}
	if i.Bids != nil {
		inc["bids"] = i.Bids.args()
	}
	if i.Submissions != nil {
		inc["submissions"] = i.Submissions.args()
	}
	if i.ReviewsGiven != nil {
		inc["reviewsGiven"] = i.ReviewsGiven.args()
	}
	if i.ReviewsReceived != nil {
		inc["reviewsReceived"] = i.ReviewsReceived.args()
	}
	if i.SentMessages != nil {
		inc["sentMessages"] = i.SentMessages.args()
	}
	if i.ReceivedMessages != nil {
		inc["receivedMessages"] = i.ReceivedMessages.args()
	}
	if i.PaymentsMade != nil {
		inc["paymentsMade"] = i.PaymentsMade.args()
	}
	if i.PaymentsReceived != nil {
		inc["paymentsReceived"] = i.PaymentsReceived.args()
	}
	if i.DisputesRaised != nil {
		inc["disputesRaised"] = i.DisputesRaised.args()
	}
	return inc
}

// UserIncludeArgs shapes a loaded User relation. The zero value loads all
// related rows; Take, Skip and OrderBy apply to list relations only.
type UserIncludeArgs struct {
	Where   *UserWhereInput
	OrderBy []UserOrderByInput
	Take    *int
	Skip    *int
	Include *UserInclude
}

func (a *UserIncludeArgs) args() *builder.IncludeArgs {
	return &builder.IncludeArgs{
		Where:   a.Where.condition(),
		OrderBy: orderBy(a.OrderBy),
		Take:    a.Take,
		Skip:    a.Skip,
		Include: a.Include.include(),
	}
}

type UserFindManyArgs struct {
	Where    *UserWhereInput
	OrderBy  []UserOrderByInput
	Take     *int
	Skip     *int
	Distinct []UserScalarField
	Include  *UserInclude
}

func (a UserFindManyArgs) args() builder.FindManyArgs {
	return builder.FindManyArgs{
		Where:    a.Where.condition(),
		OrderBy:  orderBy(a.OrderBy),
		Take:     a.Take,
		Skip:     a.Skip,
		Distinct: fieldNames(a.Distinct),
		Include:  a.Include.include(),
	}
}

type UserAggregateArgs struct {
	Where   *UserWhereInput
	OrderBy []UserOrderByInput
	Take    *int
	Skip    *int
	Select  AggregateSelect[UserScalarField]
}

type UserGroupByArgs struct {
	By      []UserScalarField
	Where   *UserWhereInput
	Having  []Having[UserScalarField]
	OrderBy []UserOrderByInput
	Take    *int
	Skip    *int
	Select  AggregateSelect[UserScalarField]
}

// UserDelegate runs the User operations. FindUnique without include is
// served from the client's cache when one is configured; every write drops
// the cached users.
type UserDelegate struct {
	table *builder.Table[User]
	cache *recordCache
}

// Query starts a fluent query on the User table.
func (d *UserDelegate) Query() *builder.Query { return d.table.Query() }

func (d *UserDelegate) FindUnique(ctx context.Context, where UserWhereUniqueInput, include *UserInclude) (*User, error) {
	w := where.where()
	var l *lookup
	if include == nil {
		l = d.cache.lookup(ctx, "User", w)
		var cached User
		if d.cache.get(ctx, l, &cached) {
			return &cached, nil
		}
	}
	rec, err := d.table.FindUnique(ctx, w, include.include())
	if err == nil && rec != nil {
		d.cache.set(ctx, l, rec)
	}
	return rec, err
}

func (d *UserDelegate) FindUniqueOrThrow(ctx context.Context, where UserWhereUniqueInput, include *UserInclude) (*User, error) {
	rec, err := d.FindUnique(ctx, where, include)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, notFound("User")
	}
	return rec, nil
}

func (d *UserDelegate) FindFirst(ctx context.Context, args UserFindManyArgs) (*User, error) {
	return d.table.FindFirst(ctx, args.args())
}

func (d *UserDelegate) FindFirstOrThrow(ctx context.Context, args UserFindManyArgs) (*User, error) {
	return d.table.FindFirstOrThrow(ctx, args.args())
}

func (d *UserDelegate) FindMany(ctx context.Context, args UserFindManyArgs) ([]User, error) {
	return d.table.FindMany(ctx, args.args())
}

func (d *UserDelegate) Count(ctx context.Context, where *UserWhereInput) (int64, error) {
	return d.table.Count(ctx, where.condition())
}

func (d *UserDelegate) Create(ctx context.Context, input UserCreateInput, include *UserInclude) (*User, error) {
	data, err := input.data()
	if err != nil {
		return nil, err
	}
	rec, err := d.table.Create(ctx, data, include.include())
	d.cache.invalidate(ctx, "User", err)
	return rec, err
}

func (d *UserDelegate) CreateMany(ctx context.Context, inputs []UserCreateInput, skipDuplicates bool) (BatchPayload, error) {
	rows := make([]builder.Data, len(inputs))
	for i, input := range inputs {
		data, err := input.data()
		if err != nil {
			return BatchPayload{}, err
		}
		rows[i] = data
	}
	payload, err := d.table.CreateMany(ctx, rows, skipDuplicates)
	d.cache.invalidate(ctx, "User", err)
	return payload, err
}

func (d *UserDelegate) Update(ctx context.Context, where UserWhereUniqueInput, input UserUpdateInput, include *UserInclude) (*User, error) {
	data, err := input.data()
	if err != nil {
		return nil, err
	}
	rec, err := d.table.Update(ctx, where.where(), data, include.include())
	d.cache.invalidate(ctx, "User", err)
	return rec, err
}

func (d *UserDelegate) UpdateMany(ctx context.Context, where *UserWhereInput, input UserUpdateInput) (BatchPayload, error) {
	data, err := input.data()
	if err != nil {
		return BatchPayload{}, err
	}
	payload, err := d.table.UpdateMany(ctx, where.condition(), data)
	d.cache.invalidate(ctx, "User", err)
	return payload, err
}

func (d *UserDelegate) Upsert(ctx context.Context, where UserWhereUniqueInput, create UserCreateInput, update UserUpdateInput, include *UserInclude) (*User, error) {
	createData, err := create.data()
	if err != nil {
		return nil, err
	}
	updateData, err := update.data()
	if err != nil {
		return nil, err
	}
	rec, err := d.table.Upsert(ctx, where.where(), createData, updateData, include.include())
	d.cache.invalidate(ctx, "User", err)
	return rec, err
}

func (d *UserDelegate) Delete(ctx context.Context, where UserWhereUniqueInput, include *UserInclude) (*User, error) {
	rec, err := d.table.Delete(ctx, where.where(), include.include())
	d.cache.invalidate(ctx, "User", err)
	return rec, err
}

func (d *UserDelegate) DeleteMany(ctx context.Context, where *UserWhereInput) (BatchPayload, error) {
	payload, err := d.table.DeleteMany(ctx, where.condition())
	d.cache.invalidate(ctx, "User", err)
	return payload, err
}

func (d *UserDelegate) Aggregate(ctx context.Context, args UserAggregateArgs) (*AggregateResult, error) {
	return d.table.Aggregate(ctx, builder.AggregateArgs{
		Where:   args.Where.condition(),
		OrderBy: orderBy(args.OrderBy),
		Take:    args.Take,
		Skip:    args.Skip,
		Select:  args.Select.selection(),
	})
}

func (d *UserDelegate) GroupBy(ctx context.Context, args UserGroupByArgs) ([]GroupByRow, error) {
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
