package db

import (
	"context"

	"github.com/carlosnayan/gigboard/builder"
)

// MessageScalarField names a column of Message.
type MessageScalarField string

const (
	MessageFieldID           MessageScalarField = "id"
	MessageFieldContent      MessageScalarField = "content"
	MessageFieldSenderID     MessageScalarField = "senderId"
	MessageFieldReceiverID   MessageScalarField = "receiverId"
	MessageFieldAssignmentID MessageScalarField = "assignmentId"
	MessageFieldRead         MessageScalarField = "read"
	MessageFieldCreatedAt    MessageScalarField = "createdAt"
)

type MessageOrderByInput = OrderBy[MessageScalarField]

// MessageWhereInput filters Message rows. Field filters and AND are joined with
// AND; a non-nil empty OR matches nothing.
type MessageWhereInput struct {
	ID           *StringFilter
	Content      *StringFilter
	SenderID     *StringFilter
	ReceiverID   *StringFilter
	AssignmentID *StringNullableFilter
	Read         *BoolFilter
	CreatedAt    *DateTimeFilter

	AND []MessageWhereInput
	OR  []MessageWhereInput
	NOT []MessageWhereInput
}

func (w *MessageWhereInput) condition() builder.Condition {
	if w == nil {
		return nil
	}
	var b whereOf
	b.field("id", w.ID)
	b.field("content", w.Content)
	b.field("senderId", w.SenderID)
	b.field("receiverId", w.ReceiverID)
	b.field("assignmentId", w.AssignmentID)
	b.field("read", w.Read)
	b.field("createdAt", w.CreatedAt)
	b.and(conditionsOf(w.AND)...)
	b.or(w.OR != nil, conditionsOf(w.OR)...)
	b.not(conditionsOf(w.NOT)...)
	return b.condition()
}

// MessageWhereUniqueInput selects one Message: set exactly one member.
type MessageWhereUniqueInput struct {
	ID *string
}

func (u MessageWhereUniqueInput) where() builder.Where {
	w := builder.Where{}
	if u.ID != nil {
		w["id"] = *u.ID
	}
	return w
}

type MessageCreateInput struct {
	ID           *string `json:"id"`
	Content      string  `json:"content" validate:"required,max=5000"`
	SenderID     string  `json:"senderId" validate:"required"`
	ReceiverID   string  `json:"receiverId" validate:"required"`
	AssignmentID *string `json:"assignmentId"`
	Read         *bool   `json:"read"`
}

func (c MessageCreateInput) data() (builder.Data, error) {
	if err := builder.ValidateStruct("Message", "create", c); err != nil {
		return nil, err
	}
	d := newData("Message")
	set(d, "id", c.ID)
	d.cols["content"] = c.Content
	d.cols["senderId"] = c.SenderID
	d.cols["receiverId"] = c.ReceiverID
	set(d, "assignmentId", c.AssignmentID)
	set(d, "read", c.Read)
	return d.result()
}

type MessageUpdateInput struct {
	Content      *string `json:"content" validate:"max=5000"`
	SenderID     *string
	ReceiverID   *string
	AssignmentID *Nullable[string]
	Read         *bool
}

func (u MessageUpdateInput) data() (builder.Data, error) {
	if err := builder.ValidateStruct("Message", "update", u); err != nil {
		return nil, err
	}
	d := newData("Message")
	set(d, "content", u.Content)
	set(d, "senderId", u.SenderID)
	set(d, "receiverId", u.ReceiverID)
	setNullable(d, "assignmentId", u.AssignmentID)
	set(d, "read", u.Read)
	return d.result()
}

// MessageInclude names the relations loaded with a Message.
type MessageInclude struct {
	Sender     *UserIncludeArgs
	Receiver   *UserIncludeArgs
	Assignment *AssignmentIncludeArgs
}

func (i *MessageInclude) include() builder.Include {
	if i == nil {
		return nil
	}
	inc := builder.Include{}
	if i.Sender != nil {
		inc["sender"] = i.Sender.args()
	}
	if i.Receiver != nil {
		inc["receiver"] = i.Receiver.args()
	}
	if i.Assignment != nil {
		inc["assignment"] = i.Assignment.args()
	}
	return inc
}

// MessageIncludeArgs shapes a loaded Message relation. The zero value loads all
// related rows; Take, Skip and OrderBy apply to list relations only.
type MessageIncludeArgs struct {
	Where   *MessageWhereInput
	OrderBy []MessageOrderByInput
	Take    *int
	Skip    *int
	Include *MessageInclude
}

func (a *MessageIncludeArgs) args() *builder.IncludeArgs {
	return &builder.IncludeArgs{
		Where:   a.Where.condition(),
		OrderBy: orderBy(a.OrderBy),
		Take:    a.Take,
		Skip:    a.Skip,
		Include: a.Include.include(),
	}
}

type MessageFindManyArgs struct {
	Where    *MessageWhereInput
	OrderBy  []MessageOrderByInput
	Take     *int
	Skip     *int
	Distinct []MessageScalarField
	Include  *MessageInclude
}

func (a MessageFindManyArgs) args() builder.FindManyArgs {
	return builder.FindManyArgs{
		Where:    a.Where.condition(),
		OrderBy:  orderBy(a.OrderBy),
		Take:     a.Take,
		Skip:     a.Skip,
		Distinct: fieldNames(a.Distinct),
		Include:  a.Include.include(),
	}
}

type MessageAggregateArgs struct {
	Where   *MessageWhereInput
	OrderBy []MessageOrderByInput
	Take    *int
	Skip    *int
	Select  AggregateSelect[MessageScalarField]
}

type MessageGroupByArgs struct {
	By      []MessageScalarField
	Where   *MessageWhereInput
	Having  []Having[MessageScalarField]
	OrderBy []MessageOrderByInput
	Take    *int
	Skip    *int
	Select  AggregateSelect[MessageScalarField]
}

// MessageDelegate runs the Message operations.
type MessageDelegate struct {
	table *builder.Table[Message]
}

// Query starts a fluent query on the Message table.
func (d *MessageDelegate) Query() *builder.Query { return d.table.Query() }

func (d *MessageDelegate) FindUnique(ctx context.Context, where MessageWhereUniqueInput, include *MessageInclude) (*Message, error) {
	return d.table.FindUnique(ctx, where.where(), include.include())
}

func (d *MessageDelegate) FindUniqueOrThrow(ctx context.Context, where MessageWhereUniqueInput, include *MessageInclude) (*Message, error) {
	return d.table.FindUniqueOrThrow(ctx, where.where(), include.include())
}

func (d *MessageDelegate) FindFirst(ctx context.Context, args MessageFindManyArgs) (*Message, error) {
	return d.table.FindFirst(ctx, args.args())
}

func (d *MessageDelegate) FindFirstOrThrow(ctx context.Context, args MessageFindManyArgs) (*Message, error) {
	return d.table.FindFirstOrThrow(ctx, args.args())
}

func (d *MessageDelegate) FindMany(ctx context.Context, args MessageFindManyArgs) ([]Message, error) {
	return d.table.FindMany(ctx, args.args())
}

func (d *MessageDelegate) Count(ctx context.Context, where *MessageWhereInput) (int64, error) {
	return d.table.Count(ctx, where.condition())
}

func (d *MessageDelegate) Create(ctx context.Context, input MessageCreateInput, include *MessageInclude) (*Message, error) {
	data, err := input.data()
	if err != nil {
		return nil, err
	}
	return d.table.Create(ctx, data, include.include())
}

func (d *MessageDelegate) CreateMany(ctx context.Context, inputs []MessageCreateInput, skipDuplicates bool) (BatchPayload, error) {
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

func (d *MessageDelegate) Update(ctx context.Context, where MessageWhereUniqueInput, input MessageUpdateInput, include *MessageInclude) (*Message, error) {
	data, err := input.data()
	if err != nil {
		return nil, err
	}
	return d.table.Update(ctx, where.where(), data, include.include())
}

func (d *MessageDelegate) UpdateMany(ctx context.Context, where *MessageWhereInput, input MessageUpdateInput) (BatchPayload, error) {
	data, err := input.data()
	if err != nil {
		return BatchPayload{}, err
	}
	return d.table.UpdateMany(ctx, where.condition(), data)
}

func (d *MessageDelegate) Upsert(ctx context.Context, where MessageWhereUniqueInput, create MessageCreateInput, update MessageUpdateInput, include *MessageInclude) (*Message, error) {
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

func (d *MessageDelegate) Delete(ctx context.Context, where MessageWhereUniqueInput, include *MessageInclude) (*Message, error) {
	return d.table.Delete(ctx, where.where(), include.include())
}

func (d *MessageDelegate) DeleteMany(ctx context.Context, where *MessageWhereInput) (BatchPayload, error) {
	return d.table.DeleteMany(ctx, where.condition())
}

func (d *MessageDelegate) Aggregate(ctx context.Context, args MessageAggregateArgs) (*AggregateResult, error) {
	return d.table.Aggregate(ctx, builder.AggregateArgs{
		Where:   args.Where.condition(),
		OrderBy: orderBy(args.OrderBy),
		Take:    args.Take,
		Skip:    args.Skip,
		Select:  args.Select.selection(),
	})
}

func (d *MessageDelegate) GroupBy(ctx context.Context, args MessageGroupByArgs) ([]GroupByRow, error) {
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
