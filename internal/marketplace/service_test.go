package marketplace

import (
	"bytes"
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlosnayan/gigboard/db"
	"github.com/carlosnayan/gigboard/internal/logger"
	testutil "github.com/carlosnayan/gigboard/internal/testing"
)

type fixture struct {
	client *db.Client
	svc    *Service
	logs   *bytes.Buffer
	ctx    context.Context
}

func setup(t *testing.T) *fixture {
	t.Helper()
	conn, d := testutil.SetupSchemaDB(t, "sqlite", db.Schema)
	client := db.NewClient(conn, db.WithDialect(d))
	logs := &bytes.Buffer{}
	return &fixture{
		client: client,
		svc:    New(client, WithLogger(logger.NewLogger([]string{"info", "warn", "error"}, logs))),
		logs:   logs,
		ctx:    context.Background(),
	}
}

func (f *fixture) user(t *testing.T, handle string) *db.User {
	t.Helper()
	u, err := f.svc.RegisterUser(f.ctx, RegisterUserInput{
		ClerkID: "user_" + handle,
		Email:   handle + "@example.com",
		Name:    db.Ptr(handle),
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) post(t *testing.T, poster *db.User, title string, budget float64) *db.Assignment {
	t.Helper()
	a, err := f.svc.PostAssignment(f.ctx, PostAssignmentInput{
		PosterID:    poster.ID,
		Title:       title,
		Description: "Please do " + title,
		Budget:      budget,
		Deadline:    time.Now().Add(7 * 24 * time.Hour),
	})
	require.NoError(t, err)
	return a
}

func (f *fixture) bid(t *testing.T, a *db.Assignment, bidder *db.User, amount float64) *db.Bid {
	t.Helper()
	b, err := f.svc.PlaceBid(f.ctx, PlaceBidInput{AssignmentID: a.ID, BidderID: bidder.ID, Amount: amount})
	require.NoError(t, err)
	return b
}

// inProgress posts an assignment and accepts a bid of amount from worker.
func (f *fixture) inProgress(t *testing.T, poster, worker *db.User, amount float64) *db.Assignment {
	t.Helper()
	a := f.post(t, poster, "Essay on Go", amount+50)
	b := f.bid(t, a, worker, amount)
	a, err := f.svc.AcceptBid(f.ctx, a.ID, b.ID, poster.ID)
	require.NoError(t, err)
	return a
}

func (f *fixture) status(t *testing.T, a *db.Assignment) (db.AssignmentStatus, db.PaymentStatus) {
	t.Helper()
	got, err := f.client.Assignment.FindUniqueOrThrow(f.ctx, db.AssignmentWhereUniqueInput{ID: &a.ID}, &db.AssignmentInclude{Payment: &db.PaymentIncludeArgs{}})
	require.NoError(t, err)
	if got.Payment == nil {
		return got.Status, ""
	}
	return got.Status, got.Payment.Status
}

func TestRegisterUser_Upserts(t *testing.T) {
	f := setup(t)
	u := f.user(t, "ada")

	again, err := f.svc.RegisterUser(f.ctx, RegisterUserInput{ClerkID: "user_ada", Email: "ada@new.example.com", Name: db.Ptr("Ada L.")})
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)
	assert.Equal(t, "ada@new.example.com", again.Email)
	assert.Equal(t, "Ada L.", *again.Name)

	_, err = f.svc.RegisterUser(f.ctx, RegisterUserInput{Email: "x@example.com"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPostAssignment(t *testing.T) {
	f := setup(t)
	poster := f.user(t, "poster")

	a := f.post(t, poster, "Calculus Problem Set 3", 80)
	assert.Regexp(t, regexp.MustCompile(`^calculus-problem-set-3-[0-9a-f]{8}$`), a.Slug)
	assert.Equal(t, db.AssignmentStatusOpen, a.Status)
	assert.Contains(t, f.logs.String(), "posted by")

	other := f.post(t, poster, "Calculus Problem Set 3", 80)
	assert.NotEqual(t, a.Slug, other.Slug)

	tests := []struct {
		name string
		in   PostAssignmentInput
	}{
		{"blank title", PostAssignmentInput{PosterID: poster.ID, Title: "  ", Description: "d", Budget: 1, Deadline: time.Now().Add(time.Hour)}},
		{"zero budget", PostAssignmentInput{PosterID: poster.ID, Title: "Lab", Description: "d", Deadline: time.Now().Add(time.Hour)}},
		{"past deadline", PostAssignmentInput{PosterID: poster.ID, Title: "Lab", Description: "d", Budget: 1, Deadline: time.Now().Add(-time.Hour)}},
		{"no description", PostAssignmentInput{PosterID: poster.ID, Title: "Lab", Budget: 1, Deadline: time.Now().Add(time.Hour)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.PostAssignment(f.ctx, tt.in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	_, err := f.svc.PostAssignment(f.ctx, PostAssignmentInput{PosterID: "ghost", Title: "Lab", Description: "d", Budget: 1, Deadline: time.Now().Add(time.Hour)})
	assert.True(t, db.IsNotFound(err))
}

func TestPlaceBid(t *testing.T) {
	f := setup(t)
	poster, worker := f.user(t, "poster"), f.user(t, "worker")
	a := f.post(t, poster, "Lab report", 100)

	b := f.bid(t, a, worker, 90)
	assert.False(t, b.Accepted)

	_, err := f.svc.PlaceBid(f.ctx, PlaceBidInput{AssignmentID: a.ID, BidderID: worker.ID, Amount: 85})
	assert.ErrorIs(t, err, ErrDuplicateBid)

	_, err = f.svc.PlaceBid(f.ctx, PlaceBidInput{AssignmentID: a.ID, BidderID: poster.ID, Amount: 85})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.PlaceBid(f.ctx, PlaceBidInput{AssignmentID: a.ID, BidderID: f.user(t, "late").ID, Amount: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.PlaceBid(f.ctx, PlaceBidInput{AssignmentID: "missing", BidderID: worker.ID, Amount: 10})
	assert.True(t, db.IsNotFound(err))

	require.NoError(t, f.svc.CancelAssignment(f.ctx, a.ID, poster.ID))
	_, err = f.svc.PlaceBid(f.ctx, PlaceBidInput{AssignmentID: a.ID, BidderID: f.user(t, "closed").ID, Amount: 10})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestPlaceBid_AfterAccept(t *testing.T) {
	f := setup(t)
	poster, worker := f.user(t, "poster"), f.user(t, "worker")
	a := f.inProgress(t, poster, worker, 50)

	_, err := f.svc.PlaceBid(f.ctx, PlaceBidInput{AssignmentID: a.ID, BidderID: f.user(t, "late").ID, Amount: 40})
	assert.ErrorIs(t, err, ErrInvalidState)

	n, err := f.client.Bid.Count(f.ctx, &db.BidWhereInput{AssignmentID: &db.StringFilter{Equals: &a.ID}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestAssignmentLookup_InTransaction(t *testing.T) {
	f := setup(t)
	a := f.post(t, f.user(t, "poster"), "Lab report", 100)

	err := f.client.Transaction(f.ctx, func(ctx context.Context, tx *db.Client) error {
		got, err := f.svc.assignment(ctx, tx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, a.ID, got.ID)
		assert.Equal(t, db.AssignmentStatusOpen, got.Status)
		assert.Equal(t, a.PosterID, got.PosterID)

		_, err = f.svc.assignment(ctx, tx, "missing")
		assert.True(t, db.IsNotFound(err))
		return nil
	})
	require.NoError(t, err)
}

func TestWithdrawBid(t *testing.T) {
	f := setup(t)
	poster, w1, w2 := f.user(t, "poster"), f.user(t, "w1"), f.user(t, "w2")
	a := f.post(t, poster, "Slides", 60)
	b1 := f.bid(t, a, w1, 50)
	b2 := f.bid(t, a, w2, 55)

	assert.ErrorIs(t, f.svc.WithdrawBid(f.ctx, b1.ID, w2.ID), ErrForbidden)
	require.NoError(t, f.svc.WithdrawBid(f.ctx, b1.ID, w1.ID))
	assert.True(t, db.IsNotFound(f.svc.WithdrawBid(f.ctx, b1.ID, w1.ID)))

	_, err := f.svc.AcceptBid(f.ctx, a.ID, b2.ID, poster.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, f.svc.WithdrawBid(f.ctx, b2.ID, w2.ID), ErrInvalidState)
}

func TestAcceptBid_EscrowsPayment(t *testing.T) {
	f := setup(t)
	poster, w1, w2 := f.user(t, "poster"), f.user(t, "w1"), f.user(t, "w2")
	a := f.post(t, poster, "Thesis chapter", 400)
	f.bid(t, a, w1, 380)
	b2 := f.bid(t, a, w2, 350)

	_, err := f.svc.AcceptBid(f.ctx, a.ID, b2.ID, w1.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := f.svc.AcceptBid(f.ctx, a.ID, b2.ID, poster.ID)
	require.NoError(t, err)
	assert.Equal(t, db.AssignmentStatusInProgress, got.Status)
	require.NotNil(t, got.WorkerID)
	assert.Equal(t, w2.ID, *got.WorkerID)
	assert.Equal(t, b2.ID, *got.AcceptedBidID)
	require.NotNil(t, got.Payment)
	assert.Equal(t, db.PaymentStatusEscrowed, got.Payment.Status)
	assert.InDelta(t, 350.0, got.Payment.Amount, 1e-9)
	assert.Equal(t, poster.ID, got.Payment.PayerID)
	assert.Equal(t, w2.ID, got.Payment.PayeeID)

	accepted, err := f.client.Bid.FindUniqueOrThrow(f.ctx, db.BidWhereUniqueInput{ID: &b2.ID}, nil)
	require.NoError(t, err)
	assert.True(t, accepted.Accepted)

	_, err = f.svc.AcceptBid(f.ctx, a.ID, b2.ID, poster.ID)
	assert.ErrorIs(t, err, ErrInvalidState, "already in progress")

	other := f.post(t, poster, "Other", 10)
	_, err = f.svc.AcceptBid(f.ctx, other.ID, b2.ID, poster.ID)
	assert.ErrorIs(t, err, ErrInvalidInput, "bid of another assignment")
}

func TestSubmitApproveFlow(t *testing.T) {
	f := setup(t)
	poster, worker := f.user(t, "poster"), f.user(t, "worker")
	a := f.inProgress(t, poster, worker, 120)

	_, err := f.svc.SubmitWork(f.ctx, SubmitWorkInput{AssignmentID: a.ID, WorkerID: poster.ID, Content: "x"})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.SubmitWork(f.ctx, SubmitWorkInput{AssignmentID: a.ID, WorkerID: worker.ID, Content: " "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	sub, err := f.svc.SubmitWork(f.ctx, SubmitWorkInput{AssignmentID: a.ID, WorkerID: worker.ID, Content: "draft", FileURL: db.Ptr("https://files.example.com/draft.pdf")})
	require.NoError(t, err)
	assert.Equal(t, worker.ID, sub.WorkerID)

	assert.ErrorIs(t, f.svc.ApproveSubmission(f.ctx, a.ID, worker.ID), ErrForbidden)
	require.NoError(t, f.svc.RequestRevision(f.ctx, a.ID, poster.ID))
	st, _ := f.status(t, a)
	assert.Equal(t, db.AssignmentStatusInProgress, st)

	_, err = f.svc.SubmitWork(f.ctx, SubmitWorkInput{AssignmentID: a.ID, WorkerID: worker.ID, Content: "final"})
	require.NoError(t, err)
	require.NoError(t, f.svc.ApproveSubmission(f.ctx, a.ID, poster.ID))

	st, pay := f.status(t, a)
	assert.Equal(t, db.AssignmentStatusCompleted, st)
	assert.Equal(t, db.PaymentStatusReleased, pay)
	assert.ErrorIs(t, f.svc.ApproveSubmission(f.ctx, a.ID, poster.ID), ErrInvalidState)

	detail, err := f.svc.AssignmentDetail(f.ctx, a.Slug)
	require.NoError(t, err)
	require.Len(t, detail.Submissions, 2)
	assert.NotNil(t, detail.Worker)
}

func TestCancelAssignment(t *testing.T) {
	f := setup(t)
	poster, worker := f.user(t, "poster"), f.user(t, "worker")

	open := f.post(t, poster, "Open one", 30)
	assert.ErrorIs(t, f.svc.CancelAssignment(f.ctx, open.ID, worker.ID), ErrForbidden)
	require.NoError(t, f.svc.CancelAssignment(f.ctx, open.ID, poster.ID))
	st, pay := f.status(t, open)
	assert.Equal(t, db.AssignmentStatusCancelled, st)
	assert.Empty(t, pay)
	assert.ErrorIs(t, f.svc.CancelAssignment(f.ctx, open.ID, poster.ID), ErrInvalidState)

	running := f.inProgress(t, poster, worker, 40)
	require.NoError(t, f.svc.CancelAssignment(f.ctx, running.ID, poster.ID))
	st, pay = f.status(t, running)
	assert.Equal(t, db.AssignmentStatusCancelled, st)
	assert.Equal(t, db.PaymentStatusRefunded, pay)
}

func TestLeaveReview_UpdatesRating(t *testing.T) {
	f := setup(t)
	poster, worker := f.user(t, "poster"), f.user(t, "worker")

	complete := func() *db.Assignment {
		a := f.inProgress(t, poster, worker, 10)
		_, err := f.svc.SubmitWork(f.ctx, SubmitWorkInput{AssignmentID: a.ID, WorkerID: worker.ID, Content: "done"})
		require.NoError(t, err)
		require.NoError(t, f.svc.ApproveSubmission(f.ctx, a.ID, poster.ID))
		return a
	}

	pending := f.inProgress(t, poster, worker, 10)
	_, err := f.svc.LeaveReview(f.ctx, LeaveReviewInput{AssignmentID: pending.ID, ReviewerID: poster.ID, Rating: 5})
	assert.ErrorIs(t, err, ErrInvalidState)

	first := complete()
	r, err := f.svc.LeaveReview(f.ctx, LeaveReviewInput{AssignmentID: first.ID, ReviewerID: poster.ID, Rating: 5, Comment: db.Ptr("great")})
	require.NoError(t, err)
	assert.Equal(t, worker.ID, r.RevieweeID)

	_, err = f.svc.LeaveReview(f.ctx, LeaveReviewInput{AssignmentID: first.ID, ReviewerID: poster.ID, Rating: 1})
	assert.ErrorIs(t, err, ErrDuplicateReview)
	_, err = f.svc.LeaveReview(f.ctx, LeaveReviewInput{AssignmentID: first.ID, ReviewerID: f.user(t, "stranger").ID, Rating: 3})
	assert.ErrorIs(t, err, ErrNotParticipant)
	_, err = f.svc.LeaveReview(f.ctx, LeaveReviewInput{AssignmentID: first.ID, ReviewerID: worker.ID, Rating: 6})
	assert.ErrorIs(t, err, ErrInvalidInput)

	second := complete()
	_, err = f.svc.LeaveReview(f.ctx, LeaveReviewInput{AssignmentID: second.ID, ReviewerID: poster.ID, Rating: 4})
	require.NoError(t, err)
	_, err = f.svc.LeaveReview(f.ctx, LeaveReviewInput{AssignmentID: second.ID, ReviewerID: worker.ID, Rating: 2})
	require.NoError(t, err)

	w, err := f.client.User.FindUniqueOrThrow(f.ctx, db.UserWhereUniqueInput{ID: &worker.ID}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, w.Rating, 1e-9)
	p, err := f.client.User.FindUniqueOrThrow(f.ctx, db.UserWhereUniqueInput{ID: &poster.ID}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, p.Rating, 1e-9)
}

func TestMessaging(t *testing.T) {
	f := setup(t)
	poster, bidder, stranger := f.user(t, "poster"), f.user(t, "bidder"), f.user(t, "stranger")
	a := f.post(t, poster, "Translation", 25)
	f.bid(t, a, bidder, 20)

	_, err := f.svc.SendMessage(f.ctx, SendMessageInput{SenderID: poster.ID, ReceiverID: bidder.ID, AssignmentID: &a.ID, Content: "when can you start?"})
	require.NoError(t, err)
	_, err = f.svc.SendMessage(f.ctx, SendMessageInput{SenderID: bidder.ID, ReceiverID: poster.ID, AssignmentID: &a.ID, Content: "today"})
	require.NoError(t, err)
	_, err = f.svc.SendMessage(f.ctx, SendMessageInput{SenderID: poster.ID, ReceiverID: bidder.ID, Content: "great"})
	require.NoError(t, err)

	_, err = f.svc.SendMessage(f.ctx, SendMessageInput{SenderID: stranger.ID, ReceiverID: poster.ID, AssignmentID: &a.ID, Content: "hi"})
	assert.ErrorIs(t, err, ErrNotParticipant)
	_, err = f.svc.SendMessage(f.ctx, SendMessageInput{SenderID: poster.ID, ReceiverID: poster.ID, Content: "me"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.svc.SendMessage(f.ctx, SendMessageInput{SenderID: poster.ID, ReceiverID: bidder.ID, Content: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	conv, err := f.svc.Conversation(f.ctx, bidder.ID, poster.ID, 0)
	require.NoError(t, err)
	var contents []string
	for _, m := range conv {
		contents = append(contents, m.Content)
	}
	assert.ElementsMatch(t, []string{"when can you start?", "today", "great"}, contents)

	unread, err := f.svc.UnreadCount(f.ctx, bidder.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	n, err := f.svc.MarkConversationRead(f.ctx, bidder.ID, poster.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	unread, err = f.svc.UnreadCount(f.ctx, bidder.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestDisputes(t *testing.T) {
	f := setup(t)
	poster, worker := f.user(t, "poster"), f.user(t, "worker")

	t.Run("resolve with refund", func(t *testing.T) {
		a := f.inProgress(t, poster, worker, 70)
		_, err := f.svc.OpenDispute(f.ctx, OpenDisputeInput{AssignmentID: a.ID, RaisedByID: f.user(t, "outsider").ID, Reason: "?"})
		assert.ErrorIs(t, err, ErrNotParticipant)

		d, err := f.svc.OpenDispute(f.ctx, OpenDisputeInput{AssignmentID: a.ID, RaisedByID: poster.ID, Reason: "no contact"})
		require.NoError(t, err)
		assert.Equal(t, db.DisputeStatusOpen, d.Status)
		require.NotNil(t, d.PaymentID)
		st, pay := f.status(t, a)
		assert.Equal(t, db.AssignmentStatusDisputed, st)
		assert.Equal(t, db.PaymentStatusDisputed, pay)

		_, err = f.svc.OpenDispute(f.ctx, OpenDisputeInput{AssignmentID: a.ID, RaisedByID: worker.ID, Reason: "me too"})
		assert.ErrorIs(t, err, ErrDisputeOpen)

		reviewed, err := f.svc.ReviewDispute(f.ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, db.DisputeStatusUnderReview, reviewed.Status)

		_, err = f.svc.ResolveDispute(f.ctx, d.ID, Outcome("split"), "")
		assert.ErrorIs(t, err, ErrInvalidInput)

		resolved, err := f.svc.ResolveDispute(f.ctx, d.ID, OutcomeRefund, "worker unresponsive")
		require.NoError(t, err)
		assert.Equal(t, db.DisputeStatusResolved, resolved.Status)
		assert.Equal(t, "worker unresponsive", *resolved.Resolution)
		assert.NotNil(t, resolved.ResolvedAt)
		st, pay = f.status(t, a)
		assert.Equal(t, db.AssignmentStatusCancelled, st)
		assert.Equal(t, db.PaymentStatusRefunded, pay)

		_, err = f.svc.ResolveDispute(f.ctx, d.ID, OutcomeRelease, "")
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("reject restores progress", func(t *testing.T) {
		a := f.inProgress(t, poster, worker, 90)
		_, err := f.svc.SubmitWork(f.ctx, SubmitWorkInput{AssignmentID: a.ID, WorkerID: worker.ID, Content: "work"})
		require.NoError(t, err)
		d, err := f.svc.OpenDispute(f.ctx, OpenDisputeInput{AssignmentID: a.ID, RaisedByID: worker.ID, Reason: "no approval"})
		require.NoError(t, err)

		rejected, err := f.svc.RejectDispute(f.ctx, d.ID, "")
		require.NoError(t, err)
		assert.Equal(t, db.DisputeStatusRejected, rejected.Status)
		st, pay := f.status(t, a)
		assert.Equal(t, db.AssignmentStatusInProgress, st)
		assert.Equal(t, db.PaymentStatusEscrowed, pay)
	})

	t.Run("release completes", func(t *testing.T) {
		a := f.inProgress(t, poster, worker, 30)
		d, err := f.svc.OpenDispute(f.ctx, OpenDisputeInput{AssignmentID: a.ID, RaisedByID: worker.ID, Reason: "paid late"})
		require.NoError(t, err)
		_, err = f.svc.ResolveDispute(f.ctx, d.ID, OutcomeRelease, "work delivered")
		require.NoError(t, err)
		st, pay := f.status(t, a)
		assert.Equal(t, db.AssignmentStatusCompleted, st)
		assert.Equal(t, db.PaymentStatusReleased, pay)
	})

	open := f.post(t, poster, "Not started", 10)
	_, err := f.svc.OpenDispute(f.ctx, OpenDisputeInput{AssignmentID: open.ID, RaisedByID: poster.ID, Reason: "x"})
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Contains(t, f.logs.String(), "opened on assignment")
}

func TestListAssignments(t *testing.T) {
	f := setup(t)
	poster, worker := f.user(t, "poster"), f.user(t, "worker")
	cheap := f.post(t, poster, "Poem analysis", 20)
	f.post(t, poster, "Physics homework", 200)
	f.inProgress(t, poster, worker, 50)

	board, err := f.svc.ListAssignments(f.ctx, ListAssignmentsInput{})
	require.NoError(t, err)
	assert.Len(t, board, 2)

	found, err := f.svc.ListAssignments(f.ctx, ListAssignmentsInput{Search: "POEM", MaxBudget: db.Ptr(100.0)})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, cheap.ID, found[0].ID)
	require.NotNil(t, found[0].Poster)
	assert.Equal(t, poster.ID, found[0].Poster.ID)

	running, err := f.svc.ListAssignments(f.ctx, ListAssignmentsInput{Status: db.Ptr(db.AssignmentStatusInProgress)})
	require.NoError(t, err)
	assert.Len(t, running, 1)
}

func TestStats(t *testing.T) {
	f := setup(t)
	poster, worker := f.user(t, "poster"), f.user(t, "worker")
	f.post(t, poster, "Open", 10)
	f.inProgress(t, poster, worker, 100)
	done := f.inProgress(t, poster, worker, 40)
	_, err := f.svc.SubmitWork(f.ctx, SubmitWorkInput{AssignmentID: done.ID, WorkerID: worker.ID, Content: "x"})
	require.NoError(t, err)
	require.NoError(t, f.svc.ApproveSubmission(f.ctx, done.ID, poster.ID))
	_, err = f.svc.LeaveReview(f.ctx, LeaveReviewInput{AssignmentID: done.ID, ReviewerID: poster.ID, Rating: 4})
	require.NoError(t, err)
	// The poster is rated higher but was never hired.
	_, err = f.svc.LeaveReview(f.ctx, LeaveReviewInput{AssignmentID: done.ID, ReviewerID: worker.ID, Rating: 5})
	require.NoError(t, err)

	check := func(t *testing.T, st *Stats) {
		assert.Equal(t, int64(1), st.Assignments[db.AssignmentStatusOpen])
		assert.Equal(t, int64(1), st.Assignments[db.AssignmentStatusInProgress])
		assert.Equal(t, int64(1), st.Assignments[db.AssignmentStatusCompleted])
		assert.InDelta(t, 100.0, st.Escrowed, 1e-9)
		assert.InDelta(t, 40.0, st.Released, 1e-9)
		assert.Zero(t, st.OpenDispute)
		require.Len(t, st.TopWorkers, 1)
		assert.Equal(t, worker.ID, st.TopWorkers[0].ID)
	}

	st, err := f.svc.Stats(f.ctx, 5)
	require.NoError(t, err)
	check(t, st)

	t.Run("transaction client", func(t *testing.T) {
		err := f.client.Transaction(f.ctx, func(ctx context.Context, tx *db.Client) error {
			st, err := New(tx).Stats(ctx, 5)
			if err != nil {
				return err
			}
			check(t, st)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("nobody hired", func(t *testing.T) {
		f := setup(t)
		f.post(t, f.user(t, "solo"), "Open", 10)
		st, err := f.svc.Stats(f.ctx, 5)
		require.NoError(t, err)
		assert.Empty(t, st.TopWorkers)
	})
}
