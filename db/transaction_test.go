package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlosnayan/gigboard/internal/driver"
	testutil "github.com/carlosnayan/gigboard/internal/testing"
)

func TestTransaction_CommitAndRollback(t *testing.T) {
	c := setupClient(t)
	ctx := context.Background()
	poster, worker := mkUser(t, c, "poster"), mkUser(t, c, "worker")
	a := mkAssignment(t, c, poster, "job", 100)
	b := mkBid(t, c, a, worker, 90)

	err := c.Transaction(ctx, func(ctx context.Context, tx *Client) error {
		assert.True(t, tx.InTransaction())
		if _, err := tx.Bid.Update(ctx, BidWhereUniqueInput{ID: &b.ID}, BidUpdateInput{Accepted: Ptr(true)}, nil); err != nil {
			return err
		}
		_, err := tx.Assignment.Update(ctx, AssignmentWhereUniqueInput{ID: &a.ID}, AssignmentUpdateInput{
			Status:        Ptr(AssignmentStatusInProgress),
			WorkerID:      NullableOf(worker.ID),
			AcceptedBidID: NullableOf(b.ID),
		}, nil)
		return err
	})
	require.NoError(t, err)

	got, err := c.Assignment.FindUniqueOrThrow(ctx, AssignmentWhereUniqueInput{ID: &a.ID}, &AssignmentInclude{Worker: &UserIncludeArgs{}})
	require.NoError(t, err)
	assert.Equal(t, AssignmentStatusInProgress, got.Status)
	require.NotNil(t, got.Worker)
	assert.Equal(t, worker.ID, got.Worker.ID)

	err = c.Transaction(ctx, func(ctx context.Context, tx *Client) error {
		if _, err := tx.Assignment.Update(ctx, AssignmentWhereUniqueInput{ID: &a.ID}, AssignmentUpdateInput{Status: Ptr(AssignmentStatusCancelled)}, nil); err != nil {
			return err
		}
		_, err := tx.Bid.Create(ctx, BidCreateInput{Amount: 1, AssignmentID: a.ID, BidderID: worker.ID}, nil)
		return err
	})
	assert.True(t, IsUniqueConstraint(err))

	got, err = c.Assignment.FindUniqueOrThrow(ctx, AssignmentWhereUniqueInput{ID: &a.ID}, nil)
	require.NoError(t, err)
	assert.Equal(t, AssignmentStatusInProgress, got.Status, "rolled back")
}

func TestTransaction_Nested(t *testing.T) {
	c := setupClient(t)
	err := c.Transaction(context.Background(), func(ctx context.Context, tx *Client) error {
		assert.NoError(t, tx.Disconnect(), "a transaction client does not own the connection")
		return tx.Transaction(ctx, func(context.Context, *Client) error { return nil })
	})
	assert.Equal(t, "P2028", ErrorCode(err))
	require.NoError(t, c.Ping(context.Background()))
}

func TestTransaction_Panic(t *testing.T) {
	c := setupClient(t)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = c.Transaction(ctx, func(ctx context.Context, tx *Client) error {
			mkUser(t, tx, "ghost")
			panic("boom")
		})
	})
	n, err := c.User.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTransactionBatch(t *testing.T) {
	c := setupClient(t)
	ctx := context.Background()
	poster := mkUser(t, c, "poster")

	create := func(email string) TxOperation {
		return func(ctx context.Context, tx *Client) error {
			_, err := tx.User.Create(ctx, UserCreateInput{ClerkID: "user_" + email, Email: email}, nil)
			return err
		}
	}

	require.NoError(t, c.TransactionBatch(ctx, create("one@example.com"), create("two@example.com")))

	err := c.TransactionBatch(ctx,
		create("three@example.com"),
		create(poster.Email),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "operation 1")
	assert.True(t, IsUniqueConstraint(err))

	n, err := c.User.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

// bareDB hides the Ping and Close methods of the adapter it wraps.
type bareDB struct{ driver.DB }

func TestClient_PingAndDisconnect(t *testing.T) {
	ctx := context.Background()
	conn, d := testutil.SetupSchemaDB(t, "sqlite", Schema)

	bare := NewClient(bareDB{conn}, WithDialect(d))
	require.NoError(t, bare.Ping(ctx), "falls back to a query")
	require.NoError(t, bare.Disconnect(), "nothing to close")
	require.NoError(t, bare.Ping(ctx))

	c := NewClient(conn, WithDialect(d))
	require.NoError(t, c.Ping(ctx))
	require.NoError(t, c.Disconnect())
	assert.Error(t, c.Ping(ctx), "the pool is closed")
}
