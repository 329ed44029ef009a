package db

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	testutil "github.com/carlosnayan/gigboard/internal/testing"
)

func setupClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	conn, d := testutil.SetupSchemaDB(t, "sqlite", Schema)
	return NewClient(conn, append([]Option{WithDialect(d)}, opts...)...)
}

func mkUser(t *testing.T, c *Client, handle string) *User {
	t.Helper()
	u, err := c.User.Create(context.Background(), UserCreateInput{
		ClerkID: "user_" + handle,
		Email:   handle + "@example.com",
		Name:    Ptr(handle),
	}, nil)
	require.NoError(t, err)
	return u
}

func mkAssignment(t *testing.T, c *Client, poster *User, title string, budget float64) *Assignment {
	t.Helper()
	a, err := c.Assignment.Create(context.Background(), AssignmentCreateInput{
		Title:       title,
		Slug:        fmt.Sprintf("%s-%d", title, time.Now().UnixNano()),
		Description: "Description of " + title,
		Budget:      budget,
		Deadline:    time.Now().UTC().Add(72 * time.Hour).Truncate(time.Second),
		PosterID:    poster.ID,
	}, nil)
	require.NoError(t, err)
	return a
}

func mkBid(t *testing.T, c *Client, a *Assignment, bidder *User, amount float64) *Bid {
	t.Helper()
	b, err := c.Bid.Create(context.Background(), BidCreateInput{
		Amount:       amount,
		AssignmentID: a.ID,
		BidderID:     bidder.ID,
	}, nil)
	require.NoError(t, err)
	return b
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = id(it)
	}
	return out
}

func assignmentID(a Assignment) string { return a.ID }
