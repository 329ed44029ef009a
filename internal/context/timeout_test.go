package contextutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigureKeepsZeroValues(t *testing.T) {
	q, tx, m := Timeouts()
	t.Cleanup(func() { Configure(q, tx, m) })

	Configure(time.Second, 0, 0)
	gotQ, gotTx, gotM := Timeouts()
	assert.Equal(t, time.Second, gotQ)
	assert.Equal(t, tx, gotTx)
	assert.Equal(t, m, gotM)
}

func TestWithQueryTimeout_ParentDeadlineWins(t *testing.T) {
	parent, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	ctx, cancelQ := WithQueryTimeout(parent)
	defer cancelQ()

	dl, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(10*time.Millisecond), dl, 50*time.Millisecond)
}

func TestWithTransactionTimeout(t *testing.T) {
	ctx, cancel := WithTransactionTimeout(context.Background())
	defer cancel()
	_, tx, _ := Timeouts()
	dl, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(tx), dl, time.Second)
}
