package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t,
		`SELECT * FROM "User" WHERE "id" = ? LIMIT 1`,
		Normalize(`SELECT * FROM "User" WHERE "id" = $1 LIMIT 1`))
	assert.Equal(t,
		`SELECT * FROM "Bid" WHERE "assignmentId" IN (...)`,
		Normalize(`SELECT * FROM "Bid" WHERE "assignmentId" IN ($1, $2, $3)`))
	assert.Equal(t,
		"SELECT * FROM `Bid` WHERE `id` IN (...)",
		Normalize("SELECT * FROM `Bid` WHERE `id` IN (?, ?)"))
}

func TestN1Detector_Threshold(t *testing.T) {
	d := NewN1Detector(3, time.Minute)
	for i := 0; i < 2; i++ {
		d.Record(`SELECT * FROM "User" WHERE "id" = $1`, "User")
	}
	assert.Empty(t, d.Check())

	d.Record(`SELECT * FROM "User" WHERE "id" = $1`, "User")
	alerts := d.Check()
	require.Len(t, alerts, 1)
	assert.Equal(t, 3, alerts[0].Count)
	assert.Equal(t, []string{"User"}, alerts[0].Models)
	assert.Contains(t, alerts[0].String(), "possible N+1")
}

func TestN1Detector_WindowExpires(t *testing.T) {
	now := time.Unix(1000, 0)
	d := NewN1Detector(2, time.Second)
	d.now = func() time.Time { return now }

	d.Record("SELECT 1", "User")
	now = now.Add(2 * time.Second)
	d.Record("SELECT 1", "User")
	assert.Empty(t, d.Check(), "the first hit fell out of the window")
}

func TestN1Detector_Eviction(t *testing.T) {
	d := NewN1Detector(1, time.Minute)
	d.maxSize = 2
	d.Record("a", "User")
	d.Record("b", "User")
	d.Record("c", "User")
	assert.Len(t, d.Check(), 2)
}

func TestN1Detector_NilSafe(t *testing.T) {
	var d *N1Detector
	d.Record("SELECT 1", "User")
	assert.Nil(t, d.Check())
}

func TestN1Detector_StartMonitoring(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := NewN1Detector(1, time.Minute)
	d.Record("SELECT 1", "User")

	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan []N1Alert, 1)
	done := d.StartMonitoring(ctx, 5*time.Millisecond, func(a []N1Alert) {
		select {
		case got <- a:
		default:
		}
	})

	select {
	case alerts := <-got:
		assert.Len(t, alerts, 1)
	case <-time.After(time.Second):
		t.Fatal("monitor never reported")
	}
	cancel()
	<-done
}
