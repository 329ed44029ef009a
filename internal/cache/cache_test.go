package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/carlosnayan/gigboard/internal/config"
)

type cachedUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func TestMemoryStoreGetSet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(10, time.Minute)

	var got cachedUser
	found, err := s.Get(ctx, "User:id:1", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "User:id:1", cachedUser{ID: "1", Email: "a@b.c"}, 0))
	found, err = s.Get(ctx, "User:id:1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, cachedUser{ID: "1", Email: "a@b.c"}, got)

	require.NoError(t, s.Delete(ctx, "User:id:1"))
	found, _ = s.Get(ctx, "User:id:1", &got)
	assert.False(t, found)

	size, hits, misses := s.Stats()
	assert.Equal(t, 0, size)
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(2), misses)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(10, time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "k", 1, time.Second))
	now = now.Add(2 * time.Second)

	var v int
	found, err := s.Get(ctx, "k", &v)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStoreEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(2, time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { now = now.Add(time.Millisecond); return now }

	require.NoError(t, s.Set(ctx, "a", 1, 0))
	require.NoError(t, s.Set(ctx, "b", 2, 0))
	var v int
	_, _ = s.Get(ctx, "a", &v)
	require.NoError(t, s.Set(ctx, "c", 3, 0))

	found, _ := s.Get(ctx, "b", &v)
	assert.False(t, found, "b should have been evicted")
	found, _ = s.Get(ctx, "a", &v)
	assert.True(t, found)
}

func TestMemoryStoreCleanupStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	s := NewMemoryStore(10, time.Minute)
	done := s.StartCleanup(ctx, 10*time.Millisecond)
	cancel()
	<-done
}

func TestKey(t *testing.T) {
	assert.Equal(t, "User:email:a@b.c", Key("User", "email", "a@b.c"))
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = New(ctx, &config.CacheConfig{Driver: "memory", MaxEntries: 5, TTL: config.Duration{Duration: time.Second}})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = New(ctx, &config.CacheConfig{Driver: "memcached"})
	assert.Error(t, err)
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	s, err := NewRedisStore(ctx, url, time.Minute)
	require.NoError(t, err)
	defer s.Close()

	key := "test:" + time.Now().Format(time.RFC3339Nano)
	require.NoError(t, s.Set(ctx, key, cachedUser{ID: "r1"}, 0))

	var got cachedUser
	found, err := s.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "r1", got.ID)

	require.NoError(t, s.Delete(ctx, key))
	found, err = s.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, found)
}
