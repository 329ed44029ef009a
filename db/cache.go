package db

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/carlosnayan/gigboard/builder"
	"github.com/carlosnayan/gigboard/internal/cache"
	"github.com/carlosnayan/gigboard/internal/logger"
)

// recordCache serves unique lookups from a cache.Store. Entry keys embed a
// generation stored next to them; a write replaces the generation, which
// orphans every cached record of the model at once, whatever unique field
// the record was cached under. Orphans expire with their TTL.
type recordCache struct {
	store cache.Store
	ttl   time.Duration

	// writes is non-nil on transaction clients: reads bypass the cache and
	// writes are only recorded, then applied after commit.
	writes *txWrites
}

// txWrites records the models written by a transaction.
type txWrites struct {
	mu     sync.Mutex
	models map[string]bool
}

func (w *txWrites) add(model string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.models == nil {
		w.models = make(map[string]bool)
	}
	w.models[model] = true
}

func (w *txWrites) list() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.models))
	for m := range w.models {
		out = append(out, m)
	}
	return out
}

func (c *recordCache) inTx(w *txWrites) *recordCache {
	if c == nil {
		return nil
	}
	return &recordCache{store: c.store, ttl: c.ttl, writes: w}
}

func generationKey(model string) string {
	return cache.Key(model, "_generation", "")
}

func (c *recordCache) generation(ctx context.Context, model string) (string, bool) {
	gen := "0"
	if _, err := c.store.Get(ctx, generationKey(model), &gen); err != nil {
		logger.GetDefaultLogger().Warn("cache: read %s generation: %v", model, err)
		return "", false
	}
	return gen, true
}

// lookup is one cached read of a unique selector. The key is pinned to the
// generation seen before the database was read, so a fill racing with a
// write lands on an orphaned key.
type lookup struct {
	model string
	gen   string
	key   string
}

// lookup returns nil when where cannot be cached.
func (c *recordCache) lookup(ctx context.Context, model string, where builder.Where) *lookup {
	if c == nil || c.writes != nil || len(where) != 1 {
		return nil
	}
	gen, ok := c.generation(ctx, model)
	if !ok {
		return nil
	}
	for field, value := range where {
		return &lookup{model: model, gen: gen, key: cache.Key(model+"@"+gen, field, value)}
	}
	return nil
}

// get reports whether the record of l was cached and decoded into dst.
func (c *recordCache) get(ctx context.Context, l *lookup, dst interface{}) bool {
	if c == nil || l == nil {
		return false
	}
	found, err := c.store.Get(ctx, l.key, dst)
	if err != nil {
		logger.GetDefaultLogger().Warn("cache: get %s: %v", l.key, err)
		return false
	}
	return found
}

// set fills l with value read from the database. Nothing is stored when the
// model was written since l was taken.
func (c *recordCache) set(ctx context.Context, l *lookup, value interface{}) {
	if c == nil || l == nil {
		return
	}
	if gen, ok := c.generation(ctx, l.model); !ok || gen != l.gen {
		return
	}
	if err := c.store.Set(ctx, l.key, value, c.ttl); err != nil {
		logger.GetDefaultLogger().Warn("cache: set %s: %v", l.key, err)
	}
}

// invalidate drops the cached records of model after a write. A failed
// write changed nothing.
func (c *recordCache) invalidate(ctx context.Context, model string, err error) {
	if c == nil || err != nil {
		return
	}
	if c.writes != nil {
		c.writes.add(model)
		return
	}
	c.bump(ctx, model)
}

// committed applies the writes of a committed transaction.
func (c *recordCache) committed(ctx context.Context, w *txWrites) {
	if c == nil {
		return
	}
	for _, model := range w.list() {
		c.bump(ctx, model)
	}
}

func (c *recordCache) bump(ctx context.Context, model string) {
	if err := c.store.Set(ctx, generationKey(model), uuid.NewString(), c.ttl); err != nil {
		// entries of the old generation may be served until they expire
		logger.GetDefaultLogger().Error("cache: invalidate %s: %v", model, err)
	}
}
