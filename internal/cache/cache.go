// Package cache stores decoded records keyed by unique selector so repeated
// FindUnique calls can skip the database.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/carlosnayan/gigboard/internal/config"
)

// Store is a key/value cache of JSON encoded values.
type Store interface {
	// Get decodes the value at key into dst and reports whether it was found.
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	// Set stores value under key. A zero ttl uses the store default.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Key joins the parts of a cache key: model, field and value.
func Key(model, field string, value interface{}) string {
	return strings.Join([]string{model, field, fmt.Sprint(value)}, ":")
}

// New builds the store selected by cfg. A nil config or driver "none"
// returns a nil Store, which callers treat as "no caching".
func New(ctx context.Context, cfg *config.CacheConfig) (Store, error) {
	if cfg == nil {
		return nil, nil
	}
	switch cfg.Driver {
	case "", "none":
		return nil, nil
	case "memory":
		return NewMemoryStore(cfg.MaxEntries, cfg.TTL.Duration), nil
	case "redis":
		return NewRedisStore(ctx, cfg.RedisURL, cfg.TTL.Duration)
	}
	return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
}
