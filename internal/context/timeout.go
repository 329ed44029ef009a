// Package contextutil bounds database work with deadlines.
package contextutil

import (
	"context"
	"sync"
	"time"
)

var (
	mu                 sync.RWMutex
	queryTimeout       = 5 * time.Second
	transactionTimeout = 30 * time.Second
	migrationTimeout   = 5 * time.Minute
)

// Configure replaces the default timeouts. Zero values keep the current setting.
func Configure(query, transaction, migration time.Duration) {
	mu.Lock()
	defer mu.Unlock()
	if query > 0 {
		queryTimeout = query
	}
	if transaction > 0 {
		transactionTimeout = transaction
	}
	if migration > 0 {
		migrationTimeout = migration
	}
}

// Timeouts returns the current query, transaction and migration timeouts.
func Timeouts() (query, transaction, migration time.Duration) {
	mu.RLock()
	defer mu.RUnlock()
	return queryTimeout, transactionTimeout, migrationTimeout
}

// WithQueryTimeout bounds a single statement. A parent deadline that is
// already shorter wins.
func WithQueryTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	q, _, _ := Timeouts()
	return context.WithTimeout(ctx, q)
}

// WithTransactionTimeout bounds a whole interactive transaction.
func WithTransactionTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	_, tx, _ := Timeouts()
	return context.WithTimeout(ctx, tx)
}

// WithMigrationTimeout bounds schema changes.
func WithMigrationTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	_, _, m := Timeouts()
	return context.WithTimeout(ctx, m)
}
