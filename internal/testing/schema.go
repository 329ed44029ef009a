package testing

import (
	"context"
	"testing"
	"time"

	"github.com/carlosnayan/gigboard/internal/dialect"
	"github.com/carlosnayan/gigboard/internal/driver"
	"github.com/carlosnayan/gigboard/internal/migrations"
	"github.com/carlosnayan/gigboard/schema"
)

// SetupSchemaDB creates a test database for provider and pushes s to it.
func SetupSchemaDB(t *testing.T, provider string, s *schema.Schema) (driver.DB, dialect.Dialect) {
	t.Helper()
	SkipIfNoDatabase(t, provider)
	db := SetupTestDB(t, provider)
	d := dialect.GetDialect(provider)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := migrations.Push(ctx, db, s, d, migrations.PushOptions{}); err != nil {
		t.Fatalf("failed to push schema: %v", err)
	}
	return db, d
}

// CleanTestData deletes every row of the schema's tables, dependents first.
func CleanTestData(t *testing.T, db driver.DB, s *schema.Schema, d dialect.Dialect) {
	t.Helper()
	tables, err := migrations.TablesFromSchema(s, d)
	if err != nil {
		t.Fatalf("invalid schema: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := db.Exec(ctx, "DELETE FROM "+d.QuoteIdentifier(tables[i].Name)); err != nil {
			t.Fatalf("failed to clean %s: %v", tables[i].Name, err)
		}
	}
}

// WithTestTransaction runs fn in a transaction that is always rolled back.
func WithTestTransaction(t *testing.T, db driver.DB, fn func(tx driver.Tx)) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tx, err := db.Begin(ctx)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
		if err := tx.Rollback(ctx); err != nil {
			t.Logf("warning: failed to rollback transaction: %v", err)
		}
	}()
	fn(tx)
}
