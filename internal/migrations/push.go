package migrations

import (
	"context"
	"fmt"

	contextutil "github.com/carlosnayan/gigboard/internal/context"
	"github.com/carlosnayan/gigboard/internal/dialect"
	"github.com/carlosnayan/gigboard/internal/driver"
	"github.com/carlosnayan/gigboard/internal/logger"
	"github.com/carlosnayan/gigboard/schema"
)

// PushOptions controls Push.
type PushOptions struct {
	// DryRun computes the statements without executing them.
	DryRun bool
	// ForceReset drops the schema's tables before pushing. Data is lost.
	ForceReset bool
}

// PushResult reports what Push did or, for a dry run, would do.
type PushResult struct {
	Diff       *SchemaDiff
	Statements []string
	Applied    bool
}

// Push brings the database in line with s without migration files: missing
// tables, columns and indexes are created. On PostgreSQL and SQLite the
// statements run in one transaction.
func Push(ctx context.Context, db driver.DB, s *schema.Schema, d dialect.Dialect, opts PushOptions) (*PushResult, error) {
	ctx, cancel := contextutil.WithMigrationTimeout(ctx)
	defer cancel()
	log := logger.GetDefaultLogger()

	if opts.ForceReset && !opts.DryRun {
		if err := Reset(ctx, db, s, d); err != nil {
			return nil, err
		}
	}

	current, err := Introspect(ctx, db, d)
	if err != nil {
		return nil, err
	}
	if opts.ForceReset && opts.DryRun {
		current = &DatabaseSchema{Tables: map[string]*TableInfo{}}
	}
	diff, err := Diff(s, current, d)
	if err != nil {
		return nil, err
	}
	result := &PushResult{Diff: diff, Statements: diff.Statements(d)}
	if opts.DryRun || len(result.Statements) == 0 {
		return result, nil
	}

	if err := execStatements(ctx, db, d, result.Statements); err != nil {
		return nil, err
	}
	for _, t := range diff.TablesToCreate {
		log.Info("created table %s", t.Name)
	}
	for _, alter := range diff.TablesToAlter {
		log.Info("added %d column(s) to %s", len(alter.AddColumns), alter.TableName)
	}
	result.Applied = true
	return result, nil
}

// Reset drops every table of s, dependents first.
func Reset(ctx context.Context, db driver.DB, s *schema.Schema, d dialect.Dialect) error {
	order, err := dependencyOrder(s)
	if err != nil {
		return err
	}
	stmts := make([]string, 0, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		stmts = append(stmts, DropTableSQL(d, order[i]))
	}
	return execStatements(ctx, db, d, stmts)
}

func execStatements(ctx context.Context, db driver.DB, d dialect.Dialect, stmts []string) error {
	if d.Name() == "mysql" {
		// DDL commits implicitly in MySQL
		for _, stmt := range stmts {
			if _, err := db.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to execute %q: %w", firstLine(stmt), err)
			}
		}
		return nil
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("failed to execute %q: %w", firstLine(stmt), err)
		}
	}
	return tx.Commit(ctx)
}

func firstLine(stmt string) string {
	for i, c := range stmt {
		if c == '\n' {
			return stmt[:i]
		}
	}
	return stmt
}
