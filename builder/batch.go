package builder

import (
	"context"
	"fmt"
	"strings"

	"github.com/carlosnayan/gigboard/internal/errors"
	"github.com/carlosnayan/gigboard/internal/limits"
)

// maxBindVars is SQLite's default limit on bound parameters per statement.
const maxBindVars = 999

// CreateMany inserts rows in chunks of at most limits.MaxBatchSize rows and
// returns the number inserted. With skipDuplicates, rows that violate a
// unique constraint are skipped instead of failing the call. More than one
// chunk runs in a single transaction.
func (t *Table[T]) CreateMany(ctx context.Context, rows []Data, skipDuplicates bool) (BatchPayload, error) {
	const op = "createMany"
	for _, row := range rows {
		if err := validateData(t.model, op, row, true); err != nil {
			return BatchPayload{}, err
		}
	}
	if len(rows) == 0 {
		return BatchPayload{}, nil
	}

	ts := now()
	type group struct {
		cols []string
		rows []Data
	}
	var groups []*group
	bySignature := map[string]*group{}
	for _, row := range rows {
		full := t.withDefaults(row, ts)
		cols := sortedKeys(full)
		sig := strings.Join(cols, ",")
		g, ok := bySignature[sig]
		if !ok {
			g = &group{cols: cols}
			bySignature[sig] = g
			groups = append(groups, g)
		}
		g.rows = append(g.rows, full)
	}

	var stmts []string
	var stmtArgs [][]interface{}
	for _, g := range groups {
		size := limits.MaxBatchSize
		if perStmt := maxBindVars / len(g.cols); perStmt < size {
			size = perStmt
		}
		for start := 0; start < len(g.rows); start += size {
			end := start + size
			if end > len(g.rows) {
				end = len(g.rows)
			}
			stmt, args := t.insertStatement(g.cols, g.rows[start:end], skipDuplicates)
			stmts = append(stmts, stmt)
			stmtArgs = append(stmtArgs, args)
		}
	}

	run := func(ctx context.Context, s *Session) (BatchPayload, error) {
		var total int64
		for i, stmt := range stmts {
			res, err := s.Exec(ctx, t.model.Name, stmt, stmtArgs[i]...)
			if err != nil {
				return BatchPayload{}, err
			}
			total += res.RowsAffected()
		}
		return BatchPayload{Count: total}, nil
	}

	if len(stmts) == 1 || t.session.InTransaction() {
		return run(ctx, t.session)
	}
	var payload BatchPayload
	err := ExecuteTransaction(ctx, t.session, func(ctx context.Context, tx *Transaction) error {
		var err error
		payload, err = run(ctx, tx.Session())
		return err
	})
	return payload, err
}

// UpdateMany applies data to every record matching where and returns the
// number of records changed. @updatedAt fields are refreshed.
func (t *Table[T]) UpdateMany(ctx context.Context, where Condition, data Data) (BatchPayload, error) {
	const op = "updateMany"
	if err := validateCondition(t.model, op, where); err != nil {
		return BatchPayload{}, err
	}
	if len(data) == 0 {
		return BatchPayload{}, errors.Validation(t.model.Name, op, "Argument `data` must not be empty")
	}
	if err := validateData(t.model, op, data, false); err != nil {
		return BatchPayload{}, err
	}

	d := t.session.dialect
	set, args := t.setClause(data, now())
	stmt := fmt.Sprintf("UPDATE %s SET %s", d.QuoteIdentifier(t.model.Name), set)
	if cond, condArgs := And(where).render(d); cond != "" {
		stmt += " WHERE " + cond
		args = append(args, condArgs...)
	}
	res, err := t.session.Exec(ctx, t.model.Name, stmt, args...)
	if err != nil {
		return BatchPayload{}, err
	}
	return BatchPayload{Count: res.RowsAffected()}, nil
}

// DeleteMany removes every record matching where. A nil where deletes all
// records.
func (t *Table[T]) DeleteMany(ctx context.Context, where Condition) (BatchPayload, error) {
	if err := validateCondition(t.model, "deleteMany", where); err != nil {
		return BatchPayload{}, err
	}

	d := t.session.dialect
	stmt := "DELETE FROM " + d.QuoteIdentifier(t.model.Name)
	var args []interface{}
	if cond, condArgs := And(where).render(d); cond != "" {
		stmt += " WHERE " + cond
		args = condArgs
	}
	res, err := t.session.Exec(ctx, t.model.Name, stmt, args...)
	if err != nil {
		return BatchPayload{}, err
	}
	return BatchPayload{Count: res.RowsAffected()}, nil
}
