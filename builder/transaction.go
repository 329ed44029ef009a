package builder

import (
	"context"
	"fmt"

	contextutil "github.com/carlosnayan/gigboard/internal/context"
	"github.com/carlosnayan/gigboard/internal/driver"
	"github.com/carlosnayan/gigboard/internal/errors"
)

// Transaction is an open interactive transaction.
type Transaction struct {
	tx      driver.Tx
	session *Session
}

// TransactionFunc is a function that executes within a transaction. ctx
// carries the transaction deadline and should be passed to every statement.
type TransactionFunc func(ctx context.Context, tx *Transaction) error

// BeginTransaction starts a transaction on the session's pool. ctx bounds
// the whole transaction, not only BEGIN. Starting a transaction from a
// transaction session is a P2028 error.
func BeginTransaction(ctx context.Context, s *Session) (*Transaction, error) {
	if s.InTransaction() {
		return nil, errors.Known(errors.ErrTransaction, "", map[string]interface{}{
			"cause": "Transaction already started, nested transactions are not supported",
		}, nil)
	}
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, errors.Known(errors.ErrTransaction, "", map[string]interface{}{"cause": "failed to begin transaction"}, err)
	}
	return &Transaction{tx: tx, session: s.withTx(tx)}, nil
}

// Session returns the session bound to the transaction. Tables rebound to
// it with WithSession run inside the transaction.
func (t *Transaction) Session() *Session { return t.session }

// Commit commits the transaction
func (t *Transaction) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return errors.MapDriverError(err, "")
	}
	return nil
}

// Rollback rolls back the transaction
func (t *Transaction) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// ExecuteTransaction runs fn in a transaction bounded by the transaction
// timeout. The transaction commits when fn returns nil and rolls back when
// fn returns an error or panics; the panic is re-raised.
func ExecuteTransaction(ctx context.Context, s *Session, fn TransactionFunc) (err error) {
	ctx, cancel := contextutil.WithTransactionTimeout(ctx)
	defer cancel()

	tx, err := BeginTransaction(ctx, s)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
			panic(r)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			s.getLogger().Warn("rollback failed: %v", rbErr)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if ctx.Err() != nil {
			return errors.Known(errors.ErrTransaction, "", map[string]interface{}{
				"cause": fmt.Sprintf("transaction expired: %v", ctx.Err()),
			}, err)
		}
		return err
	}
	return nil
}

// ExecuteSequentialTransactions runs operations in order inside a single
// transaction. The first failure rolls back all of them.
func ExecuteSequentialTransactions(ctx context.Context, s *Session, operations []TransactionFunc) error {
	return ExecuteTransaction(ctx, s, func(ctx context.Context, tx *Transaction) error {
		for i, op := range operations {
			if err := op(ctx, tx); err != nil {
				return fmt.Errorf("operation %d: %w", i, err)
			}
		}
		return nil
	})
}
