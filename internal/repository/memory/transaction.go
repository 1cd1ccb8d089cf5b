package memory

import (
	"context"

	"lectern/internal/domain/repositories"
)

// TransactionManager runs units of work one at a time and restores the
// store's previous state when fn fails.
//
// Writes are isolated: a write outside a transaction waits for the running
// one to finish. Reads are not. A read outside a transaction can observe a
// transaction's uncommitted writes, e.g. a lesson with no published version
// between the archive and publish steps of PublishVersion.
type TransactionManager struct {
	store *Store
}

// NewTransactionManager creates a transaction manager for the store
func NewTransactionManager(store *Store) repositories.TransactionManager {
	return &TransactionManager{store: store}
}

type txKey struct{}

// ExecTx executes fn with all-or-nothing semantics. Nested calls join the outer transaction.
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if tm.store.inTx(ctx) {
		return fn(ctx)
	}

	tm.store.txMu.Lock()
	defer tm.store.txMu.Unlock()

	snap := tm.store.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, tm.store)); err != nil {
		tm.store.restore(snap)
		return err
	}
	return nil
}
