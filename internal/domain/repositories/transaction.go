package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager handles all-or-nothing units of work.
// Repository calls made with the ctx passed to fn join the transaction.
type TransactionManager interface {
	// ExecTx executes fn within a transaction, rolling back if fn returns an error
	ExecTx(ctx context.Context, fn TxFn) error
}
