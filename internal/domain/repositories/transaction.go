package repositories

import "context"

// TxFn is the unit of work run by ExecTx. Repository calls made with the ctx it
// receives join the transaction.
type TxFn func(ctx context.Context) error

// TransactionManager runs read-modify-write sequences atomically. A TxFn error
// rolls the work back and is returned unchanged.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
