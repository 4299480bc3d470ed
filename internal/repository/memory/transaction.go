package memory

import (
	"context"
	"sync"

	"sitecraft/internal/domain/repositories"
)

// TransactionManager serializes read-modify-write sequences against the
// in-memory store. Calls must not nest.
type TransactionManager struct {
	mu sync.Mutex
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager() repositories.TransactionManager {
	return &TransactionManager{}
}

// ExecTx runs fn while holding the store-wide write lock
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
