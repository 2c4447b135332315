package inmemory

import (
	"context"
	"sync"
)

// TxManager serializes units of work against the in-memory storages. It gives
// isolation between concurrent callers but no rollback.
type TxManager struct {
	mu sync.Mutex
}

func NewTxManager() *TxManager {
	return &TxManager{}
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return fn(ctx)
}
