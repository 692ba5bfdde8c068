package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/walletkeeper/internal/server/repositories/accounts"
)

// MemoryRepositoryManager keeps everything in process memory. WithinTx
// serializes callers instead of providing rollback; the memory repository
// performs each write atomically, so a failing fn leaves nothing half-written.
type MemoryRepositoryManager struct {
	mu       sync.Mutex
	accounts *accounts.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{accounts: accounts.NewMemoryRepository()}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Accounts() accounts.Repository { return m.accounts }

func (m *MemoryRepositoryManager) WithinTx(ctx context.Context, fn func(ctx context.Context, repo accounts.Repository) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx, m.accounts)
}

func (m *MemoryRepositoryManager) Close() error { return nil }
