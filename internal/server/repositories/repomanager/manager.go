// Package repomanager opens the configured credential store, runs its schema
// migrations and hands out repositories bound either to the connection pool
// or to a transaction.
package repomanager

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/walletkeeper/internal/server/repositories/accounts"
)

// RepositoryManager vends repositories for one storage backend.
type RepositoryManager interface {
	// RunMigrations brings the schema up to date.
	RunMigrations(ctx context.Context) error
	// Accounts returns a repository bound to the connection pool.
	Accounts() accounts.Repository
	// WithinTx runs fn with a repository bound to a single transaction,
	// committing when fn returns nil.
	WithinTx(ctx context.Context, fn func(ctx context.Context, repo accounts.Repository) error) error
	Close() error
}

// New selects a backend from the DSN scheme:
//
//	postgres://... or postgresql://...   PostgreSQL via pgx
//	sqlite://path/to/file.db            SQLite via modernc.org/sqlite
//	memory://                           process memory, nothing persisted
func New(dsn string) (RepositoryManager, error) {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return nil, fmt.Errorf("database DSN must have a scheme")
	}

	switch strings.ToLower(scheme) {
	case "postgres", "postgresql":
		return NewPostgresRepositoryManager(dsn)
	case "sqlite", "sqlite3":
		return NewSQLiteRepositoryManager(rest)
	case "memory":
		return NewMemoryRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unsupported database scheme %q", scheme)
	}
}
