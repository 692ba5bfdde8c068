package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/walletkeeper/internal/dbx"
	"github.com/dmitrijs2005/walletkeeper/internal/filex"
	"github.com/dmitrijs2005/walletkeeper/internal/server/migrations"
	"github.com/dmitrijs2005/walletkeeper/internal/server/repositories/accounts"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// sqlRepositoryManager serves both SQL dialects; they differ only in the
// driver, the migration set and the repository constructor.
type sqlRepositoryManager struct {
	db         *sql.DB
	dialect    goose.Dialect
	migrations fs.FS
	newRepo    func(dbx.DBTX) accounts.Repository
}

// gooseUp is a seam for testing migration failures.
var gooseUp = func(ctx context.Context, dialect goose.Dialect, db *sql.DB, fsys fs.FS) error {
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return err
	}
	_, err = provider.Up(ctx)
	return err
}

// NewPostgresRepositoryManager opens a pgx-backed pool for dsn.
func NewPostgresRepositoryManager(dsn string) (RepositoryManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	sub, err := fs.Sub(migrations.Postgres, "postgres")
	if err != nil {
		return nil, err
	}
	return &sqlRepositoryManager{
		db:         db,
		dialect:    goose.DialectPostgres,
		migrations: sub,
		newRepo:    func(db dbx.DBTX) accounts.Repository { return accounts.NewPostgresRepository(db) },
	}, nil
}

// NewSQLiteRepositoryManager opens the SQLite database at path. SQLite
// allows a single writer, so the pool is limited to one connection.
func NewSQLiteRepositoryManager(path string) (RepositoryManager, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite DSN needs a file path")
	}
	if _, err := filex.EnsureParentDir(path); err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	db.SetMaxOpenConns(1)

	sub, err := fs.Sub(migrations.SQLite, "sqlite")
	if err != nil {
		return nil, err
	}
	return &sqlRepositoryManager{
		db:         db,
		dialect:    goose.DialectSQLite3,
		migrations: sub,
		newRepo:    func(db dbx.DBTX) accounts.Repository { return accounts.NewSQLiteRepository(db) },
	}, nil
}

func (m *sqlRepositoryManager) RunMigrations(ctx context.Context) error {
	if err := gooseUp(ctx, m.dialect, m.db, m.migrations); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

func (m *sqlRepositoryManager) Accounts() accounts.Repository {
	return m.newRepo(m.db)
}

func (m *sqlRepositoryManager) WithinTx(ctx context.Context, fn func(ctx context.Context, repo accounts.Repository) error) error {
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, m.newRepo(tx))
	})
}

func (m *sqlRepositoryManager) Close() error {
	return m.db.Close()
}
