package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"github.com/dmitrijs2005/walletkeeper/internal/dbx"
	"github.com/dmitrijs2005/walletkeeper/internal/server/models"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, email, password_hash, private_key, wallet_address, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, account.ID, account.Email, account.PasswordHash, account.PrivateKey, account.WalletAddress, account.CreatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrDuplicateAccount
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return account, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return r.get(ctx, `
		SELECT id, email, password_hash, private_key, wallet_address, COALESCE(account_name, ''), created_at
		FROM accounts WHERE id = ?
	`, id)
}

func (r *SQLiteRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.get(ctx, `
		SELECT id, email, password_hash, private_key, wallet_address, COALESCE(account_name, ''), created_at
		FROM accounts WHERE email = ?
	`, email)
}

func (r *SQLiteRepository) get(ctx context.Context, query string, arg string) (*models.Account, error) {
	a := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.PrivateKey, &a.WalletAddress, &a.AccountName, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *SQLiteRepository) UpdateName(ctx context.Context, id string, name string) (string, error) {
	var stored string
	err := r.db.QueryRowContext(ctx, `
		UPDATE accounts SET account_name = ? WHERE id = ? RETURNING account_name
	`, name, id).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return "", common.ErrorNotFound
	}
	if err != nil {
		return "", fmt.Errorf("db error: %w", err)
	}
	return stored, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}
