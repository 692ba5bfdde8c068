package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"github.com/dmitrijs2005/walletkeeper/internal/dbx"
	"github.com/dmitrijs2005/walletkeeper/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation      = "23505"
	pgInvalidTextRepresent = "22P02"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query :=
		`INSERT INTO accounts (id, email, password_hash, private_key, wallet_address, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 `

	_, err := r.db.ExecContext(ctx, query,
		account.ID, account.Email, account.PasswordHash, account.PrivateKey, account.WalletAddress, account.CreatedAt)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return nil, common.ErrDuplicateAccount
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query :=
		`SELECT id, email, password_hash, private_key, wallet_address, COALESCE(account_name, ''), created_at
		 FROM accounts WHERE id = $1
		 `
	return r.get(ctx, query, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query :=
		`SELECT id, email, password_hash, private_key, wallet_address, COALESCE(account_name, ''), created_at
		 FROM accounts WHERE email = $1
		 `
	return r.get(ctx, query, email)
}

func (r *PostgresRepository) get(ctx context.Context, query string, arg string) (*models.Account, error) {
	a := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.PrivateKey, &a.WalletAddress, &a.AccountName, &a.CreatedAt)
	if err != nil {
		// a malformed uuid cannot name an existing row
		if errors.Is(err, sql.ErrNoRows) || pgCode(err) == pgInvalidTextRepresent {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) UpdateName(ctx context.Context, id string, name string) (string, error) {
	query :=
		`UPDATE accounts SET account_name = $1
		 WHERE id = $2
		 RETURNING account_name
		 `

	var stored string
	err := r.db.QueryRowContext(ctx, query, name, id).Scan(&stored)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || pgCode(err) == pgInvalidTextRepresent {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return stored, nil
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
