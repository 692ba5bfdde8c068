package accounts

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"github.com/dmitrijs2005/walletkeeper/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	insertQ = `(?s)^INSERT\s+INTO\s+accounts\s*\(id,\s*email,\s*password_hash,\s*private_key,\s*wallet_address,\s*created_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6\)\s*$`
	byIDQ   = `(?s)^SELECT\s+id,\s*email,\s*password_hash,\s*private_key,\s*wallet_address,\s*COALESCE\(account_name,\s*''\),\s*created_at\s+FROM\s+accounts\s+WHERE\s+id\s*=\s*\$1\s*$`
	byMailQ = `(?s)^SELECT\s+id,\s*email,\s*password_hash,\s*private_key,\s*wallet_address,\s*COALESCE\(account_name,\s*''\),\s*created_at\s+FROM\s+accounts\s+WHERE\s+email\s*=\s*\$1\s*$`
	renameQ = `(?s)^UPDATE\s+accounts\s+SET\s+account_name\s*=\s*\$1\s+WHERE\s+id\s*=\s*\$2\s+RETURNING\s+account_name\s*$`
)

var accountColumns = []string{"id", "email", "password_hash", "private_key", "wallet_address", "account_name", "created_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestPostgresCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	acc := sampleAccount("alice@x.com")
	mock.ExpectExec(insertQ).
		WithArgs(acc.ID, acc.Email, acc.PasswordHash, acc.PrivateKey, acc.WalletAddress, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repo.Create(context.Background(), acc)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != acc.ID {
		t.Fatalf("unexpected account: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestPostgresCreate_UniqueViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), sampleAccount("alice@x.com"))
	if !errors.Is(err, common.ErrDuplicateAccount) {
		t.Fatalf("want ErrDuplicateAccount, got %v", err)
	}
}

func TestPostgresCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), sampleAccount("alice@x.com"))
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestPostgresGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rows := sqlmock.NewRows(accountColumns).
		AddRow("u-1", "alice@x.com", "hash", "0xkey", "0xaddr", "Main", created)
	mock.ExpectQuery(byIDQ).WithArgs("u-1").WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	want := &models.Account{
		ID: "u-1", Email: "alice@x.com", PasswordHash: "hash", PrivateKey: "0xkey",
		WalletAddress: "0xaddr", AccountName: "Main", CreatedAt: created,
	}
	if *got != *want {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestPostgresGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(byIDQ).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestPostgresGetByID_MalformedUUID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(byIDQ).WithArgs("not-a-uuid").WillReturnError(&pgconn.PgError{Code: "22P02"})

	_, err := repo.GetByID(context.Background(), "not-a-uuid")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestPostgresGetByEmail_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(byMailQ).WithArgs("alice@x.com").WillReturnError(errors.New("db err"))

	_, err := repo.GetByEmail(context.Background(), "alice@x.com")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestPostgresUpdateName(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(renameQ).WithArgs("Savings", "u-1").
		WillReturnRows(sqlmock.NewRows([]string{"account_name"}).AddRow("Savings"))
	mock.ExpectQuery(renameQ).WithArgs("x", "ghost").WillReturnError(sql.ErrNoRows)

	got, err := repo.UpdateName(context.Background(), "u-1", "Savings")
	if err != nil || got != "Savings" {
		t.Fatalf("UpdateName = %q, %v", got, err)
	}

	_, err = repo.UpdateName(context.Background(), "ghost", "x")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}
