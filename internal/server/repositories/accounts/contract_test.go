package accounts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"github.com/dmitrijs2005/walletkeeper/internal/server/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAccount(email string) *models.Account {
	return &models.Account{
		ID:            uuid.NewString(),
		Email:         email,
		PasswordHash:  "$2a$04$hash",
		PrivateKey:    "0x" + "11223344556677889900aabbccddeeff11223344556677889900aabbccddeeff",
		WalletAddress: "0xa8E070649A1D98651D281FdD428BD3EeC0d279e0",
		CreatedAt:     time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
	}
}

// runContract exercises the behaviour every Repository must share.
func runContract(t *testing.T, newRepo func(t *testing.T) Repository) {
	t.Run("create then get by id and email", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()
		acc := sampleAccount("a@x.com")

		_, err := r.Create(ctx, acc)
		require.NoError(t, err)

		byID, err := r.GetByID(ctx, acc.ID)
		require.NoError(t, err)
		assert.Equal(t, acc.Email, byID.Email)
		assert.Equal(t, acc.PasswordHash, byID.PasswordHash)
		assert.Equal(t, acc.PrivateKey, byID.PrivateKey)
		assert.Equal(t, acc.WalletAddress, byID.WalletAddress)
		assert.Equal(t, "", byID.AccountName)
		assert.True(t, acc.CreatedAt.Equal(byID.CreatedAt), "created_at %v != %v", acc.CreatedAt, byID.CreatedAt)

		byEmail, err := r.GetByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, acc.ID, byEmail.ID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()

		_, err := r.Create(ctx, sampleAccount("dup@x.com"))
		require.NoError(t, err)
		_, err = r.Create(ctx, sampleAccount("dup@x.com"))
		assert.True(t, errors.Is(err, common.ErrDuplicateAccount), "got %v", err)
	})

	t.Run("email match is case sensitive", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()

		_, err := r.Create(ctx, sampleAccount("Case@x.com"))
		require.NoError(t, err)

		_, err = r.GetByEmail(ctx, "case@x.com")
		assert.True(t, errors.Is(err, common.ErrorNotFound), "got %v", err)

		_, err = r.Create(ctx, sampleAccount("case@x.com"))
		assert.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()

		_, err := r.GetByID(ctx, uuid.NewString())
		assert.True(t, errors.Is(err, common.ErrorNotFound), "got %v", err)
		_, err = r.GetByEmail(ctx, "ghost@x.com")
		assert.True(t, errors.Is(err, common.ErrorNotFound), "got %v", err)
		_, err = r.UpdateName(ctx, uuid.NewString(), "x")
		assert.True(t, errors.Is(err, common.ErrorNotFound), "got %v", err)
	})

	t.Run("update name", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()
		acc := sampleAccount("n@x.com")
		_, err := r.Create(ctx, acc)
		require.NoError(t, err)

		got, err := r.UpdateName(ctx, acc.ID, "Savings")
		require.NoError(t, err)
		assert.Equal(t, "Savings", got)

		stored, err := r.GetByID(ctx, acc.ID)
		require.NoError(t, err)
		assert.Equal(t, "Savings", stored.AccountName)
		assert.Equal(t, acc.WalletAddress, stored.WalletAddress, "address is untouched by renames")
	})
}
