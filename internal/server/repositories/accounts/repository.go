// Package accounts is the credential store: one record per account holding
// the password hash, the derived private key, the wallet address and the
// display name.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/walletkeeper/internal/server/models"
)

// Repository is the access contract of the credential store.
//
// Lookups of absent rows return common.ErrorNotFound, inserts that collide on
// email return common.ErrDuplicateAccount; anything else is a storage error
// wrapped as "db error: ...".
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	UpdateName(ctx context.Context, id string, name string) (string, error)
}
