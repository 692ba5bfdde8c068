package client

import (
	"context"

	"github.com/dmitrijs2005/walletkeeper/internal/client/models"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) error
	SetToken(token string)

	Register(ctx context.Context, email string, password []byte) (*models.Registration, error)
	Login(ctx context.Context, email string, password []byte) (*models.Session, error)
	Me(ctx context.Context) (*models.Profile, error)
	WalletAddress(ctx context.Context) (string, error)
	UpdateAccountName(ctx context.Context, name string) (string, error)

	RevealPrivateKey(ctx context.Context, password []byte) (*models.KeyReveal, error)
	HidePrivateKey(ctx context.Context) error
	PrivateKeyStatus(ctx context.Context) (*models.KeyStatus, error)
	RevealRecoveryPhrase(ctx context.Context, acknowledgement string, password []byte) error
}
