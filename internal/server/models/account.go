package models

import (
	"time"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
)

// Account is one row of the credential store. PrivateKey and PasswordHash
// never leave the server except through a disclosure response.
type Account struct {
	ID            string
	Email         string
	PasswordHash  string
	PrivateKey    string
	WalletAddress string
	AccountName   string
	CreatedAt     time.Time
}

// DisplayName returns the account name, or the default for accounts that
// never set one.
func (a *Account) DisplayName() string {
	if a.AccountName == "" {
		return common.DefaultAccountName
	}
	return a.AccountName
}
