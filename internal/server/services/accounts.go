// Package services contains server-side business logic. This file implements
// AccountService: registration with wallet issuance, login, session token
// checks, account naming and the password re-check used before secrets are
// disclosed.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"github.com/dmitrijs2005/walletkeeper/internal/cryptox"
	"github.com/dmitrijs2005/walletkeeper/internal/logging"
	"github.com/dmitrijs2005/walletkeeper/internal/server/auth"
	"github.com/dmitrijs2005/walletkeeper/internal/server/config"
	"github.com/dmitrijs2005/walletkeeper/internal/server/models"
	"github.com/dmitrijs2005/walletkeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/walletkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/walletkeeper/internal/wallet"
	"github.com/google/uuid"
	"github.com/lightningnetwork/lnd/clock"
)

// Profile is the non-secret view of an account.
type Profile struct {
	ID            string
	Email         string
	AccountName   string
	WalletAddress string
	CreatedAt     time.Time
}

// Registration is returned once per account. Mnemonic is not stored anywhere
// and cannot be fetched again.
type Registration struct {
	Token    string
	Mnemonic string
	Profile  Profile
}

// Session is the result of a successful login.
type Session struct {
	Token   string
	Profile Profile
}

// identityFunc issues a new recovery phrase and the identity derived from it.
type identityFunc func() (string, *wallet.Identity, error)

func newWalletIdentity() (string, *wallet.Identity, error) {
	mnemonic, err := wallet.NewMnemonic()
	if err != nil {
		return "", nil, err
	}
	id, err := wallet.Derive(mnemonic)
	if err != nil {
		return "", nil, err
	}
	return mnemonic, id, nil
}

// AccountService implements the authentication side of the wallet.
type AccountService struct {
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenIssuer
	hasher      *auth.PasswordHasher
	clock       clock.Clock
	logger      logging.Logger
	newIdentity identityFunc

	// sealer is nil when no key secret is configured; keys are then stored
	// as issued.
	sealer *cryptox.Sealer

	// dummyHash is compared against when an email is unknown, so a failed
	// login costs the same whether or not the account exists.
	dummyHash string
}

// NewAccountService wires the service to its store. A nil clock means the
// wall clock.
func NewAccountService(rm repomanager.RepositoryManager, cfg *config.Config, clk clock.Clock, logger logging.Logger) (*AccountService, error) {
	if clk == nil {
		clk = clock.NewDefaultClock()
	}
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	filler, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, fmt.Errorf("secure random source unavailable: %w", err)
	}
	dummy, err := hasher.Hash(filler)
	if err != nil {
		return nil, err
	}

	var sealer *cryptox.Sealer
	if cfg.KeySecret != "" {
		sealer, err = cryptox.NewSealer([]byte(cfg.KeySecret))
		if err != nil {
			return nil, err
		}
	}

	return &AccountService{
		sealer:      sealer,
		repomanager: rm,
		tokens:      auth.NewTokenIssuer([]byte(cfg.SecretKey), clk),
		hasher:      hasher,
		clock:       clk,
		logger:      logger.With("module", "account_service"),
		newIdentity: newWalletIdentity,
		dummyHash:   dummy,
	}, nil
}

// Register creates an account with a freshly issued wallet identity and
// returns its session token and recovery phrase. The phrase is returned here
// and nowhere else.
func (s *AccountService) Register(ctx context.Context, email, password string) (*Registration, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, common.ErrValidation
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	mnemonic, identity, err := s.newIdentity()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	defer identity.Wipe()

	id := uuid.NewString()
	storedKey, err := s.sealKey(id, identity.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	account := &models.Account{
		ID:            id,
		Email:         email,
		PasswordHash:  hash,
		PrivateKey:    storedKey,
		WalletAddress: identity.Address,
		CreatedAt:     s.clock.Now().UTC(),
	}

	err = s.repomanager.WithinTx(ctx, func(ctx context.Context, repo accounts.Repository) error {
		_, err := repo.GetByEmail(ctx, email)
		switch {
		case err == nil:
			return common.ErrDuplicateAccount
		case !errors.Is(err, common.ErrorNotFound):
			return err
		}
		_, err = repo.Create(ctx, account)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateAccount) {
			return nil, common.ErrDuplicateAccount
		}
		s.logger.Error(ctx, "registration failed", "error", err)
		return nil, storageError(err)
	}

	token, err := s.tokens.Issue(account.ID, account.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	s.logger.Info(ctx, "account registered", "account_id", account.ID)
	return &Registration{Token: token, Mnemonic: mnemonic, Profile: profileOf(account)}, nil
}

// Login exchanges email and password for a session token. Unknown email and
// wrong password both yield ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, email, password string) (*Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, common.ErrValidation
	}

	account, err := s.repomanager.Accounts().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Compare(s.dummyHash, password)
			return nil, common.ErrInvalidCredentials
		}
		s.logger.Error(ctx, "login lookup failed", "error", err)
		return nil, storageError(err)
	}

	if !s.hasher.Compare(account.PasswordHash, password) {
		s.logger.Warn(ctx, "login rejected", "account_id", account.ID)
		return nil, common.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account.ID, account.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	return &Session{Token: token, Profile: profileOf(account)}, nil
}

// VerifyToken validates a session token and returns its claims.
func (s *AccountService) VerifyToken(token string) (*auth.Claims, error) {
	return s.tokens.Verify(token)
}

// UpdateAccountName renames the account. The token must be valid and issued
// to accountID. The name is trimmed; an empty result is ErrInvalidName and
// anything beyond MaxAccountNameLength characters is cut off.
func (s *AccountService) UpdateAccountName(ctx context.Context, accountID, token, name string) (string, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return "", err
	}
	if claims.AccountID != accountID {
		return "", common.ErrInvalidToken
	}

	name, err = NormalizeAccountName(name)
	if err != nil {
		return "", err
	}

	stored, err := s.repomanager.Accounts().UpdateName(ctx, accountID, name)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorNotFound
		}
		return "", storageError(err)
	}
	return stored, nil
}

// NormalizeAccountName trims name and truncates it to MaxAccountNameLength
// characters.
func NormalizeAccountName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", common.ErrInvalidName
	}
	if utf8.RuneCountInString(name) > common.MaxAccountNameLength {
		name = string([]rune(name)[:common.MaxAccountNameLength])
	}
	return name, nil
}

// Me returns the profile of the account.
func (s *AccountService) Me(ctx context.Context, accountID string) (*Profile, error) {
	account, err := s.get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	p := profileOf(account)
	return &p, nil
}

// WalletAddress returns the address issued to the account.
func (s *AccountService) WalletAddress(ctx context.Context, accountID string) (string, error) {
	account, err := s.get(ctx, accountID)
	if err != nil {
		return "", err
	}
	if account.WalletAddress == "" {
		return "", common.ErrorNotFound
	}
	return account.WalletAddress, nil
}

// VerifyPassword re-checks the password of an already authenticated account.
// A mismatch is ErrIncorrectPassword.
func (s *AccountService) VerifyPassword(ctx context.Context, accountID, password string) error {
	if password == "" {
		return common.ErrReauthenticationRequired
	}
	account, err := s.get(ctx, accountID)
	if err != nil {
		return err
	}
	if !s.hasher.Compare(account.PasswordHash, password) {
		return common.ErrIncorrectPassword
	}
	return nil
}

// PrivateKey reads the stored private key. Callers must only hand it out
// inside a disclosure window.
func (s *AccountService) PrivateKey(ctx context.Context, accountID string) (string, error) {
	account, err := s.get(ctx, accountID)
	if err != nil {
		return "", err
	}
	if account.PrivateKey == "" {
		return "", common.ErrorNotFound
	}
	return s.openKey(account.ID, account.PrivateKey)
}

func (s *AccountService) sealKey(accountID, key string) (string, error) {
	if s.sealer == nil {
		return key, nil
	}
	return s.sealer.Seal([]byte(key), []byte(accountID))
}

// openKey accepts both sealed and plain values, so enabling a key secret
// does not strand accounts registered before it.
func (s *AccountService) openKey(accountID, stored string) (string, error) {
	if !cryptox.IsSealed(stored) {
		return stored, nil
	}
	if s.sealer == nil {
		s.logger.Error(context.Background(), "sealed private key but no key secret configured", "account_id", accountID)
		return "", common.ErrorInternal
	}
	plain, err := s.sealer.Open(stored, []byte(accountID))
	if err != nil {
		s.logger.Error(context.Background(), "private key cannot be opened", "account_id", accountID)
		return "", fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	defer common.WipeByteArray(plain)
	return string(plain), nil
}

func (s *AccountService) get(ctx context.Context, accountID string) (*models.Account, error) {
	account, err := s.repomanager.Accounts().GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, storageError(err)
	}
	return account, nil
}

func profileOf(a *models.Account) Profile {
	return Profile{
		ID:            a.ID,
		Email:         a.Email,
		AccountName:   a.DisplayName(),
		WalletAddress: a.WalletAddress,
		CreatedAt:     a.CreatedAt,
	}
}

func storageError(err error) error {
	return fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
}
