// Package auth issues and verifies session tokens and hashes passwords.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lightningnetwork/lnd/clock"
)

// TokenLifetime is the fixed validity of a session token. Tokens are not
// renewable; a new one requires logging in again.
const TokenLifetime = time.Hour

// Claims is the signed claim set of a session token.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
}

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	clock  clock.Clock
}

// NewTokenIssuer returns an issuer keyed by secret. A nil clock means the
// wall clock.
func NewTokenIssuer(secret []byte, clk clock.Clock) *TokenIssuer {
	if clk == nil {
		clk = clock.NewDefaultClock()
	}
	return &TokenIssuer{secret: secret, clock: clk}
}

// Issue returns a token for the account, valid for TokenLifetime.
func (i *TokenIssuer) Issue(accountID, email string) (string, error) {
	now := i.clock.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
		},
		AccountID: accountID,
		Email:     email,
	})

	return token.SignedString(i.secret)
}

// Verify checks signature, algorithm and expiry and returns the claims.
// Every failure, including expiry, is reported as ErrInvalidToken; there is
// no grace period.
func (i *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.clock.Now),
	)
	if err != nil {
		return nil, errors.Join(common.ErrInvalidToken, err)
	}
	if !token.Valid || claims.AccountID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
