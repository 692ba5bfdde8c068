// Package common defines shared constants and sentinel errors used across
// the server, transports and the CLI client. Callers should use errors.Is to
// match these values.
//
// No error message in this package (or wrapped around it) may carry a
// password, private key, recovery phrase or token.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound         = errors.New("not found")
	ErrDuplicateAccount   = errors.New("user already exists")
	ErrStorageUnavailable = errors.New("storage unavailable")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("access token required")
	ErrValidation     = errors.New("email and password are required")

	// Credential errors. The wording never says which half was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrIncorrectPassword  = errors.New("incorrect password")

	// Auth errors (invalid, malformed or expired token).
	ErrInvalidToken = errors.New("invalid or expired token")

	// Wallet errors.
	ErrInvalidMnemonic = errors.New("invalid mnemonic")
	ErrInvalidName     = errors.New("valid name is required")

	// Disclosure errors.
	ErrReauthenticationRequired = errors.New("password is required")
	ErrRiskNotAcknowledged      = errors.New("risk acknowledgement required")
	ErrMnemonicNotRetained      = errors.New("recovery phrase is shown only once at registration")
)
