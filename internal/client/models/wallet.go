// Package models defines client-side views of the wallet service responses.
package models

import "time"

// Registration is what the server returns once, at sign-up.
type Registration struct {
	// Token is the session token (valid for one hour).
	Token string

	// RecoveryPhrase is the 12-word mnemonic. The server keeps no copy.
	RecoveryPhrase string

	UserID        string
	Email         string
	WalletAddress string
}

// Session is the result of a login.
type Session struct {
	Token  string
	UserID string
	Email  string
}

// Profile is the non-secret account summary.
type Profile struct {
	ID            string
	Email         string
	AccountName   string
	WalletAddress string
}

// KeyReveal is a private key returned inside an open disclosure window.
type KeyReveal struct {
	PrivateKey string
	ExpiresAt  time.Time
}

// KeyStatus is the disclosure state of the private key. ExpiresAt is zero
// unless State is "unlocked".
type KeyStatus struct {
	State     string
	ExpiresAt time.Time
}
