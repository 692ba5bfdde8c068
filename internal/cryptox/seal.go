// Package cryptox seals short secrets for storage with AES-256-GCM under a
// key derived from a server-side passphrase.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"golang.org/x/crypto/argon2"
)

// SealedPrefix marks a sealed value; anything else is stored in the clear.
const SealedPrefix = "enc:v1:"

// keySalt is fixed: one passphrase always yields the same key, so values
// sealed before a restart can still be opened.
var keySalt = []byte("walletkeeper/sealed-private-key/v1")

var ErrSealedValue = errors.New("sealed value cannot be opened")

// DeriveKey stretches passphrase into a 32-byte AES key with Argon2id.
func DeriveKey(passphrase []byte) []byte {
	return argon2.IDKey(passphrase, keySalt, 1, 64*1024, 4, 32)
}

// Sealer encrypts and decrypts values bound to an associated-data label
// (the account id), so a sealed value copied to another row fails to open.
type Sealer struct {
	aead cipher.AEAD
}

func NewSealer(passphrase []byte) (*Sealer, error) {
	key := DeriveKey(passphrase)
	defer common.WipeByteArray(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Sealer{aead: aead}, nil
}

// Seal returns SealedPrefix followed by base64(nonce || ciphertext).
func (s *Sealer) Seal(plaintext, label []byte) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	out := s.aead.Seal(nonce, nonce, plaintext, label)
	return SealedPrefix + base64.RawStdEncoding.EncodeToString(out), nil
}

// Open reverses Seal. The caller should wipe the result after use.
func (s *Sealer) Open(sealed string, label []byte) ([]byte, error) {
	if !IsSealed(sealed) {
		return nil, ErrSealedValue
	}
	raw, err := base64.RawStdEncoding.DecodeString(strings.TrimPrefix(sealed, SealedPrefix))
	if err != nil {
		return nil, ErrSealedValue
	}
	n := s.aead.NonceSize()
	if len(raw) < n+s.aead.Overhead() {
		return nil, ErrSealedValue
	}
	plaintext, err := s.aead.Open(nil, raw[:n], raw[n:], label)
	if err != nil {
		return nil, ErrSealedValue
	}
	return plaintext, nil
}

// IsSealed reports whether v was produced by Seal.
func IsSealed(v string) bool {
	return strings.HasPrefix(v, SealedPrefix)
}
