// Package wallet issues and re-derives the blockchain identity of an account:
// a 12-word BIP-39 recovery phrase, the secp256k1 private key derived from it
// along a fixed BIP-44 path, and the EIP-55 address of that key.
package wallet

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"github.com/tyler-smith/go-bip39"
)

const (
	// MnemonicEntropyBits is the entropy behind a 12-word phrase.
	MnemonicEntropyBits = 128

	// MnemonicWords is the number of words every phrase issued here has.
	MnemonicWords = 12
)

// NewMnemonic generates a fresh 12-word English BIP-39 phrase from the
// system's secure random source. The phrase carries the BIP-39 checksum, so
// it can later be validated and turned back into the same seed.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(MnemonicEntropyBits)
	if err != nil {
		return "", fmt.Errorf("secure random source unavailable: %w", err)
	}
	defer common.WipeByteArray(entropy)

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("encode mnemonic: %w", err)
	}
	return mnemonic, nil
}

// NormalizeMnemonic collapses runs of whitespace so that phrases typed with
// extra spaces or line breaks compare and hash identically.
func NormalizeMnemonic(mnemonic string) string {
	return strings.Join(strings.Fields(mnemonic), " ")
}

// ValidateMnemonic reports ErrInvalidMnemonic unless the phrase has exactly
// twelve words from the English wordlist and a matching checksum.
func ValidateMnemonic(mnemonic string) error {
	mnemonic = NormalizeMnemonic(mnemonic)
	if len(strings.Fields(mnemonic)) != MnemonicWords {
		return common.ErrInvalidMnemonic
	}
	if !bip39.IsMnemonicValid(mnemonic) {
		return common.ErrInvalidMnemonic
	}
	return nil
}

// Seed turns a phrase into its 64-byte BIP-39 seed using the empty passphrase.
func Seed(mnemonic string) ([]byte, error) {
	mnemonic = NormalizeMnemonic(mnemonic)
	if err := ValidateMnemonic(mnemonic); err != nil {
		return nil, err
	}
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return nil, common.ErrInvalidMnemonic
	}
	return seed, nil
}
