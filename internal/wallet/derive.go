package wallet

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/dmitrijs2005/walletkeeper/internal/common"
)

// DerivationPath names the key an account uses: the BIP-32 master node of
// the seed itself, with no child derivation. Addresses issued before this
// service existed were taken from the master node, so it must never change.
const DerivationPath = "m"

// PrivateKeyLen is the length of a raw secp256k1 private key.
const PrivateKeyLen = 32

// Identity is the key material determined by one recovery phrase.
type Identity struct {
	// Seed is the 64-byte BIP-39 seed.
	Seed []byte
	// PrivateKey is the 0x-prefixed hex private key at DerivationPath.
	PrivateKey string
	// Address is the EIP-55 checksummed address of PrivateKey.
	Address string
}

// Wipe zeroes the seed. The hex key is a string and is left to the GC.
func (id *Identity) Wipe() {
	if id == nil {
		return
	}
	common.WipeByteArray(id.Seed)
}

// Derive deterministically computes seed, private key and address from a
// phrase. The same phrase always yields the same key and address. A phrase
// with the wrong word count or a bad checksum yields ErrInvalidMnemonic.
func Derive(mnemonic string) (*Identity, error) {
	seed, err := Seed(mnemonic)
	if err != nil {
		return nil, err
	}

	master, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		common.WipeByteArray(seed)
		return nil, fmt.Errorf("master key: %w", err)
	}

	priv, err := master.ECPrivKey()
	if err != nil {
		common.WipeByteArray(seed)
		return nil, fmt.Errorf("derive %s: %w", DerivationPath, err)
	}

	raw := priv.Serialize()
	defer common.WipeByteArray(raw)

	return &Identity{
		Seed:       seed,
		PrivateKey: FormatPrivateKey(raw),
		Address:    addressFromPubKey(priv.PubKey()),
	}, nil
}

// FormatPrivateKey renders a raw key as lowercase 0x-prefixed hex.
func FormatPrivateKey(raw []byte) string {
	return "0x" + hex.EncodeToString(raw)
}

// ParsePrivateKey decodes a 0x-prefixed (or bare) 64-digit hex key.
func ParsePrivateKey(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) != PrivateKeyLen*2 {
		return nil, fmt.Errorf("private key must be %d hex digits", PrivateKeyLen*2)
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.New("private key is not hex")
	}
	return raw, nil
}

// AddressFromPrivateKey recomputes the address of a stored hex private key.
func AddressFromPrivateKey(privateKey string) (string, error) {
	raw, err := ParsePrivateKey(privateKey)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(raw)

	_, pub := btcec.PrivKeyFromBytes(raw)
	return addressFromPubKey(pub), nil
}
