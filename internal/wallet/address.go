package wallet

import (
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// AddressLen is the byte length of an account address.
const AddressLen = common.AddressLength

// addressFromPubKey hashes the uncompressed public key (without the 0x04
// marker) with Keccak-256 and keeps the trailing 20 bytes.
func addressFromPubKey(pub *btcec.PublicKey) string {
	h := crypto.Keccak256(pub.SerializeUncompressed()[1:])
	return ChecksumAddress(h[len(h)-AddressLen:])
}

// ChecksumAddress encodes a 20-byte address in EIP-55 mixed case.
func ChecksumAddress(addr []byte) string {
	return common.BytesToAddress(addr).Hex()
}

// IsChecksumAddress reports whether s is a 0x-prefixed address whose letter
// case matches its EIP-55 checksum.
func IsChecksumAddress(s string) bool {
	if !strings.HasPrefix(s, "0x") || !common.IsHexAddress(s) {
		return false
	}
	return common.HexToAddress(s).Hex() == s
}
