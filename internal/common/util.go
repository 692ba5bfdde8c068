package common

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// MakeRandHexString generates size random bytes and returns them hex-encoded,
// so the resulting string is 2*size characters long.
//
// It returns an error if the random number generator fails.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// Use it for seeds, raw private keys and password buffers once they are no
// longer needed.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ExtractBearerToken returns the token part of an "Authorization: Bearer <token>"
// value. A missing header, another scheme or an empty token yield
// ErrorUnauthorized.
func ExtractBearerToken(header string) (string, error) {
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", ErrorUnauthorized
	}
	token := strings.TrimSpace(header[len(BearerPrefix):])
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", ErrorUnauthorized
	}
	return token, nil
}
