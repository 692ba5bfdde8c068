package grpc

import (
	"bytes"
	"encoding/json"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Request and response bodies of WalletService. On the wire each one is a
// google.protobuf.Struct with the same field names as the HTTP API; Encode
// and Decode convert between the two, so client and server share one typed
// contract.

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	WalletAddress string `json:"walletAddress,omitempty"`
}

type RegisterResponse struct {
	Message        string   `json:"message"`
	Token          string   `json:"token"`
	RecoveryPhrase string   `json:"recoveryPhrase"`
	User           UserInfo `json:"user"`
}

type LoginResponse struct {
	Message string   `json:"message"`
	Token   string   `json:"token"`
	User    UserInfo `json:"user"`
}

type ProfileResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	AccountName   string `json:"accountName"`
	WalletAddress string `json:"walletAddress"`
}

type WalletAddressResponse struct {
	WalletAddress string `json:"walletAddress"`
}

type UpdateAccountNameRequest struct {
	Name string `json:"name"`
}

type UpdateAccountNameResponse struct {
	Success     bool   `json:"success"`
	AccountName string `json:"accountName"`
}

type RevealPrivateKeyRequest struct {
	Password string `json:"password"`
}

type RevealPrivateKeyResponse struct {
	Success    bool   `json:"success"`
	PrivateKey string `json:"privateKey"`
	// ExpiresAt is RFC 3339, UTC.
	ExpiresAt string `json:"expiresAt"`
}

type PrivateKeyStatusResponse struct {
	State     string `json:"state"`
	ExpiresAt string `json:"expiresAt,omitempty"`
}

type RevealRecoveryPhraseRequest struct {
	Acknowledgement string `json:"acknowledgement"`
	Password        string `json:"password"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

// Empty is the body of calls that take no arguments.
type Empty struct{}

// Encode converts a typed body to its wire form.
func Encode(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Decode fills v from a wire body. Unknown fields and fields of the wrong
// type are errors.
func Decode(in *structpb.Struct, v any) error {
	if in == nil {
		in = &structpb.Struct{}
	}
	b, err := protojson.Marshal(in)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
