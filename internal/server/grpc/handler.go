package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"github.com/dmitrijs2005/walletkeeper/internal/server/disclosure"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func decode(in *structpb.Struct, v any) error {
	if err := Decode(in, v); err != nil {
		return status.Error(codes.InvalidArgument, "Invalid request body")
	}
	return nil
}

func reply(v any) (*structpb.Struct, error) {
	out, err := Encode(v)
	if err != nil {
		return nil, status.Error(codes.Internal, "Internal server error")
	}
	return out, nil
}

func (s *GRPCServer) Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	s.logger.Info(ctx, "Registration request")

	var in CredentialsRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	reg, err := s.accounts.Register(ctx, in.Email, in.Password)
	if err != nil {
		return nil, toStatus(err)
	}

	return reply(&RegisterResponse{
		Message:        "User registered successfully",
		Token:          reg.Token,
		RecoveryPhrase: reg.Mnemonic,
		User: UserInfo{
			ID:            reg.Profile.ID,
			Email:         reg.Profile.Email,
			WalletAddress: reg.Profile.WalletAddress,
		},
	})
}

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	var in CredentialsRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	sess, err := s.accounts.Login(ctx, in.Email, in.Password)
	if err != nil {
		return nil, toStatus(err)
	}

	return reply(&LoginResponse{
		Message: "Login successful",
		Token:   sess.Token,
		User:    UserInfo{ID: sess.Profile.ID, Email: sess.Profile.Email},
	})
}

func (s *GRPCServer) Me(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := decode(req, &Empty{}); err != nil {
		return nil, err
	}

	p, err := s.accounts.Me(ctx, claims.AccountID)
	if err != nil {
		return nil, toStatus(err)
	}

	return reply(&ProfileResponse{
		ID:            p.ID,
		Email:         p.Email,
		AccountName:   p.AccountName,
		WalletAddress: p.WalletAddress,
	})
}

func (s *GRPCServer) WalletAddress(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := decode(req, &Empty{}); err != nil {
		return nil, err
	}

	addr, err := s.accounts.WalletAddress(ctx, claims.AccountID)
	if err != nil {
		return nil, toStatus(err)
	}
	return reply(&WalletAddressResponse{WalletAddress: addr})
}

func (s *GRPCServer) UpdateAccountName(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return nil, err
	}

	var in UpdateAccountNameRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	name, err := s.accounts.UpdateAccountName(ctx, claims.AccountID, tokenFrom(ctx), in.Name)
	if err != nil {
		return nil, toStatus(err)
	}
	return reply(&UpdateAccountNameResponse{Success: true, AccountName: name})
}

func (s *GRPCServer) RevealPrivateKey(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return nil, err
	}

	var in RevealPrivateKeyRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	d, err := s.disclosure.RevealPrivateKey(ctx, claims.AccountID, in.Password)
	if err != nil {
		return nil, toStatus(err)
	}

	return reply(&RevealPrivateKeyResponse{
		Success:    true,
		PrivateKey: d.PrivateKey,
		ExpiresAt:  d.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

func (s *GRPCServer) HidePrivateKey(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := decode(req, &Empty{}); err != nil {
		return nil, err
	}

	if err := s.disclosure.Hide(ctx, claims.AccountID); err != nil {
		return nil, toStatus(err)
	}
	return reply(&SuccessResponse{Success: true})
}

func (s *GRPCServer) PrivateKeyStatus(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := decode(req, &Empty{}); err != nil {
		return nil, err
	}

	state, expiresAt, err := s.disclosure.Status(ctx, claims.AccountID)
	if err != nil {
		return nil, toStatus(err)
	}

	out := &PrivateKeyStatusResponse{State: state.String()}
	if state == disclosure.Unlocked {
		out.ExpiresAt = expiresAt.UTC().Format(time.RFC3339)
	}
	return reply(out)
}

func (s *GRPCServer) RevealRecoveryPhrase(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return nil, err
	}

	var in RevealRecoveryPhraseRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	err = s.disclosure.RevealRecoveryPhrase(ctx, claims.AccountID, in.Acknowledgement, in.Password)
	if err == nil {
		err = common.ErrMnemonicNotRetained
	}
	return nil, toStatus(err)
}
