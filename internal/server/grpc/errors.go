package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps a service error to a gRPC status. Wrapped causes are never
// sent to the client.
func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrValidation):
		return status.Error(codes.InvalidArgument, "Email and password are required")
	case errors.Is(err, common.ErrInvalidName):
		return status.Error(codes.InvalidArgument, "Valid name is required")
	case errors.Is(err, common.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, "Invalid credentials")
	case errors.Is(err, common.ErrIncorrectPassword):
		return status.Error(codes.Unauthenticated, "Incorrect password")
	case errors.Is(err, common.ErrReauthenticationRequired):
		return status.Error(codes.Unauthenticated, "Password is required")
	case errors.Is(err, common.ErrInvalidToken):
		return status.Error(codes.PermissionDenied, "Invalid or expired token")
	case errors.Is(err, common.ErrRiskNotAcknowledged):
		return status.Error(codes.FailedPrecondition, "Risk acknowledgement required")
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "User not found")
	case errors.Is(err, common.ErrDuplicateAccount):
		return status.Error(codes.AlreadyExists, "User already exists")
	case errors.Is(err, common.ErrMnemonicNotRetained):
		return status.Error(codes.FailedPrecondition, common.ErrMnemonicNotRetained.Error())
	case errors.Is(err, common.ErrStorageUnavailable):
		return status.Error(codes.Unavailable, "Service temporarily unavailable")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request cancelled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	default:
		return status.Error(codes.Internal, "Internal server error")
	}
}
