package grpc

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"github.com/dmitrijs2005/walletkeeper/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const (
	claimsKey ctxKey = "claims"
	tokenKey  ctxKey = "token"
)

// publicMethods need no session token.
var publicMethods = map[string]bool{
	FullMethod(MethodRegister): true,
	FullMethod(MethodLogin):    true,
}

func isPublic(fullMethod string) bool {
	return publicMethods[fullMethod] || strings.HasPrefix(fullMethod, "/"+grpc_health_v1.Health_ServiceDesc.ServiceName+"/")
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if isPublic(info.FullMethod) {
		return handler(ctx, req)
	}

	var header string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AuthorizationHeaderName); len(values) > 0 {
			header = values[0]
		}
	}

	token, err := common.ExtractBearerToken(header)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "Access token required")
	}

	claims, err := s.accounts.VerifyToken(token)
	if err != nil {
		return nil, status.Error(codes.PermissionDenied, "Invalid or expired token")
	}

	ctx = context.WithValue(ctx, claimsKey, claims)
	ctx = context.WithValue(ctx, tokenKey, token)
	return handler(ctx, req)
}

func claimsFrom(ctx context.Context) (*auth.Claims, error) {
	c, ok := ctx.Value(claimsKey).(*auth.Claims)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "Access token required")
	}
	return c, nil
}

func tokenFrom(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey).(string)
	return t
}
