package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "walletkeeper.v1.WalletService"

// Method names, as they appear after the service in the full method path.
const (
	MethodRegister             = "Register"
	MethodLogin                = "Login"
	MethodMe                   = "Me"
	MethodWalletAddress        = "WalletAddress"
	MethodUpdateAccountName    = "UpdateAccountName"
	MethodRevealPrivateKey     = "RevealPrivateKey"
	MethodHidePrivateKey       = "HidePrivateKey"
	MethodPrivateKeyStatus     = "PrivateKeyStatus"
	MethodRevealRecoveryPhrase = "RevealRecoveryPhrase"
)

// FullMethod returns "/walletkeeper.v1.WalletService/<method>".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// WalletServiceServer is implemented by GRPCServer.
type WalletServiceServer interface {
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Me(context.Context, *structpb.Struct) (*structpb.Struct, error)
	WalletAddress(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateAccountName(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RevealPrivateKey(context.Context, *structpb.Struct) (*structpb.Struct, error)
	HidePrivateKey(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PrivateKeyStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RevealRecoveryPhrase(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(WalletServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func methodDesc(name string, fn unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return fn(srv.(WalletServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return fn(srv.(WalletServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// WalletServiceDesc describes the service for grpc.Server.RegisterService.
var WalletServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*WalletServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		methodDesc(MethodRegister, WalletServiceServer.Register),
		methodDesc(MethodLogin, WalletServiceServer.Login),
		methodDesc(MethodMe, WalletServiceServer.Me),
		methodDesc(MethodWalletAddress, WalletServiceServer.WalletAddress),
		methodDesc(MethodUpdateAccountName, WalletServiceServer.UpdateAccountName),
		methodDesc(MethodRevealPrivateKey, WalletServiceServer.RevealPrivateKey),
		methodDesc(MethodHidePrivateKey, WalletServiceServer.HidePrivateKey),
		methodDesc(MethodPrivateKeyStatus, WalletServiceServer.PrivateKeyStatus),
		methodDesc(MethodRevealRecoveryPhrase, WalletServiceServer.RevealRecoveryPhrase),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "walletkeeper/v1/wallet.proto",
}
