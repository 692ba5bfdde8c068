package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/walletkeeper/internal/client/models"
	"github.com/dmitrijs2005/walletkeeper/internal/common"
	ws "github.com/dmitrijs2005/walletkeeper/internal/server/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AuthorizationHeaderName)
	md.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := s.token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func NewWalletClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.InitGRPCClient(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient(opts ...grpc.DialOption) error {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	return nil
}

// SetToken sets the session token sent with every later call.
func (s *GRPCClient) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

// Ping checks the server's gRPC health service.
func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := grpc_health_v1.NewHealthClient(s.conn).Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: ws.ServiceName})
	if err != nil {
		return s.mapError(err)
	}
	if resp.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) call(ctx context.Context, method string, in, out any) error {
	req, err := ws.Encode(in)
	if err != nil {
		return err
	}
	res := new(structpb.Struct)
	if err := s.conn.Invoke(ctx, ws.FullMethod(method), req, res); err != nil {
		return s.mapError(err)
	}
	if out == nil {
		return nil
	}
	if err := ws.Decode(res, out); err != nil {
		return fmt.Errorf("malformed %s response: %w", method, err)
	}
	return nil
}

func parseTime(v string) time.Time {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (s *GRPCClient) Register(ctx context.Context, email string, password []byte) (*models.Registration, error) {

	var res ws.RegisterResponse
	if err := s.call(ctx, ws.MethodRegister, &ws.CredentialsRequest{Email: email, Password: string(password)}, &res); err != nil {
		return nil, err
	}

	return &models.Registration{
		Token:          res.Token,
		RecoveryPhrase: res.RecoveryPhrase,
		UserID:         res.User.ID,
		Email:          res.User.Email,
		WalletAddress:  res.User.WalletAddress,
	}, nil
}

func (s *GRPCClient) Login(ctx context.Context, email string, password []byte) (*models.Session, error) {

	var res ws.LoginResponse
	if err := s.call(ctx, ws.MethodLogin, &ws.CredentialsRequest{Email: email, Password: string(password)}, &res); err != nil {
		return nil, err
	}

	return &models.Session{Token: res.Token, UserID: res.User.ID, Email: res.User.Email}, nil
}

func (s *GRPCClient) Me(ctx context.Context) (*models.Profile, error) {
	var res ws.ProfileResponse
	if err := s.call(ctx, ws.MethodMe, &ws.Empty{}, &res); err != nil {
		return nil, err
	}
	return &models.Profile{
		ID:            res.ID,
		Email:         res.Email,
		AccountName:   res.AccountName,
		WalletAddress: res.WalletAddress,
	}, nil
}

func (s *GRPCClient) WalletAddress(ctx context.Context) (string, error) {
	var res ws.WalletAddressResponse
	if err := s.call(ctx, ws.MethodWalletAddress, &ws.Empty{}, &res); err != nil {
		return "", err
	}
	return res.WalletAddress, nil
}

func (s *GRPCClient) UpdateAccountName(ctx context.Context, name string) (string, error) {
	var res ws.UpdateAccountNameResponse
	if err := s.call(ctx, ws.MethodUpdateAccountName, &ws.UpdateAccountNameRequest{Name: name}, &res); err != nil {
		return "", err
	}
	return res.AccountName, nil
}

func (s *GRPCClient) RevealPrivateKey(ctx context.Context, password []byte) (*models.KeyReveal, error) {
	var res ws.RevealPrivateKeyResponse
	if err := s.call(ctx, ws.MethodRevealPrivateKey, &ws.RevealPrivateKeyRequest{Password: string(password)}, &res); err != nil {
		return nil, err
	}
	return &models.KeyReveal{PrivateKey: res.PrivateKey, ExpiresAt: parseTime(res.ExpiresAt)}, nil
}

func (s *GRPCClient) HidePrivateKey(ctx context.Context) error {
	return s.call(ctx, ws.MethodHidePrivateKey, &ws.Empty{}, &ws.SuccessResponse{})
}

func (s *GRPCClient) PrivateKeyStatus(ctx context.Context) (*models.KeyStatus, error) {
	var res ws.PrivateKeyStatusResponse
	if err := s.call(ctx, ws.MethodPrivateKeyStatus, &ws.Empty{}, &res); err != nil {
		return nil, err
	}
	return &models.KeyStatus{State: res.State, ExpiresAt: parseTime(res.ExpiresAt)}, nil
}

func (s *GRPCClient) RevealRecoveryPhrase(ctx context.Context, acknowledgement string, password []byte) error {
	return s.call(ctx, ws.MethodRevealRecoveryPhrase, &ws.RevealRecoveryPhraseRequest{
		Acknowledgement: acknowledgement,
		Password:        string(password),
	}, nil)
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.PermissionDenied:
		return ErrForbidden
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.AlreadyExists:
		return common.ErrDuplicateAccount
	case codes.NotFound:
		return common.ErrorNotFound
	case codes.FailedPrecondition:
		if st.Message() == common.ErrMnemonicNotRetained.Error() {
			return common.ErrMnemonicNotRetained
		}
		return fmt.Errorf("%w: %s", ErrRejected, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrRejected, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
