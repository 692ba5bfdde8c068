package grpc

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"github.com/dmitrijs2005/walletkeeper/internal/logging"
	"github.com/dmitrijs2005/walletkeeper/internal/server/config"
	"github.com/dmitrijs2005/walletkeeper/internal/server/disclosure"
	"github.com/dmitrijs2005/walletkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/walletkeeper/internal/server/services"
	"github.com/dmitrijs2005/walletkeeper/internal/wallet"
	"github.com/lightningnetwork/lnd/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

var epoch = time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	conn  *grpc.ClientConn
	clock *clock.TestClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clk := clock.NewTestClock(epoch)
	cfg := &config.Config{SecretKey: "grpc-secret", BcryptCost: bcrypt.MinCost}
	as, err := services.NewAccountService(repomanager.NewMemoryRepositoryManager(), cfg, clk, logging.Nop())
	require.NoError(t, err)
	dc := disclosure.NewController(as, clk, logging.Nop())

	s := NewGRPCServer("bufnet", logging.Nop(), as, dc)
	lis := bufconn.Listen(1 << 20)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("gRPC server did not stop")
		}
	})

	return &fixture{conn: conn, clock: clk}
}

func (f *fixture) call(t *testing.T, method, token string, in map[string]any) (*structpb.Struct, error) {
	t.Helper()
	req, err := structpb.NewStruct(in)
	require.NoError(t, err)

	ctx := context.Background()
	if token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, common.AuthorizationHeaderName, common.BearerPrefix+token)
	}
	out := new(structpb.Struct)
	err = f.conn.Invoke(ctx, FullMethod(method), req, out)
	return out, err
}

func (f *fixture) register(t *testing.T, email, password string) (string, *structpb.Struct) {
	t.Helper()
	out, err := f.call(t, MethodRegister, "", map[string]any{"email": email, "password": password})
	require.NoError(t, err)
	return field(out, "token"), out
}

func code(err error) codes.Code { return status.Code(err) }

func field(in *structpb.Struct, name string) string {
	return in.GetFields()[name].GetStringValue()
}

func TestRegisterLoginMe(t *testing.T) {
	f := newFixture(t)

	token, reg := f.register(t, "a@x.com", "pw1")
	phrase := field(reg, "recoveryPhrase")
	assert.Len(t, strings.Fields(phrase), wallet.MnemonicWords)

	id, err := wallet.Derive(phrase)
	require.NoError(t, err)
	user := reg.GetFields()["user"].GetStructValue()
	assert.Equal(t, id.Address, field(user, "walletAddress"))

	out, err := f.call(t, MethodLogin, "", map[string]any{"email": "a@x.com", "password": "pw1"})
	require.NoError(t, err)
	assert.NotEmpty(t, field(out, "token"))

	out, err = f.call(t, MethodMe, token, nil)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", field(out, "email"))
	assert.Equal(t, common.DefaultAccountName, field(out, "accountName"))

	out, err = f.call(t, MethodWalletAddress, token, nil)
	require.NoError(t, err)
	assert.Equal(t, id.Address, field(out, "walletAddress"))
}

func TestErrorsMapToCodes(t *testing.T) {
	f := newFixture(t)
	token, _ := f.register(t, "a@x.com", "pw1")

	_, err := f.call(t, MethodRegister, "", map[string]any{"email": "a@x.com", "password": "pw2"})
	assert.Equal(t, codes.AlreadyExists, code(err))

	_, err = f.call(t, MethodRegister, "", map[string]any{"email": "", "password": "pw2"})
	assert.Equal(t, codes.InvalidArgument, code(err))

	_, e1 := f.call(t, MethodLogin, "", map[string]any{"email": "a@x.com", "password": "bad"})
	_, e2 := f.call(t, MethodLogin, "", map[string]any{"email": "ghost@x.com", "password": "pw1"})
	assert.Equal(t, codes.Unauthenticated, code(e1))
	assert.Equal(t, status.Convert(e1).Message(), status.Convert(e2).Message())

	_, err = f.call(t, MethodUpdateAccountName, token, map[string]any{"name": "  "})
	assert.Equal(t, codes.InvalidArgument, code(err))
}

func TestInterceptor(t *testing.T) {
	f := newFixture(t)
	token, _ := f.register(t, "a@x.com", "pw1")

	_, err := f.call(t, MethodMe, "", nil)
	assert.Equal(t, codes.Unauthenticated, code(err))

	_, err = f.call(t, MethodMe, "garbage", nil)
	assert.Equal(t, codes.PermissionDenied, code(err))

	f.clock.SetTime(epoch.Add(time.Hour + time.Second))
	_, err = f.call(t, MethodMe, token, nil)
	assert.Equal(t, codes.PermissionDenied, code(err))
}

func TestPrivateKeyDisclosure(t *testing.T) {
	f := newFixture(t)
	token, reg := f.register(t, "a@x.com", "pw1")
	addr := field(reg.GetFields()["user"].GetStructValue(), "walletAddress")

	_, err := f.call(t, MethodRevealPrivateKey, token, map[string]any{"password": ""})
	assert.Equal(t, codes.Unauthenticated, code(err))

	out, err := f.call(t, MethodPrivateKeyStatus, token, nil)
	require.NoError(t, err)
	assert.Equal(t, "authorizing", field(out, "state"))

	out, err = f.call(t, MethodRevealPrivateKey, token, map[string]any{"password": "pw1"})
	require.NoError(t, err)
	derived, err := wallet.AddressFromPrivateKey(field(out, "privateKey"))
	require.NoError(t, err)
	assert.Equal(t, addr, derived)

	out, err = f.call(t, MethodPrivateKeyStatus, token, nil)
	require.NoError(t, err)
	assert.Equal(t, "unlocked", field(out, "state"))
	assert.Equal(t, epoch.Add(disclosure.RevealWindow).Format(time.RFC3339), field(out, "expiresAt"))

	_, err = f.call(t, MethodHidePrivateKey, token, nil)
	require.NoError(t, err)

	out, err = f.call(t, MethodPrivateKeyStatus, token, nil)
	require.NoError(t, err)
	assert.Equal(t, "locked", field(out, "state"))
}

func TestRevealRecoveryPhrase(t *testing.T) {
	f := newFixture(t)
	token, _ := f.register(t, "a@x.com", "pw1")

	_, err := f.call(t, MethodRevealRecoveryPhrase, token, map[string]any{"password": "pw1", "acknowledgement": "fine"})
	assert.Equal(t, codes.FailedPrecondition, code(err))
	assert.Equal(t, "Risk acknowledgement required", status.Convert(err).Message())

	_, err = f.call(t, MethodRevealRecoveryPhrase, token, map[string]any{"password": "pw1", "acknowledgement": disclosure.AckCannotRecover})
	assert.Equal(t, codes.FailedPrecondition, code(err))
	assert.Equal(t, common.ErrMnemonicNotRetained.Error(), status.Convert(err).Message())
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	resp, err := grpc_health_v1.NewHealthClient(f.conn).Check(context.Background(),
		&grpc_health_v1.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestToStatus_HidesCause(t *testing.T) {
	err := toStatus(errors.Join(common.ErrStorageUnavailable, errors.New("pq: password authentication failed")))
	assert.Equal(t, codes.Unavailable, code(err))
	assert.NotContains(t, status.Convert(err).Message(), "pq:")

	assert.Equal(t, codes.Internal, code(toStatus(errors.New("boom"))))
}

func TestRequestBodyIsChecked(t *testing.T) {
	f := newFixture(t)
	token, _ := f.register(t, "a@x.com", "pw1")

	_, err := f.call(t, MethodLogin, "", map[string]any{"email": "a@x.com", "password": "pw1", "admin": true})
	assert.Equal(t, codes.InvalidArgument, code(err), "unknown field")

	_, err = f.call(t, MethodLogin, "", map[string]any{"email": "a@x.com", "password": 12345})
	assert.Equal(t, codes.InvalidArgument, code(err), "wrong type")

	_, err = f.call(t, MethodMe, token, map[string]any{"id": "someone-else"})
	assert.Equal(t, codes.InvalidArgument, code(err), "argument-free call with arguments")

	_, err = f.call(t, MethodUpdateAccountName, token, map[string]any{"name": []any{"x"}})
	assert.Equal(t, codes.InvalidArgument, code(err))
}

func TestEncodeDecode(t *testing.T) {
	st, err := Encode(&RevealRecoveryPhraseRequest{Acknowledgement: disclosure.AckCannotRecover, Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, disclosure.AckCannotRecover, field(st, "acknowledgement"))
	assert.Equal(t, "pw", field(st, "password"))

	var back RevealRecoveryPhraseRequest
	require.NoError(t, Decode(st, &back))
	assert.Equal(t, RevealRecoveryPhraseRequest{Acknowledgement: disclosure.AckCannotRecover, Password: "pw"}, back)

	st, err = Encode(&PrivateKeyStatusResponse{State: "locked"})
	require.NoError(t, err)
	_, present := st.GetFields()["expiresAt"]
	assert.False(t, present, "empty expiry is omitted")

	require.NoError(t, Decode(nil, &Empty{}))
	assert.Error(t, Decode(st, &Empty{}))
}
