package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
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
)

var epoch = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

type fixture struct {
	srv   *HTTPServer
	h     http.Handler
	clock *clock.TestClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clk := clock.NewTestClock(epoch)
	cfg := &config.Config{SecretKey: "test-secret", BcryptCost: bcrypt.MinCost}
	as, err := services.NewAccountService(repomanager.NewMemoryRepositoryManager(), cfg, clk, logging.Nop())
	require.NoError(t, err)
	dc := disclosure.NewController(as, clk, logging.Nop())
	srv := NewHTTPServer(":0", logging.Nop(), as, dc, time.Second)
	return &fixture{srv: srv, h: srv.Handler(), clock: clk}
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.h.ServeHTTP(rec, req)

	out := map[string]any{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	}
	return rec.Code, out
}

func (f *fixture) registerUser(t *testing.T, email, password string) (token string, body map[string]any) {
	t.Helper()
	code, body := f.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusCreated, code, "%v", body)
	return body["token"].(string), body
}

func TestRegisterLoginMe(t *testing.T) {
	f := newFixture(t)

	token, body := f.registerUser(t, "a@x.com", "pw1")
	assert.Equal(t, "User registered successfully", body["message"])
	phrase := body["recoveryPhrase"].(string)
	require.NoError(t, wallet.ValidateMnemonic(phrase))

	user := body["user"].(map[string]any)
	id, err := wallet.Derive(phrase)
	require.NoError(t, err)
	assert.Equal(t, id.Address, user["walletAddress"])

	code, body := f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@x.com", "password": "pw1"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, user["id"], body["user"].(map[string]any)["id"])
	assert.NotEmpty(t, body["token"])

	code, body = f.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "a@x.com", body["email"])
	assert.Equal(t, common.DefaultAccountName, body["accountName"])
	assert.Equal(t, id.Address, body["walletAddress"])
	assert.NotContains(t, body, "privateKey")

	code, body = f.do(t, http.MethodGet, "/api/auth/wallet-address", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, id.Address, body["walletAddress"])
}

func TestRegister_Errors(t *testing.T) {
	f := newFixture(t)
	f.registerUser(t, "a@x.com", "pw1")

	code, body := f.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"email": "a@x.com", "password": "x"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "User already exists", body["error"])

	code, _ = f.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"email": "", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, code)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	f.h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister_BodyTooLarge(t *testing.T) {
	f := newFixture(t)

	big := `{"email":"a@x.com","password":"` + strings.Repeat("p", maxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(big))
	rec := httptest.NewRecorder()
	f.h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestLogin_IndistinguishableFailures(t *testing.T) {
	f := newFixture(t)
	f.registerUser(t, "a@x.com", "pw1")

	c1, b1 := f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@x.com", "password": "bad"})
	c2, b2 := f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "nobody@x.com", "password": "pw1"})

	assert.Equal(t, http.StatusUnauthorized, c1)
	assert.Equal(t, c1, c2)
	assert.Equal(t, b1, b2)
}

func TestAuthMiddleware(t *testing.T) {
	f := newFixture(t)
	token, _ := f.registerUser(t, "a@x.com", "pw1")

	code, body := f.do(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Access token required", body["error"])

	code, _ = f.do(t, http.MethodGet, "/api/auth/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusForbidden, code)

	f.clock.SetTime(epoch.Add(time.Hour + time.Second))
	code, body = f.do(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Invalid or expired token", body["error"])

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Basic abc")
	rec := httptest.NewRecorder()
	f.h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateAccountName(t *testing.T) {
	f := newFixture(t)
	token, _ := f.registerUser(t, "a@x.com", "pw1")

	code, body := f.do(t, http.MethodPatch, "/api/auth/update-account-name", token, map[string]string{"name": "  Savings "})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Savings", body["accountName"])

	code, body = f.do(t, http.MethodPatch, "/api/auth/update-account-name", token, map[string]string{"name": strings.Repeat("a", 150)})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, strings.Repeat("a", 100), body["accountName"])

	code, _ = f.do(t, http.MethodPatch, "/api/auth/update-account-name", token, map[string]string{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestPrivateKeyDisclosureFlow(t *testing.T) {
	f := newFixture(t)
	token, reg := f.registerUser(t, "a@x.com", "pw1")
	addr := reg["user"].(map[string]any)["walletAddress"]

	code, body := f.do(t, http.MethodGet, "/api/auth/private-key-status", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "locked", body["state"])

	code, _ = f.do(t, http.MethodPost, "/api/auth/verify-for-private-key", token, map[string]string{"password": ""})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body = f.do(t, http.MethodGet, "/api/auth/private-key-status", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "authorizing", body["state"])

	code, _ = f.do(t, http.MethodPost, "/api/auth/verify-for-private-key", token, map[string]string{"password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body = f.do(t, http.MethodPost, "/api/auth/verify-for-private-key", token, map[string]string{"password": "pw1"})
	require.Equal(t, http.StatusOK, code)
	key := body["privateKey"].(string)
	derived, err := wallet.AddressFromPrivateKey(key)
	require.NoError(t, err)
	assert.Equal(t, addr, derived)
	assert.Equal(t, epoch.Add(disclosure.RevealWindow).Format(time.RFC3339), body["expiresAt"])

	code, body = f.do(t, http.MethodGet, "/api/auth/private-key-status", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "unlocked", body["state"])

	f.clock.SetTime(epoch.Add(61 * time.Second))
	code, body = f.do(t, http.MethodGet, "/api/auth/private-key-status", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "locked", body["state"])
	assert.NotContains(t, body, "expiresAt")

	code, _ = f.do(t, http.MethodPost, "/api/auth/verify-for-private-key", token, map[string]string{"password": ""})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestHidePrivateKey(t *testing.T) {
	f := newFixture(t)
	token, _ := f.registerUser(t, "a@x.com", "pw1")

	code, _ := f.do(t, http.MethodPost, "/api/auth/verify-for-private-key", token, map[string]string{"password": "pw1"})
	require.Equal(t, http.StatusOK, code)

	code, _ = f.do(t, http.MethodPost, "/api/auth/hide-private-key", token, nil)
	assert.Equal(t, http.StatusNoContent, code)

	_, body := f.do(t, http.MethodGet, "/api/auth/private-key-status", token, nil)
	assert.Equal(t, "locked", body["state"])
}

func TestRevealRecoveryPhrase(t *testing.T) {
	f := newFixture(t)
	token, _ := f.registerUser(t, "a@x.com", "pw1")

	code, _ := f.do(t, http.MethodPost, "/api/auth/reveal-recovery-phrase", token, map[string]string{"password": "pw1", "acknowledgement": "ok"})
	assert.Equal(t, http.StatusPreconditionFailed, code)

	code, _ = f.do(t, http.MethodPost, "/api/auth/reveal-recovery-phrase", token, map[string]string{"password": "bad", "acknowledgement": disclosure.AckCannotRecover})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := f.do(t, http.MethodPost, "/api/auth/reveal-recovery-phrase", token, map[string]string{"password": "pw1", "acknowledgement": disclosure.AckCannotRecover})
	assert.Equal(t, http.StatusGone, code)
	assert.NotContains(t, body, "recoveryPhrase")
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{common.ErrValidation, http.StatusBadRequest},
		{common.ErrInvalidName, http.StatusBadRequest},
		{common.ErrInvalidCredentials, http.StatusUnauthorized},
		{common.ErrIncorrectPassword, http.StatusUnauthorized},
		{common.ErrReauthenticationRequired, http.StatusUnauthorized},
		{common.ErrInvalidToken, http.StatusForbidden},
		{common.ErrRiskNotAcknowledged, http.StatusPreconditionFailed},
		{common.ErrorNotFound, http.StatusNotFound},
		{common.ErrDuplicateAccount, http.StatusConflict},
		{common.ErrMnemonicNotRetained, http.StatusGone},
		{errors.Join(common.ErrStorageUnavailable, errors.New("dial tcp: refused")), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		code, msg := statusFor(c.err)
		assert.Equal(t, c.code, code, "%v", c.err)
		assert.NotContains(t, msg, "dial tcp")
	}
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	code, body := f.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestServe_StopsOnCancel(t *testing.T) {
	f := newFixture(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
