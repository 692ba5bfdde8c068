// Package httpapi exposes the wallet account service as a JSON/HTTP API.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/walletkeeper/internal/logging"
	"github.com/dmitrijs2005/walletkeeper/internal/server/disclosure"
	"github.com/dmitrijs2005/walletkeeper/internal/server/services"
)

// maxBodyBytes caps every request body.
const maxBodyBytes = 1 << 20

type HTTPServer struct {
	address         string
	accounts        *services.AccountService
	disclosure      *disclosure.Controller
	logger          logging.Logger
	shutdownTimeout time.Duration
}

func NewHTTPServer(a string, l logging.Logger, as *services.AccountService, dc *disclosure.Controller, shutdownTimeout time.Duration) *HTTPServer {
	return &HTTPServer{
		address:         a,
		logger:          l.With("module", "http_server"),
		accounts:        as,
		disclosure:      dc,
		shutdownTimeout: shutdownTimeout,
	}
}

// Handler returns the routed API.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", s.register)
	mux.HandleFunc("POST /api/auth/login", s.login)

	mux.Handle("GET /api/auth/me", s.requireToken(s.me))
	mux.Handle("GET /api/auth/wallet-address", s.requireToken(s.walletAddress))
	mux.Handle("PATCH /api/auth/update-account-name", s.requireToken(s.updateAccountName))
	mux.Handle("POST /api/auth/verify-for-private-key", s.requireToken(s.revealPrivateKey))
	mux.Handle("POST /api/auth/hide-private-key", s.requireToken(s.hidePrivateKey))
	mux.Handle("GET /api/auth/private-key-status", s.requireToken(s.privateKeyStatus))
	mux.Handle("POST /api/auth/reveal-recovery-phrase", s.requireToken(s.revealRecoveryPhrase))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})

	return s.logRequests(limitBody(mux))
}

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most the shutdown timeout.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener.
func (s *HTTPServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())
		errCh <- srv.Serve(listen)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
