package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"github.com/dmitrijs2005/walletkeeper/internal/server/disclosure"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// decode reads the JSON body into out, writing the error response itself
// when the body is unusable.
func decode(w http.ResponseWriter, r *http.Request, out any) bool {
	err := decodeJSON(r, out)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeErr(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return false
	}
	writeErr(w, http.StatusBadRequest, "Invalid request body")
	return false
}

// POST /api/auth/register
func (s *HTTPServer) register(w http.ResponseWriter, r *http.Request) {
	var in credentialsRequest
	if !decode(w, r, &in) {
		return
	}

	reg, err := s.accounts.Register(r.Context(), in.Email, in.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":        "User registered successfully",
		"token":          reg.Token,
		"recoveryPhrase": reg.Mnemonic,
		"user": map[string]any{
			"id":            reg.Profile.ID,
			"email":         reg.Profile.Email,
			"walletAddress": reg.Profile.WalletAddress,
		},
	})
}

// POST /api/auth/login
func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	var in credentialsRequest
	if !decode(w, r, &in) {
		return
	}

	sess, err := s.accounts.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   sess.Token,
		"user": map[string]any{
			"id":    sess.Profile.ID,
			"email": sess.Profile.Email,
		},
	})
}

// GET /api/auth/me
func (s *HTTPServer) me(w http.ResponseWriter, r *http.Request) {
	p, err := s.accounts.Me(r.Context(), claimsFrom(r.Context()).AccountID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":            p.ID,
		"email":         p.Email,
		"accountName":   p.AccountName,
		"walletAddress": p.WalletAddress,
	})
}

// GET /api/auth/wallet-address
func (s *HTTPServer) walletAddress(w http.ResponseWriter, r *http.Request) {
	addr, err := s.accounts.WalletAddress(r.Context(), claimsFrom(r.Context()).AccountID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"walletAddress": addr})
}

// PATCH /api/auth/update-account-name
func (s *HTTPServer) updateAccountName(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name string `json:"name"`
	}
	if !decode(w, r, &in) {
		return
	}

	ctx := r.Context()
	name, err := s.accounts.UpdateAccountName(ctx, claimsFrom(ctx).AccountID, tokenFrom(ctx), in.Name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "accountName": name})
}

// POST /api/auth/verify-for-private-key
func (s *HTTPServer) revealPrivateKey(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Password string `json:"password"`
	}
	if !decode(w, r, &in) {
		return
	}

	d, err := s.disclosure.RevealPrivateKey(r.Context(), claimsFrom(r.Context()).AccountID, in.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"privateKey": d.PrivateKey,
		"expiresAt":  d.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// POST /api/auth/hide-private-key
func (s *HTTPServer) hidePrivateKey(w http.ResponseWriter, r *http.Request) {
	if err := s.disclosure.Hide(r.Context(), claimsFrom(r.Context()).AccountID); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/auth/private-key-status
func (s *HTTPServer) privateKeyStatus(w http.ResponseWriter, r *http.Request) {
	state, expiresAt, err := s.disclosure.Status(r.Context(), claimsFrom(r.Context()).AccountID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	out := map[string]any{"state": state.String()}
	if state == disclosure.Unlocked {
		out["expiresAt"] = expiresAt.UTC().Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /api/auth/reveal-recovery-phrase
func (s *HTTPServer) revealRecoveryPhrase(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Password        string `json:"password"`
		Acknowledgement string `json:"acknowledgement"`
	}
	if !decode(w, r, &in) {
		return
	}

	err := s.disclosure.RevealRecoveryPhrase(r.Context(), claimsFrom(r.Context()).AccountID, in.Acknowledgement, in.Password)
	if err == nil {
		// The controller never hands the phrase out after registration.
		err = common.ErrMnemonicNotRetained
	}
	s.fail(w, r, err)
}
