package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

// statusFor maps a service error to a status code and a message safe to
// return to the caller. Wrapped causes never reach the response.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, "Email and password are required"
	case errors.Is(err, common.ErrInvalidName):
		return http.StatusBadRequest, "Valid name is required"
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, common.ErrIncorrectPassword):
		return http.StatusUnauthorized, "Incorrect password"
	case errors.Is(err, common.ErrReauthenticationRequired):
		return http.StatusUnauthorized, "Password is required"
	case errors.Is(err, common.ErrInvalidToken):
		return http.StatusForbidden, "Invalid or expired token"
	case errors.Is(err, common.ErrRiskNotAcknowledged):
		return http.StatusPreconditionFailed, "Risk acknowledgement required"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, common.ErrDuplicateAccount):
		return http.StatusConflict, "User already exists"
	case errors.Is(err, common.ErrMnemonicNotRetained):
		return http.StatusGone, "Recovery phrase is shown only once at registration"
	case errors.Is(err, common.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, "Service temporarily unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func (s *HTTPServer) fail(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeErr(w, code, msg)
}
