package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/papertrade/papertrade/internal/common"
	"github.com/papertrade/papertrade/internal/interfaces"
	"github.com/papertrade/papertrade/internal/trading"
)

// BearerToken extracts the bearer token from the Authorization header.
// Both "Authorization: <token>" and "Authorization: Bearer <token>" are
// accepted; existing clients send the raw token.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return strings.TrimSpace(header)
}

// Authenticate resolves the request's bearer token to a user id.
// On failure it writes the 401 response and returns ok=false. A missing
// header short-circuits before any call to the identity service.
func Authenticate(w http.ResponseWriter, r *http.Request, verifier interfaces.IdentityVerifier, logger *common.Logger) (string, bool) {
	token := BearerToken(r)
	if token == "" {
		WriteError(w, http.StatusUnauthorized, "No token provided")
		return "", false
	}

	userID, err := verifier.VerifyToken(r.Context(), token)
	if err != nil {
		if logger != nil && !errors.Is(err, trading.ErrInvalidToken) {
			logger.Warn().Str("error", err.Error()).Msg("token verification failed")
		}
		WriteError(w, http.StatusUnauthorized, "Invalid token")
		return "", false
	}

	return userID, true
}
