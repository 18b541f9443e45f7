package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/spinvault/backend/internal/services/auth"
)

type ctxKey int

const claimsKey ctxKey = iota

// authClaims returns the verified token claims the middleware stored, or nil
// on an unauthenticated request.
func authClaims(r *http.Request) *auth.TokenClaims {
	claims, _ := r.Context().Value(claimsKey).(*auth.TokenClaims)
	return claims
}

// requireAuth verifies the bearer access token and injects its claims into
// the request context.
func (h *HandlerProvider) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "access token required")
			return
		}

		claims, err := h.auth.VerifyAccess(token)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				writeError(w, http.StatusUnauthorized, "token expired")
				return
			}

			writeError(w, http.StatusForbidden, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
