package api

import (
	"errors"
	"net/http"

	"github.com/spinvault/backend/internal/repos/users"
	"github.com/spinvault/backend/internal/services/auth"
)

type userSummary struct {
	ID           uint64  `json:"id"`
	WalletAddr   string  `json:"walletAddress"`
	Username     *string `json:"username,omitempty"`
	SpinsBalance int64   `json:"spinsBalance"`
	TotalSpins   int64   `json:"totalSpins"`
	TotalRewards int64   `json:"totalRewards"`
}

func summarize(u *users.User) userSummary {
	return userSummary{
		ID:           u.ID,
		WalletAddr:   u.WalletAddress,
		Username:     u.Username,
		SpinsBalance: u.SpinsBalance,
		TotalSpins:   u.TotalSpins,
		TotalRewards: u.TotalRewards,
	}
}

// NonceHandler handles GET /api/auth/nonce?wallet=...
func (h *HandlerProvider) NonceHandler(w http.ResponseWriter, r *http.Request) {
	wallet := r.URL.Query().Get("wallet")
	if wallet == "" {
		writeError(w, http.StatusBadRequest, "wallet address required")
		return
	}

	nonce, err := h.auth.Challenge(r.Context(), wallet)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate nonce")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"nonce": nonce})
}

// LoginHandler handles POST /api/auth/login
func (h *HandlerProvider) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WalletAddress string `json:"walletAddress"`
		Signature     string `json:"signature"`
	}

	if !decodeBody(w, r, &req) {
		return
	}

	if req.WalletAddress == "" || req.Signature == "" {
		writeError(w, http.StatusBadRequest, "wallet address and signature required")
		return
	}

	result, err := h.auth.Login(r.Context(), req.WalletAddress, req.Signature)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrNonceNotFound):
			writeError(w, http.StatusBadRequest, "nonce not found or expired, request a new nonce")
		case errors.Is(err, auth.ErrNonceExpired):
			writeError(w, http.StatusBadRequest, "nonce expired, request a new nonce")
		case errors.Is(err, auth.ErrInvalidSignature):
			writeError(w, http.StatusUnauthorized, "invalid signature")
		default:
			writeError(w, http.StatusInternalServerError, "login failed")
		}

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"accessToken":  result.AccessToken,
		"refreshToken": result.RefreshToken,
		"user":         summarize(result.User),
	})
}

// RefreshHandler handles POST /api/auth/refresh
func (h *HandlerProvider) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}

	if !decodeBody(w, r, &req) {
		return
	}

	if req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "refresh token required")
		return
	}

	accessToken, err := h.auth.Refresh(req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			writeError(w, http.StatusUnauthorized, "refresh token expired, log in again")
			return
		}

		writeError(w, http.StatusForbidden, "invalid refresh token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"accessToken": accessToken})
}

// MeHandler handles GET /api/user/me
func (h *HandlerProvider) MeHandler(w http.ResponseWriter, r *http.Request) {
	claims := authClaims(r)

	user, err := h.users.GetByWallet(r.Context(), claims.Wallet)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}

		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": summarize(user)})
}
