package api

import (
	"errors"
	"net/http"

	"github.com/spinvault/backend/internal/services/payment"
)

// PackagesHandler handles GET /api/payment/packages
func (h *HandlerProvider) PackagesHandler(w http.ResponseWriter, _ *http.Request) {
	type packageView struct {
		ID            int    `json:"id"`
		Name          string `json:"name"`
		Spins         int64  `json:"spins"`
		PriceLamports int64  `json:"priceLamports"`
		PriceSOL      string `json:"priceSol"`
	}

	packages := h.payment.Packages()

	view := make([]packageView, 0, len(packages))
	for _, p := range packages {
		view = append(view, packageView{
			ID:            p.ID,
			Name:          p.Name,
			Spins:         p.Spins,
			PriceLamports: p.PriceLamports,
			PriceSOL:      p.PriceSOL().String(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"packages":       view,
		"treasuryWallet": h.payment.TreasuryWallet(),
	})
}

// PurchaseHandler handles POST /api/payment/purchase-spins
func (h *HandlerProvider) PurchaseHandler(w http.ResponseWriter, r *http.Request) {
	claims := authClaims(r)

	var req struct {
		TxSignature string `json:"txSignature"`
		PackageID   int    `json:"packageId"`
	}

	if !decodeBody(w, r, &req) {
		return
	}

	if req.TxSignature == "" || req.PackageID == 0 {
		writeError(w, http.StatusBadRequest, "transaction signature and package id required")
		return
	}

	receipt, err := h.payment.Purchase(r.Context(), claims.UserID, claims.Wallet, req.TxSignature, req.PackageID)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrUnknownPackage):
			writeError(w, http.StatusBadRequest, "invalid package id")
		case errors.Is(err, payment.ErrDuplicateTransaction):
			writeError(w, http.StatusConflict, "transaction already processed")
		case errors.Is(err, payment.ErrLedgerUnavailable):
			writeError(w, http.StatusServiceUnavailable, "payment verification temporarily unavailable, try again")
		case errors.Is(err, payment.ErrTransactionNotFound),
			errors.Is(err, payment.ErrTransactionFailed),
			errors.Is(err, payment.ErrSenderMismatch),
			errors.Is(err, payment.ErrReceiverMismatch),
			errors.Is(err, payment.ErrInsufficientPayment):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to process purchase")
		}

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":      "purchase completed",
		"spinsBalance": receipt.SpinsBalance,
		"transaction": map[string]any{
			"signature":  receipt.TxSignature,
			"amount":     receipt.Amount,
			"spinsAdded": receipt.SpinsAdded,
		},
	})
}
