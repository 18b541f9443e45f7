package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/spinvault/backend/internal/repos/users"
	"github.com/spinvault/backend/internal/services/spin"
)

type segmentView struct {
	Index  int     `json:"index"`
	Type   string  `json:"type"`
	Value  int64   `json:"value"`
	Symbol *string `json:"symbol,omitempty"`
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
	Color  *string `json:"colorHex,omitempty"`
	Icon   *string `json:"iconUrl,omitempty"`
}

// ConfigurationHandler handles GET /api/spin/configuration
func (h *HandlerProvider) ConfigurationHandler(w http.ResponseWriter, r *http.Request) {
	table, err := h.spin.Configuration(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get wheel configuration")
		return
	}

	view := make([]segmentView, 0, len(table))
	for _, seg := range table {
		view = append(view, segmentView{
			Index:  seg.SegmentIndex,
			Type:   string(seg.RewardType),
			Value:  seg.RewardValue,
			Symbol: seg.Symbol,
			Label:  seg.Label,
			Weight: seg.Weight,
			Color:  seg.ColorHex,
			Icon:   seg.IconURL,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"config": view})
}

// ExecuteSpinHandler handles POST /api/spin/execute
func (h *HandlerProvider) ExecuteSpinHandler(w http.ResponseWriter, r *http.Request) {
	claims := authClaims(r)

	result, err := h.spin.Execute(r.Context(), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, spin.ErrInsufficientSpins):
			writeError(w, http.StatusBadRequest, "insufficient spins")
		case errors.Is(err, users.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to execute spin")
		}

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"result": map[string]any{
			"index":   result.Outcome.SegmentIndex,
			"type":    string(result.Outcome.RewardType),
			"value":   result.Outcome.RewardValue,
			"symbol":  result.Outcome.Symbol,
			"message": result.Outcome.Message,
		},
		"spinsBalance": result.SpinsBalance,
		"totalRewards": result.TotalRewards,
	})
}

// DailyClaimHandler handles POST /api/spin/daily-claim
func (h *HandlerProvider) DailyClaimHandler(w http.ResponseWriter, r *http.Request) {
	claims := authClaims(r)

	result, err := h.spin.ClaimDaily(r.Context(), claims.UserID)
	if err != nil {
		var claimed *spin.DailyClaimedError
		if errors.As(err, &claimed) {
			writeJSON(w, http.StatusTooManyRequests, map[string]string{
				"error":       "daily spin already claimed",
				"nextClaimAt": claimed.NextClaimAt.UTC().Format(time.RFC3339),
			})

			return
		}

		if errors.Is(err, users.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}

		writeError(w, http.StatusInternalServerError, "failed to claim daily spin")

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":      "daily free spin claimed",
		"spinsBalance": result.SpinsBalance,
	})
}

// HistoryHandler handles GET /api/spin/history?limit=
func (h *HandlerProvider) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	claims := authClaims(r)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}

		limit = parsed
	}

	history, err := h.spin.History(r.Context(), claims.UserID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get spin history")
		return
	}

	type entry struct {
		Result      string  `json:"result"`
		RewardType  string  `json:"rewardType"`
		RewardValue int64   `json:"rewardValue"`
		Symbol      *string `json:"symbol,omitempty"`
		CreatedAt   string  `json:"createdAt"`
	}

	view := make([]entry, 0, len(history))
	for _, rec := range history {
		view = append(view, entry{
			Result:      rec.Result,
			RewardType:  rec.RewardType,
			RewardValue: rec.RewardValue,
			Symbol:      rec.Symbol,
			CreatedAt:   rec.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"history": view})
}
