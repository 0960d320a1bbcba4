package handlers

import (
	"net/http"
	"strconv"
)

const maxLeaderboardLimit = 100

// GetLeaderboard handles GET /api/v1/game/leaderboard
// @Summary Get Leaderboard
// @Description Returns the top completed sessions ranked by total score
// @Tags Game
// @Produce json
// @Param limit query int false "Max entries (default 10, max 100)"
// @Success 200 {array} models.LeaderboardEntry
// @Router /game/leaderboard [get]
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.errorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}

	entries, err := h.game.Leaderboard(r.Context(), limit)
	if err != nil {
		h.logger.Errorw("Failed to load leaderboard", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to load leaderboard")
		return
	}

	h.jsonResponse(w, http.StatusOK, entries)
}
