package handlers

import (
	"net/http"

	"github.com/draftlab/draft-api/internal/models"
)

// AnalyzeDraft handles POST /api/v1/draft/analyze
// @Summary Analyze Draft State
// @Description Returns win probabilities, ranked suggestions for the active turn, and composition analysis for both sides
// @Tags Draft
// @Accept json
// @Produce json
// @Param body body models.AnalyzeRequest true "Draft state"
// @Success 200 {object} models.DraftAnalysis
// @Router /draft/analyze [post]
func (h *Handler) AnalyzeDraft(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	analysis := h.assistant.Analyze(&req.State)
	h.jsonResponse(w, http.StatusOK, analysis)
}

// PredictWin handles POST /api/v1/draft/predict
// @Summary Predict Win Probability
// @Description Returns both sides' win probabilities with the factor breakdown
// @Tags Draft
// @Accept json
// @Produce json
// @Param body body models.AnalyzeRequest true "Draft state"
// @Success 200 {object} models.WinPrediction
// @Router /draft/predict [post]
func (h *Handler) PredictWin(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	prediction := h.assistant.Engine().PredictWinProbability(&req.State)
	h.jsonResponse(w, http.StatusOK, prediction)
}

// RecommendPicks handles POST /api/v1/draft/recommend/picks
// @Summary Recommend Picks
// @Description Returns ranked pick suggestions for a side
// @Tags Draft
// @Accept json
// @Produce json
// @Param body body models.RecommendRequest true "Draft state, side, optional candidate pool"
// @Success 200 {array} models.DraftRecommendation
// @Router /draft/recommend/picks [post]
func (h *Handler) RecommendPicks(w http.ResponseWriter, r *http.Request) {
	var req models.RecommendRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	pool := h.candidatePool(&req)
	recs := h.assistant.Engine().RecommendPick(&req.State, req.Side, pool)
	h.jsonResponse(w, http.StatusOK, recs)
}

// RecommendBans handles POST /api/v1/draft/recommend/bans
// @Summary Recommend Bans
// @Description Returns ranked ban suggestions for a side, ordered by opponent threat
// @Tags Draft
// @Accept json
// @Produce json
// @Param body body models.RecommendRequest true "Draft state, side, optional candidate pool"
// @Success 200 {array} models.DraftRecommendation
// @Router /draft/recommend/bans [post]
func (h *Handler) RecommendBans(w http.ResponseWriter, r *http.Request) {
	var req models.RecommendRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	pool := h.candidatePool(&req)
	recs := h.assistant.Engine().RecommendBan(&req.State, req.Side, pool)
	h.jsonResponse(w, http.StatusOK, recs)
}

// candidatePool resolves the effective candidate pool for a recommendation
// request: the caller's pool with already-taken entities removed, or every
// open entity when the caller sent none.
func (h *Handler) candidatePool(req *models.RecommendRequest) []string {
	if len(req.Pool) == 0 {
		return h.assistant.AvailablePool(&req.State)
	}
	pool := make([]string, 0, len(req.Pool))
	for _, e := range req.Pool {
		if !req.State.Taken(e) {
			pool = append(pool, e)
		}
	}
	return pool
}

// GetEntities handles GET /api/v1/draft/entities
// @Summary List Known Entities
// @Description Returns per-entity aggregate stats from the historical corpus
// @Tags Draft
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /draft/entities [get]
func (h *Handler) GetEntities(w http.ResponseWriter, r *http.Request) {
	model := h.assistant.Model()
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"total_matches": model.TotalMatches(),
		"entities":      model.Stats(),
	})
}
