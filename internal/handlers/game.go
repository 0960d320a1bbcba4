package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/draftlab/draft-api/internal/logic"
	"github.com/draftlab/draft-api/internal/models"
)

// StartSession handles POST /api/v1/game/session
// @Summary Start Game Session
// @Description Creates a new draft session against the simulated opponent
// @Tags Game
// @Accept json
// @Produce json
// @Param body body models.StartSessionRequest true "Player name and difficulty"
// @Success 201 {object} models.GameSession
// @Router /game/session [post]
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req models.StartSessionRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	sess, err := h.game.StartSession(req.PlayerName, req.Difficulty)
	if err != nil {
		if errors.Is(err, logic.ErrEmptyCorpus) {
			h.errorResponse(w, http.StatusServiceUnavailable, "No historical matches loaded")
			return
		}
		h.logger.Errorw("Failed to start session", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to start session")
		return
	}

	h.jsonResponse(w, http.StatusCreated, sess)
}

// GetSession handles GET /api/v1/game/session/{sessionID}
// @Summary Get Game Session
// @Description Returns the current session state
// @Tags Game
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} models.GameSession
// @Failure 404 {object} map[string]string "Not Found"
// @Router /game/session/{sessionID} [get]
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess, err := h.game.GetSession(sessionID)
	if err != nil {
		h.gameError(w, err)
		return
	}

	h.jsonResponse(w, http.StatusOK, sess)
}

// GetAvailableActions handles GET /api/v1/game/session/{sessionID}/actions
// @Summary Get Available Actions
// @Description Returns the current phase's action type, open entities, and difficulty-gated hints
// @Tags Game
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} models.AvailableActions
// @Failure 404 {object} map[string]string "Not Found"
// @Router /game/session/{sessionID}/actions [get]
func (h *Handler) GetAvailableActions(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	actions, err := h.game.GetAvailableActions(sessionID)
	if err != nil {
		h.gameError(w, err)
		return
	}

	h.jsonResponse(w, http.StatusOK, actions)
}

// SubmitMove handles POST /api/v1/game/session/{sessionID}/move
// @Summary Submit Move
// @Description Grades the player's pick or ban, simulates the opponent, and advances the session
// @Tags Game
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param body body models.SubmitMoveRequest true "Chosen entity and time taken"
// @Success 200 {object} models.MoveResult
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 422 {object} map[string]string "Invalid Move"
// @Router /game/session/{sessionID}/move [post]
func (h *Handler) SubmitMove(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req models.SubmitMoveRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	result, err := h.game.SubmitMove(r.Context(), sessionID, req.Entity, req.TimeTaken)
	if err != nil {
		h.gameError(w, err)
		return
	}

	h.jsonResponse(w, http.StatusOK, result)
}

// gameError maps game service errors to HTTP statuses.
func (h *Handler) gameError(w http.ResponseWriter, err error) {
	var invalidMove *logic.InvalidMoveError
	switch {
	case errors.Is(err, logic.ErrSessionNotFound):
		h.errorResponse(w, http.StatusNotFound, "Session not found")
	case errors.Is(err, logic.ErrSessionCompleted):
		h.errorResponse(w, http.StatusConflict, "Session already completed")
	case errors.As(err, &invalidMove):
		h.errorResponse(w, http.StatusUnprocessableEntity, invalidMove.Error())
	default:
		h.logger.Errorw("Game request failed", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Internal error")
	}
}
