package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/draftlab/draft-api/internal/models"
)

// IngestDrafts handles POST /api/v1/ingest/drafts
// @Summary Ingest Draft Telemetry
// @Description Accepts newline-separated JSON draft events from match collectors
// @Tags Ingestion
// @Accept json
// @Produce json
// @Param body body []models.DraftEvent true "Events"
// @Success 202 {object} map[string]int "Accepted"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /ingest/drafts [post]
func (h *Handler) IngestDrafts(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.errorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	defer r.Body.Close()

	accepted := 0
	dropped := 0
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var event models.DraftEvent
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			h.logger.Warnw("Failed to unmarshal draft event", "error", err)
			dropped++
			continue
		}
		if err := h.validator.Struct(&event); err != nil {
			h.logger.Warnw("Draft event failed validation", "error", err, "match", event.MatchID)
			dropped++
			continue
		}
		if event.Type == models.EventDraftAction && event.Entity == "" {
			h.logger.Warnw("Draft action without entity", "match", event.MatchID)
			dropped++
			continue
		}

		if h.pool.Enqueue(&event) {
			accepted++
		} else {
			dropped++
		}
	}

	if accepted == 0 && dropped > 0 {
		h.errorResponse(w, http.StatusBadRequest, "No valid events in batch")
		return
	}

	h.jsonResponse(w, http.StatusAccepted, map[string]int{
		"accepted": accepted,
		"dropped":  dropped,
	})
}
