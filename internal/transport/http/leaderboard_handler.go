package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"arith-recall/internal/app"
	"arith-recall/internal/domain"
)

type leaderboardHandler struct {
	service *app.GameService
}

// addEntryRequest uses pointers so a missing field is distinguishable from a zero value.
type addEntryRequest struct {
	Name      *string  `json:"name"`
	Score     *int     `json:"score"`
	TotalTime *float64 `json:"totalTime"`
}

func (h *leaderboardHandler) list(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Leaderboard(r.Context()))
}

func (h *leaderboardHandler) add(w http.ResponseWriter, r *http.Request) {
	var req addEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, badRequest("malformed leaderboard entry"))
		return
	}
	switch {
	case req.Name == nil:
		writeError(w, r, badRequest("name is required"))
		return
	case req.Score == nil:
		writeError(w, r, badRequest("score is required"))
		return
	case req.TotalTime == nil:
		writeError(w, r, badRequest("totalTime is required"))
		return
	}

	_, err := h.service.AddEntry(r.Context(), domain.LeaderboardEntry{
		Name:      *req.Name,
		Score:     *req.Score,
		TotalTime: *req.TotalTime,
	})
	// storage failures are absorbed by the leaderboard; only validation errors surface
	if errors.Is(err, domain.ErrInvalidEntry) {
		writeError(w, r, badRequest(err.Error()))
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
