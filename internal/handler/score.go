package handler

import (
	"net/http"

	"github.com/caddieai/caddie/internal/response"
	"github.com/caddieai/caddie/internal/service"
)

type ScoreHandler struct {
	scoreService *service.ScoreService
}

func NewScoreHandler(scoreService *service.ScoreService) *ScoreHandler {
	return &ScoreHandler{
		scoreService: scoreService,
	}
}

// Record creates or replaces the score for /api/round/{id}/holes/{hole}/score.
func (h *ScoreHandler) Record(w http.ResponseWriter, r *http.Request) {
	hole, ok := pathInt(w, r, "hole")
	if !ok {
		return
	}

	var req service.RecordScoreInput
	if !decodeJSON(w, r, &req) {
		return
	}

	score, err := h.scoreService.RecordScore(userID(r), r.PathValue("id"), hole, req)
	if err != nil {
		handleError(w, r, err, "failed to record score", "user_id", userID(r), "round_id", r.PathValue("id"), "hole", hole)
		return
	}

	response.OK(w, score)
}

func (h *ScoreHandler) List(w http.ResponseWriter, r *http.Request) {
	scores, err := h.scoreService.Scores(userID(r), r.PathValue("id"))
	if err != nil {
		handleError(w, r, err, "failed to list scores", "user_id", userID(r), "round_id", r.PathValue("id"))
		return
	}

	response.OK(w, scores)
}
