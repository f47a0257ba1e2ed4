package handler

import (
	"net/http"

	"github.com/caddieai/caddie/internal/response"
	"github.com/caddieai/caddie/internal/service"
)

type StatsHandler struct {
	statsService *service.StatsService
}

func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

func (h *StatsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.statsService.Summary(userID(r))
	if err != nil {
		handleError(w, r, err, "failed to compute statistics", "user_id", userID(r))
		return
	}

	response.OK(w, summary)
}

func (h *StatsHandler) Trend(w http.ResponseWriter, r *http.Request) {
	points, err := h.statsService.Trend(userID(r), queryInt(r, "limit", service.DefaultTrendRounds))
	if err != nil {
		handleError(w, r, err, "failed to compute trend", "user_id", userID(r))
		return
	}

	response.OK(w, points)
}

func (h *StatsHandler) Round(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.RoundStats(userID(r), r.PathValue("id"))
	if err != nil {
		handleError(w, r, err, "failed to compute round statistics", "user_id", userID(r), "round_id", r.PathValue("id"))
		return
	}

	response.OK(w, stats)
}
