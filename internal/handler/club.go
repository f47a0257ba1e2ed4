package handler

import (
	"net/http"

	"github.com/caddieai/caddie/internal/response"
	"github.com/caddieai/caddie/internal/service"
)

type ClubHandler struct {
	clubService *service.ClubService
}

func NewClubHandler(clubService *service.ClubService) *ClubHandler {
	return &ClubHandler{
		clubService: clubService,
	}
}

func (h *ClubHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req service.RecommendInput
	if !decodeJSON(w, r, &req) {
		return
	}

	rec, err := h.clubService.Recommend(userID(r), req)
	if err != nil {
		handleError(w, r, err, "failed to recommend club", "user_id", userID(r))
		return
	}

	response.Created(w, rec)
}

func (h *ClubHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	var req service.FeedbackInput
	if !decodeJSON(w, r, &req) {
		return
	}

	rec, err := h.clubService.Feedback(userID(r), r.PathValue("id"), req)
	if err != nil {
		handleError(w, r, err, "failed to save club feedback", "user_id", userID(r), "recommendation_id", r.PathValue("id"))
		return
	}

	response.OK(w, rec)
}

// List returns recent recommendations, optionally for one round: ?round_id=
func (h *ClubHandler) List(w http.ResponseWriter, r *http.Request) {
	recs, err := h.clubService.List(userID(r), r.URL.Query().Get("round_id"))
	if err != nil {
		handleError(w, r, err, "failed to list club recommendations", "user_id", userID(r))
		return
	}

	response.OK(w, recs)
}
