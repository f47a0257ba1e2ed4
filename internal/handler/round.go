package handler

import (
	"net/http"

	"github.com/caddieai/caddie/internal/model"
	"github.com/caddieai/caddie/internal/response"
	"github.com/caddieai/caddie/internal/service"
	"github.com/caddieai/caddie/internal/validation"
)

type RoundHandler struct {
	roundService *service.RoundService
}

func NewRoundHandler(roundService *service.RoundService) *RoundHandler {
	return &RoundHandler{
		roundService: roundService,
	}
}

type currentHoleRequest struct {
	HoleNumber int `json:"hole_number"`
}

func (h *RoundHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req service.StartRoundInput
	if !decodeJSON(w, r, &req) {
		return
	}

	round, err := h.roundService.Start(userID(r), req)
	if err != nil {
		handleError(w, r, err, "failed to start round", "user_id", userID(r), "course_id", req.CourseID)
		return
	}

	response.Created(w, round)
}

func (h *RoundHandler) Active(w http.ResponseWriter, r *http.Request) {
	round, err := h.roundService.Active(userID(r))
	if err != nil {
		handleError(w, r, err, "failed to get active round", "user_id", userID(r))
		return
	}

	response.OK(w, round)
}

// List returns the user's rounds, newest first: ?status=&page=&page_size=
func (h *RoundHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.roundService.List(
		userID(r),
		r.URL.Query().Get("status"),
		queryInt(r, "page", 1),
		queryInt(r, "page_size", 0),
	)
	if err != nil {
		handleError(w, r, err, "failed to list rounds", "user_id", userID(r))
		return
	}

	response.OK(w, page)
}

func (h *RoundHandler) Get(w http.ResponseWriter, r *http.Request) {
	round, err := h.roundService.Get(userID(r), r.PathValue("id"))
	if err != nil {
		handleError(w, r, err, "failed to get round", "user_id", userID(r), "round_id", r.PathValue("id"))
		return
	}

	response.OK(w, round)
}

func (h *RoundHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateRoundInput
	if !decodeJSON(w, r, &req) {
		return
	}

	round, err := h.roundService.Update(userID(r), r.PathValue("id"), req)
	if err != nil {
		handleError(w, r, err, "failed to update round", "user_id", userID(r), "round_id", r.PathValue("id"))
		return
	}

	response.OK(w, round)
}

func (h *RoundHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.roundService.Delete(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		handleError(w, r, err, "failed to delete round", "user_id", userID(r), "round_id", r.PathValue("id"))
		return
	}

	response.Message(w, "Round deleted")
}

func (h *RoundHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.roundService.Pause)
}

func (h *RoundHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.roundService.Resume)
}

func (h *RoundHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.roundService.Complete)
}

func (h *RoundHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.roundService.Abandon)
}

func (h *RoundHandler) transition(w http.ResponseWriter, r *http.Request, apply func(userID, roundID string) (*model.Round, error)) {
	round, err := apply(userID(r), r.PathValue("id"))
	if err != nil {
		handleError(w, r, err, "failed to change round status", "user_id", userID(r), "round_id", r.PathValue("id"))
		return
	}

	response.OK(w, round)
}

func (h *RoundHandler) UpdateCurrentHole(w http.ResponseWriter, r *http.Request) {
	var req currentHoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	round, err := h.roundService.UpdateCurrentHole(userID(r), r.PathValue("id"), req.HoleNumber)
	if err != nil {
		handleError(w, r, err, "failed to update current hole", "user_id", userID(r), "round_id", r.PathValue("id"))
		return
	}

	response.OK(w, round)
}

func (h *RoundHandler) UploadScorecard(w http.ResponseWriter, r *http.Request) {
	upload, cleanup, ok := readUpload(w, r, validation.ScorecardConstraints)
	if !ok {
		return
	}
	defer cleanup()

	round, err := h.roundService.UploadScorecard(r.Context(), userID(r), r.PathValue("id"), upload)
	if err != nil {
		handleError(w, r, err, "failed to upload scorecard", "user_id", userID(r), "round_id", r.PathValue("id"))
		return
	}

	response.OK(w, round)
}
