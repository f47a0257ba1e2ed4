package handler

import (
	"net/http"

	"github.com/caddieai/caddie/internal/response"
	"github.com/caddieai/caddie/internal/service"
)

type LocationHandler struct {
	locationService *service.LocationService
}

func NewLocationHandler(locationService *service.LocationService) *LocationHandler {
	return &LocationHandler{
		locationService: locationService,
	}
}

func (h *LocationHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	var req service.LocationInput
	if !decodeJSON(w, r, &req) {
		return
	}

	location, err := h.locationService.UpdateLocation(userID(r), r.PathValue("id"), req)
	if err != nil {
		handleError(w, r, err, "failed to update location", "user_id", userID(r), "round_id", r.PathValue("id"))
		return
	}

	response.OK(w, location)
}

func (h *LocationHandler) PlaceShot(w http.ResponseWriter, r *http.Request) {
	var req service.PlaceShotInput
	if !decodeJSON(w, r, &req) {
		return
	}

	shot, err := h.locationService.PlaceShot(userID(r), r.PathValue("id"), req)
	if err != nil {
		handleError(w, r, err, "failed to place shot", "user_id", userID(r), "round_id", r.PathValue("id"))
		return
	}

	response.Created(w, shot)
}

// Shots lists shots for the round, or one hole with ?hole=.
func (h *LocationHandler) Shots(w http.ResponseWriter, r *http.Request) {
	shots, err := h.locationService.Shots(userID(r), r.PathValue("id"), queryInt(r, "hole", 0))
	if err != nil {
		handleError(w, r, err, "failed to list shots", "user_id", userID(r), "round_id", r.PathValue("id"))
		return
	}

	response.OK(w, shots)
}

func (h *LocationHandler) DeleteShot(w http.ResponseWriter, r *http.Request) {
	err := h.locationService.DeleteShot(userID(r), r.PathValue("id"), r.PathValue("shotId"))
	if err != nil {
		handleError(w, r, err, "failed to delete shot", "user_id", userID(r), "round_id", r.PathValue("id"))
		return
	}

	response.Message(w, "Shot deleted")
}
