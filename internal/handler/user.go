package handler

import (
	"net/http"

	"github.com/caddieai/caddie/internal/response"
	"github.com/caddieai/caddie/internal/service"
	"github.com/caddieai/caddie/internal/validation"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.ByID(r.Context(), userID(r))
	if err != nil {
		handleError(w, r, err, "failed to load profile", "user_id", userID(r))
		return
	}

	response.OK(w, user)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateProfileInput
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID(r), req)
	if err != nil {
		handleError(w, r, err, "failed to update profile", "user_id", userID(r))
		return
	}

	response.OK(w, user)
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.userService.ChangePassword(userID(r), req.CurrentPassword, req.NewPassword)
	if err != nil {
		handleError(w, r, err, "failed to change password", "user_id", userID(r))
		return
	}

	response.Message(w, "Password updated")
}

func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	upload, cleanup, ok := readUpload(w, r, validation.ImageConstraints)
	if !ok {
		return
	}
	defer cleanup()

	user, err := h.userService.UploadAvatar(r.Context(), userID(r), upload)
	if err != nil {
		handleError(w, r, err, "failed to upload avatar", "user_id", userID(r))
		return
	}

	response.OK(w, user)
}

func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	err := h.userService.DeleteAccount(r.Context(), userID(r))
	if err != nil {
		handleError(w, r, err, "failed to delete account", "user_id", userID(r))
		return
	}

	response.Message(w, "Account deleted")
}
