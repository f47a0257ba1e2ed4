package handler

import (
	"net/http"

	"github.com/caddieai/caddie/internal/model"
	"github.com/caddieai/caddie/internal/response"
	"github.com/caddieai/caddie/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// authResult is returned by every endpoint that signs a user in.
type authResult struct {
	User   *model.User      `json:"user"`
	Tokens *model.TokenPair `json:"tokens"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type googleRequest struct {
	Code         string `json:"code"`
	RedirectURI  string `json:"redirect_uri"`
	CodeVerifier string `json:"code_verifier"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if !decodeJSON(w, r, &req) {
		return
	}

	user, tokens, err := h.authService.Register(req)
	if err != nil {
		handleError(w, r, err, "failed to register user")
		return
	}

	response.Created(w, authResult{User: user, Tokens: tokens})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, tokens, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		handleError(w, r, err, "failed to log in")
		return
	}

	response.OK(w, authResult{User: user, Tokens: tokens})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, tokens, err := h.authService.Refresh(req.RefreshToken)
	if err != nil {
		handleError(w, r, err, "failed to refresh token")
		return
	}

	response.OK(w, authResult{User: user, Tokens: tokens})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.authService.Logout(req.RefreshToken)
	if err != nil {
		handleError(w, r, err, "failed to log out")
		return
	}

	response.Message(w, "Logged out")
}

// Google completes the mobile app's PKCE sign-in.
func (h *AuthHandler) Google(w http.ResponseWriter, r *http.Request) {
	var req googleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, tokens, err := h.authService.GoogleSignIn(r.Context(), req.Code, req.RedirectURI, req.CodeVerifier)
	if err != nil {
		handleError(w, r, err, "failed google sign-in")
		return
	}

	response.OK(w, authResult{User: user, Tokens: tokens})
}
