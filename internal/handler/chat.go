package handler

import (
	"net/http"

	"github.com/caddieai/caddie/internal/response"
	"github.com/caddieai/caddie/internal/service"
)

type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

type sendMessageRequest struct {
	Message string `json:"message"`
}

func (h *ChatHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req service.CreateSessionInput
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.chatService.CreateSession(userID(r), req)
	if err != nil {
		handleError(w, r, err, "failed to create chat session", "user_id", userID(r))
		return
	}

	response.Created(w, session)
}

func (h *ChatHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.chatService.Sessions(userID(r))
	if err != nil {
		handleError(w, r, err, "failed to list chat sessions", "user_id", userID(r))
		return
	}

	response.OK(w, sessions)
}

func (h *ChatHandler) Session(w http.ResponseWriter, r *http.Request) {
	session, err := h.chatService.Session(userID(r), r.PathValue("id"))
	if err != nil {
		handleError(w, r, err, "failed to get chat session", "user_id", userID(r), "session_id", r.PathValue("id"))
		return
	}

	response.OK(w, session)
}

func (h *ChatHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	err := h.chatService.DeleteSession(userID(r), r.PathValue("id"))
	if err != nil {
		handleError(w, r, err, "failed to delete chat session", "user_id", userID(r), "session_id", r.PathValue("id"))
		return
	}

	response.Message(w, "Chat session deleted")
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	exchange, err := h.chatService.SendMessage(r.Context(), userID(r), r.PathValue("id"), req.Message)
	if err != nil {
		handleError(w, r, err, "failed to send chat message", "user_id", userID(r), "session_id", r.PathValue("id"))
		return
	}

	response.Created(w, exchange)
}
