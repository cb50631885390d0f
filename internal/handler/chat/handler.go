// Package chat serves the chat history listing endpoints.
package chat

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	chatService "github.com/golfguiders/guiders-ai/backend/internal/service/chat"
	"github.com/golfguiders/guiders-ai/backend/pkg/utils"
)

// Handler exposes the history read-throughs.
type Handler struct {
	chatSvc *chatService.Service
}

func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat/all", h.handleAllChats)
	r.Post("/chat/messages", h.handleAllMessages)
}

func (h *Handler) handleAllChats(w http.ResponseWriter, r *http.Request) {
	if h.chatSvc == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "chat history not ready")
		return
	}

	var payload struct {
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	chats, err := h.chatSvc.AllChats(r.Context(), payload.UserID)
	if err != nil {
		utils.RespondError(w, chatService.StatusForError(err), err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, chats)
}

func (h *Handler) handleAllMessages(w http.ResponseWriter, r *http.Request) {
	if h.chatSvc == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "chat history not ready")
		return
	}

	var payload struct {
		ChatID string `json:"chat_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	messages, err := h.chatSvc.AllMessages(r.Context(), payload.ChatID)
	if err != nil {
		utils.RespondError(w, chatService.StatusForError(err), err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, messages)
}
