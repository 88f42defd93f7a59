package httpapi

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"chat-core/auth"
	"chat-core/errors"
	"chat-core/services"
)

// ConversationHandler exposes the access and read-tracking operations over
// HTTP. Every route runs behind the bearer middleware, so the caller
// identity always comes from the request context, never from the payload.
type ConversationHandler struct {
	chat services.IChatService
	log  *slog.Logger
}

func NewConversationHandler(chat services.IChatService, log *slog.Logger) *ConversationHandler {
	return &ConversationHandler{chat: chat, log: log}
}

func (h *ConversationHandler) RegisterRoutes(r chi.Router) {
	r.Get("/conversations", h.list)
	r.Post("/conversations", h.getOrCreate)
	r.Get("/conversations/unread-counts", h.unreadCounts)
	r.Get("/conversations/{id}/messages", h.messages)
	r.Post("/conversations/{id}/messages", h.send)
	r.Put("/conversations/{id}/read", h.markRead)
}

type createConversationRequest struct {
	OtherParticipantID string `json:"otherParticipantId"`
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type markReadResponse struct {
	Updated int `json:"updated"`
}

func (h *ConversationHandler) list(w http.ResponseWriter, r *http.Request) {
	views, err := h.chat.ListConversations(r.Context(), auth.CallerID(r.Context()))
	if err != nil {
		h.log.Error("list conversations failed", "error", err)
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, views)
}

func (h *ConversationHandler) getOrCreate(w http.ResponseWriter, r *http.Request) {
	var req createConversationRequest
	if err := decodeBody(r.Body, &req); err != nil {
		respondError(w, errors.ErrInvalidIdentifier)
		return
	}
	view, err := h.chat.GetOrCreateConversation(r.Context(), auth.CallerID(r.Context()), req.OtherParticipantID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *ConversationHandler) unreadCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.chat.GetUnreadCounts(r.Context(), auth.CallerID(r.Context()))
	if err != nil {
		h.log.Error("unread counts failed", "error", err)
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, counts)
}

func (h *ConversationHandler) messages(w http.ResponseWriter, r *http.Request) {
	convID, err := conversationID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	views, err := h.chat.GetMessages(r.Context(), auth.CallerID(r.Context()), convID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, views)
}

func (h *ConversationHandler) send(w http.ResponseWriter, r *http.Request) {
	convID, err := conversationID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var req sendMessageRequest
	if err := decodeBody(r.Body, &req); err != nil {
		respondError(w, errors.ErrInvalidText)
		return
	}
	view, err := h.chat.SendMessage(r.Context(), auth.CallerID(r.Context()), convID, req.Text)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, view)
}

func (h *ConversationHandler) markRead(w http.ResponseWriter, r *http.Request) {
	convID, err := conversationID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	updated, err := h.chat.MarkRead(r.Context(), auth.CallerID(r.Context()), convID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, markReadResponse{Updated: updated})
}

// conversationID parses the path parameter. A non-uuid id gets the same
// collapsed signal as an unknown one: it certainly names no conversation
// the caller may see.
func conversationID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "id"))
	convID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.ErrNotFoundOrDenied
	}
	return convID, nil
}

func decodeBody(body io.Reader, target any) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	return sonic.Unmarshal(data, target)
}
