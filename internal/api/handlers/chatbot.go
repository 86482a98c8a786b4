package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jdmurray/portfolio-backend/internal/chatbot"
	"github.com/jdmurray/portfolio-backend/internal/models"
)

// maxMessageLength bounds visitor messages before they reach the model.
const maxMessageLength = 4000

type ChatbotHandler struct {
	svc *chatbot.Service
}

func NewChatbotHandler(svc *chatbot.Service) *ChatbotHandler {
	return &ChatbotHandler{svc: svc}
}

func (h *ChatbotHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message   string `json:"message"`
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message required")
		return
	}
	if len(req.Message) > maxMessageLength {
		writeError(w, http.StatusBadRequest, "message too long")
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	result := h.svc.Chat(r.Context(), req.Message, req.SessionID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"response":        result.Response,
		"is_on_topic":     result.IsOnTopic,
		"confidence":      result.Confidence,
		"conversation_id": result.ConversationID,
		"session_id":      req.SessionID,
	})
}

func (h *ChatbotHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConversationID string `json:"conversation_id"`
		SessionID      string `json:"session_id"`
		Rating         string `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	convID, err := uuid.Parse(req.ConversationID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid conversation ID")
		return
	}
	if req.Rating != models.RatingUp && req.Rating != models.RatingDown {
		writeError(w, http.StatusBadRequest, "rating must be \"up\" or \"down\"")
		return
	}

	fb, err := h.svc.Feedback(r.Context(), convID, req.SessionID, req.Rating)
	if errors.Is(err, chatbot.ErrConversationNotFound) {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, fb)
}

func (h *ChatbotHandler) History(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id required")
		return
	}

	history, err := h.svc.History(r.Context(), sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if history == nil {
		history = []models.Conversation{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"conversations": history})
}
