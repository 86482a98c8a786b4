package handlers

import (
	"net/http"

	"github.com/jdmurray/portfolio-backend/internal/chatbot"
)

// AdminHandler serves dashboard endpoints that don't belong to a single
// content concern.
type AdminHandler struct {
	store chatbot.Store
}

func NewAdminHandler(store chatbot.Store) *AdminHandler {
	return &AdminHandler{store: store}
}

// ChatbotAnalytics aggregates conversation, feedback, and evaluation
// figures for the admin dashboard.
func (h *AdminHandler) ChatbotAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.store.Analytics(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, analytics)
}
