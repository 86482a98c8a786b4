package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/jdmurray/portfolio-backend/internal/polish"
)

type PolishHandler struct {
	svc *polish.Service
}

func NewPolishHandler(svc *polish.Service) *PolishHandler {
	return &PolishHandler{svc: svc}
}

func (h *PolishHandler) Review(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text        string `json:"text"`
		ContentType string `json:"content_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text required")
		return
	}

	review, err := h.svc.Polish(r.Context(), req.Text, req.ContentType)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func (h *PolishHandler) QuickSuggestions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text required")
		return
	}

	suggestions, err := h.svc.QuickSuggestions(r.Context(), req.Text)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"suggestions": suggestions})
}

func (h *PolishHandler) ImproveSelection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text      string `json:"text"`
		Selection string `json:"selection"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Selection == "" {
		writeError(w, http.StatusBadRequest, "selection required")
		return
	}

	improved, err := h.svc.ImproveSelection(r.Context(), req.Text, req.Selection)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"improved": improved})
}
