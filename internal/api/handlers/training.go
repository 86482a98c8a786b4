package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/jdmurray/portfolio-backend/internal/models"
	"github.com/jdmurray/portfolio-backend/internal/queue"
	"github.com/jdmurray/portfolio-backend/internal/training"
)

var allowedDocTypes = map[string]string{
	".pdf": "pdf",
	".txt": "txt",
	".md":  "md",
}

type TrainingHandler struct {
	svc   *training.Service
	queue *queue.Client
}

func NewTrainingHandler(svc *training.Service, qc *queue.Client) *TrainingHandler {
	return &TrainingHandler{svc: svc, queue: qc}
}

func (h *TrainingHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req training.SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" || req.Answer == "" {
		writeError(w, http.StatusBadRequest, "question and answer required")
		return
	}

	session, err := h.svc.CreateSession(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (h *TrainingHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.svc.ListSessions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if sessions == nil {
		sessions = []models.TrainingSession{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

func (h *TrainingHandler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid session ID")
		return
	}

	var req training.SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.svc.UpdateSession(r.Context(), id, req)
	if errors.Is(err, training.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *TrainingHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid session ID")
		return
	}

	err := h.svc.DeleteSession(r.Context(), id)
	if errors.Is(err, training.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadDocument accepts a knowledge file and schedules its ingestion.
func (h *TrainingHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(50 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	fileType, ok := allowedDocTypes[ext]
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported file type %q", ext))
		return
	}

	title := r.FormValue("title")
	if title == "" {
		title = header.Filename
	}

	doc, err := h.svc.UploadDocument(r.Context(), training.UploadDocumentRequest{
		Title:    title,
		FileName: header.Filename,
		FileType: fileType,
		Data:     file,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := h.queue.EnqueueDocumentIngest(doc.ID); err != nil {
		slog.Error("failed to enqueue document ingest", "document", doc.ID, "error", err)
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (h *TrainingHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.svc.ListDocuments(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if docs == nil {
		docs = []models.ChatbotDocument{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"documents": docs})
}

func (h *TrainingHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	err := h.svc.DeleteDocument(r.Context(), id)
	if errors.Is(err, training.ErrDocumentNotFound) {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TrainingHandler) CreateInsight(w http.ResponseWriter, r *http.Request) {
	var req training.InsightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Insight == "" {
		writeError(w, http.StatusBadRequest, "insight required")
		return
	}

	insight, err := h.svc.CreateInsight(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, insight)
}

func (h *TrainingHandler) ListInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := h.svc.ListInsights(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if insights == nil {
		insights = []models.LearningInsight{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"insights": insights})
}

func (h *TrainingHandler) UpdateInsight(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid insight ID")
		return
	}

	var req training.InsightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Insight == "" {
		writeError(w, http.StatusBadRequest, "insight text is required")
		return
	}

	insight, err := h.svc.UpdateInsight(r.Context(), id, req)
	if errors.Is(err, training.ErrInsightNotFound) {
		writeError(w, http.StatusNotFound, "insight not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, insight)
}

func (h *TrainingHandler) DeleteInsight(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid insight ID")
		return
	}

	err := h.svc.DeleteInsight(r.Context(), id)
	if errors.Is(err, training.ErrInsightNotFound) {
		writeError(w, http.StatusNotFound, "insight not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
