package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/jdmurray/portfolio-backend/internal/resume"
)

var allowedResumeTypes = map[string]bool{
	".pdf": true,
	".txt": true,
	".md":  true,
}

type ResumeHandler struct {
	svc              *resume.Service
	downloadPassword string
}

func NewResumeHandler(svc *resume.Service, downloadPassword string) *ResumeHandler {
	return &ResumeHandler{svc: svc, downloadPassword: downloadPassword}
}

// Upload replaces the active resume. multipart field name: "file".
func (h *ResumeHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(20 << 20); err != nil {
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
	if !allowedResumeTypes[ext] {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported file type %q", ext))
		return
	}

	rf, err := h.svc.Upload(r.Context(), resume.UploadRequest{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        file,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, rf)
}

// Meta serves the active resume's metadata without the file itself.
func (h *ResumeHandler) Meta(w http.ResponseWriter, r *http.Request) {
	rf, err := h.svc.Active(r.Context())
	if errors.Is(err, resume.ErrNoActiveResume) {
		writeError(w, http.StatusNotFound, "no resume available")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rf)
}

// Download streams the active resume after checking the shared password.
func (h *ResumeHandler) Download(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if h.downloadPassword == "" ||
		subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.downloadPassword)) != 1 {
		writeError(w, http.StatusUnauthorized, "invalid password")
		return
	}

	rf, rc, err := h.svc.Open(r.Context())
	if errors.Is(err, resume.ErrNoActiveResume) {
		writeError(w, http.StatusNotFound, "no resume available")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", rf.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rf.FileName))
	if _, err := io.Copy(w, rc); err != nil {
		// Headers already sent; nothing else to do.
		return
	}
}

func (h *ResumeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid resume ID")
		return
	}

	err := h.svc.Delete(r.Context(), id)
	if errors.Is(err, resume.ErrNotFound) {
		writeError(w, http.StatusNotFound, "resume not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
