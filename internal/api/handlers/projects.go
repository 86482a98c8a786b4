package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jdmurray/portfolio-backend/internal/cache"
	"github.com/jdmurray/portfolio-backend/internal/models"
	"github.com/jdmurray/portfolio-backend/internal/project"
)

type ProjectHandler struct {
	svc   *project.Service
	cache *cache.Cache
}

func NewProjectHandler(svc *project.Service, c *cache.Cache) *ProjectHandler {
	return &ProjectHandler{svc: svc, cache: c}
}

// ListPublic serves the published projects, cached. The cache only holds the
// unfiltered list; ?featured=true goes straight to the store.
func (h *ProjectHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	featuredOnly := r.URL.Query().Get("featured") == "true"

	if h.cache != nil && !featuredOnly {
		var cached []models.Project
		if err := h.cache.Get(ctx, cache.KeyProjects, &cached); err == nil {
			writeJSON(w, http.StatusOK, map[string]interface{}{"projects": cached})
			return
		}
	}

	projects, err := h.svc.List(ctx, project.ListOptions{PublishedOnly: true, FeaturedOnly: featuredOnly})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}

	if h.cache != nil && !featuredOnly {
		_ = h.cache.Set(ctx, cache.KeyProjects, projects, 5*time.Minute)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"projects": projects})
}

func (h *ProjectHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if errors.Is(err, project.ErrNotFound) {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ListAll serves every project including drafts, for the admin UI.
func (h *ProjectHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	projects, err := h.svc.List(r.Context(), project.ListOptions{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"projects": projects})
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req project.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" || req.Slug == "" {
		writeError(w, http.StatusBadRequest, "title and slug required")
		return
	}
	if !validSlug(req.Slug) {
		writeError(w, http.StatusBadRequest, "slug must be lowercase letters, digits, and hyphens")
		return
	}

	p, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.invalidate(r)
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid project ID")
		return
	}

	var req project.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.svc.Update(r.Context(), id, req)
	if errors.Is(err, project.ErrNotFound) {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.invalidate(r)
	writeJSON(w, http.StatusOK, p)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid project ID")
		return
	}

	err := h.svc.Delete(r.Context(), id)
	if errors.Is(err, project.ErrNotFound) {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.invalidate(r)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProjectHandler) invalidate(r *http.Request) {
	if h.cache != nil {
		_ = h.cache.Delete(r.Context(), cache.KeyProjects)
	}
}
