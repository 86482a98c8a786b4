package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jdmurray/portfolio-backend/internal/blog"
	"github.com/jdmurray/portfolio-backend/internal/models"
)

type BlogHandler struct {
	svc *blog.Service
}

func NewBlogHandler(svc *blog.Service) *BlogHandler {
	return &BlogHandler{svc: svc}
}

func (h *BlogHandler) ListSeries(w http.ResponseWriter, r *http.Request) {
	series, err := h.svc.ListSeries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if series == nil {
		series = []models.BlogSeries{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"series": series})
}

func (h *BlogHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	series, posts, err := h.svc.GetSeries(r.Context(), chi.URLParam(r, "slug"))
	if errors.Is(err, blog.ErrSeriesNotFound) {
		writeError(w, http.StatusNotFound, "series not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if posts == nil {
		posts = []models.BlogPost{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"series": series, "posts": posts})
}

func (h *BlogHandler) CreateSeries(w http.ResponseWriter, r *http.Request) {
	var req blog.SeriesRequest
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

	series, err := h.svc.CreateSeries(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, series)
}

func (h *BlogHandler) UpdateSeries(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid series ID")
		return
	}

	var req blog.SeriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	series, err := h.svc.UpdateSeries(r.Context(), id, req)
	if errors.Is(err, blog.ErrSeriesNotFound) {
		writeError(w, http.StatusNotFound, "series not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (h *BlogHandler) DeleteSeries(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid series ID")
		return
	}

	err := h.svc.DeleteSeries(r.Context(), id)
	if errors.Is(err, blog.ErrSeriesNotFound) {
		writeError(w, http.StatusNotFound, "series not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BlogHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	posts, err := h.svc.ListPosts(r.Context(), true, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if posts == nil {
		posts = []models.BlogPost{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"posts": posts})
}

// ListAllPosts includes drafts, for the admin UI.
func (h *BlogHandler) ListAllPosts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	posts, err := h.svc.ListPosts(r.Context(), false, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if posts == nil {
		posts = []models.BlogPost{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"posts": posts})
}

func (h *BlogHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.svc.GetPost(r.Context(), chi.URLParam(r, "slug"))
	if errors.Is(err, blog.ErrPostNotFound) {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *BlogHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req blog.PostRequest
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

	post, err := h.svc.CreatePost(r.Context(), req)
	if errors.Is(err, blog.ErrSeriesNotFound) {
		writeError(w, http.StatusBadRequest, "series not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (h *BlogHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid post ID")
		return
	}

	var req blog.PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.svc.UpdatePost(r.Context(), id, req)
	if errors.Is(err, blog.ErrPostNotFound) {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *BlogHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid post ID")
		return
	}

	err := h.svc.DeletePost(r.Context(), id)
	if errors.Is(err, blog.ErrPostNotFound) {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
