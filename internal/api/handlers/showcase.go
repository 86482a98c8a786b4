package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jdmurray/portfolio-backend/internal/cache"
	"github.com/jdmurray/portfolio-backend/internal/models"
	"github.com/jdmurray/portfolio-backend/internal/showcase"
)

type ShowcaseHandler struct {
	svc   *showcase.Service
	cache *cache.Cache
}

func NewShowcaseHandler(svc *showcase.Service, c *cache.Cache) *ShowcaseHandler {
	return &ShowcaseHandler{svc: svc, cache: c}
}

func (h *ShowcaseHandler) ListCarousel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.cache != nil {
		var cached []models.CarouselImage
		if err := h.cache.Get(ctx, cache.KeyCarousel, &cached); err == nil {
			writeJSON(w, http.StatusOK, map[string]interface{}{"images": cached})
			return
		}
	}

	images, err := h.svc.ListCarouselImages(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if images == nil {
		images = []models.CarouselImage{}
	}

	if h.cache != nil {
		_ = h.cache.Set(ctx, cache.KeyCarousel, images, 5*time.Minute)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"images": images})
}

func (h *ShowcaseHandler) CreateCarouselImage(w http.ResponseWriter, r *http.Request) {
	var req showcase.CarouselImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ImageURL == "" {
		writeError(w, http.StatusBadRequest, "image_url required")
		return
	}

	img, err := h.svc.CreateCarouselImage(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.invalidateCarousel(r)
	writeJSON(w, http.StatusCreated, img)
}

func (h *ShowcaseHandler) UpdateCarouselImage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid image ID")
		return
	}

	var req showcase.CarouselImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	img, err := h.svc.UpdateCarouselImage(r.Context(), id, req)
	if errors.Is(err, showcase.ErrImageNotFound) {
		writeError(w, http.StatusNotFound, "image not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.invalidateCarousel(r)
	writeJSON(w, http.StatusOK, img)
}

func (h *ShowcaseHandler) DeleteCarouselImage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid image ID")
		return
	}

	err := h.svc.DeleteCarouselImage(r.Context(), id)
	if errors.Is(err, showcase.ErrImageNotFound) {
		writeError(w, http.StatusNotFound, "image not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.invalidateCarousel(r)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ShowcaseHandler) ListTopFive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.cache != nil {
		var cached []models.TopFiveList
		if err := h.cache.Get(ctx, cache.KeyTopFive, &cached); err == nil {
			writeJSON(w, http.StatusOK, map[string]interface{}{"lists": cached})
			return
		}
	}

	lists, err := h.svc.ListTopFiveLists(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if lists == nil {
		lists = []models.TopFiveList{}
	}

	if h.cache != nil {
		_ = h.cache.Set(ctx, cache.KeyTopFive, lists, 5*time.Minute)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"lists": lists})
}

func (h *ShowcaseHandler) GetTopFive(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.GetTopFiveList(r.Context(), chi.URLParam(r, "slug"))
	if errors.Is(err, showcase.ErrListNotFound) {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ShowcaseHandler) CreateTopFive(w http.ResponseWriter, r *http.Request) {
	var req showcase.TopFiveListRequest
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

	list, err := h.svc.CreateTopFiveList(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.invalidateTopFive(r)
	writeJSON(w, http.StatusCreated, list)
}

func (h *ShowcaseHandler) DeleteTopFive(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid list ID")
		return
	}

	err := h.svc.DeleteTopFiveList(r.Context(), id)
	if errors.Is(err, showcase.ErrListNotFound) {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.invalidateTopFive(r)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ShowcaseHandler) AddTopFiveItem(w http.ResponseWriter, r *http.Request) {
	listID, ok := parseIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid list ID")
		return
	}

	var req showcase.TopFiveItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title required")
		return
	}

	item, err := h.svc.AddTopFiveItem(r.Context(), listID, req)
	if errors.Is(err, showcase.ErrListNotFound) {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.invalidateTopFive(r)
	writeJSON(w, http.StatusCreated, item)
}

func (h *ShowcaseHandler) UpdateTopFiveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item ID")
		return
	}

	var req showcase.TopFiveItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.svc.UpdateTopFiveItem(r.Context(), id, req)
	if errors.Is(err, showcase.ErrItemNotFound) {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.invalidateTopFive(r)
	writeJSON(w, http.StatusOK, item)
}

func (h *ShowcaseHandler) DeleteTopFiveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item ID")
		return
	}

	err := h.svc.DeleteTopFiveItem(r.Context(), id)
	if errors.Is(err, showcase.ErrItemNotFound) {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.invalidateTopFive(r)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ShowcaseHandler) invalidateCarousel(r *http.Request) {
	if h.cache != nil {
		_ = h.cache.Delete(r.Context(), cache.KeyCarousel)
	}
}

func (h *ShowcaseHandler) invalidateTopFive(r *http.Request) {
	if h.cache != nil {
		_ = h.cache.Delete(r.Context(), cache.KeyTopFive)
	}
}
