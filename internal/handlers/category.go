package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"media-board-backend/internal/models"
	"media-board-backend/internal/repository"
	"media-board-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// CategoryHandler handles category HTTP requests
type CategoryHandler struct {
	categories *services.CategoryService
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categories *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// Create handles POST /api/v1/categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		respondError(w, "name is required", http.StatusBadRequest)
		return
	}

	category, err := h.categories.Create(r.Context(), req)
	if err != nil {
		if !errors.Is(err, repository.ErrDuplicateName) {
			log.Error().Err(err).Str("name", req.Name).Msg("Failed to create category")
		}
		respondStoreError(w, err)
		return
	}

	log.Info().
		Str("category_id", category.ID.String()).
		Str("name", category.Name).
		Msg("Category created")
	respondJSON(w, http.StatusCreated, category)
}

// Get handles GET /api/v1/categories/{category_id}
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "category_id")
	if err != nil {
		respondError(w, "invalid category id", http.StatusBadRequest)
		return
	}

	category, err := h.categories.Get(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, category)
}

// List handles GET /api/v1/categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := parsePagination(r)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	categories, total, err := h.categories.List(r.Context(), skip, limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list categories")
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, listResponse{
		Items: categoryItems(categories),
		Total: total,
		Skip:  skip,
		Limit: limit,
	})
}

// Update handles PUT /api/v1/categories/{category_id}
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "category_id")
	if err != nil {
		respondError(w, "invalid category id", http.StatusBadRequest)
		return
	}

	var upd models.CategoryUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	category, err := h.categories.Update(r.Context(), id, upd)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, category)
}

// Delete handles DELETE /api/v1/categories/{category_id}
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "category_id")
	if err != nil {
		respondError(w, "invalid category id", http.StatusBadRequest)
		return
	}

	existed, err := h.categories.Delete(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("category_id", id.String()).Msg("Failed to delete category")
		respondStoreError(w, err)
		return
	}
	if !existed {
		respondError(w, "not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /api/v1/categories/search?name=
func (h *CategoryHandler) Search(w http.ResponseWriter, r *http.Request) {
	pattern := r.URL.Query().Get("name")
	if pattern == "" {
		respondError(w, "name query parameter is required", http.StatusBadRequest)
		return
	}

	skip, limit, err := parsePagination(r)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	categories, total, err := h.categories.SearchByName(r.Context(), pattern, skip, limit)
	if err != nil {
		log.Error().Err(err).Str("pattern", pattern).Msg("Failed to search categories")
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, listResponse{
		Items: categoryItems(categories),
		Total: total,
		Skip:  skip,
		Limit: limit,
	})
}
