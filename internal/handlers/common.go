package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"media-board-backend/internal/models"
	"media-board-backend/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// listResponse is the envelope for paginated results
type listResponse struct {
	Items any `json:"items"`
	Total int `json:"total"`
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondStoreError translates store-level errors to HTTP status codes.
// Raw backend errors are never leaked to the caller.
func respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		respondError(w, "not found", http.StatusNotFound)
	case errors.Is(err, repository.ErrDuplicateEmail),
		errors.Is(err, repository.ErrDuplicateName),
		errors.Is(err, repository.ErrDuplicateMediaRef):
		respondError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, repository.ErrNothingToUpdate):
		respondError(w, "nothing to update", http.StatusBadRequest)
	default:
		respondError(w, "backend unavailable", http.StatusServiceUnavailable)
	}
}

// parsePagination reads skip/limit query parameters and enforces the
// boundary rules: skip >= 0, 1 <= limit <= 1000, default limit 100.
func parsePagination(r *http.Request) (skip, limit int, err error) {
	skip, limit = 0, defaultLimit

	if s := r.URL.Query().Get("skip"); s != "" {
		skip, err = strconv.Atoi(s)
		if err != nil || skip < 0 {
			return 0, 0, fmt.Errorf("skip must be a non-negative integer")
		}
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		limit, err = strconv.Atoi(l)
		if err != nil || limit < 1 || limit > maxLimit {
			return 0, 0, fmt.Errorf("limit must be between 1 and %d", maxLimit)
		}
	}
	return skip, limit, nil
}

// urlUUID parses a UUID path parameter
func urlUUID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}

// list payloads marshal as [] instead of null
func postItems(posts []models.Post) []models.Post {
	if posts == nil {
		return []models.Post{}
	}
	return posts
}

func postWithCategoryItems(posts []models.PostWithCategory) []models.PostWithCategory {
	if posts == nil {
		return []models.PostWithCategory{}
	}
	return posts
}

func categoryItems(categories []models.Category) []models.Category {
	if categories == nil {
		return []models.Category{}
	}
	return categories
}
