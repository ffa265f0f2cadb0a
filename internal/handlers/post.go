package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"media-board-backend/internal/models"
	"media-board-backend/internal/repository"
	"media-board-backend/internal/services"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const maxUploadBytes = 32 << 20

// PostHandler handles post HTTP requests
type PostHandler struct {
	posts     *services.PostService
	relations *services.RelationService
}

// NewPostHandler creates a new post handler
func NewPostHandler(posts *services.PostService, relations *services.RelationService) *PostHandler {
	return &PostHandler{
		posts:     posts,
		relations: relations,
	}
}

// Create handles POST /api/v1/posts (multipart: description, category_id, file)
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	description := r.FormValue("description")

	var categoryID *uuid.UUID
	if raw := r.FormValue("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, "invalid category id", http.StatusBadRequest)
			return
		}
		categoryID = &id
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, "failed to read file", http.StatusBadRequest)
		return
	}

	post, err := h.posts.Create(r.Context(), description, categoryID, data)
	if err != nil {
		if errors.Is(err, services.ErrEmptyFile) {
			respondError(w, "empty file", http.StatusBadRequest)
			return
		}
		if !errors.Is(err, repository.ErrDuplicateMediaRef) && !errors.Is(err, repository.ErrNotFound) {
			log.Error().Err(err).Msg("Failed to create post")
		}
		respondStoreError(w, err)
		return
	}

	log.Info().
		Str("post_id", post.ID.String()).
		Str("media_id", post.MediaID.String()).
		Msg("Post created")
	respondJSON(w, http.StatusCreated, post)
}

// Get handles GET /api/v1/posts/{post_id}
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "post_id")
	if err != nil {
		respondError(w, "invalid post id", http.StatusBadRequest)
		return
	}

	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, post)
}

// GetWithCategory handles GET /api/v1/posts/{post_id}/with-category
func (h *PostHandler) GetWithCategory(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "post_id")
	if err != nil {
		respondError(w, "invalid post id", http.StatusBadRequest)
		return
	}

	post, err := h.posts.GetWithCategory(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, post)
}

// GetByMedia handles GET /api/v1/posts/media/{media_id}
func (h *PostHandler) GetByMedia(w http.ResponseWriter, r *http.Request) {
	mediaID, err := urlUUID(r, "media_id")
	if err != nil {
		respondError(w, "invalid media id", http.StatusBadRequest)
		return
	}

	post, err := h.posts.GetByMediaID(r.Context(), mediaID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, post)
}

// List handles GET /api/v1/posts
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := parsePagination(r)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	posts, total, err := h.posts.List(r.Context(), skip, limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list posts")
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, listResponse{
		Items: postItems(posts),
		Total: total,
		Skip:  skip,
		Limit: limit,
	})
}

// ListWithCategory handles GET /api/v1/posts/with-category
func (h *PostHandler) ListWithCategory(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := parsePagination(r)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	posts, total, err := h.posts.ListWithCategory(r.Context(), skip, limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list posts with category")
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, listResponse{
		Items: postWithCategoryItems(posts),
		Total: total,
		Skip:  skip,
		Limit: limit,
	})
}

// Update handles PUT /api/v1/posts/{post_id}
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "post_id")
	if err != nil {
		respondError(w, "invalid post id", http.StatusBadRequest)
		return
	}

	var upd models.PostUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	post, err := h.posts.Update(r.Context(), id, upd)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, post)
}

// Delete handles DELETE /api/v1/posts/{post_id}
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "post_id")
	if err != nil {
		respondError(w, "invalid post id", http.StatusBadRequest)
		return
	}

	existed, err := h.posts.Delete(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("post_id", id.String()).Msg("Failed to delete post")
		respondStoreError(w, err)
		return
	}
	if !existed {
		respondError(w, "not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// searchRequest is the body of POST /api/v1/posts/search
type searchRequest struct {
	Pattern      string `json:"pattern"`
	Skip         int    `json:"skip"`
	Limit        int    `json:"limit"`
	WithCategory bool   `json:"with_category"`
}

// Search handles POST /api/v1/posts/search
func (h *PostHandler) Search(w http.ResponseWriter, r *http.Request) {
	req := searchRequest{Limit: defaultLimit}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Skip < 0 || req.Limit < 1 || req.Limit > maxLimit {
		respondError(w, "skip must be >= 0 and limit between 1 and 1000", http.StatusBadRequest)
		return
	}

	if req.WithCategory {
		posts, total, err := h.posts.SearchByDescriptionWithCategory(r.Context(), req.Pattern, req.Skip, req.Limit)
		if err != nil {
			log.Error().Err(err).Str("pattern", req.Pattern).Msg("Failed to search posts")
			respondStoreError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, listResponse{
			Items: postWithCategoryItems(posts),
			Total: total,
			Skip:  req.Skip,
			Limit: req.Limit,
		})
		return
	}

	posts, total, err := h.posts.SearchByDescription(r.Context(), req.Pattern, req.Skip, req.Limit)
	if err != nil {
		log.Error().Err(err).Str("pattern", req.Pattern).Msg("Failed to search posts")
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, listResponse{
		Items: postItems(posts),
		Total: total,
		Skip:  req.Skip,
		Limit: req.Limit,
	})
}

// ListByCategory handles GET /api/v1/posts/category/{category_id}
func (h *PostHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := urlUUID(r, "category_id")
	if err != nil {
		respondError(w, "invalid category id", http.StatusBadRequest)
		return
	}
	skip, limit, err := parsePagination(r)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	posts, total, err := h.posts.ListByCategory(r.Context(), categoryID, skip, limit)
	if err != nil {
		log.Error().Err(err).Str("category_id", categoryID.String()).Msg("Failed to list posts by category")
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, listResponse{
		Items: postItems(posts),
		Total: total,
		Skip:  skip,
		Limit: limit,
	})
}

// ListByCategoryWithCategory handles GET /api/v1/posts/category/{category_id}/with-category
func (h *PostHandler) ListByCategoryWithCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := urlUUID(r, "category_id")
	if err != nil {
		respondError(w, "invalid category id", http.StatusBadRequest)
		return
	}
	skip, limit, err := parsePagination(r)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	posts, total, err := h.posts.ListByCategoryWithCategory(r.Context(), categoryID, skip, limit)
	if err != nil {
		log.Error().Err(err).Str("category_id", categoryID.String()).Msg("Failed to list posts by category")
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, listResponse{
		Items: postWithCategoryItems(posts),
		Total: total,
		Skip:  skip,
		Limit: limit,
	})
}

// ListWithoutCategory handles GET /api/v1/posts/without-category
func (h *PostHandler) ListWithoutCategory(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := parsePagination(r)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	posts, total, err := h.posts.ListWithoutCategory(r.Context(), skip, limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list posts without category")
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, listResponse{
		Items: postItems(posts),
		Total: total,
		Skip:  skip,
		Limit: limit,
	})
}

// AssignCategory handles PATCH /api/v1/posts/{post_id}/assign-category?category_id=
func (h *PostHandler) AssignCategory(w http.ResponseWriter, r *http.Request) {
	postID, err := urlUUID(r, "post_id")
	if err != nil {
		respondError(w, "invalid post id", http.StatusBadRequest)
		return
	}
	categoryID, err := uuid.Parse(r.URL.Query().Get("category_id"))
	if err != nil {
		respondError(w, "invalid category id", http.StatusBadRequest)
		return
	}

	post, err := h.posts.AssignCategory(r.Context(), postID, categoryID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, post)
}

// RemoveCategory handles PATCH /api/v1/posts/{post_id}/remove-category
func (h *PostHandler) RemoveCategory(w http.ResponseWriter, r *http.Request) {
	postID, err := urlUUID(r, "post_id")
	if err != nil {
		respondError(w, "invalid post id", http.StatusBadRequest)
		return
	}

	post, err := h.posts.RemoveCategory(r.Context(), postID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, post)
}

// Count handles GET /api/v1/posts/stats/count
func (h *PostHandler) Count(w http.ResponseWriter, r *http.Request) {
	total, err := h.posts.Count(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to count posts")
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"total": total})
}

// CountByCategory handles GET /api/v1/posts/stats/count/category/{category_id}
func (h *PostHandler) CountByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := urlUUID(r, "category_id")
	if err != nil {
		respondError(w, "invalid category id", http.StatusBadRequest)
		return
	}

	count, err := h.posts.CountByCategory(r.Context(), categoryID)
	if err != nil {
		log.Error().Err(err).Str("category_id", categoryID.String()).Msg("Failed to count posts by category")
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"category_id": categoryID,
		"count":       count,
	})
}

// BulkCreate handles POST /api/v1/posts/bulk
func (h *PostHandler) BulkCreate(w http.ResponseWriter, r *http.Request) {
	var specs []models.PostSpec
	if err := json.NewDecoder(r.Body).Decode(&specs); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(specs) == 0 {
		respondError(w, "batch must not be empty", http.StatusBadRequest)
		return
	}
	for _, spec := range specs {
		if spec.MediaID == uuid.Nil {
			respondError(w, "every spec needs a media_id", http.StatusBadRequest)
			return
		}
	}

	posts, err := h.relations.BulkCreatePosts(r.Context(), specs)
	if err != nil {
		if !errors.Is(err, repository.ErrDuplicateMediaRef) && !errors.Is(err, repository.ErrNotFound) {
			log.Error().Err(err).Int("count", len(specs)).Msg("Failed to bulk create posts")
		}
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, posts)
}

// bulkAssignRequest is the body of POST /api/v1/posts/bulk/assign-category
type bulkAssignRequest struct {
	PostIDs    []uuid.UUID `json:"post_ids"`
	CategoryID uuid.UUID   `json:"category_id"`
}

// BulkAssignCategory handles POST /api/v1/posts/bulk/assign-category
func (h *PostHandler) BulkAssignCategory(w http.ResponseWriter, r *http.Request) {
	var req bulkAssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.PostIDs) == 0 {
		respondError(w, "post_ids must not be empty", http.StatusBadRequest)
		return
	}
	if req.CategoryID == uuid.Nil {
		respondError(w, "category_id is required", http.StatusBadRequest)
		return
	}

	if err := h.relations.BulkReassignCategory(r.Context(), req.PostIDs, req.CategoryID); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Error().Err(err).Msg("Failed to bulk assign category")
		}
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "categories updated"})
}
