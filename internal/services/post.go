package services

import (
	"context"
	"errors"
	"time"

	"media-board-backend/internal/cache"
	"media-board-backend/internal/models"
	"media-board-backend/internal/repository"
	"media-board-backend/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrEmptyFile is returned when an upload carries no bytes
var ErrEmptyFile = errors.New("empty file")

// PostService handles post use-cases: CRUD, category-qualified queries, the
// media bytes behind each post, and the read-through cache.
type PostService struct {
	posts *repository.PostRepository
	media storage.MediaStore
	cache *cache.Client
}

// NewPostService creates a new post service
func NewPostService(posts *repository.PostRepository, media storage.MediaStore, cache *cache.Client) *PostService {
	return &PostService{
		posts: posts,
		media: media,
		cache: cache,
	}
}

// Create accepts an upload: it assigns a fresh media reference, persists the
// post row, then stores the bytes. The unique constraint on the media
// reference rejects duplicates before any byte hits storage, so existing
// media is never overwritten.
func (s *PostService) Create(ctx context.Context, description string, categoryID *uuid.UUID, data []byte) (*models.Post, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	now := time.Now().UTC()
	post := &models.Post{
		ID:          uuid.New(),
		MediaID:     uuid.New(),
		Description: description,
		CategoryID:  categoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	if err := s.media.Save(ctx, post.MediaID, data); err != nil {
		// keep the store consistent: no row without its media bytes
		if _, delErr := s.posts.Delete(ctx, post.ID); delErr != nil {
			log.Error().Err(delErr).
				Str("post_id", post.ID.String()).
				Msg("Failed to roll back post after media save failure")
		}
		return nil, err
	}

	return post, nil
}

// Get retrieves a post by ID through the cache
func (s *PostService) Get(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	if post, ok := s.cache.GetPost(ctx, id); ok {
		return post, nil
	}
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.SetPost(ctx, post)
	return post, nil
}

// GetWithCategory retrieves a post with its category joined in
func (s *PostService) GetWithCategory(ctx context.Context, id uuid.UUID) (*models.PostWithCategory, error) {
	return s.posts.GetByIDWithCategory(ctx, id)
}

// GetByMediaID retrieves a post by its media reference
func (s *PostService) GetByMediaID(ctx context.Context, mediaID uuid.UUID) (*models.Post, error) {
	return s.posts.GetByMediaID(ctx, mediaID)
}

// List retrieves posts with pagination
func (s *PostService) List(ctx context.Context, skip, limit int) ([]models.Post, int, error) {
	return s.posts.List(ctx, skip, limit)
}

// ListWithCategory retrieves posts with their categories joined in
func (s *PostService) ListWithCategory(ctx context.Context, skip, limit int) ([]models.PostWithCategory, int, error) {
	return s.posts.ListWithCategory(ctx, skip, limit)
}

// Update applies a partial update to a post
func (s *PostService) Update(ctx context.Context, id uuid.UUID, upd models.PostUpdate) (*models.Post, error) {
	post, err := s.posts.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	s.cache.InvalidatePost(ctx, id)
	return post, nil
}

// Delete removes a post and its media bytes. Reports whether a row existed.
func (s *PostService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	existed, err := s.posts.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	s.cache.InvalidatePost(ctx, id)

	if existed {
		if err := s.media.Delete(ctx, post.MediaID); err != nil {
			log.Warn().Err(err).
				Str("media_id", post.MediaID.String()).
				Msg("Failed to delete media bytes for removed post")
		}
	}
	return existed, nil
}

// SearchByDescription retrieves posts matching a description pattern
func (s *PostService) SearchByDescription(ctx context.Context, pattern string, skip, limit int) ([]models.Post, int, error) {
	return s.posts.SearchByDescription(ctx, pattern, skip, limit)
}

// SearchByDescriptionWithCategory is SearchByDescription with categories
// joined in.
func (s *PostService) SearchByDescriptionWithCategory(ctx context.Context, pattern string, skip, limit int) ([]models.PostWithCategory, int, error) {
	return s.posts.SearchByDescriptionWithCategory(ctx, pattern, skip, limit)
}

// ListByCategory retrieves posts assigned to a category
func (s *PostService) ListByCategory(ctx context.Context, categoryID uuid.UUID, skip, limit int) ([]models.Post, int, error) {
	return s.posts.ListByCategory(ctx, categoryID, skip, limit)
}

// ListByCategoryWithCategory is ListByCategory with categories joined in
func (s *PostService) ListByCategoryWithCategory(ctx context.Context, categoryID uuid.UUID, skip, limit int) ([]models.PostWithCategory, int, error) {
	return s.posts.ListByCategoryWithCategory(ctx, categoryID, skip, limit)
}

// ListWithoutCategory retrieves posts that have no category
func (s *PostService) ListWithoutCategory(ctx context.Context, skip, limit int) ([]models.Post, int, error) {
	return s.posts.ListWithoutCategory(ctx, skip, limit)
}

// AssignCategory points a post at a category
func (s *PostService) AssignCategory(ctx context.Context, postID, categoryID uuid.UUID) (*models.Post, error) {
	post, err := s.posts.AssignCategory(ctx, postID, categoryID)
	if err != nil {
		return nil, err
	}
	s.cache.InvalidatePost(ctx, postID)
	return post, nil
}

// RemoveCategory clears the category reference on a post
func (s *PostService) RemoveCategory(ctx context.Context, postID uuid.UUID) (*models.Post, error) {
	post, err := s.posts.RemoveCategory(ctx, postID)
	if err != nil {
		return nil, err
	}
	s.cache.InvalidatePost(ctx, postID)
	return post, nil
}

// Count returns the total number of posts
func (s *PostService) Count(ctx context.Context) (int, error) {
	return s.posts.Count(ctx)
}

// CountByCategory returns the number of posts in a category
func (s *PostService) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error) {
	return s.posts.CountByCategory(ctx, categoryID)
}
