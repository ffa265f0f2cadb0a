package services

import (
	"context"
	"fmt"
	"time"

	"media-board-backend/internal/cache"
	"media-board-backend/internal/models"
	"media-board-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// TxBeginner opens a unit of work against the persistence backend
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// RelationService orchestrates mutations that span posts and categories.
// Each operation runs as one transaction: visible fully or not at all.
type RelationService struct {
	db         TxBeginner
	posts      *repository.PostRepository
	categories *repository.CategoryRepository
	cache      *cache.Client
}

// NewRelationService creates a new relation service
func NewRelationService(db TxBeginner, posts *repository.PostRepository, categories *repository.CategoryRepository, cache *cache.Client) *RelationService {
	return &RelationService{
		db:         db,
		posts:      posts,
		categories: categories,
		cache:      cache,
	}
}

// DeleteCategory removes a category after clearing the category reference on
// every dependent post, all inside one transaction. If clearing fails the
// category row survives; no dangling references are ever visible. Returns
// whether the category existed.
func (s *RelationService) DeleteCategory(ctx context.Context, id uuid.UUID) (bool, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	cleared, err := s.posts.WithTx(tx).ClearCategoryRefs(ctx, id)
	if err != nil {
		return false, err
	}

	existed, err := s.categories.WithTx(tx).Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if !existed {
		// nothing to delete; the rollback discards the (empty) ref update
		return false, nil
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit category deletion: %w", err)
	}

	s.cache.InvalidatePost(ctx, cleared...)
	log.Info().
		Str("category_id", id.String()).
		Int("posts_cleared", len(cleared)).
		Msg("Category deleted")
	return true, nil
}

// BulkCreatePosts creates all given posts or none. Duplicate media
// references, within the batch or against existing rows, abort the whole
// batch. The returned slice preserves input order.
func (s *RelationService) BulkCreatePosts(ctx context.Context, specs []models.PostSpec) ([]models.Post, error) {
	seen := make(map[uuid.UUID]struct{}, len(specs))
	for _, spec := range specs {
		if _, dup := seen[spec.MediaID]; dup {
			return nil, fmt.Errorf("media reference %s repeated in batch: %w",
				spec.MediaID, repository.ErrDuplicateMediaRef)
		}
		seen[spec.MediaID] = struct{}{}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	posts := s.posts.WithTx(tx)
	now := time.Now().UTC()
	created := make([]models.Post, 0, len(specs))
	for _, spec := range specs {
		post := models.Post{
			ID:          uuid.New(),
			MediaID:     spec.MediaID,
			Description: spec.Description,
			CategoryID:  spec.CategoryID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := posts.Create(ctx, &post); err != nil {
			return nil, err
		}
		created = append(created, post)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit bulk creation: %w", err)
	}

	log.Info().Int("count", len(created)).Msg("Posts created in bulk")
	return created, nil
}

// BulkReassignCategory points every matching post at the target category in
// a single atomic statement. Ids with no matching row are silently skipped.
func (s *RelationService) BulkReassignCategory(ctx context.Context, postIDs []uuid.UUID, categoryID uuid.UUID) error {
	if err := s.posts.ReassignCategory(ctx, postIDs, categoryID); err != nil {
		return err
	}

	s.cache.InvalidatePost(ctx, postIDs...)
	log.Info().
		Str("category_id", categoryID.String()).
		Int("post_ids", len(postIDs)).
		Msg("Posts reassigned")
	return nil
}
