package services

import (
	"context"
	"time"

	"media-board-backend/internal/models"
	"media-board-backend/internal/repository"

	"github.com/google/uuid"
)

// CategoryService handles category use-cases; deletion is delegated to the
// relation service so the cascade runs inside one transaction.
type CategoryService struct {
	categories *repository.CategoryRepository
	relations  *RelationService
}

// NewCategoryService creates a new category service
func NewCategoryService(categories *repository.CategoryRepository, relations *RelationService) *CategoryService {
	return &CategoryService{
		categories: categories,
		relations:  relations,
	}
}

// CreateCategoryRequest carries the fields for a new category
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Create creates a new category. Returns repository.ErrDuplicateName if the
// name is taken.
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*models.Category, error) {
	now := time.Now().UTC()
	category := &models.Category{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Get retrieves a category by ID
func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return s.categories.GetByID(ctx, id)
}

// List retrieves categories with pagination
func (s *CategoryService) List(ctx context.Context, skip, limit int) ([]models.Category, int, error) {
	return s.categories.List(ctx, skip, limit)
}

// Update applies a partial update to a category
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, upd models.CategoryUpdate) (*models.Category, error) {
	return s.categories.Update(ctx, id, upd)
}

// Delete removes a category, clearing dependent post references atomically.
// Reports whether the category existed.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.relations.DeleteCategory(ctx, id)
}

// SearchByName retrieves categories matching a name pattern
func (s *CategoryService) SearchByName(ctx context.Context, pattern string, skip, limit int) ([]models.Category, int, error) {
	return s.categories.SearchByName(ctx, pattern, skip, limit)
}
