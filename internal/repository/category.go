package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"media-board-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CategoryRepository handles database operations for categories
type CategoryRepository struct {
	db Querier
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db Querier) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *CategoryRepository) WithTx(tx pgx.Tx) *CategoryRepository {
	return &CategoryRepository{db: tx}
}

// Create persists a new category. Returns ErrDuplicateName if the name is
// already taken.
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query,
		category.ID, category.Name, category.Description,
		category.CreatedAt, category.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM categories
		WHERE id = $1
	`
	var category models.Category
	err := r.db.QueryRow(ctx, query, id).Scan(
		&category.ID, &category.Name, &category.Description,
		&category.CreatedAt, &category.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

// List retrieves categories with pagination, along with the total count
func (r *CategoryRepository) List(ctx context.Context, skip, limit int) ([]models.Category, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}

	query := `
		SELECT id, name, description, created_at, updated_at
		FROM categories
		ORDER BY name
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories, err := scanCategories(rows)
	if err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

// Update applies the non-nil fields of upd to the category. Returns
// ErrNothingToUpdate when no fields are set, ErrNotFound when the category
// does not exist, and ErrDuplicateName when the new name is taken.
func (r *CategoryRepository) Update(ctx context.Context, id uuid.UUID, upd models.CategoryUpdate) (*models.Category, error) {
	if upd.Empty() {
		return nil, ErrNothingToUpdate
	}

	set := []string{"updated_at = now()"}
	args := []any{id}
	if upd.Name != nil {
		args = append(args, *upd.Name)
		set = append(set, fmt.Sprintf("name = $%d", len(args)))
	}
	if upd.Description != nil {
		args = append(args, *upd.Description)
		set = append(set, fmt.Sprintf("description = $%d", len(args)))
	}

	query := fmt.Sprintf(`
		UPDATE categories SET %s
		WHERE id = $1
		RETURNING id, name, description, created_at, updated_at
	`, strings.Join(set, ", "))

	var category models.Category
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&category.ID, &category.Name, &category.Description,
		&category.CreatedAt, &category.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return &category, nil
}

// Delete removes a category by ID and reports whether a row existed.
// Callers must clear dependent post references first; the relation service
// wraps both steps in one transaction.
func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete category: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// SearchByName retrieves categories whose name contains the pattern,
// case-insensitively, with pagination and a matching total count.
func (r *CategoryRepository) SearchByName(ctx context.Context, pattern string, skip, limit int) ([]models.Category, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM categories WHERE name ILIKE '%' || $1 || '%'`
	if err := r.db.QueryRow(ctx, countQuery, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count matching categories: %w", err)
	}

	query := `
		SELECT id, name, description, created_at, updated_at
		FROM categories
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY name
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, pattern, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search categories: %w", err)
	}
	defer rows.Close()

	categories, err := scanCategories(rows)
	if err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

func scanCategories(rows pgx.Rows) ([]models.Category, error) {
	var categories []models.Category
	for rows.Next() {
		var category models.Category
		err := rows.Scan(
			&category.ID, &category.Name, &category.Description,
			&category.CreatedAt, &category.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}
