package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"media-board-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const postColumns = "id, media_id, description, category_id, created_at, updated_at"

// PostRepository handles database operations for posts
type PostRepository struct {
	db Querier
}

// NewPostRepository creates a new post repository
func NewPostRepository(db Querier) *PostRepository {
	return &PostRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *PostRepository) WithTx(tx pgx.Tx) *PostRepository {
	return &PostRepository{db: tx}
}

// Create persists a new post. Returns ErrDuplicateMediaRef if the media
// reference is already taken, before any row is written.
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (id, media_id, description, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query,
		post.ID, post.MediaID, post.Description, post.CategoryID,
		post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateMediaRef
		}
		if isFKViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetByID retrieves a post by ID
func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByMediaID retrieves a post by its media reference
func (r *PostRepository) GetByMediaID(ctx context.Context, mediaID uuid.UUID) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE media_id = $1`
	return r.getOne(ctx, query, mediaID)
}

func (r *PostRepository) getOne(ctx context.Context, query string, arg any) (*models.Post, error) {
	var post models.Post
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&post.ID, &post.MediaID, &post.Description, &post.CategoryID,
		&post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &post, nil
}

// GetByIDWithCategory retrieves a post by ID with its category joined in
func (r *PostRepository) GetByIDWithCategory(ctx context.Context, id uuid.UUID) (*models.PostWithCategory, error) {
	query := joinedPostQuery("p.id = $1") + ` LIMIT 1`
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get post with category: %w", err)
	}
	defer rows.Close()

	posts, err := scanJoinedPosts(rows)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, ErrNotFound
	}
	return &posts[0], nil
}

// List retrieves posts with pagination, along with the total count
func (r *PostRepository) List(ctx context.Context, skip, limit int) ([]models.Post, int, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	posts, err := r.queryPosts(ctx, query, limit, skip)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListWithCategory retrieves posts with their categories joined in
func (r *PostRepository) ListWithCategory(ctx context.Context, skip, limit int) ([]models.PostWithCategory, int, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	query := joinedPostQuery("") + ` ORDER BY p.created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts with category: %w", err)
	}
	defer rows.Close()

	posts, err := scanJoinedPosts(rows)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// Update applies the non-nil fields of upd to the post. Returns
// ErrNothingToUpdate when no fields are set, distinct from ErrNotFound.
func (r *PostRepository) Update(ctx context.Context, id uuid.UUID, upd models.PostUpdate) (*models.Post, error) {
	if upd.Empty() {
		return nil, ErrNothingToUpdate
	}

	set := []string{"updated_at = now()"}
	args := []any{id}
	if upd.Description != nil {
		args = append(args, *upd.Description)
		set = append(set, fmt.Sprintf("description = $%d", len(args)))
	}
	if upd.CategoryID != nil {
		args = append(args, *upd.CategoryID)
		set = append(set, fmt.Sprintf("category_id = $%d", len(args)))
	}

	query := fmt.Sprintf(`
		UPDATE posts SET %s
		WHERE id = $1
		RETURNING `+postColumns, strings.Join(set, ", "))

	var post models.Post
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&post.ID, &post.MediaID, &post.Description, &post.CategoryID,
		&post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if isFKViolation(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return &post, nil
}

// Delete removes a post by ID and reports whether a row existed
func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete post: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// SearchByDescription retrieves posts whose description contains the pattern,
// case-insensitively.
func (r *PostRepository) SearchByDescription(ctx context.Context, pattern string, skip, limit int) ([]models.Post, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM posts WHERE description ILIKE '%' || $1 || '%'`
	if err := r.db.QueryRow(ctx, countQuery, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count matching posts: %w", err)
	}

	query := `SELECT ` + postColumns + `
		FROM posts
		WHERE description ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	posts, err := r.queryPosts(ctx, query, pattern, limit, skip)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// SearchByDescriptionWithCategory is SearchByDescription with categories
// joined in.
func (r *PostRepository) SearchByDescriptionWithCategory(ctx context.Context, pattern string, skip, limit int) ([]models.PostWithCategory, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM posts WHERE description ILIKE '%' || $1 || '%'`
	if err := r.db.QueryRow(ctx, countQuery, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count matching posts: %w", err)
	}

	query := joinedPostQuery("p.description ILIKE '%' || $1 || '%'") +
		` ORDER BY p.created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, pattern, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search posts with category: %w", err)
	}
	defer rows.Close()

	posts, err := scanJoinedPosts(rows)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListByCategory retrieves posts assigned to the given category
func (r *PostRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID, skip, limit int) ([]models.Post, int, error) {
	total, err := r.CountByCategory(ctx, categoryID)
	if err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + postColumns + `
		FROM posts
		WHERE category_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	posts, err := r.queryPosts(ctx, query, categoryID, limit, skip)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListByCategoryWithCategory is ListByCategory with categories joined in
func (r *PostRepository) ListByCategoryWithCategory(ctx context.Context, categoryID uuid.UUID, skip, limit int) ([]models.PostWithCategory, int, error) {
	total, err := r.CountByCategory(ctx, categoryID)
	if err != nil {
		return nil, 0, err
	}
	query := joinedPostQuery("p.category_id = $1") +
		` ORDER BY p.created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, categoryID, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts with category: %w", err)
	}
	defer rows.Close()

	posts, err := scanJoinedPosts(rows)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListWithoutCategory retrieves posts that have no category assigned
func (r *PostRepository) ListWithoutCategory(ctx context.Context, skip, limit int) ([]models.Post, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts WHERE category_id IS NULL`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts without category: %w", err)
	}
	query := `SELECT ` + postColumns + `
		FROM posts
		WHERE category_id IS NULL
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`
	posts, err := r.queryPosts(ctx, query, limit, skip)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// AssignCategory sets the category reference on a post. Returns ErrNotFound
// when either the post or the category does not exist.
func (r *PostRepository) AssignCategory(ctx context.Context, postID, categoryID uuid.UUID) (*models.Post, error) {
	query := `
		UPDATE posts SET category_id = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + postColumns
	var post models.Post
	err := r.db.QueryRow(ctx, query, postID, categoryID).Scan(
		&post.ID, &post.MediaID, &post.Description, &post.CategoryID,
		&post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isFKViolation(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to assign category: %w", err)
	}
	return &post, nil
}

// RemoveCategory clears the category reference on a post
func (r *PostRepository) RemoveCategory(ctx context.Context, postID uuid.UUID) (*models.Post, error) {
	query := `
		UPDATE posts SET category_id = NULL, updated_at = now()
		WHERE id = $1
		RETURNING ` + postColumns
	var post models.Post
	err := r.db.QueryRow(ctx, query, postID).Scan(
		&post.ID, &post.MediaID, &post.Description, &post.CategoryID,
		&post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to remove category: %w", err)
	}
	return &post, nil
}

// Count returns the total number of posts
func (r *PostRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return total, nil
}

// CountByCategory returns the number of posts assigned to a category
func (r *PostRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error) {
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts WHERE category_id = $1`, categoryID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count posts by category: %w", err)
	}
	return total, nil
}

// ClearCategoryRefs nulls the category reference on every post pointing at
// the given category and returns the ids of the affected posts.
func (r *PostRepository) ClearCategoryRefs(ctx context.Context, categoryID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		UPDATE posts SET category_id = NULL, updated_at = now()
		WHERE category_id = $1
		RETURNING id
	`
	rows, err := r.db.Query(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to clear category references: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan post id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post ids: %w", err)
	}
	return ids, nil
}

// ReassignCategory sets the category reference on every post whose id is in
// postIDs, in a single statement. Ids that match no row are skipped.
func (r *PostRepository) ReassignCategory(ctx context.Context, postIDs []uuid.UUID, categoryID uuid.UUID) error {
	query := `UPDATE posts SET category_id = $2, updated_at = now() WHERE id = ANY($1)`
	_, err := r.db.Exec(ctx, query, postIDs, categoryID)
	if err != nil {
		if isFKViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to reassign category: %w", err)
	}
	return nil
}

func (r *PostRepository) queryPosts(ctx context.Context, query string, args ...any) ([]models.Post, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var post models.Post
		err := rows.Scan(
			&post.ID, &post.MediaID, &post.Description, &post.CategoryID,
			&post.CreatedAt, &post.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}
	return posts, nil
}

// joinedPostQuery builds the post-with-category select; where may be empty.
func joinedPostQuery(where string) string {
	q := `
		SELECT p.id, p.media_id, p.description, p.category_id, p.created_at, p.updated_at,
		       c.id, c.name, c.description, c.created_at, c.updated_at
		FROM posts p
		LEFT JOIN categories c ON c.id = p.category_id`
	if where != "" {
		q += `
		WHERE ` + where
	}
	return q
}

func scanJoinedPosts(rows pgx.Rows) ([]models.PostWithCategory, error) {
	var posts []models.PostWithCategory
	for rows.Next() {
		var post models.PostWithCategory
		var (
			catID      *uuid.UUID
			catName    *string
			catDesc    *string
			catCreated *time.Time
			catUpdated *time.Time
		)
		err := rows.Scan(
			&post.ID, &post.MediaID, &post.Description, &post.CategoryID,
			&post.CreatedAt, &post.UpdatedAt,
			&catID, &catName, &catDesc, &catCreated, &catUpdated,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post with category: %w", err)
		}
		if catID != nil {
			post.Category = &models.Category{
				ID:          *catID,
				Name:        *catName,
				Description: *catDesc,
				CreatedAt:   *catCreated,
				UpdatedAt:   *catUpdated,
			}
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts with category: %w", err)
	}
	return posts, nil
}
