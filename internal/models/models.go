package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name,omitempty"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Category groups posts under a unique name
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Post represents an uploaded media item, optionally assigned to a category.
// CategoryID is nil when the post has no category.
type Post struct {
	ID          uuid.UUID  `json:"id"`
	MediaID     uuid.UUID  `json:"media_id"`
	Description string     `json:"description"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// PostWithCategory is a post with its category joined in; Category is nil
// when the post has none.
type PostWithCategory struct {
	Post
	Category *Category `json:"category,omitempty"`
}

// PostUpdate is a partial update: nil fields are left untouched.
type PostUpdate struct {
	Description *string    `json:"description"`
	CategoryID  *uuid.UUID `json:"category_id"`
}

// Empty reports whether the update carries no fields at all.
func (u PostUpdate) Empty() bool {
	return u.Description == nil && u.CategoryID == nil
}

// CategoryUpdate is a partial update: nil fields are left untouched.
type CategoryUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Empty reports whether the update carries no fields at all.
func (u CategoryUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil
}

// PostSpec describes a post to be created in a bulk batch.
type PostSpec struct {
	MediaID     uuid.UUID  `json:"media_id"`
	Description string     `json:"description"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
}
