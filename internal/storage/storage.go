package storage

import (
	"context"

	"github.com/google/uuid"
)

// MediaStore persists the media bytes behind a post, keyed by the post's
// media reference.
type MediaStore interface {
	Save(ctx context.Context, mediaID uuid.UUID, data []byte) error
	Delete(ctx context.Context, mediaID uuid.UUID) error
}
