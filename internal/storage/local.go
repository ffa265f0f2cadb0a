package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStore keeps media bytes as files under a directory, one file per
// media reference.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the directory if needed and returns the store
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) path(mediaID uuid.UUID) string {
	return filepath.Join(s.dir, mediaID.String()+".jpg")
}

// Save writes the media bytes for the given reference
func (s *LocalStore) Save(_ context.Context, mediaID uuid.UUID, data []byte) error {
	if err := os.WriteFile(s.path(mediaID), data, 0o644); err != nil {
		return fmt.Errorf("failed to write media file: %w", err)
	}
	return nil
}

// Delete removes the media bytes; deleting absent media is not an error
func (s *LocalStore) Delete(_ context.Context, mediaID uuid.UUID) error {
	if err := os.Remove(s.path(mediaID)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove media file: %w", err)
	}
	return nil
}
