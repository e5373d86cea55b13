package filestore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store keeps uploaded document bytes on disk under a single directory,
// keyed by a generated filename so re-uploads never collide.
type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir failed: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes data under a fresh "<uuid>-<originalName>" filename and returns
// the stored name and full path.
func (s *Store) Save(data []byte, originalName string) (string, string, error) {
	name := uuid.NewString() + "-" + filepath.Base(originalName)
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", "", fmt.Errorf("write upload failed: %w", err)
	}
	return name, path, nil
}

// Delete removes a stored file; a missing file is not an error.
func (s *Store) Delete(storedName string) error {
	path := filepath.Join(s.dir, filepath.Base(storedName))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete upload failed: %w", err)
	}
	return nil
}

// Open returns the stored file's bytes.
func (s *Store) Open(storedName string) ([]byte, error) {
	path := filepath.Join(s.dir, filepath.Base(storedName))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read upload failed: %w", err)
	}
	return data, nil
}
