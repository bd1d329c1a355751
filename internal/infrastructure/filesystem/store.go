package filesystem

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store manages uploaded source files and the artifact output root.
type Store struct {
	UploadsDir string
	OutputDir  string
}

// NewStore creates the filesystem adapter with configured roots.
func NewStore(uploadsDir, outputDir string) *Store {
	return &Store{UploadsDir: uploadsDir, OutputDir: outputDir}
}

// EnsureDirs creates the filesystem roots used by the service.
func (s *Store) EnsureDirs() error {
	if err := os.MkdirAll(s.UploadsDir, 0o755); err != nil {
		return err
	}
	return os.MkdirAll(s.OutputDir, 0o755)
}

// SaveUpload writes an upload under a fresh random basename that keeps
// the original extension, and returns the stored path. Random names
// keep concurrent uploads (and their derived artifact names) from
// colliding.
func (s *Store) SaveUpload(r io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	path := filepath.Join(s.UploadsDir, uuid.NewString()+ext)

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(dst, r); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return "", err
	}

	return path, nil
}

// Remove deletes a stored file. A missing file is not an error; cleanup
// runs on every job exit path and must be idempotent.
func (s *Store) Remove(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
