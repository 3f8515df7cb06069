package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// FileStorage implements the Storage interface on an afero filesystem
type FileStorage struct {
	fs afero.Fs
}

// NewLocalFileStorage creates storage rooted at dir on the local filesystem
func NewLocalFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return NewFileStorage(afero.NewBasePathFs(afero.NewOsFs(), dir)), nil
}

// NewMemoryStorage creates storage backed by an in-memory filesystem
func NewMemoryStorage() *FileStorage {
	return NewFileStorage(afero.NewMemMapFs())
}

// NewFileStorage wraps an existing filesystem
func NewFileStorage(fs afero.Fs) *FileStorage {
	return &FileStorage{fs: fs}
}

// WriteFile writes data to path, creating parent directories
func (s *FileStorage) WriteFile(path string, data []byte) error {
	path = clean(path)
	if dir := filepath.Dir(path); dir != "." && dir != string(filepath.Separator) {
		if err := s.fs.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(s.fs, path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadFile reads the whole file at path
func (s *FileStorage) ReadFile(path string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// GetReader returns a reader for the specified file
func (s *FileStorage) GetReader(path string) (io.ReadCloser, error) {
	return s.fs.Open(clean(path))
}

// Exists checks if a regular file exists
func (s *FileStorage) Exists(path string) bool {
	info, err := s.fs.Stat(clean(path))
	return err == nil && !info.IsDir()
}

// Remove deletes the file at path. Missing files are not an error.
func (s *FileStorage) Remove(path string) error {
	if err := s.fs.Remove(clean(path)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// ListFiles lists files in a directory matching a prefix
func (s *FileStorage) ListFiles(dir string, prefix string) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	dir = clean(dir)

	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var results []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if prefix != "" && !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		results = append(results, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(results)
	return results, nil
}

func clean(path string) string {
	return filepath.Clean(filepath.FromSlash(path))
}
