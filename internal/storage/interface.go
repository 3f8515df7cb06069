package storage

import (
	"io"
)

// Storage defines the interface for song binary storage. Paths are relative
// to the storage root.
type Storage interface {
	WriteFile(path string, data []byte) error

	ReadFile(path string) ([]byte, error)

	GetReader(path string) (io.ReadCloser, error)

	Exists(path string) bool

	Remove(path string) error

	// ListFiles lists regular files in dir whose names start with prefix.
	ListFiles(dir string, prefix string) ([]string, error)
}
