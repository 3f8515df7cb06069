package blobstore

import (
	"context"
)

// Store is the subset of the blob REST API the sync engine uses.
type Store interface {
	// EnsureContainer creates the container if it does not already exist.
	EnsureContainer(ctx context.Context, container string) error

	// ListBlobs returns every blob name in the container, in server order.
	ListBlobs(ctx context.Context, container string) ([]string, error)

	GetBlob(ctx context.Context, container, name string) ([]byte, error)

	// PutBlob uploads data as a block blob; an empty contentType is omitted.
	PutBlob(ctx context.Context, container, name string, data []byte, contentType string) error

	DeleteBlob(ctx context.Context, container, name string) error
}

var _ Store = (*Client)(nil)
