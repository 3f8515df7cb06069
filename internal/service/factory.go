package service

import (
	"fmt"

	"github.com/jaki95/setlist-sync/config"
	"github.com/jaki95/setlist-sync/internal/blobstore"
	"github.com/jaki95/setlist-sync/internal/library"
	"github.com/jaki95/setlist-sync/internal/storage"
)

// NewFromConfig wires a Service to the configured blob account and the local
// library. Call the returned close function when done.
func NewFromConfig(cfg *config.Config) (*Service, func() error, error) {
	client, err := blobstore.NewClient(blobstore.Config{
		Account:    cfg.Storage.Account,
		AccountKey: cfg.Storage.AccountKey,
		Endpoint:   cfg.Storage.Endpoint,
		APIVersion: cfg.Storage.APIVersion,
		Timeout:    cfg.Storage.Timeout(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	files, err := storage.NewLocalFileStorage(cfg.Library.FilesDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open song files: %w", err)
	}

	lib, err := library.Open(cfg.Library.DBPath, files)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open library: %w", err)
	}

	svc := New(client, lib, Options{
		LegacyContainer:  cfg.Storage.LegacyContainer,
		CurrentContainer: cfg.Storage.CurrentContainer,
		IncludeFileData:  cfg.Storage.IncludeFileData,
	})
	return svc, lib.Close, nil
}
