package service

import (
	"context"

	"github.com/jaki95/setlist-sync/internal/domain"
	"github.com/jaki95/setlist-sync/internal/resolver"
)

// Library is the local store the orchestrator reads from and imports into.
type Library interface {
	resolver.SongLibrary
	resolver.AnnotationStore

	SaveSetlist(ctx context.Context, setlist *domain.Setlist) error
	LoadSetlist(ctx context.Context, id string) (*domain.Setlist, error)

	// ReadSongFile returns the song's binary.
	ReadSongFile(ctx context.Context, song *domain.Song) ([]byte, error)

	ReloadLocalSongs(ctx context.Context) error
}
