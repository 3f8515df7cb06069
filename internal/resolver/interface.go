package resolver

import (
	"context"

	"github.com/jaki95/setlist-sync/internal/domain"
)

// SongLibrary is the local song library as seen by the resolver.
type SongLibrary interface {
	domain.SongLookup

	// ResolveSongByFileName matches "<base>.<ext>" against stored file names
	// and recorded aliases. A nil song with a nil error means no match.
	ResolveSongByFileName(ctx context.Context, fileName string) (*domain.Song, error)

	// AddFileNameAlias makes fileName resolve to the song from now on.
	AddFileNameAlias(ctx context.Context, songID, fileName string) error

	// ImportEmbeddedBytes stores data as a new song and returns it.
	ImportEmbeddedBytes(ctx context.Context, title, fileName string, data []byte) (*domain.Song, error)

	ListLocalSongs(ctx context.Context) ([]*domain.Song, error)

	SaveSong(ctx context.Context, song *domain.Song) error
}

// AnnotationStore holds annotation profiles keyed by song file name.
type AnnotationStore interface {
	LoadAnnotationProfiles(ctx context.Context, songKey string) ([]domain.AnnotationProfile, error)
	SaveAnnotationProfiles(ctx context.Context, songKey string, profiles []domain.AnnotationProfile) error
}
