package domain

import (
	"context"
	"time"
)

// Setlist is an ordered collection of song references plus event metadata.
// SongIDs are references into the local song library, never embedded copies.
type Setlist struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	SongIDs    []string   `json:"song_ids"`
	CreatedAt  time.Time  `json:"created_at"`
	ModifiedAt time.Time  `json:"modified_at"`
	EventName  string     `json:"event_name,omitempty"`
	Venue      string     `json:"venue,omitempty"`
	EventDate  *time.Time `json:"event_date,omitempty"`
	Notes      string     `json:"notes,omitempty"`
}

// SongLookup is the read-only port into the song library.
// A nil song with a nil error means the id does not resolve.
type SongLookup interface {
	ResolveSong(ctx context.Context, id string) (*Song, error)
}

// AddSong appends a song reference.
func (s *Setlist) AddSong(id string) {
	s.SongIDs = append(s.SongIDs, id)
}

// ResolveSongs returns the songs referenced by the setlist in order.
// Ids that no longer resolve are dropped silently.
func (s *Setlist) ResolveSongs(ctx context.Context, lookup SongLookup) ([]*Song, error) {
	songs := make([]*Song, 0, len(s.SongIDs))
	for _, id := range s.SongIDs {
		song, err := lookup.ResolveSong(ctx, id)
		if err != nil {
			return nil, err
		}
		if song == nil {
			continue
		}
		songs = append(songs, song)
	}
	return songs, nil
}
