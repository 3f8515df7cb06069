package server

import (
	"github.com/jaki95/setlist-sync/internal/domain"
	"github.com/jaki95/setlist-sync/internal/progress"
	"github.com/jaki95/setlist-sync/internal/resolver"
)

// ItemsResponse lists blob names of one container
type ItemsResponse struct {
	Items []string `json:"items"`
}

// LegacySongPreview describes one song of a legacy songlist without its bytes
type LegacySongPreview struct {
	Name         string `json:"name"`
	Path         string `json:"path"`
	MIDICommands string `json:"midiCommands,omitempty"`
	HasFile      bool   `json:"hasFile"`
	FileSize     int    `json:"fileSize,omitempty"`
}

// LegacyPreviewResponse is a decoded legacy songlist
type LegacyPreviewResponse struct {
	Name  string              `json:"name"`
	ID    int64               `json:"id"`
	Songs []LegacySongPreview `json:"songs"`
}

// ImportResponse is the setlist produced by an import and how its songs resolved
type ImportResponse struct {
	Setlist *domain.Setlist `json:"setlist"`
	Report  resolver.Report `json:"report"`
}

// ProgressResponse holds the state of both sync directions
type ProgressResponse struct {
	Upload   progress.Event `json:"upload"`
	Download progress.Event `json:"download"`
}

// MessageResponse represents a generic message payload used for success responses.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents a generic error payload used for error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func newLegacyPreview(setlist *domain.LegacySetlist) LegacyPreviewResponse {
	preview := LegacyPreviewResponse{
		Name:  setlist.Name,
		ID:    setlist.ID,
		Songs: make([]LegacySongPreview, 0, len(setlist.Songs)),
	}
	for _, song := range setlist.Songs {
		preview.Songs = append(preview.Songs, LegacySongPreview{
			Name:         song.Name,
			Path:         song.Path,
			MIDICommands: song.MIDICommands,
			HasFile:      song.HasFile(),
			FileSize:     len(song.File),
		})
	}
	return preview
}
