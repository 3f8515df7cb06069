package schema

import (
	"github.com/jaki95/setlist-sync/internal/domain"
)

// ExportSetlist builds the export shape for a setlist and its resolved songs.
// File bytes are carried only when includeFileData is set.
func ExportSetlist(setlist *domain.Setlist, songs []*domain.Song, includeFileData bool) *domain.SetlistExport {
	export := &domain.SetlistExport{
		Version:    CurrentVersion,
		ID:         setlist.ID,
		Name:       setlist.Name,
		Event:      setlist.EventName,
		Venue:      setlist.Venue,
		EventDate:  setlist.EventDate,
		Notes:      setlist.Notes,
		CreatedAt:  setlist.CreatedAt,
		ModifiedAt: setlist.ModifiedAt,
		Songs:      make([]domain.IncomingSong, 0, len(songs)),
	}

	for _, song := range songs {
		incoming := domain.IncomingSong{
			ID:                 song.ID,
			Title:              song.Title,
			FileName:           song.FileName,
			FileExtension:      song.FileExtension,
			Artist:             song.Artist,
			Key:                song.Key,
			Tempo:              song.Tempo,
			Notes:              song.Notes,
			PageCount:          song.PageCount,
			MIDIProfiles:       song.ActiveMIDIProfiles(),
			AnnotationProfiles: song.AnnotationProfiles,
		}
		if includeFileData {
			incoming.FileData = song.FileData
		}
		export.Songs = append(export.Songs, incoming)
	}
	return export
}
