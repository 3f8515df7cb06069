// Package resolver matches songs referenced by imported setlists against the
// local library and merges their MIDI and annotation metadata.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jaki95/setlist-sync/internal/domain"
)

// Branch records how an incoming song was satisfied.
type Branch string

const (
	BranchSkipped   Branch = "skipped"
	BranchExact     Branch = "exact"
	BranchConverted Branch = "converted"
	BranchImported  Branch = "imported"
)

// RenderExtension is the format legacy documents are converted to locally.
const RenderExtension = "pdf"

var legacyDocumentExtensions = []string{"doc", "docx"}

// Resolution is the outcome of resolving one incoming song.
type Resolution struct {
	Song   *domain.Song
	Branch Branch
}

// Report counts resolution outcomes for one setlist import.
type Report struct {
	Exact     int `json:"exact"`
	Converted int `json:"converted"`
	Imported  int `json:"imported"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

func (r *Report) record(b Branch) {
	switch b {
	case BranchExact:
		r.Exact++
	case BranchConverted:
		r.Converted++
	case BranchImported:
		r.Imported++
	default:
		r.Skipped++
	}
}

// Resolver imports setlists into the local library.
type Resolver struct {
	library     SongLibrary
	annotations AnnotationStore
	now         func() time.Time
}

// New creates a Resolver.
func New(library SongLibrary, annotations AnnotationStore) *Resolver {
	return &Resolver{
		library:     library,
		annotations: annotations,
		now:         time.Now,
	}
}

// IsLegacyDocument reports whether ext is a word-processor format that may
// have been converted to RenderExtension locally.
func IsLegacyDocument(ext string) bool {
	for _, legacy := range legacyDocumentExtensions {
		if strings.EqualFold(ext, legacy) {
			return true
		}
	}
	return false
}

// Resolve finds or creates the local song for in: exact file name first, then
// a converted rendering of a legacy document, then an import of the embedded
// bytes. A Resolution with a nil Song means the reference cannot be satisfied.
func (r *Resolver) Resolve(ctx context.Context, in domain.IncomingSong) (Resolution, error) {
	fullName := in.FullFileName()

	if fullName != "" {
		song, err := r.library.ResolveSongByFileName(ctx, fullName)
		if err != nil {
			return Resolution{}, fmt.Errorf("resolving %s: %w", fullName, err)
		}
		if song != nil {
			return Resolution{Song: song, Branch: BranchExact}, nil
		}
	}

	if IsLegacyDocument(in.FileExtension) {
		song, err := r.findRendering(ctx, in.FileName)
		if err != nil {
			return Resolution{}, err
		}
		if song != nil {
			if err := r.library.AddFileNameAlias(ctx, song.ID, fullName); err != nil {
				slog.Warn("Failed to record file name alias", "song", song.ID, "alias", fullName, "error", err)
			}
			return Resolution{Song: song, Branch: BranchConverted}, nil
		}
	}

	if len(in.FileData) > 0 {
		title := in.Title
		if title == "" {
			title = in.FileName
		}
		song, err := r.library.ImportEmbeddedBytes(ctx, title, fullName, in.FileData)
		if err != nil {
			return Resolution{}, fmt.Errorf("importing %s: %w", fullName, err)
		}
		return Resolution{Song: song, Branch: BranchImported}, nil
	}

	return Resolution{Branch: BranchSkipped}, nil
}

func (r *Resolver) findRendering(ctx context.Context, base string) (*domain.Song, error) {
	songs, err := r.library.ListLocalSongs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing local songs: %w", err)
	}
	for _, song := range songs {
		if strings.EqualFold(song.FileExtension, RenderExtension) && song.FileName == base {
			return song, nil
		}
	}
	return nil, nil
}

// ImportExport resolves every song of export and returns a setlist of the
// resolved references. Songs that fail to resolve are logged and skipped.
func (r *Resolver) ImportExport(ctx context.Context, export *domain.SetlistExport) (*domain.Setlist, Report, error) {
	var report Report
	now := r.now().UTC().Truncate(time.Second)

	setlist := &domain.Setlist{
		ID:         export.ID,
		Name:       export.Name,
		SongIDs:    make([]string, 0, len(export.Songs)),
		CreatedAt:  export.CreatedAt,
		ModifiedAt: now,
		EventName:  export.Event,
		Venue:      export.Venue,
		EventDate:  export.EventDate,
		Notes:      export.Notes,
	}
	if setlist.ID == "" {
		setlist.ID = uuid.NewString()
	}
	if setlist.CreatedAt.IsZero() {
		setlist.CreatedAt = now
	}

	for _, in := range export.Songs {
		if err := ctx.Err(); err != nil {
			return nil, report, err
		}

		resolution, err := r.Resolve(ctx, in)
		if err != nil {
			slog.Warn("Skipping song that failed to resolve", "setlist", export.Name, "file", in.FullFileName(), "error", err)
			report.Failed++
			continue
		}
		report.record(resolution.Branch)
		if resolution.Song == nil {
			slog.Warn("Skipping unresolvable song", "setlist", export.Name, "file", in.FullFileName())
			continue
		}

		if err := r.applyMetadata(ctx, resolution.Song, in); err != nil {
			slog.Warn("Failed to merge song metadata", "song", resolution.Song.ID, "error", err)
		}
		setlist.AddSong(resolution.Song.ID)
	}

	slog.Info("Resolved setlist songs", "setlist", setlist.Name,
		"exact", report.Exact, "converted", report.Converted, "imported", report.Imported,
		"skipped", report.Skipped, "failed", report.Failed)
	return setlist, report, nil
}

// ImportLegacy converts a legacy songlist and imports it.
func (r *Resolver) ImportLegacy(ctx context.Context, legacy *domain.LegacySetlist) (*domain.Setlist, Report, error) {
	return r.ImportExport(ctx, FromLegacy(legacy))
}

// applyMetadata writes incoming MIDI onto song and merges annotation profiles.
// Profiles take precedence over a raw legacy command string.
func (r *Resolver) applyMetadata(ctx context.Context, song *domain.Song, in domain.IncomingSong) error {
	changed := false
	switch {
	case len(in.MIDIProfiles) > 0:
		for _, p := range in.MIDIProfiles {
			if p.IsActive() {
				song.SetMIDIProfile(p)
				changed = true
			}
		}
	case in.MIDICommand != "":
		if p, ok := ParseMIDICommand(in.MIDICommand); ok {
			song.SetMIDIProfile(p)
			changed = true
		}
	}

	if changed {
		for i := range song.MIDIProfiles {
			if song.MIDIProfiles[i].ID == "" {
				song.MIDIProfiles[i].ID = uuid.NewString()
			}
		}
		if err := r.library.SaveSong(ctx, song); err != nil {
			return fmt.Errorf("saving MIDI profiles: %w", err)
		}
	}

	if len(in.AnnotationProfiles) == 0 {
		return nil
	}

	key := song.FullFileName()
	local, err := r.annotations.LoadAnnotationProfiles(ctx, key)
	if err != nil {
		return fmt.Errorf("loading annotation profiles: %w", err)
	}
	merged := MergeAnnotationProfiles(local, in.AnnotationProfiles)
	if err := r.annotations.SaveAnnotationProfiles(ctx, key, merged); err != nil {
		return fmt.Errorf("saving annotation profiles: %w", err)
	}
	song.AnnotationProfiles = merged
	return nil
}

// LegacySetlistID derives a stable setlist id from a legacy numeric id, so
// importing the same songlist twice updates one setlist.
func LegacySetlistID(legacyID int64) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("legacy-setlist:%d", legacyID))).String()
}

// FromLegacy converts a legacy songlist into the export shape.
func FromLegacy(legacy *domain.LegacySetlist) *domain.SetlistExport {
	export := &domain.SetlistExport{
		ID:    LegacySetlistID(legacy.ID),
		Name:  legacy.Name,
		Songs: make([]domain.IncomingSong, 0, len(legacy.Songs)),
	}

	for _, s := range legacy.Songs {
		fullName := path.Base(strings.ReplaceAll(s.Path, "\\", "/"))
		if s.Path == "" || fullName == "/" || fullName == "." {
			fullName = s.Name
		}
		base, ext := domain.SplitFileName(fullName)

		title := s.Name
		if title == "" {
			title = base
		}
		export.Songs = append(export.Songs, domain.IncomingSong{
			Title:         title,
			FileName:      base,
			FileExtension: ext,
			FileData:      s.File,
			MIDICommand:   s.MIDICommands,
		})
	}
	return export
}
