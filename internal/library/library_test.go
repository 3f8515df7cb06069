package library

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaki95/setlist-sync/internal/domain"
	"github.com/jaki95/setlist-sync/internal/resolver"
	"github.com/jaki95/setlist-sync/internal/storage"
)

var (
	_ resolver.SongLibrary     = (*Library)(nil)
	_ resolver.AnnotationStore = (*Library)(nil)
)

func newTestLibrary(t *testing.T) (*Library, *storage.FileStorage) {
	t.Helper()
	files := storage.NewMemoryStorage()
	lib, err := Open(filepath.Join(t.TempDir(), "library.sqlite3"), files)
	require.NoError(t, err)
	t.Cleanup(func() { _ = lib.Close() })
	return lib, files
}

func TestImportAndResolve(t *testing.T) {
	ctx := context.Background()
	lib, files := newTestLibrary(t)

	song, err := lib.ImportEmbeddedBytes(ctx, "Amazing Grace", "Amazing Grace.pdf", []byte("%PDF"))
	require.NoError(t, err)
	assert.NotEmpty(t, song.ID)
	assert.Equal(t, "Amazing Grace", song.FileName)
	assert.Equal(t, "pdf", song.FileExtension)
	assert.True(t, files.Exists(song.ID+".pdf"))

	byID, err := lib.ResolveSong(ctx, song.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "Amazing Grace", byID.Title)

	byName, err := lib.ResolveSongByFileName(ctx, "Amazing Grace.pdf")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, song.ID, byName.ID)

	data, err := lib.ReadSongFile(ctx, byName)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), data)

	missing, err := lib.ResolveSong(ctx, "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, missing)

	missing, err = lib.ResolveSongByFileName(ctx, "Amazing Grace.doc")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFileNameAlias(t *testing.T) {
	ctx := context.Background()
	lib, _ := newTestLibrary(t)

	song, err := lib.ImportEmbeddedBytes(ctx, "Hymn", "Hymn.pdf", []byte("pdf"))
	require.NoError(t, err)

	require.NoError(t, lib.AddFileNameAlias(ctx, song.ID, "Hymn.doc"))
	require.NoError(t, lib.AddFileNameAlias(ctx, song.ID, "Hymn.doc"))

	resolved, err := lib.ResolveSongByFileName(ctx, "Hymn.doc")
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, song.ID, resolved.ID)
}

func TestSaveSongMIDIProfiles(t *testing.T) {
	ctx := context.Background()
	lib, _ := newTestLibrary(t)

	song, err := lib.ImportEmbeddedBytes(ctx, "Song", "Song.pdf", []byte("pdf"))
	require.NoError(t, err)

	song.SetMIDIProfile(domain.MIDIProfile{ID: "kb", InstrumentType: domain.InstrumentKeyboard, Channel: 3, ProgramNumber: domain.IntPtr(42), BankMSB: domain.IntPtr(0), BankLSB: domain.IntPtr(3)})
	song.SetMIDIProfile(domain.MIDIProfile{ID: "gt", InstrumentType: domain.InstrumentGuitar, Channel: 1, ProgramNumber: domain.IntPtr(25), Label: "Clean"})
	require.NoError(t, lib.SaveSong(ctx, song))

	loaded, err := lib.ResolveSong(ctx, song.ID)
	require.NoError(t, err)
	require.Len(t, loaded.MIDIProfiles, 2)
	assert.Equal(t, song.MIDIProfiles, loaded.MIDIProfiles)
	assert.Equal(t, 3, *loaded.MIDIChannel)
	assert.Equal(t, 42, *loaded.MIDIProgramNumber)

	// Replacing drops profiles that are gone.
	loaded.MIDIProfiles = loaded.MIDIProfiles[:1]
	require.NoError(t, lib.SaveSong(ctx, loaded))

	songs, err := lib.ListLocalSongs(ctx)
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Len(t, songs[0].MIDIProfiles, 1)
}

func TestListLocalSongsOrdered(t *testing.T) {
	ctx := context.Background()
	lib, _ := newTestLibrary(t)

	for _, name := range []string{"Charlie.pdf", "Alpha.pdf", "Bravo.docx"} {
		base, _ := domain.SplitFileName(name)
		_, err := lib.ImportEmbeddedBytes(ctx, base, name, []byte(name))
		require.NoError(t, err)
	}

	songs, err := lib.ListLocalSongs(ctx)
	require.NoError(t, err)
	require.Len(t, songs, 3)
	assert.Equal(t, "Alpha", songs[0].Title)
	assert.Equal(t, "docx", songs[1].FileExtension)
	assert.Equal(t, "Charlie", songs[2].Title)
}

func TestDuplicateImportFails(t *testing.T) {
	ctx := context.Background()
	lib, files := newTestLibrary(t)

	_, err := lib.ImportEmbeddedBytes(ctx, "Song", "Song.pdf", []byte("one"))
	require.NoError(t, err)

	_, err = lib.ImportEmbeddedBytes(ctx, "Song", "Song.pdf", []byte("two"))
	require.Error(t, err)

	stored, err := files.ListFiles("", "")
	require.NoError(t, err)
	assert.Len(t, stored, 1, "the orphaned file is removed")
}

func TestReloadLocalSongs(t *testing.T) {
	ctx := context.Background()
	lib, files := newTestLibrary(t)

	song, err := lib.ImportEmbeddedBytes(ctx, "Song", "Song.pdf", []byte("pdf"))
	require.NoError(t, err)
	require.NoError(t, files.Remove(song.ID+".pdf"))

	assert.NoError(t, lib.ReloadLocalSongs(ctx))
}

func TestAnnotationProfiles(t *testing.T) {
	ctx := context.Background()
	lib, _ := newTestLibrary(t)
	modified := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	profiles := []domain.AnnotationProfile{
		{
			ID:         "p2",
			Name:       "Bass player",
			ModifiedAt: modified,
			Annotations: []domain.Annotation{
				{ID: "a1", PageIndex: 1, RelativeX: 0.5, RelativeY: 0.25, Text: "repeat", Color: domain.ColorBlue, FontSize: domain.FontSmall, ModifiedAt: modified},
			},
		},
		{ID: "p1", Name: "Default", IsDefault: true},
	}
	require.NoError(t, lib.SaveAnnotationProfiles(ctx, "Song.pdf", profiles))

	loaded, err := lib.LoadAnnotationProfiles(ctx, "Song.pdf")
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "p2", loaded[0].ID, "order is preserved")
	assert.True(t, loaded[0].ModifiedAt.Equal(modified))
	require.Len(t, loaded[0].Annotations, 1)
	assert.Equal(t, "repeat", loaded[0].Annotations[0].Text)
	assert.True(t, loaded[1].IsDefault)

	require.NoError(t, lib.SaveAnnotationProfiles(ctx, "Song.pdf", profiles[1:]))
	loaded, err = lib.LoadAnnotationProfiles(ctx, "Song.pdf")
	require.NoError(t, err)
	assert.Len(t, loaded, 1)

	none, err := lib.LoadAnnotationProfiles(ctx, "Other.pdf")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSetlists(t *testing.T) {
	ctx := context.Background()
	lib, _ := newTestLibrary(t)
	eventDate := time.Date(2024, 12, 24, 18, 0, 0, 0, time.UTC)

	setlist := &domain.Setlist{
		ID:        "set-1",
		Name:      "Christmas Eve",
		SongIDs:   []string{"s1", "s2"},
		EventName: "Service",
		Venue:     "Chapel",
		EventDate: &eventDate,
	}
	require.NoError(t, lib.SaveSetlist(ctx, setlist))

	loaded, err := lib.LoadSetlist(ctx, "set-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2"}, loaded.SongIDs)
	assert.Equal(t, "Chapel", loaded.Venue)
	require.NotNil(t, loaded.EventDate)
	assert.True(t, loaded.EventDate.Equal(eventDate))
	assert.False(t, loaded.CreatedAt.IsZero())

	setlist.SongIDs = []string{"s2"}
	require.NoError(t, lib.SaveSetlist(ctx, setlist))
	loaded, err = lib.LoadSetlist(ctx, "set-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"s2"}, loaded.SongIDs)

	require.NoError(t, lib.SaveSetlist(ctx, &domain.Setlist{ID: "set-0", Name: "Advent"}))
	all, err := lib.ListSetlists(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Advent", all[0].Name)

	_, err = lib.LoadSetlist(ctx, "missing")
	assert.ErrorIs(t, err, ErrSetlistNotFound)
}
