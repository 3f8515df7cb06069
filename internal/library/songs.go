package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jaki95/setlist-sync/internal/domain"
)

// ResolveSong returns the song with id, or nil when there is none.
func (l *Library) ResolveSong(ctx context.Context, id string) (*domain.Song, error) {
	var rec songRecord
	err := l.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying song %s: %w", id, err)
	}

	profiles, err := l.midiProfiles(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSong(rec, profiles[id]), nil
}

// ResolveSongByFileName matches "<base>.<ext>" against stored songs, then
// against recorded aliases.
func (l *Library) ResolveSongByFileName(ctx context.Context, fileName string) (*domain.Song, error) {
	base, ext := domain.SplitFileName(fileName)

	var rec songRecord
	err := l.db.WithContext(ctx).
		Where("file_name = ? AND file_extension = ?", base, ext).
		First(&rec).Error
	if err == nil {
		return l.ResolveSong(ctx, rec.ID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("querying song by file name: %w", err)
	}

	var alias fileAliasRecord
	err = l.db.WithContext(ctx).Where("file_name = ?", fileName).First(&alias).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying file alias: %w", err)
	}
	return l.ResolveSong(ctx, alias.SongID)
}

// AddFileNameAlias makes fileName resolve to songID.
func (l *Library) AddFileNameAlias(ctx context.Context, songID, fileName string) error {
	if fileName == "" {
		return nil
	}
	rec := fileAliasRecord{FileName: fileName, SongID: songID}
	if err := l.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec).Error; err != nil {
		return fmt.Errorf("saving file alias: %w", err)
	}
	return nil
}

// ImportEmbeddedBytes stores data as a new song.
func (l *Library) ImportEmbeddedBytes(ctx context.Context, title, fileName string, data []byte) (*domain.Song, error) {
	base, ext := domain.SplitFileName(fileName)
	now := l.timestamp()
	rec := songRecord{
		ID:            uuid.NewString(),
		Title:         title,
		FileName:      base,
		FileExtension: ext,
		Created:       now,
		Modified:      now,
	}

	path := filePath(rec.ID, ext)
	if err := l.files.WriteFile(path, data); err != nil {
		return nil, fmt.Errorf("storing song file: %w", err)
	}
	if err := l.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if removeErr := l.files.Remove(path); removeErr != nil {
			slog.Warn("Failed to remove orphaned song file", "path", path, "error", removeErr)
		}
		return nil, fmt.Errorf("creating song: %w", err)
	}

	slog.Info("Imported song", "id", rec.ID, "file", fileName, "bytes", len(data))
	song := toSong(rec, nil)
	song.FileData = data
	return song, nil
}

// ListLocalSongs returns every song, ordered by title.
func (l *Library) ListLocalSongs(ctx context.Context) ([]*domain.Song, error) {
	var recs []songRecord
	if err := l.db.WithContext(ctx).Order("title, file_name").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("listing songs: %w", err)
	}

	profiles, err := l.midiProfiles(ctx, "")
	if err != nil {
		return nil, err
	}

	songs := make([]*domain.Song, 0, len(recs))
	for _, rec := range recs {
		songs = append(songs, toSong(rec, profiles[rec.ID]))
	}
	return songs, nil
}

// SaveSong creates or updates song and replaces its MIDI profiles. File bytes,
// when present, are written to the file store.
func (l *Library) SaveSong(ctx context.Context, song *domain.Song) error {
	if song.ID == "" {
		song.ID = uuid.NewString()
	}

	now := l.timestamp()
	rec := fromSong(song)
	rec.Modified = now

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing songRecord
		err := tx.Select("created").Where("id = ?", song.ID).First(&existing).Error
		switch {
		case err == nil:
			rec.Created = existing.Created
		case errors.Is(err, gorm.ErrRecordNotFound):
			rec.Created = now
		default:
			return err
		}

		if err := tx.Save(&rec).Error; err != nil {
			return err
		}
		if err := tx.Where("song_id = ?", song.ID).Delete(&midiProfileRecord{}).Error; err != nil {
			return err
		}
		for i, p := range song.MIDIProfiles {
			profile := fromMIDIProfile(song.ID, i, p)
			if err := tx.Create(&profile).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving song %s: %w", song.ID, err)
	}

	if len(song.FileData) > 0 {
		if err := l.files.WriteFile(filePath(song.ID, song.FileExtension), song.FileData); err != nil {
			return fmt.Errorf("storing song file: %w", err)
		}
	}
	return nil
}

// ReadSongFile loads the song's binary from the file store.
func (l *Library) ReadSongFile(ctx context.Context, song *domain.Song) ([]byte, error) {
	data, err := l.files.ReadFile(filePath(song.ID, song.FileExtension))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSongNotFound, song.FullFileName(), err)
	}
	return data, nil
}

// ReloadLocalSongs reconciles the database with the file store and reports
// songs whose binary is missing.
func (l *Library) ReloadLocalSongs(ctx context.Context) error {
	songs, err := l.ListLocalSongs(ctx)
	if err != nil {
		return err
	}

	missing := 0
	for _, song := range songs {
		if !l.files.Exists(filePath(song.ID, song.FileExtension)) {
			missing++
			slog.Warn("Song file is missing", "id", song.ID, "file", song.FullFileName())
		}
	}
	slog.Info("Reloaded local songs", "count", len(songs), "missing_files", missing)
	return nil
}

// midiProfiles loads profiles grouped by song id; an empty songID loads all.
func (l *Library) midiProfiles(ctx context.Context, songID string) (map[string][]domain.MIDIProfile, error) {
	query := l.db.WithContext(ctx).Order("song_id, position")
	if songID != "" {
		query = query.Where("song_id = ?", songID)
	}

	var recs []midiProfileRecord
	if err := query.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("querying midi profiles: %w", err)
	}

	grouped := make(map[string][]domain.MIDIProfile)
	for _, rec := range recs {
		grouped[rec.SongID] = append(grouped[rec.SongID], domain.MIDIProfile{
			ID:             rec.ID,
			InstrumentType: domain.InstrumentType(rec.InstrumentType),
			Channel:        rec.Channel,
			ProgramNumber:  rec.ProgramNumber,
			BankMSB:        rec.BankMSB,
			BankLSB:        rec.BankLSB,
			Label:          rec.Label,
		})
	}
	return grouped, nil
}

func filePath(id, ext string) string {
	return domain.JoinFileName(id, ext)
}

func toSong(rec songRecord, profiles []domain.MIDIProfile) *domain.Song {
	return &domain.Song{
		ID:                rec.ID,
		Title:             rec.Title,
		FileName:          rec.FileName,
		FileExtension:     rec.FileExtension,
		Artist:            rec.Artist,
		Key:               rec.MusicalKey,
		Tempo:             rec.Tempo,
		Notes:             rec.Notes,
		PageCount:         rec.PageCount,
		MIDIChannel:       rec.MIDIChannel,
		MIDIProgramNumber: rec.MIDIProgramNumber,
		MIDIBankMSB:       rec.MIDIBankMSB,
		MIDIBankLSB:       rec.MIDIBankLSB,
		MIDIProfiles:      profiles,
	}
}

func fromSong(song *domain.Song) songRecord {
	return songRecord{
		ID:                song.ID,
		Title:             song.Title,
		FileName:          song.FileName,
		FileExtension:     song.FileExtension,
		Artist:            song.Artist,
		MusicalKey:        song.Key,
		Tempo:             song.Tempo,
		Notes:             song.Notes,
		PageCount:         song.PageCount,
		MIDIChannel:       song.MIDIChannel,
		MIDIProgramNumber: song.MIDIProgramNumber,
		MIDIBankMSB:       song.MIDIBankMSB,
		MIDIBankLSB:       song.MIDIBankLSB,
	}
}

func fromMIDIProfile(songID string, position int, p domain.MIDIProfile) midiProfileRecord {
	return midiProfileRecord{
		SongID:         songID,
		InstrumentType: string(p.InstrumentType),
		ID:             p.ID,
		Position:       position,
		Channel:        p.Channel,
		ProgramNumber:  p.ProgramNumber,
		BankMSB:        p.BankMSB,
		BankLSB:        p.BankLSB,
		Label:          p.Label,
	}
}
