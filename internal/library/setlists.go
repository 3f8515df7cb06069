package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jaki95/setlist-sync/internal/domain"
)

// SaveSetlist creates or replaces a setlist.
func (l *Library) SaveSetlist(ctx context.Context, setlist *domain.Setlist) error {
	songIDs, err := json.Marshal(setlist.SongIDs)
	if err != nil {
		return fmt.Errorf("encoding song ids: %w", err)
	}

	now := l.timestamp()
	rec := setlistRecord{
		ID:        setlist.ID,
		Name:      setlist.Name,
		SongIDs:   string(songIDs),
		EventName: setlist.EventName,
		Venue:     setlist.Venue,
		EventDate: setlist.EventDate,
		Notes:     setlist.Notes,
		Created:   setlist.CreatedAt,
		Modified:  setlist.ModifiedAt,
	}
	if rec.Created.IsZero() {
		rec.Created = now
	}
	if rec.Modified.IsZero() {
		rec.Modified = now
	}

	if err := l.db.WithContext(ctx).Save(&rec).Error; err != nil {
		return fmt.Errorf("saving setlist %s: %w", setlist.ID, err)
	}
	return nil
}

// LoadSetlist returns the setlist with id or ErrSetlistNotFound.
func (l *Library) LoadSetlist(ctx context.Context, id string) (*domain.Setlist, error) {
	var rec setlistRecord
	err := l.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSetlistNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying setlist %s: %w", id, err)
	}
	return toSetlist(rec)
}

// ListSetlists returns every setlist ordered by name.
func (l *Library) ListSetlists(ctx context.Context) ([]*domain.Setlist, error) {
	var recs []setlistRecord
	if err := l.db.WithContext(ctx).Order("name").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("listing setlists: %w", err)
	}

	setlists := make([]*domain.Setlist, 0, len(recs))
	for _, rec := range recs {
		setlist, err := toSetlist(rec)
		if err != nil {
			return nil, err
		}
		setlists = append(setlists, setlist)
	}
	return setlists, nil
}

func toSetlist(rec setlistRecord) (*domain.Setlist, error) {
	var songIDs []string
	if rec.SongIDs != "" {
		if err := json.Unmarshal([]byte(rec.SongIDs), &songIDs); err != nil {
			return nil, fmt.Errorf("decoding song ids of setlist %s: %w", rec.ID, err)
		}
	}

	setlist := &domain.Setlist{
		ID:         rec.ID,
		Name:       rec.Name,
		SongIDs:    songIDs,
		CreatedAt:  rec.Created.UTC(),
		ModifiedAt: rec.Modified.UTC(),
		EventName:  rec.EventName,
		Venue:      rec.Venue,
		Notes:      rec.Notes,
	}
	if rec.EventDate != nil {
		eventDate := rec.EventDate.UTC()
		setlist.EventDate = &eventDate
	}
	return setlist, nil
}
