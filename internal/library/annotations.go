package library

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/jaki95/setlist-sync/internal/domain"
)

// LoadAnnotationProfiles returns the profiles stored for songKey in order.
func (l *Library) LoadAnnotationProfiles(ctx context.Context, songKey string) ([]domain.AnnotationProfile, error) {
	var recs []annotationProfileRecord
	if err := l.db.WithContext(ctx).Where("song_key = ?", songKey).Order("position").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("querying annotation profiles: %w", err)
	}

	profiles := make([]domain.AnnotationProfile, 0, len(recs))
	for _, rec := range recs {
		var annotations []domain.Annotation
		if rec.Annotations != "" {
			if err := json.Unmarshal([]byte(rec.Annotations), &annotations); err != nil {
				return nil, fmt.Errorf("decoding annotations of profile %s: %w", rec.ID, err)
			}
		}
		for i := range annotations {
			annotations[i].CreatedAt = annotations[i].CreatedAt.UTC()
			annotations[i].ModifiedAt = annotations[i].ModifiedAt.UTC()
		}
		profiles = append(profiles, domain.AnnotationProfile{
			ID:          rec.ID,
			Name:        rec.Name,
			OwnerName:   rec.OwnerName,
			IsDefault:   rec.IsDefault,
			Annotations: annotations,
			CreatedAt:   rec.Created.UTC(),
			ModifiedAt:  rec.Modified.UTC(),
		})
	}
	return profiles, nil
}

// SaveAnnotationProfiles replaces the profiles stored for songKey.
func (l *Library) SaveAnnotationProfiles(ctx context.Context, songKey string, profiles []domain.AnnotationProfile) error {
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("song_key = ?", songKey).Delete(&annotationProfileRecord{}).Error; err != nil {
			return err
		}
		for i, p := range profiles {
			annotations, err := json.Marshal(p.Annotations)
			if err != nil {
				return fmt.Errorf("encoding annotations of profile %s: %w", p.ID, err)
			}
			rec := annotationProfileRecord{
				SongKey:     songKey,
				ID:          p.ID,
				Position:    i,
				Name:        p.Name,
				OwnerName:   p.OwnerName,
				IsDefault:   p.IsDefault,
				Annotations: string(annotations),
				Created:     p.CreatedAt,
				Modified:    p.ModifiedAt,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving annotation profiles for %s: %w", songKey, err)
	}
	return nil
}
