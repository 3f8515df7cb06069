package resolver

import (
	"time"

	"github.com/jaki95/setlist-sync/internal/domain"
)

// MergeAnnotationProfiles folds incoming profiles into local ones by profile
// id. When both sides hold an id, the later modification wins as a whole
// profile; on equal times the local profile is kept. Profiles new to local are
// appended in incoming order.
func MergeAnnotationProfiles(local, incoming []domain.AnnotationProfile) []domain.AnnotationProfile {
	merged := make([]domain.AnnotationProfile, len(local), len(local)+len(incoming))
	copy(merged, local)

	index := make(map[string]int, len(merged))
	for i, p := range merged {
		index[p.ID] = i
	}

	for _, p := range incoming {
		i, ok := index[p.ID]
		if !ok {
			index[p.ID] = len(merged)
			merged = append(merged, p)
			continue
		}
		if modifiedAt(p).After(modifiedAt(merged[i])) {
			merged[i] = p
		}
	}
	return merged
}

// modifiedAt falls back to the newest annotation change for profiles that
// never recorded their own.
func modifiedAt(p domain.AnnotationProfile) time.Time {
	if !p.ModifiedAt.IsZero() {
		return p.ModifiedAt
	}
	return p.LatestAnnotationChange()
}
