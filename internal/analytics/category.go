package analytics

import (
	"sort"
	"time"

	"github.com/claude/liftlog/internal/models"
)

// CategoryResolver maps an exercise id to its catalog category.
type CategoryResolver interface {
	Category(exerciseID string) string
}

// CategoryVolume is the training volume attributed to one category.
type CategoryVolume struct {
	Category string  `json:"category"`
	VolumeKg float64 `json:"volume_kg"`
	Sets     int     `json:"sets"`
	SharePct float64 `json:"share_pct"`
}

// VolumeByCategory sums completed-set volume per category for sessions that
// started within the last days before asOf. Sorted by volume, then name.
func VolumeByCategory(sessions []models.Session, r CategoryResolver, days int, asOf time.Time) []CategoryVolume {
	if days <= 0 {
		days = DefaultFatigueDays
	}
	recent := completedSince(sessions, asOf.Add(-time.Duration(days)*day))

	totals := make(map[string]*CategoryVolume)
	var total float64
	for _, s := range recent {
		for _, ex := range s.Exercises {
			if ex.CompletedSets <= 0 {
				continue
			}
			cat := r.Category(ex.ExerciseID)
			cv, ok := totals[cat]
			if !ok {
				cv = &CategoryVolume{Category: cat}
				totals[cat] = cv
			}
			v := ex.Volume()
			cv.VolumeKg += v
			cv.Sets += ex.CompletedSets
			total += v
		}
	}

	out := make([]CategoryVolume, 0, len(totals))
	for _, cv := range totals {
		if total > 0 {
			cv.SharePct = round1(cv.VolumeKg / total * 100)
		}
		out = append(out, *cv)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].VolumeKg != out[j].VolumeKg {
			return out[i].VolumeKg > out[j].VolumeKg
		}
		return out[i].Category < out[j].Category
	})
	return out
}
