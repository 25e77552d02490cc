package analytics

import (
	"sort"
	"time"

	"github.com/claude/liftlog/internal/models"
)

// DefaultPlateauWeeks is the recency window used when none is given.
const DefaultPlateauWeeks = 4

// WeightPoint is one session's top weight for an exercise.
type WeightPoint struct {
	Date      time.Time `json:"date"`
	MaxWeight float64   `json:"max_weight_kg"`
}

// DetectPlateau reports whether the points inside the last weeksThreshold
// weeks (counted back from asOf) show no improvement over the first point of
// that window. At least 3 points overall and 2 inside the window are needed.
func DetectPlateau(points []WeightPoint, weeksThreshold int, asOf time.Time) bool {
	if len(points) < 3 {
		return false
	}
	if weeksThreshold <= 0 {
		weeksThreshold = DefaultPlateauWeeks
	}
	cutoff := asOf.Add(-time.Duration(weeksThreshold*7) * day)

	var recent []WeightPoint
	for _, p := range points {
		if !p.Date.Before(cutoff) {
			recent = append(recent, p)
		}
	}
	if len(recent) < 2 {
		return false
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date.Before(recent[j].Date)
	})

	top := recent[0].MaxWeight
	for _, p := range recent[1:] {
		if p.MaxWeight > top {
			top = p.MaxWeight
		}
	}
	return top <= recent[0].MaxWeight
}

// ExerciseProgress builds the chronological max-weight series for one
// exercise from completed sessions. Entries without completed sets are skipped.
func ExerciseProgress(sessions []models.Session, exerciseID string) []WeightPoint {
	var points []WeightPoint
	for _, s := range completedChronological(sessions) {
		var top float64
		found := false
		for _, ex := range s.Exercises {
			if ex.ExerciseID != exerciseID || ex.CompletedSets <= 0 {
				continue
			}
			if w := ex.MaxWeight(); !found || w > top {
				top = w
			}
			found = true
		}
		if found {
			points = append(points, WeightPoint{Date: s.StartedAt, MaxWeight: top})
		}
	}
	return points
}
