// Package analytics turns a history of workout sessions into training
// signals: estimated maxes, fatigue, volume trend, deload advice, plateaus
// and personal records. Every function is pure; windowed functions take the
// evaluation time explicitly.
package analytics

import (
	"math"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

// Formula names a one-rep max estimator.
type Formula string

const (
	FormulaEpley   Formula = "epley"
	FormulaBrzycki Formula = "brzycki"
)

// EstimateOneRepMax estimates a single-rep max with the Epley relation.
// A single rep is already a max and is returned as is.
func EstimateOneRepMax(weight float64, reps int) float64 {
	if reps <= 1 {
		return weight
	}
	return round1(weight * (1 + float64(reps)/30))
}

// EstimateOneRepMaxBrzycki estimates a single-rep max with the Brzycki
// relation. The formula diverges at 37 reps, so reps >= 37 return the weight.
func EstimateOneRepMaxBrzycki(weight float64, reps int) float64 {
	if reps <= 1 || reps >= 37 {
		return weight
	}
	return round1(weight * (36 / (37 - float64(reps))))
}

// Estimate dispatches to the named formula. Unknown names use Epley.
func Estimate(f Formula, weight float64, reps int) float64 {
	if f == FormulaBrzycki {
		return EstimateOneRepMaxBrzycki(weight, reps)
	}
	return EstimateOneRepMax(weight, reps)
}

// round1 rounds half away from zero at the tenths digit.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// EstimatedMax is the best estimated one-rep max seen for an exercise.
type EstimatedMax struct {
	ExerciseID string    `json:"exercise_id"`
	OneRepMax  float64   `json:"one_rep_max_kg"`
	Weight     float64   `json:"weight_kg"`
	Reps       int       `json:"reps"`
	Date       time.Time `json:"date"`
	SessionID  uuid.UUID `json:"session_id"`
}

// StrengthSummary returns the best Epley estimate per exercise across every
// completed set, in order of each exercise's first appearance.
func StrengthSummary(sessions []models.Session) []EstimatedMax {
	var order []string
	best := make(map[string]EstimatedMax)

	for _, s := range completedChronological(sessions) {
		for _, ex := range s.Exercises {
			if ex.CompletedSets <= 0 || ex.Reps <= 0 {
				continue
			}
			for i := 0; i < ex.CompletedSets; i++ {
				w := ex.SetWeight(i)
				est := EstimateOneRepMax(w, ex.Reps)
				cur, seen := best[ex.ExerciseID]
				if !seen {
					order = append(order, ex.ExerciseID)
				}
				if !seen || est > cur.OneRepMax {
					best[ex.ExerciseID] = EstimatedMax{
						ExerciseID: ex.ExerciseID,
						OneRepMax:  est,
						Weight:     w,
						Reps:       ex.Reps,
						Date:       s.Date(),
						SessionID:  s.ID,
					}
				}
			}
		}
	}

	out := make([]EstimatedMax, 0, len(order))
	for _, id := range order {
		out = append(out, best[id])
	}
	return out
}
