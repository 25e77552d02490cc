package analytics

import (
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

// PersonalRecord marks the first time a strictly heavier top weight was
// lifted for an exercise.
type PersonalRecord struct {
	ExerciseID string    `json:"exercise_id"`
	Weight     float64   `json:"weight_kg"`
	Reps       int       `json:"reps"`
	Date       time.Time `json:"date"`
	SessionID  uuid.UUID `json:"session_id"`
}

// Improvement is the gain between an exercise's first and latest record.
type Improvement struct {
	ExerciseID   string  `json:"exercise_id"`
	FirstWeight  float64 `json:"first_weight_kg"`
	LatestWeight float64 `json:"latest_weight_kg"`
	Delta        float64 `json:"delta_kg"`
}

// PRHistory is the personal-record timeline plus its summaries.
type PRHistory struct {
	Records            []PersonalRecord `json:"records"`
	Total              int              `json:"total"`
	MostRecent         *PersonalRecord  `json:"most_recent,omitempty"`
	LargestImprovement *Improvement     `json:"largest_improvement,omitempty"`
}

// PersonalRecords walks completed sessions chronologically and records a PR
// whenever an entry's top weight beats the running best for its exercise.
// Ties do not count. The largest improvement goes to the exercise with the
// biggest first-to-latest gain among those with at least two records; on a
// tie the exercise that set its first record earliest wins.
func PersonalRecords(sessions []models.Session) PRHistory {
	h := PRHistory{Records: []PersonalRecord{}}

	best := make(map[string]float64)
	byExercise := make(map[string][]PersonalRecord)
	var order []string

	for _, s := range completedChronological(sessions) {
		for _, ex := range s.Exercises {
			if ex.CompletedSets <= 0 {
				continue
			}
			top := ex.MaxWeight()
			if top <= best[ex.ExerciseID] {
				continue
			}
			best[ex.ExerciseID] = top

			pr := PersonalRecord{
				ExerciseID: ex.ExerciseID,
				Weight:     top,
				Reps:       ex.Reps,
				Date:       s.Date(),
				SessionID:  s.ID,
			}
			if _, ok := byExercise[ex.ExerciseID]; !ok {
				order = append(order, ex.ExerciseID)
			}
			byExercise[ex.ExerciseID] = append(byExercise[ex.ExerciseID], pr)
			h.Records = append(h.Records, pr)
		}
	}

	h.Total = len(h.Records)
	if h.Total > 0 {
		last := h.Records[h.Total-1]
		h.MostRecent = &last
	}

	for _, id := range order {
		prs := byExercise[id]
		if len(prs) < 2 {
			continue
		}
		first, latest := prs[0].Weight, prs[len(prs)-1].Weight
		if h.LargestImprovement == nil || latest-first > h.LargestImprovement.Delta {
			h.LargestImprovement = &Improvement{
				ExerciseID:   id,
				FirstWeight:  first,
				LatestWeight: latest,
				Delta:        latest - first,
			}
		}
	}
	return h
}
