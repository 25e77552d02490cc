package models

import (
	"time"

	"github.com/google/uuid"
)

// Template is a reusable workout plan.
type Template struct {
	ID          uuid.UUID          `json:"id"`
	UserID      int                `json:"-"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Exercises   []TemplateExercise `json:"exercises"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// TemplateExercise is the planned configuration for one exercise slot.
type TemplateExercise struct {
	ExerciseID    string    `json:"exercise_id"`
	Sets          int       `json:"sets"`
	Reps          int       `json:"reps"`
	Weight        float64   `json:"weight_kg"`
	Weights       []float64 `json:"weights_kg,omitempty"`
	RestSeconds   int       `json:"rest_seconds"`
	SupersetGroup string    `json:"superset_group,omitempty"`
	SupersetOrder *int      `json:"superset_order,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	FormCues      []string  `json:"form_cues,omitempty"`
}

// NewSession starts an in-progress session from the template plan.
func (t Template) NewSession(userID int, startedAt time.Time) *Session {
	id := t.ID
	s := &Session{
		ID:         uuid.New(),
		UserID:     userID,
		TemplateID: &id,
		Name:       t.Name,
		Status:     StatusInProgress,
		StartedAt:  startedAt,
		Exercises:  make([]SessionExercise, 0, len(t.Exercises)),
	}
	for _, ex := range t.Exercises {
		s.Exercises = append(s.Exercises, SessionExercise{
			ExerciseID: ex.ExerciseID,
			Sets:       ex.Sets,
			Reps:       ex.Reps,
			Weight:     ex.Weight,
			Weights:    append([]float64(nil), ex.Weights...),
		})
	}
	return s
}
