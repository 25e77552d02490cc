package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus is the lifecycle state of a workout session.
type SessionStatus string

const (
	StatusInProgress SessionStatus = "in_progress"
	StatusCompleted  SessionStatus = "completed"
	StatusAbandoned  SessionStatus = "abandoned"
)

// Valid reports whether s is one of the known statuses.
func (s SessionStatus) Valid() bool {
	switch s {
	case StatusInProgress, StatusCompleted, StatusAbandoned:
		return true
	}
	return false
}

// Session is one workout run, optionally started from a template.
type Session struct {
	ID          uuid.UUID         `json:"id"`
	UserID      int               `json:"-"`
	TemplateID  *uuid.UUID        `json:"template_id,omitempty"`
	Name        string            `json:"name"`
	Status      SessionStatus     `json:"status"`
	StartedAt   time.Time         `json:"started_at"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	Exercises   []SessionExercise `json:"exercises"`
}

// Completed reports whether the session counts towards analytics.
func (s Session) Completed() bool {
	return s.Status == StatusCompleted
}

// Date is the moment a session is credited to: completion time when known,
// start time otherwise.
func (s Session) Date() time.Time {
	if s.CompletedAt != nil {
		return *s.CompletedAt
	}
	return s.StartedAt
}

// SessionExercise holds the plan and the actual performance for one exercise
// within a session. Reps is stored once per entry and applies to every set.
type SessionExercise struct {
	ExerciseID    string    `json:"exercise_id"`
	Sets          int       `json:"sets"`
	Reps          int       `json:"reps"`
	Weight        float64   `json:"weight_kg"`
	Weights       []float64 `json:"weights_kg,omitempty"`
	CompletedSets int       `json:"completed_sets"`
	ActualWeight  *float64  `json:"actual_weight_kg,omitempty"`
	ActualWeights []float64 `json:"actual_weights_kg,omitempty"`
}

// SetWeight resolves the weight used for set index i. Sources are consulted
// in priority order: actual per-set weights, planned per-set weights, the
// single actual weight override, the planned uniform weight.
func (e SessionExercise) SetWeight(i int) float64 {
	if i >= 0 && i < len(e.ActualWeights) {
		return e.ActualWeights[i]
	}
	if i >= 0 && i < len(e.Weights) {
		return e.Weights[i]
	}
	if e.ActualWeight != nil {
		return *e.ActualWeight
	}
	return e.Weight
}

// Volume is the sum of weight x reps over the completed sets only.
func (e SessionExercise) Volume() float64 {
	var v float64
	for i := 0; i < e.CompletedSets; i++ {
		v += e.SetWeight(i) * float64(e.Reps)
	}
	return v
}

// MaxWeight is the heaviest resolved weight across the completed sets.
// Returns 0 when no set was completed.
func (e SessionExercise) MaxWeight() float64 {
	var m float64
	for i := 0; i < e.CompletedSets; i++ {
		if w := e.SetWeight(i); w > m {
			m = w
		}
	}
	return m
}

// Volume sums the volume of every exercise entry in the session.
func (s Session) Volume() float64 {
	var v float64
	for _, ex := range s.Exercises {
		v += ex.Volume()
	}
	return v
}
