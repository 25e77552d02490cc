package analytics

import (
	"time"

	"github.com/claude/liftlog/internal/models"
)

// Engine binds the analytics functions to a clock. Callers at the process
// boundary use it; the package functions stay deterministic for tests.
type Engine struct {
	Now func() time.Time
}

// NewEngine returns an Engine reading the wall clock.
func NewEngine() *Engine {
	return &Engine{Now: time.Now}
}

func (e *Engine) now() time.Time {
	if e == nil || e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Engine) Fatigue(sessions []models.Session, days int) Fatigue {
	return FatigueIndex(sessions, days, e.now())
}

func (e *Engine) Trend(sessions []models.Session, weeks int) Trend {
	return VolumeTrend(sessions, weeks, e.now())
}

func (e *Engine) Deload(sessions []models.Session, weeksSinceLastDeload *int) Deload {
	return ShouldDeload(sessions, weeksSinceLastDeload, e.now())
}

// Plateau builds the exercise's progress series and checks it for a plateau.
func (e *Engine) Plateau(sessions []models.Session, exerciseID string, weeks int) PlateauReport {
	points := ExerciseProgress(sessions, exerciseID)
	if weeks <= 0 {
		weeks = DefaultPlateauWeeks
	}
	return PlateauReport{
		ExerciseID: exerciseID,
		Weeks:      weeks,
		Plateau:    DetectPlateau(points, weeks, e.now()),
		Points:     points,
	}
}

func (e *Engine) Categories(sessions []models.Session, r CategoryResolver, days int) []CategoryVolume {
	return VolumeByCategory(sessions, r, days, e.now())
}

// PlateauReport is the plateau flag with the series it was computed from.
type PlateauReport struct {
	ExerciseID string        `json:"exercise_id"`
	Weeks      int           `json:"weeks"`
	Plateau    bool          `json:"plateau"`
	Points     []WeightPoint `json:"points"`
}
