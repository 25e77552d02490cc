package alpha

import "time"

// ExportSession is one workout as it appears in an export, before
// conversion to a models.Session.
type ExportSession struct {
	Name      string
	Date      time.Time
	Duration  string // raw duration column, e.g. "1:02 hr"
	Exercises []ExportExercise
}

// ExportExercise is a numbered exercise block within an exported workout.
type ExportExercise struct {
	Number     int
	Name       string
	Equipment  string
	TargetReps int
	Sets       []ExportSet
}

// ExportSet is a working or warm-up set. Bodyweight-plus sets ("+35") carry
// only the added load in WeightKg.
type ExportSet struct {
	Number           int
	WeightKg         float64
	IsBodyweightPlus bool
	Reps             int
	RIR              float64
	IsWarmup         bool
}
