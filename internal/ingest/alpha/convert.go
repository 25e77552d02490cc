package alpha

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

// sessionNamespace seeds the deterministic ids of imported sessions.
var sessionNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("liftlog/alpha-progression"))

var (
	// hoursRe matches "1:02 hr" and "0:48 h"
	hoursRe = regexp.MustCompile(`^(\d+):(\d{2})\s*h(?:r|rs)?$`)
	// minutesRe matches "48 min"
	minutesRe = regexp.MustCompile(`^(\d+)\s*min$`)
)

// NameResolver maps an exported exercise name to a catalog exercise id.
type NameResolver interface {
	Resolve(name string) string
}

// SessionID returns the stable id for an exported session, so importing the
// same export again replaces instead of duplicating.
func SessionID(userID int, s ExportSession) uuid.UUID {
	key := fmt.Sprintf("%d|%s|%s", userID, s.Date.UTC().Format(time.RFC3339), s.Name)
	return uuid.NewSHA1(sessionNamespace, []byte(key))
}

// ParseDuration converts the export's duration column to a time.Duration.
// Unrecognized values return false.
func ParseDuration(s string) (time.Duration, bool) {
	if m := hoursRe.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		mins, _ := strconv.Atoi(m[2])
		return time.Duration(h)*time.Hour + time.Duration(mins)*time.Minute, true
	}
	if m := minutesRe.FindStringSubmatch(s); m != nil {
		mins, _ := strconv.Atoi(m[1])
		return time.Duration(mins) * time.Minute, true
	}
	return 0, false
}

// ToSession converts one parsed export session into a completed session.
// Warm-up sets are dropped; exercises without working sets are skipped.
// The second return value counts the dropped warm-ups.
func ToSession(userID int, a ExportSession, names NameResolver) (models.Session, int) {
	s := models.Session{
		ID:        SessionID(userID, a),
		UserID:    userID,
		Name:      a.Name,
		Status:    models.StatusCompleted,
		StartedAt: a.Date,
		Exercises: []models.SessionExercise{},
	}
	if d, ok := ParseDuration(a.Duration); ok {
		done := a.Date.Add(d)
		s.CompletedAt = &done
	}

	warmups := 0
	for _, ex := range a.Exercises {
		var weights []float64
		repTotal := 0
		for _, set := range ex.Sets {
			if set.IsWarmup {
				warmups++
				continue
			}
			weights = append(weights, set.WeightKg)
			repTotal += set.Reps
		}
		if len(weights) == 0 {
			continue
		}
		s.Exercises = append(s.Exercises, models.SessionExercise{
			ExerciseID:    names.Resolve(ex.Name),
			Sets:          len(weights),
			Reps:          int(math.Round(float64(repTotal) / float64(len(weights)))),
			Weight:        weights[0],
			CompletedSets: len(weights),
			ActualWeights: weights,
		})
	}
	return s, warmups
}
