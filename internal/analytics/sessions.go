package analytics

import (
	"sort"
	"time"

	"github.com/claude/liftlog/internal/models"
)

const day = 24 * time.Hour

// completedChronological returns a copy of the completed sessions sorted by
// start time, ties kept in input order.
func completedChronological(sessions []models.Session) []models.Session {
	out := make([]models.Session, 0, len(sessions))
	for _, s := range sessions {
		if s.Completed() {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}

// completedSince keeps completed sessions that started at or after cutoff,
// sorted chronologically.
func completedSince(sessions []models.Session, cutoff time.Time) []models.Session {
	all := completedChronological(sessions)
	out := all[:0]
	for _, s := range all {
		if !s.StartedAt.Before(cutoff) {
			out = append(out, s)
		}
	}
	return out
}

func totalVolume(sessions []models.Session) float64 {
	var v float64
	for _, s := range sessions {
		v += s.Volume()
	}
	return v
}
