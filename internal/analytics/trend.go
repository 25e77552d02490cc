package analytics

import (
	"math"
	"time"

	"github.com/claude/liftlog/internal/models"
)

// DefaultTrendWeeks is the comparison window for the volume trend.
const DefaultTrendWeeks = 4

// TrendDirection classifies the change in training volume.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendStable     TrendDirection = "stable"
	TrendDecreasing TrendDirection = "decreasing"
)

// Trend compares the volume of the earlier and later halves of the window.
type Trend struct {
	Trend         TrendDirection `json:"trend"`
	PercentChange int            `json:"percent_change"`
	Sessions      int            `json:"sessions"`
	FirstHalfKg   float64        `json:"first_half_volume_kg"`
	SecondHalfKg  float64        `json:"second_half_volume_kg"`
}

// VolumeTrend splits the completed sessions of the last weeks before asOf
// into two chronological halves and compares their total volume. When the
// earlier half has no volume the change is undefined and reported as stable.
func VolumeTrend(sessions []models.Session, weeks int, asOf time.Time) Trend {
	stable := Trend{Trend: TrendStable}
	if len(sessions) < 2 {
		return stable
	}
	if weeks <= 0 {
		weeks = DefaultTrendWeeks
	}

	recent := completedSince(sessions, asOf.Add(-time.Duration(weeks*7)*day))
	if len(recent) < 2 {
		return stable
	}

	mid := len(recent) / 2
	t := Trend{
		Trend:        TrendStable,
		Sessions:     len(recent),
		FirstHalfKg:  totalVolume(recent[:mid]),
		SecondHalfKg: totalVolume(recent[mid:]),
	}
	if t.FirstHalfKg == 0 {
		return t
	}

	t.PercentChange = int(math.Round((t.SecondHalfKg - t.FirstHalfKg) / t.FirstHalfKg * 100))
	switch {
	case t.PercentChange > 10:
		t.Trend = TrendIncreasing
	case t.PercentChange < -10:
		t.Trend = TrendDecreasing
	}
	return t
}
