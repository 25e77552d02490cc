package analytics

import (
	"fmt"
	"time"

	"github.com/claude/liftlog/internal/models"
)

const (
	deloadAfterWeeks     = 6
	deloadVolumeJumpPct  = 30
	noDeloadNeededReason = "No deload needed. Keep training as planned."
)

// Deload is a deload recommendation with the reason that triggered it.
type Deload struct {
	ShouldDeload bool   `json:"should_deload"`
	Reason       string `json:"reason"`
}

// ShouldDeload runs the deload checks in order and returns the first match:
// weeks since the last deload, fatigue level, then a sharp volume increase.
// weeksSinceLastDeload is optional; the caller tracks it.
func ShouldDeload(sessions []models.Session, weeksSinceLastDeload *int, asOf time.Time) Deload {
	if weeksSinceLastDeload != nil && *weeksSinceLastDeload >= deloadAfterWeeks {
		return Deload{
			ShouldDeload: true,
			Reason:       fmt.Sprintf("It has been %d weeks since your last deload. Schedule a deload week to recover.", *weeksSinceLastDeload),
		}
	}

	fatigue := FatigueIndex(sessions, DefaultFatigueDays, asOf)
	if fatigue.Level == FatigueHigh || fatigue.Level == FatigueVeryHigh {
		return Deload{
			ShouldDeload: true,
			Reason:       fmt.Sprintf("Fatigue score is %d (%s). %s", fatigue.Score, fatigue.Level, fatigue.Recommendation),
		}
	}

	trend := VolumeTrend(sessions, DefaultTrendWeeks, asOf)
	if trend.Trend == TrendIncreasing && trend.PercentChange > deloadVolumeJumpPct {
		return Deload{
			ShouldDeload: true,
			Reason:       fmt.Sprintf("Training volume rose %d%% over the last %d weeks. A deload week will help you absorb the jump.", trend.PercentChange, DefaultTrendWeeks),
		}
	}

	return Deload{Reason: noDeloadNeededReason}
}
