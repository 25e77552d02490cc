package analytics

import (
	"time"

	"github.com/claude/liftlog/internal/models"
)

// DefaultFatigueDays is the look-back window for the fatigue index.
const DefaultFatigueDays = 14

// FatigueLevel buckets the fatigue score.
type FatigueLevel string

const (
	FatigueLow      FatigueLevel = "low"
	FatigueModerate FatigueLevel = "moderate"
	FatigueHigh     FatigueLevel = "high"
	FatigueVeryHigh FatigueLevel = "very_high"
)

const noFatigueData = "Not enough recent training data to assess fatigue. Log a few sessions first."

var fatigueAdvice = map[FatigueLevel]string{
	FatigueVeryHigh: "Very high fatigue. Take a deload week: cut volume by 50% and keep intensity light.",
	FatigueHigh:     "High fatigue. Reduce training volume by 30% this week and add an extra rest day.",
	FatigueModerate: "Moderate fatigue. Add 1-2 rest days this week and avoid adding volume.",
	FatigueLow:      "Fatigue is low. Continue training as planned.",
}

// Fatigue is the fatigue index with its component breakdown.
type Fatigue struct {
	Score          int          `json:"score"`
	Level          FatigueLevel `json:"level"`
	Recommendation string       `json:"recommendation"`

	Sessions        int      `json:"sessions"`
	SessionsPerWeek float64  `json:"sessions_per_week"`
	AvgVolume       float64  `json:"avg_volume_kg"`
	AvgRestDays     *float64 `json:"avg_rest_days,omitempty"`
	FrequencyPoints int      `json:"frequency_points"`
	VolumePoints    int      `json:"volume_points"`
	RestPoints      int      `json:"rest_points"`
}

// FatigueIndex scores recent training load from 0 to 100 using completed
// sessions that started within the last days before asOf.
func FatigueIndex(sessions []models.Session, days int, asOf time.Time) Fatigue {
	if days <= 0 {
		days = DefaultFatigueDays
	}
	recent := completedSince(sessions, asOf.Add(-time.Duration(days)*day))
	if len(recent) == 0 {
		return Fatigue{Level: FatigueLow, Recommendation: noFatigueData}
	}

	f := Fatigue{Sessions: len(recent)}

	f.SessionsPerWeek = float64(len(recent)) / float64(days) * 7
	f.FrequencyPoints = frequencyPoints(f.SessionsPerWeek)

	f.AvgVolume = totalVolume(recent) / float64(len(recent))
	f.VolumePoints = volumePoints(f.AvgVolume)

	if len(recent) >= 2 {
		var gaps time.Duration
		for i := 1; i < len(recent); i++ {
			gaps += recent[i].StartedAt.Sub(recent[i-1].StartedAt)
		}
		avg := gaps.Hours() / 24 / float64(len(recent)-1)
		f.AvgRestDays = &avg
		f.RestPoints = restPoints(avg)
	}

	f.Score = f.FrequencyPoints + f.VolumePoints + f.RestPoints
	f.Level = fatigueLevel(f.Score)
	f.Recommendation = fatigueAdvice[f.Level]
	return f
}

func frequencyPoints(perWeek float64) int {
	switch {
	case perWeek >= 6:
		return 40
	case perWeek >= 5:
		return 30
	case perWeek >= 4:
		return 20
	case perWeek >= 3:
		return 10
	}
	return 0
}

func volumePoints(avg float64) int {
	switch {
	case avg >= 15000:
		return 40
	case avg >= 10000:
		return 30
	case avg >= 7000:
		return 20
	case avg >= 5000:
		return 10
	}
	return 0
}

func restPoints(avgDays float64) int {
	switch {
	case avgDays < 1:
		return 20
	case avgDays < 1.5:
		return 10
	case avgDays < 2:
		return 5
	}
	return 0
}

func fatigueLevel(score int) FatigueLevel {
	switch {
	case score >= 80:
		return FatigueVeryHigh
	case score >= 60:
		return FatigueHigh
	case score >= 40:
		return FatigueModerate
	}
	return FatigueLow
}
