package storage

import (
	"context"
	"fmt"
)

// GetDataStats returns aggregate statistics for a user's stored data.
func (db *DB) GetDataStats(ctx context.Context, userID int) (*DataStats, error) {
	stats := &DataStats{}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE status = 'completed'),
		        MIN(started_at),
		        MAX(started_at)
		 FROM sessions WHERE user_id = $1`, userID,
	).Scan(&stats.TotalSessions, &stats.CompletedSessions, &stats.EarliestSession, &stats.LatestSession)
	if err != nil {
		return nil, fmt.Errorf("counting sessions: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM templates WHERE user_id = $1`, userID,
	).Scan(&stats.TotalTemplates)
	if err != nil {
		return nil, fmt.Errorf("counting templates: %w", err)
	}

	// Sets performed, summed from the exercise documents.
	err = db.Pool.QueryRow(ctx,
		`SELECT COALESCE(SUM((e->>'completed_sets')::bigint), 0)
		 FROM sessions s, jsonb_array_elements(s.exercises) e
		 WHERE s.user_id = $1 AND s.status = 'completed'`, userID,
	).Scan(&stats.TotalSets)
	if err != nil {
		return nil, fmt.Errorf("counting sets: %w", err)
	}

	return stats, nil
}
