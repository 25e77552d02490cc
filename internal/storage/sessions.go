package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const sessionColumns = `id, user_id, template_id, name, status, started_at, completed_at, exercises`

type rowScanner interface {
	Scan(dest ...any) error
}

// UpsertSession inserts a session or replaces the stored copy. A session that
// exists under another user is reported as ErrNotFound.
func (db *DB) UpsertSession(ctx context.Context, s *models.Session) error {
	if err := PrepareSession(s); err != nil {
		return err
	}
	exercises, err := json.Marshal(s.Exercises)
	if err != nil {
		return fmt.Errorf("encoding exercises: %w", err)
	}

	var templateID uuid.NullUUID
	if s.TemplateID != nil {
		templateID = uuid.NullUUID{UUID: *s.TemplateID, Valid: true}
	}

	tag, err := db.Pool.Exec(ctx, `
		INSERT INTO sessions (`+sessionColumns+`, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (id) DO UPDATE SET
			template_id  = EXCLUDED.template_id,
			name         = EXCLUDED.name,
			status       = EXCLUDED.status,
			started_at   = EXCLUDED.started_at,
			completed_at = EXCLUDED.completed_at,
			exercises    = EXCLUDED.exercises,
			updated_at   = NOW()
		WHERE sessions.user_id = EXCLUDED.user_id`,
		s.ID, s.UserID, templateID, s.Name, string(s.Status), s.StartedAt, s.CompletedAt, exercises)
	if err != nil {
		return fmt.Errorf("upserting session %s: %w", s.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetSession returns one session owned by userID.
func (db *DB) GetSession(ctx context.Context, id uuid.UUID, userID int) (*models.Session, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = $1 AND user_id = $2`, id, userID)
	s, err := scanSession(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting session %s: %w", id, err)
	}
	return s, nil
}

// ListSessions returns the matching sessions ordered by start time.
func (db *DB) ListSessions(ctx context.Context, f SessionFilter) ([]models.Session, error) {
	query, args := sessionQuery(f)
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	result := []models.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

// DeleteSession removes a session owned by userID.
func (db *DB) DeleteSession(ctx context.Context, id uuid.UUID, userID int) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting session %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// sessionQuery builds the list query and its positional arguments for f.
func sessionQuery(f SessionFilter) (string, []any) {
	args := []any{f.UserID}
	where := []string{"user_id = $1"}
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if !f.Start.IsZero() {
		add("started_at >= $%d", f.Start)
	}
	if !f.End.IsZero() {
		add("started_at < $%d", f.End)
	}
	if f.Status != "" {
		add("status = $%d", string(f.Status))
	}

	return `SELECT ` + sessionColumns + ` FROM sessions WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY started_at ASC, id ASC`, args
}

func scanSession(row rowScanner) (*models.Session, error) {
	var (
		s          models.Session
		templateID uuid.NullUUID
		status     string
		completed  *time.Time
		exercises  []byte
	)
	if err := row.Scan(&s.ID, &s.UserID, &templateID, &s.Name, &status, &s.StartedAt, &completed, &exercises); err != nil {
		return nil, err
	}
	s.Status = models.SessionStatus(status)
	s.CompletedAt = completed
	if templateID.Valid {
		id := templateID.UUID
		s.TemplateID = &id
	}
	if err := DecodeExercises(exercises, &s.Exercises); err != nil {
		return nil, fmt.Errorf("session %s: %w", s.ID, err)
	}
	return &s, nil
}

// DecodeExercises unmarshals a stored exercise column, treating an empty
// column as an empty list.
func DecodeExercises[T any](data []byte, dst *[]T) error {
	*dst = []T{}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decoding exercises: %w", err)
	}
	if *dst == nil {
		*dst = []T{}
	}
	return nil
}
