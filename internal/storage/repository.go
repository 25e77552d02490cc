package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a session or template does not exist for
	// the requesting user.
	ErrNotFound = errors.New("not found")
	// ErrInvalid wraps validation failures on records passed in for storage.
	ErrInvalid = errors.New("invalid record")
)

// Repository is the persistence surface shared by the Postgres store and the
// local SQLite store.
type Repository interface {
	GetOrCreateUser(ctx context.Context, login, displayName string) (int, error)

	UpsertSession(ctx context.Context, s *models.Session) error
	GetSession(ctx context.Context, id uuid.UUID, userID int) (*models.Session, error)
	ListSessions(ctx context.Context, f SessionFilter) ([]models.Session, error)
	DeleteSession(ctx context.Context, id uuid.UUID, userID int) error

	CreateTemplate(ctx context.Context, t *models.Template) error
	GetTemplate(ctx context.Context, id uuid.UUID, userID int) (*models.Template, error)
	ListTemplates(ctx context.Context, userID int) ([]models.Template, error)
	DeleteTemplate(ctx context.Context, id uuid.UUID, userID int) error

	GetDataStats(ctx context.Context, userID int) (*DataStats, error)
}

var _ Repository = (*DB)(nil)

// SessionFilter selects sessions for one user. Zero Start or End leave that
// side of the range open; an empty Status matches every status.
type SessionFilter struct {
	UserID int
	Start  time.Time
	End    time.Time
	Status models.SessionStatus
}

// DataStats holds aggregate counts about a user's stored data.
type DataStats struct {
	TotalSessions     int64      `json:"total_sessions"`
	CompletedSessions int64      `json:"completed_sessions"`
	TotalTemplates    int64      `json:"total_templates"`
	TotalSets         int64      `json:"total_sets"`
	EarliestSession   *time.Time `json:"earliest_session"`
	LatestSession     *time.Time `json:"latest_session"`
}

// PrepareSession validates s and assigns a random id when it has none.
func PrepareSession(s *models.Session) error {
	if s == nil {
		return fmt.Errorf("%w: nil session", ErrInvalid)
	}
	if !s.Status.Valid() {
		return fmt.Errorf("%w: unknown session status %q", ErrInvalid, s.Status)
	}
	if s.StartedAt.IsZero() {
		return fmt.Errorf("%w: session start time is required", ErrInvalid)
	}
	if s.CompletedAt != nil && s.CompletedAt.Before(s.StartedAt) {
		return fmt.Errorf("%w: session completed before it started", ErrInvalid)
	}
	for i, ex := range s.Exercises {
		if ex.ExerciseID == "" {
			return fmt.Errorf("%w: exercise %d has no id", ErrInvalid, i)
		}
		if ex.CompletedSets < 0 || ex.Sets < 0 || ex.Reps < 0 {
			return fmt.Errorf("%w: exercise %s has negative counts", ErrInvalid, ex.ExerciseID)
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Exercises == nil {
		s.Exercises = []models.SessionExercise{}
	}
	return nil
}

// PrepareTemplate validates t, assigns an id when missing and stamps the
// creation and update times.
func PrepareTemplate(t *models.Template, now time.Time) error {
	if t == nil {
		return fmt.Errorf("%w: nil template", ErrInvalid)
	}
	if t.Name == "" {
		return fmt.Errorf("%w: template name is required", ErrInvalid)
	}
	for i, ex := range t.Exercises {
		if ex.ExerciseID == "" {
			return fmt.Errorf("%w: exercise %d has no id", ErrInvalid, i)
		}
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Exercises == nil {
		t.Exercises = []models.TemplateExercise{}
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	return nil
}
