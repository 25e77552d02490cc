package storage

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

// TestPrepareSession verifies validation rules and id assignment before a
// session is written.
func TestPrepareSession(t *testing.T) {
	start := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	before := start.Add(-time.Hour)

	tests := []struct {
		name    string
		s       *models.Session
		wantErr bool
	}{
		{"valid", &models.Session{Status: models.StatusCompleted, StartedAt: start}, false},
		{"nil", nil, true},
		{"unknown status", &models.Session{Status: "paused", StartedAt: start}, true},
		{"no start", &models.Session{Status: models.StatusInProgress}, true},
		{"completed before start", &models.Session{Status: models.StatusCompleted, StartedAt: start, CompletedAt: &before}, true},
		{"exercise without id", &models.Session{
			Status: models.StatusCompleted, StartedAt: start,
			Exercises: []models.SessionExercise{{Sets: 3}},
		}, true},
		{"negative sets", &models.Session{
			Status: models.StatusCompleted, StartedAt: start,
			Exercises: []models.SessionExercise{{ExerciseID: "squat", CompletedSets: -1}},
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := PrepareSession(tt.s)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrInvalid) {
					t.Errorf("err = %v, want ErrInvalid", err)
				}
				return
			}
			if tt.s.ID == uuid.Nil {
				t.Error("id was not assigned")
			}
			if tt.s.Exercises == nil {
				t.Error("exercises should be normalized to an empty slice")
			}
		})
	}
}

// TestPrepareSessionKeepsID verifies an existing id survives so re-imports upsert.
func TestPrepareSessionKeepsID(t *testing.T) {
	id := uuid.New()
	s := &models.Session{ID: id, Status: models.StatusCompleted, StartedAt: time.Now()}
	if err := PrepareSession(s); err != nil {
		t.Fatal(err)
	}
	if s.ID != id {
		t.Errorf("id changed from %s to %s", id, s.ID)
	}
}

// TestPrepareTemplate verifies timestamps are stamped and the name is required.
func TestPrepareTemplate(t *testing.T) {
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	created := now.Add(-24 * time.Hour)

	tmpl := &models.Template{Name: "Pull", CreatedAt: created}
	if err := PrepareTemplate(tmpl, now); err != nil {
		t.Fatal(err)
	}
	if tmpl.ID == uuid.Nil {
		t.Error("id was not assigned")
	}
	if !tmpl.CreatedAt.Equal(created) || !tmpl.UpdatedAt.Equal(now) {
		t.Errorf("timestamps = %v / %v", tmpl.CreatedAt, tmpl.UpdatedAt)
	}

	if err := PrepareTemplate(&models.Template{}, now); !errors.Is(err, ErrInvalid) {
		t.Errorf("empty name err = %v, want ErrInvalid", err)
	}
}

// TestSessionQuery verifies optional filters add numbered placeholders in order.
func TestSessionQuery(t *testing.T) {
	q, args := sessionQuery(SessionFilter{UserID: 4})
	if !strings.Contains(q, "WHERE user_id = $1 ORDER BY started_at ASC") || len(args) != 1 {
		t.Errorf("user-only query = %q args %v", q, args)
	}

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	q, args = sessionQuery(SessionFilter{
		UserID: 4,
		Start:  start,
		End:    start.AddDate(0, 1, 0),
		Status: models.StatusCompleted,
	})
	want := "user_id = $1 AND started_at >= $2 AND started_at < $3 AND status = $4"
	if !strings.Contains(q, want) {
		t.Errorf("query = %q, want it to contain %q", q, want)
	}
	if len(args) != 4 || args[3] != "completed" {
		t.Errorf("args = %v", args)
	}
}

// TestDecodeExercises verifies empty and null columns decode to an empty list.
func TestDecodeExercises(t *testing.T) {
	for _, in := range []string{"", "null", "[]"} {
		var got []models.SessionExercise
		if err := DecodeExercises([]byte(in), &got); err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("%q decoded to %#v", in, got)
		}
	}

	var got []models.TemplateExercise
	if err := DecodeExercises([]byte(`[{"exercise_id":"dips","sets":3}]`), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ExerciseID != "dips" || got[0].Sets != 3 {
		t.Errorf("got %+v", got)
	}

	if err := DecodeExercises([]byte(`{`), &got); err == nil {
		t.Error("expected error for malformed column")
	}
}
