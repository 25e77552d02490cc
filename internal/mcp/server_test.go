package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/analytics"
	"github.com/claude/liftlog/internal/catalog"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/share"
	"github.com/claude/liftlog/internal/storage"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// TestUserIDFromContextDefault verifies the default user ID (1) when no value
// is set in the context.
func TestUserIDFromContextDefault(t *testing.T) {
	ctx := context.Background()
	if id := UserIDFromContext(ctx); id != 1 {
		t.Errorf("UserIDFromContext(empty) = %d, want 1", id)
	}
}

// TestUserIDFromContextSet verifies the user ID is extracted from context
// after being set by WithUserID.
func TestUserIDFromContextSet(t *testing.T) {
	ctx := WithUserID(context.Background(), 42)
	if id := UserIDFromContext(ctx); id != 42 {
		t.Errorf("UserIDFromContext = %d, want 42", id)
	}
}

// TestDefaultTimeRange verifies time range defaults (last 7 days) and parsing.
func TestDefaultTimeRange(t *testing.T) {
	// Both empty → defaults to last 7 days
	start, end, err := defaultTimeRange("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	diff := end.Sub(start)
	if diff.Hours() < 167 || diff.Hours() > 169 { // ~168 hours = 7 days
		t.Errorf("default range = %.0f hours, want ~168", diff.Hours())
	}

	// Explicit dates
	start, end, err = defaultTimeRange("2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Year() != 2024 || start.Month() != 1 || start.Day() != 1 {
		t.Errorf("start = %v, want 2024-01-01", start)
	}
	if end.Year() != 2024 || end.Month() != 1 || end.Day() != 31 {
		t.Errorf("end = %v, want 2024-01-31", end)
	}

	// RFC3339
	start, _, err = defaultTimeRange("2024-06-15T10:30:00Z", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Hour() != 10 || start.Minute() != 30 {
		t.Errorf("start = %v, want 10:30", start)
	}

	// Invalid
	_, _, err = defaultTimeRange("not-a-date", "")
	if err == nil {
		t.Error("expected error for invalid date")
	}
}

type fakeSource struct {
	sessions  []models.Session
	templates map[uuid.UUID]models.Template
	err       error
	filters   []storage.SessionFilter
}

func (f *fakeSource) ListSessions(_ context.Context, filter storage.SessionFilter) ([]models.Session, error) {
	f.filters = append(f.filters, filter)
	return f.sessions, f.err
}

func (f *fakeSource) GetTemplate(_ context.Context, id uuid.UUID, _ int) (*models.Template, error) {
	t, ok := f.templates[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &t, nil
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestHandlers(ds DataSource) *handlers {
	h := newHandlers(ds, catalog.Default(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	h.engine.Now = func() time.Time { return fixedNow }
	return h
}

func callTool(t *testing.T, fn func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (*mcp.CallToolResult, string) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := fn(WithUserID(context.Background(), 3), req)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return res, resultText(t, res)
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty result content")
	}
	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	}
	t.Fatalf("unexpected content type %T", res.Content[0])
	return ""
}

func squatSession(daysAgo int, weight float64) models.Session {
	start := fixedNow.AddDate(0, 0, -daysAgo)
	return models.Session{
		ID:        uuid.New(),
		Name:      "Legs",
		Status:    models.StatusCompleted,
		StartedAt: start,
		Exercises: []models.SessionExercise{{
			ExerciseID: "back_squat", Sets: 3, Reps: 5, Weight: weight, CompletedSets: 3,
		}},
	}
}

// TestToolsRegistered verifies every tool has a handler and a unique name.
func TestToolsRegistered(t *testing.T) {
	seen := map[string]bool{}
	for _, st := range newTestHandlers(&fakeSource{}).tools() {
		if st.Handler == nil {
			t.Errorf("%s has no handler", st.Tool.Name)
		}
		if seen[st.Tool.Name] {
			t.Errorf("duplicate tool %s", st.Tool.Name)
		}
		seen[st.Tool.Name] = true
	}
	for _, name := range []string{
		"estimate_one_rep_max", "get_fatigue_index", "get_volume_trend", "should_deload",
		"get_personal_records", "detect_plateau", "get_strength_summary",
		"share_template", "decode_template",
	} {
		if !seen[name] {
			t.Errorf("tool %s not registered", name)
		}
	}
}

// TestEstimateOneRepMaxTool verifies argument validation and both formulas.
func TestEstimateOneRepMaxTool(t *testing.T) {
	h := newTestHandlers(&fakeSource{})
	tests := []struct {
		name    string
		args    map[string]any
		wantErr bool
		want    float64
	}{
		{"epley default", map[string]any{"weight": 100.0, "reps": 5.0}, false, 116.7},
		{"brzycki", map[string]any{"weight": 100.0, "reps": 5.0, "formula": "brzycki"}, false, 112.5},
		{"single rep", map[string]any{"weight": 140.0, "reps": 1.0}, false, 140},
		{"missing weight", map[string]any{"reps": 5.0}, true, 0},
		{"zero reps", map[string]any{"weight": 100.0, "reps": 0.0}, true, 0},
		{"unknown formula", map[string]any{"weight": 100.0, "reps": 5.0, "formula": "lander"}, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, text := callTool(t, h.estimateOneRepMax, tt.args)
			if res.IsError != tt.wantErr {
				t.Fatalf("IsError = %v, want %v (%s)", res.IsError, tt.wantErr, text)
			}
			if tt.wantErr {
				return
			}
			var got struct {
				OneRepMax float64 `json:"one_rep_max_kg"`
			}
			if err := json.Unmarshal([]byte(text), &got); err != nil {
				t.Fatal(err)
			}
			if got.OneRepMax != tt.want {
				t.Errorf("1RM = %v, want %v", got.OneRepMax, tt.want)
			}
		})
	}
}

// TestAnalyticsToolsScopeToUser verifies tools load the calling user's sessions.
func TestAnalyticsToolsScopeToUser(t *testing.T) {
	ds := &fakeSource{sessions: []models.Session{squatSession(20, 100), squatSession(10, 100), squatSession(2, 100)}}
	h := newTestHandlers(ds)

	res, text := callTool(t, h.detectPlateau, map[string]any{"exercise_id": "back_squat", "weeks": 4.0})
	if res.IsError {
		t.Fatalf("detect_plateau error: %s", text)
	}
	var report analytics.PlateauReport
	if err := json.Unmarshal([]byte(text), &report); err != nil {
		t.Fatal(err)
	}
	if !report.Plateau || len(report.Points) != 3 {
		t.Errorf("report = %+v, want plateau over 3 points", report)
	}

	callTool(t, h.getFatigueIndex, nil)
	for _, f := range ds.filters {
		if f.UserID != 3 {
			t.Errorf("filter user = %d, want 3", f.UserID)
		}
	}
}

// TestDetectPlateauRequiresExercise verifies a missing exercise_id is a tool error.
func TestDetectPlateauRequiresExercise(t *testing.T) {
	res, _ := callTool(t, newTestHandlers(&fakeSource{}).detectPlateau, map[string]any{})
	if !res.IsError {
		t.Error("expected tool error")
	}
}

// TestPersonalRecordsFilter verifies the exercise filter narrows the record list.
func TestPersonalRecordsFilter(t *testing.T) {
	bench := squatSession(5, 80)
	bench.Exercises[0].ExerciseID = "bench_press"
	h := newTestHandlers(&fakeSource{sessions: []models.Session{squatSession(9, 100), squatSession(3, 105), bench}})

	_, text := callTool(t, h.getPersonalRecords, map[string]any{"exercise_id": "back_squat"})
	var prs []analytics.PersonalRecord
	if err := json.Unmarshal([]byte(text), &prs); err != nil {
		t.Fatal(err)
	}
	if len(prs) != 2 || prs[1].Weight != 105 {
		t.Errorf("records = %+v, want 100 then 105", prs)
	}
}

// TestShouldDeloadWeeksArgument verifies the weeks since the last deload is honored.
func TestShouldDeloadWeeksArgument(t *testing.T) {
	h := newTestHandlers(&fakeSource{})
	_, text := callTool(t, h.shouldDeload, map[string]any{"weeks_since_deload": 8.0})
	var d analytics.Deload
	if err := json.Unmarshal([]byte(text), &d); err != nil {
		t.Fatal(err)
	}
	if !d.ShouldDeload {
		t.Errorf("deload = %+v, want a deload after 8 weeks", d)
	}
}

// TestShareAndDecodeTemplate round-trips a stored template through both tools.
func TestShareAndDecodeTemplate(t *testing.T) {
	id := uuid.New()
	ds := &fakeSource{templates: map[uuid.UUID]models.Template{
		id: {ID: id, Name: "Upper A", Exercises: []models.TemplateExercise{{ExerciseID: "overhead_press", Sets: 3, Reps: 8, Weight: 50}}},
	}}
	h := newTestHandlers(ds)

	res, text := callTool(t, h.shareTemplate, map[string]any{"template_id": id.String()})
	if res.IsError {
		t.Fatalf("share_template error: %s", text)
	}
	var shared struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal([]byte(text), &shared); err != nil {
		t.Fatal(err)
	}

	res, text = callTool(t, h.decodeTemplate, map[string]any{"code": shared.Code})
	if res.IsError {
		t.Fatalf("decode_template error: %s", text)
	}
	var decoded share.Shareable
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Name != "Upper A" || len(decoded.Exercises) != 1 {
		t.Errorf("decoded = %+v", decoded)
	}

	for name, args := range map[string]map[string]any{
		"unknown template": {"template_id": uuid.NewString()},
		"bad uuid":         {"template_id": "nope"},
	} {
		if res, _ := callTool(t, h.shareTemplate, args); !res.IsError {
			t.Errorf("%s: expected tool error", name)
		}
	}
	if res, _ := callTool(t, h.decodeTemplate, map[string]any{"code": "garbage"}); !res.IsError {
		t.Error("decode of garbage should be a tool error")
	}
}

// TestStoreErrorsBecomeToolErrors verifies storage failures do not escape as Go errors.
func TestStoreErrorsBecomeToolErrors(t *testing.T) {
	h := newTestHandlers(&fakeSource{err: errors.New("db down")})
	if res, _ := callTool(t, h.getStrengthSummary, nil); !res.IsError {
		t.Error("expected tool error")
	}
}

// TestResources verifies both resources return JSON for the requested URI.
func TestResources(t *testing.T) {
	ds := &fakeSource{sessions: []models.Session{squatSession(1, 100)}}
	h := newTestHandlers(ds)
	ctx := WithUserID(context.Background(), 5)

	var req mcp.ReadResourceRequest
	req.Params.URI = "liftlog://recent_sessions"
	contents, err := h.recentSessions(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	text := contents[0].(mcp.TextResourceContents)
	if text.URI != req.Params.URI || text.MIMEType != "application/json" {
		t.Errorf("contents = %+v", text)
	}
	f := ds.filters[0]
	if f.UserID != 5 || !f.End.Equal(fixedNow) || !f.Start.Equal(fixedNow.AddDate(0, 0, -14)) {
		t.Errorf("filter = %+v", f)
	}

	req.Params.URI = "liftlog://exercise_catalog"
	contents, err = h.exerciseCatalog(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	var exercises []catalog.Exercise
	if err := json.Unmarshal([]byte(contents[0].(mcp.TextResourceContents).Text), &exercises); err != nil {
		t.Fatal(err)
	}
	if len(exercises) != len(catalog.Default().All()) {
		t.Errorf("catalog resource has %d exercises", len(exercises))
	}
}
