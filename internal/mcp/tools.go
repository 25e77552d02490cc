package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/claude/liftlog/internal/analytics"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/share"
	"github.com/claude/liftlog/internal/storage"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultTimeRange returns start/end defaulting to the last 7 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -7)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolEstimateOneRepMax = mcp.NewTool("estimate_one_rep_max",
	mcp.WithDescription("Estimate a one-rep max from one set. Returns the estimate in kg rounded to 0.1. A single rep is returned unchanged."),
	mcp.WithNumber("weight", mcp.Required(), mcp.Description("Weight lifted in kg")),
	mcp.WithNumber("reps", mcp.Required(), mcp.Description("Repetitions performed, at least 1")),
	mcp.WithString("formula", mcp.Description("Estimation formula. Defaults to epley."), mcp.Enum("epley", "brzycki")),
)

var toolGetFatigueIndex = mcp.NewTool("get_fatigue_index",
	mcp.WithDescription("Score recent training load from 0 to 100 using session frequency, average volume and rest between sessions. Returns the score, a level (low/moderate/high/very_high) and a recommendation."),
	mcp.WithNumber("days", mcp.Description("Look-back window in days. Defaults to 14.")),
)

var toolGetVolumeTrend = mcp.NewTool("get_volume_trend",
	mcp.WithDescription("Compare training volume between the first and second half of a recent window. Returns increasing, decreasing or stable with the percent change."),
	mcp.WithNumber("weeks", mcp.Description("Window length in weeks. Defaults to 4.")),
)

var toolShouldDeload = mcp.NewTool("should_deload",
	mcp.WithDescription("Decide whether a deload week is due based on fatigue, weeks since the last deload and volume growth. Returns the decision and a reason."),
	mcp.WithNumber("weeks_since_deload", mcp.Description("Weeks since the last deload, if known")),
)

var toolGetPersonalRecords = mcp.NewTool("get_personal_records",
	mcp.WithDescription("List weight personal records in chronological order with the most recent record and the largest first-to-latest improvement."),
	mcp.WithString("exercise_id", mcp.Description("Only return records for this exercise id (e.g. bench_press)")),
)

var toolDetectPlateau = mcp.NewTool("detect_plateau",
	mcp.WithDescription("Check whether an exercise's top working weight has stalled over recent weeks. Returns the flag and the weight series it was computed from."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Exercise id (e.g. back_squat). See the exercise catalog resource.")),
	mcp.WithNumber("weeks", mcp.Description("Recency window in weeks. Defaults to 4.")),
)

var toolGetStrengthSummary = mcp.NewTool("get_strength_summary",
	mcp.WithDescription("Best estimated one-rep max per exercise across all completed sessions, with the set it came from."),
)

var toolGetSessions = mcp.NewTool("get_sessions",
	mcp.WithDescription("List workout sessions started in a time range with exercises, sets, reps and weights."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
	mcp.WithString("status", mcp.Description("Only sessions in this state"), mcp.Enum("in_progress", "completed", "abandoned")),
)

var toolShareTemplate = mcp.NewTool("share_template",
	mcp.WithDescription("Encode a stored workout template as a share code another user can import."),
	mcp.WithString("template_id", mcp.Required(), mcp.Description("Template id (UUID)")),
)

var toolDecodeTemplate = mcp.NewTool("decode_template",
	mcp.WithDescription("Decode a share code into the workout template it describes without storing it."),
	mcp.WithString("code", mcp.Required(), mcp.Description("Share code")),
)

// --- Tool handlers ---

func (h *handlers) estimateOneRepMax(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weight, err := req.RequireFloat("weight")
	if err != nil || weight < 0 {
		return mcp.NewToolResultError("weight must be a non-negative number"), nil
	}
	reps, err := req.RequireFloat("reps")
	if err != nil || reps < 1 {
		return mcp.NewToolResultError("reps must be at least 1"), nil
	}
	formula := analytics.Formula(req.GetString("formula", string(analytics.FormulaEpley)))
	if formula != analytics.FormulaEpley && formula != analytics.FormulaBrzycki {
		return mcp.NewToolResultError("formula must be epley or brzycki"), nil
	}

	return jsonResult(map[string]any{
		"weight_kg":      weight,
		"reps":           int(reps),
		"formula":        formula,
		"one_rep_max_kg": analytics.Estimate(formula, weight, int(reps)),
	})
}

func (h *handlers) getFatigueIndex(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := req.GetInt("days", analytics.DefaultFatigueDays)
	return h.withSessions(ctx, "get_fatigue_index", func(ss []models.Session) any {
		return h.engine.Fatigue(ss, days)
	})
}

func (h *handlers) getVolumeTrend(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weeks := req.GetInt("weeks", analytics.DefaultTrendWeeks)
	return h.withSessions(ctx, "get_volume_trend", func(ss []models.Session) any {
		return h.engine.Trend(ss, weeks)
	})
}

func (h *handlers) shouldDeload(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var since *int
	if _, ok := req.GetArguments()["weeks_since_deload"]; ok {
		n := req.GetInt("weeks_since_deload", 0)
		since = &n
	}
	return h.withSessions(ctx, "should_deload", func(ss []models.Session) any {
		return h.engine.Deload(ss, since)
	})
}

func (h *handlers) getPersonalRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exerciseID := req.GetString("exercise_id", "")
	return h.withSessions(ctx, "get_personal_records", func(ss []models.Session) any {
		history := analytics.PersonalRecords(ss)
		if exerciseID == "" {
			return history
		}
		filtered := make([]analytics.PersonalRecord, 0, len(history.Records))
		for _, pr := range history.Records {
			if pr.ExerciseID == exerciseID {
				filtered = append(filtered, pr)
			}
		}
		return filtered
	})
}

func (h *handlers) detectPlateau(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exerciseID, err := req.RequireString("exercise_id")
	if err != nil || exerciseID == "" {
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}
	weeks := req.GetInt("weeks", analytics.DefaultPlateauWeeks)
	return h.withSessions(ctx, "detect_plateau", func(ss []models.Session) any {
		return h.engine.Plateau(ss, exerciseID, weeks)
	})
}

func (h *handlers) getStrengthSummary(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.withSessions(ctx, "get_strength_summary", func(ss []models.Session) any {
		return analytics.StrengthSummary(ss)
	})
}

func (h *handlers) getSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}
	status := models.SessionStatus(req.GetString("status", ""))
	if status != "" && !status.Valid() {
		return mcp.NewToolResultError("unknown status " + string(status)), nil
	}

	sessions, err := h.ds.ListSessions(ctx, storage.SessionFilter{
		UserID: UserIDFromContext(ctx),
		Start:  start,
		End:    end,
		Status: status,
	})
	if err != nil {
		h.log.Error("mcp get_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(sessions)
}

func (h *handlers) shareTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("template_id")
	if err != nil {
		return mcp.NewToolResultError("template_id parameter is required"), nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("template_id must be a UUID"), nil
	}

	t, err := h.ds.GetTemplate(ctx, id, UserIDFromContext(ctx))
	if errors.Is(err, storage.ErrNotFound) {
		return mcp.NewToolResultError("template not found"), nil
	}
	if err != nil {
		h.log.Error("mcp share_template", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	code, err := share.Encode(*t)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]string{"name": t.Name, "code": code})
}

func (h *handlers) decodeTemplate(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := req.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError("code parameter is required"), nil
	}
	shared, ok := share.Decode(code)
	if !ok {
		return mcp.NewToolResultError("invalid share code"), nil
	}
	return jsonResult(shared)
}

// withSessions loads all sessions of the calling user and serializes fn's result.
func (h *handlers) withSessions(ctx context.Context, tool string, fn func([]models.Session) any) (*mcp.CallToolResult, error) {
	sessions, err := h.ds.ListSessions(ctx, storage.SessionFilter{UserID: UserIDFromContext(ctx)})
	if err != nil {
		h.log.Error("mcp "+tool, "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(fn(sessions))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
