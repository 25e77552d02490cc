package mcp

import (
	"context"
	"log/slog"

	"github.com/claude/liftlog/internal/analytics"
	"github.com/claude/liftlog/internal/catalog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, cat *catalog.Catalog, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("LiftLog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("LiftLog strength training server. Estimate one-rep maxes, assess fatigue and volume trends, decide on deloads, list personal records, detect plateaus and share workout templates. All data is scoped to the authenticated user. Weights are in kilograms."),
	)

	h := newHandlers(ds, cat, log)
	s.AddTools(h.tools()...)
	s.AddResources(
		server.ServerResource{Resource: resRecentSessions, Handler: h.recentSessions},
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalog},
	)
	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds      DataSource
	engine  *analytics.Engine
	catalog *catalog.Catalog
	log     *slog.Logger
}

func newHandlers(ds DataSource, cat *catalog.Catalog, log *slog.Logger) *handlers {
	return &handlers{ds: ds, engine: analytics.NewEngine(), catalog: cat, log: log}
}

func (h *handlers) tools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: toolEstimateOneRepMax, Handler: h.estimateOneRepMax},
		{Tool: toolGetFatigueIndex, Handler: h.getFatigueIndex},
		{Tool: toolGetVolumeTrend, Handler: h.getVolumeTrend},
		{Tool: toolShouldDeload, Handler: h.shouldDeload},
		{Tool: toolGetPersonalRecords, Handler: h.getPersonalRecords},
		{Tool: toolDetectPlateau, Handler: h.detectPlateau},
		{Tool: toolGetStrengthSummary, Handler: h.getStrengthSummary},
		{Tool: toolGetSessions, Handler: h.getSessions},
		{Tool: toolShareTemplate, Handler: h.shareTemplate},
		{Tool: toolDecodeTemplate, Handler: h.decodeTemplate},
	}
}

// --- Resource definitions ---

var resRecentSessions = mcp.NewResource(
	"liftlog://recent_sessions",
	"Recent Sessions",
	mcp.WithResourceDescription("Workout sessions started in the last 14 days"),
	mcp.WithMIMEType("application/json"),
)

var resExerciseCatalog = mcp.NewResource(
	"liftlog://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("Known exercises with ids, categories, primary muscles and equipment"),
	mcp.WithMIMEType("application/json"),
)
