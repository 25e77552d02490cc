package server

import (
	"net/http"
	"strconv"

	"github.com/claude/liftlog/internal/analytics"
	"github.com/claude/liftlog/internal/models"
)

// withSessions loads the caller's sessions and hands them to fn.
func (s *Server) withSessions(w http.ResponseWriter, r *http.Request, fn func([]models.Session) any) {
	sessions, err := s.loadSessions(r)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fn(sessions))
}

func (s *Server) handleFatigue(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", analytics.DefaultFatigueDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.withSessions(w, r, func(ss []models.Session) any { return s.engine.Fatigue(ss, days) })
}

func (s *Server) handleVolumeTrend(w http.ResponseWriter, r *http.Request) {
	weeks, err := queryInt(r, "weeks", analytics.DefaultTrendWeeks)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.withSessions(w, r, func(ss []models.Session) any { return s.engine.Trend(ss, weeks) })
}

func (s *Server) handleDeload(w http.ResponseWriter, r *http.Request) {
	var since *int
	if r.URL.Query().Get("weeks_since_deload") != "" {
		n, err := queryInt(r, "weeks_since_deload", 0)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		since = &n
	}
	s.withSessions(w, r, func(ss []models.Session) any { return s.engine.Deload(ss, since) })
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	s.withSessions(w, r, func(ss []models.Session) any { return analytics.PersonalRecords(ss) })
}

func (s *Server) handlePlateau(w http.ResponseWriter, r *http.Request) {
	exerciseID := r.URL.Query().Get("exercise_id")
	if exerciseID == "" {
		writeError(w, http.StatusBadRequest, "exercise_id parameter required")
		return
	}
	weeks, err := queryInt(r, "weeks", analytics.DefaultPlateauWeeks)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.withSessions(w, r, func(ss []models.Session) any { return s.engine.Plateau(ss, exerciseID, weeks) })
}

func (s *Server) handleStrength(w http.ResponseWriter, r *http.Request) {
	s.withSessions(w, r, func(ss []models.Session) any { return analytics.StrengthSummary(ss) })
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", analytics.DefaultFatigueDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.withSessions(w, r, func(ss []models.Session) any { return s.engine.Categories(ss, s.catalog, days) })
}

type oneRepMaxResponse struct {
	Weight    float64           `json:"weight_kg"`
	Reps      int               `json:"reps"`
	Formula   analytics.Formula `json:"formula"`
	OneRepMax float64           `json:"one_rep_max_kg"`
}

// handleOneRepMax estimates a one-rep max from a single set given as query
// parameters. It does not read stored sessions.
func (s *Server) handleOneRepMax(w http.ResponseWriter, r *http.Request) {
	weight, err := strconv.ParseFloat(r.URL.Query().Get("weight"), 64)
	if err != nil || weight < 0 {
		writeError(w, http.StatusBadRequest, "weight must be a non-negative number")
		return
	}
	reps, err := strconv.Atoi(r.URL.Query().Get("reps"))
	if err != nil || reps < 1 {
		writeError(w, http.StatusBadRequest, "reps must be a positive integer")
		return
	}
	formula := analytics.Formula(r.URL.Query().Get("formula"))
	switch formula {
	case "":
		formula = analytics.FormulaEpley
	case analytics.FormulaEpley, analytics.FormulaBrzycki:
	default:
		writeError(w, http.StatusBadRequest, "formula must be epley or brzycki")
		return
	}

	writeJSON(w, http.StatusOK, oneRepMaxResponse{
		Weight:    weight,
		Reps:      reps,
		Formula:   formula,
		OneRepMax: analytics.Estimate(formula, weight, reps),
	})
}
