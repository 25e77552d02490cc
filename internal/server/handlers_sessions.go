package server

import (
	"net/http"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
)

// handleListSessions lists the caller's sessions. The time range is open
// unless start is given; status narrows to one lifecycle state.
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	f := storage.SessionFilter{UserID: userIDFromContext(r)}
	if r.URL.Query().Get("start") != "" {
		start, end, err := parseTimeRange(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		f.Start, f.End = start, end
	}
	if st := r.URL.Query().Get("status"); st != "" {
		f.Status = models.SessionStatus(st)
		if !f.Status.Valid() {
			writeError(w, http.StatusBadRequest, "unknown status "+st)
			return
		}
	}

	sessions, err := s.repo.ListSessions(r.Context(), f)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleUpsertSession(w http.ResponseWriter, r *http.Request) {
	var sess models.Session
	if !decodeBody(w, r, &sess) {
		return
	}
	sess.UserID = userIDFromContext(r)
	if err := s.repo.UpsertSession(r.Context(), &sess); err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	sess, err := s.repo.GetSession(r.Context(), id, userIDFromContext(r))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := s.repo.DeleteSession(r.Context(), id, userIDFromContext(r)); err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
