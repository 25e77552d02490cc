package server

import (
	"net/http"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/share"
)

type shareCode struct {
	Code string `json:"code"`
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.repo.ListTemplates(r.Context(), userIDFromContext(r))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var t models.Template
	if !decodeBody(w, r, &t) {
		return
	}
	s.createTemplate(w, r, &t)
}

func (s *Server) createTemplate(w http.ResponseWriter, r *http.Request, t *models.Template) {
	t.UserID = userIDFromContext(r)
	if err := s.repo.CreateTemplate(r.Context(), t); err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookupTemplate(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := s.repo.DeleteTemplate(r.Context(), id, userIDFromContext(r)); err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleShareTemplate(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookupTemplate(w, r)
	if !ok {
		return
	}
	code, err := share.Encode(*t)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, shareCode{Code: code})
}

// handleImportTemplate stores a decoded share code as a new template of the caller.
func (s *Server) handleImportTemplate(w http.ResponseWriter, r *http.Request) {
	var req shareCode
	if !decodeBody(w, r, &req) {
		return
	}
	shared, ok := share.Decode(req.Code)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "invalid share code")
		return
	}
	t := shared.Template()
	s.createTemplate(w, r, &t)
}

// handleStartTemplate opens an in-progress session from the template plan.
func (s *Server) handleStartTemplate(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookupTemplate(w, r)
	if !ok {
		return
	}
	sess := t.NewSession(userIDFromContext(r), time.Now().UTC())
	if err := s.repo.UpsertSession(r.Context(), sess); err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) lookupTemplate(w http.ResponseWriter, r *http.Request) (*models.Template, bool) {
	id, ok := parseID(w, r)
	if !ok {
		return nil, false
	}
	t, err := s.repo.GetTemplate(r.Context(), id, userIDFromContext(r))
	if err != nil {
		s.writeStoreError(w, err)
		return nil, false
	}
	return t, true
}
