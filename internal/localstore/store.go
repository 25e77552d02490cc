// Package localstore is a single-file SQLite implementation of
// storage.Repository for offline use by the CLI and small deployments.
package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var _ storage.Repository = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	login        TEXT NOT NULL UNIQUE,
	display_name TEXT NOT NULL DEFAULT '',
	last_seen    INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS sessions (
	id           TEXT PRIMARY KEY,
	user_id      INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	template_id  TEXT,
	name         TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL,
	started_at   INTEGER NOT NULL,
	completed_at INTEGER,
	exercises    TEXT NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS sessions_user_started_idx ON sessions (user_id, started_at);
CREATE TABLE IF NOT EXISTS templates (
	id          TEXT PRIMARY KEY,
	user_id     INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	exercises   TEXT NOT NULL DEFAULT '[]',
	created_at  INTEGER NOT NULL,
	updated_at  INTEGER NOT NULL
);
`

// Store keeps sessions and templates in one SQLite file. Timestamps are
// stored as Unix nanoseconds so range filters compare numerically.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db dir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening local db: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func toNanos(t time.Time) int64 { return t.UTC().UnixNano() }

func fromNanos(n int64) time.Time { return time.Unix(0, n).UTC() }

// GetOrCreateUser finds or creates a user by login and returns its id.
func (s *Store) GetOrCreateUser(ctx context.Context, login, displayName string) (int, error) {
	if login == "" {
		return 0, fmt.Errorf("%w: empty login", storage.ErrInvalid)
	}
	var id int
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (login, display_name, last_seen) VALUES (?, ?, ?)
		ON CONFLICT (login) DO UPDATE SET
			last_seen = excluded.last_seen,
			display_name = COALESCE(NULLIF(excluded.display_name, ''), users.display_name)
		RETURNING id`, login, displayName, toNanos(s.now())).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upserting user %s: %w", login, err)
	}
	return id, nil
}

const sessionColumns = `id, user_id, template_id, name, status, started_at, completed_at, exercises`

// UpsertSession inserts a session or replaces the stored copy.
func (s *Store) UpsertSession(ctx context.Context, sess *models.Session) error {
	if err := storage.PrepareSession(sess); err != nil {
		return err
	}
	exercises, err := json.Marshal(sess.Exercises)
	if err != nil {
		return fmt.Errorf("encoding exercises: %w", err)
	}

	var templateID uuid.NullUUID
	if sess.TemplateID != nil {
		templateID = uuid.NullUUID{UUID: *sess.TemplateID, Valid: true}
	}
	var completed sql.NullInt64
	if sess.CompletedAt != nil {
		completed = sql.NullInt64{Int64: toNanos(*sess.CompletedAt), Valid: true}
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (`+sessionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			template_id  = excluded.template_id,
			name         = excluded.name,
			status       = excluded.status,
			started_at   = excluded.started_at,
			completed_at = excluded.completed_at,
			exercises    = excluded.exercises
		WHERE sessions.user_id = excluded.user_id`,
		sess.ID.String(), sess.UserID, templateID, sess.Name, string(sess.Status),
		toNanos(sess.StartedAt), completed, string(exercises))
	if err != nil {
		return fmt.Errorf("upserting session %s: %w", sess.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetSession returns one session owned by userID.
func (s *Store) GetSession(ctx context.Context, id uuid.UUID, userID int) (*models.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = ? AND user_id = ?`, id.String(), userID)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting session %s: %w", id, err)
	}
	return sess, nil
}

// ListSessions returns the matching sessions ordered by start time.
func (s *Store) ListSessions(ctx context.Context, f storage.SessionFilter) ([]models.Session, error) {
	where := []string{"user_id = ?"}
	args := []any{f.UserID}
	if !f.Start.IsZero() {
		where = append(where, "started_at >= ?")
		args = append(args, toNanos(f.Start))
	}
	if !f.End.IsZero() {
		where = append(where, "started_at < ?")
		args = append(args, toNanos(f.End))
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE `+strings.Join(where, " AND ")+
			` ORDER BY started_at ASC, id ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	result := []models.Session{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		result = append(result, *sess)
	}
	return result, rows.Err()
}

// DeleteSession removes a session owned by userID.
func (s *Store) DeleteSession(ctx context.Context, id uuid.UUID, userID int) error {
	return s.deleteOwned(ctx, "sessions", id, userID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*models.Session, error) {
	var (
		sess       models.Session
		templateID uuid.NullUUID
		status     string
		started    int64
		completed  sql.NullInt64
		exercises  string
	)
	if err := row.Scan(&sess.ID, &sess.UserID, &templateID, &sess.Name, &status, &started, &completed, &exercises); err != nil {
		return nil, err
	}
	sess.Status = models.SessionStatus(status)
	sess.StartedAt = fromNanos(started)
	if completed.Valid {
		t := fromNanos(completed.Int64)
		sess.CompletedAt = &t
	}
	if templateID.Valid {
		id := templateID.UUID
		sess.TemplateID = &id
	}
	if err := storage.DecodeExercises([]byte(exercises), &sess.Exercises); err != nil {
		return nil, fmt.Errorf("session %s: %w", sess.ID, err)
	}
	return &sess, nil
}

const templateColumns = `id, user_id, name, description, exercises, created_at, updated_at`

// CreateTemplate stores a new template, assigning its id and timestamps.
func (s *Store) CreateTemplate(ctx context.Context, t *models.Template) error {
	if err := storage.PrepareTemplate(t, s.now().UTC()); err != nil {
		return err
	}
	exercises, err := json.Marshal(t.Exercises)
	if err != nil {
		return fmt.Errorf("encoding exercises: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO templates (`+templateColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID.String(), t.UserID, t.Name, t.Description, string(exercises),
		toNanos(t.CreatedAt), toNanos(t.UpdatedAt))
	if err != nil {
		return fmt.Errorf("inserting template: %w", err)
	}
	return nil
}

// GetTemplate returns one template owned by userID.
func (s *Store) GetTemplate(ctx context.Context, id uuid.UUID, userID int) (*models.Template, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+templateColumns+` FROM templates WHERE id = ? AND user_id = ?`, id.String(), userID)
	t, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting template %s: %w", id, err)
	}
	return t, nil
}

// ListTemplates returns the user's templates, oldest first.
func (s *Store) ListTemplates(ctx context.Context, userID int) ([]models.Template, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+templateColumns+` FROM templates WHERE user_id = ? ORDER BY created_at ASC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying templates: %w", err)
	}
	defer rows.Close()

	result := []models.Template{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning template: %w", err)
		}
		result = append(result, *t)
	}
	return result, rows.Err()
}

// DeleteTemplate removes a template owned by userID.
func (s *Store) DeleteTemplate(ctx context.Context, id uuid.UUID, userID int) error {
	return s.deleteOwned(ctx, "templates", id, userID)
}

func scanTemplate(row rowScanner) (*models.Template, error) {
	var (
		t                models.Template
		exercises        string
		created, updated int64
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.Description, &exercises, &created, &updated); err != nil {
		return nil, err
	}
	t.CreatedAt = fromNanos(created)
	t.UpdatedAt = fromNanos(updated)
	if err := storage.DecodeExercises([]byte(exercises), &t.Exercises); err != nil {
		return nil, fmt.Errorf("template %s: %w", t.ID, err)
	}
	return &t, nil
}

// deleteOwned deletes one row of table by id and owner. table is always a
// package constant.
func (s *Store) deleteOwned(ctx context.Context, table string, id uuid.UUID, userID int) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM `+table+` WHERE id = ? AND user_id = ?`, id.String(), userID)
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", table, err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetDataStats returns aggregate statistics for a user's stored data.
func (s *Store) GetDataStats(ctx context.Context, userID int) (*storage.DataStats, error) {
	stats := &storage.DataStats{}
	var earliest, latest sql.NullInt64

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0),
		        MIN(started_at),
		        MAX(started_at)
		 FROM sessions WHERE user_id = ?`, userID,
	).Scan(&stats.TotalSessions, &stats.CompletedSessions, &earliest, &latest)
	if err != nil {
		return nil, fmt.Errorf("counting sessions: %w", err)
	}
	if earliest.Valid {
		t := fromNanos(earliest.Int64)
		stats.EarliestSession = &t
	}
	if latest.Valid {
		t := fromNanos(latest.Int64)
		stats.LatestSession = &t
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM templates WHERE user_id = ?`, userID,
	).Scan(&stats.TotalTemplates)
	if err != nil {
		return nil, fmt.Errorf("counting templates: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(json_extract(e.value, '$.completed_sets')), 0)
		 FROM sessions s, json_each(s.exercises) e
		 WHERE s.user_id = ? AND s.status = 'completed'`, userID,
	).Scan(&stats.TotalSets)
	if err != nil {
		return nil, fmt.Errorf("counting sets: %w", err)
	}

	return stats, nil
}
