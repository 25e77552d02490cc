package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const templateColumns = `id, user_id, name, description, exercises, created_at, updated_at`

// CreateTemplate stores a new template, assigning its id and timestamps.
func (db *DB) CreateTemplate(ctx context.Context, t *models.Template) error {
	if err := PrepareTemplate(t, time.Now().UTC()); err != nil {
		return err
	}
	exercises, err := json.Marshal(t.Exercises)
	if err != nil {
		return fmt.Errorf("encoding exercises: %w", err)
	}
	_, err = db.Pool.Exec(ctx,
		`INSERT INTO templates (`+templateColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.UserID, t.Name, t.Description, exercises, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting template: %w", err)
	}
	return nil
}

// GetTemplate returns one template owned by userID.
func (db *DB) GetTemplate(ctx context.Context, id uuid.UUID, userID int) (*models.Template, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+templateColumns+` FROM templates WHERE id = $1 AND user_id = $2`, id, userID)
	t, err := scanTemplate(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting template %s: %w", id, err)
	}
	return t, nil
}

// ListTemplates returns the user's templates, oldest first.
func (db *DB) ListTemplates(ctx context.Context, userID int) ([]models.Template, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+templateColumns+` FROM templates WHERE user_id = $1 ORDER BY created_at ASC, id ASC`, userID)
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

// DeleteTemplate removes a template owned by userID. Sessions started from it
// keep their template id.
func (db *DB) DeleteTemplate(ctx context.Context, id uuid.UUID, userID int) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM templates WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting template %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTemplate(row rowScanner) (*models.Template, error) {
	var (
		t         models.Template
		exercises []byte
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.Description, &exercises, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if err := DecodeExercises(exercises, &t.Exercises); err != nil {
		return nil, fmt.Errorf("template %s: %w", t.ID, err)
	}
	return &t, nil
}
