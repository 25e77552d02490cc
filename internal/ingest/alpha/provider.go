package alpha

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/claude/liftlog/internal/ingest"
	"github.com/claude/liftlog/internal/models"
)

// SessionWriter is the storage the provider writes into.
type SessionWriter interface {
	UpsertSession(ctx context.Context, s *models.Session) error
}

// Provider processes Alpha Progression CSV exports.
type Provider struct {
	store SessionWriter
	names NameResolver
	log   *slog.Logger
}

// NewProvider creates a new Alpha Progression ingest provider.
func NewProvider(store SessionWriter, names NameResolver, log *slog.Logger) *Provider {
	return &Provider{store: store, names: names, log: log}
}

// Ingest parses a CSV export and upserts one completed session per exported
// workout. Session ids are derived from user, date and name, so re-importing
// an export replaces the earlier copy.
func (p *Provider) Ingest(ctx context.Context, r io.Reader, userID int) (*ingest.Result, error) {
	parsed, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}

	result := &ingest.Result{SessionsReceived: len(parsed)}
	for _, a := range parsed {
		s, warmups := ToSession(userID, a, p.names)
		result.WarmupsSkipped += warmups
		for _, ex := range s.Exercises {
			result.SetsReceived += ex.CompletedSets
		}
		if len(s.Exercises) == 0 {
			p.log.Warn("skipping session without working sets", "session", a.Name, "date", a.Date)
			continue
		}
		if err := p.store.UpsertSession(ctx, &s); err != nil {
			return result, fmt.Errorf("storing session %s (%s): %w", a.Name, a.Date.Format("2006-01-02"), err)
		}
		result.SessionsStored++
	}

	p.log.Info("alpha import finished",
		"user_id", userID,
		"sessions", result.SessionsStored,
		"sets", result.SetsReceived,
		"warmups_skipped", result.WarmupsSkipped)
	return result, nil
}
