// Package importer loads Alpha Progression exports from local disk straight
// into a store, without going through the HTTP API.
package importer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/claude/liftlog/internal/ingest"
	"github.com/claude/liftlog/internal/ingest/alpha"
)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesErrored   int

	SessionsParsed int
	SessionsStored int
	SetsReceived   int
	WarmupsSkipped int
}

// Ingester stores one parsed export for a user. *alpha.Provider satisfies it.
type Ingester interface {
	Ingest(ctx context.Context, r io.Reader, userID int) (*ingest.Result, error)
}

// Importer reads every export under a directory and hands it to an Ingester.
type Importer struct {
	ingester Ingester
	log      *slog.Logger
	dryRun   bool
	stats    Stats
}

// New creates a new Importer. ingester may be nil in dry-run mode.
func New(ingester Ingester, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{ingester: ingester, log: log, dryRun: dryRun}
}

// Import processes all exports under root for userID. Files that fail are
// logged and counted; the rest are still imported.
func (imp *Importer) Import(ctx context.Context, root string, userID int) (*Stats, error) {
	files, err := alpha.FindExports(root)
	if err != nil {
		return &imp.stats, err
	}
	imp.log.Info("found exports", "count", len(files), "path", root)

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return &imp.stats, err
		}
		if err := imp.importFile(ctx, path, userID); err != nil {
			imp.stats.FilesErrored++
			imp.log.Error("import failed", "file", path, "error", err)
			continue
		}
		imp.stats.FilesProcessed++
	}
	return &imp.stats, nil
}

func (imp *Importer) importFile(ctx context.Context, path string, userID int) error {
	data, err := alpha.ReadExport(path)
	if err != nil {
		return err
	}

	if imp.dryRun {
		sessions, err := alpha.Parse(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("parsing: %w", err)
		}
		imp.stats.SessionsParsed += len(sessions)
		imp.log.Info("dry run", "file", path, "sessions", len(sessions))
		return nil
	}

	result, err := imp.ingester.Ingest(ctx, bytes.NewReader(data), userID)
	if result != nil {
		imp.stats.SessionsParsed += result.SessionsReceived
		imp.stats.SessionsStored += result.SessionsStored
		imp.stats.SetsReceived += result.SetsReceived
		imp.stats.WarmupsSkipped += result.WarmupsSkipped
	}
	return err
}
