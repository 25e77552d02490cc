// Package upload pushes Alpha Progression exports from a local directory
// to a LiftLog server, remembering which files were already sent.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/claude/liftlog/internal/ingest"
	"github.com/claude/liftlog/internal/ingest/alpha"
)

// Stats tracks upload progress.
type Stats struct {
	FilesTotal    int
	FilesUploaded int
	FilesSkipped  int
	FilesErrored  int

	SessionsParsed int
	SessionsStored int
	SetsReceived   int
}

// Sender delivers one export to the server.
type Sender interface {
	SendCSV(ctx context.Context, data []byte) (*ingest.Result, error)
}

// Uploader walks an export directory and sends every new or changed CSV file.
type Uploader struct {
	sender Sender
	state  *StateDB
	root   string
	dryRun bool
	log    *slog.Logger
	stats  Stats
}

// New creates a new Uploader. sender may be nil in dry-run mode.
func New(sender Sender, state *StateDB, root string, dryRun bool, log *slog.Logger) *Uploader {
	return &Uploader{sender: sender, state: state, root: root, dryRun: dryRun, log: log}
}

// Run executes the upload pipeline. A failed file is logged and counted; the
// remaining files are still processed.
func (u *Uploader) Run(ctx context.Context) (*Stats, error) {
	files, err := alpha.FindExports(u.root)
	if err != nil {
		return &u.stats, err
	}
	u.stats.FilesTotal = len(files)

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return &u.stats, err
		}
		if err := u.processFile(ctx, path); err != nil {
			u.stats.FilesErrored++
			u.log.Error("upload failed", "file", path, "error", err)
		}
	}
	return &u.stats, nil
}

func (u *Uploader) processFile(ctx context.Context, path string) error {
	rel, err := filepath.Rel(u.root, path)
	if err != nil || rel == "." {
		rel = filepath.Base(path)
	}

	hash, err := HashFile(path)
	if err != nil {
		return fmt.Errorf("hashing: %w", err)
	}
	done, err := u.state.IsUploaded(ctx, rel, hash)
	if err != nil {
		return err
	}
	if done {
		u.stats.FilesSkipped++
		u.log.Debug("already uploaded", "file", rel)
		return nil
	}

	data, err := alpha.ReadExport(path)
	if err != nil {
		return err
	}
	sessions, err := alpha.Parse(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parsing: %w", err)
	}
	u.stats.SessionsParsed += len(sessions)

	if u.dryRun {
		u.log.Info("dry run", "file", rel, "sessions", len(sessions))
		return nil
	}

	result, err := u.sender.SendCSV(ctx, data)
	if err != nil {
		return err
	}
	u.stats.FilesUploaded++
	u.stats.SessionsStored += result.SessionsStored
	u.stats.SetsReceived += result.SetsReceived
	u.log.Info("uploaded", "file", rel, "sessions", result.SessionsStored, "sets", result.SetsReceived)

	return u.state.MarkUploaded(ctx, rel, hash, result.SessionsStored)
}
