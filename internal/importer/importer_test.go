package importer

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/catalog"
	"github.com/claude/liftlog/internal/ingest/alpha"
	"github.com/claude/liftlog/internal/localstore"
	"github.com/claude/liftlog/internal/storage"
)

const pushCSV = `"Push · Day 1 · Week 4 · Push-Pull-Legs";"2026-02-17 5:04 h";"1:12 hr"
"1. Bench Press · Barbell · 6 reps";"WU1 · 22,5 kg · 10 reps"
#;KG;REPS;RIR
1;102,5;6;0
2;102,5;6;0
3;100;6;0
`

const legsCSV = `"Legs · Day 2 · Week 4 · Push-Pull-Legs";"2026-02-19 4:54 h";"1:02 hr"
"1. Hack Squats · Machine · 8 reps"
#;KG;REPS;RIR
1;115;8;1
2;115;10;1
`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func openStore(t *testing.T) (*localstore.Store, int) {
	t.Helper()
	st, err := localstore.Open(filepath.Join(t.TempDir(), "liftlog.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	userID, err := st.GetOrCreateUser(context.Background(), "lifter", "Lifter")
	if err != nil {
		t.Fatal(err)
	}
	return st, userID
}

// TestImportStoresSessions verifies every export under the directory is
// stored and a repeated import does not duplicate sessions.
func TestImportStoresSessions(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"push.csv":      pushCSV,
		"2026/legs.csv": legsCSV,
	})
	st, userID := openStore(t)
	ctx := context.Background()
	provider := alpha.NewProvider(st, catalog.Default(), testLogger())

	stats, err := New(provider, testLogger(), false).Import(ctx, root, userID)
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesProcessed != 2 || stats.SessionsStored != 2 || stats.SetsReceived != 5 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.WarmupsSkipped != 1 {
		t.Errorf("warmups skipped = %d, want 1", stats.WarmupsSkipped)
	}

	if _, err := New(provider, testLogger(), false).Import(ctx, root, userID); err != nil {
		t.Fatal(err)
	}
	sessions, err := st.ListSessions(ctx, storage.SessionFilter{
		UserID: userID,
		Start:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		End:    time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 2 {
		t.Errorf("sessions after re-import = %d, want 2", len(sessions))
	}
}

// TestImportDryRun verifies dry runs parse without an ingester.
func TestImportDryRun(t *testing.T) {
	root := writeFiles(t, map[string]string{"push.csv": pushCSV, "legs.csv": legsCSV})

	stats, err := New(nil, testLogger(), true).Import(context.Background(), root, 1)
	if err != nil {
		t.Fatal(err)
	}
	if stats.SessionsParsed != 2 || stats.SessionsStored != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

// TestImportCountsBadFiles verifies a broken export does not stop the others.
func TestImportCountsBadFiles(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"push.csv": pushCSV,
		"bad.csv":  "1;100;5;1\n",
	})
	st, userID := openStore(t)
	provider := alpha.NewProvider(st, catalog.Default(), testLogger())

	stats, err := New(provider, testLogger(), false).Import(context.Background(), root, userID)
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesProcessed != 1 || stats.FilesErrored != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

// TestImportMissingPath verifies a missing export path is an error.
func TestImportMissingPath(t *testing.T) {
	if _, err := New(nil, testLogger(), true).Import(context.Background(), filepath.Join(t.TempDir(), "nope"), 1); err == nil {
		t.Error("expected error")
	}
}
