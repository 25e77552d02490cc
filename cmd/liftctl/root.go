package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/claude/liftlog/internal/catalog"
	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/localstore"
	"github.com/claude/liftlog/internal/logging"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	dbPath    string
	userLogin string
	logLevel  string

	store  *localstore.Store
	userID int
	cat    = catalog.Default()
	log    *slog.Logger
)

// storeless commands never touch the database.
var storeless = map[string]bool{
	"orm":     true,
	"version": true,
	"help":    true,
	"unshare": true,
}

var rootCmd = &cobra.Command{
	Use:   "liftctl",
	Short: "Offline strength training log",
	Long: `liftctl keeps a strength training log in a local SQLite file.

QUICK START:

  $ liftctl import ~/Downloads/alpha-export.csv   # Import an Alpha Progression export
  $ liftctl report                                # Fatigue, trend, deload and strength
  $ liftctl orm 100 5                             # Estimate a one-rep max
  $ liftctl templates                             # List templates
  $ liftctl share <template-id>                   # Print a share code
  $ liftctl unshare <code> --save                 # Import a shared template

MCP INTEGRATION:

  Run 'liftctl mcp' to serve the LiftLog tools over stdio, or
  'liftctl mcp --remote https://liftlog.example.ts.net' to answer from a
  LiftLog server instead of the local file.

DATA STORAGE:

  The database lives at ~/.local/share/liftlog/liftlog.db unless --db is set.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log, _ = logging.New(config.LogConfig{Level: logLevel}, cmd.ErrOrStderr())
		if storeless[cmd.Name()] || (cmd.Name() == "mcp" && mcpRemote != "") {
			return nil
		}
		return openStore(cmd.Context())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store == nil {
			return nil
		}
		err := store.Close()
		store = nil
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDBPath(), "path to the SQLite database")
	rootCmd.PersistentFlags().StringVar(&userLogin, "user", "local", "login the data belongs to")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "liftctl", Version)
	},
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "liftlog.db"
	}
	return filepath.Join(home, ".local", "share", "liftlog", "liftlog.db")
}

func openStore(ctx context.Context) error {
	st, err := localstore.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dbPath, err)
	}
	id, err := st.GetOrCreateUser(ctx, userLogin, userLogin)
	if err != nil {
		st.Close()
		return fmt.Errorf("resolving user %s: %w", userLogin, err)
	}
	store, userID = st, id
	return nil
}

func loadSessions(ctx context.Context) ([]models.Session, error) {
	return store.ListSessions(ctx, storage.SessionFilter{UserID: userID})
}
