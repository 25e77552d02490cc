package main

import (
	"context"

	liftmcp "github.com/claude/liftlog/internal/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var mcpRemote string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the LiftLog MCP tools over stdio",
	Long: `Start a Model Context Protocol server on stdin/stdout.

By default the tools read the local database. With --remote they read from a
LiftLog server instead, authenticated by its tailnet identity.

CLIENT CONFIGURATION:

  {
    "mcpServers": {
      "liftlog": { "command": "liftctl", "args": ["mcp"] }
    }
  }`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var ds liftmcp.DataSource = store
		uid := userID
		if mcpRemote != "" {
			ds = liftmcp.NewHTTPClient(mcpRemote)
			uid = 0
		}
		s := liftmcp.New(ds, cat, Version, log)
		return server.ServeStdio(s, server.WithStdioContextFunc(func(ctx context.Context) context.Context {
			return liftmcp.WithUserID(ctx, uid)
		}))
	},
}

func init() {
	mcpCmd.Flags().StringVar(&mcpRemote, "remote", "", "LiftLog server URL to read from instead of the local database")
	rootCmd.AddCommand(mcpCmd)
}
