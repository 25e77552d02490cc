// Command liftctl works with a local LiftLog database: it imports Alpha
// Progression exports, prints training reports, estimates one-rep maxes,
// shares templates and serves MCP over stdio.
package main

import (
	"fmt"
	"os"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
