package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gouse",
		Short: "Server-driven UI hooks for Go",
		Long: `Gouse is a collection of composable hooks for server-driven Go UIs.

It ships reactive signals, debounce/throttle schedulers, persisted
state, HTTP resources and client event streams. The demo server shows
them wired together:

  • Debounced search over a websocket transport
  • Throttled mouse tracking
  • Color-mode persistence shared across tabs
  • Prometheus metrics for every scheduler`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}
