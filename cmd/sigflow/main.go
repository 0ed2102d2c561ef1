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
		Use:   "sigflow",
		Short: "Reactive, retrying HTTP requests from the command line",
		Long: `sigflow issues HTTP requests through a retrying resource.

Transient failures (408, 500, 502, 503, 504 by default) are retried with
fixed or exponential backoff, and each retry is reported as it happens.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		getCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
