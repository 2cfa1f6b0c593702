// Package main provides the entry point for the archeo CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codearcheology/archeo/cmd/archeo/commands"
	"github.com/codearcheology/archeo/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "archeo",
		Short: "Archeo - heuristic source tree archeology",
		Long: `Archeo digs through a source tree and reports what it finds:
language makeup, complexity, security issues, code smells, and the
business logic buried inside.

Commands:
  analyze   Analyze a source tree and emit a report
  serve     Run the HTTP analysis service`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "archeo %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
