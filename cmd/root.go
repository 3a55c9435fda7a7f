package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	backend    string
	configPath string
	verbose    bool
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "activity-report",
	Short: "Generate activity reports of closed pull requests and issues",
	Long: `activity-report is a CLI tool that summarizes GitHub activity over a time window.
The monthly report lists pull requests and issues closed in a calendar month for a
configured set of repositories. The weekly report lists pull requests and issues
authored by the current user that were created or closed during a week.

GitHub access goes through the GitHub CLI (gh) by default; --backend api talks to
the REST API directly using GITHUB_TOKEN or the token stored by gh.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Default behavior - show help
		cmd.Help()
	},
}

// Execute runs the root command; the returned error should exit the process with status 1
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", `GitHub access backend: "gh" (GitHub CLI) or "api" (REST API) (default "gh")`)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose progress output")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress all progress output")
}
