package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Attamusc/activity-report-cli/internal/config"
	"github.com/Attamusc/activity-report-cli/internal/daterange"
	"github.com/Attamusc/activity-report-cli/internal/format"
	"github.com/Attamusc/activity-report-cli/internal/report"
	"github.com/spf13/cobra"
)

var (
	repos            []string
	reposFile        string
	monthlyCycleTime bool
)

var monthlyCmd = &cobra.Command{
	Use:   "monthly YYYY-MM",
	Short: "Report pull requests and issues closed in a month",
	Long: `Monthly lists closed pull requests and issues for every configured repository,
keeps those closed during the given calendar month, and prints a summary followed
by a section per repository.

Repositories come from --repo / --repos-file, the ACTIVITY_REPORT_REPOSITORIES
environment variable (comma separated), or the "repositories" key of the config file.`,
	Example: `  activity-report monthly 2026-01 --repo steinwurf/kodo --repo steinwurf/raft
  activity-report monthly 2026-02 --repos-file repos.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runMonthly,
}

func init() {
	rootCmd.AddCommand(monthlyCmd)

	monthlyCmd.Flags().StringArrayVar(&repos, "repo", nil, "Repository to include as owner/name (repeatable)")
	monthlyCmd.Flags().StringVar(&reposFile, "repos-file", "", "File listing repositories, one per line")
	monthlyCmd.Flags().BoolVar(&monthlyCycleTime, "cycle-time", false, "Include time-to-close statistics in the summary")
}

func runMonthly(cmd *cobra.Command, args []string) error {
	// Parse the month before doing any work
	r, err := daterange.Month(args[0])
	if err != nil {
		return err
	}

	// Load configuration
	cfg, err := config.FromEnvAndFlags(config.Flags{
		Backend:    backend,
		Repos:      repos,
		ReposFile:  reposFile,
		ConfigPath: configPath,
		CycleTime:  monthlyCycleTime,
		Verbose:    verbose,
		Quiet:      quiet,

		NeedRepositories: true,
	})
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Arguments are valid; further failures are not usage problems
	cmd.SilenceUsage = true

	if err := cfg.RequireRepositories(); err != nil {
		return err
	}

	logger := setupLogger(cfg)
	src, err := newSource(cfg, logger)
	if err != nil {
		return err
	}

	return generateMonthly(cmd.Context(), cmd.OutOrStdout(), src, cfg, r, logger)
}

// generateMonthly runs the preflight check, fetches every repository and writes the report to w
func generateMonthly(ctx context.Context, w io.Writer, src report.Source, cfg *config.Config, r daterange.Range, logger *slog.Logger) error {
	logger.Debug("Checking GitHub access")
	if err := report.Preflight(ctx, src); err != nil {
		logger.Debug("Preflight failed", "error", err)
		return fmt.Errorf("%s\n\n%w", preflightHint(cfg), err)
	}

	logger.Info("Generating monthly report", "month", r.Label, "repositories", len(cfg.Repositories))
	builder := report.NewBuilder(src, logger)
	rep := builder.BuildMonthly(ctx, cfg.Repositories, r)

	if len(rep.Failures) > 0 {
		logger.Warn("Report completed with failed queries", "failures", len(rep.Failures))
	}

	_, err := fmt.Fprint(w, format.RenderMonthly(rep, renderOptions(cfg)))
	return err
}
