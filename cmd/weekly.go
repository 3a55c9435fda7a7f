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
	week            string
	year            int
	user            string
	layout          string
	weeklyCycleTime bool
)

var weeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Report your pull requests and issues for a week",
	Long: `Weekly searches pull requests and issues authored by the authenticated user
(or --user), keeps those created or closed during the selected week, and prints a
summary followed by the activity grouped by repository.

The week runs Monday 00:00 UTC to the following Monday. Select it with either
  --week YYYY-MM-DD          the week containing that date
  --week N --year YYYY       ISO 8601 week N of YYYY (both flags together)
or leave both out for last week.`,
	Example: `  activity-report weekly
  activity-report weekly --week 2026-01-07
  activity-report weekly --week 1 --year 2027 --layout grouped`,
	Args: cobra.NoArgs,
	RunE: runWeekly,
}

func init() {
	rootCmd.AddCommand(weeklyCmd)

	weeklyCmd.Flags().StringVar(&week, "week", "", "Week to report: a date (YYYY-MM-DD) or an ISO week number (1-53, requires --year)")
	weeklyCmd.Flags().IntVar(&year, "year", 0, "Year of the ISO week given with --week")
	weeklyCmd.Flags().StringVar(&user, "user", "", "GitHub login to report on (default: the authenticated user)")
	weeklyCmd.Flags().StringVar(&layout, "layout", "", `Activity layout: "split" (PRs and issues per repository) or "grouped" (default "split")`)
	weeklyCmd.Flags().BoolVar(&weeklyCycleTime, "cycle-time", false, "Include time-to-close statistics in the summary")
}

func runWeekly(cmd *cobra.Command, args []string) error {
	// Resolve the week before doing any work
	r, err := daterange.ResolveWeek(daterange.WeekInput{
		Week:    week,
		Year:    year,
		YearSet: cmd.Flags().Changed("year"),
	}, clock)
	if err != nil {
		return err
	}

	// Load configuration
	cfg, err := config.FromEnvAndFlags(config.Flags{
		Backend:    backend,
		ConfigPath: configPath,
		Layout:     layout,
		CycleTime:  weeklyCycleTime,
		Verbose:    verbose,
		Quiet:      quiet,
	})
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Arguments are valid; further failures are not usage problems
	cmd.SilenceUsage = true

	logger := setupLogger(cfg)
	src, err := newSource(cfg, logger)
	if err != nil {
		return err
	}

	return generateWeekly(cmd.Context(), cmd.OutOrStdout(), src, cfg, user, r, logger)
}

// generateWeekly runs the preflight check, resolves the user when needed and writes the report to w
func generateWeekly(ctx context.Context, w io.Writer, src report.Source, cfg *config.Config, login string, r daterange.Range, logger *slog.Logger) error {
	logger.Debug("Checking GitHub access")
	if err := report.Preflight(ctx, src); err != nil {
		logger.Debug("Preflight failed", "error", err)
		return fmt.Errorf("%s\n\n%w", preflightHint(cfg), err)
	}

	if login == "" {
		var err error
		login, err = src.CurrentUser(ctx)
		if err != nil {
			return err
		}
		logger.Debug("Resolved current user", "user", login)
	}

	logger.Info("Generating weekly report", "user", login, "week", r.Label)
	builder := report.NewBuilder(src, logger)
	rep := builder.BuildWeekly(ctx, login, r)

	if len(rep.Failures) > 0 {
		logger.Warn("Report completed with failed queries", "failures", len(rep.Failures))
	}

	_, err := fmt.Fprint(w, format.RenderWeekly(rep, renderOptions(cfg)))
	return err
}
