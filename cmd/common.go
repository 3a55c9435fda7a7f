package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/Attamusc/activity-report-cli/internal/config"
	"github.com/Attamusc/activity-report-cli/internal/daterange"
	"github.com/Attamusc/activity-report-cli/internal/format"
	"github.com/Attamusc/activity-report-cli/internal/ghcli"
	"github.com/Attamusc/activity-report-cli/internal/github"
	"github.com/Attamusc/activity-report-cli/internal/report"
)

const installHint = `GitHub CLI (gh) is not installed or not authenticated.

To install gh CLI, visit: https://cli.github.com/
After installation, run: gh auth login`

const tokenHint = `GitHub REST API access failed.

Set GITHUB_TOKEN to a valid personal access token, or run: gh auth login
to store one that the api backend can reuse.`

// preflightHint explains how to fix access for the configured backend
func preflightHint(cfg *config.Config) string {
	if cfg.Backend == config.BackendAPI {
		return tokenHint
	}
	return installHint
}

// clock supplies "now" for the default weekly range
var clock daterange.Clock = daterange.SystemClock{}

// newSource builds the report source for the configured backend
var newSource = func(cfg *config.Config, logger *slog.Logger) (report.Source, error) {
	if cfg.Backend == config.BackendAPI {
		logger.Debug("Using GitHub REST API backend")
		return github.NewFromToken(cfg.GitHubToken, logger)
	}
	logger.Debug("Using GitHub CLI backend")
	return ghcli.New(logger), nil
}

// renderOptions maps configuration onto renderer options
func renderOptions(cfg *config.Config) format.Options {
	layout := format.LayoutSplit
	if cfg.Layout == config.LayoutGrouped {
		layout = format.LayoutGrouped
	}
	return format.Options{Layout: layout, CycleTime: cfg.CycleTime}
}

// setupLogger creates a logger configured for progress output
func setupLogger(cfg *config.Config) *slog.Logger {
	if cfg.Quiet {
		// Discard all log output when quiet
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}

	// Use stderr for progress so stdout stays clean for output
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Remove time stamps for cleaner progress output
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}
