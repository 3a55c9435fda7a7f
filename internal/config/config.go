package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Attamusc/activity-report-cli/internal/input"
)

// Backends selectable with --backend
const (
	BackendGH  = "gh"
	BackendAPI = "api"
)

// Weekly layouts selectable with --layout
const (
	LayoutSplit   = "split"
	LayoutGrouped = "grouped"
)

// Environment variables read by FromEnvAndFlags
const (
	EnvToken        = "GITHUB_TOKEN"
	EnvRepositories = "ACTIVITY_REPORT_REPOSITORIES"
	EnvConfigFile   = "ACTIVITY_REPORT_CONFIG"
	EnvBackend      = "ACTIVITY_REPORT_BACKEND"
)

// ErrNoRepositories is returned by RequireRepositories when nothing configured any repository
var ErrNoRepositories = errors.New("no repositories configured: use --repo, --repos-file, " + EnvRepositories + " or a config file")

// Config holds all configuration for the application
type Config struct {
	GitHubToken  string
	Backend      string
	Repositories []string
	Layout       string
	CycleTime    bool
	Verbose      bool
	Quiet        bool
}

// Flags carries the raw CLI flag values; empty strings mean "not set"
type Flags struct {
	Backend    string
	Repos      []string
	ReposFile  string
	ConfigPath string
	Layout     string
	CycleTime  bool
	Verbose    bool
	Quiet      bool

	// NeedRepositories resolves the repository list; commands that never read
	// Config.Repositories leave it false so bad repository settings cannot fail them
	NeedRepositories bool
}

// FromEnvAndFlags creates a Config from the optional .env file, the YAML config file,
// environment variables and CLI flags. Flags win over the environment, which wins over the file.
func FromEnvAndFlags(flags Flags) (*Config, error) {
	// Load environment variables from .env file if it exists
	_ = godotenv.Load() // Silently ignore if .env file doesn't exist

	config := &Config{
		GitHubToken: os.Getenv(EnvToken),
		CycleTime:   flags.CycleTime,
		Verbose:     flags.Verbose && !flags.Quiet, // verbose is disabled if quiet is set
		Quiet:       flags.Quiet,
	}

	// Lowest precedence: config file
	configPath := firstNonEmpty(flags.ConfigPath, os.Getenv(EnvConfigFile))
	var file File
	if configPath != "" {
		loaded, err := LoadFile(configPath)
		if err != nil {
			return nil, err
		}
		file = *loaded
	}

	config.Backend = strings.ToLower(firstNonEmpty(flags.Backend, os.Getenv(EnvBackend), file.Backend, BackendGH))
	if config.Backend != BackendGH && config.Backend != BackendAPI {
		return nil, fmt.Errorf("unsupported backend %q (use %q or %q)", config.Backend, BackendGH, BackendAPI)
	}

	config.Layout = strings.ToLower(firstNonEmpty(flags.Layout, file.Layout, LayoutSplit))
	if config.Layout != LayoutSplit && config.Layout != LayoutGrouped {
		return nil, fmt.Errorf("unsupported layout %q (use %q or %q)", config.Layout, LayoutSplit, LayoutGrouped)
	}

	if flags.NeedRepositories {
		repos, err := resolveRepositories(flags, file)
		if err != nil {
			return nil, err
		}
		config.Repositories = repos
	}

	return config, nil
}

// RequireRepositories fails when the monthly report has nothing to iterate
func (c *Config) RequireRepositories() error {
	if len(c.Repositories) == 0 {
		return ErrNoRepositories
	}
	return nil
}

func resolveRepositories(flags Flags, file File) ([]string, error) {
	// Flags: --repo entries followed by --repos-file entries
	if len(flags.Repos) > 0 || flags.ReposFile != "" {
		entries := append([]string{}, flags.Repos...)
		if flags.ReposFile != "" {
			f, err := os.Open(flags.ReposFile)
			if err != nil {
				return nil, fmt.Errorf("failed to open repositories file: %w", err)
			}
			defer f.Close()

			fromFile, err := input.ParseRepoList(f)
			if err != nil {
				return nil, fmt.Errorf("invalid repositories file %s: %w", flags.ReposFile, err)
			}
			for _, ref := range fromFile {
				entries = append(entries, ref.String())
			}
		}
		return input.ParseRepos(entries)
	}

	if env := os.Getenv(EnvRepositories); strings.TrimSpace(env) != "" {
		repos, err := input.ParseRepos(strings.Split(env, ","))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvRepositories, err)
		}
		return repos, nil
	}

	repos, err := input.ParseRepos(file.Repositories)
	if err != nil {
		return nil, fmt.Errorf("invalid repositories in config file: %w", err)
	}
	return repos, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
