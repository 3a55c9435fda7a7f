// Package ghcli implements the report source on top of the GitHub CLI (gh).
// Authentication, hosts and network concerns are left entirely to gh.
package ghcli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	gh "github.com/cli/go-gh/v2"

	"github.com/Attamusc/activity-report-cli/internal/activity"
)

const (
	listPRFields     = "number,title,url,state,createdAt,closedAt,mergedAt"
	listIssueFields  = "number,title,url,state,createdAt,closedAt"
	searchFields     = "number,title,url,repository,state,createdAt,closedAt"
	currentUserQuery = ".login"
)

// Executor runs gh with the given arguments and returns its captured output.
// gh.ExecContext satisfies it.
type Executor func(ctx context.Context, args ...string) (stdout, stderr bytes.Buffer, err error)

// Client queries GitHub by invoking the gh binary
type Client struct {
	exec   Executor
	logger *slog.Logger
}

// New creates a Client that shells out to the gh found on PATH
func New(logger *slog.Logger) *Client {
	return NewWithExecutor(gh.ExecContext, logger)
}

// NewWithExecutor creates a Client with a custom executor
func NewWithExecutor(exec Executor, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{exec: exec, logger: logger}
}

// CheckAuth runs `gh auth status`; a missing binary or a nonzero exit is an error
func (c *Client) CheckAuth(ctx context.Context) error {
	_, err := c.run(ctx, "auth", "status")
	return err
}

// CurrentUser returns the login of the account gh is authenticated as
func (c *Client) CurrentUser(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "api", "user", "--jq", currentUserQuery)
	if err != nil {
		return "", fmt.Errorf("failed to fetch current user: %w", err)
	}

	login := strings.TrimSpace(string(out))
	if login == "" {
		return "", fmt.Errorf("failed to fetch current user: gh returned an empty login")
	}
	return login, nil
}

// ListClosed runs `gh pr list` or `gh issue list` with --state closed for repo
func (c *Client) ListClosed(ctx context.Context, repo string, kind activity.Kind, limit int) ([]activity.Item, error) {
	sub, fields := "pr", listPRFields
	if kind == activity.Issue {
		sub, fields = "issue", listIssueFields
	}

	out, err := c.run(ctx, sub, "list",
		"--repo", repo,
		"--state", "closed",
		"--limit", strconv.Itoa(limit),
		"--json", fields)
	if err != nil {
		return nil, fmt.Errorf("error fetching %s from %s: %w", strings.ToLower(kind.Plural()), repo, err)
	}

	var records []listRecord
	if err := json.Unmarshal(out, &records); err != nil {
		return nil, fmt.Errorf("error parsing %s data from %s: %w", strings.ToLower(kind.Plural()), repo, err)
	}

	items := make([]activity.Item, 0, len(records))
	for _, rec := range records {
		item, err := rec.toItem(repo, kind)
		if err != nil {
			return nil, fmt.Errorf("error parsing %s data from %s: %w", strings.ToLower(kind.Plural()), repo, err)
		}
		items = append(items, item)
	}

	c.logger.Debug("gh list completed", "repository", repo, "kind", kind.Plural(), "count", len(items))
	return items, nil
}

// SearchAuthored runs `gh search prs|issues --author user`
func (c *Client) SearchAuthored(ctx context.Context, user string, kind activity.Kind, limit int) ([]activity.Item, error) {
	sub := "prs"
	if kind == activity.Issue {
		sub = "issues"
	}

	out, err := c.run(ctx, "search", sub,
		"--author", user,
		"--limit", strconv.Itoa(limit),
		"--json", searchFields)
	if err != nil {
		return nil, fmt.Errorf("error searching %s for %s: %w", sub, user, err)
	}

	var records []searchRecord
	if err := json.Unmarshal(out, &records); err != nil {
		return nil, fmt.Errorf("error parsing %s data for %s: %w", sub, user, err)
	}

	items := make([]activity.Item, 0, len(records))
	for _, rec := range records {
		item, err := rec.toItem(rec.Repository.NameWithOwner, kind)
		if err != nil {
			return nil, fmt.Errorf("error parsing %s data for %s: %w", sub, user, err)
		}
		items = append(items, item)
	}

	c.logger.Debug("gh search completed", "user", user, "kind", kind.Plural(), "count", len(items))
	return items, nil
}

// run executes gh and folds its stderr into the returned error
func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	c.logger.Debug("Running gh", "args", strings.Join(args, " "))

	stdout, stderr, err := c.exec(ctx, args...)
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("gh %s: %w: %s", args[0], err, msg)
		}
		return nil, fmt.Errorf("gh %s: %w", args[0], err)
	}
	return stdout.Bytes(), nil
}
