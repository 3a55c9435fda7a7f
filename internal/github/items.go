package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"

	"github.com/Attamusc/activity-report-cli/internal/activity"
	"github.com/Attamusc/activity-report-cli/internal/input"
)

const maxPerPage = 100

// CheckAuth verifies the token by fetching the authenticated user
func (c *Client) CheckAuth(ctx context.Context) error {
	_, err := c.CurrentUser(ctx)
	return err
}

// CurrentUser returns the login of the token's owner
func (c *Client) CurrentUser(ctx context.Context) (string, error) {
	user, _, err := c.api.Users.Get(ctx, "")
	if err != nil {
		if enhanced := enhanceGitHubError(err, "the authenticated user"); enhanced != nil {
			return "", enhanced
		}
		return "", fmt.Errorf("failed to fetch current user: %w", err)
	}
	return user.GetLogin(), nil
}

// ListClosed pages through closed pull requests or issues of repo until limit items are collected
func (c *Client) ListClosed(ctx context.Context, repo string, kind activity.Kind, limit int) ([]activity.Item, error) {
	ref, err := input.ParseRepo(repo)
	if err != nil {
		return nil, err
	}

	var items []activity.Item
	if kind == activity.PullRequest {
		items, err = c.listClosedPullRequests(ctx, ref, limit)
	} else {
		items, err = c.listClosedIssues(ctx, ref, limit)
	}
	if err != nil {
		if enhanced := enhanceGitHubError(err, repo); enhanced != nil {
			return nil, enhanced
		}
		return nil, fmt.Errorf("error fetching %s from %s: %w", strings.ToLower(kind.Plural()), repo, err)
	}

	c.logger.Debug("API list completed", "repository", repo, "kind", kind.Plural(), "count", len(items))
	return items, nil
}

func (c *Client) listClosedPullRequests(ctx context.Context, ref input.RepoRef, limit int) ([]activity.Item, error) {
	opts := &github.PullRequestListOptions{
		State:       "closed",
		ListOptions: github.ListOptions{Page: 1, PerPage: perPage(limit)},
	}

	var items []activity.Item
	for len(items) < limit {
		c.logger.Debug("Fetching pull requests page", "repository", ref.String(), "page", opts.Page)

		prs, resp, err := c.api.PullRequests.List(ctx, ref.Owner, ref.Name, opts)
		if err != nil {
			return nil, err
		}

		for _, pr := range prs {
			items = append(items, activity.Item{
				Number:     pr.GetNumber(),
				Title:      pr.GetTitle(),
				URL:        pr.GetHTMLURL(),
				State:      pr.GetState(),
				CreatedAt:  pr.GetCreatedAt().Time,
				ClosedAt:   timePtr(pr.ClosedAt),
				MergedAt:   timePtr(pr.MergedAt),
				Repository: ref.String(),
				Kind:       activity.PullRequest,
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return truncate(items, limit), nil
}

func (c *Client) listClosedIssues(ctx context.Context, ref input.RepoRef, limit int) ([]activity.Item, error) {
	opts := &github.IssueListByRepoOptions{
		State:       "closed",
		ListOptions: github.ListOptions{Page: 1, PerPage: perPage(limit)},
	}

	var items []activity.Item
	for len(items) < limit {
		c.logger.Debug("Fetching issues page", "repository", ref.String(), "page", opts.Page)

		issues, resp, err := c.api.Issues.ListByRepo(ctx, ref.Owner, ref.Name, opts)
		if err != nil {
			return nil, err
		}

		for _, issue := range issues {
			// The issues endpoint also returns pull requests
			if issue.IsPullRequest() {
				continue
			}
			items = append(items, issueToItem(issue, ref.String(), activity.Issue))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return truncate(items, limit), nil
}

// SearchAuthored runs a single page of the issue search API for author:user
func (c *Client) SearchAuthored(ctx context.Context, user string, kind activity.Kind, limit int) ([]activity.Item, error) {
	qualifier := "is:pr"
	if kind == activity.Issue {
		qualifier = "is:issue"
	}
	query := fmt.Sprintf("author:%s %s", user, qualifier)

	opts := &github.SearchOptions{ListOptions: github.ListOptions{PerPage: perPage(limit)}}
	result, _, err := c.api.Search.Issues(ctx, query, opts)
	if err != nil {
		if enhanced := enhanceGitHubError(err, "search for "+user); enhanced != nil {
			return nil, enhanced
		}
		return nil, fmt.Errorf("error searching %s for %s: %w", strings.ToLower(kind.Plural()), user, err)
	}

	items := make([]activity.Item, 0, len(result.Issues))
	for _, issue := range result.Issues {
		repo, err := repoFromAPIURL(issue.GetRepositoryURL())
		if err != nil {
			return nil, fmt.Errorf("error parsing search result #%d for %s: %w", issue.GetNumber(), user, err)
		}
		items = append(items, issueToItem(issue, repo, kind))
	}

	c.logger.Debug("API search completed", "user", user, "kind", kind.Plural(), "count", len(items))
	return truncate(items, limit), nil
}

func issueToItem(issue *github.Issue, repo string, kind activity.Kind) activity.Item {
	return activity.Item{
		Number:     issue.GetNumber(),
		Title:      issue.GetTitle(),
		URL:        issue.GetHTMLURL(),
		State:      issue.GetState(),
		CreatedAt:  issue.GetCreatedAt().Time,
		ClosedAt:   timePtr(issue.ClosedAt),
		Repository: repo,
		Kind:       kind,
	}
}

// repoFromAPIURL turns https://api.github.com/repos/{owner}/{name} into owner/name
func repoFromAPIURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid repository URL %q: %w", raw, err)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	// Enterprise hosts prefix the path with /api/v3
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "repos" {
			return parts[i+1] + "/" + parts[i+2], nil
		}
	}
	return "", fmt.Errorf("invalid repository URL %q", raw)
}

func timePtr(ts *github.Timestamp) *time.Time {
	if ts == nil || ts.Time.IsZero() {
		return nil
	}
	t := ts.Time.UTC()
	return &t
}

func perPage(limit int) int {
	if limit > 0 && limit < maxPerPage {
		return limit
	}
	return maxPerPage
}

func truncate(items []activity.Item, limit int) []activity.Item {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

// enhanceGitHubError checks for common GitHub API error conditions and provides helpful error messages
func enhanceGitHubError(err error, target string) error {
	// Convert to GitHub ErrorResponse if possible
	if ghErr, ok := err.(*github.ErrorResponse); ok && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("GitHub API authentication failed for %s. Please check your GITHUB_TOKEN or run `gh auth login`", target)

		case http.StatusForbidden:
			// Check if this might be an SSO authorization issue
			if strings.Contains(strings.ToLower(ghErr.Message), "sso") ||
				strings.Contains(strings.ToLower(ghErr.Message), "organization") {
				return fmt.Errorf("GitHub API access denied for %s. Your token may require SSO authorization for this organization", target)
			}
			return fmt.Errorf("GitHub API access denied for %s. Your token may not have sufficient permissions", target)

		case http.StatusNotFound:
			return fmt.Errorf("GitHub API returned not found for %s. It may be private and your token lacks access", target)

		case http.StatusUnprocessableEntity:
			return fmt.Errorf("GitHub API rejected the query for %s: %s", target, ghErr.Message)
		}
	}

	// Check for timeout errors
	if strings.Contains(err.Error(), "timeout") || strings.Contains(err.Error(), "deadline exceeded") {
		return fmt.Errorf("GitHub API request timed out for %s. Please check your network connection and try again", target)
	}

	// Return nil to indicate no enhancement was applied
	return nil
}
