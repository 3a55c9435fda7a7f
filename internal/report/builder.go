package report

import (
	"context"
	"log/slog"

	"github.com/Attamusc/activity-report-cli/internal/activity"
	"github.com/Attamusc/activity-report-cli/internal/daterange"
)

// Builder runs the queries for a report one after another
type Builder struct {
	source Source
	logger *slog.Logger
}

// NewBuilder creates a Builder. A nil logger falls back to slog.Default().
func NewBuilder(source Source, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{source: source, logger: logger}
}

// RepoSection holds the closed items of one repository for the month
type RepoSection struct {
	Repository   string
	PullRequests []activity.Item
	Issues       []activity.Item
}

// Empty reports whether the repository had no closed items in the month
func (s RepoSection) Empty() bool {
	return len(s.PullRequests) == 0 && len(s.Issues) == 0
}

// Totals returns the counts for this repository
func (s RepoSection) Totals() activity.Totals {
	return activity.Totals{PullRequests: len(s.PullRequests), Issues: len(s.Issues)}
}

// Items returns pull requests followed by issues
func (s RepoSection) Items() []activity.Item {
	items := make([]activity.Item, 0, len(s.PullRequests)+len(s.Issues))
	items = append(items, s.PullRequests...)
	return append(items, s.Issues...)
}

// MonthlyReport is the result of BuildMonthly
type MonthlyReport struct {
	Range        daterange.Range
	Repositories []string      // configured order
	Sections     []RepoSection // one per configured repository, same order
	Failures     []QueryResult
	Totals       activity.Totals
}

// Items returns every reported item across repositories
func (r MonthlyReport) Items() []activity.Item {
	var items []activity.Item
	for _, section := range r.Sections {
		items = append(items, section.Items()...)
	}
	return items
}

// WeeklyReport is the result of BuildWeekly
type WeeklyReport struct {
	User     string
	Range    daterange.Range
	Groups   []activity.RepoGroup
	Failures []QueryResult
	Totals   activity.Totals
}

// Items returns every reported item across repository groups
func (r WeeklyReport) Items() []activity.Item {
	var items []activity.Item
	for _, group := range r.Groups {
		items = append(items, group.Items...)
	}
	return items
}

// BuildMonthly lists closed pull requests and issues for each repository and keeps
// those closed inside r. Fetch order within a repository is preserved.
func (b *Builder) BuildMonthly(ctx context.Context, repos []string, r daterange.Range) MonthlyReport {
	rep := MonthlyReport{
		Range:        r,
		Repositories: repos,
		Sections:     make([]RepoSection, 0, len(repos)),
	}

	for _, repo := range repos {
		b.logger.Info("Fetching data", "repository", repo)

		section := RepoSection{Repository: repo}

		prs := b.listClosed(ctx, repo, activity.PullRequest, r)
		if prs.Failed() {
			rep.Failures = append(rep.Failures, prs)
		}
		section.PullRequests = prs.Items

		issues := b.listClosed(ctx, repo, activity.Issue, r)
		if issues.Failed() {
			rep.Failures = append(rep.Failures, issues)
		}
		section.Issues = issues.Items

		rep.Totals = rep.Totals.Add(section.Totals())
		rep.Sections = append(rep.Sections, section)
	}

	b.logger.Info("Monthly report assembled",
		"repositories", len(repos),
		"pull_requests", rep.Totals.PullRequests,
		"issues", rep.Totals.Issues,
		"failures", len(rep.Failures))

	return rep
}

func (b *Builder) listClosed(ctx context.Context, repo string, kind activity.Kind, r daterange.Range) QueryResult {
	result := QueryResult{Query: repo, Kind: kind}

	items, err := b.source.ListClosed(ctx, repo, kind, ListLimit)
	if err != nil {
		b.logger.Error("Query failed", "repository", repo, "kind", kind.Plural(), "error", err)
		result.Err = err
		return result
	}

	result.Items = activity.ClosedWithin(items, r)
	b.logger.Debug("Query completed", "repository", repo, "kind", kind.Plural(),
		"fetched", len(items), "in_range", len(result.Items))
	return result
}

// BuildWeekly searches pull requests and issues authored by user and keeps those
// created or closed inside r, grouped by repository.
func (b *Builder) BuildWeekly(ctx context.Context, user string, r daterange.Range) WeeklyReport {
	rep := WeeklyReport{User: user, Range: r}

	b.logger.Info("Fetching activity", "user", user)

	var items []activity.Item
	for _, kind := range []activity.Kind{activity.PullRequest, activity.Issue} {
		result := b.searchAuthored(ctx, user, kind, r)
		if result.Failed() {
			rep.Failures = append(rep.Failures, result)
			continue
		}
		items = append(items, result.Items...)
	}

	rep.Groups = activity.GroupByRepository(items)
	rep.Totals = activity.Count(items)

	b.logger.Info("Weekly report assembled",
		"repositories", len(rep.Groups),
		"pull_requests", rep.Totals.PullRequests,
		"issues", rep.Totals.Issues,
		"failures", len(rep.Failures))

	return rep
}

func (b *Builder) searchAuthored(ctx context.Context, user string, kind activity.Kind, r daterange.Range) QueryResult {
	result := QueryResult{Query: user, Kind: kind}

	items, err := b.source.SearchAuthored(ctx, user, kind, SearchLimit)
	if err != nil {
		b.logger.Error("Search failed", "user", user, "kind", kind.Plural(), "error", err)
		result.Err = err
		return result
	}

	result.Items = activity.TouchedWithin(items, r)
	b.logger.Debug("Search completed", "user", user, "kind", kind.Plural(),
		"fetched", len(items), "in_range", len(result.Items))
	return result
}
