package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/Attamusc/activity-report-cli/internal/activity"
	"github.com/Attamusc/activity-report-cli/internal/report"
)

const ruleWidth = 70

var (
	bannerRule  = strings.Repeat("=", ruleWidth)
	sectionRule = strings.Repeat("─", ruleWidth)
	itemRule    = strings.Repeat("-", ruleWidth)
)

const (
	prMarker    = "📌"
	issueMarker = "🔧"
	bullet      = "•"

	isoDate   = "2006-01-02"
	shortDate = "2006 Jan 02"
)

// Layout selects how weekly activity is listed
type Layout string

const (
	// LayoutSplit lists pull requests and issues in separate subsections per repository
	LayoutSplit Layout = "split"
	// LayoutGrouped lists all items of a repository together with an inline kind tag
	LayoutGrouped Layout = "grouped"
)

// Options controls optional parts of the rendered report
type Options struct {
	Layout    Layout
	CycleTime bool
}

// RenderMonthly renders the monthly closed-items report
func RenderMonthly(rep report.MonthlyReport, opts Options) string {
	var b strings.Builder

	writeBanner(&b, "GitHub Activity Report - "+rep.Range.Label)

	writeSection(&b, "SUMMARY")
	fmt.Fprintf(&b, "Total Repositories: %d\n", len(rep.Repositories))
	fmt.Fprintf(&b, "Total Closed Pull Requests: %d\n", rep.Totals.PullRequests)
	fmt.Fprintf(&b, "Total Closed Issues: %d\n", rep.Totals.Issues)
	fmt.Fprintf(&b, "Total Items: %d\n", rep.Totals.Total())
	if opts.CycleTime {
		writeCycleTime(&b, rep.Items())
	}
	b.WriteString("\n")

	writeFailures(&b, rep.Failures)

	for _, section := range rep.Sections {
		// Repositories without closed items are omitted
		if section.Empty() {
			continue
		}

		b.WriteString("\n")
		writeRule(&b, bannerRule)
		fmt.Fprintf(&b, "Repository: %s\n", section.Repository)
		writeRule(&b, bannerRule)

		if len(section.PullRequests) > 0 {
			fmt.Fprintf(&b, "\n%s Closed Pull Requests (%d):\n", prMarker, len(section.PullRequests))
			writeRule(&b, itemRule)
			for _, pr := range section.PullRequests {
				writeClosedItem(&b, pr, true)
			}
		}

		if len(section.Issues) > 0 {
			fmt.Fprintf(&b, "%s Closed Issues (%d):\n", issueMarker, len(section.Issues))
			writeRule(&b, itemRule)
			for _, issue := range section.Issues {
				writeClosedItem(&b, issue, false)
			}
		}
	}

	writeFooter(&b)
	return b.String()
}

// RenderWeekly renders the weekly authored-items report in the selected layout
func RenderWeekly(rep report.WeeklyReport, opts Options) string {
	var b strings.Builder

	b.WriteString("\n")
	writeRule(&b, bannerRule)
	fmt.Fprintf(&b, "GitHub Weekly Activity Report - %s\n", rep.User)
	fmt.Fprintf(&b, "Week: %s\n", rep.Range.Label)
	writeRule(&b, bannerRule)
	b.WriteString("\n")

	writeSection(&b, "SUMMARY")
	fmt.Fprintf(&b, "Total Pull Requests: %d\n", rep.Totals.PullRequests)
	fmt.Fprintf(&b, "Total Issues: %d\n", rep.Totals.Issues)
	fmt.Fprintf(&b, "Total Items: %d\n", rep.Totals.Total())
	if opts.CycleTime {
		writeCycleTime(&b, rep.Items())
	}
	b.WriteString("\n")

	writeFailures(&b, rep.Failures)

	if opts.Layout == LayoutGrouped {
		writeGroupedActivity(&b, rep.Groups)
	} else {
		writeSplitActivity(&b, rep.Groups)
	}

	if len(rep.Groups) == 0 {
		b.WriteString("No activity found for this week.\n")
	}

	writeFooter(&b)
	return b.String()
}

func writeSplitActivity(b *strings.Builder, groups []activity.RepoGroup) {
	for _, group := range groups {
		b.WriteString("\n")
		writeRule(b, bannerRule)
		fmt.Fprintf(b, "Repository: %s\n", group.Repository)
		writeRule(b, bannerRule)

		if prs := group.PullRequests(); len(prs) > 0 {
			fmt.Fprintf(b, "\n%s Pull Requests (%d):\n", prMarker, len(prs))
			writeRule(b, itemRule)
			for _, pr := range prs {
				writeTouchedItem(b, pr)
			}
		}

		if issues := group.Issues(); len(issues) > 0 {
			fmt.Fprintf(b, "%s Issues (%d):\n", issueMarker, len(issues))
			writeRule(b, itemRule)
			for _, issue := range issues {
				writeTouchedItem(b, issue)
			}
		}
	}
}

func writeGroupedActivity(b *strings.Builder, groups []activity.RepoGroup) {
	if len(groups) == 0 {
		return
	}

	writeSection(b, "ACTIVITY")
	for _, group := range groups {
		fmt.Fprintf(b, "\n%s (%d)\n", group.Repository, len(group.Items))
		writeRule(b, itemRule)
		for _, item := range group.Items {
			marker := prMarker
			if item.Kind == activity.Issue {
				marker = issueMarker
			}
			fmt.Fprintf(b, "  %s [%s] #%d: %s [%s]\n", marker, item.Kind, item.Number, item.Title, activity.StatusTag(item, false))

			dates := "Created: " + item.CreatedAt.UTC().Format(shortDate)
			if item.ClosedAt != nil {
				dates += " | Closed: " + item.ClosedAt.UTC().Format(shortDate)
			}
			fmt.Fprintf(b, "    %s\n", dates)
			fmt.Fprintf(b, "    Link: %s\n", item.URL)
		}
	}
	b.WriteString("\n")
}

func writeClosedItem(b *strings.Builder, item activity.Item, withStatus bool) {
	status := ""
	if withStatus {
		status = fmt.Sprintf(" [%s]", activity.StatusTag(item, true))
	}
	fmt.Fprintf(b, "  %s #%d: %s%s\n", bullet, item.Number, item.Title, status)
	fmt.Fprintf(b, "    Closed: %s\n", formatDate(item.ClosedAt))
	fmt.Fprintf(b, "    Link: %s\n", item.URL)
	b.WriteString("\n")
}

func writeTouchedItem(b *strings.Builder, item activity.Item) {
	fmt.Fprintf(b, "  %s #%d: %s [%s]\n", bullet, item.Number, item.Title, activity.StatusTag(item, false))
	fmt.Fprintf(b, "    Created: %s\n", item.CreatedAt.UTC().Format(isoDate))
	if item.ClosedAt != nil {
		fmt.Fprintf(b, "    Closed: %s\n", item.ClosedAt.UTC().Format(isoDate))
	}
	fmt.Fprintf(b, "    Link: %s\n", item.URL)
	b.WriteString("\n")
}

func writeFailures(b *strings.Builder, failures []report.QueryResult) {
	if len(failures) == 0 {
		return
	}

	writeSection(b, "FAILED QUERIES")
	for _, failure := range failures {
		fmt.Fprintf(b, "  %s %s: %v\n", bullet, failure.Describe(), failure.Err)
	}
	b.WriteString("\n")
}

func writeCycleTime(b *strings.Builder, items []activity.Item) {
	cycle, ok := activity.CycleTime(items)
	if !ok {
		b.WriteString("Time To Close: n/a\n")
		return
	}
	fmt.Fprintf(b, "Time To Close (days): median %.1f, mean %.1f, max %.1f over %d closed items\n",
		cycle.Median, cycle.Mean, cycle.Max, cycle.Samples)
}

func writeBanner(b *strings.Builder, title string) {
	b.WriteString("\n")
	writeRule(b, bannerRule)
	b.WriteString(title + "\n")
	writeRule(b, bannerRule)
	b.WriteString("\n")
}

func writeSection(b *strings.Builder, title string) {
	writeRule(b, sectionRule)
	b.WriteString(title + "\n")
	writeRule(b, sectionRule)
}

func writeFooter(b *strings.Builder) {
	b.WriteString("\n")
	writeRule(b, bannerRule)
	b.WriteString("Report generation complete!\n")
	writeRule(b, bannerRule)
	b.WriteString("\n")
}

func writeRule(b *strings.Builder, rule string) {
	b.WriteString(rule + "\n")
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "n/a"
	}
	return t.UTC().Format(isoDate)
}
