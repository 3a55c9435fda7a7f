package ghcli

import (
	"fmt"

	"github.com/Attamusc/activity-report-cli/internal/activity"
)

// listRecord is one element of `gh pr|issue list --json`
type listRecord struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	State     string `json:"state"`
	CreatedAt string `json:"createdAt"`
	ClosedAt  string `json:"closedAt"`
	MergedAt  string `json:"mergedAt"`
}

// searchRecord is one element of `gh search prs|issues --json`
type searchRecord struct {
	listRecord
	Repository struct {
		Name          string `json:"name"`
		NameWithOwner string `json:"nameWithOwner"`
	} `json:"repository"`
}

func (r listRecord) toItem(repo string, kind activity.Kind) (activity.Item, error) {
	created, err := activity.ParseTimestamp(r.CreatedAt)
	if err != nil {
		return activity.Item{}, fmt.Errorf("#%d createdAt: %w", r.Number, err)
	}
	closed, err := activity.ParseTimestamp(r.ClosedAt)
	if err != nil {
		return activity.Item{}, fmt.Errorf("#%d closedAt: %w", r.Number, err)
	}
	merged, err := activity.ParseTimestamp(r.MergedAt)
	if err != nil {
		return activity.Item{}, fmt.Errorf("#%d mergedAt: %w", r.Number, err)
	}

	item := activity.Item{
		Number:     r.Number,
		Title:      r.Title,
		URL:        r.URL,
		State:      r.State,
		ClosedAt:   closed,
		MergedAt:   merged,
		Repository: repo,
		Kind:       kind,
	}
	if created != nil {
		item.CreatedAt = *created
	}
	return item, nil
}
