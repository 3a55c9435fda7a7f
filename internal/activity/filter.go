package activity

import (
	"sort"

	"github.com/Attamusc/activity-report-cli/internal/daterange"
)

// ClosedWithin keeps items whose closing timestamp falls inside r, preserving order
func ClosedWithin(items []Item, r daterange.Range) []Item {
	var filtered []Item
	for _, item := range items {
		if item.ClosedAt != nil && r.Contains(*item.ClosedAt) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// TouchedWithin keeps items created or closed inside r, preserving order
func TouchedWithin(items []Item, r daterange.Range) []Item {
	var filtered []Item
	for _, item := range items {
		created := !item.CreatedAt.IsZero() && r.Contains(item.CreatedAt)
		closed := item.ClosedAt != nil && r.Contains(*item.ClosedAt)
		if created || closed {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// OfKind returns the items of the given kind, preserving order
func OfKind(items []Item, kind Kind) []Item {
	var filtered []Item
	for _, item := range items {
		if item.Kind == kind {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// RepoGroup is the set of items belonging to one repository
type RepoGroup struct {
	Repository string
	Items      []Item
}

// PullRequests returns the pull requests of the group
func (g RepoGroup) PullRequests() []Item { return OfKind(g.Items, PullRequest) }

// Issues returns the issues of the group
func (g RepoGroup) Issues() []Item { return OfKind(g.Items, Issue) }

// GroupByRepository groups items by repository name (ascending).
// Within a group items are ordered newest-created first; ties keep input order.
func GroupByRepository(items []Item) []RepoGroup {
	index := make(map[string]int)
	var groups []RepoGroup

	for _, item := range items {
		i, ok := index[item.Repository]
		if !ok {
			i = len(groups)
			index[item.Repository] = i
			groups = append(groups, RepoGroup{Repository: item.Repository})
		}
		groups[i].Items = append(groups[i].Items, item)
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Repository < groups[j].Repository
	})

	for _, group := range groups {
		SortNewestFirst(group.Items)
	}

	return groups
}

// SortNewestFirst orders items by creation time descending, stable for equal times
func SortNewestFirst(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

// Totals summarizes item counts
type Totals struct {
	PullRequests int
	Issues       int
}

// Total returns the combined count
func (t Totals) Total() int {
	return t.PullRequests + t.Issues
}

// Add returns the element-wise sum of two totals
func (t Totals) Add(other Totals) Totals {
	return Totals{
		PullRequests: t.PullRequests + other.PullRequests,
		Issues:       t.Issues + other.Issues,
	}
}

// Count tallies items by kind
func Count(items []Item) Totals {
	var totals Totals
	for _, item := range items {
		switch item.Kind {
		case PullRequest:
			totals.PullRequests++
		case Issue:
			totals.Issues++
		}
	}
	return totals
}
