// Package activity holds the pull request / issue records the reports are built from,
// along with the filtering, grouping and counting applied to them.
package activity

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the fixed ISO-8601 UTC layout returned by the GitHub CLI
const TimestampLayout = "2006-01-02T15:04:05Z"

// neverPrefix marks the zero timestamp `gh search` emits for items that were never closed
const neverPrefix = "0001-01-01"

// Kind distinguishes pull requests from issues
type Kind int

const (
	// PullRequest is a GitHub pull request
	PullRequest Kind = iota
	// Issue is a GitHub issue
	Issue
)

// String returns the short display name of the kind
func (k Kind) String() string {
	switch k {
	case PullRequest:
		return "PR"
	case Issue:
		return "Issue"
	default:
		return "Unknown"
	}
}

// Plural returns the human readable plural used in section headers
func (k Kind) Plural() string {
	switch k {
	case PullRequest:
		return "Pull Requests"
	case Issue:
		return "Issues"
	default:
		return "Items"
	}
}

// Item is a single pull request or issue as returned by a query
type Item struct {
	Number     int
	Title      string
	URL        string
	State      string
	CreatedAt  time.Time
	ClosedAt   *time.Time // nil when the item was never closed
	MergedAt   *time.Time // pull requests only
	Repository string     // owner/name
	Kind       Kind
}

// Ref returns the owner/name#number reference for the item
func (i Item) Ref() string {
	return fmt.Sprintf("%s#%d", i.Repository, i.Number)
}

// IsClosed reports whether the item carries a closing timestamp
func (i Item) IsClosed() bool {
	return i.ClosedAt != nil
}

// IsMerged reports whether the item is a merged pull request
func (i Item) IsMerged() bool {
	return i.Kind == PullRequest && i.MergedAt != nil
}

// ParseTimestamp parses a GitHub CLI timestamp.
// Empty values and the "never" sentinel (0001-01-01...) yield nil without an error.
func ParseTimestamp(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, neverPrefix) {
		return nil, nil
	}

	parsed, err := time.Parse(TimestampLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp %q: %w", raw, err)
	}
	return &parsed, nil
}

// StatusTag returns the bracketed status shown next to an item.
// Monthly pull requests are tagged MERGED or CLOSED; everything else uses the raw state.
func StatusTag(item Item, mergeAware bool) string {
	if mergeAware && item.Kind == PullRequest {
		if item.IsMerged() {
			return "MERGED"
		}
		return "CLOSED"
	}
	return strings.ToUpper(item.State)
}
