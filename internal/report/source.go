// Package report builds monthly and weekly activity reports by querying a Source
// sequentially and filtering the results client-side.
package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/Attamusc/activity-report-cli/internal/activity"
)

const (
	// ListLimit caps list-by-repository queries
	ListLimit = 1000
	// SearchLimit caps search-by-author queries
	SearchLimit = 100
)

// ErrNotAuthenticated is returned by Preflight when the hosting client cannot be used
var ErrNotAuthenticated = errors.New("GitHub client is not installed or not authenticated")

// Source is the external hosting client the reports are built from.
// Implementations may shell out to a CLI or talk to the HTTP API directly.
type Source interface {
	// CheckAuth verifies the client is present and authenticated
	CheckAuth(ctx context.Context) error
	// CurrentUser resolves the login of the authenticated identity
	CurrentUser(ctx context.Context) (string, error)
	// ListClosed lists closed items of one kind in a repository (owner/name)
	ListClosed(ctx context.Context, repo string, kind activity.Kind, limit int) ([]activity.Item, error)
	// SearchAuthored searches items of one kind authored by user across all repositories
	SearchAuthored(ctx context.Context, user string, kind activity.Kind, limit int) ([]activity.Item, error)
}

// QueryResult is the outcome of one external query.
// A failed query carries Err and no items; it does not abort the report.
type QueryResult struct {
	Query string // repository or username the query targeted
	Kind  activity.Kind
	Items []activity.Item
	Err   error
}

// Failed reports whether the query failed
func (q QueryResult) Failed() bool {
	return q.Err != nil
}

// Describe returns a one-line description of the query for messages
func (q QueryResult) Describe() string {
	return fmt.Sprintf("%s (%s)", q.Query, q.Kind.Plural())
}

// Preflight runs the single environment check before any fetching
func Preflight(ctx context.Context, src Source) error {
	if err := src.CheckAuth(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
	}
	return nil
}
