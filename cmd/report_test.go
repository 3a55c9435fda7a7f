package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/Attamusc/activity-report-cli/internal/activity"
	"github.com/Attamusc/activity-report-cli/internal/config"
	"github.com/Attamusc/activity-report-cli/internal/daterange"
	"github.com/Attamusc/activity-report-cli/internal/format"
	"github.com/Attamusc/activity-report-cli/internal/ghcli"
	"github.com/Attamusc/activity-report-cli/internal/github"
)

// stubSource serves canned items keyed by repository or user
type stubSource struct {
	authErr  error
	login    string
	userErr  error
	listed   map[string][]activity.Item
	listErr  map[string]error
	searched []activity.Item
	calls    []string
}

func (s *stubSource) CheckAuth(ctx context.Context) error {
	s.calls = append(s.calls, "auth")
	return s.authErr
}

func (s *stubSource) CurrentUser(ctx context.Context) (string, error) {
	s.calls = append(s.calls, "user")
	return s.login, s.userErr
}

func (s *stubSource) ListClosed(ctx context.Context, repo string, kind activity.Kind, limit int) ([]activity.Item, error) {
	s.calls = append(s.calls, "list "+repo)
	if err := s.listErr[repo]; err != nil {
		return nil, err
	}
	return activity.OfKind(s.listed[repo], kind), nil
}

func (s *stubSource) SearchAuthored(ctx context.Context, login string, kind activity.Kind, limit int) ([]activity.Item, error) {
	s.calls = append(s.calls, "search "+login)
	return activity.OfKind(s.searched, kind), nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGenerateMonthly(t *testing.T) {
	r, err := daterange.Month("2026-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	closed := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	src := &stubSource{
		listed: map[string][]activity.Item{
			"steinwurf/kodo": {
				{Number: 5, Title: "Speed up encoder", URL: "https://github.com/steinwurf/kodo/pull/5", Kind: activity.PullRequest, ClosedAt: &closed, MergedAt: &closed, Repository: "steinwurf/kodo"},
			},
		},
		listErr: map[string]error{"steinwurf/gone": errors.New("could not resolve repository")},
	}
	cfg := &config.Config{Repositories: []string{"steinwurf/gone", "steinwurf/kodo"}, Layout: config.LayoutSplit}

	var out bytes.Buffer
	if err := generateMonthly(context.Background(), &out, src, cfg, r, quietLogger()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"GitHub Activity Report - February 2026",
		"Total Repositories: 2",
		"Total Closed Pull Requests: 1",
		"steinwurf/gone (Pull Requests): could not resolve repository",
		"#5: Speed up encoder [MERGED]",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	if src.calls[0] != "auth" {
		t.Errorf("expected preflight before fetching, got %v", src.calls)
	}
}

func TestGenerateMonthly_PreflightFailureIsFatal(t *testing.T) {
	r, _ := daterange.Month("2026-02")
	src := &stubSource{authErr: errors.New("exit status 1")}
	cfg := &config.Config{Repositories: []string{"steinwurf/kodo"}}

	var out bytes.Buffer
	err := generateMonthly(context.Background(), &out, src, cfg, r, quietLogger())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "gh auth login") {
		t.Errorf("expected install hint, got %v", err)
	}
	if len(src.calls) != 1 {
		t.Errorf("expected no queries after failed preflight, got %v", src.calls)
	}
	if out.Len() != 0 {
		t.Errorf("expected no report output, got %q", out.String())
	}
}

func TestPreflightHintFollowsBackend(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		want    string
		notWant string
	}{
		{name: "gh backend", backend: config.BackendGH, want: "gh auth login", notWant: "GITHUB_TOKEN"},
		{name: "api backend", backend: config.BackendAPI, want: "GITHUB_TOKEN", notWant: "To install gh CLI"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := daterange.WeekOf("2026-01-07")
			src := &stubSource{authErr: errors.New("401 Bad credentials")}
			cfg := &config.Config{Backend: tt.backend}

			var out bytes.Buffer
			err := generateWeekly(context.Background(), &out, src, cfg, "octocat", r, quietLogger())
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected hint containing %q, got %v", tt.want, err)
			}
			if strings.Contains(err.Error(), tt.notWant) {
				t.Errorf("did not expect %q in %v", tt.notWant, err)
			}
			if !strings.Contains(err.Error(), "401 Bad credentials") {
				t.Errorf("expected underlying error to be kept, got %v", err)
			}
		})
	}
}

func TestGenerateWeekly_ResolvesCurrentUser(t *testing.T) {
	r, _ := daterange.WeekOf("2026-01-07")
	created := time.Date(2026, 1, 6, 9, 0, 0, 0, time.UTC)
	src := &stubSource{
		login: "octocat",
		searched: []activity.Item{
			{Number: 42, Title: "Faster decoder", State: "open", CreatedAt: created, Repository: "acme/kodo", Kind: activity.PullRequest},
		},
	}
	cfg := &config.Config{Layout: config.LayoutGrouped}

	var out bytes.Buffer
	if err := generateWeekly(context.Background(), &out, src, cfg, "", r, quietLogger()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"GitHub Weekly Activity Report - octocat",
		"Week: 2026-01-05 to 2026-01-11",
		"[PR] #42: Faster decoder [OPEN]",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	expectedCalls := []string{"auth", "user", "search octocat", "search octocat"}
	if strings.Join(src.calls, ",") != strings.Join(expectedCalls, ",") {
		t.Errorf("expected calls %v, got %v", expectedCalls, src.calls)
	}
}

func TestGenerateWeekly_ExplicitUserSkipsLookup(t *testing.T) {
	r, _ := daterange.WeekOf("2026-01-07")
	src := &stubSource{}

	var out bytes.Buffer
	if err := generateWeekly(context.Background(), &out, src, &config.Config{}, "hubot", r, quietLogger()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, call := range src.calls {
		if call == "user" {
			t.Error("did not expect current user lookup")
		}
	}
	if !strings.Contains(out.String(), "No activity found for this week.") {
		t.Errorf("expected empty-state message:\n%s", out.String())
	}
}

func TestGenerateWeekly_CurrentUserFailure(t *testing.T) {
	r, _ := daterange.WeekOf("2026-01-07")
	src := &stubSource{userErr: errors.New("failed to fetch current user")}

	var out bytes.Buffer
	if err := generateWeekly(context.Background(), &out, src, &config.Config{}, "", r, quietLogger()); err == nil {
		t.Fatal("expected error")
	}
	if out.Len() != 0 {
		t.Errorf("expected no report output, got %q", out.String())
	}
}

func TestRenderOptions(t *testing.T) {
	opts := renderOptions(&config.Config{Layout: config.LayoutGrouped, CycleTime: true})
	if opts.Layout != format.LayoutGrouped || !opts.CycleTime {
		t.Errorf("unexpected options: %+v", opts)
	}

	if opts := renderOptions(&config.Config{Layout: config.LayoutSplit}); opts.Layout != format.LayoutSplit {
		t.Errorf("expected split layout, got %+v", opts)
	}
}

func TestNewSource(t *testing.T) {
	src, err := newSource(&config.Config{Backend: config.BackendGH}, quietLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := src.(*ghcli.Client); !ok {
		t.Errorf("expected *ghcli.Client, got %T", src)
	}

	src, err = newSource(&config.Config{Backend: config.BackendAPI, GitHubToken: "test-token"}, quietLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := src.(*github.Client); !ok {
		t.Errorf("expected *github.Client, got %T", src)
	}
}
