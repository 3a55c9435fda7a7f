package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-github/v66/github"

	"github.com/Attamusc/activity-report-cli/internal/activity"
)

// newTestClient points a Client at an httptest server
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	api := github.NewClient(server.Client())
	baseURL, _ := url.Parse(server.URL + "/")
	api.BaseURL = baseURL

	return New(api, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func ts(t time.Time) *github.Timestamp {
	return &github.Timestamp{Time: t}
}

func TestCurrentUser(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user" {
			t.Errorf("unexpected path: %s", r.URL.Path)
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		writeJSON(w, github.User{Login: github.String("octocat")})
	})

	login, err := client.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if login != "octocat" {
		t.Errorf("expected octocat, got %q", login)
	}
}

func TestCheckAuth_Unauthorized(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		writeJSON(w, map[string]string{"message": "Bad credentials"})
	})

	err := client.CheckAuth(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "authentication failed") {
		t.Errorf("expected authentication error, got %v", err)
	}
}

func TestListClosed_PullRequests(t *testing.T) {
	closed := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/acme/api/pulls" {
			t.Errorf("unexpected path: %s", r.URL.Path)
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if got := r.URL.Query().Get("state"); got != "closed" {
			t.Errorf("expected state=closed, got %q", got)
		}

		writeJSON(w, []github.PullRequest{
			{
				Number:    github.Int(12),
				Title:     github.String("Add retries"),
				HTMLURL:   github.String("https://github.com/acme/api/pull/12"),
				State:     github.String("closed"),
				CreatedAt: ts(closed.AddDate(0, 0, -2)),
				ClosedAt:  ts(closed),
				MergedAt:  ts(closed),
			},
			{
				Number:    github.Int(11),
				Title:     github.String("Drop v1"),
				HTMLURL:   github.String("https://github.com/acme/api/pull/11"),
				State:     github.String("closed"),
				CreatedAt: ts(closed.AddDate(0, 0, -9)),
				ClosedAt:  ts(closed),
			},
		})
	})

	items, err := client.ListClosed(context.Background(), "acme/api", activity.PullRequest, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	if items[0].Repository != "acme/api" || items[0].Kind != activity.PullRequest {
		t.Errorf("unexpected item: %+v", items[0])
	}
	if !items[0].IsMerged() {
		t.Error("expected #12 to be merged")
	}
	if items[1].IsMerged() {
		t.Error("expected #11 to be unmerged")
	}
	if items[1].ClosedAt == nil || !items[1].ClosedAt.Equal(closed) {
		t.Errorf("expected closedAt %v, got %v", closed, items[1].ClosedAt)
	}
}

func TestListClosed_IssuesSkipPullRequests(t *testing.T) {
	closed := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/acme/api/issues" {
			t.Errorf("unexpected path: %s", r.URL.Path)
			http.Error(w, "not found", http.StatusNotFound)
			return
		}

		writeJSON(w, []github.Issue{
			{
				Number:   github.Int(3),
				Title:    github.String("Crash on start"),
				State:    github.String("closed"),
				ClosedAt: ts(closed),
			},
			{
				Number:           github.Int(4),
				Title:            github.String("A pull request"),
				State:            github.String("closed"),
				ClosedAt:         ts(closed),
				PullRequestLinks: &github.PullRequestLinks{URL: github.String("https://api.github.com/repos/acme/api/pulls/4")},
			},
		})
	})

	items, err := client.ListClosed(context.Background(), "acme/api", activity.Issue, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Number != 3 || items[0].Kind != activity.Issue {
		t.Errorf("unexpected items: %+v", items)
	}
}

func TestListClosed_StopsAtLimit(t *testing.T) {
	var requests int
	var serverURL string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		page := r.URL.Query().Get("page")

		var prs []github.PullRequest
		for i := 0; i < 3; i++ {
			prs = append(prs, github.PullRequest{Number: github.Int(requests*10 + i)})
		}

		if page == "" || page == "1" {
			w.Header().Set("Link", fmt.Sprintf(`<%s/repos/acme/api/pulls?page=2>; rel="next"`, serverURL))
		}
		writeJSON(w, prs)
	})
	serverURL = strings.TrimSuffix(client.api.BaseURL.String(), "/")

	items, err := client.ListClosed(context.Background(), "acme/api", activity.PullRequest, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if requests != 2 {
		t.Errorf("expected 2 page requests, got %d", requests)
	}
	if len(items) != 5 {
		t.Errorf("expected items truncated to 5, got %d", len(items))
	}
}

func TestListClosed_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		writeJSON(w, map[string]string{"message": "Not Found"})
	})

	_, err := client.ListClosed(context.Background(), "acme/gone", activity.PullRequest, 1000)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "acme/gone") {
		t.Errorf("expected error to name the repository, got %v", err)
	}
}

func TestListClosed_InvalidRepository(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no request expected, got %s", r.URL.Path)
	})

	if _, err := client.ListClosed(context.Background(), "not-a-repo", activity.Issue, 1000); err == nil {
		t.Fatal("expected error for malformed repository")
	}
}

func TestSearchAuthored(t *testing.T) {
	created := time.Date(2026, 1, 6, 8, 0, 0, 0, time.UTC)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/issues" {
			t.Errorf("unexpected path: %s", r.URL.Path)
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if got := r.URL.Query().Get("q"); got != "author:octocat is:issue" {
			t.Errorf("unexpected query %q", got)
		}
		if got := r.URL.Query().Get("per_page"); got != "100" {
			t.Errorf("expected per_page=100, got %q", got)
		}

		writeJSON(w, github.IssuesSearchResult{
			Total: github.Int(1),
			Issues: []*github.Issue{
				{
					Number:        github.Int(5),
					Title:         github.String("Docs typo"),
					HTMLURL:       github.String("https://github.com/acme/docs/issues/5"),
					State:         github.String("open"),
					CreatedAt:     ts(created),
					RepositoryURL: github.String("https://api.github.com/repos/acme/docs"),
				},
			},
		})
	})

	items, err := client.SearchAuthored(context.Background(), "octocat", activity.Issue, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Repository != "acme/docs" {
		t.Errorf("expected acme/docs, got %q", items[0].Repository)
	}
	if items[0].ClosedAt != nil {
		t.Errorf("expected open item, got closedAt %v", items[0].ClosedAt)
	}
	if !items[0].CreatedAt.Equal(created) {
		t.Errorf("expected createdAt %v, got %v", created, items[0].CreatedAt)
	}
}

func TestRepoFromAPIURL(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "https://api.github.com/repos/acme/docs", want: "acme/docs"},
		{input: "https://ghe.example.com/api/v3/repos/team/tool", want: "team/tool"},
		{input: "https://api.github.com/users/acme", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := repoFromAPIURL(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestResolveToken(t *testing.T) {
	token, err := ResolveToken("explicit")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "explicit" {
		t.Errorf("expected explicit token, got %q", token)
	}
}
