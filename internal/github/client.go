package github

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/cli/go-gh/v2/pkg/auth"
	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

const (
	userAgent         = "activity-report-cli/1.0"
	defaultHost       = "github.com"
	requestTimeoutSec = 30 // 30 second timeout per request
)

// ErrNoToken is returned when neither GITHUB_TOKEN nor a gh login provides a token
var ErrNoToken = errors.New("no GitHub token: set GITHUB_TOKEN or run `gh auth login`")

// ResolveToken returns token if set, otherwise the token gh has stored for github.com.
// Authentication stays with gh; this client only reuses its credentials.
func ResolveToken(token string) (string, error) {
	if token != "" {
		return token, nil
	}
	if stored, _ := auth.TokenForHost(defaultHost); stored != "" {
		return stored, nil
	}
	return "", ErrNoToken
}

// NewAPIClient creates a go-github client with OAuth2 authentication and a request timeout
func NewAPIClient(token string) *github.Client {
	// Create OAuth2 token source
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})

	httpClient := &http.Client{
		Timeout: requestTimeoutSec * time.Second,
		Transport: &oauth2.Transport{
			Source: ts,
			Base:   http.DefaultTransport,
		},
	}

	client := github.NewClient(httpClient)
	client.UserAgent = userAgent

	return client
}

// Client implements the report source against the GitHub REST API
type Client struct {
	api    *github.Client
	logger *slog.Logger
}

// New wraps an API client. A nil logger falls back to slog.Default().
func New(api *github.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{api: api, logger: logger}
}

// NewFromToken builds the API client for token and wraps it
func NewFromToken(token string, logger *slog.Logger) (*Client, error) {
	resolved, err := ResolveToken(token)
	if err != nil {
		return nil, err
	}
	return New(NewAPIClient(resolved), logger), nil
}
