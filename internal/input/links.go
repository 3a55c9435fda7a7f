package input

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"
)

// RepoRef identifies a GitHub repository
type RepoRef struct {
	Owner string
	Name  string
}

// String returns the owner/name form of the reference
func (ref RepoRef) String() string {
	return fmt.Sprintf("%s/%s", ref.Owner, ref.Name)
}

// segmentRegex matches a single owner or repository name segment
var segmentRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// ParseRepo accepts "owner/name" or a https://github.com/owner/name[/...] URL
func ParseRepo(raw string) (RepoRef, error) {
	value := strings.TrimSpace(raw)

	if strings.HasPrefix(value, "https://") || strings.HasPrefix(value, "http://") {
		parsedURL, err := url.Parse(value)
		if err != nil {
			return RepoRef{}, fmt.Errorf("invalid URL format: %s", raw)
		}
		if parsedURL.Host != "github.com" && parsedURL.Host != "www.github.com" {
			return RepoRef{}, fmt.Errorf("invalid GitHub repository URL: %s", raw)
		}

		parts := strings.Split(strings.Trim(parsedURL.Path, "/"), "/")
		if len(parts) < 2 {
			return RepoRef{}, fmt.Errorf("invalid GitHub repository URL: %s", raw)
		}
		value = parts[0] + "/" + strings.TrimSuffix(parts[1], ".git")
	}

	parts := strings.Split(value, "/")
	if len(parts) != 2 || !segmentRegex.MatchString(parts[0]) || !segmentRegex.MatchString(parts[1]) {
		return RepoRef{}, fmt.Errorf("invalid repository %q, expected owner/name", raw)
	}

	return RepoRef{Owner: parts[0], Name: parts[1]}, nil
}

// ParseRepos parses each entry with ParseRepo and drops duplicates, keeping first-seen order.
// Duplicates are detected case-insensitively since GitHub names are case-insensitive.
func ParseRepos(entries []string) ([]string, error) {
	var repos []string
	seen := make(map[string]bool)

	for _, entry := range entries {
		if strings.TrimSpace(entry) == "" {
			continue
		}

		ref, err := ParseRepo(entry)
		if err != nil {
			return nil, err
		}

		key := strings.ToLower(ref.String())
		if seen[key] {
			continue
		}
		seen[key] = true
		repos = append(repos, ref.String())
	}

	return repos, nil
}

// ParseRepoList reads one repository per line and drops duplicates, keeping first-seen order.
// Blank lines and lines starting with '#' are skipped; trailing "# ..." comments are stripped.
func ParseRepoList(r io.Reader) ([]RepoRef, error) {
	var refs []RepoRef
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)

		// Skip empty lines and comments
		if line == "" {
			continue
		}

		ref, err := ParseRepo(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		key := strings.ToLower(ref.String())
		if seen[key] {
			continue
		}
		seen[key] = true
		refs = append(refs, ref)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	return refs, nil
}
