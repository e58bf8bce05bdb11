package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/squadready/squadready/internal/build"
)

const (
	// GitHubRepo is the repository releases are published to.
	GitHubRepo = "squadready/squadready"

	// GitHubAPIBase is the releases endpoint prefix.
	GitHubAPIBase = "https://api.github.com/repos/" + GitHubRepo

	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 5 * time.Second
)

// ReleaseInfo represents a GitHub release.
type ReleaseInfo struct {
	TagName     string    `json:"tag_name"`
	HTMLURL     string    `json:"html_url"`
	Draft       bool      `json:"draft"`
	Prerelease  bool      `json:"prerelease"`
	PublishedAt time.Time `json:"published_at"`
}

// UpdateCheck contains the result of an update check.
type UpdateCheck struct {
	CurrentVersion  string
	LatestVersion   string
	UpdateAvailable bool
	ReleaseURL      string
}

// Checker provides update checking functionality.
type Checker struct {
	httpClient *http.Client
	apiBase    string
	userAgent  string
}

// NewChecker creates a new update checker with the given timeout.
func NewChecker(timeout time.Duration) *Checker {
	if timeout == 0 {
		timeout = DefaultHTTPTimeout
	}
	return &Checker{
		httpClient: &http.Client{Timeout: timeout},
		apiBase:    GitHubAPIBase,
		userAgent:  build.UserAgent(),
	}
}

// SetAPIBase sets the releases API prefix. Intended for tests.
func (c *Checker) SetAPIBase(url string) {
	c.apiBase = url
}

// CheckForUpdate checks GitHub for a newer version. With includePrereleases
// the newest non-draft release is considered, otherwise only the latest
// stable release.
func (c *Checker) CheckForUpdate(ctx context.Context, currentVersion string, includePrereleases bool) (*UpdateCheck, error) {
	current, err := ParseVersion(currentVersion)
	if err != nil {
		return nil, fmt.Errorf("parsing current version: %w", err)
	}

	if current.IsDev() {
		return &UpdateCheck{
			CurrentVersion:  currentVersion,
			UpdateAvailable: false,
		}, nil
	}

	var release *ReleaseInfo
	if includePrereleases {
		release, err = c.fetchNewestRelease(ctx)
	} else {
		release, err = c.fetchLatestRelease(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching latest release: %w", err)
	}

	latest, err := ParseVersion(release.TagName)
	if err != nil {
		return nil, fmt.Errorf("parsing latest version: %w", err)
	}

	return &UpdateCheck{
		CurrentVersion:  currentVersion,
		LatestVersion:   release.TagName,
		UpdateAvailable: latest.IsNewerThan(current),
		ReleaseURL:      release.HTMLURL,
	}, nil
}

func (c *Checker) fetchLatestRelease(ctx context.Context) (*ReleaseInfo, error) {
	var release ReleaseInfo
	if err := c.getJSON(ctx, c.apiBase+"/releases/latest", &release); err != nil {
		return nil, err
	}
	return &release, nil
}

// fetchNewestRelease returns the first non-draft entry of /releases, which
// GitHub orders newest first.
func (c *Checker) fetchNewestRelease(ctx context.Context) (*ReleaseInfo, error) {
	var releases []ReleaseInfo
	if err := c.getJSON(ctx, c.apiBase+"/releases", &releases); err != nil {
		return nil, err
	}
	for i := range releases {
		if !releases[i].Draft {
			return &releases[i], nil
		}
	}
	return nil, fmt.Errorf("no releases found")
}

func (c *Checker) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusForbidden:
		return fmt.Errorf("rate limit exceeded")
	case http.StatusNotFound:
		return fmt.Errorf("no releases found")
	default:
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// AsyncCheckResult wraps an update check result for async operations.
type AsyncCheckResult struct {
	Check *UpdateCheck
	Error error
}

// CheckForUpdateAsync starts an update check in a goroutine and returns a channel for the result.
// The channel is closed after the result is sent.
func (c *Checker) CheckForUpdateAsync(ctx context.Context, currentVersion string, includePrereleases bool) <-chan AsyncCheckResult {
	resultChan := make(chan AsyncCheckResult, 1)
	go func() {
		defer close(resultChan)
		check, err := c.CheckForUpdate(ctx, currentVersion, includePrereleases)
		resultChan <- AsyncCheckResult{Check: check, Error: err}
	}()
	return resultChan
}
