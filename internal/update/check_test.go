package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squadready/squadready/internal/build"
)

func TestChecker_CheckForUpdate(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		currentVersion     string
		includePrereleases bool
		wantPath           string
		responseCode       int
		responseBody       string
		wantAvailable      bool
		wantLatest         string
		wantURL            string
		wantErr            string
	}{
		"update available": {
			currentVersion: "v0.6.0",
			wantPath:       "/releases/latest",
			responseCode:   http.StatusOK,
			responseBody:   `{"tag_name": "v0.7.0", "html_url": "https://example.com/r/v0.7.0"}`,
			wantAvailable:  true,
			wantLatest:     "v0.7.0",
			wantURL:        "https://example.com/r/v0.7.0",
		},
		"already up to date": {
			currentVersion: "v0.7.0",
			wantPath:       "/releases/latest",
			responseCode:   http.StatusOK,
			responseBody:   `{"tag_name": "v0.7.0"}`,
			wantAvailable:  false,
			wantLatest:     "v0.7.0",
		},
		"current newer than latest": {
			currentVersion: "v0.8.0",
			wantPath:       "/releases/latest",
			responseCode:   http.StatusOK,
			responseBody:   `{"tag_name": "v0.7.0"}`,
			wantAvailable:  false,
			wantLatest:     "v0.7.0",
		},
		"prereleases use release list and skip drafts": {
			currentVersion:     "v1.0.0",
			includePrereleases: true,
			wantPath:           "/releases",
			responseCode:       http.StatusOK,
			responseBody: `[
				{"tag_name": "v1.2.0", "draft": true},
				{"tag_name": "v1.1.0-beta.2", "prerelease": true, "html_url": "https://example.com/r/beta"},
				{"tag_name": "v1.0.0"}
			]`,
			wantAvailable: true,
			wantLatest:    "v1.1.0-beta.2",
			wantURL:       "https://example.com/r/beta",
		},
		"prerelease list with only drafts": {
			currentVersion:     "v1.0.0",
			includePrereleases: true,
			wantPath:           "/releases",
			responseCode:       http.StatusOK,
			responseBody:       `[{"tag_name": "v1.2.0", "draft": true}]`,
			wantErr:            "no releases found",
		},
		"dev build skips check": {
			currentVersion: "dev",
			responseCode:   http.StatusOK,
			responseBody:   `{}`,
			wantAvailable:  false,
		},
		"rate limit error": {
			currentVersion: "v0.6.0",
			wantPath:       "/releases/latest",
			responseCode:   http.StatusForbidden,
			responseBody:   `{"message": "rate limit exceeded"}`,
			wantErr:        "rate limit exceeded",
		},
		"not found error": {
			currentVersion: "v0.6.0",
			wantPath:       "/releases/latest",
			responseCode:   http.StatusNotFound,
			responseBody:   `{"message": "not found"}`,
			wantErr:        "no releases found",
		},
		"server error": {
			currentVersion: "v0.6.0",
			wantPath:       "/releases/latest",
			responseCode:   http.StatusBadGateway,
			wantErr:        "unexpected status code: 502",
		},
		"bad tag": {
			currentVersion: "v0.6.0",
			wantPath:       "/releases/latest",
			responseCode:   http.StatusOK,
			responseBody:   `{"tag_name": "nightly"}`,
			wantErr:        "parsing latest version",
		},
		"invalid current version": {
			currentVersion: "banana",
			wantErr:        "parsing current version",
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "application/vnd.github.v3+json", r.Header.Get("Accept"))
				assert.Equal(t, build.UserAgent(), r.Header.Get("User-Agent"))
				if tt.wantPath != "" {
					assert.Equal(t, tt.wantPath, r.URL.Path)
				}
				w.WriteHeader(tt.responseCode)
				_, _ = w.Write([]byte(tt.responseBody))
			}))
			defer server.Close()

			checker := NewChecker(5 * time.Second)
			checker.SetAPIBase(server.URL)

			result, err := checker.CheckForUpdate(context.Background(), tt.currentVersion, tt.includePrereleases)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.currentVersion, result.CurrentVersion)
			assert.Equal(t, tt.wantAvailable, result.UpdateAvailable)
			assert.Equal(t, tt.wantLatest, result.LatestVersion)
			assert.Equal(t, tt.wantURL, result.ReleaseURL)
		})
	}
}

func TestChecker_Timeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"tag_name": "v0.7.0"}`))
	}))
	defer server.Close()

	checker := NewChecker(10 * time.Millisecond)
	checker.SetAPIBase(server.URL)

	_, err := checker.CheckForUpdate(context.Background(), "v0.6.0", false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "executing request")
}

func TestChecker_ContextCancellation(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"tag_name": "v0.7.0"}`))
	}))
	defer server.Close()

	checker := NewChecker(5 * time.Second)
	checker.SetAPIBase(server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := checker.CheckForUpdate(ctx, "v0.6.0", false)
	assert.Error(t, err)
}

func TestChecker_CheckForUpdateAsync(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"tag_name": "v0.9.0"}`))
	}))
	defer server.Close()

	checker := NewChecker(0)
	checker.SetAPIBase(server.URL)

	result, ok := <-checker.CheckForUpdateAsync(context.Background(), "v0.8.0", false)
	require.True(t, ok)
	require.NoError(t, result.Error)
	assert.True(t, result.Check.UpdateAvailable)

	_, ok = <-checker.CheckForUpdateAsync(context.Background(), "dev", false)
	assert.True(t, ok)
}
