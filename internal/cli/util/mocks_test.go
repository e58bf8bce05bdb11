package util

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/cobra"

	"github.com/squadready/squadready/internal/build"
	"github.com/squadready/squadready/internal/cli/shared"
	"github.com/squadready/squadready/internal/testutil"
	"github.com/squadready/squadready/internal/update"
)

// executeRoot runs args against a fresh root carrying the global flags and
// returns stdout.
func executeRoot(args ...string) (string, error) {
	root := &cobra.Command{Use: "squadready", SilenceUsage: true, SilenceErrors: true}
	shared.AddGroups(root)
	shared.AddPersistentFlags(root)
	Register(root)
	return testutil.ExecuteCommand(root, args...)
}

// withReleaseServer points newChecker at a server answering every request
// with status and body, and sets the running version. It restores both when
// the test ends; callers cannot run in parallel.
func withReleaseServer(t *testing.T, version string, status int, body string) *[]string {
	t.Helper()

	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	origChecker, origVersion := newChecker, build.Version
	newChecker = func() *update.Checker {
		c := update.NewChecker(checkUpdateTimeout)
		c.SetAPIBase(srv.URL)
		return c
	}
	build.Version = version
	t.Cleanup(func() {
		newChecker = origChecker
		build.Version = origVersion
	})
	return &paths
}
