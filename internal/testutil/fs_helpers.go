// Package testutil provides test helpers shared by squadready packages.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteFile writes content to a file, creating parent directories if needed.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadFile reads file content, failing the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file %s: %v", path, err)
	}

	return string(content)
}

// settingsEnvPrefix matches config.EnvPrefix. It is repeated here so that
// testutil does not import the packages it helps test.
const settingsEnvPrefix = "SQUADREADY_"

// ClearSettingsEnv unsets every SQUADREADY_* variable for the duration of the
// test so a developer's shell cannot override settings under test. Tests that
// call it cannot run in parallel.
func ClearSettingsEnv(t *testing.T) {
	t.Helper()

	for _, kv := range os.Environ() {
		key, _, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, settingsEnvPrefix) {
			continue
		}
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}
