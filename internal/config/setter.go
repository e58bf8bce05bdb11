package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// SetValue sets a single key in the settings file at path.
// The value is coerced against KnownKeys, merged over defaults and the
// current file contents, validated, and the full record is saved. Environment
// overrides are not applied and never persisted.
func SetValue(path, key, value string) (*Settings, error) {
	parsed, err := ValidateValue(key, value)
	if err != nil {
		return nil, fmt.Errorf("validating value: %w", err)
	}
	resolved, err := ResolvePath(path)
	if err != nil {
		return nil, err
	}
	k, err := loadLayers(resolved, false)
	if err != nil {
		return nil, err
	}
	if err := k.Set(key, parsed.Parsed); err != nil {
		return nil, fmt.Errorf("setting %s: %w", key, err)
	}
	s, err := decode(k)
	if err != nil {
		return nil, err
	}
	if err := Save(resolved, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Init writes default settings to path unless the file already exists.
// Returns true when a file was created.
func Init(path string, force bool) (bool, error) {
	resolved, err := ResolvePath(path)
	if err != nil {
		return false, err
	}
	if !force {
		if _, err := os.Stat(resolved); err == nil {
			return false, nil
		}
	}
	if err := Save(resolved, Default()); err != nil {
		return false, err
	}
	return true, nil
}

// writeLocked writes content under an advisory lock on path+".lock".
func writeLocked(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking %s: %w", path, err)
	}
	defer lock.Unlock()
	return writeAtomically(path, content)
}

// writeAtomically writes content to a file atomically using a temporary file and rename.
func writeAtomically(path string, content []byte) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".settings-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()
	if _, err := tmpFile.Write(content); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing to temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	tmpPath = ""
	return nil
}
