// Package config loads, normalizes, validates and persists squadready settings.
//
// Settings are a single flat record. Values are layered with koanf in this
// order (later wins): built-in defaults, the JSON settings file, then
// SQUADREADY_* environment variables. The result is normalized (volumes and
// the nag interval are clamped) and validated with go-playground/validator.
//
// Save writes the record back as pretty JSON under an advisory file lock so a
// running daemon and a `config set` invocation never interleave writes.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	koanfjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment overrides (SQUADREADY_FLASH_WINDOW).
const EnvPrefix = "SQUADREADY_"

// SettingsVersion is the current on-disk settings schema version.
const SettingsVersion = 1

// Settings is the flat configuration record shared by the tracker, the
// notifier and the daemon.
type Settings struct {
	Version int `koanf:"version" json:"version"`

	// ReadyCheckPath is a custom sound for ready-check start and nags.
	// Empty selects the platform default sound.
	ReadyCheckPath string `koanf:"ready_check_path" json:"ready_check_path"`
	// SquadReadyPath is a custom sound for ready-check completion.
	SquadReadyPath string `koanf:"squad_ready_path" json:"squad_ready_path"`

	ReadyCheckVolume int `koanf:"ready_check_volume" json:"ready_check_volume" validate:"min=0,max=100"`
	SquadReadyVolume int `koanf:"squad_ready_volume" json:"squad_ready_volume" validate:"min=0,max=100"`

	FlashWindow bool `koanf:"flash_window" json:"flash_window"`

	ReadyCheckNag                bool    `koanf:"ready_check_nag" json:"ready_check_nag"`
	ReadyCheckNagIntervalSeconds float64 `koanf:"ready_check_nag_interval_seconds" json:"ready_check_nag_interval_seconds" validate:"gte=0"`

	// AudioOutputDevice names the output sink; empty means system default.
	AudioOutputDevice string `koanf:"audio_output_device" json:"audio_output_device"`

	CheckForUpdates    bool `koanf:"check_for_updates" json:"check_for_updates"`
	IncludePrereleases bool `koanf:"include_prereleases" json:"include_prereleases"`

	HostURL           string `koanf:"host_url" json:"host_url" validate:"required,url"`
	PollIntervalMs    int    `koanf:"poll_interval_ms" json:"poll_interval_ms" validate:"min=10,max=1000"`
	StateDir          string `koanf:"state_dir" json:"state_dir" validate:"required"`
	HistoryMaxEntries int    `koanf:"history_max_entries" json:"history_max_entries" validate:"min=0"`

	LogLevel  string `koanf:"log_level" json:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `koanf:"log_format" json:"log_format" validate:"oneof=console json"`
}

// NagInterval returns the nag interval as a duration, clamped to
// [0, math.MaxInt64] nanoseconds.
func (s *Settings) NagInterval() time.Duration {
	if s == nil || s.ReadyCheckNagIntervalSeconds <= 0 {
		return 0
	}
	if s.ReadyCheckNagIntervalSeconds >= math.MaxInt64/float64(time.Second) {
		return math.MaxInt64
	}
	return time.Duration(s.ReadyCheckNagIntervalSeconds * float64(time.Second))
}

// PollInterval returns the tick cadence.
func (s *Settings) PollInterval() time.Duration {
	if s == nil || s.PollIntervalMs <= 0 {
		return time.Duration(defaultPollIntervalMs) * time.Millisecond
	}
	return time.Duration(s.PollIntervalMs) * time.Millisecond
}

// Clone returns a copy safe to hand to another goroutine.
func (s *Settings) Clone() *Settings {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// DefaultPath returns the default settings file location.
// Location: $XDG_CONFIG_HOME/squadready/settings.json or ~/.config/squadready/settings.json
func DefaultPath() (string, error) {
	if base := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); base != "" {
		return filepath.Join(base, "squadready", SettingsFileName), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "squadready", SettingsFileName), nil
}

// ResolvePath returns path, or the default path when path is empty.
func ResolvePath(path string) (string, error) {
	if strings.TrimSpace(path) != "" {
		return expandHomePath(path), nil
	}
	return DefaultPath()
}

// Load reads settings from path (the default path when empty), applies
// environment overrides, normalizes and validates. A missing file is not an
// error; defaults are used.
func Load(path string) (*Settings, error) {
	resolved, err := ResolvePath(path)
	if err != nil {
		return nil, err
	}
	k, err := loadLayers(resolved, true)
	if err != nil {
		return nil, err
	}
	return decode(k)
}

// loadLayers builds the koanf instance: defaults, file, optionally env.
func loadLayers(path string, withEnv bool) (*koanf.Koanf, error) {
	k := koanf.New(".")

	for key, value := range GetDefaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("applying default %s: %w", key, err)
		}
	}

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), koanfjson.Parser()); err != nil {
			return nil, fmt.Errorf("loading settings file %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("checking settings file %s: %w", path, err)
	}

	if withEnv {
		if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
			return nil, fmt.Errorf("loading environment overrides: %w", err)
		}
	}
	return k, nil
}

func decode(k *koanf.Koanf) (*Settings, error) {
	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, fmt.Errorf("unmarshaling settings: %w", err)
	}
	s.normalize()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks struct constraints.
func (s *Settings) Validate() error {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("settings validation failed: %w", err)
	}
	return nil
}

// Save writes settings to path (the default path when empty).
func Save(path string, s *Settings) error {
	resolved, err := ResolvePath(path)
	if err != nil {
		return err
	}
	content, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	content = append(content, '\n')
	if err := writeLocked(resolved, content); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

// envTransform converts environment variable names to settings keys.
// Example: SQUADREADY_READY_CHECK_NAG -> ready_check_nag
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// expandHomePath expands ~ to the user's home directory.
func expandHomePath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return path
}
