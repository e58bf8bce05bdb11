package config

import (
	"strings"
)

// normalize trims and clamps values that have a safe interpretation instead
// of failing validation.
func (s *Settings) normalize() {
	if s.Version <= 0 {
		s.Version = SettingsVersion
	}
	s.ReadyCheckPath = strings.TrimSpace(s.ReadyCheckPath)
	s.SquadReadyPath = strings.TrimSpace(s.SquadReadyPath)
	s.ReadyCheckVolume = clampVolume(s.ReadyCheckVolume)
	s.SquadReadyVolume = clampVolume(s.SquadReadyVolume)
	if s.ReadyCheckNagIntervalSeconds < 0 {
		s.ReadyCheckNagIntervalSeconds = 0
	}
	s.AudioOutputDevice = strings.TrimSpace(s.AudioOutputDevice)
	s.HostURL = strings.TrimSpace(s.HostURL)
	if strings.TrimSpace(s.StateDir) == "" {
		s.StateDir = defaultStateDir
	}
	s.StateDir = expandHomePath(strings.TrimSpace(s.StateDir))
	if s.HistoryMaxEntries < 0 {
		s.HistoryMaxEntries = 0
	}

	s.LogLevel = strings.ToLower(strings.TrimSpace(s.LogLevel))
	switch s.LogLevel {
	case "":
		s.LogLevel = defaultLogLevel
	case "warning":
		s.LogLevel = "warn"
	}
	s.LogFormat = strings.ToLower(strings.TrimSpace(s.LogFormat))
	if s.LogFormat == "" {
		s.LogFormat = defaultLogFormat
	}
}

func clampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
