package config

const (
	// SettingsFileName is the settings file name inside the config directory.
	SettingsFileName = "settings.json"

	defaultVolume             = 100
	defaultNagIntervalSeconds = 5.0
	defaultHostURL            = "ws://127.0.0.1:7410/squad"
	defaultPollIntervalMs     = 100
	defaultStateDir           = "~/.local/state/squadready"
	defaultHistoryMaxEntries  = 200
	defaultLogLevel           = "info"
	defaultLogFormat          = "console"
)

// GetDefaults returns the default settings values keyed by settings key.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"version":                          SettingsVersion,
		"ready_check_path":                 "",
		"squad_ready_path":                 "",
		"ready_check_volume":               defaultVolume,
		"squad_ready_volume":               defaultVolume,
		"flash_window":                     true,
		"ready_check_nag":                  false,
		"ready_check_nag_interval_seconds": defaultNagIntervalSeconds,
		"audio_output_device":              "",
		"check_for_updates":                true,
		"include_prereleases":              false,
		"host_url":                         defaultHostURL,
		"poll_interval_ms":                 defaultPollIntervalMs,
		"state_dir":                        defaultStateDir,
		"history_max_entries":              defaultHistoryMaxEntries,
		"log_level":                        defaultLogLevel,
		"log_format":                       defaultLogFormat,
	}
}

// Default returns normalized default settings.
func Default() *Settings {
	s := &Settings{
		Version:                      SettingsVersion,
		ReadyCheckVolume:             defaultVolume,
		SquadReadyVolume:             defaultVolume,
		FlashWindow:                  true,
		ReadyCheckNagIntervalSeconds: defaultNagIntervalSeconds,
		CheckForUpdates:              true,
		HostURL:                      defaultHostURL,
		PollIntervalMs:               defaultPollIntervalMs,
		StateDir:                     defaultStateDir,
		HistoryMaxEntries:            defaultHistoryMaxEntries,
		LogLevel:                     defaultLogLevel,
		LogFormat:                    defaultLogFormat,
	}
	s.normalize()
	return s
}
