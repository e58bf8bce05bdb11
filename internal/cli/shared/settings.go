package shared

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/squadready/squadready/internal/config"
	"github.com/squadready/squadready/internal/logging"
)

// Persistent flag names registered on the root command.
const (
	ConfigFlag  = "config"
	EnvFileFlag = "env-file"
	DebugFlag   = "debug"
	LogFileFlag = "log-file"
)

// AddPersistentFlags registers the global flags every command reads.
func AddPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP(ConfigFlag, "c", "", "Path to settings file (default ~/.config/squadready/settings.json)")
	cmd.PersistentFlags().String(EnvFileFlag, ".env", "Load environment overrides from this file when it exists")
	cmd.PersistentFlags().BoolP(DebugFlag, "d", false, "Enable debug logging")
	cmd.PersistentFlags().String(LogFileFlag, "", "Also write JSON logs to this file")
}

// SettingsPath resolves the --config flag, falling back to the default
// location.
func SettingsPath(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString(ConfigFlag)
	resolved, err := config.ResolvePath(path)
	if err != nil {
		return "", ConfigError(err)
	}
	return resolved, nil
}

// LoadEnvFile loads KEY=VALUE pairs from the --env-file flag (default .env)
// into the process environment. A missing file is not an error. Existing
// variables win.
func LoadEnvFile(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString(EnvFileFlag)
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return ConfigError(fmt.Errorf("loading %s: %w", path, err))
	}
	return nil
}

// LoadSettings loads the settings file named by --config with environment
// overrides applied.
func LoadSettings(cmd *cobra.Command) (*config.Settings, string, error) {
	if err := LoadEnvFile(cmd); err != nil {
		return nil, "", err
	}
	path, err := SettingsPath(cmd)
	if err != nil {
		return nil, "", err
	}
	settings, err := config.Load(path)
	if err != nil {
		return nil, path, ConfigError(err)
	}
	return settings, path, nil
}

// NewLogger builds the process logger from settings and the --debug and
// --log-file flags.
func NewLogger(cmd *cobra.Command, settings *config.Settings) (zerolog.Logger, io.Closer, error) {
	debug, _ := cmd.Flags().GetBool(DebugFlag)
	logFile, _ := cmd.Flags().GetString(LogFileFlag)

	opts := logging.Options{Debug: debug, File: logFile, Out: cmd.ErrOrStderr()}
	if settings != nil {
		opts.Level = settings.LogLevel
		opts.Format = settings.LogFormat
	}
	logger, closer, err := logging.New(opts)
	if err != nil {
		return zerolog.Nop(), closer, ConfigError(err)
	}
	return logger, closer, nil
}
