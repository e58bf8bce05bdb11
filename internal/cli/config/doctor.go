package config

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/squadready/squadready/internal/audiodev"
	"github.com/squadready/squadready/internal/cli/shared"
	"github.com/squadready/squadready/internal/health"
	"github.com/squadready/squadready/internal/host"
	"github.com/squadready/squadready/internal/notify"
)

// Collaborators for doctor; tests substitute fakes.
var (
	newSender   = notify.NewSender
	listDevices = audiodev.List
	probeHost   = host.Probe
)

var doctorCmd = &cobra.Command{
	Use:     "doctor",
	Aliases: []string{"doc"},
	Short:   "Check settings, sound output and the host bridge (doc)",
	Long: `Run health checks for everything squadready needs at runtime.

This command checks:
  - the settings file loads and validates
  - a sound player is installed
  - desktop notifications are available (when flash_window is on)
  - custom sound files exist and have a supported format
  - the configured audio output device is connected
  - the host bridge accepts connections (skip with --offline)

Problems that only degrade notifications are shown as warnings; the command
fails only when squadready cannot run.`,
	Example: `  squadready doctor
  squadready doctor --offline && squadready run`,
	Args: shared.ExactArgs(0),
	RunE: runDoctor,
}

func init() {
	doctorCmd.GroupID = shared.GroupConfiguration
	doctorCmd.Flags().Bool("offline", false, "Skip the host bridge check")
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	settings, _, loadErr := shared.LoadSettings(cmd)
	deps := health.Deps{
		Settings:    settings,
		SettingsErr: loadErr,
		Sender:      newSender(),
		ListDevices: listDevices,
		Probe:       probeHost,
	}
	if offline, _ := cmd.Flags().GetBool("offline"); offline {
		deps.Probe = nil
	}

	report := health.RunHealthChecks(cmd.Context(), deps)
	fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(report))
	if !report.Passed {
		if loadErr != nil {
			return shared.ConfigError(errors.New("health checks failed"))
		}
		return errors.New("health checks failed")
	}
	return nil
}
