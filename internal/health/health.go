// Package health runs the environment checks behind `squadready doctor`.
package health

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/squadready/squadready/internal/audiodev"
	"github.com/squadready/squadready/internal/config"
	"github.com/squadready/squadready/internal/notify"
)

// probeTimeout bounds the host bridge dial.
const probeTimeout = 3 * time.Second

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
	// Warning marks a failed check that does not fail the report.
	Warning bool
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

// Deps are the collaborators the checks inspect.
type Deps struct {
	Settings    *config.Settings
	SettingsErr error
	Sender      notify.Sender
	ListDevices func(ctx context.Context) ([]audiodev.Device, error)
	// Probe dials the host bridge; nil skips the check.
	Probe func(ctx context.Context, url string, timeout time.Duration) error
}

// RunHealthChecks runs all health checks and returns a report
func RunHealthChecks(ctx context.Context, deps Deps) *HealthReport {
	report := &HealthReport{Passed: true}
	add := func(c CheckResult) {
		report.Checks = append(report.Checks, c)
		if !c.Passed && !c.Warning {
			report.Passed = false
		}
	}

	add(CheckSettings(deps.SettingsErr))
	settings := deps.Settings
	if settings == nil {
		settings = config.Default()
	}
	add(CheckSoundOutput(deps.Sender))
	add(CheckDesktopNotifications(deps.Sender, settings.FlashWindow))
	for _, c := range CheckSoundFiles(settings) {
		add(c)
	}
	if deps.ListDevices != nil {
		add(CheckAudioDevice(ctx, settings.AudioOutputDevice, deps.ListDevices))
	}
	if deps.Probe != nil {
		add(CheckHostBridge(ctx, settings.HostURL, deps.Probe))
	}
	return report
}

// CheckSettings reports whether the settings file loaded cleanly.
func CheckSettings(loadErr error) CheckResult {
	if loadErr != nil {
		return CheckResult{Name: "Settings", Message: loadErr.Error()}
	}
	return CheckResult{Name: "Settings", Passed: true, Message: "settings file is valid"}
}

// CheckSoundOutput checks that a sound player is installed.
func CheckSoundOutput(sender notify.Sender) CheckResult {
	if sender == nil || !sender.SoundAvailable() {
		return CheckResult{
			Name:    "Sound output",
			Message: fmt.Sprintf("no sound player found for %s", notify.Platform()),
		}
	}
	return CheckResult{Name: "Sound output", Passed: true, Message: "sound player found"}
}

// CheckDesktopNotifications checks the visual notifier. A missing notifier is
// a warning, and is skipped entirely when flash_window is off.
func CheckDesktopNotifications(sender notify.Sender, enabled bool) CheckResult {
	const name = "Desktop notifications"
	switch {
	case !enabled:
		return CheckResult{Name: name, Passed: true, Message: "disabled (flash_window is false)"}
	case sender == nil || !sender.VisualAvailable():
		return CheckResult{Name: name, Warning: true, Message: "no desktop notifier available"}
	default:
		return CheckResult{Name: name, Passed: true, Message: "desktop notifier found"}
	}
}

// CheckSoundFiles validates each configured custom sound. Unset paths use
// the platform default and are not reported.
func CheckSoundFiles(settings *config.Settings) []CheckResult {
	var results []CheckResult
	for _, f := range []struct{ key, path string }{
		{"ready_check_path", settings.ReadyCheckPath},
		{"squad_ready_path", settings.SquadReadyPath},
	} {
		if f.path == "" {
			continue
		}
		name := "Sound file " + f.key
		if err := notify.ValidateSoundFile(f.path); err != nil {
			results = append(results, CheckResult{
				Name:    name,
				Warning: true,
				Message: err.Error() + "; the default sound is used",
			})
			continue
		}
		results = append(results, CheckResult{Name: name, Passed: true, Message: f.path})
	}
	return results
}

// CheckAudioDevice checks that the configured output device is connected.
func CheckAudioDevice(ctx context.Context, configured string, list func(context.Context) ([]audiodev.Device, error)) CheckResult {
	const name = "Audio device"
	if configured == "" {
		return CheckResult{Name: name, Passed: true, Message: "system default"}
	}
	devices, err := list(ctx)
	if err != nil {
		return CheckResult{Name: name, Warning: true, Message: fmt.Sprintf("listing devices: %v", err)}
	}
	if audiodev.Resolve(configured, devices) == "" {
		return CheckResult{
			Name:    name,
			Warning: true,
			Message: fmt.Sprintf("%q is not connected (available: %s); the system default is used",
				configured, strings.Join(audiodev.Names(devices), ", ")),
		}
	}
	return CheckResult{Name: name, Passed: true, Message: configured}
}

// CheckHostBridge dials the host bridge once. The game may simply not be
// running, so an unreachable bridge is a warning.
func CheckHostBridge(ctx context.Context, url string, probe func(context.Context, string, time.Duration) error) CheckResult {
	const name = "Host bridge"
	if err := probe(ctx, url, probeTimeout); err != nil {
		return CheckResult{Name: name, Warning: true, Message: fmt.Sprintf("%s unreachable: %v", url, err)}
	}
	return CheckResult{Name: name, Passed: true, Message: url}
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var b strings.Builder
	for _, check := range report.Checks {
		switch {
		case check.Passed:
			fmt.Fprintf(&b, "✓ %s: %s\n", check.Name, check.Message)
		case check.Warning:
			fmt.Fprintf(&b, "! %s: %s\n", check.Name, check.Message)
		default:
			fmt.Fprintf(&b, "✗ %s: %s\n", check.Name, check.Message)
		}
	}
	return b.String()
}
