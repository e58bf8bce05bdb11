//go:build linux

package audiodev

import (
	"context"
	"fmt"
	"os/exec"
)

// List returns the PulseAudio/PipeWire output sinks.
func List(ctx context.Context) ([]Device, error) {
	if _, err := exec.LookPath("pactl"); err != nil {
		return nil, fmt.Errorf("pactl not found: %w", err)
	}
	out, err := exec.CommandContext(ctx, "pactl", "list", "short", "sinks").Output()
	if err != nil {
		return nil, fmt.Errorf("listing sinks: %w", err)
	}
	return ParseSinks(string(out)), nil
}
