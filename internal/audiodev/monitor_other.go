//go:build !linux

package audiodev

import (
	"context"

	"github.com/rs/zerolog"
)

// Monitor is a no-op outside linux.
type Monitor struct{}

// NewMonitor returns a monitor that never reports changes.
func NewMonitor(logger zerolog.Logger, onChange ChangeFunc) *Monitor {
	return &Monitor{}
}

// Start does nothing.
func (m *Monitor) Start(ctx context.Context) error { return nil }

// Stop does nothing.
func (m *Monitor) Stop() {}

// Running always reports false.
func (m *Monitor) Running() bool { return false }
