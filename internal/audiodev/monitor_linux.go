//go:build linux

package audiodev

import (
	"context"
	"sync"

	"github.com/pilebones/go-udev/netlink"
	"github.com/rs/zerolog"
)

// Monitor listens for udev netlink events on the sound subsystem.
type Monitor struct {
	logger   zerolog.Logger
	onChange ChangeFunc

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	running bool
}

// NewMonitor creates a monitor that calls onChange for each sound device
// add, remove or change.
func NewMonitor(logger zerolog.Logger, onChange ChangeFunc) *Monitor {
	return &Monitor{
		logger:   logger.With().Str("component", "audiodev").Logger(),
		onChange: onChange,
	}
}

// Start connects to the netlink socket and begins monitoring. A connection
// failure is logged and reported as nil; hotplug is then simply unavailable.
func (m *Monitor) Start(ctx context.Context) error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		m.logger.Warn().Err(err).Msg("netlink unavailable; audio device hotplug disabled")
		return nil
	}

	m.conn = conn
	m.quit = make(chan struct{})
	m.running = true

	quit := m.quit
	go m.loop(ctx, conn, quit)

	m.logger.Debug().Msg("audio device monitor started")
	return nil
}

// Stop shuts the monitor down. Safe to call more than once.
func (m *Monitor) Stop() {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	close(m.quit)
	m.quit = nil
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
	m.running = false
}

// Running reports whether the monitor is active.
func (m *Monitor) Running() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Monitor) loop(ctx context.Context, conn *netlink.UEventConn, quit <-chan struct{}) {
	queue := make(chan netlink.UEvent)
	errs := make(chan error)
	monitorQuit := conn.Monitor(queue, errs, buildMatcher())

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case ev := <-queue:
			m.handleEvent(ev)
		case err := <-errs:
			m.logger.Warn().Err(err).Msg("netlink monitor error")
		}
	}
}

func buildMatcher() netlink.Matcher {
	action := "add|remove|change"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "sound",
		},
	})
	return rules
}

func (m *Monitor) handleEvent(ev netlink.UEvent) {
	change := Change{Action: string(ev.Action), Device: deviceFromEnv(ev.Env)}
	m.logger.Debug().Str("action", change.Action).Str("device", change.Device).Msg("sound device event")
	if m.onChange != nil {
		m.onChange(change)
	}
}
