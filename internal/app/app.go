// Package app owns the running squadready instance: settings, the squad
// tracker, the notification player and the history recorder. Host callbacks
// and poll ticks are serialized through one mutex.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/squadready/squadready/internal/audiodev"
	"github.com/squadready/squadready/internal/config"
	"github.com/squadready/squadready/internal/host"
	"github.com/squadready/squadready/internal/logging"
	"github.com/squadready/squadready/internal/roster"
	"github.com/squadready/squadready/internal/tracker"
)

// ErrSourceAborted is returned by Run when the event source panicked.
var ErrSourceAborted = errors.New("event source aborted")

// Player is the part of notify.Player the App drives directly.
type Player interface {
	SetDevice(device string) bool
	Terminate(ctx context.Context) error
}

// DeviceLister enumerates audio outputs.
type DeviceLister func(ctx context.Context) ([]audiodev.Device, error)

// App is the application context. The zero value is not usable; use New.
type App struct {
	mu       sync.Mutex
	settings *config.Settings
	tracker  *tracker.Tracker
	self     string
	released bool
	// pollChanged wakes Run when a reload changes the poll interval.
	pollChanged chan struct{}

	notifier     tracker.Notifier
	observer     tracker.Observer
	player       Player
	listDevices  DeviceLister
	clock        clockwork.Clock
	logger       zerolog.Logger
}

// Option configures an App.
type Option func(*App)

// WithNotifier sets the notifier handed to the tracker.
func WithNotifier(n tracker.Notifier) Option {
	return func(a *App) {
		if n != nil {
			a.notifier = n
		}
	}
}

// WithObserver sets the ready-check lifecycle observer.
func WithObserver(obs tracker.Observer) Option {
	return func(a *App) {
		a.observer = obs
	}
}

// WithPlayer sets the player terminated on Release and re-pointed on device
// hotplug.
func WithPlayer(p Player) Option {
	return func(a *App) {
		a.player = p
	}
}

// WithDeviceLister overrides audio device enumeration.
func WithDeviceLister(fn DeviceLister) Option {
	return func(a *App) {
		if fn != nil {
			a.listDevices = fn
		}
	}
}

// WithClock sets the clock for the tracker and the poll ticker.
func WithClock(clock clockwork.Clock) Option {
	return func(a *App) {
		if clock != nil {
			a.clock = clock
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// New creates an App around settings. A nil settings value means defaults.
func New(settings *config.Settings, opts ...Option) *App {
	if settings == nil {
		settings = config.Default()
	}
	a := &App{
		settings:    settings,
		notifier:    tracker.NopNotifier{},
		listDevices: audiodev.List,
		clock:       clockwork.NewRealClock(),
		logger:      zerolog.Nop(),
		pollChanged: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// HostInit creates a fresh tracker for accountName. A second init resets
// the old tracker, closing any open ready check, and replaces it.
func (a *App) HostInit(accountName string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.tracker != nil {
		a.tracker.Reset()
	}
	a.self = roster.NormalizeAccountName(accountName)
	a.tracker = tracker.New(a.notifier,
		tracker.WithClock(a.clock),
		tracker.WithObserver(a.observer),
		tracker.WithLogger(logging.Component(a.logger, "tracker")),
	)
	a.logger.Info().Str("account", a.self).Msg("host initialized")
}

// SquadUpdate feeds one batch to the tracker. Batches that arrive before
// HostInit are dropped.
func (a *App) SquadUpdate(users []roster.UserUpdate) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.tracker == nil {
		a.logger.Debug().Int("users", len(users)).Msg("squad update before init dropped")
		return
	}
	a.tracker.Update(users, a.self, a.settings)
}

// Tick drives the tracker's nag timer.
func (a *App) Tick() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.tracker != nil {
		a.tracker.Tick(a.settings)
	}
}

// DebugInfo returns the tracker snapshot, or false before HostInit.
func (a *App) DebugInfo() (tracker.DebugInfo, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.tracker == nil {
		return tracker.DebugInfo{}, false
	}
	return a.tracker.DebugInfo(), true
}

// Self returns the local account name, empty before HostInit.
func (a *App) Self() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.self
}

// Clock returns the clock driving the tracker and the poll ticker.
func (a *App) Clock() clockwork.Clock {
	return a.clock
}

// Settings returns a copy of the current settings.
func (a *App) Settings() *config.Settings {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.settings.Clone()
}

// ApplySettings installs reloaded settings when they validate. The tracker
// and notifier read them from the next update or tick on. A changed output
// device is re-resolved and a changed poll interval resets the Run ticker.
func (a *App) ApplySettings(ctx context.Context, next *config.Settings) error {
	if next == nil {
		return errors.New("nil settings")
	}
	if err := next.Validate(); err != nil {
		return err
	}

	a.mu.Lock()
	prev := a.settings
	a.settings = next.Clone()
	a.mu.Unlock()

	a.logger.Info().Msg("settings reloaded")
	if prev.PollInterval() != next.PollInterval() {
		select {
		case a.pollChanged <- struct{}{}:
		default:
		}
	}
	if prev.AudioOutputDevice != next.AudioOutputDevice {
		a.ResolveDevice(ctx)
	}
	return nil
}

// ResolveDevice points the player at the configured output device when it
// is present, otherwise at the system default.
func (a *App) ResolveDevice(ctx context.Context) {
	if a.player == nil {
		return
	}
	configured := a.Settings().AudioOutputDevice
	if configured == "" {
		a.player.SetDevice("")
		return
	}

	devices, err := a.listDevices(ctx)
	if err != nil {
		a.logger.Debug().Err(err).Msg("device listing unavailable, keeping configured device")
		a.player.SetDevice(configured)
		return
	}
	resolved := audiodev.Resolve(configured, devices)
	if resolved == "" {
		a.logger.Warn().Str("device", configured).Msg("configured audio device missing, using default")
	}
	a.player.SetDevice(resolved)
}

// DeviceChanged reacts to an audio hotplug event.
func (a *App) DeviceChanged(ctx context.Context, change audiodev.Change) {
	a.logger.Debug().Str("action", change.Action).Str("device", change.Device).Msg("audio devices changed")
	a.ResolveDevice(ctx)
}

// Run feeds src into the App and polls the tracker until ctx is cancelled
// or src returns. A source that returns on its own ends Run with its error.
func (a *App) Run(ctx context.Context, src host.Source) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		err := ErrSourceAborted
		defer func() { errCh <- err }()
		defer logging.Recover(a.logger, false)
		err = src.Run(ctx, a)
	}()

	ticker := a.clock.NewTicker(a.Settings().PollInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			return err
		case <-ticker.Chan():
			a.Tick()
		case <-a.pollChanged:
			ticker.Reset(a.Settings().PollInterval())
		}
	}
}

// Release closes any open ready check and stops the player. Calls after the
// first are no-ops. Settings are never written back; the settings file is
// only edited by the config commands.
func (a *App) Release(ctx context.Context) error {
	a.mu.Lock()
	if a.released {
		a.mu.Unlock()
		return nil
	}
	a.released = true
	if a.tracker != nil {
		a.tracker.Reset()
	}
	a.mu.Unlock()

	if a.player != nil {
		if err := a.player.Terminate(ctx); err != nil {
			return fmt.Errorf("stopping player: %w", err)
		}
	}
	return nil
}
