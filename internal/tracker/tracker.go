// Package tracker infers squad ready-check lifecycle transitions from the
// stream of per-user roster updates and drives the periodic nag reminder.
//
// A ready check starts when a cached leader's ready flag flips from false to
// true and ends early when it flips back. It completes when, during an active
// check, a non-leader update leaves every leader, lieutenant and member ready.
// Invited, applied and invalid slots never block completion.
//
// The tracker is not safe for concurrent use. Callers serialize Update, Tick
// and DebugInfo themselves; see internal/app.
package tracker

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/squadready/squadready/internal/config"
	"github.com/squadready/squadready/internal/roster"
)

// SquadMember is the cached state of one squad slot.
type SquadMember struct {
	AccountName string
	Role        roster.Role
	Subgroup    uint8
	ReadyStatus bool
	JoinTime    uint64
}

// Tracker holds ready-check state for one local session.
type Tracker struct {
	clock    clockwork.Clock
	notifier Notifier
	observer Observer
	logger   zerolog.Logger

	cachedPlayers map[string]SquadMember
	inReadyCheck  bool
	selfReadied   bool

	readyCheckStart   *time.Time
	readyCheckNagTime *time.Time
}

// Option customises the Tracker.
type Option func(*Tracker)

// WithClock overrides the time source (primarily for tests).
func WithClock(clock clockwork.Clock) Option {
	return func(t *Tracker) {
		if clock != nil {
			t.clock = clock
		}
	}
}

// WithObserver registers a lifecycle observer.
func WithObserver(obs Observer) Option {
	return func(t *Tracker) {
		t.observer = obs
	}
}

// WithLogger sets the logger used for transition debug output.
func WithLogger(logger zerolog.Logger) Option {
	return func(t *Tracker) {
		t.logger = logger
	}
}

// New creates a tracker. A nil notifier is replaced with NopNotifier.
func New(notifier Notifier, opts ...Option) *Tracker {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	t := &Tracker{
		clock:         clockwork.NewRealClock(),
		notifier:      notifier,
		logger:        zerolog.Nop(),
		cachedPlayers: make(map[string]SquadMember),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// InReadyCheck reports whether a ready check is active.
func (t *Tracker) InReadyCheck() bool { return t.inReadyCheck }

// SelfReadied reports the cached ready flag of the local user.
func (t *Tracker) SelfReadied() bool { return t.selfReadied }

// Len returns the number of cached squad members.
func (t *Tracker) Len() int { return len(t.cachedPlayers) }

// Member returns the cached entry for name.
func (t *Tracker) Member(name string) (SquadMember, bool) {
	m, ok := t.cachedPlayers[name]
	return m, ok
}

// Update applies a batch of roster updates in delivery order. Later events in
// the batch observe state changes made by earlier ones.
func (t *Tracker) Update(events []roster.UserUpdate, selfAccountName string, cfg *config.Settings) {
	self := roster.NormalizeAccountName(selfAccountName)
	for _, ev := range events {
		t.apply(ev, self, cfg)
	}
}

func (t *Tracker) apply(ev roster.UserUpdate, self string, cfg *config.Settings) {
	name, ok := ev.Name()
	if !ok {
		return
	}

	if ev.Role == roster.RoleNone {
		if name == self {
			t.selfLeft()
			return
		}
		delete(t.cachedPlayers, name)
		return
	}

	if name == self {
		t.selfReadied = ev.ReadyStatus
	}

	prev, existed := t.cachedPlayers[name]
	t.cachedPlayers[name] = SquadMember{
		AccountName: name,
		Role:        ev.Role,
		Subgroup:    ev.Subgroup,
		ReadyStatus: ev.ReadyStatus,
		JoinTime:    ev.JoinTime,
	}
	if !existed {
		return
	}

	if ev.Role == roster.RoleLeader {
		switch {
		case !prev.ReadyStatus && ev.ReadyStatus:
			t.start(cfg)
		case prev.ReadyStatus && !ev.ReadyStatus:
			t.abort()
		}
		return
	}

	if t.inReadyCheck && t.allCoreReady() {
		t.complete(cfg)
	}
}

func (t *Tracker) allCoreReady() bool {
	for _, m := range t.cachedPlayers {
		if m.Role.IsCore() && !m.ReadyStatus {
			return false
		}
	}
	return true
}

func (t *Tracker) start(cfg *config.Settings) {
	now := t.clock.Now()
	t.inReadyCheck = true
	t.readyCheckStart = timePtr(now)
	t.readyCheckNagTime = timePtr(now.Add(cfg.NagInterval()))
	t.logger.Debug().Int("members", len(t.cachedPlayers)).Msg("ready check started")

	t.notifier.FlashWindow(cfg)
	t.notifier.PlayReadyCheck(cfg)
	t.emit(EventStarted, now, 0, true)
}

func (t *Tracker) abort() {
	now := t.clock.Now()
	active, elapsed := t.end(now)
	t.logger.Debug().Dur("elapsed", elapsed).Msg("ready check ended early")
	t.emit(EventAborted, now, elapsed, active)
}

func (t *Tracker) complete(cfg *config.Settings) {
	now := t.clock.Now()
	t.readyCheckNagTime = nil
	t.notifier.FlashWindow(cfg)
	t.notifier.PlaySquadReady(cfg)

	active, elapsed := t.end(now)
	t.logger.Debug().Dur("elapsed", elapsed).Msg("squad ready")
	t.emit(EventCompleted, now, elapsed, active)
}

// Reset drops all squad state as if the local user had left the squad. An
// open ready check ends with an EventReset. The notifier is not called.
func (t *Tracker) Reset() {
	t.selfLeft()
}

// selfLeft resets all state unconditionally.
func (t *Tracker) selfLeft() {
	now := t.clock.Now()
	t.selfReadied = false
	clear(t.cachedPlayers)
	active, elapsed := t.end(now)
	t.logger.Debug().Bool("was_active", active).Msg("left squad, tracker reset")
	t.emit(EventReset, now, elapsed, active)
}

// end clears ready-check state and returns whether a check was active and
// how long it ran.
func (t *Tracker) end(now time.Time) (bool, time.Duration) {
	active := t.inReadyCheck
	var elapsed time.Duration
	if t.readyCheckStart != nil {
		elapsed = now.Sub(*t.readyCheckStart)
	}
	t.inReadyCheck = false
	t.readyCheckStart = nil
	t.readyCheckNagTime = nil
	return active, elapsed
}

// Tick fires a nag reminder when one is due. It is a no-op unless a ready
// check is active, the local user has not readied and nagging is enabled.
func (t *Tracker) Tick(cfg *config.Settings) {
	if !t.inReadyCheck {
		return
	}
	if t.selfReadied {
		return
	}
	if cfg == nil || !cfg.ReadyCheckNag {
		return
	}
	now := t.clock.Now()
	if t.readyCheckNagTime != nil && now.Before(*t.readyCheckNagTime) {
		return
	}

	t.readyCheckNagTime = timePtr(now.Add(cfg.NagInterval()))
	t.notifier.FlashWindow(cfg)
	t.notifier.PlayReadyCheck(cfg)

	var elapsed time.Duration
	if t.readyCheckStart != nil {
		elapsed = now.Sub(*t.readyCheckStart)
	}
	t.emit(EventNagged, now, elapsed, true)
}

func (t *Tracker) emit(kind EventKind, at time.Time, elapsed time.Duration, active bool) {
	if t.observer == nil {
		return
	}
	t.observer.ObserveReadyCheck(LifecycleEvent{Kind: kind, At: at, Elapsed: elapsed, Active: active})
}

func timePtr(t time.Time) *time.Time { return &t }
