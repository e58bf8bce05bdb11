package tracker

import (
	"time"

	"github.com/squadready/squadready/internal/config"
)

// Notifier is the output capability the tracker drives. Implementations must
// not block and must log and swallow their own failures.
type Notifier interface {
	PlayReadyCheck(cfg *config.Settings)
	PlaySquadReady(cfg *config.Settings)
	FlashWindow(cfg *config.Settings)
}

// NopNotifier discards every notification.
type NopNotifier struct{}

func (NopNotifier) PlayReadyCheck(*config.Settings) {}
func (NopNotifier) PlaySquadReady(*config.Settings) {}
func (NopNotifier) FlashWindow(*config.Settings)    {}

// EventKind identifies a ready-check lifecycle transition.
type EventKind string

const (
	EventStarted   EventKind = "started"
	EventNagged    EventKind = "nagged"
	EventCompleted EventKind = "completed"
	EventAborted   EventKind = "aborted"
	EventReset     EventKind = "reset"
)

// LifecycleEvent is reported to an Observer after a transition is applied.
// Elapsed is the time since the ready check started, zero when none was active.
type LifecycleEvent struct {
	Kind    EventKind
	At      time.Time
	Elapsed time.Duration
	// Active reports whether a ready check was in progress before the transition.
	Active bool
}

// Observer receives lifecycle events. It is called synchronously on the
// tracker's call path and must not call back into the tracker.
type Observer interface {
	ObserveReadyCheck(ev LifecycleEvent)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ev LifecycleEvent)

func (f ObserverFunc) ObserveReadyCheck(ev LifecycleEvent) { f(ev) }
