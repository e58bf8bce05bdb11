package tracker

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/squadready/squadready/internal/config"
	"github.com/squadready/squadready/internal/roster"
)

// recordingNotifier records notifier calls in order.
type recordingNotifier struct {
	calls []string
}

func (n *recordingNotifier) PlayReadyCheck(*config.Settings) { n.calls = append(n.calls, "ready_check") }
func (n *recordingNotifier) PlaySquadReady(*config.Settings) { n.calls = append(n.calls, "squad_ready") }
func (n *recordingNotifier) FlashWindow(*config.Settings)    { n.calls = append(n.calls, "flash") }

func (n *recordingNotifier) count(call string) int {
	c := 0
	for _, got := range n.calls {
		if got == call {
			c++
		}
	}
	return c
}

func (n *recordingNotifier) readyChecks() int { return n.count("ready_check") }
func (n *recordingNotifier) squadReadies() int { return n.count("squad_ready") }
func (n *recordingNotifier) flashes() int { return n.count("flash") }

// recordingObserver records lifecycle events.
type recordingObserver struct {
	events []LifecycleEvent
}

func (o *recordingObserver) ObserveReadyCheck(ev LifecycleEvent) {
	o.events = append(o.events, ev)
}

func (o *recordingObserver) kinds() []EventKind {
	kinds := make([]EventKind, 0, len(o.events))
	for _, ev := range o.events {
		kinds = append(kinds, ev.Kind)
	}
	return kinds
}

var testEpoch = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	tracker  *Tracker
	notifier *recordingNotifier
	observer *recordingObserver
	clock    *clockwork.FakeClock
	cfg      *config.Settings
}

const selfName = "Self.1234"

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		notifier: &recordingNotifier{},
		observer: &recordingObserver{},
		clock:    clockwork.NewFakeClockAt(testEpoch),
		cfg:      config.Default(),
	}
	f.cfg.ReadyCheckNag = true
	f.cfg.ReadyCheckNagIntervalSeconds = 5
	f.tracker = New(f.notifier, WithClock(f.clock), WithObserver(f.observer))
	return f
}

// send applies a batch with the host's sentinel-prefixed self name.
func (f *fixture) send(events ...roster.UserUpdate) {
	f.tracker.Update(events, ":"+selfName, f.cfg)
}

func ev(name string, role roster.Role, ready bool) roster.UserUpdate {
	return roster.UserUpdate{AccountName: roster.Account(":" + name), Role: role, ReadyStatus: ready}
}

func leader(ready bool) roster.UserUpdate { return ev("Lead.1", roster.RoleLeader, ready) }

func member(name string, ready bool) roster.UserUpdate {
	return ev(name, roster.RoleMember, ready)
}

// seedSquad caches a not-ready leader, self and the named members so later
// updates count as changes to existing entries.
func (f *fixture) seedSquad(members ...string) {
	batch := []roster.UserUpdate{leader(false), member(selfName, false)}
	for _, m := range members {
		batch = append(batch, member(m, false))
	}
	f.send(batch...)
}
