package app

import (
	"context"
	"sync"

	"github.com/squadready/squadready/internal/config"
	"github.com/squadready/squadready/internal/host"
	"github.com/squadready/squadready/internal/roster"
)

type recordingNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (n *recordingNotifier) record(call string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, call)
}

func (n *recordingNotifier) PlayReadyCheck(*config.Settings) { n.record("ready_check") }
func (n *recordingNotifier) PlaySquadReady(*config.Settings) { n.record("squad_ready") }
func (n *recordingNotifier) FlashWindow(*config.Settings)    { n.record("flash") }

func (n *recordingNotifier) count(call string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, got := range n.calls {
		if got == call {
			c++
		}
	}
	return c
}

type fakePlayer struct {
	mu         sync.Mutex
	devices    []string
	terminated int
	err        error
}

func (p *fakePlayer) SetDevice(device string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.devices = append(p.devices, device)
	return true
}

func (p *fakePlayer) Terminate(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.terminated++
	return p.err
}

func (p *fakePlayer) lastDevice() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.devices) == 0 {
		return "<unset>"
	}
	return p.devices[len(p.devices)-1]
}

// scriptSource dispatches msgs and then either returns or blocks until ctx
// ends.
type scriptSource struct {
	msgs  []roster.Message
	block bool
	err   error
	panic bool
}

func (s *scriptSource) Run(ctx context.Context, h host.Handler) error {
	if s.panic {
		panic("source exploded")
	}
	for _, msg := range s.msgs {
		host.Dispatch(h, msg, discardLogger)
	}
	if s.block {
		<-ctx.Done()
	}
	return s.err
}

func ev(name string, role roster.Role, ready bool) roster.UserUpdate {
	return roster.UserUpdate{AccountName: roster.Account(":" + name), Role: role, ReadyStatus: ready}
}

func testSettings() *config.Settings {
	s := config.Default()
	s.StateDir = "/tmp/squadready-test"
	s.ReadyCheckNag = true
	s.ReadyCheckNagIntervalSeconds = 5
	return s
}
