//go:build linux

package audiodev

import (
	"context"
	"testing"

	"github.com/pilebones/go-udev/netlink"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMatcher(t *testing.T) {
	t.Parallel()

	matcher := buildMatcher()
	require.NotNil(t, matcher)

	tests := map[string]struct {
		event netlink.UEvent
		want  bool
	}{
		"sound add": {
			event: netlink.UEvent{Action: netlink.ADD, Env: map[string]string{"SUBSYSTEM": "sound"}},
			want:  true,
		},
		"sound remove": {
			event: netlink.UEvent{Action: netlink.REMOVE, Env: map[string]string{"SUBSYSTEM": "sound"}},
			want:  true,
		},
		"sound change": {
			event: netlink.UEvent{Action: netlink.CHANGE, Env: map[string]string{"SUBSYSTEM": "sound"}},
			want:  true,
		},
		"block device": {
			event: netlink.UEvent{Action: netlink.ADD, Env: map[string]string{"SUBSYSTEM": "block"}},
			want:  false,
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, matcher.Evaluate(tt.event))
		})
	}
}

func TestMonitor_HandleEvent(t *testing.T) {
	t.Parallel()

	var got []Change
	m := NewMonitor(zerolog.Nop(), func(c Change) { got = append(got, c) })

	m.handleEvent(netlink.UEvent{
		Action: netlink.REMOVE,
		Env:    map[string]string{"SUBSYSTEM": "sound", "DEVNAME": "/dev/snd/controlC1"},
	})

	require.Len(t, got, 1)
	assert.Equal(t, Change{Action: "remove", Device: "/dev/snd/controlC1"}, got[0])
}

func TestMonitor_Lifecycle(t *testing.T) {
	t.Parallel()

	t.Run("nil monitor is safe", func(t *testing.T) {
		t.Parallel()
		var m *Monitor
		assert.NoError(t, m.Start(context.Background()))
		assert.False(t, m.Running())
		m.Stop()
	})

	t.Run("stop without start", func(t *testing.T) {
		t.Parallel()
		m := NewMonitor(zerolog.Nop(), nil)
		m.Stop()
		m.Stop()
		assert.False(t, m.Running())
	})

	t.Run("start is non-fatal", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		m := NewMonitor(zerolog.Nop(), nil)
		// Netlink may be unavailable in a sandbox; either way Start succeeds.
		assert.NoError(t, m.Start(ctx))
		m.Stop()
		assert.False(t, m.Running())
	})
}
