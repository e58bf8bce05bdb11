package history

import (
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squadready/squadready/internal/config"
	"github.com/squadready/squadready/internal/roster"
	"github.com/squadready/squadready/internal/tracker"
)

type memoryLog struct {
	entries []HistoryEntry
}

func (m *memoryLog) LogEntry(entry HistoryEntry) {
	m.entries = append(m.entries, entry)
}

func newTestRecorder() (*Recorder, *memoryLog) {
	log := &memoryLog{}
	r := NewRecorder(log)
	n := 0
	r.newID = func() string {
		n++
		return "check-" + strconv.Itoa(n)
	}
	return r, log
}

var t0 = time.Date(2024, 5, 4, 18, 0, 0, 0, time.UTC)

func event(kind tracker.EventKind, offset time.Duration, active bool) tracker.LifecycleEvent {
	return tracker.LifecycleEvent{Kind: kind, At: t0.Add(offset), Elapsed: offset, Active: active}
}

func TestRecorder_Outcomes(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		end         tracker.EventKind
		wantOutcome Outcome
	}{
		"completed": {end: tracker.EventCompleted, wantOutcome: OutcomeCompleted},
		"aborted":   {end: tracker.EventAborted, wantOutcome: OutcomeAborted},
		"reset":     {end: tracker.EventReset, wantOutcome: OutcomeReset},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			r, log := newTestRecorder()
			r.ObserveReadyCheck(event(tracker.EventStarted, 0, true))
			r.ObserveReadyCheck(event(tracker.EventNagged, 5*time.Second, true))
			r.ObserveReadyCheck(event(tracker.EventNagged, 10*time.Second, true))
			assert.True(t, r.Open())
			r.ObserveReadyCheck(event(tc.end, 12*time.Second, true))

			require.Len(t, log.entries, 1)
			got := log.entries[0]
			assert.Equal(t, "check-1", got.ID)
			assert.Equal(t, tc.wantOutcome, got.Outcome)
			assert.Equal(t, 2, got.NagCount)
			assert.Equal(t, "12s", got.Duration)
			assert.True(t, got.StartedAt.Equal(t0))
			assert.True(t, got.EndedAt.Equal(t0.Add(12*time.Second)))
			assert.False(t, r.Open())
		})
	}
}

func TestRecorder_IgnoresEndWithoutActiveCheck(t *testing.T) {
	t.Parallel()

	r, log := newTestRecorder()
	r.ObserveReadyCheck(event(tracker.EventReset, 0, false))
	r.ObserveReadyCheck(event(tracker.EventAborted, 0, false))
	r.ObserveReadyCheck(event(tracker.EventNagged, 0, true))

	assert.Empty(t, log.entries)
	assert.False(t, r.Open())
}

func TestRecorder_RestartClosesOpenEntry(t *testing.T) {
	t.Parallel()

	r, log := newTestRecorder()
	r.ObserveReadyCheck(event(tracker.EventStarted, 0, true))
	r.ObserveReadyCheck(event(tracker.EventStarted, 4*time.Second, true))
	r.ObserveReadyCheck(event(tracker.EventCompleted, 6*time.Second, true))

	require.Len(t, log.entries, 2)
	assert.Equal(t, OutcomeAborted, log.entries[0].Outcome)
	assert.Equal(t, "4s", log.entries[0].Duration)
	assert.Equal(t, "check-2", log.entries[1].ID)
	assert.Equal(t, "2s", log.entries[1].Duration)
}

func TestRecorder_DefaultIDsAreUUIDs(t *testing.T) {
	t.Parallel()

	log := &memoryLog{}
	r := NewRecorder(log)
	r.ObserveReadyCheck(event(tracker.EventStarted, 0, true))
	r.ObserveReadyCheck(event(tracker.EventCompleted, time.Second, true))

	require.Len(t, log.entries, 1)
	_, err := uuid.Parse(log.entries[0].ID)
	assert.NoError(t, err)
}

func TestRecorder_WithTrackerAndWriter(t *testing.T) {
	t.Parallel()

	stateDir := filepath.Join(t.TempDir(), "state")
	rec := NewRecorder(NewWriter(stateDir, 50, zerolog.Nop()))
	clock := clockwork.NewFakeClockAt(t0)
	tr := tracker.New(nil, tracker.WithClock(clock), tracker.WithObserver(rec))

	cfg := config.Default()
	cfg.ReadyCheckNag = true
	cfg.ReadyCheckNagIntervalSeconds = 1

	lead := func(ready bool) roster.UserUpdate {
		return roster.UserUpdate{AccountName: roster.Account(":Lead.1"), Role: roster.RoleLeader, ReadyStatus: ready}
	}
	self := func(ready bool) roster.UserUpdate {
		return roster.UserUpdate{AccountName: roster.Account(":Me.2"), Role: roster.RoleMember, ReadyStatus: ready}
	}

	tr.Update([]roster.UserUpdate{lead(false), self(false)}, "Me.2", cfg)
	tr.Update([]roster.UserUpdate{lead(true)}, "Me.2", cfg)
	clock.Advance(time.Second)
	tr.Tick(cfg)
	clock.Advance(time.Second)
	tr.Tick(cfg)
	clock.Advance(500 * time.Millisecond)
	tr.Update([]roster.UserUpdate{self(true)}, "Me.2", cfg)

	loaded, err := LoadHistory(stateDir)
	require.NoError(t, err)
	require.Len(t, loaded.Entries, 1)
	assert.Equal(t, OutcomeCompleted, loaded.Entries[0].Outcome)
	assert.Equal(t, 2, loaded.Entries[0].NagCount)
	assert.Equal(t, "2.5s", loaded.Entries[0].Duration)
}
