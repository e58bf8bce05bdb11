package squad

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squadready/squadready/internal/app"
	"github.com/squadready/squadready/internal/audiodev"
	"github.com/squadready/squadready/internal/cli/shared"
	"github.com/squadready/squadready/internal/config"
	"github.com/squadready/squadready/internal/notify"
	"github.com/squadready/squadready/internal/roster"
	"github.com/squadready/squadready/internal/testutil"
	"github.com/squadready/squadready/internal/tracker"
)

const recordedSession = `{"type":"init","account_name":":Self.1234"}
{"type":"squad_update","users":[{"account_name":":Lead.1","role":"leader","subgroup":1,"ready_status":false,"join_time":10},{"account_name":":Self.1234","role":"member","subgroup":1,"ready_status":false,"join_time":20}]}
{"type":"squad_update","users":[{"account_name":":Lead.1","role":"leader","subgroup":1,"ready_status":true,"join_time":10}]}
{"type":"squad_update","users":[{"account_name":":Self.1234","role":"member","subgroup":1,"ready_status":true,"join_time":20}]}
{"type":"squad_update","users":[{"account_name":":Lead.1","role":"leader","subgroup":1,"ready_status":false,"join_time":10}]}
{"type":"squad_update","users":[{"account_name":":Lead.1","role":"leader","subgroup":1,"ready_status":true,"join_time":10}]}
{"type":"squad_update","users":[{"account_name":":Lead.1","role":"leader","subgroup":1,"ready_status":false,"join_time":10}]}
`

func TestReplayCommand(t *testing.T) {
	testutil.ClearSettingsEnv(t)
	dir := t.TempDir()
	sessionPath := filepath.Join(dir, "session.jsonl")
	testutil.WriteFile(t, sessionPath, recordedSession)
	settingsPath := filepath.Join(dir, "settings.json")

	out, err := executeRoot("replay", sessionPath,
		"--dry-run", "--snapshot",
		"--config", settingsPath,
		"--env-file", "",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "Ready checks started: 2, completed: 1, aborted: 1, reset: 0, nags: 0")
	assert.Contains(t, out, "Self: Self.1234")
	assert.Contains(t, out, "In ready check: false")
	assert.Contains(t, out, "Lead.1")
	assert.Contains(t, out, "leader")

	_, statErr := os.Stat(settingsPath)
	assert.ErrorIs(t, statErr, os.ErrNotExist, "replay must not write settings")
}

func TestReplayCommand_Errors(t *testing.T) {
	testutil.ClearSettingsEnv(t)
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.jsonl")
	require.NoError(t, os.WriteFile(bad, []byte("{nope}\n"), 0o644))
	settingsPath := filepath.Join(dir, "settings.json")

	tests := map[string]struct {
		args     []string
		wantCode int
	}{
		"missing file": {
			args:     []string{"replay", filepath.Join(dir, "absent.jsonl"), "--dry-run"},
			wantCode: shared.ExitInvalidArguments,
		},
		"malformed line": {
			args:     []string{"replay", bad, "--dry-run"},
			wantCode: shared.ExitFailure,
		},
		"no file argument": {
			args:     []string{"replay"},
			wantCode: shared.ExitInvalidArguments,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			args := append(tt.args, "--config", settingsPath, "--env-file", "")
			_, err := executeRoot(args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, shared.ExitCode(err))
		})
	}
}

func TestReplayCommand_NoInit(t *testing.T) {
	testutil.ClearSettingsEnv(t)
	dir := t.TempDir()
	sessionPath := filepath.Join(dir, "session.jsonl")
	require.NoError(t, os.WriteFile(sessionPath, []byte(`{"type":"squad_update","users":[]}`+"\n"), 0o644))

	out, err := executeRoot("replay", sessionPath, "--dry-run", "--snapshot",
		"--config", filepath.Join(dir, "settings.json"), "--env-file", "")
	require.NoError(t, err)
	assert.Contains(t, out, "pass --self")
}

func TestAssemble_PlaysThroughSender(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sender := &recordingSender{}
	settings := config.Default()
	asm := assemble(ctx, settings, zerolog.Nop(), assembleOptions{Sender: sender})
	require.NotNil(t, asm.Player)

	asm.App.HostInit("Self.1")
	asm.App.SquadUpdate([]roster.UserUpdate{
		{AccountName: roster.Account("Lead.1"), Role: roster.RoleLeader},
		{AccountName: roster.Account("Self.1"), Role: roster.RoleMember},
	})
	asm.App.SquadUpdate([]roster.UserUpdate{
		{AccountName: roster.Account("Lead.1"), Role: roster.RoleLeader, ReadyStatus: true},
	})

	releaseCtx, cancelRelease := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelRelease()
	require.NoError(t, asm.App.Release(releaseCtx))

	assert.Equal(t, 1, sender.soundCount())
	assert.Len(t, sender.visuals, 1)
}

func TestAssemble_DryRun(t *testing.T) {
	t.Parallel()

	asm := assemble(context.Background(), config.Default(), zerolog.Nop(), assembleOptions{DryRun: true})
	assert.Nil(t, asm.Player)
	assert.NoError(t, asm.App.Release(context.Background()))
}

func TestLifecycleCounter(t *testing.T) {
	t.Parallel()

	c := newLifecycleCounter()
	c.ObserveReadyCheck(tracker.LifecycleEvent{Kind: tracker.EventStarted, Active: true})
	c.ObserveReadyCheck(tracker.LifecycleEvent{Kind: tracker.EventNagged, Active: true})
	c.ObserveReadyCheck(tracker.LifecycleEvent{Kind: tracker.EventNagged, Active: true})
	c.ObserveReadyCheck(tracker.LifecycleEvent{Kind: tracker.EventAborted, Active: false})

	assert.Equal(t, 1, c.get(tracker.EventStarted))
	assert.Equal(t, 2, c.get(tracker.EventNagged))
	assert.Equal(t, 0, c.get(tracker.EventAborted))
}

func TestNotifyFor(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		which    string
		wantKind notify.TrackKind
		wantErr  bool
	}{
		"default":     {which: "", wantKind: notify.TrackReadyCheck},
		"ready check": {which: "ready-check", wantKind: notify.TrackReadyCheck},
		"squad ready": {which: "Squad-Ready", wantKind: notify.TrackSquadReady},
		"unknown":     {which: "party", wantErr: true},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			out := &trackCapture{}
			play, err := notifyFor(notify.NewNotifier(out), tt.which)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, shared.ExitInvalidArguments, shared.ExitCode(err))
				return
			}
			require.NoError(t, err)
			play(config.Default())
			require.Len(t, out.tracks, 1)
			assert.Equal(t, tt.wantKind, out.tracks[0].Kind)
		})
	}
}

// trackCapture is a notify.Output that records queued tracks.
type trackCapture struct {
	tracks []notify.Track
}

func (c *trackCapture) Play(t notify.Track) bool       { c.tracks = append(c.tracks, t); return true }
func (c *trackCapture) Flash(notify.Notification) bool { return true }
func (c *trackCapture) SetDevice(string) bool          { return true }

func TestPrintDevices(t *testing.T) {
	t.Parallel()

	devices := []audiodev.Device{
		{Index: "0", Name: "speakers", State: "SUSPENDED"},
		{Index: "1", Name: "headset", State: "RUNNING"},
	}

	tests := map[string]struct {
		devices    []audiodev.Device
		configured string
		want       []string
		notWant    []string
	}{
		"none": {
			want: []string{"No output devices found"},
		},
		"configured present": {
			devices:    devices,
			configured: "headset",
			want:       []string{"speakers", "headset", "*"},
			notWant:    []string{"not connected"},
		},
		"configured missing": {
			devices:    devices,
			configured: "usb",
			want:       []string{`Configured device "usb" is not connected`},
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			printDevices(&buf, tt.devices, tt.configured)
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, buf.String(), w)
			}
		})
	}
}

func TestWatchSettings_AppliesEdits(t *testing.T) {
	testutil.ClearSettingsEnv(t)
	path := filepath.Join(t.TempDir(), "settings.json")
	_, err := config.Init(path, false)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := app.New(config.Default())
	var logs lockedBuffer
	watcher := watchSettings(ctx, a, path, zerolog.New(&logs))
	require.NotNil(t, watcher)
	defer watcher.Stop()

	_, err = config.SetValue(path, "ready_check_nag", "true")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return a.Settings().ReadyCheckNag }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte(`{"log_level":"loud"}`), 0o644))
	require.Eventually(t, func() bool { return strings.Contains(logs.String(), "settings change ignored") },
		5*time.Second, 10*time.Millisecond)
	assert.True(t, a.Settings().ReadyCheckNag, "invalid edits keep the running settings")
}

func TestWatchSettings_MissingFileDisablesReload(t *testing.T) {
	t.Parallel()

	a := app.New(config.Default())
	watcher := watchSettings(context.Background(), a, filepath.Join(t.TempDir(), "absent.json"), zerolog.Nop())
	assert.Nil(t, watcher)
}

func TestLogStatus_UsesAppClock(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	a := app.New(config.Default(), app.WithClock(clock))
	var logs lockedBuffer
	logger := zerolog.New(&logs).Level(zerolog.DebugLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		logStatus(ctx, a, logger, time.Minute)
	}()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(time.Minute)
	require.Eventually(t, func() bool { return strings.Contains(logs.String(), "waiting for host init") },
		time.Second, time.Millisecond)

	a.HostInit("Self.1")
	clock.Advance(time.Minute)
	require.Eventually(t, func() bool { return strings.Contains(logs.String(), `"in_ready_check":false`) },
		time.Second, time.Millisecond)

	cancel()
	<-done
}
