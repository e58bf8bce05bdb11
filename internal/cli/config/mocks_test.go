package config

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/squadready/squadready/internal/audiodev"
	"github.com/squadready/squadready/internal/cli/shared"
	"github.com/squadready/squadready/internal/notify"
	"github.com/squadready/squadready/internal/testutil"
)

// executeRoot runs args against a fresh root carrying the global flags and
// returns stdout.
func executeRoot(args ...string) (string, error) {
	root := &cobra.Command{Use: "squadready", SilenceUsage: true, SilenceErrors: true}
	shared.AddGroups(root)
	shared.AddPersistentFlags(root)
	Register(root)
	return testutil.ExecuteCommand(root, args...)
}

// fakeSender reports fixed tool availability.
type fakeSender struct {
	sound, visual bool
}

func (s fakeSender) SendVisual(context.Context, notify.Notification) error { return nil }
func (s fakeSender) SendSound(context.Context, string, int, string) error { return nil }
func (s fakeSender) VisualAvailable() bool                                { return s.visual }
func (s fakeSender) SoundAvailable() bool                                 { return s.sound }

// withDoctorDeps swaps the doctor collaborators for the duration of the test.
func withDoctorDeps(t *testing.T, sender notify.Sender, devices []audiodev.Device, probeErr error) {
	t.Helper()
	origSender, origList, origProbe := newSender, listDevices, probeHost
	newSender = func() notify.Sender { return sender }
	listDevices = func(context.Context) ([]audiodev.Device, error) { return devices, nil }
	probeHost = func(context.Context, string, time.Duration) error { return probeErr }
	t.Cleanup(func() {
		newSender, listDevices, probeHost = origSender, origList, origProbe
	})
}
