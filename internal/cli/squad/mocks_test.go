package squad

import (
	"bytes"
	"context"
	"sync"

	"github.com/spf13/cobra"

	"github.com/squadready/squadready/internal/cli/shared"
	"github.com/squadready/squadready/internal/notify"
	"github.com/squadready/squadready/internal/testutil"
)

type soundCall struct {
	file   string
	volume int
	device string
}

// recordingSender captures sends instead of running platform tools.
type recordingSender struct {
	mu      sync.Mutex
	sounds  []soundCall
	visuals []notify.Notification
}

func (s *recordingSender) SendVisual(_ context.Context, n notify.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visuals = append(s.visuals, n)
	return nil
}

func (s *recordingSender) SendSound(_ context.Context, file string, volume int, device string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sounds = append(s.sounds, soundCall{file: file, volume: volume, device: device})
	return nil
}

func (s *recordingSender) VisualAvailable() bool { return true }
func (s *recordingSender) SoundAvailable() bool  { return true }

func (s *recordingSender) soundCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sounds)
}

// executeRoot runs args against a fresh root carrying the global flags and
// returns stdout.
func executeRoot(args ...string) (string, error) {
	root := &cobra.Command{Use: "squadready", SilenceUsage: true, SilenceErrors: true}
	shared.AddGroups(root)
	shared.AddPersistentFlags(root)
	Register(root)
	return testutil.ExecuteCommand(root, args...)
}

// lockedBuffer is a log sink safe to read while another goroutine writes.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
