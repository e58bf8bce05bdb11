//go:build darwin

package notify

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
)

const (
	// DefaultMacOSSound is the default notification sound on macOS
	DefaultMacOSSound = "/System/Library/Sounds/Glass.aiff"
)

// darwinSender implements Sender for macOS using osascript and afplay.
// afplay always uses the system output; the device argument is ignored.
type darwinSender struct {
	visualAvailable bool
	soundAvailable  bool
}

func newDarwinSender() Sender {
	return &darwinSender{
		visualAvailable: toolAvailable("osascript"),
		soundAvailable:  toolAvailable("afplay"),
	}
}

// newLinuxSender returns a no-op sender on darwin
func newLinuxSender() Sender {
	return &noopSender{}
}

// newWindowsSender returns a no-op sender on darwin
func newWindowsSender() Sender {
	return &noopSender{}
}

// SendVisual sends a visual notification using osascript
func (s *darwinSender) SendVisual(ctx context.Context, n Notification) error {
	if !s.visualAvailable {
		return nil
	}
	script := fmt.Sprintf(`display notification %q with title %q`, n.Message, n.Title)
	cmd := exec.CommandContext(ctx, "osascript", "-e", script)
	return cmd.Run()
}

// SendSound plays a sound using afplay
func (s *darwinSender) SendSound(ctx context.Context, soundFile string, volume int, _ string) error {
	if !s.soundAvailable {
		return nil
	}
	if soundFile == "" {
		soundFile = DefaultMacOSSound
	}
	level := strconv.FormatFloat(float64(clampVolume(volume))/100, 'f', 2, 64)
	cmd := exec.CommandContext(ctx, "afplay", "-v", level, soundFile)
	return cmd.Run()
}

// VisualAvailable returns true if osascript is available
func (s *darwinSender) VisualAvailable() bool {
	return s.visualAvailable
}

// SoundAvailable returns true if afplay is available
func (s *darwinSender) SoundAvailable() bool {
	return s.soundAvailable
}
