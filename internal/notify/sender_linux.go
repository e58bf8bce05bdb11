//go:build linux

package notify

import (
	"context"
	"os"
	"os/exec"
	"strconv"
)

// DefaultLinuxSound is played when no custom sound is configured.
// Skipped silently when the freedesktop sound theme is not installed.
const DefaultLinuxSound = "/usr/share/sounds/freedesktop/stereo/complete.oga"

// paVolumeNorm is the PulseAudio volume value for 100%.
const paVolumeNorm = 65536

// linuxSender implements Sender for Linux using notify-send and paplay
type linuxSender struct {
	visualAvailable bool
	soundAvailable  bool
}

func newLinuxSender() Sender {
	return &linuxSender{
		visualAvailable: toolAvailable("notify-send") && hasDisplay(),
		soundAvailable:  toolAvailable("paplay"),
	}
}

// newDarwinSender returns a no-op sender on linux
func newDarwinSender() Sender {
	return &noopSender{}
}

// newWindowsSender returns a no-op sender on linux
func newWindowsSender() Sender {
	return &noopSender{}
}

// hasDisplay checks if an X11 or Wayland display is available
func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

// SendVisual sends a visual notification using notify-send
func (s *linuxSender) SendVisual(ctx context.Context, n Notification) error {
	if !s.visualAvailable {
		return nil
	}
	cmd := exec.CommandContext(ctx, "notify-send", "-u", "critical", "-a", appTitle, n.Title, n.Message)
	return cmd.Run()
}

// SendSound plays a sound using paplay
func (s *linuxSender) SendSound(ctx context.Context, soundFile string, volume int, device string) error {
	if !s.soundAvailable {
		return nil
	}
	if soundFile == "" {
		if _, err := os.Stat(DefaultLinuxSound); err != nil {
			return nil
		}
		soundFile = DefaultLinuxSound
	}
	cmd := exec.CommandContext(ctx, "paplay", paplayArgs(soundFile, volume, device)...)
	return cmd.Run()
}

func paplayArgs(soundFile string, volume int, device string) []string {
	args := []string{"--volume=" + strconv.Itoa(clampVolume(volume)*paVolumeNorm/100)}
	if device != "" {
		args = append(args, "--device="+device)
	}
	return append(args, soundFile)
}

// VisualAvailable returns true if notify-send is available and display is present
func (s *linuxSender) VisualAvailable() bool {
	return s.visualAvailable
}

// SoundAvailable returns true if paplay is available
func (s *linuxSender) SoundAvailable() bool {
	return s.soundAvailable
}
