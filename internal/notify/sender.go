package notify

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Sender defines the interface for platform-specific output.
type Sender interface {
	// SendVisual shows a desktop notification.
	SendVisual(ctx context.Context, n Notification) error

	// SendSound plays a sound file at volume (0-100) on device. An empty file
	// selects the platform default sound; an empty device the default output.
	SendSound(ctx context.Context, soundFile string, volume int, device string) error

	// VisualAvailable returns true if visual notifications are supported
	VisualAvailable() bool

	// SoundAvailable returns true if sound notifications are supported
	SoundAvailable() bool
}

// NewSender creates a platform-specific sender based on the current OS.
// For unsupported platforms, it returns a no-op sender.
func NewSender() Sender {
	switch runtime.GOOS {
	case "darwin":
		return newDarwinSender()
	case "linux":
		return newLinuxSender()
	case "windows":
		return newWindowsSender()
	default:
		return &noopSender{}
	}
}

// Platform returns the current operating system name
func Platform() string {
	return runtime.GOOS
}

// toolAvailable checks if a command-line tool is available in PATH
func toolAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// noopSender is a sender that does nothing (for unsupported platforms)
type noopSender struct{}

func (s *noopSender) SendVisual(context.Context, Notification) error        { return nil }
func (s *noopSender) SendSound(context.Context, string, int, string) error { return nil }
func (s *noopSender) VisualAvailable() bool                                { return false }
func (s *noopSender) SoundAvailable() bool                                 { return false }

// supportedAudioExtensions contains file extensions supported for custom sounds
var supportedAudioExtensions = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".aiff": true,
	".aif":  true,
	".ogg":  true,
	".oga":  true,
	".flac": true,
	".m4a":  true,
}

// ValidateSoundFile checks that soundFile exists, is a regular file and has a
// supported extension. An empty path is valid and selects the default sound.
func ValidateSoundFile(soundFile string) error {
	if soundFile == "" {
		return nil
	}

	info, err := os.Stat(soundFile)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("sound file not found: %s", soundFile)
		}
		return fmt.Errorf("cannot access sound file %s: %w", soundFile, err)
	}
	if info.IsDir() {
		return fmt.Errorf("sound path is a directory, not a file: %s", soundFile)
	}

	ext := strings.ToLower(filepath.Ext(soundFile))
	if !supportedAudioExtensions[ext] {
		return fmt.Errorf("unsupported audio format %q for file: %s", ext, soundFile)
	}
	return nil
}

func clampVolume(volume int) int {
	if volume < 0 {
		return 0
	}
	if volume > 100 {
		return 100
	}
	return volume
}
