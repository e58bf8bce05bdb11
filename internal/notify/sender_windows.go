//go:build windows

package notify

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// windowsSender implements Sender for Windows using PowerShell.
// SoundPlayer has no volume or device control; both arguments are ignored.
type windowsSender struct {
	visualAvailable bool
	soundAvailable  bool
}

func newWindowsSender() Sender {
	available := toolAvailable("powershell")
	return &windowsSender{
		visualAvailable: available,
		soundAvailable:  available,
	}
}

// newDarwinSender returns a no-op sender on windows
func newDarwinSender() Sender {
	return &noopSender{}
}

// newLinuxSender returns a no-op sender on windows
func newLinuxSender() Sender {
	return &noopSender{}
}

// SendVisual sends a toast notification using PowerShell
func (s *windowsSender) SendVisual(ctx context.Context, n Notification) error {
	if !s.visualAvailable {
		return nil
	}
	script := fmt.Sprintf(`
[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] | Out-Null
$template = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent([Windows.UI.Notifications.ToastTemplateType]::ToastText02)
$textNodes = $template.GetElementsByTagName('text')
$textNodes.Item(0).AppendChild($template.CreateTextNode('%s')) | Out-Null
$textNodes.Item(1).AppendChild($template.CreateTextNode('%s')) | Out-Null
$toast = [Windows.UI.Notifications.ToastNotification]::new($template)
[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier('%s').Show($toast)
`, escapeForPowerShell(n.Title), escapeForPowerShell(n.Message), appTitle)

	return powershell(ctx, script)
}

// SendSound plays a sound using PowerShell
func (s *windowsSender) SendSound(ctx context.Context, soundFile string, _ int, _ string) error {
	if !s.soundAvailable {
		return nil
	}
	script := "[System.Media.SystemSounds]::Exclamation.Play(); Start-Sleep -Milliseconds 500"
	if soundFile != "" {
		script = fmt.Sprintf(`
$player = New-Object System.Media.SoundPlayer
$player.SoundLocation = '%s'
$player.PlaySync()
`, escapeForPowerShell(soundFile))
	}
	return powershell(ctx, script)
}

func powershell(ctx context.Context, script string) error {
	cmd := exec.CommandContext(ctx, "powershell", "-ExecutionPolicy", "Bypass", "-NoProfile", "-Command", script)
	return cmd.Run()
}

// VisualAvailable returns true if PowerShell is available
func (s *windowsSender) VisualAvailable() bool {
	return s.visualAvailable
}

// SoundAvailable returns true if PowerShell is available
func (s *windowsSender) SoundAvailable() bool {
	return s.soundAvailable
}

// escapeForPowerShell escapes special characters for single-quoted PowerShell strings
func escapeForPowerShell(s string) string {
	var b strings.Builder
	for _, c := range s {
		switch c {
		case '\'':
			b.WriteString("''")
		case '`', '$':
			b.WriteByte('`')
			b.WriteRune(c)
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}
