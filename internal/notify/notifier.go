package notify

import (
	"github.com/squadready/squadready/internal/config"
)

// Output is the queueing side of a Player.
type Output interface {
	Play(t Track) bool
	Flash(n Notification) bool
}

// Notifier turns tracker notifications into queued output, picking sound
// files and volumes from the current settings. It never blocks. The output
// device is chosen by whoever owns the Player (see app.App.ResolveDevice).
type Notifier struct {
	out Output
}

// NewNotifier creates a Notifier writing to out.
func NewNotifier(out Output) *Notifier {
	return &Notifier{out: out}
}

// PlayReadyCheck queues the ready-check sound.
func (n *Notifier) PlayReadyCheck(cfg *config.Settings) {
	if cfg == nil {
		return
	}
	n.out.Play(Track{Kind: TrackReadyCheck, File: cfg.ReadyCheckPath, Volume: cfg.ReadyCheckVolume})
}

// PlaySquadReady queues the squad-ready sound.
func (n *Notifier) PlaySquadReady(cfg *config.Settings) {
	if cfg == nil {
		return
	}
	n.out.Play(Track{Kind: TrackSquadReady, File: cfg.SquadReadyPath, Volume: cfg.SquadReadyVolume})
}

// FlashWindow raises a desktop notification when flash_window is enabled.
func (n *Notifier) FlashWindow(cfg *config.Settings) {
	if cfg == nil || !cfg.FlashWindow {
		return
	}
	n.out.Flash(flashNotification)
}
