// Package notify plays ready-check sounds and raises desktop notifications.
//
// Output goes through a platform Sender that shells out to native tools, so
// the package needs no audio libraries and builds with CGO_ENABLED=0.
// A Player owns a single worker goroutine that performs all sound and visual
// output; callers hand it signals over a buffered channel and never block on
// device I/O. Notifier adapts a Player to the tracker's notification contract.
//
// # Platform Support
//
//   - Linux: notify-send for visual notifications, paplay for sound (volume and sink)
//   - macOS: osascript for visual notifications, afplay for sound (volume)
//   - Windows: PowerShell for toast notifications and sound
//
// # Usage
//
//	player := notify.NewPlayer(notify.NewSender())
//	go player.Run(ctx)
//	n := notify.NewNotifier(player)
//	n.PlayReadyCheck(cfg)
package notify
