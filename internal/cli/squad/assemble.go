// Package squad provides the CLI commands that run the ready-check tracker:
// run, replay, test-notify and devices.
package squad

import (
	"context"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/squadready/squadready/internal/app"
	"github.com/squadready/squadready/internal/config"
	"github.com/squadready/squadready/internal/logging"
	"github.com/squadready/squadready/internal/notify"
	"github.com/squadready/squadready/internal/tracker"
)

// assembleOptions selects the collaborators wired around the App.
type assembleOptions struct {
	// DryRun replaces audio and desktop output with a no-op notifier.
	DryRun   bool
	Observer tracker.Observer
	Sender   notify.Sender
	Clock    clockwork.Clock
}

// assembly is an App together with the player feeding its notifier.
type assembly struct {
	App    *app.App
	Player *notify.Player
}

// assemble builds the App. Unless DryRun is set, a notify.Player worker is
// started on ctx and handed to the App so Release can stop it.
func assemble(ctx context.Context, settings *config.Settings, logger zerolog.Logger, opts assembleOptions) *assembly {
	appOpts := []app.Option{
		app.WithLogger(logging.Component(logger, "app")),
		app.WithObserver(opts.Observer),
		app.WithClock(opts.Clock),
	}

	var player *notify.Player
	if !opts.DryRun {
		sender := opts.Sender
		if sender == nil {
			sender = notify.NewSender()
		}
		player = notify.NewPlayer(sender,
			notify.WithPlayerLogger(logging.Component(logger, "notify")),
			notify.WithDevice(settings.AudioOutputDevice),
		)
		go func() {
			defer logging.Recover(logger, false)
			player.Run(ctx)
		}()
		appOpts = append(appOpts,
			app.WithNotifier(notify.NewNotifier(player)),
			app.WithPlayer(player),
		)
	}

	return &assembly{App: app.New(settings, appOpts...), Player: player}
}
