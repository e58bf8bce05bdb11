package squad

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/squadready/squadready/internal/cli/shared"
	"github.com/squadready/squadready/internal/config"
	"github.com/squadready/squadready/internal/logging"
	"github.com/squadready/squadready/internal/notify"
)

// testNotifyTimeout bounds how long test-notify waits for playback.
const testNotifyTimeout = 30 * time.Second

var testNotifyCmd = &cobra.Command{
	Use:       "test-notify [ready-check|squad-ready]",
	Short:     "Play a notification with the current settings",
	Long:      `Play the ready-check (default) or squad-ready sound and show the desktop notification, using the configured sound files, volumes and output device.`,
	Example:   "  squadready test-notify\n  squadready test-notify squad-ready",
	Args:      shared.MaximumNArgs(1),
	ValidArgs: []string{"ready-check", "squad-ready"},
	RunE:      runTestNotify,
}

func init() {
	testNotifyCmd.GroupID = shared.GroupSquad
}

// notifyFor returns the notifier call matching a test-notify argument.
func notifyFor(n *notify.Notifier, which string) (func(*config.Settings), error) {
	switch strings.ToLower(strings.TrimSpace(which)) {
	case "", "ready-check":
		return n.PlayReadyCheck, nil
	case "squad-ready":
		return n.PlaySquadReady, nil
	default:
		return nil, shared.NewExitError(shared.ExitInvalidArguments,
			fmt.Errorf("unknown notification %q (valid: ready-check, squad-ready)", which))
	}
}

func runTestNotify(cmd *cobra.Command, args []string) error {
	which := ""
	if len(args) == 1 {
		which = args[0]
	}

	settings, _, err := shared.LoadSettings(cmd)
	if err != nil {
		return err
	}
	logger, closer, err := shared.NewLogger(cmd, settings)
	if err != nil {
		return err
	}
	defer closer.Close()

	sender := notify.NewSender()
	if !sender.SoundAvailable() {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: no sound player found for %s\n", notify.Platform())
	}

	player := notify.NewPlayer(sender,
		notify.WithPlayerLogger(logging.Component(logger, "notify")),
		notify.WithDevice(settings.AudioOutputDevice),
	)
	notifier := notify.NewNotifier(player)
	play, err := notifyFor(notifier, which)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), testNotifyTimeout)
	defer cancel()
	go player.Run(ctx)

	notifier.FlashWindow(settings)
	play(settings)

	if err := player.Terminate(ctx); err != nil {
		return fmt.Errorf("waiting for playback: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Notification sent")
	return nil
}
