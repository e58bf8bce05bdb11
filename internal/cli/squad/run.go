package squad

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/squadready/squadready/internal/app"
	"github.com/squadready/squadready/internal/audiodev"
	"github.com/squadready/squadready/internal/build"
	"github.com/squadready/squadready/internal/cli/shared"
	"github.com/squadready/squadready/internal/config"
	"github.com/squadready/squadready/internal/history"
	"github.com/squadready/squadready/internal/host"
	"github.com/squadready/squadready/internal/logging"
	"github.com/squadready/squadready/internal/update"
)

const releaseTimeout = 5 * time.Second

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to the host bridge and notify on ready checks",
	Long: `Connect to the game host bridge and watch squad updates.

Plays the ready-check sound when the squad leader starts a ready check, nags
until you ready up (when ready_check_nag is enabled), and plays the
squad-ready sound once every leader, lieutenant and member is ready.

Stops cleanly on Ctrl+C or SIGTERM.`,
	Example: `  # Run with the default settings file
  squadready run

  # Override the bridge URL for one session
  SQUADREADY_HOST_URL=ws://10.0.0.5:7410/squad squadready run`,
	Args: shared.ExactArgs(0),
	RunE: runDaemon,
}

var statusInterval time.Duration

func init() {
	runCmd.GroupID = shared.GroupSquad
	runCmd.Flags().DurationVar(&statusInterval, "status-interval", time.Minute, "How often to log a tracker status line at debug level (0 disables)")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	settings, path, loadErr := shared.LoadSettings(cmd)
	if loadErr != nil {
		if path == "" {
			return loadErr
		}
		settings = config.Default()
	}

	logger, closer, err := shared.NewLogger(cmd, settings)
	if err != nil {
		return err
	}
	defer closer.Close()
	defer logging.Recover(logger, true)

	if loadErr != nil {
		logger.Warn().Err(loadErr).Str("path", path).Msg("settings unreadable, using defaults")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recorder := history.NewRecorder(history.NewWriter(settings.StateDir, settings.HistoryMaxEntries, logging.Component(logger, "history")))
	asm := assemble(ctx, settings, logger, assembleOptions{Observer: recorder})

	if settings.CheckForUpdates {
		go logUpdateCheck(ctx, logger, settings.IncludePrereleases)
	}

	monitor := audiodev.NewMonitor(logger, func(change audiodev.Change) {
		asm.App.DeviceChanged(ctx, change)
	})
	_ = monitor.Start(ctx)
	defer monitor.Stop()
	asm.App.ResolveDevice(ctx)

	if watcher := watchSettings(ctx, asm.App, path, logging.Component(logger, "config")); watcher != nil {
		defer watcher.Stop()
	}

	if statusInterval > 0 {
		go logStatus(ctx, asm.App, logger, statusInterval)
	}

	logger.Info().Str("host_url", settings.HostURL).Str("settings", path).Msg("squadready started")

	source := host.NewWebSocketSource(settings.HostURL, host.WithLogger(logging.Component(logger, "host")))
	runErr := asm.App.Run(ctx, source)

	releaseCtx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()
	releaseErr := asm.App.Release(releaseCtx)

	logger.Info().Msg("squadready stopped")
	return errors.Join(runErr, releaseErr)
}

func logUpdateCheck(ctx context.Context, logger zerolog.Logger, includePrereleases bool) {
	defer logging.Recover(logger, false)

	result := <-update.NewChecker(update.DefaultHTTPTimeout).CheckForUpdateAsync(ctx, build.Version, includePrereleases)
	switch {
	case result.Error != nil:
		logger.Debug().Err(result.Error).Msg("update check failed")
	case result.Check.UpdateAvailable:
		logger.Info().
			Str("current", result.Check.CurrentVersion).
			Str("latest", result.Check.LatestVersion).
			Str("url", result.Check.ReleaseURL).
			Msg("a newer squadready release is available")
	}
}

// watchSettings applies edits to the settings file (for example from
// `squadready config set`) to the running App. A missing file disables live
// reload.
func watchSettings(ctx context.Context, a *app.App, path string, logger zerolog.Logger) *config.Watcher {
	watcher, err := config.Watch(path, func(next *config.Settings, err error) {
		switch {
		case errors.Is(err, config.ErrWatchEnded):
			logger.Warn().Err(err).Msg("live settings reload stopped")
		case err != nil:
			logger.Warn().Err(err).Msg("settings change ignored")
		default:
			if err := a.ApplySettings(ctx, next); err != nil {
				logger.Warn().Err(err).Msg("settings change ignored")
			}
		}
	})
	if err != nil {
		logger.Debug().Err(err).Msg("live settings reload disabled")
		return nil
	}
	return watcher
}

func logStatus(ctx context.Context, a *app.App, logger zerolog.Logger, every time.Duration) {
	ticker := a.Clock().NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			info, ok := a.DebugInfo()
			if !ok {
				logger.Debug().Msg("status: waiting for host init")
				continue
			}
			ev := logger.Debug().
				Bool("in_ready_check", info.InReadyCheck).
				Bool("self_readied", info.SelfReadied).
				Int("squad_size", len(info.CachedPlayers))
			if info.TimeUntilNag != nil {
				ev = ev.Dur("time_until_nag", *info.TimeUntilNag)
			}
			ev.Msg("status")
		}
	}
}
