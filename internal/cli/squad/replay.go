package squad

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/squadready/squadready/internal/cli/shared"
	"github.com/squadready/squadready/internal/host"
	"github.com/squadready/squadready/internal/logging"
	"github.com/squadready/squadready/internal/tracker"
)

var replayCmd = &cobra.Command{
	Use:   "replay <file.jsonl|->",
	Short: "Feed a recorded host session through the tracker",
	Long: `Replay a recorded host session, one JSON message per line.

Each line is an init or squad_update message as sent by the host bridge. A
"delay_ms" field on a line waits that long before the line is applied, so
nag reminders fire as they would have live. Use "-" to read from stdin.`,
	Example: `  # Replay silently and show the final tracker state
  squadready replay session.jsonl --dry-run --snapshot

  # Replay a capture that lacks an init line
  squadready replay capture.jsonl --self Self.1234`,
	Args: shared.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.GroupID = shared.GroupSquad
	replayCmd.Flags().String("self", "", "Local account name to initialize with before the first line")
	replayCmd.Flags().Bool("snapshot", false, "Print the tracker state after the replay")
	replayCmd.Flags().Bool("dry-run", false, "Do not play sounds or show notifications")
}

// lifecycleCounter tallies ready-check lifecycle events. Ends of checks that
// were not active are not counted.
type lifecycleCounter struct {
	mu     sync.Mutex
	counts map[tracker.EventKind]int
}

func newLifecycleCounter() *lifecycleCounter {
	return &lifecycleCounter{counts: make(map[tracker.EventKind]int)}
}

func (c *lifecycleCounter) ObserveReadyCheck(ev tracker.LifecycleEvent) {
	if !ev.Active {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[ev.Kind]++
}

func (c *lifecycleCounter) get(kind tracker.EventKind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[kind]
}

func runReplay(cmd *cobra.Command, args []string) error {
	self, _ := cmd.Flags().GetString("self")
	snapshot, _ := cmd.Flags().GetBool("snapshot")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	settings, _, err := shared.LoadSettings(cmd)
	if err != nil {
		return err
	}
	logger, closer, err := shared.NewLogger(cmd, settings)
	if err != nil {
		return err
	}
	defer closer.Close()

	in, err := openReplayInput(cmd, args[0])
	if err != nil {
		return err
	}
	defer in.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	counter := newLifecycleCounter()
	asm := assemble(ctx, settings, logger, assembleOptions{DryRun: dryRun, Observer: counter})
	if self != "" {
		asm.App.HostInit(self)
	}

	source := host.NewReplaySource(in, host.WithReplayLogger(logging.Component(logger, "replay")))
	runErr := asm.App.Run(ctx, source)
	// Snapshot before Release, which resets the tracker.
	info, initialized := asm.App.DebugInfo()
	replayedSelf := asm.App.Self()

	releaseCtx, cancelRelease := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancelRelease()
	if err := errors.Join(runErr, asm.App.Release(releaseCtx)); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Ready checks started: %d, completed: %d, aborted: %d, reset: %d, nags: %d\n",
		counter.get(tracker.EventStarted),
		counter.get(tracker.EventCompleted),
		counter.get(tracker.EventAborted),
		counter.get(tracker.EventReset),
		counter.get(tracker.EventNagged),
	)

	if snapshot {
		if !initialized {
			fmt.Fprintln(out, "No init message was replayed; pass --self to set the local account.")
			return nil
		}
		printSnapshot(out, replayedSelf, info)
	}
	return nil
}

func openReplayInput(cmd *cobra.Command, name string) (io.ReadCloser, error) {
	if name == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, shared.NewExitError(shared.ExitInvalidArguments, fmt.Errorf("opening replay: %w", err))
	}
	return f, nil
}

func printSnapshot(out io.Writer, self string, info tracker.DebugInfo) {
	fmt.Fprintf(out, "Self: %s\n", self)
	fmt.Fprintf(out, "In ready check: %t\n", info.InReadyCheck)
	fmt.Fprintf(out, "Self readied: %t\n", info.SelfReadied)
	if info.ReadyCheckElapsed != nil {
		fmt.Fprintf(out, "Ready check elapsed: %s\n", info.ReadyCheckElapsed.Round(time.Millisecond))
	}
	if info.TimeUntilNag != nil {
		fmt.Fprintf(out, "Time until nag: %s\n", info.TimeUntilNag.Round(time.Millisecond))
	}

	rows := make([][]string, 0, len(info.CachedPlayers))
	for _, p := range info.CachedPlayers {
		rows = append(rows, []string{
			p.AccountName,
			p.Role,
			strconv.Itoa(int(p.Subgroup)),
			readyMark(p.ReadyStatus),
			strconv.FormatUint(p.JoinTime, 10),
		})
	}
	fmt.Fprintln(out, shared.RenderTable(
		[]string{"Account", "Role", "Subgroup", "Ready", "Joined"},
		rows,
		[]shared.ColumnAlignment{shared.AlignLeft, shared.AlignLeft, shared.AlignRight, shared.AlignLeft, shared.AlignRight},
	))
}

func readyMark(ready bool) string {
	if ready {
		return "yes"
	}
	return "no"
}
