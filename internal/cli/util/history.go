package util

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/squadready/squadready/internal/cli/shared"
	"github.com/squadready/squadready/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past ready checks",
	Long: `Show recorded ready checks, newest first, with how each one ended,
how many nag reminders played and how long it took.

History is kept in history.yaml under state_dir and is trimmed to
history_max_entries.`,
	Example: `  # Last 10 ready checks
  squadready history -n 10

  # Forget all recorded ready checks
  squadready history --clear`,
	Args: shared.ExactArgs(0),
	RunE: runHistory,
}

func init() {
	historyCmd.GroupID = shared.GroupInfo
	historyCmd.Flags().IntP("limit", "n", 0, "Show only the N most recent entries")
	historyCmd.Flags().Bool("clear", false, "Clear all history")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	clearFlag, _ := cmd.Flags().GetBool("clear")
	limit, _ := cmd.Flags().GetInt("limit")
	if limit < 0 {
		return shared.NewExitError(shared.ExitInvalidArguments, fmt.Errorf("limit must be positive, got %d", limit))
	}

	settings, _, err := shared.LoadSettings(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if clearFlag {
		if err := history.ClearHistory(settings.StateDir); err != nil {
			return fmt.Errorf("clearing history: %w", err)
		}
		fmt.Fprintln(out, "History cleared.")
		return nil
	}

	histFile, err := history.LoadHistory(settings.StateDir)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}
	entries := histFile.Latest(limit)
	if len(entries) == 0 {
		fmt.Fprintln(out, "No ready checks recorded yet.")
		return nil
	}
	displayEntries(out, entries)
	return nil
}

func displayEntries(out io.Writer, entries []history.HistoryEntry) {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			entry.StartedAt.Local().Format("2006-01-02 15:04:05"),
			formatOutcome(entry.Outcome),
			strconv.Itoa(entry.NagCount),
			entry.Duration,
			formatID(entry.ID),
		})
	}
	fmt.Fprintln(out, shared.RenderTable(
		[]string{"Started", "Outcome", "Nags", "Duration", "ID"},
		rows,
		[]shared.ColumnAlignment{shared.AlignLeft, shared.AlignLeft, shared.AlignRight, shared.AlignRight},
	))
}

// formatOutcome returns a color-coded outcome.
func formatOutcome(outcome history.Outcome) string {
	switch outcome {
	case history.OutcomeCompleted:
		return color.GreenString(string(outcome))
	case history.OutcomeAborted:
		return color.RedString(string(outcome))
	case history.OutcomeReset:
		return color.YellowString(string(outcome))
	case "":
		return "-"
	default:
		return string(outcome)
	}
}

// formatID shortens a uuid to its first block.
func formatID(id string) string {
	if id == "" {
		return "-"
	}
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
