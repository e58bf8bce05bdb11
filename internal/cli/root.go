// Package cli provides the cobra command tree for squadready: the tracker
// daemon and replay (squad), settings management (config) and informational
// commands (util).
package cli

import (
	"github.com/spf13/cobra"

	"github.com/squadready/squadready/internal/build"
	"github.com/squadready/squadready/internal/cli/config"
	"github.com/squadready/squadready/internal/cli/shared"
	"github.com/squadready/squadready/internal/cli/squad"
	"github.com/squadready/squadready/internal/cli/util"
)

// Command group IDs for organizing help output (re-exported from shared)
const (
	GroupSquad         = shared.GroupSquad
	GroupConfiguration = shared.GroupConfiguration
	GroupInfo          = shared.GroupInfo
)

var rootCmd = &cobra.Command{
	Use:   "squadready",
	Short: "Squad ready-check notifications",
	Long: `squadready watches your squad through the game's host bridge and tells you
when a ready check starts, nags you until you ready up, and lets you know
when the whole squad is ready.`,
	Example: `  # Write default settings, then start watching
  squadready config init
  squadready run

  # Hear what the ready-check sound will be
  squadready test-notify ready-check

  # Replay a captured session with the final tracker state
  squadready replay session.jsonl --dry-run --snapshot`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = build.Version
	shared.AddGroups(rootCmd)
	rootCmd.SetHelpCommandGroupID(GroupInfo)
	rootCmd.SetCompletionCommandGroupID(GroupConfiguration)

	shared.AddPersistentFlags(rootCmd)

	squad.Register(rootCmd)
	config.Register(rootCmd)
	util.Register(rootCmd)
}
