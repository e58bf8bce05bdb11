// Package util provides informational commands: history, check-update and
// version.
package util

import (
	"github.com/spf13/cobra"
)

// Register adds the utility commands to the root command.
func Register(rootCmd *cobra.Command) {
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(checkUpdateCmd)
	rootCmd.AddCommand(versionCmd)
}
