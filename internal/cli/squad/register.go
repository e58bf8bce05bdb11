package squad

import (
	"github.com/spf13/cobra"
)

// Register adds the tracker commands to the root command.
func Register(rootCmd *cobra.Command) {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(testNotifyCmd)
	rootCmd.AddCommand(devicesCmd)
}
