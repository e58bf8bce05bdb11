// Package config provides the settings commands and doctor.
package config

import (
	"github.com/spf13/cobra"
)

// Register adds the configuration commands to the root command.
func Register(rootCmd *cobra.Command) {
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(doctorCmd)
}
