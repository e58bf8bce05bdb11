package testutil

import (
	"bytes"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// ExecuteCommand runs root with args and returns what the command wrote to
// stdout. Flags on root and every subcommand are reset to their defaults
// first, since cobra commands held in package variables keep parsed values
// between executions.
func ExecuteCommand(root *cobra.Command, args ...string) (string, error) {
	ResetFlags(root)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// ResetFlags restores every flag on cmd and its subcommands to its default
// value and clears the Changed mark.
func ResetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		ResetFlags(sub)
	}
}
