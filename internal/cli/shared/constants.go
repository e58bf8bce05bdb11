// Package shared provides constants and helpers used across CLI subpackages.
// This package has no dependencies on other CLI packages to avoid circular imports.
package shared

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// Command group IDs for organizing help output
const (
	GroupSquad         = "squad"
	GroupConfiguration = "configuration"
	GroupInfo          = "info"
)

// AddGroups defines the command groups on root in display order.
func AddGroups(root *cobra.Command) {
	root.AddGroup(&cobra.Group{ID: GroupSquad, Title: "Squad:"})
	root.AddGroup(&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"})
	root.AddGroup(&cobra.Group{ID: GroupInfo, Title: "Info:"})
}

// Exit codes for CLI commands
const (
	ExitSuccess          = 0
	ExitFailure          = 1
	ExitInvalidArguments = 2
	ExitConfigError      = 3
)

// exitError carries an exit code alongside the underlying error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit code %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// NewExitError wraps err with an exit code.
func NewExitError(code int, err error) error {
	return &exitError{code: code, err: err}
}

// ConfigError marks err as a settings problem.
func ConfigError(err error) error {
	if err == nil {
		return nil
	}
	return NewExitError(ExitConfigError, err)
}

// ExitCode returns the exit code for an error returned from a command.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	return ExitFailure
}

// ExactArgs is cobra.ExactArgs reporting ExitInvalidArguments.
func ExactArgs(n int) cobra.PositionalArgs {
	return wrapArgs(cobra.ExactArgs(n))
}

// MaximumNArgs is cobra.MaximumNArgs reporting ExitInvalidArguments.
func MaximumNArgs(n int) cobra.PositionalArgs {
	return wrapArgs(cobra.MaximumNArgs(n))
}

func wrapArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return NewExitError(ExitInvalidArguments, err)
		}
		return nil
	}
}
