package cli

import (
	"github.com/squadready/squadready/internal/cli/shared"
)

// Exit codes for the squadready CLI (re-exported from shared)
const (
	ExitSuccess          = shared.ExitSuccess
	ExitFailure          = shared.ExitFailure
	ExitInvalidArguments = shared.ExitInvalidArguments
	ExitConfigError      = shared.ExitConfigError
)

// ExitCode returns the process exit code for an error returned by Execute.
func ExitCode(err error) int {
	return shared.ExitCode(err)
}
