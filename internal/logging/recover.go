package logging

import (
	"fmt"
	"runtime/debug"

	"github.com/rs/zerolog"
)

// Recover logs an in-flight panic with its stack. It must be deferred
// directly:
//
//	defer logging.Recover(logger, false)
//
// With repanic set the panic continues after it has been logged.
func Recover(logger zerolog.Logger, repanic bool) {
	r := recover()
	if r == nil {
		return
	}
	logger.Error().
		Str("panic", fmt.Sprint(r)).
		Str("stack", string(debug.Stack())).
		Msg("panic recovered")
	if repanic {
		panic(r)
	}
}
