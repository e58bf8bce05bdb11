package host

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/squadready/squadready/internal/roster"
)

const maxReplayLine = 1 << 20

// ReplaySource replays a JSONL recording, one roster.Message per line.
// Blank lines and lines starting with '#' are skipped. A message's delay_ms
// is waited out on the clock before it is dispatched.
type ReplaySource struct {
	r      io.Reader
	clock  clockwork.Clock
	logger zerolog.Logger
}

// ReplayOption configures a ReplaySource.
type ReplayOption func(*ReplaySource)

// WithReplayClock sets the clock used for delays.
func WithReplayClock(clock clockwork.Clock) ReplayOption {
	return func(s *ReplaySource) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithReplayLogger sets the logger.
func WithReplayLogger(logger zerolog.Logger) ReplayOption {
	return func(s *ReplaySource) {
		s.logger = logger
	}
}

// NewReplaySource creates a source reading from r.
func NewReplaySource(r io.Reader, opts ...ReplayOption) *ReplaySource {
	s := &ReplaySource{
		r:      r,
		clock:  clockwork.NewRealClock(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run dispatches every message to h. A malformed line stops the replay with
// an error naming the line.
func (s *ReplaySource) Run(ctx context.Context, h Handler) error {
	scanner := bufio.NewScanner(s.r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxReplayLine)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		msg, err := roster.DecodeMessage([]byte(text))
		if err != nil {
			return fmt.Errorf("replay line %d: %w", line, err)
		}

		if msg.DelayMs > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-s.clock.After(time.Duration(msg.DelayMs) * time.Millisecond):
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		Dispatch(h, msg, s.logger)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading replay: %w", err)
	}
	return nil
}
