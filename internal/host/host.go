// Package host delivers squad events from the game host bridge to a Handler.
//
// Two sources are provided: WebSocketSource for the live bridge and
// ReplaySource for recorded JSONL sessions. Both decode roster.Message frames
// and dispatch them in arrival order on a single goroutine.
package host

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/squadready/squadready/internal/roster"
)

// Handler receives host callbacks.
type Handler interface {
	// HostInit announces the local account once the host knows it.
	HostInit(accountName string)
	// SquadUpdate delivers one ordered batch of user updates.
	SquadUpdate(users []roster.UserUpdate)
}

// Source feeds a Handler until its input ends or ctx is cancelled.
type Source interface {
	Run(ctx context.Context, h Handler) error
}

// Dispatch routes one decoded message to h.
func Dispatch(h Handler, msg roster.Message, logger zerolog.Logger) {
	switch msg.Type {
	case roster.MessageInit:
		if msg.AccountName == nil || roster.NormalizeAccountName(*msg.AccountName) == "" {
			logger.Warn().Msg("init message without account name ignored")
			return
		}
		h.HostInit(*msg.AccountName)
	case roster.MessageSquadUpdate:
		h.SquadUpdate(msg.Users)
	default:
		logger.Debug().Str("type", string(msg.Type)).Msg("ignoring unknown host message")
	}
}
