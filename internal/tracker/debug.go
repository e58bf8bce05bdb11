package tracker

import (
	"sort"
	"time"
)

// PlayerInfo is one row of the debug player list.
type PlayerInfo struct {
	AccountName string `json:"account_name"`
	Role        string `json:"role"`
	Subgroup    uint8  `json:"subgroup"`
	ReadyStatus bool   `json:"ready_status"`
	JoinTime    uint64 `json:"join_time"`
}

// DebugInfo is a read-only snapshot of tracker state for diagnostics.
type DebugInfo struct {
	InReadyCheck      bool           `json:"in_ready_check"`
	SelfReadied       bool           `json:"self_readied"`
	ReadyCheckElapsed *time.Duration `json:"ready_check_elapsed,omitempty"`
	TimeUntilNag      *time.Duration `json:"time_until_nag,omitempty"`
	CachedPlayers     []PlayerInfo   `json:"cached_players"`
}

// DebugInfo returns a snapshot of the current state. It never mutates the
// tracker. TimeUntilNag is negative when a nag is overdue.
func (t *Tracker) DebugInfo() DebugInfo {
	now := t.clock.Now()
	info := DebugInfo{
		InReadyCheck:  t.inReadyCheck,
		SelfReadied:   t.selfReadied,
		CachedPlayers: make([]PlayerInfo, 0, len(t.cachedPlayers)),
	}
	if t.readyCheckStart != nil {
		d := now.Sub(*t.readyCheckStart)
		info.ReadyCheckElapsed = &d
	}
	if t.readyCheckNagTime != nil {
		d := t.readyCheckNagTime.Sub(now)
		info.TimeUntilNag = &d
	}
	for _, m := range t.cachedPlayers {
		info.CachedPlayers = append(info.CachedPlayers, PlayerInfo{
			AccountName: m.AccountName,
			Role:        m.Role.String(),
			Subgroup:    m.Subgroup,
			ReadyStatus: m.ReadyStatus,
			JoinTime:    m.JoinTime,
		})
	}
	sort.Slice(info.CachedPlayers, func(i, j int) bool {
		return info.CachedPlayers[i].AccountName < info.CachedPlayers[j].AccountName
	})
	return info
}
