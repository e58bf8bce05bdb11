package history

import (
	"github.com/google/uuid"

	"github.com/squadready/squadready/internal/tracker"
)

// entryLogger is the part of Writer the Recorder needs.
type entryLogger interface {
	LogEntry(entry HistoryEntry)
}

// Recorder turns tracker lifecycle events into history entries.
// It is driven from the tracker's call path and is not safe for concurrent use.
type Recorder struct {
	writer  entryLogger
	newID   func() string
	current *HistoryEntry
}

// NewRecorder creates a recorder appending to writer.
func NewRecorder(writer entryLogger) *Recorder {
	return &Recorder{writer: writer, newID: uuid.NewString}
}

// ObserveReadyCheck implements tracker.Observer.
func (r *Recorder) ObserveReadyCheck(ev tracker.LifecycleEvent) {
	switch ev.Kind {
	case tracker.EventStarted:
		if r.current != nil {
			// A new leader started a check over an open one.
			r.close(ev, OutcomeAborted)
		}
		r.current = &HistoryEntry{ID: r.newID(), StartedAt: ev.At}
	case tracker.EventNagged:
		if r.current != nil {
			r.current.NagCount++
		}
	case tracker.EventCompleted:
		r.close(ev, OutcomeCompleted)
	case tracker.EventAborted:
		r.close(ev, OutcomeAborted)
	case tracker.EventReset:
		r.close(ev, OutcomeReset)
	}
}

func (r *Recorder) close(ev tracker.LifecycleEvent, outcome Outcome) {
	if r.current == nil {
		return
	}
	entry := *r.current
	r.current = nil
	if !ev.Active {
		return
	}
	entry.EndedAt = ev.At
	entry.Outcome = outcome
	entry.Duration = ev.At.Sub(entry.StartedAt).String()
	r.writer.LogEntry(entry)
}

// Open reports whether a ready check is being recorded.
func (r *Recorder) Open() bool {
	return r.current != nil
}
