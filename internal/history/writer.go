package history

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Writer appends entries to the history file with automatic pruning.
type Writer struct {
	// StateDir is the directory containing the history file.
	StateDir string
	// MaxEntries is the maximum number of entries to retain; 0 keeps all.
	MaxEntries int

	mu     sync.Mutex
	logger zerolog.Logger
}

// NewWriter creates a new history writer.
func NewWriter(stateDir string, maxEntries int, logger zerolog.Logger) *Writer {
	return &Writer{
		StateDir:   stateDir,
		MaxEntries: maxEntries,
		logger:     logger,
	}
}

// LogEntry adds a new entry to the history file.
// Errors are logged and never returned.
func (w *Writer) LogEntry(entry HistoryEntry) {
	if err := w.Append(entry); err != nil {
		w.logger.Warn().Err(err).Str("id", entry.ID).Msg("failed to record ready-check history")
	}
}

// Append loads the existing history, appends entry, prunes and saves.
func (w *Writer) Append(entry HistoryEntry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	history, err := LoadHistory(w.StateDir)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	history.Entries = append(history.Entries, entry)
	if w.MaxEntries > 0 && len(history.Entries) > w.MaxEntries {
		excess := len(history.Entries) - w.MaxEntries
		history.Entries = history.Entries[excess:]
	}

	if err := SaveHistory(w.StateDir, history); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	return nil
}
