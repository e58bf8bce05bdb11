package host

import (
	"sync"

	"github.com/squadready/squadready/internal/roster"
)

// recordingHandler captures callbacks and signals each one on calls.
type recordingHandler struct {
	mu      sync.Mutex
	inits   []string
	batches [][]roster.UserUpdate
	calls   chan struct{}
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{calls: make(chan struct{}, 64)}
}

func (h *recordingHandler) HostInit(accountName string) {
	h.mu.Lock()
	h.inits = append(h.inits, accountName)
	h.mu.Unlock()
	h.calls <- struct{}{}
}

func (h *recordingHandler) SquadUpdate(users []roster.UserUpdate) {
	h.mu.Lock()
	h.batches = append(h.batches, users)
	h.mu.Unlock()
	h.calls <- struct{}{}
}

func (h *recordingHandler) snapshot() ([]string, [][]roster.UserUpdate) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.inits...), append([][]roster.UserUpdate(nil), h.batches...)
}
