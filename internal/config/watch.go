package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/knadh/koanf/providers/file"
)

// ErrWatchEnded wraps the error that stopped a settings watch, such as the
// file being removed. No further changes are reported after it.
var ErrWatchEnded = errors.New("settings watch ended")

// Watcher reloads a settings file whenever it is written or replaced.
type Watcher struct {
	provider *file.File
	once     sync.Once
}

// Watch starts watching the settings file at path, which must exist. Each
// change is loaded with the same layering as Load and handed to onChange
// with the load error, if any. onChange runs on the watcher goroutine.
func Watch(path string, onChange func(*Settings, error)) (*Watcher, error) {
	w := &Watcher{provider: file.Provider(path)}
	err := w.provider.Watch(func(_ interface{}, err error) {
		if err != nil {
			onChange(nil, fmt.Errorf("%w: %v", ErrWatchEnded, err))
			return
		}
		onChange(Load(path))
	})
	if err != nil {
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}
	return w, nil
}

// Stop ends the watch. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.once.Do(func() {
		err = w.provider.Unwatch()
	})
	return err
}
