package project

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits for a burst of events to settle.
const DefaultDebounce = 200 * time.Millisecond

// Watch calls onChange whenever the manifest or a .qs file under the
// source directory changes, once per burst of events. It blocks until ctx
// is done. Errors from onChange are reported to onError, if set, and do
// not stop the watch.
func (m *Manifest) Watch(ctx context.Context, debounce time.Duration, onChange func() error, onError func(error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(m.Root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", m.Root, err)
	}
	// src may not exist yet; the manifest directory is still watched
	_ = w.Add(m.SourceDir())

	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	timer := time.NewTimer(debounce)
	timer.Stop()
	var fire <-chan time.Time

	report := func(err error) {
		if err != nil && onError != nil {
			onError(err)
		}
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !m.relevant(ev) {
				continue
			}
			timer.Reset(debounce)
			fire = timer.C
		case <-fire:
			fire = nil
			report(onChange())
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			report(fmt.Errorf("watch: %w", err))
		}
	}
}

func (m *Manifest) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	return name == m.Path || filepath.Ext(name) == ".qs"
}
