// Package watch notifies the TUI when a project file changes on disk
// outside of cmpr's own edit pipeline (an external editor, a build step
// regenerating a source file). Grounded on the fsnotify wrapper in
// standardbeagle-lci's internal/indexing/watcher.go, trimmed to this
// system's single concern: one project's tracked files, no debounce
// batching or scan statistics.
package watch

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// ChangedMsg is the tea.Msg emitted for the TUI's Update loop when a
// watched file is written. It carries only the path; the TUI reloads the
// project and reparses in response (§5's change-detector).
type ChangedMsg struct {
	Path string
}

// ErrMsg is emitted when the underlying watcher fails after startup.
type ErrMsg struct {
	Err error
}

// Watcher is the single background goroutine in this system — every other
// package here is called synchronously from the TUI's Update loop.
type Watcher struct {
	fsw    *fsnotify.Watcher
	events chan interface{}
}

// New creates a Watcher for the given files. It does not start watching
// until Run is called.
func New(paths []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	for _, p := range paths {
		if err := fsw.Add(p); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch: %s: %w", p, err)
		}
	}
	return &Watcher{fsw: fsw, events: make(chan interface{}, 16)}, nil
}

// Run pumps fsnotify events into w's channel until ctx is cancelled. Call
// it in its own goroutine; Next drains the channel.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.events)
	for {
		select {
		case <-ctx.Done():
			w.fsw.Close()
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.events <- ChangedMsg{Path: ev.Name}
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.events <- ErrMsg{Err: err}
		}
	}
}

// Next returns a tea.Cmd-shaped function: a blocking receive on the event
// channel, reissued by the TUI after each message so the watcher keeps
// feeding Update. Returns nil once Run has exited and the channel is
// drained.
func (w *Watcher) Next() func() interface{} {
	return func() interface{} {
		msg, ok := <-w.events
		if !ok {
			return nil
		}
		return msg
	}
}
