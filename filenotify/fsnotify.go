package filenotify

import (
	"path/filepath"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
)

// EventWatcher is an implementation of FileWatcher using fsnotify
type EventWatcher struct {
	path      string
	watcher   *fsnotify.Watcher
	events    chan fsnotify.Event
	errors    chan error
	done      chan struct{}
	closeOnce sync.Once
}

// NewEventWatcher watches the directory holding path and forwards the events
// naming path itself.
func NewEventWatcher(path string) (FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating fsnotify watcher")
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, errors.Wrapf(err, "watching %s", filepath.Dir(abs))
	}

	eventWatcher := &EventWatcher{
		path:    abs,
		watcher: watcher,
		events:  make(chan fsnotify.Event),
		errors:  make(chan error),
		done:    make(chan struct{}),
	}

	go eventWatcher.watch()

	return eventWatcher, nil
}

// Events returns the event channel
func (w *EventWatcher) Events() <-chan fsnotify.Event {
	return w.events
}

// Errors returns the error channel
func (w *EventWatcher) Errors() <-chan error {
	return w.errors
}

// Close closes the watcher
func (w *EventWatcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}

// watch forwards events for the watched file until Close is called
func (w *EventWatcher) watch() {
	defer close(w.errors)
	defer close(w.events)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			select {
			case w.events <- event:
			case <-w.done:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			case <-w.done:
				return
			}
		case <-w.done:
			return
		}
	}
}
