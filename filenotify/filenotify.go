// Package filenotify watches a single tape file for changes.
// It uses fsnotify on the file's directory, so editors that save by renaming
// a temporary file into place are still noticed, and falls back to
// polling the file when fsnotify is unavailable.
package filenotify

import (
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultPollInterval is used by the polling fallback of New.
const DefaultPollInterval = 200 * time.Millisecond

// FileWatcher reports changes to one file
type FileWatcher interface {
	// Events returns the channel of changes to the watched file
	Events() <-chan fsnotify.Event
	// Errors returns the channel for watching errors
	Errors() <-chan error
	// Close stops watching and closes the channels
	Close() error
}

// New tries to use an fs-event watcher, and falls back to the poller if there is an error
func New(path string) (FileWatcher, error) {
	watcher, err := NewEventWatcher(path)
	if err != nil {
		return NewPollingWatcher(path, DefaultPollInterval)
	}
	return watcher, nil
}
