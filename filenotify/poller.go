package filenotify

import (
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

// PollingWatcher is an implementation of FileWatcher based on polling
type PollingWatcher struct {
	// path is the watched file
	path string
	// interval is the time between polling for file changes
	interval time.Duration
	// last is the state seen by the previous poll
	last fileInfo
	// exists records whether the file was present at the previous poll
	exists bool
	// events is the channel where events are reported
	events chan fsnotify.Event
	// errors is the channel where errors are reported
	errors chan error
	// stop is used to stop the polling
	stop chan struct{}
	// done is closed when polling has stopped
	done chan struct{}
}

type fileInfo struct {
	ModTime time.Time
	Size    int64
}

// NewPollingWatcher returns a watcher that stats path every interval.
// A missing file is not an error: it is reported with Create once it appears.
func NewPollingWatcher(path string, interval time.Duration) (FileWatcher, error) {
	watcher := &PollingWatcher{
		path:     path,
		interval: interval,
		events:   make(chan fsnotify.Event),
		errors:   make(chan error),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	info, err := os.Stat(path)
	switch {
	case err == nil:
		watcher.exists = true
		watcher.last = fileInfo{ModTime: info.ModTime(), Size: info.Size()}
	case !os.IsNotExist(err):
		return nil, err
	}

	go watcher.poll()
	return watcher, nil
}

// Events returns the event channel
func (w *PollingWatcher) Events() <-chan fsnotify.Event {
	return w.events
}

// Errors returns the error channel
func (w *PollingWatcher) Errors() <-chan error {
	return w.errors
}

// Close stops the polling watcher
func (w *PollingWatcher) Close() error {
	select {
	case <-w.stop:
		return nil
	default:
	}
	close(w.stop)
	<-w.done
	close(w.events)
	close(w.errors)
	return nil
}

// poll checks for changes to the watched file at the specified interval
func (w *PollingWatcher) poll() {
	defer close(w.done)

	// Use a ticker to poll at the specified interval
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !w.check() {
				return
			}
		case <-w.stop:
			return
		}
	}
}

// check compares the file with the previous poll. It returns false once the
// watcher is stopped while delivering.
func (w *PollingWatcher) check() bool {
	info, err := os.Stat(w.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return w.sendError(err)
		}
		if !w.exists {
			return true
		}
		w.exists = false
		return w.send(fsnotify.Remove)
	}

	current := fileInfo{ModTime: info.ModTime(), Size: info.Size()}
	if !w.exists {
		w.exists = true
		w.last = current
		return w.send(fsnotify.Create)
	}
	if current.Size != w.last.Size || !current.ModTime.Equal(w.last.ModTime) {
		w.last = current
		return w.send(fsnotify.Write)
	}
	return true
}

func (w *PollingWatcher) send(op fsnotify.Op) bool {
	select {
	case w.events <- fsnotify.Event{Name: w.path, Op: op}:
		return true
	case <-w.stop:
		return false
	}
}

func (w *PollingWatcher) sendError(err error) bool {
	select {
	case w.errors <- err:
		return true
	case <-w.stop:
		return false
	}
}
