// Package watcher replays a tape file every time it changes and keeps the
// resulting display on screen.
package watcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/bond-kaneko/go-calculator/calc"
	"github.com/bond-kaneko/go-calculator/filenotify"
	"github.com/bond-kaneko/go-calculator/render"
	"github.com/bond-kaneko/go-calculator/tape"
	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
)

// TapeWatcher watches a tape file and replays it on change.
type TapeWatcher struct {
	tapePath      string
	debounceDelay time.Duration
	engineOptions []calc.Option
	watcher       filenotify.FileWatcher
	renderer      render.Renderer
	out           io.Writer
	logger        *slog.Logger

	// mu serializes replays fired by the debounce timer.
	mu       sync.Mutex
	replays  int
	lastSnap calc.Snapshot
}

// NewTapeWatcher creates a watcher for the tape at tapePath. The tape does
// not need to exist yet.
func NewTapeWatcher(tapePath string) (*TapeWatcher, error) {
	if tapePath == "" {
		return nil, errors.New("no tape file given")
	}

	watcher, err := filenotify.New(tapePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize watcher")
	}

	live := render.NewLive(os.Stdout, true)
	return &TapeWatcher{
		tapePath:      tapePath,
		debounceDelay: 500 * time.Millisecond,
		watcher:       watcher,
		renderer:      live,
		out:           live.Writer(),
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// SetDebounceDelay sets the delay between a change and the replay
func (tw *TapeWatcher) SetDebounceDelay(delay time.Duration) {
	tw.debounceDelay = delay
}

// SetEngineOptions sets the options of the engine created for every replay
func (tw *TapeWatcher) SetEngineOptions(opts ...calc.Option) {
	tw.engineOptions = opts
}

// SetRenderer sets where the final display of a replay is drawn
func (tw *TapeWatcher) SetRenderer(r render.Renderer) {
	tw.renderer = r
}

// SetOutput sets where status lines and tape errors are written. With a
// live renderer, pass its Writer so status lines do not break the redraw.
func (tw *TapeWatcher) SetOutput(out io.Writer) {
	tw.out = out
}

// SetLogger sets the logger for watch errors
func (tw *TapeWatcher) SetLogger(logger *slog.Logger) {
	tw.logger = logger
}

// Replays returns how many times the tape has been replayed.
func (tw *TapeWatcher) Replays() int {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return tw.replays
}

// LastSnapshot returns the display produced by the latest replay.
func (tw *TapeWatcher) LastSnapshot() calc.Snapshot {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return tw.lastSnap
}

// Watch replays the tape once, then again after every change, until ctx is
// cancelled or the file watcher stops.
func (tw *TapeWatcher) Watch(ctx context.Context) error {
	defer tw.watcher.Close()

	fmt.Fprintf(tw.out, "Watching %s. Press Ctrl+C to exit.\n", tw.tapePath)

	// Replay immediately on startup
	tw.replay()

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-tw.watcher.Events():
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			tw.logger.Debug("tape changed", "path", event.Name, "op", event.Op.String())

			// Reset timer if already set
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			// Debounce so an editor's burst of writes replays once
			debounceTimer = time.AfterFunc(tw.debounceDelay, func() {
				if ctx.Err() == nil {
					tw.replay()
				}
			})

		case err, ok := <-tw.watcher.Errors():
			if !ok {
				return nil
			}
			tw.logger.Warn("watch error", "err", err)
		}
	}
}

// Run replays the tape through a fresh engine and renders the final display.
// A tape that cannot be read or parsed is reported on the output and leaves
// the previous display in place.
func (tw *TapeWatcher) Run() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	t, err := tape.ReadFile(tw.tapePath)
	if err != nil {
		fmt.Fprintf(tw.out, "TAPE ERROR: %v\n", err)
		return err
	}

	s, err := t.Replay(calc.New(tw.engineOptions...), nil)
	if err != nil {
		return err
	}
	tw.replays++
	tw.lastSnap = s
	if s.Halted() {
		tw.logger.Info("tape halted", "path", tw.tapePath, "err", s.Err)
	}
	if err := tw.renderer.Render(s); err != nil {
		return errors.Wrap(err, "rendering replay")
	}
	return nil
}

// replay runs the tape from the watch loop, where no caller receives the error.
func (tw *TapeWatcher) replay() {
	if err := tw.Run(); err != nil {
		tw.logger.Warn("replay failed", "path", tw.tapePath, "err", err)
	}
}
