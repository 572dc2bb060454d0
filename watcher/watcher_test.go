package watcher

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bond-kaneko/go-calculator/calc"
	"github.com/bond-kaneko/go-calculator/render"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWatcher(t *testing.T, content string) (*TapeWatcher, string, *bytes.Buffer) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tape.calc")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	tw, err := NewTapeWatcher(path)
	require.NoError(t, err)

	var out bytes.Buffer
	tw.SetOutput(&out)
	tw.SetRenderer(render.NewPlain(&out, false))
	tw.SetDebounceDelay(10 * time.Millisecond)
	return tw, path, &out
}

func TestNewTapeWatcherRequiresPath(t *testing.T) {
	_, err := NewTapeWatcher("")
	require.Error(t, err)
}

func TestRun(t *testing.T) {
	tw, _, out := newTestWatcher(t, "10 / 3 =\n")
	defer tw.watcher.Close()

	require.NoError(t, tw.Run())
	assert.Equal(t, 1, tw.Replays())
	assert.Equal(t, "3.33", tw.LastSnapshot().Result)
	assert.Equal(t, "10 / 3 = | 3.33\n", out.String())
}

func TestRunUsesEngineOptions(t *testing.T) {
	tw, _, _ := newTestWatcher(t, "10 / 3 =\n")
	defer tw.watcher.Close()

	tw.SetEngineOptions(calc.WithPrecision(4))
	require.NoError(t, tw.Run())
	assert.Equal(t, "3.3333", tw.LastSnapshot().Result)
}

func TestRunStartsFromFreshEngine(t *testing.T) {
	tw, _, _ := newTestWatcher(t, "5 m+ 1 +\n")
	defer tw.watcher.Close()

	require.NoError(t, tw.Run())
	require.NoError(t, tw.Run())
	assert.Equal(t, "M5", tw.LastSnapshot().Memory)
}

func TestRunReportsBadTape(t *testing.T) {
	tw, _, out := newTestWatcher(t, "1 + banana\n")
	defer tw.watcher.Close()

	err := tw.Run()
	require.Error(t, err)
	assert.Contains(t, out.String(), "TAPE ERROR")
	assert.Equal(t, 0, tw.Replays())
}

func TestRunHaltedTape(t *testing.T) {
	tw, _, out := newTestWatcher(t, "1 / 0 =\n")
	defer tw.watcher.Close()

	require.NoError(t, tw.Run())
	assert.True(t, errors.Is(tw.LastSnapshot().Err, calc.ErrDivideByZero))
	assert.Contains(t, out.String(), "Cannot divide by zero")
}

func TestWatchReplaysOnChange(t *testing.T) {
	tw, path, _ := newTestWatcher(t, "1 + 1 =\n")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- tw.Watch(ctx) }()

	require.Eventually(t, func() bool { return tw.Replays() == 1 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, "2", tw.LastSnapshot().Result)

	require.NoError(t, os.WriteFile(path, []byte("2 x 21 =\n"), 0644))
	require.Eventually(t, func() bool { return tw.LastSnapshot().Result == "42" }, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

type failingRenderer struct{}

func (failingRenderer) Render(calc.Snapshot) error {
	return errors.New("display unavailable")
}

// lockedBuffer lets the debounce timer goroutine and the test share a log.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunReturnsRenderError(t *testing.T) {
	tw, _, _ := newTestWatcher(t, "1 + 1 =\n")
	defer tw.watcher.Close()

	tw.SetRenderer(failingRenderer{})
	err := tw.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "display unavailable")
}

func TestWatchLogsFailedReplays(t *testing.T) {
	tw, path, _ := newTestWatcher(t, "1 + 1 =\n")
	tw.SetRenderer(failingRenderer{})
	var logs lockedBuffer
	tw.SetLogger(slog.New(slog.NewTextHandler(&logs, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- tw.Watch(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Count(logs.String(), "replay failed") == 1
	}, 5*time.Second, 10*time.Millisecond)
	assert.Contains(t, logs.String(), "display unavailable")

	require.NoError(t, os.WriteFile(path, []byte("2 x 21 =\n"), 0644))
	require.Eventually(t, func() bool {
		return strings.Count(logs.String(), "replay failed") >= 2
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
