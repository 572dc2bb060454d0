package filenotify

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"
)

const waitTimeout = 5 * time.Second

func nextEvent(t *testing.T, w FileWatcher) fsnotify.Event {
	t.Helper()
	select {
	case event := <-w.Events():
		return event
	case err := <-w.Errors():
		t.Fatalf("unexpected watch error: %v", err)
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for an event")
	}
	return fsnotify.Event{}
}

func TestPollingWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sum.calc")
	require.NoError(t, os.WriteFile(path, []byte("1 +"), 0644))

	w, err := NewPollingWatcher(path, 10*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("1 + 2 ="), 0644))
	event := nextEvent(t, w)
	require.Equal(t, path, event.Name)
	require.True(t, event.Has(fsnotify.Write))

	require.NoError(t, os.Remove(path))
	require.True(t, nextEvent(t, w).Has(fsnotify.Remove))

	require.NoError(t, os.WriteFile(path, []byte("3"), 0644))
	require.True(t, nextEvent(t, w).Has(fsnotify.Create))
}

func TestPollingWatcherMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "later.calc")

	w, err := NewPollingWatcher(path, 10*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("7"), 0644))
	require.True(t, nextEvent(t, w).Has(fsnotify.Create))
}

func TestPollingWatcherCloseTwice(t *testing.T) {
	w, err := NewPollingWatcher(filepath.Join(t.TempDir(), "x.calc"), time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, ok := <-w.Events()
	require.False(t, ok)
}

func TestEventWatcherFiltersOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tape.calc")
	require.NoError(t, os.WriteFile(path, []byte("1"), 0644))

	w, err := NewEventWatcher(path)
	if err != nil {
		t.Skipf("fsnotify unavailable: %v", err)
	}
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.calc"), []byte("2"), 0644))
	require.NoError(t, os.WriteFile(path, []byte("1 + 1 ="), 0644))

	event := nextEvent(t, w)
	require.Equal(t, path, event.Name)
}
