package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNewWatcher(t *testing.T, path string) *Watcher {
	t.Helper()
	w, err := NewWatcher(path)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })
	return w
}

func waitForEvent(t *testing.T, events <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for config event")
		return Event{}
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("work = 25\n"), 0644))

	w := mustNewWatcher(t, path)
	events := w.Start()

	// Give the watch goroutine a moment to come up.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("work = 40\n"), 0644))

	ev := waitForEvent(t, events)
	require.NoError(t, ev.Err)
	assert.Equal(t, 40, ev.Config.Work)
}

func TestWatcherSeesLateFileCreation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	w := mustNewWatcher(t, path)
	events := w.Start()

	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("short_break = 9\n"), 0644))

	ev := waitForEvent(t, events)
	require.NoError(t, ev.Err)
	assert.Equal(t, 9, ev.Config.ShortBreak)
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	w := mustNewWatcher(t, path)
	events := w.Start()

	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644))

	select {
	case ev := <-events:
		t.Fatalf("unexpected event %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherReportsParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	w := mustNewWatcher(t, path)
	events := w.Start()

	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte(`work = "broken`), 0644))

	ev := waitForEvent(t, events)
	assert.Error(t, ev.Err)
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	w, err := NewWatcher(path)
	require.NoError(t, err)

	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}
