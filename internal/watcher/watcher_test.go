package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// startWatcher runs a watcher over dir that counts reloads, and returns
// a channel that receives after every completed reload.
func startWatcher(t *testing.T, dir string, count *atomic.Int64) chan struct{} {
	t.Helper()

	reloaded := make(chan struct{}, 16)
	w, err := New(dir, func(context.Context) error {
		count.Add(1)
		reloaded <- struct{}{}
		return nil
	}, testLogger(), Options{SettleDelay: 50 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan error, 1)
	go func() {
		started <- w.Start(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		require.NoError(t, w.Stop())
		require.NoError(t, <-started)
	})

	// Give the fsnotify watch a moment to attach before the test writes.
	time.Sleep(50 * time.Millisecond)

	return reloaded
}

func waitReload(t *testing.T, reloaded chan struct{}) {
	t.Helper()
	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcherTriggersReloadOnWrite(t *testing.T) {
	dir := t.TempDir()
	var count atomic.Int64
	reloaded := startWatcher(t, dir, &count)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "products.json"), []byte(`[]`), 0o644))

	waitReload(t, reloaded)
	assert.GreaterOrEqual(t, count.Load(), int64(1))
}

func TestWatcherCoalescesBurst(t *testing.T) {
	dir := t.TempDir()
	var count atomic.Int64
	reloaded := startWatcher(t, dir, &count)

	// An exporter rewriting both files in quick succession should
	// produce a single reload once the directory settles.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "products.json"), []byte(`[]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "categories.json"), []byte(`[]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "products.json"), []byte(`[{}]`), 0o644))

	waitReload(t, reloaded)
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int64(1), count.Load())
}

func TestWatcherIgnoresIrrelevantFiles(t *testing.T) {
	dir := t.TempDir()
	var count atomic.Int64
	startWatcher(t, dir, &count)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "products.json.tmp"), []byte(`[]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".products.json.swap"), []byte(`[]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int64(0), count.Load())
}

func TestWatcherAtomicRename(t *testing.T) {
	dir := t.TempDir()
	var count atomic.Int64
	reloaded := startWatcher(t, dir, &count)

	tmp := filepath.Join(dir, "products.json.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte(`[]`), 0o644))
	require.NoError(t, os.Rename(tmp, filepath.Join(dir, "products.json")))

	waitReload(t, reloaded)
	assert.GreaterOrEqual(t, count.Load(), int64(1))
}

func TestWatcherMissingDir(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "nope"), func(context.Context) error { return nil }, testLogger(), Options{})
	require.NoError(t, err)

	err = w.Start(context.Background())
	require.Error(t, err)
	require.NoError(t, w.Stop())
}

func TestOptionsShouldIgnore(t *testing.T) {
	var opts Options
	opts.setDefaults()

	assert.True(t, opts.shouldIgnore("/data/products.json.tmp"))
	assert.True(t, opts.shouldIgnore("/data/.products.json.swp"))
	assert.True(t, opts.shouldIgnore("/data/.DS_Store"))
	assert.False(t, opts.shouldIgnore("/data/products.json"))
	assert.False(t, opts.shouldIgnore("/data/categories.json"))
}
