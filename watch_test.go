package inkwell

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"
)

func writePost(t *testing.T, path, title string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	data := "---\ntitle: " + title + "\ndate: 2025-01-01\n---\nbody"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func TestWatch_PurgesOnChange(t *testing.T) {
	dir := t.TempDir()
	writePost(t, filepath.Join(dir, "en", "first.mdx"), "First")

	cfg := testConfig()
	cfg.ContentDir = dir
	cfg.IndexCacheSize = 10
	cfg.IndexCacheStale = time.Hour
	cfg.IndexCacheExpire = 2 * time.Hour
	app := newTestApp(t, cfg, nil)

	require.NotContains(t, get(app, "/blog").Body.String(), "Fresh")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Watch(ctx) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})

	// Rewrite until the watcher has registered and the debounce fired.
	fresh := []byte("---\ntitle: Fresh\ndate: 2025-02-01\n---\nbody")
	require.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(dir, "en", "fresh.mdx"), fresh, 0o644)
		return strings.Contains(get(app, "/blog").Body.String(), "Fresh")
	}, 5*time.Second, 2*watchDebounce)
}

func TestWatch_RequiresDirectory(t *testing.T) {
	app := newTestApp(t, testConfig(), siteFS())
	require.Error(t, app.Watch(context.Background()))
}

func TestRelevant(t *testing.T) {
	require.True(t, relevant(fsnotify.Event{Name: "en/a.mdx", Op: fsnotify.Write}))
	require.True(t, relevant(fsnotify.Event{Name: "en/a.mdx", Op: fsnotify.Remove}))
	require.False(t, relevant(fsnotify.Event{Name: "en/a.mdx", Op: fsnotify.Chmod}))
	require.False(t, relevant(fsnotify.Event{Name: "en/a.md~", Op: fsnotify.Write}))
}
