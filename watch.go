package inkwell

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/xiwu-io/inkwell/content"
	"github.com/xiwu-io/inkwell/internal/logfields"
)

const watchDebounce = 250 * time.Millisecond

// Watch purges cached listings whenever a post under the content directory
// is created, written, removed or renamed. Bursts of events collapse into
// one purge. Watch blocks until ctx is canceled.
func (a *App) Watch(ctx context.Context) error {
	if a.contentFS != nil {
		return errors.New("inkwell: watch needs an on-disk content directory")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("inkwell: create file watcher: %w", err)
	}
	defer watcher.Close()

	root := a.Config.ContentDir
	if err := watcher.Add(root); err != nil {
		return fmt.Errorf("inkwell: watch %s: %w", root, err)
	}
	for _, l := range a.locales.Locales {
		dir := filepath.Join(root, l)
		if err := watcher.Add(dir); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("inkwell: watch %s: %w", dir, err)
		}
	}
	a.Logger.Info("Watching content", logfields.Path(root))

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if a.isLocaleDir(root, event) {
				// A locale directory appeared after startup.
				if err := watcher.Add(event.Name); err != nil {
					a.Logger.Warn("Watch locale directory", logfields.Path(event.Name), logfields.Error(err))
				}
				continue
			}
			if !relevant(event) {
				continue
			}
			a.Logger.Debug("Content change", logfields.File(event.Name), slog.String("op", event.Op.String()))
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			a.Invalidate()
			a.Logger.Info("Content changed, caches purged")
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.Logger.Error("Content watcher error", logfields.Error(err))
		}
	}
}

func (a *App) isLocaleDir(root string, event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) || filepath.Dir(event.Name) != filepath.Clean(root) {
		return false
	}
	if !a.locales.Supported(filepath.Base(event.Name)) {
		return false
	}
	info, err := os.Stat(event.Name)
	return err == nil && info.IsDir()
}

func relevant(event fsnotify.Event) bool {
	if !strings.HasSuffix(event.Name, content.Ext) {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
