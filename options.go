package inkwell

import (
	"io/fs"
	"log/slog"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// Option configures additional App behavior.
type Option func(*App)

// WithViews replaces the default templates. Nil fields keep the default.
func WithViews(v ViewFuncs) Option {
	return func(a *App) {
		a.Views = v
	}
}

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory served under /public, overriding the
// configured one.
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithLogger sets the logger for the app and its content index.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.Logger = l
		}
	}
}

// WithContentFS reads posts from fsys instead of the configured content
// directory. fsys holds one directory per locale.
func WithContentFS(fsys fs.FS) Option {
	return func(a *App) {
		a.contentFS = fsys
	}
}

// WithRegistry registers metrics on reg instead of a private registry.
func WithRegistry(reg *prom.Registry) Option {
	return func(a *App) {
		a.registry = reg
	}
}

// WithClock overrides the time source used for feed and sitemap timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		if now != nil {
			a.now = now
		}
	}
}
