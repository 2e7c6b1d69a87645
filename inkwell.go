// Package inkwell is a multilingual blog engine built with Go, Echo, and
// templ. Posts are MDX files under {content}/{locale}/; the engine resolves
// them into localized pages, RSS and Atom feeds, a sitemap with hreflang
// alternates, OpenGraph images and JSON-LD, and can export the whole site
// as static files.
//
// Sites may replace the default templates through the ViewFuncs struct;
// inkwell owns the handler logic, middleware and content pipeline.
package inkwell

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/xiwu-io/inkwell/config"
	"github.com/xiwu-io/inkwell/content"
	"github.com/xiwu-io/inkwell/locale"
	"github.com/xiwu-io/inkwell/og"
	"github.com/xiwu-io/inkwell/seo"
	"github.com/xiwu-io/inkwell/views"
)

const shutdownTimeout = 10 * time.Second

// ViewFuncs holds the templ components the engine calls when rendering
// pages. Any nil field falls back to the default view.
type ViewFuncs struct {
	Home        func(views.HomeData) templ.Component
	Blog        func(views.ListData) templ.Component
	Post        func(views.PostData) templ.Component
	NotFound    func(views.ErrorData) templ.Component
	ServerError func(views.ErrorData) templ.Component
}

// DefaultViews returns the built-in templates.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Home:        views.Home,
		Blog:        views.Blog,
		Post:        views.Post,
		NotFound:    views.NotFound,
		ServerError: views.ServerError,
	}
}

func (v ViewFuncs) withDefaults() ViewFuncs {
	d := DefaultViews()
	if v.Home == nil {
		v.Home = d.Home
	}
	if v.Blog == nil {
		v.Blog = d.Blog
	}
	if v.Post == nil {
		v.Post = d.Post
	}
	if v.NotFound == nil {
		v.NotFound = d.NotFound
	}
	if v.ServerError == nil {
		v.ServerError = d.ServerError
	}
	return v
}

// App is the central inkwell application. It wires together the content
// index, the derived-artifact generators, handlers, middleware, and the
// templates.
type App struct {
	Config  config.Config
	Echo    *echo.Echo
	Index   *content.Index
	Site    seo.Site
	Views   ViewFuncs
	OG      *og.Renderer
	Metrics *Metrics
	Logger  *slog.Logger

	locales      locale.Set
	cache        content.Cache
	ogLimiter    *RateLimiter
	ogImages     *imageCache
	customRoutes []func(*App)
	contentFS    fs.FS
	staticDir    string
	registry     *prom.Registry
	now          func() time.Time
}

// New validates cfg and builds a ready-to-serve App. Nothing is read from
// the content directory until the first request.
func New(cfg config.Config, opts ...Option) (*App, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("inkwell: %w", err)
	}
	set, err := cfg.LocaleSet()
	if err != nil {
		return nil, fmt.Errorf("inkwell: %w", err)
	}

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     DefaultViews(),
		Logger:    slog.Default(),
		locales:   set,
		staticDir: cfg.StaticDir,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.Views = a.Views.withDefaults()
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	a.Site = seo.NewSite(cfg.Site, set)
	a.Metrics = NewMetrics(a.registry)

	store := content.NewStore(cfg.ContentDir)
	if a.contentFS != nil {
		store = content.NewStoreFS(a.contentFS)
	}
	a.cache = content.NopCache{}
	if cfg.IndexCacheSize > 0 {
		a.cache = content.NewLRUCache(cfg.IndexCacheSize, content.Policy{
			Stale:  cfg.IndexCacheStale,
			Expire: cfg.IndexCacheExpire,
		})
	}
	a.Index = content.NewIndex(store, set,
		content.WithCache(a.cache),
		content.WithObserver(a.Metrics),
		content.WithLogger(a.Logger),
	)

	a.OG, err = og.New(cfg.Site.Name, og.WithFontFile(cfg.OGFont))
	if err != nil {
		return nil, fmt.Errorf("inkwell: %w", err)
	}
	a.ogLimiter = NewRateLimiter(cfg.OGRateLimit, cfg.OGRateWindow)
	a.ogImages = newImageCache(ogCacheSize)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return a, nil
}

// Locales returns the configured locale set.
func (a *App) Locales() locale.Set {
	return a.locales
}

// Invalidate drops every cached listing and rendered post image so the next
// request reads the content directory again.
func (a *App) Invalidate() {
	a.Index.Invalidate()
	a.ogImages.purge()
}

// Start serves HTTP on the configured address until ctx is canceled, then
// shuts the server down gracefully.
func (a *App) Start(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		errc <- a.Echo.Start(a.Config.Addr)
	}()
	a.Logger.Info("Listening",
		slog.String("addr", a.Config.Addr),
		slog.String("site", a.Config.Site.URL),
		slog.Any("locales", a.locales.Locales))

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		a.Logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := a.Echo.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("inkwell: shutdown: %w", err)
		}
		return nil
	}
}

// Close releases background resources. Call it when the app is done.
func (a *App) Close() error {
	a.ogLimiter.Stop()
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/llms.txt", a.handleLLMs)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/metrics", a.metricsHandler())

	e.GET("/og", a.handleOGTitle)
	e.GET("/og/:image", a.handleOGPost)

	e.GET("/rss.xml", a.handleRSS)
	e.GET("/feed.xml", a.handleAtom)
	e.GET("/", a.handleHome)
	e.GET("/blog", a.handleBlog)
	e.GET("/blog/:slug", a.handlePost)

	e.GET("/:locale", a.handleHome)
	e.GET("/:locale/rss.xml", a.handleRSS)
	e.GET("/:locale/feed.xml", a.handleAtom)
	e.GET("/:locale/blog", a.handleBlog)
	e.GET("/:locale/blog/:slug", a.handlePost)
}
