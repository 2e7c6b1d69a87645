package inkwell

import (
	"net/http"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/golang/groupcache/lru"
	"github.com/labstack/echo/v4"
)

const (
	ogCacheSize   = 256
	maxOGTitleLen = 200
	mimePNG       = "image/png"
)

// handleOGTitle renders an image for an arbitrary ?title=. Rendering is
// CPU-bound and the input is client-controlled, so each client is rate
// limited and the title is capped.
func (a *App) handleOGTitle(c echo.Context) error {
	if !a.ogLimiter.Allow(c.RealIP()) {
		a.Metrics.OGRateLimited()
		return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
	}
	title := strings.TrimSpace(c.QueryParam("title"))
	if title == "" {
		title = a.Site.Name
	}
	b, err := a.OG.PNG(truncateRunes(title, maxOGTitleLen))
	if err != nil {
		return err
	}
	a.Metrics.OGRendered("title")
	return c.Blob(http.StatusOK, mimePNG, b)
}

// handleOGPost serves /og/{locale}-{slug}.png for a published post. Images
// are memoized until the content changes.
func (a *App) handleOGPost(c echo.Context) error {
	name, err := pathParam(c, "image")
	if err != nil {
		return err
	}
	l, slug, ok := a.parseOGImage(name)
	if !ok {
		return echo.ErrNotFound
	}
	c.Set(localeContextKey, l)

	key := l + "/" + slug
	if b, ok := a.ogImages.get(key); ok {
		return c.Blob(http.StatusOK, mimePNG, b)
	}
	doc, err := a.Index.Post(c.Request().Context(), l, slug)
	if err != nil {
		return err
	}
	title := doc.FrontMatter.Title
	if title == "" {
		title = slug
	}
	b, err := a.OG.PNG(truncateRunes(title, maxOGTitleLen))
	if err != nil {
		return err
	}
	a.ogImages.add(key, b)
	a.Metrics.OGRendered("post")
	return c.Blob(http.StatusOK, mimePNG, b)
}

// parseOGImage splits "{locale}-{slug}.png". Locales may contain hyphens
// themselves ("zh-TW"), so the longest matching locale wins.
func (a *App) parseOGImage(name string) (l, slug string, ok bool) {
	stem, found := strings.CutSuffix(name, ".png")
	if !found {
		return "", "", false
	}
	for _, loc := range a.locales.Locales {
		rest, found := strings.CutPrefix(stem, loc+"-")
		if found && rest != "" && len(loc) > len(l) {
			l, slug = loc, rest
		}
	}
	return l, slug, l != ""
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}

// imageCache holds encoded post images.
type imageCache struct {
	mu  sync.Mutex
	lru *lru.Cache
}

func newImageCache(capacity int) *imageCache {
	return &imageCache{lru: lru.New(capacity)}
}

func (c *imageCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

func (c *imageCache) add(key string, b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(key, b)
}

func (c *imageCache) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Clear()
}
