// Package config holds site-wide static configuration. Values are read from
// flags and environment variables by the CLI (see the kong tags) and can be
// filled in directly when the engine is embedded.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/xiwu-io/inkwell/locale"
)

// Site is the identity of the site as it appears in metadata and feeds.
type Site struct {
	Name        string `name:"site-name" env:"SITE_NAME" default:"xiwu.io" help:"Site name used in titles, feeds and OG captions."`
	URL         string `name:"site-url" env:"SITE_URL" default:"https://xiwu.io" help:"Canonical site origin."`
	Description string `name:"site-desc" env:"SITE_DESC" default:"A personal blog" help:"Site description for feeds and meta tags."`
	Author      string `name:"site-author" env:"SITE_AUTHOR" help:"Default post author. Falls back to the site name."`
}

// Origin returns the site URL without a trailing slash.
func (s Site) Origin() string {
	return strings.TrimRight(s.URL, "/")
}

// Config holds all engine configuration.
type Config struct {
	Site Site `embed:""`

	Addr       string `env:"ADDR" default:":3000" help:"Listen address."`
	ContentDir string `name:"content-dir" env:"CONTENT_DIR" default:"content/blogs" help:"Root of the per-locale content directories."`
	StaticDir  string `name:"static-dir" env:"STATIC_DIR" default:"public" help:"Directory of static assets served under /public."`

	Locales         []string `env:"LOCALES" default:"en,zh" sep:"," help:"Supported locales."`
	DefaultLocale   string   `name:"default-locale" env:"DEFAULT_LOCALE" default:"en" help:"Locale served without a path prefix."`
	LocaleDetection bool     `name:"locale-detection" env:"LOCALE_DETECTION" help:"Redirect / to the best Accept-Language match."`

	IndexCacheSize   int           `name:"index-cache-size" env:"INDEX_CACHE_SIZE" default:"100" help:"Post index cache capacity (0 disables caching)."`
	IndexCacheStale  time.Duration `name:"index-cache-stale" env:"INDEX_CACHE_STALE" default:"5m" help:"Age after which cached listings are refreshed in the background."`
	IndexCacheExpire time.Duration `name:"index-cache-expire" env:"INDEX_CACHE_EXPIRE" default:"1h" help:"Age after which cached listings are discarded."`

	OGFont       string        `name:"og-font" env:"OG_FONT" help:"TrueType/OpenType font used for OG titles (defaults to Go Bold)."`
	OGRateLimit  int           `name:"og-rate-limit" env:"OG_RATE_LIMIT" default:"30" help:"Dynamic OG renders allowed per client per window."`
	OGRateWindow time.Duration `name:"og-rate-window" env:"OG_RATE_WINDOW" default:"1m" help:"Window for the OG rate limit."`
}

// Normalize fills zero values with defaults. It mirrors the kong defaults so
// a Config built in code behaves like one parsed from the command line.
func (c *Config) Normalize() {
	if c.Site.Name == "" {
		c.Site.Name = "xiwu.io"
	}
	if c.Site.URL == "" {
		c.Site.URL = "https://xiwu.io"
	}
	c.Site.URL = strings.TrimRight(c.Site.URL, "/")
	if c.Site.Description == "" {
		c.Site.Description = "A personal blog"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content/blogs"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if len(c.Locales) == 0 {
		c.Locales = []string{"en", "zh"}
	}
	if c.DefaultLocale == "" {
		c.DefaultLocale = c.Locales[0]
	}
	if c.OGRateLimit == 0 {
		c.OGRateLimit = 30
	}
	if c.OGRateWindow == 0 {
		c.OGRateWindow = time.Minute
	}
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Site.URL)
	if err != nil {
		return fmt.Errorf("config: invalid site URL %q: %w", c.Site.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("config: site URL %q must be absolute http(s)", c.Site.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("config: site URL %q has no host", c.Site.URL)
	}
	if _, err := c.LocaleSet(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.IndexCacheSize < 0 {
		return fmt.Errorf("config: index cache size must not be negative")
	}
	if c.IndexCacheStale < 0 || c.IndexCacheExpire < 0 {
		return fmt.Errorf("config: index cache durations must not be negative")
	}
	if c.OGRateWindow <= 0 {
		return fmt.Errorf("config: OG rate window must be positive, got %s", c.OGRateWindow)
	}
	if c.IndexCacheExpire > 0 && c.IndexCacheStale > c.IndexCacheExpire {
		return fmt.Errorf("config: index cache stale (%s) exceeds expire (%s)", c.IndexCacheStale, c.IndexCacheExpire)
	}
	return nil
}

// LocaleSet builds the locale.Set described by the configuration.
func (c *Config) LocaleSet() (locale.Set, error) {
	return locale.NewSet(c.Locales, c.DefaultLocale)
}
