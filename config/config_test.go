package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalize_FillsDefaults(t *testing.T) {
	var c Config
	c.Normalize()

	require.Equal(t, "xiwu.io", c.Site.Name)
	require.Equal(t, "https://xiwu.io", c.Site.URL)
	require.Equal(t, ":3000", c.Addr)
	require.Equal(t, "content/blogs", c.ContentDir)
	require.Equal(t, []string{"en", "zh"}, c.Locales)
	require.Equal(t, "en", c.DefaultLocale)
	require.Equal(t, time.Minute, c.OGRateWindow)
	require.NoError(t, c.Validate())
}

func TestNormalize_TrimsTrailingSlash(t *testing.T) {
	c := Config{Site: Site{URL: "https://example.com/"}}
	c.Normalize()
	require.Equal(t, "https://example.com", c.Site.URL)
	require.Equal(t, "https://example.com", c.Site.Origin())
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Config)
	}{
		{"relative url", func(c *Config) { c.Site.URL = "/blog" }},
		{"no host", func(c *Config) { c.Site.URL = "https://" }},
		{"default outside locales", func(c *Config) { c.DefaultLocale = "fr" }},
		{"negative cache", func(c *Config) { c.IndexCacheSize = -1 }},
		{"negative og window", func(c *Config) { c.OGRateWindow = -time.Minute }},
		{"negative stale", func(c *Config) { c.IndexCacheStale = -time.Second }},
		{"negative expire", func(c *Config) { c.IndexCacheExpire = -time.Second }},
		{"stale after expire", func(c *Config) {
			c.IndexCacheStale = time.Hour
			c.IndexCacheExpire = time.Minute
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var c Config
			c.Normalize()
			tc.mut(&c)
			require.Error(t, c.Validate())
		})
	}
}
