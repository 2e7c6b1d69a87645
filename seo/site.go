// Package seo derives the machine-readable surfaces of the site from post
// metadata: image URLs, JSON-LD, page metadata, RSS and Atom feeds, the
// sitemap, robots.txt and llms.txt. All functions are pure; callers supply
// the listings from the content index.
package seo

import (
	"net/url"
	"strings"

	"github.com/xiwu-io/inkwell/config"
	"github.com/xiwu-io/inkwell/locale"
)

// Site combines the site identity with its locale layout.
type Site struct {
	config.Site
	Locales locale.Set
}

// NewSite returns a Site.
func NewSite(s config.Site, locales locale.Set) Site {
	return Site{Site: s, Locales: locales}
}

// URL returns the absolute URL of page path p in locale l.
func (s Site) URL(l, p string) string {
	return s.Origin() + s.Locales.Path(l, p)
}

// PostPath returns the site-relative path of a post.
func (s Site) PostPath(l, slug string) string {
	return s.Locales.Path(l, "/blog/"+url.PathEscape(slug))
}

// PostURL returns the canonical URL of a post.
func (s Site) PostURL(l, slug string) string {
	return s.Origin() + s.PostPath(l, slug)
}

// AuthorName is the byline used when a post names no author.
func (s Site) AuthorName() string {
	if a := strings.TrimSpace(s.Author); a != "" {
		return a
	}
	return s.Name
}

// OGImagePath returns the site-relative path of a post's generated preview
// image.
func OGImagePath(l, slug string) string {
	return "/og/" + url.PathEscape(l+"-"+slug) + ".png"
}
