// Package views holds the default page templates. Sites can replace any of
// them through the engine's view functions; these keep the engine usable
// out of the box and define the markup the tests assert on.
//
// pages_templ.go is generated from pages.templ by templ generate.
package views

import (
	"github.com/xiwu-io/inkwell/content"
	"github.com/xiwu-io/inkwell/locale"
	"github.com/xiwu-io/inkwell/seo"
)

// LocaleLink is one entry of the language switcher.
type LocaleLink struct {
	Locale string
	Name   string // in its own language, e.g. "中文"
	Href   string
	Active bool
}

// Page is the data every page template receives.
type Page struct {
	Site    seo.Site
	Meta    seo.PageMeta
	Locale  string
	T       locale.Translator
	Switch  []LocaleLink
	FeedURL string
}

// Href places a site-relative path under the page's locale prefix.
func (p Page) Href(path string) string {
	return p.Site.Locales.Path(p.Locale, path)
}

// PostHref returns the path of a post in the page's locale.
func (p Page) PostHref(slug string) string {
	return p.Site.PostPath(p.Locale, slug)
}

// HomeData feeds a locale's home page.
type HomeData struct {
	Page
	Latest []content.PostMeta
}

// ListData feeds the post listing.
type ListData struct {
	Page
	Posts     []content.PostMeta
	Tags      []string
	ActiveTag string
}

// PostData feeds a post page.
type PostData struct {
	Page
	Post      content.Document
	Neighbors content.Neighbors
	Related   []content.PostMeta
}

// ErrorData feeds the not-found and server-error pages.
type ErrorData struct {
	Page
	Status  int
	Message string
}
