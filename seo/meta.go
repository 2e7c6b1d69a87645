package seo

import (
	"net/url"
	"time"

	"github.com/xiwu-io/inkwell/content"
)

// Alternate is one hreflang link of a page.
type Alternate struct {
	Hreflang string
	URL      string
}

// PageMeta carries per-page metadata into the document head.
type PageMeta struct {
	Title       string // full <title>, "X | Site"
	OGTitle     string
	Description string
	Canonical   string
	Locale      string
	OGType      string // "website" or "article"
	Image       string
	TwitterCard string

	PublishedTime string // RFC 3339
	ModifiedTime  string // RFC 3339
	Authors       []string
	Tags          []string

	Alternates []Alternate
	JSONLD     []string
}

// TitleTemplate formats a page title the way every page does.
func TitleTemplate(site Site, title string) string {
	if title == "" || title == site.Name {
		return site.Name
	}
	return title + " | " + site.Name
}

// Alternates returns hreflang links for pagePath in each of locales, plus an
// x-default pointing at the default locale when it is among them and at the
// first locale otherwise.
func Alternates(site Site, pagePath string, locales []string) []Alternate {
	if len(locales) == 0 {
		return nil
	}
	out := make([]Alternate, 0, len(locales)+1)
	def := locales[0]
	for _, l := range locales {
		if site.Locales.IsDefault(l) {
			def = l
		}
		out = append(out, Alternate{Hreflang: l, URL: site.URL(l, pagePath)})
	}
	out = append(out, Alternate{Hreflang: "x-default", URL: site.URL(def, pagePath)})
	return out
}

// HomePageMeta describes a locale's home page.
func HomePageMeta(site Site, l string) PageMeta {
	return PageMeta{
		Title:       site.Name,
		OGTitle:     site.Name,
		Description: site.Description,
		Canonical:   site.URL(l, "/"),
		Locale:      l,
		OGType:      "website",
		Image:       site.Origin() + "/og?title=" + url.QueryEscape(site.Name),
		TwitterCard: "summary_large_image",
		Alternates:  Alternates(site, "/", site.Locales.Locales),
		JSONLD:      []string{WebsiteJSONLD(site)},
	}
}

// ListPageMeta describes a locale's post listing.
func ListPageMeta(site Site, l, title string) PageMeta {
	return PageMeta{
		Title:       TitleTemplate(site, title),
		OGTitle:     title,
		Description: site.Description,
		Canonical:   site.URL(l, "/blog"),
		Locale:      l,
		OGType:      "website",
		Image:       site.Origin() + "/og?title=" + url.QueryEscape(title),
		TwitterCard: "summary_large_image",
		Alternates:  Alternates(site, "/blog", site.Locales.Locales),
	}
}

// PostPageMeta describes a post page. translations lists the locales the
// post is published in and drives the hreflang links.
func PostPageMeta(site Site, doc content.Document, translations []string) PageMeta {
	fm := doc.FrontMatter
	slug := doc.Slug()
	title := fm.Title
	if title == "" {
		title = slug
	}
	m := PageMeta{
		Title:       TitleTemplate(site, title),
		OGTitle:     title,
		Description: fm.Description,
		Canonical:   site.PostURL(doc.Locale, slug),
		Locale:      doc.Locale,
		OGType:      "article",
		Image:       ImageURL(site, fm, doc.Locale, slug),
		TwitterCard: "summary_large_image",
		Tags:        fm.Tags,
		Alternates:  Alternates(site, "/blog/"+url.PathEscape(slug), translations),
		JSONLD:      []string{StructuredData(site, fm, doc.Locale, slug, slug).JSON()},
	}
	if t, ok := fm.PublishedAt(); ok {
		m.PublishedTime = t.UTC().Format(time.RFC3339)
	}
	if t, ok := content.ParseDate(fm.Updated); ok {
		m.ModifiedTime = t.UTC().Format(time.RFC3339)
	}
	if fm.Author != "" {
		m.Authors = []string{fm.Author}
	}
	return m
}

// NotFoundMeta describes an error page. It is never indexed.
func NotFoundMeta(site Site, l, title string) PageMeta {
	return PageMeta{
		Title:  TitleTemplate(site, title),
		Locale: l,
		OGType: "website",
	}
}
