package seo

import (
	"encoding/xml"
	"net/url"
	"time"

	"github.com/xiwu-io/inkwell/content"
)

// URLSet is a sitemap document with hreflang alternates.
type URLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	XHTML   string       `xml:"xmlns:xhtml,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapURL is one sitemap entry.
type SitemapURL struct {
	Loc        string      `xml:"loc"`
	LastMod    string      `xml:"lastmod,omitempty"`
	Priority   string      `xml:"priority,omitempty"`
	Alternates []XHTMLLink `xml:"xhtml:link"`
}

// XHTMLLink is an xhtml:link alternate of a sitemap entry.
type XHTMLLink struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

var staticPages = []struct {
	path     string
	priority string
}{
	{"/", "1.0"},
	{"/blog", "0.8"},
}

// Sitemap lists the static pages in every locale and each post once per
// locale it is published in. A post that exists only in one locale yields a
// single entry. Alternates always cover every locale plus x-default. lastmod
// is the post date, else now.
func Sitemap(site Site, translations []content.Translation, now time.Time) URLSet {
	built := now.UTC().Format(time.RFC3339)
	var urls []SitemapURL
	for _, page := range staticPages {
		alts := xhtmlLinks(Alternates(site, page.path, site.Locales.Locales))
		for _, l := range site.Locales.Locales {
			urls = append(urls, SitemapURL{
				Loc:        site.URL(l, page.path),
				LastMod:    built,
				Priority:   page.priority,
				Alternates: alts,
			})
		}
	}

	for _, t := range translations {
		lastmod := built
		if !t.Date.IsZero() {
			lastmod = t.Date.UTC().Format(time.RFC3339)
		}
		p := "/blog/" + url.PathEscape(t.Slug)
		urls = append(urls, SitemapURL{
			Loc:        site.URL(t.Locale, p),
			LastMod:    lastmod,
			Priority:   "0.6",
			Alternates: xhtmlLinks(Alternates(site, p, site.Locales.Locales)),
		})
	}
	return URLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		XHTML: "http://www.w3.org/1999/xhtml",
		URLs:  urls,
	}
}

func xhtmlLinks(alts []Alternate) []XHTMLLink {
	out := make([]XHTMLLink, len(alts))
	for i, a := range alts {
		out[i] = XHTMLLink{Rel: "alternate", Hreflang: a.Hreflang, Href: a.URL}
	}
	return out
}
