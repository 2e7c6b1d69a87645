package seo

import (
	"encoding/xml"
	"io"
	"net/http"
	"time"

	"github.com/xiwu-io/inkwell/content"
)

// RSSFeed is an RSS 2.0 document.
type RSSFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel RSSChannel `xml:"channel"`
}

// RSSChannel is the channel element of an RSS feed.
type RSSChannel struct {
	Title       string     `xml:"title"`
	Link        string     `xml:"link"`
	Description string     `xml:"description"`
	Language    string     `xml:"language,omitempty"`
	Items       []FeedItem `xml:"item"`
}

// FeedItem is one RSS item. PubDate and Description are omitted when the
// post has no date or description.
type FeedItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	PubDate     string `xml:"pubDate,omitempty"`
	Description string `xml:"description,omitempty"`
}

// RSS builds the feed of one locale from its listing, which must already be
// free of drafts. Feeds of non-default locales carry the locale in their
// title.
func RSS(site Site, l string, posts []content.PostMeta) RSSFeed {
	title := site.Name
	if !site.Locales.IsDefault(l) {
		title += " (" + l + ")"
	}
	items := make([]FeedItem, 0, len(posts))
	for _, p := range posts {
		if p.Draft {
			continue
		}
		link := site.PostURL(l, p.Slug)
		item := FeedItem{
			Title:       p.Title,
			Link:        link,
			GUID:        link,
			Description: p.Description,
		}
		if p.HasDate() {
			item.PubDate = p.Date.UTC().Format(http.TimeFormat)
		}
		items = append(items, item)
	}
	return RSSFeed{
		Version: "2.0",
		Channel: RSSChannel{
			Title:       title,
			Link:        site.URL(l, "/"),
			Description: site.Description,
			Language:    l,
			Items:       items,
		},
	}
}

// AtomFeed is an Atom 1.0 document.
type AtomFeed struct {
	XMLName  xml.Name    `xml:"feed"`
	XMLNS    string      `xml:"xmlns,attr"`
	Title    string      `xml:"title"`
	Links    []AtomLink  `xml:"link"`
	ID       string      `xml:"id"`
	Updated  string      `xml:"updated"`
	Subtitle string      `xml:"subtitle,omitempty"`
	Entries  []AtomEntry `xml:"entry"`
}

// AtomLink is an Atom link element.
type AtomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr,omitempty"`
}

// AtomText is an Atom text construct.
type AtomText struct {
	Type  string `xml:"type,attr,omitempty"`
	Value string `xml:",chardata"`
}

// AtomEntry is one Atom entry. Updated and Summary are omitted when the post
// has no date or description.
type AtomEntry struct {
	Title   string    `xml:"title"`
	Link    AtomLink  `xml:"link"`
	ID      string    `xml:"id"`
	Updated string    `xml:"updated,omitempty"`
	Summary *AtomText `xml:"summary,omitempty"`
}

// Atom builds the Atom feed of one locale. The feed's updated time is the
// newest entry date, or now when no entry has a date.
func Atom(site Site, l string, posts []content.PostMeta, now time.Time) AtomFeed {
	title := site.Name
	if !site.Locales.IsDefault(l) {
		title += " (" + l + ")"
	}
	var newest time.Time
	entries := make([]AtomEntry, 0, len(posts))
	for _, p := range posts {
		if p.Draft {
			continue
		}
		link := site.PostURL(l, p.Slug)
		e := AtomEntry{
			Title: p.Title,
			Link:  AtomLink{Href: link},
			ID:    link,
		}
		if p.HasDate() {
			e.Updated = p.Date.UTC().Format(time.RFC3339)
			if p.Date.After(newest) {
				newest = p.Date
			}
		}
		if p.Description != "" {
			e.Summary = &AtomText{Type: "html", Value: p.Description}
		}
		entries = append(entries, e)
	}
	if newest.IsZero() {
		newest = now
	}
	home := site.URL(l, "/")
	return AtomFeed{
		XMLNS: "http://www.w3.org/2005/Atom",
		Title: title,
		Links: []AtomLink{
			{Href: site.URL(l, "/feed.xml"), Rel: "self"},
			{Href: home},
		},
		ID:       home,
		Updated:  newest.UTC().Format(time.RFC3339),
		Subtitle: site.Description,
		Entries:  entries,
	}
}

// WriteXML writes the XML declaration followed by v.
func WriteXML(w io.Writer, v any) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
