// Package content reads the per-locale content directories and resolves
// (locale, slug) pairs to documents. It is the single source of post
// listings, navigation and slug sets for every page, feed and sitemap.
package content

import (
	"strings"
	"time"
)

// Ext is the file extension of content documents.
const Ext = ".mdx"

// epoch is the ordering date of posts without a usable date.
var epoch = time.Unix(0, 0).UTC()

// Document is one content file.
type Document struct {
	Locale      string
	FileName    string
	Path        string // slash-separated, relative to the store root
	FrontMatter FrontMatter
	Body        string
}

// Slug returns the document's effective slug.
func (d Document) Slug() string {
	return EffectiveSlug(d.FileName, d.FrontMatter)
}

// Meta projects the document into a listing entry.
func (d Document) Meta() PostMeta {
	slug := d.Slug()
	title := d.FrontMatter.Title
	if title == "" {
		title = slug
	}
	published, _ := d.FrontMatter.PublishedAt()
	updated, _ := d.FrontMatter.UpdatedAt()
	return PostMeta{
		Locale:       d.Locale,
		Slug:         slug,
		Title:        title,
		Date:         published,
		RawDate:      d.FrontMatter.Date,
		Updated:      updated,
		Description:  d.FrontMatter.Description,
		Tags:         d.FrontMatter.Tags,
		Draft:        d.FrontMatter.Draft,
		FileName:     d.FileName,
		SlugOverride: strings.TrimSpace(d.FrontMatter.Slug) != "",
	}
}

// EffectiveSlug is the trimmed front-matter slug when it is not blank,
// otherwise the file name without its extension.
func EffectiveSlug(fileName string, fm FrontMatter) string {
	if s := strings.TrimSpace(fm.Slug); s != "" {
		return s
	}
	return strings.TrimSuffix(fileName, Ext)
}

// PostMeta is the lightweight view of a document used by listings, feeds
// and the sitemap.
type PostMeta struct {
	Locale      string
	Slug        string
	Title       string
	Date        time.Time // zero when absent or unparseable
	RawDate     string
	Updated     time.Time // Updated, else Date
	Description string
	Tags        []string
	Draft       bool

	FileName     string
	SlugOverride bool // slug comes from front-matter
}

// HasDate reports whether the post carries a parseable date.
func (p PostMeta) HasDate() bool {
	return !p.Date.IsZero()
}

func (p PostMeta) orderDate() time.Time {
	if p.Date.IsZero() {
		return epoch
	}
	return p.Date
}

// Neighbors holds the posts adjacent to one post in date order. Prev is the
// newer neighbor, Next the older one.
type Neighbors struct {
	Prev *PostMeta
	Next *PostMeta
}

// Translation records that a slug is published in a locale.
type Translation struct {
	Slug   string
	Locale string
	Date   time.Time
}

// validSlug rejects slugs that could escape the locale directory.
func validSlug(slug string) bool {
	if slug == "" || slug == "." || slug == ".." {
		return false
	}
	return !strings.ContainsAny(slug, `/\`) && !strings.ContainsRune(slug, 0)
}
