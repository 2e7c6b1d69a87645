package seo

import (
	"encoding/json"
	"strings"

	"github.com/xiwu-io/inkwell/content"
)

// ImageURL returns the preview image of a post. The cover wins over the
// image; absolute http(s) values are returned unchanged and site-relative
// ones are joined onto the origin exactly once. Posts without either get
// their generated /og/{locale}-{slug}.png.
func ImageURL(site Site, fm content.FrontMatter, l, slug string) string {
	v := strings.TrimSpace(fm.Cover)
	if v == "" {
		v = strings.TrimSpace(fm.Image)
	}
	if v == "" {
		return site.Origin() + OGImagePath(l, slug)
	}
	if strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") {
		return v
	}
	if !strings.HasPrefix(v, "/") {
		v = "/" + v
	}
	return site.Origin() + v
}

// Person is a schema.org Person.
type Person struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// WebPage is a schema.org WebPage reference.
type WebPage struct {
	Type string `json:"@type"`
	ID   string `json:"@id"`
}

// BlogPosting is the schema.org BlogPosting embedded in post pages.
type BlogPosting struct {
	Context          string   `json:"@context"`
	Type             string   `json:"@type"`
	Headline         string   `json:"headline"`
	DatePublished    string   `json:"datePublished,omitempty"`
	DateModified     string   `json:"dateModified,omitempty"`
	Description      string   `json:"description,omitempty"`
	Image            string   `json:"image"`
	URL              string   `json:"url"`
	InLanguage       string   `json:"inLanguage,omitempty"`
	Keywords         string   `json:"keywords,omitempty"`
	Author           Person   `json:"author"`
	MainEntityOfPage *WebPage `json:"mainEntityOfPage,omitempty"`
}

// StructuredData builds the BlogPosting for a post. slug is the requested
// slug and pageSlug the canonical one; they differ only when the page was
// reached through an alias.
func StructuredData(site Site, fm content.FrontMatter, l, slug, pageSlug string) BlogPosting {
	if pageSlug == "" {
		pageSlug = slug
	}
	headline := fm.Title
	if headline == "" {
		headline = slug
	}
	modified := fm.Updated
	if modified == "" {
		modified = fm.Date
	}
	author := strings.TrimSpace(fm.Author)
	if author == "" {
		author = site.AuthorName()
	}
	u := site.PostURL(l, pageSlug)
	return BlogPosting{
		Context:          "https://schema.org",
		Type:             "BlogPosting",
		Headline:         headline,
		DatePublished:    fm.Date,
		DateModified:     modified,
		Description:      fm.Description,
		Image:            ImageURL(site, fm, l, pageSlug),
		URL:              u,
		InLanguage:       l,
		Keywords:         strings.Join(fm.Tags, ", "),
		Author:           Person{Type: "Person", Name: author},
		MainEntityOfPage: &WebPage{Type: "WebPage", ID: u},
	}
}

// JSON marshals the posting for a <script type="application/ld+json">
// block.
func (b BlogPosting) JSON() string {
	return marshalJSONLD(b)
}

// Website is the schema.org WebSite for the home page.
type Website struct {
	Context     string   `json:"@context"`
	Type        string   `json:"@type"`
	Name        string   `json:"name"`
	URL         string   `json:"url"`
	Description string   `json:"description,omitempty"`
	InLanguage  []string `json:"inLanguage,omitempty"`
	Author      *Person  `json:"author,omitempty"`
}

// WebsiteJSONLD returns the WebSite block for the site.
func WebsiteJSONLD(site Site) string {
	w := Website{
		Context:     "https://schema.org",
		Type:        "WebSite",
		Name:        site.Name,
		URL:         site.Origin(),
		Description: site.Description,
		InLanguage:  site.Locales.Locales,
	}
	if site.Author != "" {
		w.Author = &Person{Type: "Person", Name: site.Author}
	}
	return marshalJSONLD(w)
}

// marshalJSONLD never fails a page over structured data. json.Marshal
// escapes <, > and &, so the output is safe inside a script element.
func marshalJSONLD(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
