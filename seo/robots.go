package seo

import (
	"fmt"
	"strings"
)

// Robots returns robots.txt allowing every crawler.
func Robots(site Site) string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Allow: /og/\n\n")
	fmt.Fprintf(&b, "Host: %s\n", site.Origin())
	fmt.Fprintf(&b, "Sitemap: %s/sitemap.xml\n", site.Origin())
	return b.String()
}

// LLMs returns the llms.txt crawling policy for language-model crawlers.
func LLMs(site Site) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# LLMs crawling policy for %s\n", site.Name)
	b.WriteString("# This file is for large language models and AI crawlers.\n\n")
	fmt.Fprintf(&b, "Site: %s\n", site.Origin())
	b.WriteString("Allow: /\n")
	for _, l := range site.Locales.Locales {
		fmt.Fprintf(&b, "Feed: %s\n", site.URL(l, "/rss.xml"))
	}
	fmt.Fprintf(&b, "Sitemap: %s/sitemap.xml\n", site.Origin())
	return b.String()
}
