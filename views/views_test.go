package views

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/require"

	"github.com/xiwu-io/inkwell/config"
	"github.com/xiwu-io/inkwell/content"
	"github.com/xiwu-io/inkwell/locale"
	"github.com/xiwu-io/inkwell/seo"
)

func testPage(l string) Page {
	set := locale.MustSet([]string{"en", "zh"}, "en")
	site := seo.NewSite(config.Site{Name: "xiwu.io", URL: "https://xiwu.io"}, set)
	return Page{
		Site:    site,
		Meta:    seo.ListPageMeta(site, l, "Blog"),
		Locale:  l,
		T:       set.Translator(l),
		FeedURL: site.URL(l, "/rss.xml"),
	}
}

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestFilterRelatedPosts(t *testing.T) {
	current := content.PostMeta{Slug: "a", Tags: []string{"Go"}}
	posts := []content.PostMeta{
		current,
		{Slug: "b", Tags: []string{"go "}},
		{Slug: "c", Tags: []string{"rust"}},
	}
	related := FilterRelatedPosts(current, posts)
	require.Len(t, related, 1)
	require.Equal(t, "b", related[0].Slug)
}

func TestFilterByTagAndCollectTags(t *testing.T) {
	posts := []content.PostMeta{
		{Slug: "a", Tags: []string{"Go", "web"}},
		{Slug: "b", Tags: []string{"go"}},
		{Slug: "c"},
	}
	require.Len(t, FilterByTag(posts, "GO"), 2)
	require.Len(t, FilterByTag(posts, ""), 3)
	require.Equal(t, []string{"Go", "web"}, CollectTags(posts))
}

func TestBlog_RendersLocalizedLinks(t *testing.T) {
	d := ListData{
		Page: testPage("zh"),
		Posts: []content.PostMeta{
			{Slug: "hello", Title: "<Hello>", Date: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)},
		},
	}
	out := renderString(t, Blog(d))
	require.Contains(t, out, `<html lang="zh">`)
	require.Contains(t, out, `href="/zh/blog/hello"`)
	require.Contains(t, out, "&lt;Hello&gt;")
	require.Contains(t, out, "2025年1月")
	require.Contains(t, out, "<h1>博客</h1>")
	require.Contains(t, out, `<link rel="canonical" href="https://xiwu.io/zh/blog">`)
}

func TestBlog_Empty(t *testing.T) {
	out := renderString(t, Blog(ListData{Page: testPage("en")}))
	require.Contains(t, out, "No posts yet.")
}

func TestPost_Navigation(t *testing.T) {
	prev := content.PostMeta{Slug: "newer", Title: "Newer"}
	d := PostData{
		Page: testPage("zh"),
		Post: content.Document{
			Locale:      "zh",
			FileName:    "post.mdx",
			FrontMatter: content.FrontMatter{Title: "标题", Cover: "javascript:alert(1)"},
			Body:        "import X from 'x'\n\nHello **MDX**",
		},
		Neighbors: content.Neighbors{Prev: &prev},
	}
	out := renderString(t, Post(d))
	require.Contains(t, out, "<strong>MDX</strong>")
	require.NotContains(t, out, "import X")
	require.Contains(t, out, `href="/zh/blog/newer"`)
	require.Contains(t, out, "上一篇")
	require.Contains(t, out, `<div class="next"></div>`)
	require.NotContains(t, out, "javascript:")
}

func TestErrorPage(t *testing.T) {
	out := renderString(t, NotFound(ErrorData{Page: testPage("en"), Status: 404, Message: "gone"}))
	require.Contains(t, out, "<h1>404</h1>")
	require.Contains(t, out, "<p>gone</p>")
}

func TestLayout_DocumentShell(t *testing.T) {
	p := testPage("en")
	p.Meta.JSONLD = []string{`{"@type":"WebSite","name":"<x>"}`}
	p.Meta.Image = ""
	p.Switch = []LocaleLink{
		{Locale: "en", Name: "English", Href: "/", Active: true},
		{Locale: "zh", Name: "中文", Href: "javascript:alert(1)"},
	}
	out := renderString(t, Home(HomeData{Page: p}))
	require.True(t, strings.HasPrefix(out, `<!doctype html><html lang="en"><head><meta charset="utf-8">`))
	require.Contains(t, out, `<script type="application/ld+json">{"@type":"WebSite","name":"\u003cx\u003e"}`)
	require.Contains(t, out, `<strong lang="en">English</strong>`)
	require.NotContains(t, out, "javascript:")
	require.Contains(t, out, "All posts →</a>")
	require.NotContains(t, out, `property="og:image"`)
	require.NotContains(t, out, `name="twitter:image"`)
}

func TestBlog_ActiveTag(t *testing.T) {
	d := ListData{Page: testPage("en"), Tags: []string{"Go", "web dev"}, ActiveTag: "go"}
	out := renderString(t, Blog(d))
	require.Contains(t, out, `<a class="tag tag-active" href="/blog?tag=Go">Go</a>`)
	require.Contains(t, out, `<a class="tag" href="/blog?tag=web+dev">web dev</a>`)
}

func TestPost_UntitledFallsBackToSlug(t *testing.T) {
	d := PostData{
		Page: testPage("en"),
		Post: content.Document{Locale: "en", FileName: "untitled.mdx", Body: "text"},
	}
	out := renderString(t, Post(d))
	require.Contains(t, out, "<article><h1>untitled</h1>")
	require.Contains(t, out, `<div class="prev"></div><div class="next"></div>`)
}

func TestRender_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	err := NotFound(ErrorData{Page: testPage("en"), Status: 404}).Render(ctx, &buf)
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, buf.Len())
}
