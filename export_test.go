package inkwell

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestExportPaths(t *testing.T) {
	app := newTestApp(t, testConfig(), siteFS())
	paths, err := app.ExportPaths(context.Background())
	require.NoError(t, err)
	require.ElementsMatch(t, []string{
		"/sitemap.xml", "/robots.txt", "/llms.txt",
		"/", "/blog", "/rss.xml", "/feed.xml",
		"/blog/second", "/og/en-second.png",
		"/blog/hello", "/og/en-hello.png",
		"/zh", "/zh/blog", "/zh/rss.xml", "/zh/feed.xml",
		"/zh/blog/zh-only", "/og/zh-zh-only.png",
		"/zh/blog/hello", "/og/zh-hello.png",
	}, paths)
}

func TestExport(t *testing.T) {
	static := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(static, "site.css"), []byte("body{}"), 0o644))
	cfg := testConfig()
	cfg.StaticDir = static
	app := newTestApp(t, cfg, siteFS())

	out := t.TempDir()
	report, err := app.Export(context.Background(), out)
	require.NoError(t, err)
	require.Equal(t, 4, report.Images)
	require.Equal(t, 15, report.Pages)

	for _, f := range []string{
		"index.html",
		"blog/index.html",
		"blog/hello/index.html",
		"zh/index.html",
		"zh/blog/zh-only/index.html",
		"rss.xml",
		"zh/rss.xml",
		"feed.xml",
		"sitemap.xml",
		"robots.txt",
		"llms.txt",
		"og/en-hello.png",
		"og/zh-zh-only.png",
		"public/site.css",
	} {
		require.FileExists(t, filepath.Join(out, filepath.FromSlash(f)))
	}
	require.NoFileExists(t, filepath.Join(out, "blog", "secret", "index.html"))

	home, err := os.ReadFile(filepath.Join(out, "zh", "index.html"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(home), "<!doctype html>"))

	// A second export over the same directory succeeds.
	_, err = app.Export(context.Background(), out)
	require.NoError(t, err)
}

func TestExport_FailsOnMalformedPost(t *testing.T) {
	fsys := siteFS()
	fsys["zh/broken.mdx"] = &fstest.MapFile{Data: []byte("---\ntitle: [\n---\n")}
	app := newTestApp(t, testConfig(), fsys)

	_, err := app.Export(context.Background(), t.TempDir())
	require.ErrorContains(t, err, "zh/broken.mdx")
}

func TestExportFile(t *testing.T) {
	cases := []struct {
		path   string
		isPage bool
		want   string
	}{
		{"/", true, "index.html"},
		{"/zh", true, "zh/index.html"},
		{"/blog/v1.2", true, "blog/v1.2/index.html"},
		{"/zh/blog/%E4%BD%A0%E5%A5%BD", true, "zh/blog/你好/index.html"},
		{"/og/en-hello.png", false, "og/en-hello.png"},
		{"/rss.xml", false, "rss.xml"},
		{"/../../etc/passwd", false, "etc/passwd"},
	}
	for _, tc := range cases {
		got, err := exportFile(tc.path, tc.isPage)
		require.NoError(t, err, tc.path)
		require.Equal(t, tc.want, got, tc.path)
	}
	_, err := exportFile("/", false)
	require.Error(t, err)
}
