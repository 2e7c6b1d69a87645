package inkwell

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/xiwu-io/inkwell/internal/logfields"
	"github.com/xiwu-io/inkwell/seo"
)

const exportConcurrency = 8

// ExportReport summarizes a static export.
type ExportReport struct {
	Pages    int
	Images   int
	Duration time.Duration
}

// ExportPaths lists every URL path a static export writes: the home and
// listing pages, feeds and post pages of each locale, one OG image per
// post, and the site-wide sitemap, robots.txt and llms.txt.
func (a *App) ExportPaths(ctx context.Context) ([]string, error) {
	paths := []string{"/sitemap.xml", "/robots.txt", "/llms.txt"}
	for _, l := range a.locales.Locales {
		paths = append(paths,
			a.locales.Path(l, "/"),
			a.locales.Path(l, "/blog"),
			a.locales.Path(l, "/rss.xml"),
			a.locales.Path(l, "/feed.xml"),
		)
		posts, err := a.Index.ListAll(ctx, l, false)
		if err != nil {
			return nil, err
		}
		for _, p := range posts {
			paths = append(paths, a.Site.PostPath(l, p.Slug), seo.OGImagePath(l, p.Slug))
		}
	}
	return paths, nil
}

// Export renders the whole site into outDir by running every export path
// through the HTTP handler, so exported files match what the server
// returns. Static assets are copied to outDir/public. Any page that does
// not render with 200 fails the export.
func (a *App) Export(ctx context.Context, outDir string) (ExportReport, error) {
	start := time.Now()
	// Listings must reflect the content on disk right now.
	a.Invalidate()

	paths, err := a.ExportPaths(ctx)
	if err != nil {
		return ExportReport{}, fmt.Errorf("inkwell: export: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return ExportReport{}, fmt.Errorf("inkwell: export: %w", err)
	}

	var pages, images atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(exportConcurrency)
	for _, p := range paths {
		g.Go(func() error {
			if err := a.exportPath(gctx, outDir, p); err != nil {
				return err
			}
			if strings.HasPrefix(p, "/og/") {
				images.Add(1)
			} else {
				pages.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ExportReport{}, fmt.Errorf("inkwell: export: %w", err)
	}
	if err := copyStatic(a.staticDir, filepath.Join(outDir, "public")); err != nil {
		return ExportReport{}, fmt.Errorf("inkwell: export: %w", err)
	}

	report := ExportReport{
		Pages:    int(pages.Load()),
		Images:   int(images.Load()),
		Duration: time.Since(start),
	}
	a.Logger.Info("Export complete",
		logfields.Path(outDir),
		slog.Int("pages", report.Pages),
		slog.Int("images", report.Images),
		logfields.DurationMS(float64(report.Duration.Microseconds())/1000))
	return report, nil
}

func (a *App) exportPath(ctx context.Context, outDir, p string) error {
	req := httptest.NewRequest(http.MethodGet, p, nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", p, rec.Code)
	}
	isPage := strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMETextHTML)
	file, err := exportFile(p, isPage)
	if err != nil {
		return err
	}
	dst := filepath.Join(outDir, filepath.FromSlash(file))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, rec.Body.Bytes(), 0o644)
}

// exportFile maps a URL path onto a file below the output directory. HTML
// pages become {path}/index.html, everything else keeps its name.
func exportFile(p string, isPage bool) (string, error) {
	u, err := url.PathUnescape(p)
	if err != nil {
		return "", fmt.Errorf("export path %q: %w", p, err)
	}
	u = path.Clean("/" + u)
	if isPage {
		u = path.Join(u, "index.html")
	}
	if u == "/" {
		return "", fmt.Errorf("export path %q maps to no file", p)
	}
	return strings.TrimPrefix(u, "/"), nil
}

func copyStatic(src, dst string) error {
	if src == "" {
		return nil
	}
	info, err := os.Stat(src)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("static dir %s is not a directory", src)
	}
	// CopyFS refuses to overwrite, and a previous export may have left files.
	if err := os.RemoveAll(dst); err != nil {
		return err
	}
	return os.CopyFS(dst, os.DirFS(src))
}
