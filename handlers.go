package inkwell

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/xiwu-io/inkwell/content"
	"github.com/xiwu-io/inkwell/internal/logfields"
	"github.com/xiwu-io/inkwell/locale"
	"github.com/xiwu-io/inkwell/seo"
	"github.com/xiwu-io/inkwell/views"
)

const (
	localeContextKey = "inkwell.locale"
	homeLatestPosts  = 5
)

// requestLocale returns the locale named by the :locale route parameter,
// or the default locale on unprefixed routes.
func (a *App) requestLocale(c echo.Context) (string, error) {
	l := c.Param("locale")
	if l == "" {
		l = a.locales.Default
	}
	if !a.locales.Supported(l) {
		return "", fmt.Errorf("%w: %q", content.ErrUnsupportedLocale, l)
	}
	c.Set(localeContextKey, l)
	return l, nil
}

// pathParam returns a route parameter with percent-encoding removed. Echo
// matches on the raw path when the request carries escaped characters.
func pathParam(c echo.Context, name string) (string, error) {
	v := c.Param(name)
	if c.Request().URL.RawPath == "" {
		return v, nil
	}
	s, err := url.PathUnescape(v)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid path")
	}
	return s, nil
}

// page assembles the data shared by every template. href gives the
// language switcher's target for each locale.
func (a *App) page(l string, meta seo.PageMeta, href func(string) string) views.Page {
	p := views.Page{
		Site:    a.Site,
		Meta:    meta,
		Locale:  l,
		T:       a.locales.Translator(l),
		FeedURL: a.Site.URL(l, "/rss.xml"),
	}
	for _, other := range a.locales.Locales {
		p.Switch = append(p.Switch, views.LocaleLink{
			Locale: other,
			Name:   a.locales.Name(other),
			Href:   href(other),
			Active: other == l,
		})
	}
	return p
}

func (a *App) samePage(p string) func(string) string {
	return func(l string) string {
		return a.locales.Path(l, p)
	}
}

func (a *App) handleHome(c echo.Context) error {
	if c.Param("locale") == "" && a.Config.LocaleDetection {
		c.Response().Header().Add(echo.HeaderVary, "Accept-Language")
		if best := a.locales.Match(c.Request().Header.Get("Accept-Language")); !a.locales.IsDefault(best) {
			return c.Redirect(http.StatusFound, a.locales.Path(best, "/"))
		}
	}
	l, err := a.requestLocale(c)
	if err != nil {
		return err
	}
	posts, err := a.Index.ListAll(c.Request().Context(), l, false)
	if err != nil {
		return err
	}
	latest := posts[:min(len(posts), homeLatestPosts)]
	p := a.page(l, seo.HomePageMeta(a.Site, l), a.samePage("/"))
	return Render(c, a.Views.Home(views.HomeData{Page: p, Latest: latest}))
}

func (a *App) handleBlog(c echo.Context) error {
	l, err := a.requestLocale(c)
	if err != nil {
		return err
	}
	posts, err := a.Index.ListAll(c.Request().Context(), l, false)
	if err != nil {
		return err
	}
	tag := c.QueryParam("tag")
	title := a.locales.Translator(l).T(locale.KeyBlogTitle)
	p := a.page(l, seo.ListPageMeta(a.Site, l, title), a.samePage("/blog"))
	return Render(c, a.Views.Blog(views.ListData{
		Page:      p,
		Posts:     views.FilterByTag(posts, tag),
		Tags:      views.CollectTags(posts),
		ActiveTag: tag,
	}))
}

func (a *App) handlePost(c echo.Context) error {
	l, err := a.requestLocale(c)
	if err != nil {
		return err
	}
	slug, err := pathParam(c, "slug")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	doc, err := a.Index.Post(ctx, l, slug)
	if err != nil {
		return err
	}
	posts, err := a.Index.ListAll(ctx, l, false)
	if err != nil {
		return err
	}
	translations, err := a.translations(c, l, slug)
	if err != nil {
		return err
	}

	href := func(other string) string {
		if slices.Contains(translations, other) {
			return a.Site.PostPath(other, slug)
		}
		return a.locales.Path(other, "/")
	}
	p := a.page(l, seo.PostPageMeta(a.Site, doc, translations), href)
	return Render(c, a.Views.Post(views.PostData{
		Page:      p,
		Post:      doc,
		Neighbors: content.NeighborsIn(posts, slug),
		Related:   views.FilterRelatedPosts(doc.Meta(), posts),
	}))
}

// translations lists the locales in which slug resolves to a published post.
// current is known to resolve. Every other locale costs one listing lookup,
// which is a full scan when the index cache is disabled.
func (a *App) translations(c echo.Context, current, slug string) ([]string, error) {
	var out []string
	for _, l := range a.locales.Locales {
		if l == current {
			out = append(out, l)
			continue
		}
		_, err := a.Index.Resolve(c.Request().Context(), l, slug)
		switch {
		case err == nil:
			out = append(out, l)
		case errors.Is(err, content.ErrNotFound):
		default:
			return nil, err
		}
	}
	return out, nil
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	l, _ := c.Get(localeContextKey).(string)
	if l == "" {
		l = a.localeFromPath(c.Request().URL.Path)
	}
	t := a.locales.Translator(l)

	switch {
	case errors.Is(err, content.ErrUnsupportedLocale):
		a.renderError(c, l, http.StatusNotFound, t.T(locale.KeyLocaleNotFound))
		return
	case errors.Is(err, content.ErrNotFound):
		a.renderError(c, l, http.StatusNotFound, t.T(locale.KeyPostNotFound))
		return
	}

	code := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
	}
	switch {
	case code == http.StatusNotFound:
		a.renderError(c, l, code, t.T(locale.KeyPageNotFound))
	case code >= 500:
		a.Logger.Error("Server error",
			logfields.Path(c.Request().URL.Path),
			logfields.Locale(l),
			logfields.Error(err))
		a.renderError(c, l, code, t.T(locale.KeyServerError))
	default:
		a.Echo.DefaultHTTPErrorHandler(err, c)
	}
}

// localeFromPath guesses the locale of a request no handler claimed from
// its first path segment.
func (a *App) localeFromPath(p string) string {
	seg, _, _ := strings.Cut(strings.TrimPrefix(p, "/"), "/")
	if seg != "" && a.locales.Supported(seg) {
		return seg
	}
	return a.locales.Default
}

func (a *App) renderError(c echo.Context, l string, code int, message string) {
	c.Set(localeContextKey, l)
	p := a.page(l, seo.NotFoundMeta(a.Site, l, message), a.samePage("/"))
	data := views.ErrorData{Page: p, Status: code, Message: message}
	view := a.Views.ServerError
	if code == http.StatusNotFound {
		view = a.Views.NotFound
	} else {
		c.Response().Header().Set("Cache-Control", "no-store")
	}
	if err := RenderStatus(c, code, view(data)); err != nil {
		a.Logger.Error("Render error page", slog.Int("status", code), logfields.Error(err))
	}
}
