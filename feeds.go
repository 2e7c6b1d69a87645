package inkwell

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiwu-io/inkwell/seo"
)

const (
	mimeRSS  = "application/rss+xml; charset=utf-8"
	mimeAtom = "application/atom+xml; charset=utf-8"
)

func (a *App) handleRSS(c echo.Context) error {
	l, err := a.requestLocale(c)
	if err != nil {
		return err
	}
	posts, err := a.Index.ListAll(c.Request().Context(), l, false)
	if err != nil {
		return err
	}
	return writeXML(c, mimeRSS, seo.RSS(a.Site, l, posts))
}

func (a *App) handleAtom(c echo.Context) error {
	l, err := a.requestLocale(c)
	if err != nil {
		return err
	}
	posts, err := a.Index.ListAll(c.Request().Context(), l, false)
	if err != nil {
		return err
	}
	return writeXML(c, mimeAtom, seo.Atom(a.Site, l, posts, a.now()))
}

func (a *App) handleSitemap(c echo.Context) error {
	translations, err := a.Index.Translations(c.Request().Context())
	if err != nil {
		return err
	}
	return writeXML(c, echo.MIMEApplicationXMLCharsetUTF8, seo.Sitemap(a.Site, translations, a.now()))
}

func (a *App) handleRobots(c echo.Context) error {
	return c.String(http.StatusOK, seo.Robots(a.Site))
}

func (a *App) handleLLMs(c echo.Context) error {
	return c.String(http.StatusOK, seo.LLMs(a.Site))
}

// writeXML encodes v fully before writing so an encoding failure still
// reaches the error handler as a 500.
func writeXML(c echo.Context, contentType string, v any) error {
	var buf bytes.Buffer
	if err := seo.WriteXML(&buf, v); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}
