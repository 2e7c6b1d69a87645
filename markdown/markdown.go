// Package markdown renders post bodies to HTML as templ components.
// Bodies are Markdown with MDX extras: top-level import and export
// statements are dropped and embedded JSX is passed through as raw HTML.
package markdown

import (
	"bufio"
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Footnote,
		extension.Typographer,
		highlighting.NewHighlighting(
			highlighting.WithStyle("monokai"),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		// Content comes from the read-only content directory, never from
		// visitors, and MDX components are written as raw HTML.
		gmhtml.WithUnsafe(),
	),
)

// Markdown returns a templ.Component that renders content as HTML.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := RenderMarkdown(&buf, content); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// RenderMarkdown writes the HTML representation of an MDX body to buf.
func RenderMarkdown(buf *bytes.Buffer, body string) error {
	return md.Convert([]byte(StripESM(body)), buf)
}

// ToHTML converts an MDX body into HTML.
func ToHTML(body string) (string, error) {
	var buf bytes.Buffer
	if err := RenderMarkdown(&buf, body); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// StripESM removes top-level MDX import and export statements. Lines inside
// fenced code blocks are kept.
func StripESM(body string) string {
	var out strings.Builder
	out.Grow(len(body))
	fence := ""
	sc := bufio.NewScanner(strings.NewReader(body))
	sc.Buffer(make([]byte, 0, 64*1024), len(body)+1)
	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		switch {
		case fence != "":
			if strings.HasPrefix(trimmed, fence) {
				fence = ""
			}
		case strings.HasPrefix(trimmed, "```"):
			fence = "```"
		case strings.HasPrefix(trimmed, "~~~"):
			fence = "~~~"
		case line == trimmed && (strings.HasPrefix(line, "import ") || strings.HasPrefix(line, "export ")):
			continue
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	return out.String()
}

// SafeURL validates and sanitizes a URL for use in HTML attributes.
// Site-relative paths, fragments and http(s), mailto and tel URLs are kept.
// Anything else, including protocol-relative URLs, yields "".
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "//") {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return val
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return val
	default:
		return ""
	}
}
