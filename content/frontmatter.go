package content

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"gopkg.in/yaml.v3"
)

// FrontMatter is the metadata block at the head of a content file. Every
// field is optional; absent or mistyped values are left at their zero value.
type FrontMatter struct {
	Title       string
	Slug        string
	Date        string
	Updated     string
	Description string
	Image       string
	Cover       string
	Author      string
	Tags        []string
	Draft       bool
}

// PublishedAt parses Date. ok is false when the date is absent or unparseable.
func (fm FrontMatter) PublishedAt() (time.Time, bool) {
	return ParseDate(fm.Date)
}

// UpdatedAt parses Updated, falling back to Date.
func (fm FrontMatter) UpdatedAt() (time.Time, bool) {
	if t, ok := ParseDate(fm.Updated); ok {
		return t, true
	}
	return fm.PublishedAt()
}

// ParseDate parses a front-matter date. Dates without a zone are UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

const delimiter = "---"

var (
	utf8BOM         = []byte("\xef\xbb\xbf")
	errMissingClose = fmt.Errorf("%w: closing %q delimiter is missing", ErrMalformedFrontMatter, delimiter)
)

// Parse splits raw into front-matter and body. Text without a leading
// "---" line has empty front-matter and is returned whole as the body.
// An unterminated block or undecodable YAML yields a *ParseError.
func Parse(raw []byte) (FrontMatter, string, error) {
	block, body, had, err := split(raw)
	if err != nil {
		return FrontMatter{}, "", &ParseError{Err: err}
	}
	if !had {
		return FrontMatter{}, string(body), nil
	}
	var fields map[string]any
	if len(bytes.TrimSpace(block)) > 0 {
		if err := yaml.Unmarshal(block, &fields); err != nil {
			return FrontMatter{}, "", &ParseError{Err: fmt.Errorf("%w: %v", ErrMalformedFrontMatter, err)}
		}
	}
	return decode(fields), string(body), nil
}

// split separates the YAML block (without delimiters) from the body. The
// newline style of the first line is used throughout.
func split(raw []byte) (block, body []byte, had bool, err error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	nl := []byte("\n")
	if i := bytes.IndexByte(raw, '\n'); i > 0 && raw[i-1] == '\r' {
		nl = []byte("\r\n")
	}
	open := append([]byte(delimiter), nl...)
	if !bytes.HasPrefix(raw, open) {
		return nil, raw, false, nil
	}

	rest := raw[len(open):]
	for start := 0; start <= len(rest); {
		end := bytes.Index(rest[start:], nl)
		line, next := rest[start:], len(rest)
		if end >= 0 {
			line, next = rest[start:start+end], start+end+len(nl)
		}
		if string(bytes.TrimRight(line, " \t")) == delimiter {
			return rest[:start], rest[next:], true, nil
		}
		if end < 0 {
			break
		}
		start = next
	}
	return nil, nil, false, errMissingClose
}

func decode(fields map[string]any) FrontMatter {
	if fields == nil {
		return FrontMatter{}
	}
	draft, _ := fields["draft"].(bool)
	return FrontMatter{
		Title:       stringField(fields, "title"),
		Slug:        stringField(fields, "slug"),
		Date:        dateField(fields, "date"),
		Updated:     dateField(fields, "updated"),
		Description: stringField(fields, "description"),
		Image:       stringField(fields, "image"),
		Cover:       stringField(fields, "cover"),
		Author:      stringField(fields, "author"),
		Tags:        tagsField(fields, "tags"),
		Draft:       draft,
	}
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

// dateField keeps dates as text. YAML resolves unquoted dates to timestamps,
// which are formatted back to a date or RFC 3339.
func dateField(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			return v.Format(time.DateOnly)
		}
		return v.Format(time.RFC3339)
	}
	return ""
}

func tagsField(fields map[string]any, key string) []string {
	var raw []string
	switch v := fields[key].(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	case string:
		raw = strings.Split(v, ",")
	}
	var tags []string
	for _, t := range raw {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
