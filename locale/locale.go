// Package locale describes the languages a site publishes in and how each
// one maps onto URL paths. The default locale is served without a path
// prefix; every other locale lives under "/{locale}".
package locale

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Set is a fixed, ordered collection of supported locales with one default.
type Set struct {
	Locales []string
	Default string

	tags    []language.Tag
	matcher language.Matcher
}

// NewSet validates locales as BCP 47 tags and returns a Set. The default
// locale must be a member of locales.
func NewSet(locales []string, def string) (Set, error) {
	if len(locales) == 0 {
		return Set{}, fmt.Errorf("locale: at least one locale is required")
	}
	s := Set{Default: strings.TrimSpace(def)}
	seen := make(map[string]struct{}, len(locales))
	for _, l := range locales {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, dup := seen[l]; dup {
			continue
		}
		tag, err := language.Parse(l)
		if err != nil {
			return Set{}, fmt.Errorf("locale: invalid locale %q: %w", l, err)
		}
		seen[l] = struct{}{}
		s.Locales = append(s.Locales, l)
		s.tags = append(s.tags, tag)
	}
	if _, ok := seen[s.Default]; !ok {
		return Set{}, fmt.Errorf("locale: default locale %q is not in %v", s.Default, s.Locales)
	}
	// Put the default first so the matcher falls back to it.
	ordered := make([]language.Tag, 0, len(s.tags))
	for i, l := range s.Locales {
		if l == s.Default {
			ordered = append(ordered, s.tags[i])
		}
	}
	for i, l := range s.Locales {
		if l != s.Default {
			ordered = append(ordered, s.tags[i])
		}
	}
	s.matcher = language.NewMatcher(ordered)
	return s, nil
}

// MustSet is like NewSet but panics on error. Intended for tests and
// package-level defaults.
func MustSet(locales []string, def string) Set {
	s, err := NewSet(locales, def)
	if err != nil {
		panic(err)
	}
	return s
}

// Supported reports whether l is one of the configured locales.
func (s Set) Supported(l string) bool {
	for _, x := range s.Locales {
		if x == l {
			return true
		}
	}
	return false
}

// IsDefault reports whether l is the default locale.
func (s Set) IsDefault(l string) bool {
	return l == s.Default
}

// Prefix returns the URL path prefix for l: empty for the default locale,
// "/{locale}" otherwise.
func (s Set) Prefix(l string) string {
	if l == s.Default {
		return ""
	}
	return "/" + l
}

// Path places a site-relative page path under the locale prefix.
// Path("zh", "/blog") is "/zh/blog"; Path("zh", "/") is "/zh".
func (s Set) Path(l, p string) string {
	if p == "" {
		p = "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	prefix := s.Prefix(l)
	if prefix == "" {
		return p
	}
	if p == "/" {
		return prefix
	}
	return prefix + p
}

// Tag returns the language tag of l, or und for unknown locales.
func (s Set) Tag(l string) language.Tag {
	for i, x := range s.Locales {
		if x == l {
			return s.tags[i]
		}
	}
	return language.Und
}

// Name returns the locale's name written in its own language, e.g. "中文".
func (s Set) Name(l string) string {
	tag := s.Tag(l)
	if tag == language.Und {
		return l
	}
	if name := display.Self.Name(tag); name != "" {
		return name
	}
	return l
}

// Match picks the best supported locale for an Accept-Language header,
// falling back to the default.
func (s Set) Match(acceptLanguage string) string {
	if s.matcher == nil || strings.TrimSpace(acceptLanguage) == "" {
		return s.Default
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return s.Default
	}
	_, idx, conf := s.matcher.Match(tags...)
	if conf == language.No {
		return s.Default
	}
	ordered := s.orderedLocales()
	if idx < 0 || idx >= len(ordered) {
		return s.Default
	}
	return ordered[idx]
}

func (s Set) orderedLocales() []string {
	out := make([]string, 0, len(s.Locales))
	out = append(out, s.Default)
	for _, l := range s.Locales {
		if l != s.Default {
			out = append(out, l)
		}
	}
	return out
}
