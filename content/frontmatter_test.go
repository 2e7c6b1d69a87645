package content

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParse_NoFrontMatter(t *testing.T) {
	fm, body, err := Parse([]byte("# Hello\n\nworld\n"))
	require.NoError(t, err)
	require.Equal(t, FrontMatter{}, fm)
	require.Equal(t, "# Hello\n\nworld\n", body)
}

func TestParse_Fields(t *testing.T) {
	raw := `---
title: Hello World
slug: " custom-slug "
date: 2024-03-01
updated: "2024-04-02T10:00:00Z"
description: A first post
image: /images/hello.png
author: Jane
tags:
  - go
  - web
draft: false
---
Body text
`
	fm, body, err := Parse([]byte(raw))
	require.NoError(t, err)
	require.Equal(t, "Hello World", fm.Title)
	require.Equal(t, " custom-slug ", fm.Slug)
	require.Equal(t, "2024-03-01", fm.Date)
	require.Equal(t, "2024-04-02T10:00:00Z", fm.Updated)
	require.Equal(t, "A first post", fm.Description)
	require.Equal(t, "/images/hello.png", fm.Image)
	require.Equal(t, "Jane", fm.Author)
	require.Equal(t, []string{"go", "web"}, fm.Tags)
	require.False(t, fm.Draft)
	require.Equal(t, "Body text\n", body)

	published, ok := fm.PublishedAt()
	require.True(t, ok)
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), published)

	updated, ok := fm.UpdatedAt()
	require.True(t, ok)
	require.Equal(t, time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC), updated.UTC())
}

func TestParse_CRLF(t *testing.T) {
	raw := "---\r\ntitle: Windows\r\n---\r\nline one\r\n"
	fm, body, err := Parse([]byte(raw))
	require.NoError(t, err)
	require.Equal(t, "Windows", fm.Title)
	require.Equal(t, "line one\r\n", body)
}

func TestParse_BOM(t *testing.T) {
	fm, _, err := Parse([]byte("\xef\xbb\xbf---\ntitle: bom\n---\n"))
	require.NoError(t, err)
	require.Equal(t, "bom", fm.Title)
}

func TestParse_EmptyBlock(t *testing.T) {
	fm, body, err := Parse([]byte("---\n---\nbody"))
	require.NoError(t, err)
	require.Equal(t, FrontMatter{}, fm)
	require.Equal(t, "body", body)
}

func TestParse_ClosingDelimiterAtEOF(t *testing.T) {
	fm, body, err := Parse([]byte("---\ntitle: t\n---"))
	require.NoError(t, err)
	require.Equal(t, "t", fm.Title)
	require.Empty(t, body)
}

func TestParse_MissingClosingDelimiter(t *testing.T) {
	_, _, err := Parse([]byte("---\ntitle: open\nbody without end\n"))
	require.Error(t, err)
	require.ErrorIs(t, err, ErrMalformedFrontMatter)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
}

func TestParse_InvalidYAML(t *testing.T) {
	_, _, err := Parse([]byte("---\ntitle: [unclosed\n---\n"))
	require.ErrorIs(t, err, ErrMalformedFrontMatter)
}

func TestParse_WrongTypesDefault(t *testing.T) {
	raw := `---
title: 42
draft: "yes"
tags: 7
description:
  nested: map
---
`
	fm, _, err := Parse([]byte(raw))
	require.NoError(t, err)
	require.Empty(t, fm.Title)
	require.False(t, fm.Draft, "only boolean true marks a draft")
	require.Empty(t, fm.Tags)
	require.Empty(t, fm.Description)
}

func TestParse_DraftTrue(t *testing.T) {
	fm, _, err := Parse([]byte("---\ndraft: true\n---\n"))
	require.NoError(t, err)
	require.True(t, fm.Draft)
}

func TestParse_TagsFromString(t *testing.T) {
	fm, _, err := Parse([]byte("---\ntags: \"go, web ,, cli\"\n---\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"go", "web", "cli"}, fm.Tags)
}

func TestParse_TimestampWithClock(t *testing.T) {
	fm, _, err := Parse([]byte("---\ndate: 2024-03-01T08:30:00Z\n---\n"))
	require.NoError(t, err)
	require.Equal(t, "2024-03-01T08:30:00Z", fm.Date)
}

func TestParseDate(t *testing.T) {
	_, ok := ParseDate("")
	require.False(t, ok)

	_, ok = ParseDate("sometime soon")
	require.False(t, ok)

	d, ok := ParseDate("2023-12-25")
	require.True(t, ok)
	require.Equal(t, 2023, d.Year())
	require.Equal(t, time.December, d.Month())
}

func TestUpdatedAt_FallsBackToDate(t *testing.T) {
	fm := FrontMatter{Date: "2024-01-01"}
	u, ok := fm.UpdatedAt()
	require.True(t, ok)
	require.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), u)
}

func TestEffectiveSlug(t *testing.T) {
	require.Equal(t, "hello", EffectiveSlug("hello.mdx", FrontMatter{}))
	require.Equal(t, "hello", EffectiveSlug("hello.mdx", FrontMatter{Slug: "   "}))
	require.Equal(t, "custom", EffectiveSlug("hello.mdx", FrontMatter{Slug: " custom "}))
}
