// Package scaffold provides the embedded templates used by `inkwell new`
// to start a post.
package scaffold

import (
	"embed"
	"fmt"
	"io"
	"strconv"
	"text/template"
	"time"
)

// Templates contains all scaffold template files.
// Files use Go text/template syntax and have a .tmpl suffix.
//
//go:embed all:templates
var Templates embed.FS

var postTemplate = template.Must(template.New("post.mdx.tmpl").
	Funcs(template.FuncMap{"quote": strconv.Quote}).
	ParseFS(Templates, "templates/post.mdx.tmpl"))

// Post holds the template variables of a new post.
type Post struct {
	Title  string
	Slug   string
	Author string
	Date   string
}

// NewPost returns the variables for a post dated on the given day.
func NewPost(title, slug, author string, day time.Time) Post {
	return Post{Title: title, Slug: slug, Author: author, Date: day.Format("2006-01-02")}
}

// WritePost renders a draft post with front-matter for p. Drafts are never
// listed or resolvable until the author flips the flag.
func WritePost(w io.Writer, p Post) error {
	if err := postTemplate.Execute(w, p); err != nil {
		return fmt.Errorf("scaffold: render post: %w", err)
	}
	return nil
}
