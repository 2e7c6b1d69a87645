package content

import (
	"context"
	"fmt"
	"path"
	"slices"
)

// Resolve maps (locale, slug) to the path of its document relative to the
// store root. The slug is looked up in the published listing, so a
// front-matter slug wins over a file named {slug}.mdx and duplicates resolve
// to the same file the listing shows. A file whose front-matter claims a
// different slug is never reachable by its name.
func (ix *Index) Resolve(ctx context.Context, loc, slug string) (string, error) {
	meta, err := ix.resolveMeta(ctx, loc, slug)
	if err != nil {
		return "", err
	}
	return path.Join(loc, meta.FileName), nil
}

// Post resolves slug and returns the parsed document.
func (ix *Index) Post(ctx context.Context, loc, slug string) (Document, error) {
	meta, err := ix.resolveMeta(ctx, loc, slug)
	if err != nil {
		return Document{}, err
	}
	doc, err := ix.load(ctx, loc, meta.FileName)
	if err != nil {
		return Document{}, err
	}
	// The file may have changed since the listing was cached.
	if doc.FrontMatter.Draft || doc.Slug() != slug {
		return Document{}, notFound(loc, slug)
	}
	return doc, nil
}

func (ix *Index) resolveMeta(ctx context.Context, loc, slug string) (PostMeta, error) {
	if err := ix.checkLocale(loc); err != nil {
		return PostMeta{}, err
	}
	if !validSlug(slug) {
		return PostMeta{}, notFound(loc, slug)
	}

	posts, err := ix.ListAll(ctx, loc, false)
	if err != nil {
		return PostMeta{}, err
	}
	i := slices.IndexFunc(posts, func(p PostMeta) bool { return p.Slug == slug })
	if i < 0 {
		return PostMeta{}, notFound(loc, slug)
	}
	return posts[i], nil
}

func notFound(loc, slug string) error {
	return fmt.Errorf("content: %s/%s: %w", loc, slug, ErrNotFound)
}
