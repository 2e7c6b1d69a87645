package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
)

// Store reads documents from a directory tree laid out as
// {root}/{locale}/{name}.mdx. It never writes.
type Store struct {
	fsys fs.FS
	root string
}

// NewStore returns a Store over the directory dir.
func NewStore(dir string) *Store {
	return &Store{fsys: os.DirFS(dir), root: dir}
}

// NewStoreFS returns a Store over an arbitrary file system.
func NewStoreFS(fsys fs.FS) *Store {
	return &Store{fsys: fsys}
}

// Root returns the directory the store reads from, or "" for a Store
// created with NewStoreFS.
func (s *Store) Root() string {
	return s.root
}

// ListDocuments returns the names of the .mdx files in the locale's
// directory, sorted by name. A missing directory yields no names and no
// error, since not every locale carries every post.
func (s *Store) ListDocuments(ctx context.Context, locale string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !fs.ValidPath(locale) || strings.Contains(locale, "/") {
		return nil, nil
	}
	info, err := fs.Stat(s.fsys, locale)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("content: stat %s: %w", locale, err)
	}
	if !info.IsDir() {
		return nil, nil
	}
	entries, err := fs.ReadDir(s.fsys, locale)
	if err != nil {
		return nil, fmt.Errorf("content: list %s: %w", locale, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Ext) {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// ReadDocument returns the raw text of one document. Any failure is
// reported as ErrNotFound.
func (s *Store) ReadDocument(ctx context.Context, locale, fileName string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := path.Join(locale, fileName)
	if !fs.ValidPath(p) || strings.ContainsAny(fileName, `/\`) || strings.Contains(locale, "/") {
		return nil, fmt.Errorf("content: read %s: %w", p, ErrNotFound)
	}
	raw, err := fs.ReadFile(s.fsys, p)
	if err != nil {
		return nil, fmt.Errorf("content: read %s: %w: %w", p, ErrNotFound, err)
	}
	return raw, nil
}
