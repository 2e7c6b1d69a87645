package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"slices"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/xiwu-io/inkwell/internal/logfields"
	"github.com/xiwu-io/inkwell/locale"
)

// Observer receives index events. Implementations forward them to metrics.
type Observer interface {
	CacheLookup(locale string, state CacheState)
	IndexLoaded(locale string, posts int, d time.Duration)
}

// NopObserver discards every event.
type NopObserver struct{}

func (NopObserver) CacheLookup(string, CacheState)          {}
func (NopObserver) IndexLoaded(string, int, time.Duration) {}

// Index builds sorted post listings over a Store and resolves slugs.
type Index struct {
	store   *Store
	locales locale.Set
	cache   Cache
	obs     Observer
	logger  *slog.Logger
	reads   int

	group singleflight.Group
}

// Option configures an Index.
type Option func(*Index)

// WithCache sets the listing cache. The default is NopCache.
func WithCache(c Cache) Option {
	return func(ix *Index) {
		if c != nil {
			ix.cache = c
		}
	}
}

// WithObserver sets the event observer.
func WithObserver(o Observer) Option {
	return func(ix *Index) {
		if o != nil {
			ix.obs = o
		}
	}
}

// WithLogger sets the logger used for warnings.
func WithLogger(l *slog.Logger) Option {
	return func(ix *Index) {
		if l != nil {
			ix.logger = l
		}
	}
}

// WithReadConcurrency bounds the number of documents read at once.
func WithReadConcurrency(n int) Option {
	return func(ix *Index) {
		if n > 0 {
			ix.reads = n
		}
	}
}

// NewIndex returns an Index over store for the given locales.
func NewIndex(store *Store, locales locale.Set, opts ...Option) *Index {
	ix := &Index{
		store:   store,
		locales: locales,
		cache:   NopCache{},
		obs:     NopObserver{},
		logger:  slog.Default(),
		reads:   8,
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Locales returns the locale set the index serves.
func (ix *Index) Locales() locale.Set {
	return ix.locales
}

// Invalidate drops every cached listing.
func (ix *Index) Invalidate() {
	ix.cache.Purge()
}

func (ix *Index) checkLocale(l string) error {
	if !ix.locales.Supported(l) {
		return fmt.Errorf("%w: %q", ErrUnsupportedLocale, l)
	}
	return nil
}

// ListAll returns the posts of a locale, newest first. Posts without a date
// sort as if dated at the Unix epoch. Drafts are left out unless
// includeDrafts is set.
func (ix *Index) ListAll(ctx context.Context, loc string, includeDrafts bool) ([]PostMeta, error) {
	if err := ix.checkLocale(loc); err != nil {
		return nil, err
	}
	key := CacheKey{Locale: loc, Drafts: includeDrafts}
	posts, state := ix.cache.Get(key)
	ix.obs.CacheLookup(loc, state)
	switch state {
	case CacheFresh:
		return posts, nil
	case CacheStale:
		ix.refresh(ctx, key)
		return posts, nil
	}
	return ix.build(ctx, key)
}

// FindNeighbors locates slug in the locale's listing and returns the newer
// (Prev) and older (Next) posts around it. Both are nil when slug is not
// listed.
func (ix *Index) FindNeighbors(ctx context.Context, loc, slug string) (Neighbors, error) {
	posts, err := ix.ListAll(ctx, loc, false)
	if err != nil {
		return Neighbors{}, err
	}
	return NeighborsIn(posts, slug), nil
}

// NeighborsIn is FindNeighbors over a listing the caller already holds.
func NeighborsIn(posts []PostMeta, slug string) Neighbors {
	i := slices.IndexFunc(posts, func(p PostMeta) bool { return p.Slug == slug })
	if i < 0 {
		return Neighbors{}
	}
	var n Neighbors
	if i > 0 {
		prev := posts[i-1]
		n.Prev = &prev
	}
	if i < len(posts)-1 {
		next := posts[i+1]
		n.Next = &next
	}
	return n
}

// CollectAllSlugs returns the sorted union of published slugs across every
// supported locale.
func (ix *Index) CollectAllSlugs(ctx context.Context) ([]string, error) {
	set := make(map[string]struct{})
	for _, loc := range ix.locales.Locales {
		posts, err := ix.ListAll(ctx, loc, false)
		if err != nil {
			return nil, err
		}
		for _, p := range posts {
			set[p.Slug] = struct{}{}
		}
	}
	slugs := make([]string, 0, len(set))
	for s := range set {
		slugs = append(slugs, s)
	}
	sort.Strings(slugs)
	return slugs, nil
}

// Translations pairs every published slug with each locale that resolves
// it. A slug present in only one locale yields a single Translation.
func (ix *Index) Translations(ctx context.Context) ([]Translation, error) {
	slugs, err := ix.CollectAllSlugs(ctx)
	if err != nil {
		return nil, err
	}
	var out []Translation
	for _, slug := range slugs {
		for _, loc := range ix.locales.Locales {
			meta, err := ix.resolveMeta(ctx, loc, slug)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			out = append(out, Translation{Slug: slug, Locale: loc, Date: meta.Date})
		}
	}
	return out, nil
}

func (ix *Index) build(ctx context.Context, key CacheKey) ([]PostMeta, error) {
	v, err, _ := ix.group.Do(key.String(), func() (any, error) {
		start := time.Now()
		docs, err := ix.scan(ctx, key.Locale)
		if err != nil {
			return nil, err
		}
		if !key.Drafts {
			docs = slices.DeleteFunc(docs, func(d Document) bool { return d.FrontMatter.Draft })
		}
		docs = ix.dedupe(key.Locale, docs)
		posts := make([]PostMeta, 0, len(docs))
		for _, d := range docs {
			posts = append(posts, d.Meta())
		}
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].orderDate().After(posts[j].orderDate())
		})
		ix.cache.Add(key, posts)
		ix.obs.IndexLoaded(key.Locale, len(posts), time.Since(start))
		return posts, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]PostMeta)), nil
}

// refresh rebuilds a stale listing without blocking the caller.
func (ix *Index) refresh(ctx context.Context, key CacheKey) {
	bg := context.WithoutCancel(ctx)
	go func() {
		if _, err := ix.build(bg, key); err != nil {
			ix.logger.Warn("index refresh failed", logfields.Locale(key.Locale), logfields.Error(err))
		}
	}()
}

// scan reads and parses every document of a locale, concurrently, keeping
// listing order. Files removed between listing and reading are skipped;
// parse failures abort the scan.
func (ix *Index) scan(ctx context.Context, loc string) ([]Document, error) {
	names, err := ix.store.ListDocuments(ctx, loc)
	if err != nil {
		return nil, err
	}
	docs := make([]Document, len(names))
	found := make([]bool, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.reads)
	for i, name := range names {
		g.Go(func() error {
			doc, err := ix.load(gctx, loc, name)
			if errors.Is(err, ErrNotFound) {
				ix.logger.Warn("document vanished during scan", logfields.Locale(loc), logfields.File(name))
				return nil
			}
			if err != nil {
				return err
			}
			docs[i], found[i] = doc, true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := docs[:0]
	for i, d := range docs {
		if found[i] {
			out = append(out, d)
		}
	}
	return out, nil
}

func (ix *Index) load(ctx context.Context, loc, name string) (Document, error) {
	raw, err := ix.store.ReadDocument(ctx, loc, name)
	if err != nil {
		return Document{}, err
	}
	p := path.Join(loc, name)
	fm, body, err := Parse(raw)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.File = p
		}
		return Document{}, err
	}
	return Document{Locale: loc, FileName: name, Path: p, FrontMatter: fm, Body: body}, nil
}

// dedupe keeps one document per effective slug, preserving order. A
// published document beats a draft, a front-matter slug beats a file-name
// stem, and otherwise the first file in name order wins. Every listing,
// feed and lookup sees only the winner.
func (ix *Index) dedupe(loc string, docs []Document) []Document {
	winner := make(map[string]int, len(docs))
	for i, d := range docs {
		slug := d.Slug()
		j, dup := winner[slug]
		if !dup {
			winner[slug] = i
			continue
		}
		win, lose := j, i
		if outranks(d, docs[j]) {
			win, lose = i, j
		}
		winner[slug] = win
		if !docs[lose].FrontMatter.Draft {
			ix.logger.Warn("duplicate slug",
				logfields.Locale(loc), logfields.Slug(slug),
				slog.String("winner", docs[win].FileName),
				slog.String("dropped", docs[lose].FileName))
		}
	}
	out := make([]Document, 0, len(winner))
	for i, d := range docs {
		if winner[d.Slug()] == i {
			out = append(out, d)
		}
	}
	return out
}

func outranks(a, b Document) bool {
	if a.FrontMatter.Draft != b.FrontMatter.Draft {
		return !a.FrontMatter.Draft
	}
	ao := strings.TrimSpace(a.FrontMatter.Slug) != ""
	bo := strings.TrimSpace(b.FrontMatter.Slug) != ""
	if ao != bo {
		return ao
	}
	return a.FileName < b.FileName
}
