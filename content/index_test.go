package content

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xiwu-io/inkwell/locale"
)

func mdx(frontMatter, body string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte("---\n" + frontMatter + "\n---\n" + body)}
}

func newTestIndex(t *testing.T, fsys fstest.MapFS, opts ...Option) *Index {
	t.Helper()
	return NewIndex(NewStoreFS(fsys), locale.MustSet([]string{"en", "zh"}, "en"), opts...)
}

func slugsOf(posts []PostMeta) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Slug
	}
	return out
}

func blogFS() fstest.MapFS {
	return fstest.MapFS{
		"en/a.mdx":       mdx("title: A\ndate: 2024-01-01", "a body"),
		"en/b.mdx":       mdx("title: B\ndate: 2024-06-01", "b body"),
		"en/undated.mdx": mdx("title: Undated", ""),
		"en/garbled.mdx": mdx("title: Garbled\ndate: sometime soon", ""),
		"en/draft.mdx":   mdx("title: Draft\ndate: 2025-01-01\ndraft: true", ""),
		"en/post.mdx":    mdx("title: Custom\nslug: custom\ndate: 2023-05-05", ""),
		"zh/b.mdx":       mdx("title: 乙\ndate: 2024-06-02", ""),
		"zh/zh-only.mdx": mdx("title: 只有中文\ndate: 2024-02-02", ""),
	}
}

func TestListAll_SortedNewestFirst(t *testing.T) {
	ix := newTestIndex(t, blogFS())
	posts, err := ix.ListAll(context.Background(), "en", false)
	require.NoError(t, err)
	require.Equal(t, []string{"b", "a", "custom", "garbled", "undated"}, slugsOf(posts))
	require.False(t, posts[3].HasDate())
	require.Equal(t, "sometime soon", posts[3].RawDate)
}

func TestListAll_ExcludesDrafts(t *testing.T) {
	ix := newTestIndex(t, blogFS())
	ctx := context.Background()

	posts, err := ix.ListAll(ctx, "en", false)
	require.NoError(t, err)
	require.NotContains(t, slugsOf(posts), "draft")

	all, err := ix.ListAll(ctx, "en", true)
	require.NoError(t, err)
	require.Equal(t, "draft", all[0].Slug)
	require.True(t, all[0].Draft)

	_, err = ix.Resolve(ctx, "en", "draft")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = ix.Post(ctx, "en", "draft")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListAll_TwoPostScenario(t *testing.T) {
	ix := newTestIndex(t, fstest.MapFS{
		"en/a.mdx": mdx("title: A\ndate: 2024-01-01", ""),
		"en/b.mdx": mdx("title: B\ndate: 2024-06-01", ""),
	})
	ctx := context.Background()

	posts, err := ix.ListAll(ctx, "en", false)
	require.NoError(t, err)
	require.Equal(t, []string{"b", "a"}, slugsOf(posts))

	n, err := ix.FindNeighbors(ctx, "en", "b")
	require.NoError(t, err)
	require.Nil(t, n.Prev)
	require.NotNil(t, n.Next)
	require.Equal(t, "a", n.Next.Slug)

	n, err = ix.FindNeighbors(ctx, "en", "a")
	require.NoError(t, err)
	require.NotNil(t, n.Prev)
	require.Equal(t, "b", n.Prev.Slug)
	require.Nil(t, n.Next)
}

func TestFindNeighbors_MatchesListing(t *testing.T) {
	ix := newTestIndex(t, blogFS())
	ctx := context.Background()
	posts, err := ix.ListAll(ctx, "en", false)
	require.NoError(t, err)

	for i, p := range posts {
		n, err := ix.FindNeighbors(ctx, "en", p.Slug)
		require.NoError(t, err)
		if i == 0 {
			require.Nil(t, n.Prev)
		} else {
			require.Equal(t, posts[i-1], *n.Prev)
		}
		if i == len(posts)-1 {
			require.Nil(t, n.Next)
		} else {
			require.Equal(t, posts[i+1], *n.Next)
		}
	}

	n, err := ix.FindNeighbors(ctx, "en", "nope")
	require.NoError(t, err)
	require.Equal(t, Neighbors{}, n)
}

func TestListAll_MissingLocaleDir(t *testing.T) {
	ix := newTestIndex(t, fstest.MapFS{"en/a.mdx": mdx("title: A", "")})
	posts, err := ix.ListAll(context.Background(), "zh", false)
	require.NoError(t, err)
	require.Empty(t, posts)
}

func TestListAll_UnsupportedLocale(t *testing.T) {
	ix := newTestIndex(t, blogFS())
	ctx := context.Background()

	_, err := ix.ListAll(ctx, "fr", false)
	require.ErrorIs(t, err, ErrUnsupportedLocale)
	_, err = ix.Resolve(ctx, "fr", "a")
	require.ErrorIs(t, err, ErrUnsupportedLocale)
	require.False(t, errors.Is(err, ErrNotFound))
}

func TestListAll_TitleFallsBackToSlug(t *testing.T) {
	ix := newTestIndex(t, fstest.MapFS{"en/untitled.mdx": {Data: []byte("just a body")}})
	posts, err := ix.ListAll(context.Background(), "en", false)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, "untitled", posts[0].Title)
}

func TestListAll_StableTieBreak(t *testing.T) {
	ix := newTestIndex(t, fstest.MapFS{
		"en/c.mdx": mdx("date: 2024-01-01", ""),
		"en/a.mdx": mdx("date: 2024-01-01", ""),
		"en/b.mdx": mdx("date: 2024-01-01", ""),
	})
	posts, err := ix.ListAll(context.Background(), "en", false)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, slugsOf(posts))
}

func TestListAll_MalformedFrontMatter(t *testing.T) {
	ix := newTestIndex(t, fstest.MapFS{
		"en/ok.mdx":  mdx("title: fine", ""),
		"en/bad.mdx": {Data: []byte("---\ntitle: never closed\n")},
	})
	_, err := ix.ListAll(context.Background(), "en", false)
	require.ErrorIs(t, err, ErrMalformedFrontMatter)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	require.Equal(t, "en/bad.mdx", pe.File)
}

func TestResolve_ExplicitSlug(t *testing.T) {
	ix := newTestIndex(t, blogFS())
	ctx := context.Background()

	p, err := ix.Resolve(ctx, "en", "custom")
	require.NoError(t, err)
	require.Equal(t, "en/post.mdx", p)

	_, err = ix.Resolve(ctx, "en", "post")
	require.ErrorIs(t, err, ErrNotFound, "file stem is no fallback once another slug is declared")
}

func TestResolve_FilenameFallback(t *testing.T) {
	ix := newTestIndex(t, blogFS())
	p, err := ix.Resolve(context.Background(), "en", "a")
	require.NoError(t, err)
	require.Equal(t, "en/a.mdx", p)
}

func TestResolve_ExplicitSlugMatchingStem(t *testing.T) {
	ix := newTestIndex(t, fstest.MapFS{"en/same.mdx": mdx("slug: same", "")})
	p, err := ix.Resolve(context.Background(), "en", "same")
	require.NoError(t, err)
	require.Equal(t, "en/same.mdx", p)
}

func TestResolve_ExplicitSlugBeatsFilename(t *testing.T) {
	ix := newTestIndex(t, fstest.MapFS{
		"en/hello.mdx": mdx("title: by name", ""),
		"en/other.mdx": mdx("title: by slug\nslug: hello", ""),
	})
	p, err := ix.Resolve(context.Background(), "en", "hello")
	require.NoError(t, err)
	require.Equal(t, "en/other.mdx", p)
}

func TestResolve_DuplicateSlugLexicographic(t *testing.T) {
	ix := newTestIndex(t, fstest.MapFS{
		"en/z.mdx": mdx("slug: dup\ndate: 2025-01-01", ""),
		"en/m.mdx": mdx("slug: dup\ndate: 2020-01-01", ""),
	})
	p, err := ix.Resolve(context.Background(), "en", "dup")
	require.NoError(t, err)
	require.Equal(t, "en/m.mdx", p)
}

func TestDuplicateSlug_ListingAgreesWithResolve(t *testing.T) {
	ix := newTestIndex(t, fstest.MapFS{
		"en/a.mdx": mdx("slug: x\ndate: 2020-01-01", "from a"),
		"en/b.mdx": mdx("slug: x\ndate: 2024-01-01", "from b"),
		"en/c.mdx": mdx("date: 2022-01-01", ""),
	})
	ctx := context.Background()

	posts, err := ix.ListAll(ctx, "en", false)
	require.NoError(t, err)
	require.Equal(t, []string{"c", "x"}, slugsOf(posts))
	require.Equal(t, "a.mdx", posts[1].FileName)

	doc, err := ix.Post(ctx, "en", "x")
	require.NoError(t, err)
	require.Equal(t, "a.mdx", doc.FileName)
	require.Equal(t, "from a", doc.Body)

	n, err := ix.FindNeighbors(ctx, "en", "x")
	require.NoError(t, err)
	require.NotNil(t, n.Prev)
	require.Equal(t, "c", n.Prev.Slug)
	require.Nil(t, n.Next)
}

func TestDuplicateSlug_OverrideBeatsStem(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	ix := newTestIndex(t, fstest.MapFS{
		"en/a.mdx": mdx("title: by name\ndate: 2024-01-01", ""),
		"en/b.mdx": mdx("title: by slug\nslug: a\ndate: 2023-01-01", ""),
	}, WithLogger(logger))
	ctx := context.Background()

	posts, err := ix.ListAll(ctx, "en", false)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, "b.mdx", posts[0].FileName)

	p, err := ix.Resolve(ctx, "en", "a")
	require.NoError(t, err)
	require.Equal(t, "en/b.mdx", p)

	require.Contains(t, logs.String(), "winner=b.mdx")
	require.Contains(t, logs.String(), "dropped=a.mdx")
}

func TestDuplicateSlug_PublishedBeatsDraft(t *testing.T) {
	ix := newTestIndex(t, fstest.MapFS{
		"en/a.mdx": mdx("slug: x\ndraft: true", ""),
		"en/b.mdx": mdx("slug: x\ndate: 2024-01-01", ""),
	})
	posts, err := ix.ListAll(context.Background(), "en", true)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, "b.mdx", posts[0].FileName)
	require.False(t, posts[0].Draft)
}

func TestResolve_DraftWithSlugIsInvisible(t *testing.T) {
	ix := newTestIndex(t, fstest.MapFS{
		"en/secret.mdx": mdx("slug: hidden\ndraft: true", ""),
	})
	ctx := context.Background()
	_, err := ix.Resolve(ctx, "en", "hidden")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = ix.Resolve(ctx, "en", "secret")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_RejectsPathSlugs(t *testing.T) {
	ix := newTestIndex(t, fstest.MapFS{
		"en/a.mdx": mdx("title: A", ""),
		"zh/b.mdx": mdx("title: B", ""),
	})
	ctx := context.Background()
	for _, slug := range []string{"", ".", "..", "../zh/b", "a/b", `a\b`} {
		_, err := ix.Resolve(ctx, "en", slug)
		require.ErrorIs(t, err, ErrNotFound, slug)
	}
}

func TestPost(t *testing.T) {
	ix := newTestIndex(t, blogFS())
	doc, err := ix.Post(context.Background(), "en", "custom")
	require.NoError(t, err)
	require.Equal(t, "post.mdx", doc.FileName)
	require.Equal(t, "en/post.mdx", doc.Path)
	require.Equal(t, "Custom", doc.FrontMatter.Title)
	require.Equal(t, "custom", doc.Slug())

	doc, err = ix.Post(context.Background(), "en", "a")
	require.NoError(t, err)
	require.Equal(t, "a body", doc.Body)
}

func TestCollectAllSlugs(t *testing.T) {
	ix := newTestIndex(t, blogFS())
	slugs, err := ix.CollectAllSlugs(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "custom", "garbled", "undated", "zh-only"}, slugs)
}

func TestTranslations(t *testing.T) {
	ix := newTestIndex(t, blogFS())
	tr, err := ix.Translations(context.Background())
	require.NoError(t, err)

	byLocale := map[string][]string{}
	for _, x := range tr {
		byLocale[x.Slug] = append(byLocale[x.Slug], x.Locale)
	}
	require.Equal(t, []string{"en", "zh"}, byLocale["b"])
	require.Equal(t, []string{"zh"}, byLocale["zh-only"])
	require.Equal(t, []string{"en"}, byLocale["custom"])
	require.NotContains(t, byLocale, "draft")
}

func TestCachedResultsMatchUncached(t *testing.T) {
	ctx := context.Background()
	plain := newTestIndex(t, blogFS())
	cached := newTestIndex(t, blogFS(), WithCache(NewLRUCache(8, Policy{})))

	for _, loc := range []string{"en", "zh"} {
		for _, drafts := range []bool{false, true} {
			want, err := plain.ListAll(ctx, loc, drafts)
			require.NoError(t, err)
			for range 2 {
				got, err := cached.ListAll(ctx, loc, drafts)
				require.NoError(t, err)
				require.Equal(t, want, got)
			}
		}
	}
}

type recordingObserver struct {
	mu      sync.Mutex
	lookups map[CacheState]int
	loads   int
}

func (o *recordingObserver) CacheLookup(_ string, s CacheState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.lookups == nil {
		o.lookups = map[CacheState]int{}
	}
	o.lookups[s]++
}

func (o *recordingObserver) IndexLoaded(string, int, time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.loads++
}

func TestIndex_CacheAvoidsRescan(t *testing.T) {
	obs := &recordingObserver{}
	ix := newTestIndex(t, blogFS(), WithCache(NewLRUCache(8, Policy{})), WithObserver(obs))
	ctx := context.Background()

	for range 3 {
		_, err := ix.ListAll(ctx, "en", false)
		require.NoError(t, err)
	}
	require.Equal(t, 1, obs.loads)
	require.Equal(t, 1, obs.lookups[CacheMiss])
	require.Equal(t, 2, obs.lookups[CacheFresh])

	ix.Invalidate()
	_, err := ix.ListAll(ctx, "en", false)
	require.NoError(t, err)
	require.Equal(t, 2, obs.loads)
}

func TestIndex_StaleListingRefreshesInBackground(t *testing.T) {
	fsys := fstest.MapFS{"en/a.mdx": mdx("date: 2024-01-01", "")}
	cache, clock := newTestLRU(8, Policy{Stale: time.Minute, Expire: time.Hour})
	ix := newTestIndex(t, fsys, WithCache(cache))
	ctx := context.Background()

	posts, err := ix.ListAll(ctx, "en", false)
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, slugsOf(posts))

	fsys["en/b.mdx"] = mdx("date: 2024-02-01", "")
	clock.advance(2 * time.Minute)

	posts, err = ix.ListAll(ctx, "en", false)
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, slugsOf(posts), "stale listing is served immediately")

	require.Eventually(t, func() bool {
		got, _ := cache.Get(CacheKey{Locale: "en"})
		return len(got) == 2
	}, time.Second, 5*time.Millisecond)
}
