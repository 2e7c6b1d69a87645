package inkwell

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/xiwu-io/inkwell/content"
)

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.CacheLookup("en", content.CacheFresh)
	m.IndexLoaded("en", 3, time.Millisecond)
	m.OGRendered("title")
	m.OGRateLimited()
	require.Nil(t, m.Registry())
}

func TestMetrics_Records(t *testing.T) {
	reg := prom.NewRegistry()
	m := NewMetrics(reg)
	require.Same(t, reg, m.Registry())

	m.CacheLookup("zh", content.CacheStale)
	m.CacheLookup("zh", content.CacheStale)
	m.IndexLoaded("zh", 7, 20*time.Millisecond)
	m.OGRendered("title")

	require.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("zh", "stale")))
	require.Equal(t, 7.0, testutil.ToFloat64(m.indexPosts.WithLabelValues("zh")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.ogRenders.WithLabelValues("title")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	require.True(t, names["inkwell_index_build_duration_seconds"])
	require.True(t, names["inkwell_index_cache_lookups_total"])
}

func TestWithRegistry_SharesCollectors(t *testing.T) {
	reg := prom.NewRegistry()
	app := newTestApp(t, testConfig(), siteFS(), WithRegistry(reg))
	require.Same(t, reg, app.Metrics.Registry())
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello World":       "hello-world",
		"  Go 1.24 is out!": "go-1-24-is-out",
		"--already--slug--": "already-slug",
	}
	for in, want := range cases {
		require.Equal(t, want, Slugify(in), in)
	}
	require.Empty(t, Slugify("你好"))
}
