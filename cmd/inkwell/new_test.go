package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xiwu-io/inkwell/config"
	"github.com/xiwu-io/inkwell/content"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		ContentDir:    t.TempDir(),
		Locales:       []string{"en", "zh"},
		DefaultLocale: "en",
	}
}

func TestRunNew_WritesDraft(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, runNew(cfg, "zh", "Hello World", ""))

	raw, err := os.ReadFile(filepath.Join(cfg.ContentDir, "zh", "hello-world.mdx"))
	require.NoError(t, err)
	fm, _, err := content.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "Hello World", fm.Title)
	require.Equal(t, "hello-world", fm.Slug)
	require.True(t, fm.Draft)
}

func TestRunNew_RefusesOverwrite(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, runNew(cfg, "en", "Hello", ""))
	require.ErrorContains(t, runNew(cfg, "en", "Hello", ""), "already exists")
}

func TestRunNew_Validation(t *testing.T) {
	cfg := testConfig(t)
	require.ErrorContains(t, runNew(cfg, "fr", "Bonjour", ""), "not one of")
	require.ErrorContains(t, runNew(cfg, "zh", "你好世界", ""), "--slug")
	require.ErrorContains(t, runNew(cfg, "en", "Hi", "../escape"), "invalid slug")
	require.NoError(t, runNew(cfg, "zh", "你好世界", "ni-hao"))
}
