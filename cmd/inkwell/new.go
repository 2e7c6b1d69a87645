package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xiwu-io/inkwell"
	"github.com/xiwu-io/inkwell/config"
	"github.com/xiwu-io/inkwell/content"
	"github.com/xiwu-io/inkwell/scaffold"
)

// runNew writes {content}/{locale}/{slug}.mdx as a draft. It never
// overwrites an existing post.
func runNew(cfg config.Config, locale, title, slug string) error {
	cfg.Normalize()
	set, err := cfg.LocaleSet()
	if err != nil {
		return err
	}
	if !set.Supported(locale) {
		return fmt.Errorf("locale %q is not one of %v", locale, set.Locales)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return errors.New("title must not be empty")
	}
	if slug == "" {
		slug = inkwell.Slugify(title)
	}
	if slug == "" {
		return fmt.Errorf("cannot derive a slug from %q; pass --slug", title)
	}
	if strings.ContainsAny(slug, `/\`) || strings.HasPrefix(slug, ".") {
		return fmt.Errorf("invalid slug %q", slug)
	}

	dir := filepath.Join(cfg.ContentDir, locale)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	outPath := filepath.Join(dir, slug+content.Ext)
	f, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("post %s already exists", outPath)
		}
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer f.Close()

	post := scaffold.NewPost(title, slug, cfg.Site.Author, time.Now())
	if err := scaffold.WritePost(f, post); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Printf("  created %s\n", outPath)
	fmt.Println()
	fmt.Println("The post is a draft. Set draft: false to publish it.")
	return nil
}
