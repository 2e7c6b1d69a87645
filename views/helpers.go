package views

import (
	"slices"
	"strings"

	"github.com/xiwu-io/inkwell/content"
)

// FilterRelatedPosts returns posts that share at least one tag with the current post.
func FilterRelatedPosts(current content.PostMeta, posts []content.PostMeta) []content.PostMeta {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		tag := normalizeTag(t)
		if tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	var related []content.PostMeta
	for _, p := range posts {
		if p.Slug == current.Slug {
			continue
		}
		for _, t := range p.Tags {
			if _, ok := tagSet[normalizeTag(t)]; ok {
				related = append(related, p)
				break
			}
		}
	}
	return related
}

// FilterByTag returns the posts carrying tag, compared case-insensitively.
// An empty tag returns posts unchanged.
func FilterByTag(posts []content.PostMeta, tag string) []content.PostMeta {
	tag = normalizeTag(tag)
	if tag == "" {
		return posts
	}
	var out []content.PostMeta
	for _, p := range posts {
		if slices.ContainsFunc(p.Tags, func(t string) bool { return normalizeTag(t) == tag }) {
			out = append(out, p)
		}
	}
	return out
}

// CollectTags returns the distinct tags of posts in first-seen order.
func CollectTags(posts []content.PostMeta) []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, p := range posts {
		for _, t := range p.Tags {
			key := normalizeTag(t)
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			tags = append(tags, strings.TrimSpace(t))
		}
	}
	return tags
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

// postTitle falls back to the slug for posts without a title.
func postTitle(doc content.Document) string {
	if doc.FrontMatter.Title != "" {
		return doc.FrontMatter.Title
	}
	return doc.Slug()
}
