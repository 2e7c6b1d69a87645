package locale

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys for UI strings rendered by the default views.
const (
	KeyBlogTitle      = "blog.title"
	KeyLatestPosts    = "home.latest"
	KeyAllPosts       = "home.all_posts"
	KeyPrevPost       = "nav.prev"
	KeyNextPost       = "nav.next"
	KeyBackHome       = "nav.home"
	KeyPostNotFound   = "error.post_not_found"
	KeyPageNotFound   = "error.page_not_found"
	KeyLocaleNotFound = "error.locale_not_found"
	KeyServerError    = "error.server"
	KeyNoPosts        = "blog.empty"
)

var messages = map[language.Tag]map[string]string{
	language.English: {
		KeyBlogTitle:      "Blog",
		KeyLatestPosts:    "Latest posts",
		KeyAllPosts:       "All posts",
		KeyPrevPost:       "Previous",
		KeyNextPost:       "Next",
		KeyBackHome:       "Home",
		KeyPostNotFound:   "This post does not exist or is not available in this language.",
		KeyPageNotFound:   "This page does not exist.",
		KeyLocaleNotFound: "This language is not available.",
		KeyServerError:    "Something went wrong. Please try again later.",
		KeyNoPosts:        "No posts yet.",
	},
	language.Chinese: {
		KeyBlogTitle:      "博客",
		KeyLatestPosts:    "最新文章",
		KeyAllPosts:       "全部文章",
		KeyPrevPost:       "上一篇",
		KeyNextPost:       "下一篇",
		KeyBackHome:       "首页",
		KeyPostNotFound:   "文章不存在，或没有该语言的版本。",
		KeyPageNotFound:   "页面不存在。",
		KeyLocaleNotFound: "不支持该语言。",
		KeyServerError:    "出错了，请稍后再试。",
		KeyNoPosts:        "暂无文章。",
	},
}

var uiCatalog = buildCatalog()

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range messages {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(fmt.Sprintf("locale: catalog %s/%s: %v", tag, key, err))
			}
		}
	}
	return b
}

// Translator looks up UI strings for one locale.
type Translator struct {
	locale string
	p      *message.Printer
}

// Translator returns a Translator for l. Unknown keys are returned as-is.
func (s Set) Translator(l string) Translator {
	tag := s.Tag(l)
	if tag == language.Und {
		tag = s.Tag(s.Default)
	}
	return Translator{locale: l, p: message.NewPrinter(tag, message.Catalog(uiCatalog))}
}

// T returns the translated string for key.
func (t Translator) T(key string) string {
	if t.p == nil {
		return key
	}
	return t.p.Sprintf(key)
}

// Locale returns the locale the translator was built for.
func (t Translator) Locale() string {
	return t.locale
}

// FormatDate renders a post date the way listings display it: month and
// year, "January 2025" in English and "2025年1月" in Chinese.
func FormatDate(l string, t time.Time) string {
	if t.IsZero() {
		return ""
	}
	base, _ := language.Make(l).Base()
	if base.String() == "zh" {
		return fmt.Sprintf("%d年%d月", t.Year(), int(t.Month()))
	}
	return t.Format("January 2006")
}
