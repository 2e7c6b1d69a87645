package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func render(t *testing.T, input string) string {
	t.Helper()
	var buf bytes.Buffer
	if err := RenderMarkdown(&buf, input); err != nil {
		t.Fatalf("RenderMarkdown(%q) failed: %v", input, err)
	}
	return buf.String()
}

func TestRenderMarkdownInline(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"__bold__", "<strong>bold</strong>"},
		{"*italic*", "<em>italic</em>"},
		{"text `code` more", "<code>code</code>"},
		{"~~gone~~", "<del>gone</del>"},
		{"[link](https://example.com/a_b_c)", `<a href="https://example.com/a_b_c">link</a>`},
	}
	for _, tt := range tests {
		got := render(t, tt.input)
		if !strings.Contains(got, tt.expected) {
			t.Errorf("RenderMarkdown(%q) = %q, want it to contain %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderMarkdownHeadings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"# Heading 1", `<h1 id="heading-1">Heading 1</h1>`},
		{"## Heading 2", `<h2 id="heading-2">Heading 2</h2>`},
		{"### Heading 3", `<h3 id="heading-3">Heading 3</h3>`},
	}
	for _, tt := range tests {
		got := render(t, tt.input)
		if !strings.Contains(got, tt.expected) {
			t.Errorf("RenderMarkdown(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderMarkdownCodeBlock(t *testing.T) {
	got := render(t, "```go\nfmt.Println(\"hello\")\n```")
	if !strings.Contains(got, "<pre") {
		t.Errorf("code block should render a pre element: %q", got)
	}
	if !strings.Contains(got, "Println") {
		t.Errorf("code block missing content: %q", got)
	}
}

func TestRenderMarkdownList(t *testing.T) {
	got := render(t, "- one\n- two\n\n1. first\n2. second\n")
	for _, want := range []string{"<ul>", "<li>one</li>", "<ol>", "<li>second</li>"} {
		if !strings.Contains(got, want) {
			t.Errorf("list output %q missing %q", got, want)
		}
	}
}

func TestRenderMarkdownTable(t *testing.T) {
	got := render(t, "| a | b |\n|---|---|\n| 1 | 2 |\n")
	if !strings.Contains(got, "<table>") || !strings.Contains(got, "<td>1</td>") {
		t.Errorf("table not rendered: %q", got)
	}
}

func TestRenderMarkdownPassesComponents(t *testing.T) {
	got := render(t, "<Callout type=\"info\">\n\nheads up\n\n</Callout>\n")
	if !strings.Contains(got, `<Callout type="info">`) {
		t.Errorf("component should pass through: %q", got)
	}
	if !strings.Contains(got, "heads up") {
		t.Errorf("component children missing: %q", got)
	}
}

func TestStripESM(t *testing.T) {
	input := "import Chart from './chart'\nexport const meta = {}\n\n# Title\n\n```js\nimport x from 'y'\n```\n  import indented stays\n"
	got := StripESM(input)
	if strings.Contains(got, "import Chart") || strings.Contains(got, "export const") {
		t.Errorf("top-level ESM should be removed: %q", got)
	}
	if !strings.Contains(got, "import x from 'y'") {
		t.Errorf("imports inside code fences must stay: %q", got)
	}
	if !strings.Contains(got, "  import indented stays") {
		t.Errorf("indented lines are not ESM: %q", got)
	}
	if !strings.Contains(got, "# Title") {
		t.Errorf("body lost: %q", got)
	}
}

func TestMarkdownComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := Markdown("hello **world**").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := buf.String(); !strings.Contains(got, "<p>hello <strong>world</strong></p>") {
		t.Errorf("Markdown component = %q", got)
	}
}

func TestToHTML(t *testing.T) {
	got, err := ToHTML("import A from 'a'\n\nplain")
	if err != nil {
		t.Fatalf("ToHTML failed: %v", err)
	}
	if strings.TrimSpace(got) != "<p>plain</p>" {
		t.Errorf("ToHTML = %q", got)
	}
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/images/a.png", "/images/a.png"},
		{"#section", "#section"},
		{"https://example.com", "https://example.com"},
		{"mailto:me@example.com", "mailto:me@example.com"},
		{"javascript:alert(1)", ""},
		{"JavaScript:alert(1)", ""},
		{"//evil.example.com", ""},
		{"relative/path", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SafeURL(tt.input); got != tt.expected {
			t.Errorf("SafeURL(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
