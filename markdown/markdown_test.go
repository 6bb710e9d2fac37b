package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func render(md string) string {
	var buf bytes.Buffer
	RenderMarkdown(&buf, md)
	return buf.String()
}

func TestRenderMarkdownBlocks(t *testing.T) {
	tests := []struct {
		name string
		md   string
		want string
	}{
		{"h1", "# Title", "<h1>Title</h1>"},
		{"h2", "## Sub", "<h2>Sub</h2>"},
		{"h3", "### Deep", "<h3>Deep</h3>"},
		{"paragraph joins lines", "Hello\nworld", "<p>Hello world</p>"},
		{"blank line splits paragraphs", "one\n\ntwo", "<p>one</p><p>two</p>"},
		{"unordered list", "- a\n- b", "<ul><li>a</li><li>b</li></ul>"},
		{"star list", "* a\n* b", "<ul><li>a</li><li>b</li></ul>"},
		{"ordered list", "1. a\n2. b", "<ol><li>a</li><li>b</li></ol>"},
		{"blockquote", "> wise words", "<blockquote><p>wise words</p></blockquote>"},
		{"fenced code", "```\nx := 1\n```", "<pre><code>x := 1\n</code></pre>"},
		{"list then paragraph", "- a\n\ntext", "<ul><li>a</li></ul><p>text</p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := render(tt.md); got != tt.want {
				t.Errorf("render(%q) = %q, want %q", tt.md, got, tt.want)
			}
		})
	}
}

func TestRenderMarkdownCodeIsNotFormatted(t *testing.T) {
	got := render("```\n**not bold** <tag>\n```")
	if strings.Contains(got, "<strong>") {
		t.Errorf("inline markup applied inside code fence: %q", got)
	}
	if !strings.Contains(got, "&lt;tag&gt;") {
		t.Errorf("code fence content not escaped: %q", got)
	}
}

func TestRenderMarkdownUnclosedFence(t *testing.T) {
	got := render("```\ndangling")
	if !strings.HasSuffix(got, "</code></pre>") {
		t.Errorf("unclosed fence should still close: %q", got)
	}
}

func TestFormatInline(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"__bold__", "<strong>bold</strong>"},
		{"*emphasis*", "<em>emphasis</em>"},
		{"`code`", "<code>code</code>"},
		{"[site](https://example.com)", `<a href="https://example.com">site</a>`},
		{"![alt text](https://example.com/i.png)", `<img src="https://example.com/i.png" alt="alt text" loading="lazy">`},
		{"<script>alert(1)</script>", "&lt;script&gt;alert(1)&lt;/script&gt;"},
		{"plain text", "plain text"},
	}
	for _, tt := range tests {
		if got := FormatInline(tt.in); got != tt.want {
			t.Errorf("FormatInline(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMarkdownComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := Markdown("# Hi").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := buf.String(); got != "<h1>Hi</h1>" {
		t.Errorf("component output = %q", got)
	}
}
