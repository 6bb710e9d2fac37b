// Package markdown renders a post body to HTML for the panel's detail view.
// It covers the subset the blog API's content uses: headings, paragraphs,
// emphasis, inline code, links, images, lists, blockquotes, and fenced code.
package markdown

import (
	"bytes"
	"context"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/a-h/templ"
)

var (
	reBold           = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBoldUnderscore = regexp.MustCompile(`__(.+?)__`)
	reItalic         = regexp.MustCompile(`\*([^*]+)\*`)
	reInlineCode     = regexp.MustCompile("`([^`]+)`")
	reImg            = regexp.MustCompile(`!\[(.*?)\]\((.*?)\)`)
	reLink           = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
	reOrdered        = regexp.MustCompile(`^\d+\.\s`)
)

// Markdown returns a templ.Component that renders md as HTML.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		RenderMarkdown(&buf, content)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// RenderMarkdown writes the HTML representation of md to buf.
func RenderMarkdown(buf *bytes.Buffer, md string) {
	lines := strings.Split(md, "\n")
	inPara := false
	inList := false
	inOrdered := false
	inQuote := false
	inCode := false

	closePara := func() {
		if inPara {
			buf.WriteString("</p>")
			inPara = false
		}
	}
	closeLists := func() {
		if inList {
			buf.WriteString("</ul>")
			inList = false
		}
		if inOrdered {
			buf.WriteString("</ol>")
			inOrdered = false
		}
	}
	closeQuote := func() {
		if inQuote {
			buf.WriteString("</blockquote>")
			inQuote = false
		}
	}

	for _, line := range lines {
		if inCode {
			if strings.HasPrefix(line, "```") {
				buf.WriteString("</code></pre>")
				inCode = false
				continue
			}
			buf.WriteString(html.EscapeString(line))
			buf.WriteByte('\n')
			continue
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "```"):
			closePara()
			closeLists()
			closeQuote()
			buf.WriteString("<pre><code>")
			inCode = true
		case trimmed == "":
			closePara()
			closeLists()
			closeQuote()
		case strings.HasPrefix(trimmed, "### "):
			closePara()
			closeLists()
			closeQuote()
			buf.WriteString("<h3>" + FormatInline(strings.TrimPrefix(trimmed, "### ")) + "</h3>")
		case strings.HasPrefix(trimmed, "## "):
			closePara()
			closeLists()
			closeQuote()
			buf.WriteString("<h2>" + FormatInline(strings.TrimPrefix(trimmed, "## ")) + "</h2>")
		case strings.HasPrefix(trimmed, "# "):
			closePara()
			closeLists()
			closeQuote()
			buf.WriteString("<h1>" + FormatInline(strings.TrimPrefix(trimmed, "# ")) + "</h1>")
		case strings.HasPrefix(trimmed, "> "):
			closePara()
			closeLists()
			if !inQuote {
				buf.WriteString("<blockquote>")
				inQuote = true
			}
			buf.WriteString("<p>" + FormatInline(strings.TrimPrefix(trimmed, "> ")) + "</p>")
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			closePara()
			closeQuote()
			if inOrdered {
				buf.WriteString("</ol>")
				inOrdered = false
			}
			if !inList {
				buf.WriteString("<ul>")
				inList = true
			}
			buf.WriteString("<li>" + FormatInline(trimmed[2:]) + "</li>")
		case reOrdered.MatchString(trimmed):
			closePara()
			closeQuote()
			if inList {
				buf.WriteString("</ul>")
				inList = false
			}
			if !inOrdered {
				buf.WriteString("<ol>")
				inOrdered = true
			}
			item := reOrdered.ReplaceAllString(trimmed, "")
			buf.WriteString("<li>" + FormatInline(item) + "</li>")
		default:
			closeLists()
			closeQuote()
			if !inPara {
				buf.WriteString("<p>")
				inPara = true
			} else {
				buf.WriteByte(' ')
			}
			buf.WriteString(FormatInline(trimmed))
		}
	}
	closePara()
	closeLists()
	closeQuote()
	if inCode {
		buf.WriteString("</code></pre>")
	}
}

// FormatInline escapes s and applies inline markup: images, links, bold,
// italics, and inline code.
func FormatInline(s string) string {
	s = html.EscapeString(s)
	s = reImg.ReplaceAllString(s, `<img src="$2" alt="$1" loading="lazy">`)
	s = reLink.ReplaceAllString(s, `<a href="$2">$1</a>`)
	s = reBold.ReplaceAllString(s, "<strong>$1</strong>")
	s = reBoldUnderscore.ReplaceAllString(s, "<strong>$1</strong>")
	s = reItalic.ReplaceAllString(s, "<em>$1</em>")
	s = reInlineCode.ReplaceAllString(s, "<code>$1</code>")
	return s
}
