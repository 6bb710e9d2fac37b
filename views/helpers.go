package views

import (
	"net/url"
	"strings"
)

// JoinTags joins tags with ", " for display.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// PathEscape wraps url.PathEscape for use in templ expressions.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// PageWindow returns the pagination entries to draw: up to width pages
// centered on current, clamped to [1, total]. An empty slice means the
// control should be hidden (one page or fewer).
func PageWindow(current, total, width int) []Page {
	if total <= 1 {
		return nil
	}
	if width < 1 {
		width = 5
	}
	start := current - width/2
	if start < 1 {
		start = 1
	}
	end := start + width - 1
	if end > total {
		end = total
		if start = end - width + 1; start < 1 {
			start = 1
		}
	}
	pages := make([]Page, 0, end-start+1)
	for n := start; n <= end; n++ {
		pages = append(pages, Page{Number: n, Current: n == current})
	}
	return pages
}

// Truncate shortens s to max runes, appending an ellipsis when cut.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max])) + "…"
}
