// Package views holds view-model types and helpers shared with the
// user-supplied templ templates.
package views

// PageMeta carries per-page metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
}

// Page is one entry of a pagination control.
type Page struct {
	Number  int
	Current bool
}
