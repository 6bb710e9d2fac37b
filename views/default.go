package views

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/postadmin"
	"github.com/eringen/postadmin/form"
)

// Default returns a plain-HTML implementation of every panel view. It is
// unstyled on purpose: panel owners replace individual entries with their
// own templ components and keep the rest.
func Default() postadmin.ViewFuncs {
	return postadmin.ViewFuncs{
		Login:         loginView,
		Panel:         panelView,
		ListPartial:   listView,
		FormPartial:   formView,
		DetailPartial: detailView,
		Settings:      settingsView,
		NotFound:      notFoundView,
		ServerError:   serverErrorView,
	}
}

func component(render func(w io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return render(w)
	})
}

func esc(s string) string { return html.EscapeString(s) }

func loginView(showError bool, csrf string) templ.Component {
	return component(func(w io.Writer) error {
		fmt.Fprint(w, "<!doctype html><title>Login</title><h1>Admin login</h1>")
		if showError {
			fmt.Fprint(w, `<p role="alert">Wrong password.</p>`)
		}
		_, err := fmt.Fprintf(w, `<form method="post" action="/admin/login/">`+
			`<input type="hidden" name="_csrf" value="%s">`+
			`<input type="password" name="password" autofocus> <button>Log in</button></form>`, esc(csrf))
		return err
	})
}

func panelView(s postadmin.State, csrf string) templ.Component {
	return component(func(w io.Writer) error {
		fmt.Fprintf(w, "<!doctype html><title>%s</title><h1>%s</h1>", esc(s.Title), esc(s.Title))
		fmt.Fprint(w, `<nav><a href="/admin/posts/">Posts</a> <a href="/admin/settings/token/">API token</a> `)
		fmt.Fprintf(w, `<form method="post" action="/admin/logout/" style="display:inline">`+
			`<input type="hidden" name="_csrf" value="%s"><button>Log out</button></form></nav>`, esc(csrf))
		if s.Controller.Err != "" {
			fmt.Fprintf(w, `<p role="alert">%s</p>`, esc(s.Controller.Err))
		}
		var inner templ.Component
		switch s.Controller.Mode {
		case postadmin.ViewForm:
			inner = formView(s, csrf)
		case postadmin.ViewDetail:
			inner = detailView(s, csrf)
		default:
			inner = listView(s, csrf)
		}
		return inner.Render(context.Background(), w)
	})
}

func listView(s postadmin.State, csrf string) templ.Component {
	return component(func(w io.Writer) error {
		c := s.Controller
		fmt.Fprint(w, "<section><h2>Posts</h2>")
		if c.Loading {
			fmt.Fprint(w, "<p>Loading…</p>")
		}
		fmt.Fprintf(w, `<form method="get" action="/admin/posts/">`+
			`<input type="search" name="q" value="%s" placeholder="Search"> <button>Search</button></form>`, esc(c.Search))
		fmt.Fprint(w, `<p><a href="/admin/posts/new/">New post</a></p><table><tr><th>Title</th><th>Slug</th><th>Published</th><th></th></tr>`)
		for _, p := range c.Posts {
			fmt.Fprintf(w, `<tr><td><a href="/admin/posts/%s/">%s</a></td><td>%s</td><td>%t</td><td>`,
				PathEscape(p.ID), esc(p.Title), esc(p.Slug), p.IsPublished)
			fmt.Fprintf(w, `<a href="/admin/posts/%s/edit/">Edit</a> `, PathEscape(p.ID))
			if c.ConfirmID == p.ID {
				fmt.Fprintf(w, `<form method="post" action="/admin/posts/delete/confirm/" style="display:inline">`+
					`<input type="hidden" name="_csrf" value="%s"><button>Really delete?</button></form>`, esc(csrf))
				fmt.Fprintf(w, `<form method="post" action="/admin/posts/delete/cancel/" style="display:inline">`+
					`<input type="hidden" name="_csrf" value="%s"><button>Keep</button></form>`, esc(csrf))
			} else {
				fmt.Fprintf(w, `<form method="post" action="/admin/posts/%s/delete/" style="display:inline">`+
					`<input type="hidden" name="_csrf" value="%s"><button>Delete</button></form>`, PathEscape(p.ID), esc(csrf))
			}
			fmt.Fprint(w, "</td></tr>")
		}
		fmt.Fprint(w, "</table><p>")
		for _, pg := range PageWindow(c.Page, c.TotalPages, 7) {
			if pg.Current {
				fmt.Fprintf(w, "<strong>%d</strong> ", pg.Number)
			} else {
				fmt.Fprintf(w, `<a href="/admin/posts/?page=%d&q=%s">%d</a> `, pg.Number, esc(c.Search), pg.Number)
			}
		}
		_, err := fmt.Fprint(w, "</p></section>")
		return err
	})
}

func textField(w io.Writer, f form.State, label, name, value string) {
	fmt.Fprintf(w, `<p><label>%s <input name="value" form="field-%s" value="%s"></label>`, esc(label), name, esc(value))
	if msg, ok := f.Errors[name]; ok {
		fmt.Fprintf(w, ` <em role="alert">%s</em>`, esc(msg))
	}
	fmt.Fprintf(w, `<form id="field-%s" method="post" action="/admin/form/field/">`+
		`<input type="hidden" name="name" value="%s"><button hidden></button></form></p>`, name, name)
}

func formView(s postadmin.State, csrf string) templ.Component {
	return component(func(w io.Writer) error {
		f := s.Form
		heading := "New post"
		if f.Mode == form.ModeEdit {
			heading = "Edit post"
		}
		fmt.Fprintf(w, "<section><h2>%s</h2>", heading)
		if f.Notice != "" {
			fmt.Fprintf(w, `<p role="alert">%s</p>`, esc(f.Notice))
		}
		if s.Controller.Saving {
			fmt.Fprint(w, "<p>Saving…</p>")
		}
		textField(w, f, "Title", "title", f.Draft.Title)
		textField(w, f, "Slug", "slug", f.Draft.Slug)
		textField(w, f, "Excerpt", "excerpt", f.Draft.Excerpt)
		textField(w, f, "Content", "content", f.Draft.Content)
		textField(w, f, "Meta description", "metaDescription", f.Draft.MetaDescription)
		textField(w, f, "Featured image URL", "featuredImage", f.Draft.FeaturedImage)

		fmt.Fprintf(w, "<p>Tags: %s</p>", esc(JoinTags(f.Draft.Tags)))
		fmt.Fprintf(w, `<form method="post" action="/admin/form/tags/add/">`+
			`<input type="hidden" name="_csrf" value="%s">`+
			`<input name="tag" value="%s" placeholder="Add tag"> <button>Add</button></form>`, esc(csrf), esc(f.TagInput))

		fmt.Fprint(w, "<ul>")
		for i, img := range f.Draft.Images {
			fmt.Fprintf(w, `<li>%s <form method="post" action="/admin/form/images/remove/" style="display:inline">`+
				`<input type="hidden" name="_csrf" value="%s"><input type="hidden" name="index" value="%d">`+
				`<button>Remove</button></form></li>`, esc(img.URL), esc(csrf), i)
		}
		fmt.Fprint(w, "</ul>")
		fmt.Fprintf(w, `<form method="post" action="/admin/form/images/add/">`+
			`<input type="hidden" name="_csrf" value="%s">`+
			`<input name="url" value="%s" placeholder="Image URL"> <input name="alt" value="%s" placeholder="Alt">`+
			` <input name="caption" value="%s" placeholder="Caption"> <button>Add image</button></form>`,
			esc(csrf), esc(f.ImageInput.URL), esc(f.ImageInput.Alt), esc(f.ImageInput.Caption))

		if f.Preview != "" {
			fmt.Fprintf(w, `<p><img src="%s" alt="Staged preview"></p>`, f.Preview)
		} else if f.StagedName != "" {
			fmt.Fprintf(w, `<p>Staged: %s</p>`, esc(f.StagedName))
		}
		fmt.Fprintf(w, `<form method="post" action="/admin/form/stage/" enctype="multipart/form-data">`+
			`<input type="hidden" name="_csrf" value="%s">`+
			`<input type="file" name="image" accept="image/*"> <button>Stage image</button></form>`, esc(csrf))

		fmt.Fprintf(w, `<form method="post" action="/admin/form/submit/">`+
			`<input type="hidden" name="_csrf" value="%s"><button>Save</button></form>`, esc(csrf))
		_, err := fmt.Fprintf(w, `<form method="post" action="/admin/form/cancel/">`+
			`<input type="hidden" name="_csrf" value="%s"><button>Cancel</button></form></section>`, esc(csrf))
		return err
	})
}

func detailView(s postadmin.State, csrf string) templ.Component {
	return component(func(w io.Writer) error {
		p := s.Controller.Selected
		if p == nil {
			_, err := fmt.Fprint(w, "<section><p>No post selected.</p></section>")
			return err
		}
		fmt.Fprintf(w, "<section><h2>%s</h2><p>%s</p>", esc(p.Title), esc(p.Excerpt))
		fmt.Fprintf(w, `<p><a href="/admin/posts/%s/edit/">Edit</a> <a href="/admin/posts/">Back</a></p>`, PathEscape(p.ID))
		if s.Content != nil {
			if err := s.Content.Render(context.Background(), w); err != nil {
				return err
			}
		}
		_, err := fmt.Fprint(w, "</section>")
		return err
	})
}

func settingsView(hasToken bool, message, csrf string) templ.Component {
	return component(func(w io.Writer) error {
		fmt.Fprint(w, "<!doctype html><title>API token</title><h1>API token</h1>")
		if message != "" {
			fmt.Fprintf(w, "<p>%s</p>", esc(message))
		}
		if hasToken {
			fmt.Fprint(w, "<p>A token is installed. Submitting replaces it; an empty field clears it.</p>")
		} else {
			fmt.Fprint(w, "<p>No token installed; API requests go unauthenticated.</p>")
		}
		_, err := fmt.Fprintf(w, `<form method="post" action="/admin/settings/token/">`+
			`<input type="hidden" name="_csrf" value="%s">`+
			`<input type="password" name="token"> <button>Save</button></form>`+
			`<p><a href="/admin/posts/">Back to posts</a></p>`, esc(csrf))
		return err
	})
}

func notFoundView() templ.Component {
	return component(func(w io.Writer) error {
		_, err := fmt.Fprint(w, "<!doctype html><title>Not found</title><h1>404</h1><p>Page not found.</p>")
		return err
	})
}

func serverErrorView() templ.Component {
	return component(func(w io.Writer) error {
		_, err := fmt.Fprint(w, "<!doctype html><title>Error</title><h1>500</h1><p>Something broke. Try again.</p>")
		return err
	})
}
