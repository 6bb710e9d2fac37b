// Package form owns the draft state of a single blog post being created or
// edited: field changes, slug derivation, tag and gallery editing, staged
// image files, and submit-time validation. It talks to the rest of the panel
// only through the SaveFunc callback handed to New.
package form

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/eringen/postadmin/client"
)

// Mode says whether the form edits an existing post or creates a new one.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// ErrInvalid is returned by Submit when validation failed. The per-field
// messages are in the State returned by Snapshot.
var ErrInvalid = errors.New("postadmin: draft failed validation")

// SaveFunc persists a validated draft. staged is nil when no new image file
// accompanies the submission.
type SaveFunc func(payload client.PostInput, staged *client.Upload) error

// ImageInput is the transient sub-form for appending a gallery image.
type ImageInput struct {
	URL     string
	Alt     string
	Caption string
}

// State is a render-ready snapshot of the form.
type State struct {
	Mode       Mode
	Draft      client.PostInput
	Errors     map[string]string
	Notice     string
	TagInput   string
	ImageInput ImageInput
	Preview    string // data URL of the staged image, empty until the read completes
	StagedName string // filename of the staged image, empty when none
}

// Form is the draft editor state machine. All methods are safe for the
// handler goroutine and the preview read to interleave.
type Form struct {
	mu   sync.Mutex
	save SaveFunc

	mode    Mode
	subject *client.Post
	draft   client.PostInput
	errors  map[string]string
	notice  string

	tagInput   string
	imageInput ImageInput

	staged  *client.Upload
	preview string

	// Pending preview read. readGen fences stale completions; cancelRead
	// aborts the read when the form's subject changes mid-flight.
	cancelRead context.CancelFunc
	readGen    int
	readDone   chan struct{}
}

// New creates a form in create mode wired to the given save callback.
func New(save SaveFunc) *Form {
	f := &Form{save: save}
	f.reset(nil)
	return f
}

// SetPost switches the form's subject. Passing a post enters edit mode with
// the draft populated from it; passing nil enters create mode with defaults.
// Either way all prior draft state, validation errors, and any staged file
// are discarded and a pending preview read is cancelled.
func (f *Form) SetPost(p *client.Post) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset(p)
}

func (f *Form) reset(p *client.Post) {
	if f.cancelRead != nil {
		f.cancelRead()
		f.cancelRead = nil
	}
	f.readGen++
	f.readDone = nil
	f.subject = p
	f.errors = map[string]string{}
	f.notice = ""
	f.tagInput = ""
	f.imageInput = ImageInput{}
	f.staged = nil
	f.preview = ""
	if p == nil {
		f.mode = ModeCreate
		f.draft = client.PostInput{IsPublished: true}
		return
	}
	f.mode = ModeEdit
	f.draft = client.PostInput{
		Title:           p.Title,
		Slug:            p.Slug,
		Excerpt:         p.Excerpt,
		Content:         p.Content,
		MetaDescription: p.MetaDescription,
		FeaturedImage:   p.FeaturedImage,
		Tags:            append([]string(nil), p.Tags...),
		Images:          append([]client.PostImage(nil), p.Images...),
		IsPublished:     p.IsPublished,
		IsFeatured:      p.IsFeatured,
	}
}

// SetField applies a text input change. Changing the title regenerates the
// slug, unless an existing post is being edited and already carries a
// non-empty slug (a manual slug wins). Touching a field clears its
// validation error.
func (f *Form) SetField(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch name {
	case "title":
		f.draft.Title = value
		if !(f.mode == ModeEdit && f.draft.Slug != "") {
			f.draft.Slug = Slugify(value)
			delete(f.errors, "slug")
		}
	case "slug":
		f.draft.Slug = strings.TrimSpace(value)
	case "excerpt":
		f.draft.Excerpt = value
	case "content":
		f.draft.Content = value
	case "metaDescription":
		f.draft.MetaDescription = value
	case "featuredImage":
		f.draft.FeaturedImage = strings.TrimSpace(value)
	default:
		return
	}
	delete(f.errors, name)
}

// SetChecked applies a checkbox toggle.
func (f *Form) SetChecked(name string, value bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch name {
	case "isPublished":
		f.draft.IsPublished = value
	case "isFeatured":
		f.draft.IsFeatured = value
	}
}

// SetTagInput updates the pending tag text.
func (f *Form) SetTagInput(value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tagInput = value
}

// AddTag appends the pending tag, trimmed and lowercased. Duplicates are a
// silent no-op and leave the input untouched; on success the input clears.
func (f *Form) AddTag() {
	f.mu.Lock()
	defer f.mu.Unlock()
	tag := strings.ToLower(strings.TrimSpace(f.tagInput))
	if tag == "" {
		return
	}
	for _, t := range f.draft.Tags {
		if t == tag {
			return
		}
	}
	f.draft.Tags = append(f.draft.Tags, tag)
	f.tagInput = ""
}

// RemoveTag drops an exact tag match from the set.
func (f *Form) RemoveTag(tag string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.draft.Tags[:0]
	for _, t := range f.draft.Tags {
		if t != tag {
			kept = append(kept, t)
		}
	}
	f.draft.Tags = kept
}

// SetImageInput updates the gallery sub-form.
func (f *Form) SetImageInput(in ImageInput) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.imageInput = in
}

// AddImage appends the gallery sub-form entry. An empty URL is a no-op; on
// success the sub-form clears and the image's order is its append index.
func (f *Form) AddImage() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if strings.TrimSpace(f.imageInput.URL) == "" {
		return
	}
	f.draft.Images = append(f.draft.Images, client.PostImage{
		URL:     strings.TrimSpace(f.imageInput.URL),
		Alt:     f.imageInput.Alt,
		Caption: f.imageInput.Caption,
		Order:   len(f.draft.Images),
	})
	f.imageInput = ImageInput{}
}

// RemoveImage drops the gallery entry at index i.
func (f *Form) RemoveImage(i int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i < 0 || i >= len(f.draft.Images) {
		return
	}
	f.draft.Images = append(f.draft.Images[:i], f.draft.Images[i+1:]...)
}

// Validate checks the draft and records the per-field messages. It returns
// true when the draft may be submitted.
func (f *Form) Validate() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validate()
}

func (f *Form) validate() bool {
	errs := map[string]string{}
	if strings.TrimSpace(f.draft.Title) == "" {
		errs["title"] = "Title is required"
	}
	if strings.TrimSpace(f.draft.Excerpt) == "" {
		errs["excerpt"] = "Excerpt is required"
	}
	if strings.TrimSpace(f.draft.Content) == "" {
		errs["content"] = "Content is required"
	}
	if strings.TrimSpace(f.draft.Slug) == "" {
		errs["slug"] = "Slug is required"
	}
	if !f.hasFeaturedImage() {
		errs["featuredImage"] = "A featured image is required"
	}
	f.errors = errs
	return len(errs) == 0
}

func (f *Form) hasFeaturedImage() bool {
	if f.staged != nil || f.draft.FeaturedImage != "" {
		return true
	}
	return f.mode == ModeEdit && f.subject != nil && f.subject.FeaturedImage != ""
}

// Submit validates the draft and hands it to the save callback. A staged
// file wins over any featured-image URL: the payload's URL field is cleared
// so the service layer's precedence rule applies. A callback failure is
// recorded as the form notice and the draft stays intact for retry.
func (f *Form) Submit() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.validate() {
		return ErrInvalid
	}
	payload := f.draft
	payload.Tags = append([]string(nil), f.draft.Tags...)
	payload.Images = append([]client.PostImage(nil), f.draft.Images...)
	if f.staged != nil {
		payload.FeaturedImage = ""
	}
	if err := f.save(payload, f.staged); err != nil {
		f.notice = err.Error()
		return err
	}
	f.notice = ""
	return nil
}

// Snapshot returns a copy of the form state for rendering.
func (f *Form) Snapshot() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := State{
		Mode:       f.mode,
		Draft:      f.draft,
		Errors:     make(map[string]string, len(f.errors)),
		Notice:     f.notice,
		TagInput:   f.tagInput,
		ImageInput: f.imageInput,
		Preview:    f.preview,
	}
	s.Draft.Tags = append([]string(nil), f.draft.Tags...)
	s.Draft.Images = append([]client.PostImage(nil), f.draft.Images...)
	for k, v := range f.errors {
		s.Errors[k] = v
	}
	if f.staged != nil {
		s.StagedName = f.staged.Filename
	}
	return s
}
