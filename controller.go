package postadmin

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/eringen/postadmin/client"
	"github.com/eringen/postadmin/form"
)

// ViewMode selects which of the three panel views is active.
type ViewMode string

const (
	ViewList   ViewMode = "list"
	ViewForm   ViewMode = "form"
	ViewDetail ViewMode = "view"
)

const defaultPageSize = 10

// ControllerState is a render-ready snapshot of the panel's collection view.
type ControllerState struct {
	Mode       ViewMode
	FormMode   form.Mode
	Posts      []client.Post
	Page       int
	TotalPages int
	Search     string
	Selected   *client.Post
	ConfirmID  string
	Err        string
	Loading    bool
	Saving     bool
}

// Controller owns the paginated collection view, the mode switching between
// list, form, and detail, and the delete confirmation. It orchestrates all
// calls into the post service; the form it owns reaches the service only
// through the controller's save callback.
type Controller struct {
	mu    sync.Mutex
	posts *client.PostService
	form  *form.Form

	mode       ViewMode
	formMode   form.Mode
	list       []client.Post
	page       int
	totalPages int
	search     string
	selected   *client.Post
	confirmID  string
	errMsg     string
	loading    bool
	saving     bool
	pageSize   int
}

// NewController creates a controller in list mode on page 1.
func NewController(posts *client.PostService) *Controller {
	c := &Controller{
		posts:    posts,
		mode:     ViewList,
		formMode: form.ModeCreate,
		page:     1,
		pageSize: defaultPageSize,
	}
	c.form = form.New(c.savePost)
	return c
}

// Form returns the draft editor owned by this controller.
func (c *Controller) Form() *form.Form {
	return c.form
}

// Refresh re-fetches the current page. Fetches are not cancelled when
// superseded; the mutex makes the last completed fetch win whole.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	c.loading = true
	params := client.ListParams{
		Page:               c.page,
		Limit:              c.pageSize,
		Search:             c.search,
		SortBy:             "publishedAt",
		SortOrder:          "desc",
		IncludeUnpublished: true,
	}
	c.mu.Unlock()

	result, err := c.posts.List(ctx, params)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.errMsg = err.Error()
		return
	}
	c.errMsg = ""
	c.list = result.Posts
	c.totalPages = result.TotalPages
}

// SetPage moves to page p (clamped to 1) and re-fetches.
func (c *Controller) SetPage(ctx context.Context, p int) {
	c.mu.Lock()
	if p < 1 {
		p = 1
	}
	c.page = p
	c.mu.Unlock()
	c.Refresh(ctx)
}

// SetSearch applies a new search term, resetting to page 1 when the term
// changed, and re-fetches.
func (c *Controller) SetSearch(ctx context.Context, q string) {
	c.mu.Lock()
	if q != c.search {
		c.search = q
		c.page = 1
	}
	c.mu.Unlock()
	c.Refresh(ctx)
}

// ShowCreate switches to the form view with an empty draft.
func (c *Controller) ShowCreate() {
	c.mu.Lock()
	c.mode = ViewForm
	c.formMode = form.ModeCreate
	c.selected = nil
	c.mu.Unlock()
	c.form.SetPost(nil)
}

// ShowEdit fetches the post and switches to the form view in edit mode. A
// fetch failure keeps the current view and surfaces the error.
func (c *Controller) ShowEdit(ctx context.Context, id string) {
	post, err := c.posts.Get(ctx, id)
	c.mu.Lock()
	if err != nil {
		c.errMsg = err.Error()
		c.mu.Unlock()
		return
	}
	c.mode = ViewForm
	c.formMode = form.ModeEdit
	c.selected = post
	c.errMsg = ""
	c.mu.Unlock()
	c.form.SetPost(post)
}

// ShowDetail fetches the post and switches to the detail view.
func (c *Controller) ShowDetail(ctx context.Context, id string) {
	post, err := c.posts.Get(ctx, id)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.errMsg = err.Error()
		return
	}
	c.mode = ViewDetail
	c.selected = post
	c.errMsg = ""
}

// Cancel abandons the form or detail view and returns to the list, clearing
// the selection and any error state.
func (c *Controller) Cancel() {
	c.mu.Lock()
	c.mode = ViewList
	c.selected = nil
	c.errMsg = ""
	c.mu.Unlock()
	c.form.SetPost(nil)
}

// SubmitForm validates and saves the draft. On success the panel returns to
// the list view and re-fetches the current page. Validation failures stay in
// the form with field errors; save failures stay in the form with the
// notice set, and are mirrored in the panel error message.
func (c *Controller) SubmitForm(ctx context.Context) {
	c.mu.Lock()
	c.saving = true
	c.mu.Unlock()

	err := c.form.Submit()

	c.mu.Lock()
	c.saving = false
	if err != nil {
		if !errors.Is(err, form.ErrInvalid) {
			c.errMsg = err.Error()
		}
		c.mu.Unlock()
		return
	}
	c.mode = ViewList
	c.selected = nil
	c.errMsg = ""
	c.mu.Unlock()
	c.form.SetPost(nil)
	c.Refresh(ctx)
}

// savePost is the form's save callback. Which operation runs is decided by
// the form mode captured when the form was opened. The background context is
// deliberate: an in-flight save is not cancelled by the triggering request
// going away, matching the rest of the panel's no-cancellation policy.
func (c *Controller) savePost(payload client.PostInput, staged *client.Upload) error {
	c.mu.Lock()
	mode := c.formMode
	var id string
	if c.selected != nil {
		id = c.selected.ID
	}
	c.mu.Unlock()

	ctx := context.Background()
	if mode == form.ModeEdit {
		if id == "" {
			return fmt.Errorf("postadmin: no post selected for update")
		}
		_, err := c.posts.Update(ctx, id, payload, staged)
		return err
	}
	_, err := c.posts.Create(ctx, payload, staged)
	return err
}

// RequestDelete holds id pending explicit confirmation. Nothing is deleted
// until ConfirmDelete runs.
func (c *Controller) RequestDelete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirmID = id
}

// CancelDelete releases the held id without deleting.
func (c *Controller) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirmID = ""
}

// ConfirmDelete deletes the held id. Without a prior RequestDelete this is a
// no-op. On success the hold clears and the page re-fetches; on failure the
// server's answer is surfaced unchanged and the hold stays so the operator
// can retry or cancel.
func (c *Controller) ConfirmDelete(ctx context.Context) {
	c.mu.Lock()
	id := c.confirmID
	c.mu.Unlock()
	if id == "" {
		return
	}

	err := c.posts.Delete(ctx, id)

	c.mu.Lock()
	if err != nil {
		c.errMsg = err.Error()
		c.mu.Unlock()
		return
	}
	c.confirmID = ""
	c.errMsg = ""
	c.mu.Unlock()
	c.Refresh(ctx)
}

// Snapshot returns a copy of the controller state for rendering.
func (c *Controller) Snapshot() ControllerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := ControllerState{
		Mode:       c.mode,
		FormMode:   c.formMode,
		Posts:      append([]client.Post(nil), c.list...),
		Page:       c.page,
		TotalPages: c.totalPages,
		Search:     c.search,
		ConfirmID:  c.confirmID,
		Err:        c.errMsg,
		Loading:    c.loading,
		Saving:     c.saving,
	}
	if c.selected != nil {
		sel := *c.selected
		s.Selected = &sel
	}
	return s
}
