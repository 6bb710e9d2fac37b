package postadmin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/eringen/postadmin/client"
	"github.com/eringen/postadmin/form"
)

// fakeBlogAPI is an in-memory stand-in for the remote blog API.
type fakeBlogAPI struct {
	mu      sync.Mutex
	posts   map[string]client.Post
	order   []string
	listQ   []url.Values
	deletes []string
	fail    bool // answer 500 to everything when set
}

func newFakeBlogAPI() *fakeBlogAPI {
	return &fakeBlogAPI{posts: map[string]client.Post{}}
}

func (f *fakeBlogAPI) add(p client.Post) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts[p.ID] = p
	f.order = append(f.order, p.ID)
}

func (f *fakeBlogAPI) handler() http.Handler {
	writeJSON := func(w http.ResponseWriter, code int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(v)
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.fail {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "backend exploded"})
			return
		}
		id := strings.TrimPrefix(r.URL.Path, "/posts")
		id = strings.TrimPrefix(id, "/")

		switch {
		case r.Method == http.MethodGet && id == "":
			f.listQ = append(f.listQ, r.URL.Query())
			var posts []client.Post
			for _, pid := range f.order {
				posts = append(posts, f.posts[pid])
			}
			writeJSON(w, http.StatusOK, client.ListResult{
				Posts: posts, Page: 1, TotalPages: 1, Total: len(posts),
			})
		case r.Method == http.MethodGet:
			p, ok := f.posts[id]
			if !ok {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "post not found"})
				return
			}
			writeJSON(w, http.StatusOK, p)
		case r.Method == http.MethodPost:
			var in client.Post
			_ = json.NewDecoder(r.Body).Decode(&in)
			in.ID = uuid.NewString()
			f.posts[in.ID] = in
			f.order = append(f.order, in.ID)
			writeJSON(w, http.StatusCreated, in)
		case r.Method == http.MethodPut:
			if _, ok := f.posts[id]; !ok {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "post not found"})
				return
			}
			var in client.Post
			_ = json.NewDecoder(r.Body).Decode(&in)
			in.ID = id
			f.posts[id] = in
			writeJSON(w, http.StatusOK, in)
		case r.Method == http.MethodDelete:
			f.deletes = append(f.deletes, id)
			if _, ok := f.posts[id]; !ok {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "post not found"})
				return
			}
			delete(f.posts, id)
			for i, pid := range f.order {
				if pid == id {
					f.order = append(f.order[:i], f.order[i+1:]...)
					break
				}
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

func (f *fakeBlogAPI) lastListQuery(t *testing.T) url.Values {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.listQ) == 0 {
		t.Fatal("no list request recorded")
	}
	return f.listQ[len(f.listQ)-1]
}

func setupController(t *testing.T) (*fakeBlogAPI, *Controller) {
	t.Helper()
	api := newFakeBlogAPI()
	server := httptest.NewServer(api.handler())
	t.Cleanup(server.Close)

	c, err := client.New(server.URL, nil)
	if err != nil {
		t.Fatalf("client.New failed: %v", err)
	}
	return api, NewController(c.Posts())
}

func TestRefreshPopulatesList(t *testing.T) {
	api, ctrl := setupController(t)
	api.add(client.Post{ID: "p1", Title: "First"})
	api.add(client.Post{ID: "p2", Title: "Second"})

	ctrl.Refresh(context.Background())

	s := ctrl.Snapshot()
	if len(s.Posts) != 2 {
		t.Fatalf("Posts = %d, want 2", len(s.Posts))
	}
	if s.Err != "" {
		t.Errorf("Err = %q", s.Err)
	}
	if s.Loading {
		t.Error("Loading should be false after the fetch settled")
	}
}

func TestListParams(t *testing.T) {
	api, ctrl := setupController(t)
	ctx := context.Background()

	ctrl.SetSearch(ctx, "rust")
	ctrl.SetPage(ctx, 2)

	q := api.lastListQuery(t)
	want := map[string]string{
		"page":               "2",
		"limit":              "10",
		"search":             "rust",
		"sortBy":             "publishedAt",
		"sortOrder":          "desc",
		"includeUnpublished": "true",
	}
	for key, val := range want {
		if q.Get(key) != val {
			t.Errorf("query %s = %q, want %q", key, q.Get(key), val)
		}
	}
}

func TestSearchChangeResetsPage(t *testing.T) {
	api, ctrl := setupController(t)
	ctx := context.Background()

	ctrl.SetPage(ctx, 5)
	ctrl.SetSearch(ctx, "go")
	if q := api.lastListQuery(t); q.Get("page") != "1" {
		t.Errorf("page = %q, new search should reset to 1", q.Get("page"))
	}

	// Same term again keeps the page.
	ctrl.SetPage(ctx, 3)
	ctrl.SetSearch(ctx, "go")
	if q := api.lastListQuery(t); q.Get("page") != "3" {
		t.Errorf("page = %q, unchanged search should keep the page", q.Get("page"))
	}
}

func TestViewModeTransitions(t *testing.T) {
	api, ctrl := setupController(t)
	api.add(client.Post{ID: "p1", Title: "First", Slug: "first", FeaturedImage: "http://x/a.png"})
	ctx := context.Background()

	if got := ctrl.Snapshot().Mode; got != ViewList {
		t.Fatalf("initial mode = %q", got)
	}

	ctrl.ShowDetail(ctx, "p1")
	s := ctrl.Snapshot()
	if s.Mode != ViewDetail || s.Selected == nil || s.Selected.ID != "p1" {
		t.Errorf("detail transition failed: %+v", s)
	}

	ctrl.ShowEdit(ctx, "p1")
	s = ctrl.Snapshot()
	if s.Mode != ViewForm || s.FormMode != form.ModeEdit {
		t.Errorf("edit transition failed: mode=%q formMode=%q", s.Mode, s.FormMode)
	}
	if got := ctrl.Form().Snapshot().Draft.Title; got != "First" {
		t.Errorf("form draft = %q, want populated from post", got)
	}

	ctrl.Cancel()
	s = ctrl.Snapshot()
	if s.Mode != ViewList || s.Selected != nil || s.Err != "" {
		t.Errorf("cancel should clear selection and errors: %+v", s)
	}

	ctrl.ShowCreate()
	s = ctrl.Snapshot()
	if s.Mode != ViewForm || s.FormMode != form.ModeCreate || s.Selected != nil {
		t.Errorf("create transition failed: %+v", s)
	}
}

func TestShowEditMissingPostStaysPut(t *testing.T) {
	_, ctrl := setupController(t)
	ctrl.ShowEdit(context.Background(), "ghost")
	s := ctrl.Snapshot()
	if s.Mode != ViewList {
		t.Errorf("mode = %q, failed fetch should keep the list view", s.Mode)
	}
	if s.Err == "" {
		t.Error("fetch failure should surface an error message")
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	api, ctrl := setupController(t)
	api.add(client.Post{ID: "p1", Title: "First"})
	ctx := context.Background()

	// Confirm without a prior request: nothing happens.
	ctrl.ConfirmDelete(ctx)
	if len(api.deletes) != 0 {
		t.Fatal("delete fired without confirmation hold")
	}

	ctrl.RequestDelete("p1")
	if got := ctrl.Snapshot().ConfirmID; got != "p1" {
		t.Fatalf("ConfirmID = %q", got)
	}
	// Still nothing deleted while only held.
	if len(api.deletes) != 0 {
		t.Fatal("RequestDelete must not delete")
	}

	ctrl.ConfirmDelete(ctx)
	if len(api.deletes) != 1 || api.deletes[0] != "p1" {
		t.Fatalf("deletes = %v", api.deletes)
	}
	s := ctrl.Snapshot()
	if s.ConfirmID != "" {
		t.Error("hold should clear on success")
	}
	if len(s.Posts) != 0 {
		t.Error("list should re-fetch after delete")
	}
}

func TestCancelDeleteReleasesHold(t *testing.T) {
	api, ctrl := setupController(t)
	api.add(client.Post{ID: "p1"})

	ctrl.RequestDelete("p1")
	ctrl.CancelDelete()
	ctrl.ConfirmDelete(context.Background())
	if len(api.deletes) != 0 {
		t.Errorf("deletes = %v, cancelled hold must not fire", api.deletes)
	}
}

func TestSecondDeleteSurfacesServerError(t *testing.T) {
	api, ctrl := setupController(t)
	api.add(client.Post{ID: "p1"})
	ctx := context.Background()

	ctrl.RequestDelete("p1")
	ctrl.ConfirmDelete(ctx)

	// The id is gone remotely; a fresh confirmation round surfaces the 404.
	ctrl.RequestDelete("p1")
	ctrl.ConfirmDelete(ctx)
	s := ctrl.Snapshot()
	if s.Err == "" {
		t.Error("server error should surface, not be swallowed")
	}
	if s.ConfirmID != "p1" {
		t.Errorf("ConfirmID = %q, failed delete keeps the hold", s.ConfirmID)
	}
}

func TestSubmitCreateReturnsToListAndRefetches(t *testing.T) {
	_, ctrl := setupController(t)
	ctx := context.Background()

	ctrl.ShowCreate()
	f := ctrl.Form()
	f.SetField("title", "Hello World!")
	f.SetField("excerpt", "e")
	f.SetField("content", "c")
	f.SetField("featuredImage", "http://x/img.png")

	ctrl.SubmitForm(ctx)

	s := ctrl.Snapshot()
	if s.Mode != ViewList {
		t.Errorf("mode = %q, want list after successful save", s.Mode)
	}
	if len(s.Posts) != 1 {
		t.Fatalf("Posts = %d, want the created post after re-fetch", len(s.Posts))
	}
	created := s.Posts[0]
	if created.Slug != "hello-world" {
		t.Errorf("Slug = %q, want hello-world", created.Slug)
	}
	if created.FeaturedImage != "http://x/img.png" {
		t.Errorf("FeaturedImage = %q, want preserved (no file staged)", created.FeaturedImage)
	}
}

func TestSubmitInvalidStaysInForm(t *testing.T) {
	_, ctrl := setupController(t)
	ctrl.ShowCreate()

	ctrl.SubmitForm(context.Background())

	s := ctrl.Snapshot()
	if s.Mode != ViewForm {
		t.Errorf("mode = %q, validation failure must stay in the form", s.Mode)
	}
	if len(ctrl.Form().Snapshot().Errors) == 0 {
		t.Error("field errors should be populated")
	}
}

func TestSubmitUpdate(t *testing.T) {
	api, ctrl := setupController(t)
	api.add(client.Post{ID: "p1", Title: "Old", Slug: "old", Excerpt: "e", Content: "c", FeaturedImage: "http://x/a.png"})
	ctx := context.Background()

	ctrl.ShowEdit(ctx, "p1")
	ctrl.Form().SetField("excerpt", "updated excerpt")
	ctrl.SubmitForm(ctx)

	s := ctrl.Snapshot()
	if s.Mode != ViewList {
		t.Fatalf("mode = %q, want list", s.Mode)
	}
	api.mu.Lock()
	got := api.posts["p1"].Excerpt
	api.mu.Unlock()
	if got != "updated excerpt" {
		t.Errorf("remote excerpt = %q", got)
	}
}

func TestSubmitSaveFailureStaysInForm(t *testing.T) {
	api, ctrl := setupController(t)
	ctx := context.Background()

	ctrl.ShowCreate()
	f := ctrl.Form()
	f.SetField("title", "T")
	f.SetField("excerpt", "e")
	f.SetField("content", "c")
	f.SetField("featuredImage", "http://x/a.png")

	api.mu.Lock()
	api.fail = true
	api.mu.Unlock()
	ctrl.SubmitForm(ctx)

	s := ctrl.Snapshot()
	if s.Mode != ViewForm {
		t.Errorf("mode = %q, failed save must stay in the form", s.Mode)
	}
	if s.Err == "" {
		t.Error("save failure should surface an error message")
	}
	if s.Saving {
		t.Error("Saving flag should reset")
	}
	if got := f.Snapshot().Draft.Title; got != "T" {
		t.Error("draft should survive for retry")
	}
}

func TestUpdateWithoutSelectionFailsLocally(t *testing.T) {
	_, ctrl := setupController(t)
	ctrl.formMode = form.ModeEdit // unreachable through the public flow

	if err := ctrl.savePost(client.PostInput{Title: "T"}, nil); err == nil {
		t.Error("update with no selection must fail, not silently create")
	}
}

func TestListFetchErrorKeepsViewUsable(t *testing.T) {
	api, ctrl := setupController(t)
	api.add(client.Post{ID: "p1"})
	ctx := context.Background()

	api.mu.Lock()
	api.fail = true
	api.mu.Unlock()
	ctrl.Refresh(ctx)
	if s := ctrl.Snapshot(); s.Err == "" || s.Loading {
		t.Errorf("fetch failure should surface and settle: %+v", s)
	}

	// Recovery replaces the message.
	api.mu.Lock()
	api.fail = false
	api.mu.Unlock()
	ctrl.Refresh(ctx)
	if s := ctrl.Snapshot(); s.Err != "" || len(s.Posts) != 1 {
		t.Errorf("recovered fetch should clear the error: %+v", s)
	}
}
