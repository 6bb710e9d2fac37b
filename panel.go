package postadmin

import (
	"sync"

	"github.com/google/uuid"

	"github.com/eringen/postadmin/client"
)

// panel is the server-side view state of one admin session: the controller
// plus the form it owns. Each logged-in session gets its own panel so two
// operators never share draft state.
type panel struct {
	ctrl *Controller
}

// panelRegistry maps session panel ids to their panels.
type panelRegistry struct {
	mu     sync.Mutex
	posts  *client.PostService
	panels map[string]*panel
}

func newPanelRegistry(posts *client.PostService) *panelRegistry {
	return &panelRegistry{
		posts:  posts,
		panels: make(map[string]*panel),
	}
}

// get returns the panel for id, creating it on first use. An empty id gets a
// fresh id assigned.
func (r *panelRegistry) get(id string) (string, *panel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id == "" {
		id = uuid.NewString()
	}
	p, ok := r.panels[id]
	if !ok {
		p = &panel{ctrl: NewController(r.posts)}
		r.panels[id] = p
	}
	return id, p
}

// drop discards the panel for id, abandoning any draft state.
func (r *panelRegistry) drop(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.panels, id)
}
