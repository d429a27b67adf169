package resolver

import (
	"github.com/dmitrymomot/transkit/pkg/store"
)

// Workspace gives access to the unit stores of other projects.
type Workspace interface {
	Project(name string) (*store.Store, bool)
}

// StaticWorkspace is a Workspace backed by a fixed set of stores.
type StaticWorkspace map[string]*store.Store

// Project returns the store of the named project.
func (w StaticWorkspace) Project(name string) (*store.Store, bool) {
	st, ok := w[name]
	return st, ok
}

// projectStore looks up the store of a workspace project. The project being
// resolved is always served from the resolver's own store, so "@@self.unit"
// sees the same content as "@unit".
func (r *Resolver) projectStore(name string) (*store.Store, bool) {
	if r.project != "" && name == r.project {
		return r.store, true
	}
	if r.workspace == nil {
		return nil, false
	}
	return r.workspace.Project(name)
}
