// Package viewstate keeps the local-only display flags of each comment node.
package viewstate

import "sync"

// State is the set of UI flags for one node.
type State struct {
	Replying       bool
	Editing        bool
	ChildrenHidden bool
}

func (s State) zero() bool {
	return !s.Replying && !s.Editing && !s.ChildrenHidden
}

// Policy decides how the reply and edit forms interact.
type Policy int

const (
	// Independent lets a node show its reply and edit forms at once.
	Independent Policy = iota
	// Exclusive closes the edit form when the reply form opens and vice versa.
	Exclusive
)

// Option configures a Registry.
type Option func(*Registry)

// WithPolicy sets the reply/edit policy.
func WithPolicy(p Policy) Option {
	return func(r *Registry) { r.policy = p }
}

// Registry maps node ids to their State. Unknown ids read as the zero State.
type Registry struct {
	policy Policy

	mu     sync.RWMutex
	states map[string]State
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{states: map[string]State{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the flags of id.
func (r *Registry) Get(id string) State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.states[id]
}

// ToggleReplying flips the reply form of id and returns the new state.
func (r *Registry) ToggleReplying(id string) State {
	return r.update(id, func(s *State) { r.setReplying(s, !s.Replying) })
}

// ToggleEditing flips the edit form of id and returns the new state.
func (r *Registry) ToggleEditing(id string) State {
	return r.update(id, func(s *State) { r.setEditing(s, !s.Editing) })
}

// ToggleChildrenHidden flips whether the replies of id are collapsed.
func (r *Registry) ToggleChildrenHidden(id string) State {
	return r.update(id, func(s *State) { s.ChildrenHidden = !s.ChildrenHidden })
}

// SetReplying opens or closes the reply form of id.
func (r *Registry) SetReplying(id string, v bool) State {
	return r.update(id, func(s *State) { r.setReplying(s, v) })
}

// SetEditing opens or closes the edit form of id.
func (r *Registry) SetEditing(id string, v bool) State {
	return r.update(id, func(s *State) { r.setEditing(s, v) })
}

// SetChildrenHidden collapses or expands the replies of id.
func (r *Registry) SetChildrenHidden(id string, v bool) State {
	return r.update(id, func(s *State) { s.ChildrenHidden = v })
}

// Forget drops the state of ids, typically the ids removed by a delete.
func (r *Registry) Forget(ids ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.states, id)
	}
}

// Len returns how many nodes carry a non-zero state.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.states)
}

func (r *Registry) setReplying(s *State, v bool) {
	s.Replying = v
	if v && r.policy == Exclusive {
		s.Editing = false
	}
}

func (r *Registry) setEditing(s *State, v bool) {
	s.Editing = v
	if v && r.policy == Exclusive {
		s.Replying = false
	}
}

func (r *Registry) update(id string, fn func(*State)) State {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.states[id]
	fn(&s)
	if s.zero() {
		delete(r.states, id)
	} else {
		r.states[id] = s
	}
	return s
}
