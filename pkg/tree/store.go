package tree

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea/v2"

	"github.com/rytisguru/nested-comments/pkg/comment"
	"github.com/rytisguru/nested-comments/pkg/events"
)

// DeletePolicy decides what happens to the replies of a removed comment.
type DeletePolicy int

const (
	// Cascade removes the comment and every transitive reply.
	Cascade DeletePolicy = iota
	// Reparent removes only the comment and moves its direct replies up to
	// the removed comment's parent.
	Reparent
)

func (p DeletePolicy) String() string {
	if p == Reparent {
		return "reparent"
	}
	return "cascade"
}

// ParseDeletePolicy maps a config value onto a DeletePolicy. Unknown values
// fall back to Cascade.
func ParseDeletePolicy(s string) DeletePolicy {
	if s == "reparent" {
		return Reparent
	}
	return Cascade
}

// Option configures a Store.
type Option func(*Store)

// WithDeletePolicy sets the policy RemoveSubtree follows.
func WithDeletePolicy(p DeletePolicy) Option {
	return func(s *Store) { s.policy = p }
}

// WithComponent sets the component id stamped on emitted events.
func WithComponent(id events.ComponentID) Option {
	return func(s *Store) {
		if id != "" {
			s.component = id
		}
	}
}

// Store owns the flat comment sequence of a thread and the Index derived from
// it. Every mutation is synchronous, rebuilds the index before releasing the
// lock, and announces itself on the event channel without blocking.
type Store struct {
	component events.ComponentID
	policy    DeletePolicy

	mu      sync.RWMutex
	records []comment.Record
	pos     map[string]int
	index   Index

	eventCh chan tea.Msg
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		component: events.ComponentID("tree"),
		pos:       map[string]int{},
		eventCh:   make(chan tea.Msg, 64),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.index = BuildIndex(nil)
	return s
}

// Events exposes the store event channel for Bubble Tea subscriptions.
func (s *Store) Events() <-chan tea.Msg {
	return s.eventCh
}

// Policy reports the delete policy in effect.
func (s *Store) Policy() DeletePolicy {
	return s.policy
}

// Seed replaces the whole sequence with records. Parents must precede their
// replies. Seed is all-or-nothing: on error the previous state is kept.
func (s *Store) Seed(records []comment.Record) error {
	next := make([]comment.Record, 0, len(records))
	pos := make(map[string]int, len(records))
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return err
		}
		if _, ok := pos[r.ID]; ok {
			return &DuplicateIDError{ID: r.ID}
		}
		if !r.IsRoot() {
			if _, ok := pos[r.ParentID]; !ok {
				return &NotFoundError{ID: r.ParentID}
			}
		}
		pos[r.ID] = len(next)
		next = append(next, r)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = next
	s.pos = pos
	s.index = BuildIndex(s.records)
	s.emit(events.ChangeReset, events.CommentRef{}, nil)
	return nil
}

// Records returns a copy of the flat sequence.
func (s *Store) Records() []comment.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]comment.Record(nil), s.records...)
}

// Len returns the number of comments in the thread.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Get returns the record with id.
func (s *Store) Get(id string) (comment.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.pos[id]
	if !ok {
		return comment.Record{}, false
	}
	return s.records[i], true
}

// ChildrenOf returns the direct replies of parentID (comment.RootID for the
// top level) in sequence order.
func (s *Store) ChildrenOf(parentID string) []comment.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.ChildrenOf(parentID)
}

// Index returns the current index. It stays valid after later mutations but
// no longer reflects them.
func (s *Store) Index() Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// Append adds a confirmed record at the end of the sequence.
func (s *Store) Append(r comment.Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pos[r.ID]; ok {
		return &DuplicateIDError{ID: r.ID}
	}
	if !r.IsRoot() {
		if _, ok := s.pos[r.ParentID]; !ok {
			return &NotFoundError{ID: r.ParentID}
		}
	}
	s.pos[r.ID] = len(s.records)
	s.records = append(s.records, r)
	s.index = BuildIndex(s.records)
	s.emit(events.ChangeCreate, events.RefFromRecord(r), nil)
	return nil
}

// ReplaceMessage swaps the message of id, leaving every other field and the
// record's position untouched.
func (s *Store) ReplaceMessage(id, message string) (comment.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.pos[id]
	if !ok {
		return comment.Record{}, &NotFoundError{ID: id}
	}
	s.records[i].Message = message
	s.index = BuildIndex(s.records)
	r := s.records[i]
	s.emit(events.ChangeUpdate, events.RefFromRecord(r), nil)
	return r, nil
}

// SetLike sets LikedByMe to liked and moves LikeCount by one in the same
// direction, never below zero. Calling it with the state already in place
// changes nothing.
func (s *Store) SetLike(id string, liked bool) (comment.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.pos[id]
	if !ok {
		return comment.Record{}, &NotFoundError{ID: id}
	}
	r := &s.records[i]
	if r.LikedByMe == liked {
		return *r, nil
	}
	*r = r.WithLike(liked)
	s.index = BuildIndex(s.records)
	s.emit(events.ChangeLike, events.RefFromRecord(*r), nil)
	return *r, nil
}

// RemoveSubtree removes id according to the store's delete policy and returns
// every removed id, id first. Under Cascade that is id and all of its
// transitive replies in breadth-first order.
func (s *Store) RemoveSubtree(id string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.pos[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	target := s.records[i]

	var removed []string
	if s.policy == Reparent {
		removed = []string{id}
		for j := range s.records {
			if s.records[j].ParentID == id {
				s.records[j].ParentID = target.ParentID
			}
		}
	} else {
		removed = s.index.Subtree(id)
	}

	drop := make(map[string]bool, len(removed))
	for _, rid := range removed {
		drop[rid] = true
	}
	kept := s.records[:0]
	for _, r := range s.records {
		if !drop[r.ID] {
			kept = append(kept, r)
		}
	}
	// Zero the tail so dropped records are not retained by the backing array.
	for j := len(kept); j < len(s.records); j++ {
		s.records[j] = comment.Record{}
	}
	s.records = kept
	s.reindexLocked()
	s.emit(events.ChangeDelete, events.RefFromRecord(target), removed)
	return removed, nil
}

func (s *Store) reindexLocked() {
	s.pos = make(map[string]int, len(s.records))
	for i, r := range s.records {
		s.pos[r.ID] = i
	}
	s.index = BuildIndex(s.records)
}

func (s *Store) emit(action events.ChangeType, ref events.CommentRef, removed []string) {
	msg := events.CommentChangeMsg{
		Component: s.component,
		Action:    action,
		Comment:   ref,
		Removed:   append([]string(nil), removed...),
	}
	select {
	case s.eventCh <- msg:
	default:
	}
}
