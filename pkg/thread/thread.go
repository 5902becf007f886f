// Package thread ties a comment tree to the remote writes that change it.
//
// Every action runs a fresh coordinator call and only folds the confirmed
// result into the tree once the transport succeeds. A failed call leaves the
// tree untouched and its error is kept as the status of that node's action.
package thread

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/rytisguru/nested-comments/pkg/comment"
	"github.com/rytisguru/nested-comments/pkg/coordinator"
	"github.com/rytisguru/nested-comments/pkg/identity"
	"github.com/rytisguru/nested-comments/pkg/metrics"
	"github.com/rytisguru/nested-comments/pkg/transport"
	"github.com/rytisguru/nested-comments/pkg/tree"
	"github.com/rytisguru/nested-comments/pkg/viewstate"
)

var (
	// ErrActionPending is returned when the same action is triggered twice on
	// a node before the first one finished.
	ErrActionPending = errors.New("thread: action already pending")
	// ErrForbidden is returned when the current user edits or deletes a
	// comment written by someone else.
	ErrForbidden = errors.New("thread: only the author can modify a comment")
	// ErrNoLoader is returned by Load when no loader is configured.
	ErrNoLoader = errors.New("thread: no comment loader configured")
)

// ActionStatus is the in-flight and error state of one action on one node.
type ActionStatus struct {
	Pending bool
	Err     error
}

type actionKey struct {
	id   string
	kind coordinator.Kind
}

// Option configures a Thread.
type Option func(*Thread)

// WithStore uses s instead of a fresh cascading store.
func WithStore(s *tree.Store) Option {
	return func(t *Thread) { t.store = s }
}

// WithViewState uses r instead of a fresh independent registry.
func WithViewState(r *viewstate.Registry) Option {
	return func(t *Thread) { t.views = r }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(t *Thread) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithMetrics reports calls and tree size to m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(t *Thread) { t.metrics = m }
}

// WithLoader sets where Load reads comments from. Defaults to the transport
// when it also implements transport.Loader.
func WithLoader(l transport.Loader) Option {
	return func(t *Thread) { t.loader = l }
}

// WithCoordinatorOptions appends options to every coordinator call.
func WithCoordinatorOptions(opts ...coordinator.Option) Option {
	return func(t *Thread) { t.coordOpts = append(t.coordOpts, opts...) }
}

// Thread is the comment tree of one post plus the actions a user can take on
// it.
type Thread struct {
	postID    string
	transport transport.Transport
	loader    transport.Loader
	identity  identity.Provider

	store   *tree.Store
	views   *viewstate.Registry
	logger  *zap.Logger
	metrics *metrics.Metrics

	coordOpts []coordinator.Option

	mu     sync.Mutex
	status map[actionKey]ActionStatus
}

// New creates an empty thread for postID.
func New(postID string, t transport.Transport, id identity.Provider, opts ...Option) *Thread {
	th := &Thread{
		postID:    postID,
		transport: t,
		identity:  id,
		logger:    zap.NewNop(),
		status:    map[actionKey]ActionStatus{},
	}
	if l, ok := t.(transport.Loader); ok {
		th.loader = l
	}
	for _, opt := range opts {
		opt(th)
	}
	if th.store == nil {
		th.store = tree.New()
	}
	if th.views == nil {
		th.views = viewstate.New()
	}
	base := []coordinator.Option{coordinator.WithLogger(th.logger)}
	if th.metrics != nil {
		base = append(base, coordinator.WithObserver(th.metrics))
	}
	th.coordOpts = append(base, th.coordOpts...)
	return th
}

// PostID returns the post the thread belongs to.
func (t *Thread) PostID() string { return t.postID }

// Store returns the tree backing the thread.
func (t *Thread) Store() *tree.Store { return t.store }

// Views returns the view-state registry of the thread.
func (t *Thread) Views() *viewstate.Registry { return t.views }

// CurrentUser returns the acting user.
func (t *Thread) CurrentUser() comment.Author {
	if t.identity == nil {
		return comment.Author{}
	}
	return t.identity.CurrentUser()
}

// Load replaces the tree with the comments of the post.
func (t *Thread) Load(ctx context.Context) error {
	if t.loader == nil {
		return ErrNoLoader
	}
	records, err := t.loader.ListComments(ctx, t.postID)
	if err != nil {
		return transport.AsRemote("list", err)
	}
	if err := t.store.Seed(records); err != nil {
		return err
	}
	t.logger.Debug("thread loaded", zap.String("post", t.postID), zap.Int("comments", len(records)))
	t.reportSize()
	return nil
}

// Get returns the comment with id.
func (t *Thread) Get(id string) (comment.Record, bool) {
	return t.store.Get(id)
}

// ChildrenOf returns the direct replies of id.
func (t *Thread) ChildrenOf(id string) []comment.Record {
	return t.store.ChildrenOf(id)
}

// Roots returns the top-level comments.
func (t *Thread) Roots() []comment.Record {
	return t.store.ChildrenOf(comment.RootID)
}

// CanModify reports whether the current user may edit or delete id.
func (t *Thread) CanModify(id string) bool {
	r, ok := t.store.Get(id)
	return ok && identity.Owns(t.identity, r)
}

// Status returns the state of the last kind action on id.
func (t *Thread) Status(id string, kind coordinator.Kind) ActionStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status[actionKey{id: id, kind: kind}]
}

// ClearError drops a displayed error for kind on id.
func (t *Thread) ClearError(id string, kind coordinator.Kind) {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := actionKey{id: id, kind: kind}
	if s, ok := t.status[key]; ok && !s.Pending {
		delete(t.status, key)
	}
}

func (t *Thread) begin(id string, kind coordinator.Kind) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := actionKey{id: id, kind: kind}
	if t.status[key].Pending {
		return ErrActionPending
	}
	t.status[key] = ActionStatus{Pending: true}
	return nil
}

// finish settles the status of a call. Errors of nodes removed while the call
// was pending are dropped along with the node.
func (t *Thread) finish(id string, kind coordinator.Kind, err error) {
	gone := false
	if id != comment.RootID {
		_, ok := t.store.Get(id)
		gone = !ok
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	key := actionKey{id: id, kind: kind}
	if err == nil || gone {
		delete(t.status, key)
		return
	}
	t.status[key] = ActionStatus{Err: err}
}

// forget drops settled statuses of removed nodes. Pending ones are left for
// their calls to finish.
func (t *Thread) forget(ids []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	for key, s := range t.status {
		if drop[key.id] && !s.Pending {
			delete(t.status, key)
		}
	}
}

// applied interprets the error of a tree mutation made on behalf of a
// confirmed call. A missing target means the node vanished while the call was
// in flight, which is not an error.
func (t *Thread) applied(kind coordinator.Kind, id string, err error) error {
	switch {
	case err == nil:
		t.logger.Debug("confirmed change applied", zap.String("action", string(kind)), zap.String("id", id))
		t.reportSize()
		return nil
	case errors.Is(err, tree.ErrNotFound):
		t.logger.Debug("confirmation for removed comment dropped", zap.String("action", string(kind)), zap.String("id", id), zap.Error(err))
		if t.metrics != nil {
			t.metrics.StaleConfirmation(kind)
		}
		return nil
	default:
		t.logger.Error("confirmed change could not be applied", zap.String("action", string(kind)), zap.String("id", id), zap.Error(err))
		return err
	}
}

func (t *Thread) reportSize() {
	if t.metrics != nil {
		t.metrics.SetTreeSize(t.store.Len())
	}
}

// owned fails unless id exists and the current user wrote it.
func (t *Thread) owned(id string) error {
	r, ok := t.store.Get(id)
	if !ok {
		return &tree.NotFoundError{ID: id}
	}
	if !identity.Owns(t.identity, r) {
		return ErrForbidden
	}
	return nil
}
