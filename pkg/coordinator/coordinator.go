// Package coordinator wraps a single remote write of a comment node with its
// in-flight and error state.
//
// A Call runs at most once. Retrying means building a new Call, so a late
// completion of a superseded attempt can never be mistaken for the current
// one. A Call never touches a tree: the caller decides how a confirmed
// result is applied.
package coordinator

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/rytisguru/nested-comments/pkg/transport"
)

// ErrAlreadyExecuted is returned when Execute is called on a used Call.
var ErrAlreadyExecuted = errors.New("coordinator: call already executed")

// State is the lifecycle position of a Call.
type State int

const (
	Idle State = iota
	Pending
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Kind names the remote action a Call performs.
type Kind string

const (
	KindCreate Kind = "create"
	KindUpdate Kind = "update"
	KindDelete Kind = "delete"
	KindLike   Kind = "like"
)

// Func is the remote operation wrapped by a Call.
type Func[I, O any] func(ctx context.Context, in I) (O, error)

// Observer is told when a Call starts and finishes.
type Observer interface {
	Started(kind Kind, nodeID string)
	Finished(kind Kind, nodeID string, elapsed time.Duration, err error)
}

type options struct {
	observer Observer
	logger   *zap.Logger
	tracer   trace.Tracer
}

// Option configures a Call.
type Option func(*options)

// WithObserver reports call lifecycle to o.
func WithObserver(o Observer) Option {
	return func(opts *options) { opts.observer = o }
}

// WithLogger sets the logger used for call outcomes.
func WithLogger(l *zap.Logger) Option {
	return func(opts *options) {
		if l != nil {
			opts.logger = l
		}
	}
}

// WithTracerProvider sets where call spans are recorded. Defaults to the
// global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(opts *options) {
		if tp != nil {
			opts.tracer = tp.Tracer(tracerName)
		}
	}
}

const tracerName = "nested-comments.coordinator"

// Call is one attempt at one remote action on one node.
type Call[I, O any] struct {
	kind   Kind
	nodeID string
	fn     Func[I, O]
	opts   options

	mu     sync.Mutex
	state  State
	result O
	err    error
	done   chan struct{}
}

// New wraps fn as a single-use Call for nodeID.
func New[I, O any](kind Kind, nodeID string, fn Func[I, O], opts ...Option) *Call[I, O] {
	o := options{logger: zap.NewNop(), tracer: otel.Tracer(tracerName)}
	for _, opt := range opts {
		opt(&o)
	}
	return &Call[I, O]{
		kind:   kind,
		nodeID: nodeID,
		fn:     fn,
		opts:   o,
		done:   make(chan struct{}),
	}
}

// Kind returns the action of the call.
func (c *Call[I, O]) Kind() Kind { return c.kind }

// NodeID returns the node the call was started from.
func (c *Call[I, O]) NodeID() string { return c.nodeID }

// Execute performs the remote operation exactly once. Failures are returned
// as *transport.RemoteError.
func (c *Call[I, O]) Execute(ctx context.Context, in I) (O, error) {
	var zero O
	c.mu.Lock()
	if c.state != Idle {
		c.mu.Unlock()
		return zero, ErrAlreadyExecuted
	}
	c.state = Pending
	c.mu.Unlock()

	ctx, span := c.opts.tracer.Start(ctx, "coordinator."+string(c.kind),
		trace.WithAttributes(
			attribute.String("comment.action", string(c.kind)),
			attribute.String("comment.node", c.nodeID),
		),
	)
	defer span.End()

	if c.opts.observer != nil {
		c.opts.observer.Started(c.kind, c.nodeID)
	}
	start := time.Now()
	out, err := c.fn(ctx, in)
	elapsed := time.Since(start)

	var remote error
	if err != nil {
		re := transport.AsRemote(string(c.kind), err)
		span.RecordError(re)
		span.SetStatus(codes.Error, re.Error())
		c.opts.logger.Warn("remote call failed",
			zap.String("action", string(c.kind)),
			zap.String("node", c.nodeID),
			zap.String("kind", string(re.Kind)),
			zap.Error(err),
		)
		remote = re
		out = zero
	}

	c.mu.Lock()
	if remote != nil {
		c.state = Failed
		c.err = remote
	} else {
		c.state = Succeeded
		c.result = out
	}
	close(c.done)
	c.mu.Unlock()

	if c.opts.observer != nil {
		c.opts.observer.Finished(c.kind, c.nodeID, elapsed, remote)
	}
	return out, remote
}

// State returns where the call is in its lifecycle.
func (c *Call[I, O]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the failure of a Failed call.
func (c *Call[I, O]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Result returns the confirmed output of a Succeeded call.
func (c *Call[I, O]) Result() (O, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result, c.state == Succeeded
}

// Done is closed once the call reaches Succeeded or Failed.
func (c *Call[I, O]) Done() <-chan struct{} {
	return c.done
}
