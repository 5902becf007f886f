package transport

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies a RemoteError.
type ErrorKind string

const (
	KindNetwork      ErrorKind = "network"
	KindTimeout      ErrorKind = "timeout"
	KindUnauthorized ErrorKind = "unauthorized"
	KindInvalid      ErrorKind = "invalid"
	KindNotFound     ErrorKind = "not-found"
	KindInternal     ErrorKind = "internal"
)

// RemoteError is any failure reported by a Transport. It is shown next to the
// control that triggered it and never applied to a tree.
type RemoteError struct {
	Op      string
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Op == "" {
		return fmt.Sprintf("transport: %s: %s", e.Kind, msg)
	}
	return fmt.Sprintf("transport: %s: %s: %s", e.Op, e.Kind, msg)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// NewRemoteError builds a RemoteError with a user facing message.
func NewRemoteError(kind ErrorKind, format string, args ...any) *RemoteError {
	return &RemoteError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// AsRemote converts err into a *RemoteError stamped with op. An existing
// RemoteError keeps its kind and message; context errors map to timeout and
// everything else to network.
func AsRemote(op string, err error) *RemoteError {
	if err == nil {
		return nil
	}
	var re *RemoteError
	if errors.As(err, &re) {
		out := *re
		if out.Op == "" {
			out.Op = op
		}
		return &out
	}
	kind := KindNetwork
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		kind = KindTimeout
	}
	return &RemoteError{Op: op, Kind: kind, Err: err}
}

// KindOf returns the kind of the RemoteError in err's chain, or "" if none.
func KindOf(err error) ErrorKind {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}
