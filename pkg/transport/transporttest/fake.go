// Package transporttest provides a scriptable Transport for tests.
package transporttest

import (
	"context"
	"sync"

	"github.com/rytisguru/nested-comments/pkg/comment"
	"github.com/rytisguru/nested-comments/pkg/transport"
)

// Fake is a Transport whose behavior is set per method. A nil func returns the
// zero result. Calls are counted per method.
type Fake struct {
	CreateFunc func(ctx context.Context, req transport.CreateRequest) (comment.Record, error)
	UpdateFunc func(ctx context.Context, req transport.UpdateRequest) (comment.Record, error)
	DeleteFunc func(ctx context.Context, req transport.DeleteRequest) (transport.DeleteResult, error)
	LikeFunc   func(ctx context.Context, req transport.LikeRequest) (transport.LikeResult, error)
	ListFunc   func(ctx context.Context, postID string) ([]comment.Record, error)

	mu    sync.Mutex
	calls map[string]int
}

var (
	_ transport.Transport = (*Fake)(nil)
	_ transport.Loader    = (*Fake)(nil)
)

func (f *Fake) count(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
}

// Calls returns how many times method was invoked ("create", "update",
// "delete", "like" or "list").
func (f *Fake) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *Fake) CreateComment(ctx context.Context, req transport.CreateRequest) (comment.Record, error) {
	f.count("create")
	if f.CreateFunc == nil {
		return comment.Record{}, nil
	}
	return f.CreateFunc(ctx, req)
}

func (f *Fake) UpdateComment(ctx context.Context, req transport.UpdateRequest) (comment.Record, error) {
	f.count("update")
	if f.UpdateFunc == nil {
		return comment.Record{}, nil
	}
	return f.UpdateFunc(ctx, req)
}

func (f *Fake) DeleteComment(ctx context.Context, req transport.DeleteRequest) (transport.DeleteResult, error) {
	f.count("delete")
	if f.DeleteFunc == nil {
		return transport.DeleteResult{}, nil
	}
	return f.DeleteFunc(ctx, req)
}

func (f *Fake) ToggleCommentLike(ctx context.Context, req transport.LikeRequest) (transport.LikeResult, error) {
	f.count("like")
	if f.LikeFunc == nil {
		return transport.LikeResult{}, nil
	}
	return f.LikeFunc(ctx, req)
}

func (f *Fake) ListComments(ctx context.Context, postID string) ([]comment.Record, error) {
	f.count("list")
	if f.ListFunc == nil {
		return nil, nil
	}
	return f.ListFunc(ctx, postID)
}
