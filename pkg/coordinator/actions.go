package coordinator

import (
	"context"

	"github.com/rytisguru/nested-comments/pkg/comment"
	"github.com/rytisguru/nested-comments/pkg/transport"
)

// Create builds a call posting a comment under nodeID (comment.RootID for a
// top-level comment).
func Create(t transport.Transport, nodeID string, opts ...Option) *Call[transport.CreateRequest, comment.Record] {
	return New(KindCreate, nodeID, t.CreateComment, opts...)
}

// Update builds a call editing the message of nodeID.
func Update(t transport.Transport, nodeID string, opts ...Option) *Call[transport.UpdateRequest, comment.Record] {
	return New(KindUpdate, nodeID, t.UpdateComment, opts...)
}

// Delete builds a call deleting nodeID. A confirmation without an id is
// attributed to the requested comment.
func Delete(t transport.Transport, nodeID string, opts ...Option) *Call[transport.DeleteRequest, transport.DeleteResult] {
	fn := func(ctx context.Context, req transport.DeleteRequest) (transport.DeleteResult, error) {
		res, err := t.DeleteComment(ctx, req)
		if err == nil && res.ID == "" {
			res.ID = req.ID
		}
		return res, err
	}
	return New(KindDelete, nodeID, fn, opts...)
}

// Like builds a call toggling the current user's like on nodeID.
func Like(t transport.Transport, nodeID string, opts ...Option) *Call[transport.LikeRequest, transport.LikeResult] {
	fn := func(ctx context.Context, req transport.LikeRequest) (transport.LikeResult, error) {
		res, err := t.ToggleCommentLike(ctx, req)
		if err == nil && res.ID == "" {
			res.ID = req.ID
		}
		return res, err
	}
	return New(KindLike, nodeID, fn, opts...)
}
