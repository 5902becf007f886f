// Package transport describes the remote write operations a thread depends on.
package transport

import (
	"context"

	"github.com/rytisguru/nested-comments/pkg/comment"
)

// CreateRequest asks the backend to post a new comment. An empty ParentID
// posts at the top level.
type CreateRequest struct {
	PostID   string `json:"postId"`
	ParentID string `json:"parentId,omitempty"`
	Message  string `json:"message"`
}

// UpdateRequest asks the backend to replace the message of a comment.
type UpdateRequest struct {
	PostID  string `json:"postId"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

// DeleteRequest asks the backend to delete a comment.
type DeleteRequest struct {
	PostID string `json:"postId"`
	ID     string `json:"id"`
}

// LikeRequest asks the backend to flip the current user's like on a comment.
type LikeRequest struct {
	PostID string `json:"postId"`
	ID     string `json:"id"`
}

// DeleteResult confirms a delete.
type DeleteResult struct {
	ID string `json:"id"`
}

// LikeResult confirms a like toggle. AddLike is true when the like was added.
type LikeResult struct {
	ID      string `json:"id,omitempty"`
	AddLike bool   `json:"addLike"`
}

// Transport performs the remote writes of a thread. Every method returns the
// server-confirmed outcome or an error.
type Transport interface {
	CreateComment(ctx context.Context, req CreateRequest) (comment.Record, error)
	UpdateComment(ctx context.Context, req UpdateRequest) (comment.Record, error)
	DeleteComment(ctx context.Context, req DeleteRequest) (DeleteResult, error)
	ToggleCommentLike(ctx context.Context, req LikeRequest) (LikeResult, error)
}

// Loader fetches the confirmed comments of a post, parents before replies.
type Loader interface {
	ListComments(ctx context.Context, postID string) ([]comment.Record, error)
}
