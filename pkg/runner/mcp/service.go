// Package mcp provides the Model Context Protocol server integration for
// nested comment threads.
package mcp

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/rytisguru/nested-comments/pkg/app"
	"github.com/rytisguru/nested-comments/pkg/comment"
	"github.com/rytisguru/nested-comments/pkg/metrics"
	"github.com/rytisguru/nested-comments/pkg/thread"
	"github.com/rytisguru/nested-comments/pkg/tree"
)

// Service runs thread operations on behalf of MCP tools. Every call loads the
// post's thread fresh from the backend so concurrent clients see each other's
// writes.
type Service struct {
	Backend *app.Service
	Logger  *zap.Logger
	Metrics *metrics.Metrics

	// TreeOptions configure the store of each loaded thread.
	TreeOptions []tree.Option
}

var errNoBackend = errors.New("mcp: backend is not configured")

// CommentDTO is a transport-friendly projection of a comment and its replies.
type CommentDTO struct {
	ID         string       `json:"id"`
	ParentID   string       `json:"parentId,omitempty"`
	Message    string       `json:"message"`
	AuthorID   string       `json:"authorId"`
	AuthorName string       `json:"authorName"`
	CreatedISO string       `json:"created"`
	LikeCount  int          `json:"likeCount"`
	LikedByMe  bool         `json:"likedByMe"`
	Replies    []CommentDTO `json:"replies,omitempty"`
}

// PostDTO summarizes one post.
type PostDTO struct {
	PostID       string   `json:"postId"`
	Comments     int      `json:"comments"`
	TopLevel     int      `json:"topLevel"`
	Likes        int      `json:"likes"`
	Authors      []string `json:"authors,omitempty"`
	LastActivity string   `json:"lastActivity,omitempty"`
}

// NewService builds a service over backend.
func NewService(backend *app.Service) *Service {
	return &Service{Backend: backend}
}

// Open loads the thread of postID.
func (s *Service) Open(ctx context.Context, postID string) (*thread.Thread, error) {
	if s.Backend == nil {
		return nil, errNoBackend
	}
	if postID == "" {
		return nil, errors.New("post is required")
	}
	opts := []thread.Option{
		thread.WithStore(tree.New(s.TreeOptions...)),
	}
	if s.Logger != nil {
		opts = append(opts, thread.WithLogger(s.Logger))
	}
	if s.Metrics != nil {
		opts = append(opts, thread.WithMetrics(s.Metrics))
	}
	t := thread.New(postID, s.Backend, s.Backend.Identity, opts...)
	if err := t.Load(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// ListComments returns the nested thread of postID.
func (s *Service) ListComments(ctx context.Context, postID string) ([]CommentDTO, int, error) {
	t, err := s.Open(ctx, postID)
	if err != nil {
		return nil, 0, err
	}
	return nest(t, comment.RootID), t.Store().Len(), nil
}

// GetComment returns one comment with its replies.
func (s *Service) GetComment(ctx context.Context, postID, id string) (*CommentDTO, error) {
	t, err := s.Open(ctx, postID)
	if err != nil {
		return nil, err
	}
	r, ok := t.Get(id)
	if !ok {
		return nil, &tree.NotFoundError{ID: id}
	}
	dto := toDTO(r)
	dto.Replies = nest(t, r.ID)
	return &dto, nil
}

// CreateComment posts message on postID, as a reply when parentID is set.
func (s *Service) CreateComment(ctx context.Context, postID, parentID, message string) (*CommentDTO, error) {
	t, err := s.Open(ctx, postID)
	if err != nil {
		return nil, err
	}
	r, err := t.Reply(ctx, parentID, message)
	if err != nil {
		return nil, err
	}
	dto := toDTO(r)
	return &dto, nil
}

// EditComment replaces the message of id.
func (s *Service) EditComment(ctx context.Context, postID, id, message string) (*CommentDTO, error) {
	t, err := s.Open(ctx, postID)
	if err != nil {
		return nil, err
	}
	r, err := t.Edit(ctx, id, message)
	if err != nil {
		return nil, err
	}
	dto := toDTO(r)
	dto.Replies = nest(t, r.ID)
	return &dto, nil
}

// DeleteComment removes id and returns every id that left the thread.
func (s *Service) DeleteComment(ctx context.Context, postID, id string) ([]string, error) {
	t, err := s.Open(ctx, postID)
	if err != nil {
		return nil, err
	}
	return t.Delete(ctx, id)
}

// ToggleLike flips the current user's like on id.
func (s *Service) ToggleLike(ctx context.Context, postID, id string) (*CommentDTO, error) {
	t, err := s.Open(ctx, postID)
	if err != nil {
		return nil, err
	}
	r, err := t.ToggleLike(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toDTO(r)
	return &dto, nil
}

// ListPosts summarizes every post in the backend.
func (s *Service) ListPosts(ctx context.Context) ([]PostDTO, int, error) {
	if s.Backend == nil {
		return nil, 0, errNoBackend
	}
	report, err := s.Backend.Report(ctx, time.Time{})
	if err != nil {
		return nil, 0, err
	}
	posts := make([]PostDTO, 0, len(report.Posts))
	for _, p := range report.Posts {
		posts = append(posts, PostDTO{
			PostID:       p.PostID,
			Comments:     p.Comments,
			TopLevel:     p.TopLevel,
			Likes:        p.Likes,
			Authors:      p.Authors,
			LastActivity: formatTime(p.LastActivity),
		})
	}
	return posts, report.Comments, nil
}

func nest(t *thread.Thread, parentID string) []CommentDTO {
	children := t.ChildrenOf(parentID)
	if len(children) == 0 {
		return nil
	}
	out := make([]CommentDTO, 0, len(children))
	for _, r := range children {
		dto := toDTO(r)
		dto.Replies = nest(t, r.ID)
		out = append(out, dto)
	}
	return out
}

func toDTO(r comment.Record) CommentDTO {
	return CommentDTO{
		ID:         r.ID,
		ParentID:   r.ParentID,
		Message:    r.Message,
		AuthorID:   r.Author.ID,
		AuthorName: r.Author.Name,
		CreatedISO: formatTime(r.CreatedAt),
		LikeCount:  r.LikeCount,
		LikedByMe:  r.LikedByMe,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
