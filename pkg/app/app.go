package app

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/rytisguru/nested-comments/pkg/comment"
	"github.com/rytisguru/nested-comments/pkg/identity"
	"github.com/rytisguru/nested-comments/pkg/store"
	"github.com/rytisguru/nested-comments/pkg/transport"
	"github.com/rytisguru/nested-comments/pkg/tree"
)

// DefaultMaxMessageLength is the longest message accepted, in runes.
const DefaultMaxMessageLength = 500

// Service is a local comment backend. It implements transport.Transport and
// transport.Loader over a store.Persistence so the CLI, TUI and MCP server can
// run a thread without a remote server.
type Service struct {
	Persistence store.Persistence
	Identity    identity.Provider

	// Now and NewID default to time.Now (UTC) and uuid.NewString.
	Now   func() time.Time
	NewID func() string

	// MaxMessageLength defaults to DefaultMaxMessageLength.
	MaxMessageLength int

	// DeletePolicy must match the policy of the trees fed by this service.
	// Under tree.Reparent the replies of a deleted comment move up to its
	// parent instead of being deleted with it.
	DeletePolicy tree.DeletePolicy
}

var (
	_ transport.Transport = (*Service)(nil)
	_ transport.Loader    = (*Service)(nil)
)

var errNoPersistence = errors.New("app: no persistence configured")

// ListComments returns the comments of postID, parents before replies, with
// LikedByMe resolved for the current user.
func (s *Service) ListComments(ctx context.Context, postID string) ([]comment.Record, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	all, err := s.Persistence.List(ctx, postID)
	if err != nil {
		return nil, transport.AsRemote("list", err)
	}
	me := s.currentUser()
	records := make([]comment.Record, 0, len(all))
	for _, c := range orderParentsFirst(all) {
		records = append(records, toRecord(c, me.ID))
	}
	return records, nil
}

// CreateComment stores a new comment by the current user.
func (s *Service) CreateComment(ctx context.Context, req transport.CreateRequest) (comment.Record, error) {
	if s.Persistence == nil {
		return comment.Record{}, errNoPersistence
	}
	me, err := s.requireUser()
	if err != nil {
		return comment.Record{}, err
	}
	msg, err := s.validMessage(req.Message)
	if err != nil {
		return comment.Record{}, err
	}
	if strings.TrimSpace(req.PostID) == "" {
		return comment.Record{}, transport.NewRemoteError(transport.KindInvalid, "post id is required")
	}
	if req.ParentID != comment.RootID {
		if _, err := s.get(ctx, req.PostID, req.ParentID); err != nil {
			return comment.Record{}, err
		}
	}

	now := s.now()
	c := &store.Comment{
		ID:         s.newID(),
		PostID:     req.PostID,
		ParentID:   req.ParentID,
		Message:    msg,
		AuthorID:   me.ID,
		AuthorName: me.Name,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Persistence.Store(ctx, c); err != nil {
		return comment.Record{}, transport.AsRemote("create", err)
	}
	return toRecord(c, me.ID), nil
}

// UpdateComment replaces the message of a comment written by the current
// user.
func (s *Service) UpdateComment(ctx context.Context, req transport.UpdateRequest) (comment.Record, error) {
	if s.Persistence == nil {
		return comment.Record{}, errNoPersistence
	}
	me, err := s.requireUser()
	if err != nil {
		return comment.Record{}, err
	}
	msg, err := s.validMessage(req.Message)
	if err != nil {
		return comment.Record{}, err
	}
	c, err := s.get(ctx, req.PostID, req.ID)
	if err != nil {
		return comment.Record{}, err
	}
	if c.AuthorID != me.ID {
		return comment.Record{}, transport.NewRemoteError(transport.KindUnauthorized, "you do not have permission to edit this message")
	}
	c.Message = msg
	c.UpdatedAt = s.now()
	if err := s.Persistence.Store(ctx, c); err != nil {
		return comment.Record{}, transport.AsRemote("update", err)
	}
	return toRecord(c, me.ID), nil
}

// DeleteComment removes a comment written by the current user. Replies below
// it are deleted too, or re-parented under tree.Reparent.
func (s *Service) DeleteComment(ctx context.Context, req transport.DeleteRequest) (transport.DeleteResult, error) {
	if s.Persistence == nil {
		return transport.DeleteResult{}, errNoPersistence
	}
	me, err := s.requireUser()
	if err != nil {
		return transport.DeleteResult{}, err
	}
	c, err := s.get(ctx, req.PostID, req.ID)
	if err != nil {
		return transport.DeleteResult{}, err
	}
	if c.AuthorID != me.ID {
		return transport.DeleteResult{}, transport.NewRemoteError(transport.KindUnauthorized, "you do not have permission to delete this message")
	}
	all, err := s.Persistence.List(ctx, req.PostID)
	if err != nil {
		return transport.DeleteResult{}, transport.AsRemote("delete", err)
	}
	ids := collectSubtreeIDs(indexCommentsByID(all), c.ID)
	if s.DeletePolicy == tree.Reparent {
		ids = []string{c.ID}
		for _, child := range all {
			if child.ParentID != c.ID {
				continue
			}
			child.ParentID = c.ParentID
			if err := s.Persistence.Store(ctx, child); err != nil {
				return transport.DeleteResult{}, transport.AsRemote("delete", err)
			}
		}
	}
	if err := s.Persistence.Delete(ctx, req.PostID, ids...); err != nil {
		return transport.DeleteResult{}, transport.AsRemote("delete", err)
	}
	return transport.DeleteResult{ID: c.ID}, nil
}

// ToggleCommentLike flips the current user's like.
func (s *Service) ToggleCommentLike(ctx context.Context, req transport.LikeRequest) (transport.LikeResult, error) {
	if s.Persistence == nil {
		return transport.LikeResult{}, errNoPersistence
	}
	me, err := s.requireUser()
	if err != nil {
		return transport.LikeResult{}, err
	}
	c, err := s.get(ctx, req.PostID, req.ID)
	if err != nil {
		return transport.LikeResult{}, err
	}
	added := c.ToggleLike(me.ID)
	if err := s.Persistence.Store(ctx, c); err != nil {
		return transport.LikeResult{}, transport.AsRemote("like", err)
	}
	return transport.LikeResult{ID: c.ID, AddLike: added}, nil
}

func (s *Service) get(ctx context.Context, postID, id string) (*store.Comment, error) {
	c, err := s.Persistence.Get(ctx, postID, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, transport.NewRemoteError(transport.KindNotFound, "comment %s not found", id)
	}
	if err != nil {
		return nil, transport.AsRemote("get", err)
	}
	return c, nil
}

func (s *Service) currentUser() comment.Author {
	if s.Identity == nil {
		return comment.Author{}
	}
	return s.Identity.CurrentUser()
}

func (s *Service) requireUser() (comment.Author, error) {
	me := s.currentUser()
	if me.ID == "" {
		return me, transport.NewRemoteError(transport.KindUnauthorized, "you must be signed in")
	}
	return me, nil
}

func (s *Service) validMessage(msg string) (string, error) {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return "", transport.NewRemoteError(transport.KindInvalid, "message is required")
	}
	limit := s.MaxMessageLength
	if limit <= 0 {
		limit = DefaultMaxMessageLength
	}
	if n := utf8.RuneCountInString(msg); n > limit {
		return "", transport.NewRemoteError(transport.KindInvalid, "message is too long (%d > %d characters)", n, limit)
	}
	return msg, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func toRecord(c *store.Comment, viewerID string) comment.Record {
	return comment.Record{
		ID:        c.ID,
		ParentID:  c.ParentID,
		Message:   c.Message,
		Author:    comment.Author{ID: c.AuthorID, Name: c.AuthorName},
		CreatedAt: c.CreatedAt,
		LikeCount: len(c.LikedBy),
		LikedByMe: viewerID != "" && c.Liked(viewerID),
	}
}

func indexCommentsByID(comments []*store.Comment) map[string]*store.Comment {
	indexed := make(map[string]*store.Comment, len(comments))
	for _, c := range comments {
		if c == nil || c.ID == "" {
			continue
		}
		indexed[c.ID] = c
	}
	return indexed
}

// collectSubtreeIDs returns rootID followed by every comment below it.
func collectSubtreeIDs(items map[string]*store.Comment, rootID string) []string {
	children := make(map[string][]string, len(items))
	for id, c := range items {
		children[c.ParentID] = append(children[c.ParentID], id)
	}
	order := []string{rootID}
	seen := map[string]bool{rootID: true}
	for i := 0; i < len(order); i++ {
		for _, child := range children[order[i]] {
			if !seen[child] {
				seen[child] = true
				order = append(order, child)
			}
		}
	}
	return order
}

// orderParentsFirst keeps the persisted order but moves each reply after its
// parent. Replies whose parent is gone are dropped.
func orderParentsFirst(comments []*store.Comment) []*store.Comment {
	byID := indexCommentsByID(comments)
	placed := make(map[string]bool, len(comments))
	out := make([]*store.Comment, 0, len(comments))
	var place func(c *store.Comment, depth int) bool
	place = func(c *store.Comment, depth int) bool {
		if placed[c.ID] {
			return true
		}
		if depth > len(comments) {
			return false
		}
		if c.ParentID != comment.RootID {
			parent, ok := byID[c.ParentID]
			if !ok || !place(parent, depth+1) {
				return false
			}
		}
		placed[c.ID] = true
		out = append(out, c)
		return true
	}
	for _, c := range comments {
		if c != nil {
			place(c, 0)
		}
	}
	return out
}
