package store

import (
	"errors"
	"sort"
	"time"
)

// ErrNotFound is returned when a comment is not in the backend.
var ErrNotFound = errors.New("store: comment not found")

// Comment is the persisted form of a comment. Likes are kept as the set of
// user ids so the backend can answer "liked by me" for any user.
type Comment struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	PostID     string    `json:"postId" gorm:"index;not null"`
	ParentID   string    `json:"parentId,omitempty" gorm:"index"`
	Message    string    `json:"message" gorm:"not null"`
	AuthorID   string    `json:"authorId" gorm:"not null"`
	AuthorName string    `json:"authorName"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	LikedBy    []string  `json:"likedBy,omitempty" gorm:"serializer:json"`
}

// Liked reports whether userID likes the comment.
func (c *Comment) Liked(userID string) bool {
	for _, id := range c.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// ToggleLike flips userID's like and reports whether it was added.
func (c *Comment) ToggleLike(userID string) bool {
	for i, id := range c.LikedBy {
		if id == userID {
			c.LikedBy = append(c.LikedBy[:i:i], c.LikedBy[i+1:]...)
			return false
		}
	}
	c.LikedBy = append(c.LikedBy, userID)
	return true
}

// Clone returns a deep copy of c.
func (c *Comment) Clone() *Comment {
	if c == nil {
		return nil
	}
	cp := *c
	cp.LikedBy = append([]string(nil), c.LikedBy...)
	return &cp
}

func sortComments(comments []*Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		left := comments[i]
		right := comments[j]
		if left == nil || right == nil {
			return left != nil
		}
		lt := left.CreatedAt
		rt := right.CreatedAt
		switch {
		case lt.IsZero() && rt.IsZero():
			return left.ID < right.ID
		case lt.IsZero():
			return false
		case rt.IsZero():
			return true
		default:
			if lt.Equal(rt) {
				return left.ID < right.ID
			}
			return lt.Before(rt)
		}
	})
}
