// Package comment holds the record shape shared by every layer of a thread.
package comment

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// RootID is the ParentID of a comment posted directly on the post.
const RootID = ""

// Author identifies the user who wrote a comment.
type Author struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Record is a single confirmed comment. Only Message, LikeCount and LikedByMe
// change after creation.
type Record struct {
	ID        string    `json:"id"`
	ParentID  string    `json:"parentId,omitempty"`
	Message   string    `json:"message"`
	Author    Author    `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
	LikeCount int       `json:"likeCount"`
	LikedByMe bool      `json:"likedByMe"`
}

// IsRoot reports whether the record hangs directly off the post.
func (r Record) IsRoot() bool {
	return r.ParentID == RootID
}

// Validate checks the shape invariants a record must satisfy before it can
// enter a tree.
func (r Record) Validate() error {
	id := strings.TrimSpace(r.ID)
	switch {
	case id == "":
		return errors.New("comment: id required")
	case id != r.ID:
		return fmt.Errorf("comment: id %q has surrounding whitespace", r.ID)
	case r.ParentID == r.ID:
		return fmt.Errorf("comment: %q cannot reply to itself", r.ID)
	case r.LikeCount < 0:
		return fmt.Errorf("comment: %q has negative like count %d", r.ID, r.LikeCount)
	}
	return nil
}

// String renders a short human readable description used in logs.
// WithLike returns r with LikedByMe set to liked and LikeCount moved by one
// in the same direction, never below zero. r is returned unchanged when the
// like is already in that state.
func (r Record) WithLike(liked bool) Record {
	if r.LikedByMe == liked {
		return r
	}
	r.LikedByMe = liked
	if liked {
		r.LikeCount++
	} else if r.LikeCount > 0 {
		r.LikeCount--
	}
	return r
}

func (r Record) String() string {
	parent := r.ParentID
	if r.IsRoot() {
		parent = "root"
	}
	return fmt.Sprintf("%s (parent:%s author:%s likes:%d)", r.ID, parent, r.Author.Name, r.LikeCount)
}
