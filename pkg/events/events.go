package events

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"

	"github.com/rytisguru/nested-comments/pkg/comment"
)

// ComponentID uniquely identifies a component instance emitting events.
type ComponentID string

// ChangeType enumerates supported change actions across components.
type ChangeType string

const (
	// ChangeCreate indicates a new comment was appended.
	ChangeCreate ChangeType = "create"
	// ChangeUpdate indicates a comment message changed.
	ChangeUpdate ChangeType = "update"
	// ChangeDelete indicates a comment (and possibly its replies) was removed.
	ChangeDelete ChangeType = "delete"
	// ChangeLike indicates the like state of a comment changed.
	ChangeLike ChangeType = "like"
	// ChangeReset indicates the whole thread was reseeded.
	ChangeReset ChangeType = "reset"
)

// CommentRef captures the fields of a comment needed by subscribers that do
// not hold a reference to the store.
type CommentRef struct {
	ID        string
	ParentID  string
	AuthorID  string
	Message   string
	LikeCount int
	LikedByMe bool
}

// Label returns a human-friendly identifier for the comment.
func (r CommentRef) Label() string {
	if r.ID == "" {
		return "root"
	}
	return r.ID
}

// RefFromRecord converts a record into an event reference.
func RefFromRecord(r comment.Record) CommentRef {
	return CommentRef{
		ID:        r.ID,
		ParentID:  r.ParentID,
		AuthorID:  r.Author.ID,
		Message:   r.Message,
		LikeCount: r.LikeCount,
		LikedByMe: r.LikedByMe,
	}
}

// CommentChangeMsg announces a confirmed mutation of the comment tree.
// Removed lists every id dropped by a delete, the target first.
type CommentChangeMsg struct {
	Component ComponentID
	Action    ChangeType
	Comment   CommentRef
	Removed   []string
}

// Describe renders the change in a human-friendly format for logs.
func (m CommentChangeMsg) Describe() string {
	switch m.Action {
	case ChangeDelete:
		return fmt.Sprintf(`action:%q id:%q removed:%d`, m.Action, m.Comment.Label(), len(m.Removed))
	case ChangeLike:
		return fmt.Sprintf(`action:%q id:%q likes:%d liked:%t`, m.Action, m.Comment.Label(), m.Comment.LikeCount, m.Comment.LikedByMe)
	default:
		return fmt.Sprintf(`action:%q id:%q parent:%q`, m.Action, m.Comment.Label(), m.Comment.ParentID)
	}
}

// CommentChangeCmd wraps CommentChangeMsg into a tea.Cmd for callers that
// want to emit the event as part of an Update result.
func CommentChangeCmd(component ComponentID, action ChangeType, ref CommentRef, removed []string) tea.Cmd {
	return func() tea.Msg {
		return CommentChangeMsg{
			Component: component,
			Action:    action,
			Comment:   ref,
			Removed:   append([]string(nil), removed...),
		}
	}
}
