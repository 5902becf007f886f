// Package identity resolves the user acting on a thread.
package identity

import "github.com/rytisguru/nested-comments/pkg/comment"

// Provider returns the current actor.
type Provider interface {
	CurrentUser() comment.Author
}

// Static is a Provider that always returns the same author.
type Static comment.Author

// CurrentUser implements Provider.
func (s Static) CurrentUser() comment.Author {
	return comment.Author(s)
}

// Owns reports whether r was written by the user p resolves to. An anonymous
// user owns nothing.
func Owns(p Provider, r comment.Record) bool {
	if p == nil {
		return false
	}
	me := p.CurrentUser()
	return me.ID != "" && me.ID == r.Author.ID
}
