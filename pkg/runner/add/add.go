// Package add provides the runner logic for posting comments and replies.
package add

import (
	"context"
	"errors"
	"io"

	"github.com/rytisguru/nested-comments/pkg/comment"
	"github.com/rytisguru/nested-comments/pkg/printers"
	"github.com/rytisguru/nested-comments/pkg/thread"
)

// Add posts Message on the thread, as a reply when ParentID is set.
type Add struct {
	Thread   *thread.Thread
	ParentID string
	Message  string
	ShowID   bool
	Out      io.Writer

	// Posted is filled with the confirmed comment.
	Posted comment.Record
}

func (n *Add) Do(ctx context.Context) error {
	if n.Thread == nil {
		return errors.New("can not add, no thread")
	}
	if err := n.Thread.Load(ctx); err != nil {
		return err
	}

	r, err := n.Thread.Reply(ctx, n.ParentID, n.Message)
	if err != nil {
		return err
	}
	n.Posted = r

	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out}
	pp.NewLine()
	pp.TitleWithCount(n.Thread.PostID(), n.Thread.Store().Len())
	pp.Thread(n.Thread.Store().Index(), comment.RootID, n.Thread.Views())
	return nil
}
