// Package remove provides the runner logic for deleting a comment and its
// replies.
package remove

import (
	"context"
	"errors"
	"io"

	"github.com/fatih/color"

	"github.com/rytisguru/nested-comments/pkg/comment"
	"github.com/rytisguru/nested-comments/pkg/printers"
	"github.com/rytisguru/nested-comments/pkg/thread"
)

// Remove deletes ID.
type Remove struct {
	Thread *thread.Thread
	ID     string
	Out    io.Writer

	// Removed is filled with every id that left the thread.
	Removed []string
}

func (n *Remove) Do(ctx context.Context) error {
	if n.Thread == nil {
		return errors.New("can not remove, no thread")
	}
	if err := n.Thread.Load(ctx); err != nil {
		return err
	}

	removed, err := n.Thread.Delete(ctx, n.ID)
	if err != nil {
		return err
	}
	n.Removed = removed

	out := n.Out
	if out == nil {
		out = color.Output
	}
	noun := "comments"
	if len(removed) == 1 {
		noun = "comment"
	}
	_, _ = color.New(color.Faint).Fprintf(out, "\nremoved %d %s\n", len(removed), noun)

	pp := printers.PrettyPrint{ShowID: true, Out: n.Out}
	pp.NewLine()
	pp.TitleWithCount(n.Thread.PostID(), n.Thread.Store().Len())
	pp.Thread(n.Thread.Store().Index(), comment.RootID, n.Thread.Views())
	return nil
}
