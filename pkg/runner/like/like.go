// Package like provides the runner logic for toggling a like.
package like

import (
	"context"
	"errors"
	"io"

	"github.com/rytisguru/nested-comments/pkg/comment"
	"github.com/rytisguru/nested-comments/pkg/printers"
	"github.com/rytisguru/nested-comments/pkg/thread"
)

// Like flips the current user's like on ID.
type Like struct {
	Thread *thread.Thread
	ID     string
	Out    io.Writer

	// Result is the comment after the toggle.
	Result comment.Record
}

func (n *Like) Do(ctx context.Context) error {
	if n.Thread == nil {
		return errors.New("can not like, no thread")
	}
	if err := n.Thread.Load(ctx); err != nil {
		return err
	}

	r, err := n.Thread.ToggleLike(ctx, n.ID)
	if err != nil {
		return err
	}
	n.Result = r

	pp := printers.PrettyPrint{ShowID: true, Out: n.Out}
	pp.NewLine()
	pp.Comment(r, 0)
	return nil
}
