// Package edit provides the runner logic for changing a comment's message.
package edit

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/rytisguru/nested-comments/pkg/printers"
	"github.com/rytisguru/nested-comments/pkg/thread"
)

// Edit replaces the message of ID.
type Edit struct {
	Thread  *thread.Thread
	ID      string
	Message string
	Out     io.Writer
}

func (n *Edit) Do(ctx context.Context) error {
	if n.Thread == nil {
		return errors.New("can not edit, no thread")
	}
	if err := n.Thread.Load(ctx); err != nil {
		return err
	}

	r, err := n.Thread.Edit(ctx, n.ID, n.Message)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{ShowID: true, Out: n.Out}
	pp.NewLine()
	pp.Comment(r, 0)
	if _, ok := n.Thread.Get(r.ID); !ok {
		out := n.Out
		if out == nil {
			out = color.Output
		}
		_, _ = fmt.Fprintf(out, "comment %s was removed meanwhile\n", r.ID)
		return nil
	}
	pp.Thread(n.Thread.Store().Index(), r.ID, n.Thread.Views())
	return nil
}
