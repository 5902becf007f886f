// Package get provides the runner logic for printing a comment thread.
package get

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/fatih/color"

	"github.com/rytisguru/nested-comments/pkg/comment"
	"github.com/rytisguru/nested-comments/pkg/printers"
	"github.com/rytisguru/nested-comments/pkg/thread"
)

// Get prints the thread of a post.
type Get struct {
	Thread *thread.Thread
	ShowID bool
	// Flat prints a table instead of the indented tree.
	Flat bool
	// JSON prints the records, parents before replies.
	JSON bool
	Out  io.Writer
}

// Do loads the thread and prints it.
func (n *Get) Do(ctx context.Context) error {
	if n.Thread == nil {
		return errors.New("can not get, no thread")
	}
	if err := n.Thread.Load(ctx); err != nil {
		return err
	}

	records := n.Thread.Store().Records()
	if n.JSON {
		out := n.Out
		if out == nil {
			out = color.Output
		}
		if records == nil {
			records = []comment.Record{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out}
	pp.NewLine()
	pp.TitleWithCount(n.Thread.PostID(), len(records))
	if n.Flat {
		pp.Table(records)
		return nil
	}
	pp.Thread(n.Thread.Store().Index(), comment.RootID, n.Thread.Views())
	return nil
}
