package printers

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/wordwrap"

	"github.com/rytisguru/nested-comments/pkg/comment"
	"github.com/rytisguru/nested-comments/pkg/tree"
	"github.com/rytisguru/nested-comments/pkg/viewstate"
)

// DateLayout renders timestamps as a medium date with a short time.
const DateLayout = "Jan 2, 2006, 3:04 PM"

// FormatDate formats t in the local zone using DateLayout.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(DateLayout)
}

// PrettyPrint renders threads for humans.
type PrettyPrint struct {
	ShowID bool
	// Width wraps messages; 0 means 80 columns.
	Width int
	// Out defaults to color.Output.
	Out io.Writer
}

var (
	spacing = strings.Repeat(" ", len("00000000-0000-0000-0000-000000000000  "))
)

const indentStep = "  "

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) width() int {
	if pp.Width > 0 {
		return pp.Width
	}
	return 80
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " comment")
	default:
		_, _ = c.Fprintln(pp.out(), " comments")
	}
}

// Thread prints the replies below parentID as an indented tree. Nodes whose
// replies are hidden in views print a count instead of their subtree.
func (pp *PrettyPrint) Thread(ix tree.Index, parentID string, views *viewstate.Registry) {
	if ix.ReplyCount(parentID) == 0 {
		f := color.New(color.Faint, color.Italic)
		if pp.ShowID {
			_, _ = f.Fprint(pp.out(), spacing)
		}
		_, _ = f.Fprint(pp.out(), " no comments\n\n")
		return
	}

	ix.Walk(parentID, func(r comment.Record, depth int) bool {
		pp.Comment(r, depth)
		hidden := views != nil && views.Get(r.ID).ChildrenHidden
		if n := ix.ReplyCount(r.ID); hidden && n > 0 {
			pp.hiddenReplies(n, depth+1)
			return false
		}
		return true
	})
	pp.NewLine()
}

// Comment prints a single record at depth.
func (pp *PrettyPrint) Comment(r comment.Record, depth int) {
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	name := color.New(color.Bold)
	faint := color.New(color.Faint)
	likes := color.New(color.FgRed)
	w := pp.out()

	indent := strings.Repeat(indentStep, depth)
	idCol := func(id string) {
		if !pp.ShowID {
			return
		}
		if id == "" {
			_, _ = y.Fprint(w, spacing)
			return
		}
		_, _ = y.Fprint(w, id)
		_, _ = y.Fprint(w, strings.Repeat(" ", max(1, len(spacing)-len(id))))
	}

	idCol(r.ID)
	_, _ = fmt.Fprint(w, indent)
	_, _ = name.Fprint(w, r.Author.Name)
	_, _ = faint.Fprintf(w, " %s", FormatDate(r.CreatedAt))
	heart := "♡"
	if r.LikedByMe {
		heart = "♥"
	}
	_, _ = likes.Fprintf(w, " %s %d\n", heart, r.LikeCount)

	available := pp.width() - len(indent) - 2
	if available < 10 {
		available = 10
	}
	for _, raw := range strings.Split(r.Message, "\n") {
		for _, line := range strings.Split(wordwrap.String(raw, available), "\n") {
			idCol("")
			_, _ = fmt.Fprintf(w, "%s  %s\n", indent, line)
		}
	}
}

func (pp *PrettyPrint) hiddenReplies(n int, depth int) {
	f := color.New(color.Faint, color.Italic)
	if pp.ShowID {
		_, _ = f.Fprint(pp.out(), spacing)
	}
	label := "replies"
	if n == 1 {
		label = "reply"
	}
	_, _ = f.Fprintf(pp.out(), "%s(%d hidden %s)\n", strings.Repeat(indentStep, depth), n, label)
}

// Table prints records as a flat table.
func (pp *PrettyPrint) Table(records []comment.Record) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = uint(pp.width() / 2)
	tbl.Wrap = true
	bold := color.New(color.Bold).SprintFunc()
	tbl.AddRow(bold("ID"), bold("Parent"), bold("Author"), bold("Created"), bold("Likes"), bold("Message"))
	for _, r := range records {
		parent := r.ParentID
		if r.IsRoot() {
			parent = "-"
		}
		tbl.AddRow(r.ID, parent, r.Author.Name, FormatDate(r.CreatedAt), r.LikeCount, r.Message)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}
