package teaui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"github.com/rytisguru/nested-comments/pkg/comment"
	"github.com/rytisguru/nested-comments/pkg/coordinator"
	"github.com/rytisguru/nested-comments/pkg/events"
	"github.com/rytisguru/nested-comments/pkg/printers"
	"github.com/rytisguru/nested-comments/pkg/runner/tea/internal/theme"
	"github.com/rytisguru/nested-comments/pkg/thread"
	"github.com/rytisguru/nested-comments/pkg/transport"
)

// Model states and actions
type mode int

const (
	modeNormal mode = iota
	modeInsert
	modeHelp
)

type action int

const (
	actionNone action = iota
	actionComment
	actionReply
	actionEdit
)

// row is one visible comment in the flattened tree.
type row struct {
	r      comment.Record
	depth  int
	hidden int
}

// Model contains UI state
type Model struct {
	thread *thread.Thread
	ctx    context.Context
	mode   mode
	action action
	target string

	rows   []row
	cursor int

	input textinput.Model
	theme theme.Theme

	status     string
	awaitingDD bool
	lastDTime  time.Time

	termWidth  int
	termHeight int
}

const normalHelp = "j/k move, c comment, r reply, e edit, dd delete, l like, space hide replies, ? help, q quit"

// New creates a new UI model over t.
func New(t *thread.Thread) Model {
	ti := textinput.New()
	ti.Placeholder = "Write a comment"
	ti.CharLimit = 500
	ti.Prompt = ""
	ti.Styles.Cursor.Color = lipgloss.Color("218")
	ti.Styles.Cursor.Shape = tea.CursorUnderline

	m := Model{
		thread: t,
		ctx:    context.Background(),
		mode:   modeNormal,
		input:  ti,
		theme:  theme.Default(),
		status: "NORMAL: " + normalHelp,
	}
	m.rebuild()
	return m
}

// messages
type loadedMsg struct{ err error }

type actionDoneMsg struct {
	kind coordinator.Kind
	id   string
	err  error
}

// Init loads the thread and subscribes to tree changes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.waitForChange())
}

func (m Model) load() tea.Cmd {
	t, ctx := m.thread, m.ctx
	return func() tea.Msg {
		return loadedMsg{err: t.Load(ctx)}
	}
}

// waitForChange blocks on the store event channel and hands the next change
// to Update, which subscribes again.
func (m Model) waitForChange() tea.Cmd {
	if m.thread == nil {
		return nil
	}
	ch := m.thread.Store().Events()
	return func() tea.Msg {
		return <-ch
	}
}

// Update handles messages and keybindings
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
	case loadedMsg:
		if msg.err != nil {
			m.status = "ERR: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("Loaded %d comments", m.thread.Store().Len())
		}
		m.rebuild()
	case events.CommentChangeMsg:
		m.rebuild()
		cmds = append(cmds, m.waitForChange())
	case actionDoneMsg:
		m.status = describeResult(msg)
		m.rebuild()
	case tea.KeyPressMsg:
		switch m.mode {
		case modeHelp:
			if key := msg.String(); key == "q" || key == "esc" || key == "?" {
				m.mode = modeNormal
			}
		case modeInsert:
			switch msg.String() {
			case "enter":
				if cmd := m.submit(); cmd != nil {
					cmds = append(cmds, cmd)
				}
			case "esc":
				m.closeForm()
				m.status = "Cancelled"
			default:
				var cmd tea.Cmd
				m.input, cmd = m.input.Update(msg)
				cmds = append(cmds, cmd)
			}
		case modeNormal:
			if cmd := m.handleNormalKey(msg.String()); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleNormalKey(key string) tea.Cmd {
	t := m.thread
	if key != "d" {
		m.awaitingDD = false
	}
	switch key {
	case "j", "down":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g":
		m.cursor = 0
	case "G":
		m.cursor = max(0, len(m.rows)-1)
	case "c":
		return m.openForm(actionComment, comment.RootID, "")
	case "r":
		if r, ok := m.current(); ok {
			return m.openForm(actionReply, r.ID, "")
		}
	case "e":
		if r, ok := m.current(); ok {
			if !t.CanModify(r.ID) {
				m.status = "Only the author can edit this comment"
				return nil
			}
			return m.openForm(actionEdit, r.ID, r.Message)
		}
	case "d":
		r, ok := m.current()
		if !ok {
			return nil
		}
		if !t.CanModify(r.ID) {
			m.status = "Only the author can delete this comment"
			return nil
		}
		if m.awaitingDD && time.Since(m.lastDTime) < 600*time.Millisecond {
			m.awaitingDD = false
			m.status = "Deleting…"
			return m.run(coordinator.KindDelete, r.ID, func(ctx context.Context) error {
				_, err := t.Delete(ctx, r.ID)
				return err
			})
		}
		m.awaitingDD = true
		m.lastDTime = time.Now()
		m.status = "Press d again to delete"
	case "l":
		if r, ok := m.current(); ok {
			return m.run(coordinator.KindLike, r.ID, func(ctx context.Context) error {
				_, err := t.ToggleLike(ctx, r.ID)
				return err
			})
		}
	case "space", " ", "h":
		if r, ok := m.current(); ok {
			t.Views().ToggleChildrenHidden(r.ID)
			m.rebuild()
		}
	case "R":
		m.status = "Reloading…"
		return m.load()
	case "?":
		m.mode = modeHelp
	case "q", "ctrl+c":
		return tea.Quit
	}
	return nil
}

func (m *Model) openForm(a action, target, value string) tea.Cmd {
	views := m.thread.Views()
	switch a {
	case actionReply:
		views.SetReplying(target, true)
	case actionEdit:
		views.SetEditing(target, true)
	}
	m.mode = modeInsert
	m.action = a
	m.target = target
	m.input.SetValue(value)
	m.input.CursorEnd()
	switch a {
	case actionEdit:
		m.input.Placeholder = "Edit message"
	case actionReply:
		m.input.Placeholder = "Write a reply"
	default:
		m.input.Placeholder = "Write a comment"
	}
	return tea.Batch(m.input.Focus(), textinput.Blink)
}

func (m *Model) closeForm() {
	views := m.thread.Views()
	switch m.action {
	case actionReply:
		views.SetReplying(m.target, false)
	case actionEdit:
		views.SetEditing(m.target, false)
	}
	m.mode = modeNormal
	m.action = actionNone
	m.target = ""
	m.input.Reset()
	m.input.Blur()
}

// submit sends the open form. The form stays in the view-state registry until
// the thread confirms, so a failed reply can be retried.
func (m *Model) submit() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		m.status = "Message is required"
		return nil
	}
	t, a, target := m.thread, m.action, m.target
	m.mode = modeNormal
	m.action = actionNone
	m.target = ""
	m.input.Reset()
	m.input.Blur()

	switch a {
	case actionComment:
		m.status = "Posting…"
		return m.run(coordinator.KindCreate, comment.RootID, func(ctx context.Context) error {
			_, err := t.Comment(ctx, text)
			return err
		})
	case actionReply:
		m.status = "Replying…"
		return m.run(coordinator.KindCreate, target, func(ctx context.Context) error {
			_, err := t.Reply(ctx, target, text)
			return err
		})
	case actionEdit:
		m.status = "Saving…"
		return m.run(coordinator.KindUpdate, target, func(ctx context.Context) error {
			_, err := t.Edit(ctx, target, text)
			return err
		})
	}
	return nil
}

func (m *Model) run(kind coordinator.Kind, id string, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return actionDoneMsg{kind: kind, id: id, err: fn(ctx)}
	}
}

func describeResult(msg actionDoneMsg) string {
	if msg.err != nil {
		switch {
		case errors.Is(msg.err, thread.ErrActionPending):
			return "Still waiting for the previous request"
		case errors.Is(msg.err, thread.ErrForbidden):
			return "Not allowed"
		}
		var remote *transport.RemoteError
		if errors.As(msg.err, &remote) && remote.Message != "" {
			return "ERR: " + remote.Message
		}
		return "ERR: " + msg.err.Error()
	}
	switch msg.kind {
	case coordinator.KindCreate:
		return "Posted"
	case coordinator.KindUpdate:
		return "Saved"
	case coordinator.KindDelete:
		return "Deleted"
	case coordinator.KindLike:
		return "Like updated"
	}
	return ""
}

func (m *Model) current() (comment.Record, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return comment.Record{}, false
	}
	return m.rows[m.cursor].r, true
}

// rebuild flattens the tree into visible rows and keeps the cursor on the same
// comment when it is still visible.
func (m *Model) rebuild() {
	if m.thread == nil {
		return
	}
	selected := ""
	if r, ok := m.current(); ok {
		selected = r.ID
	}

	ix := m.thread.Store().Index()
	views := m.thread.Views()
	rows := make([]row, 0, ix.Len())
	ix.Walk(comment.RootID, func(r comment.Record, depth int) bool {
		rw := row{r: r, depth: depth}
		if views.Get(r.ID).ChildrenHidden {
			rw.hidden = ix.ReplyCount(r.ID)
		}
		rows = append(rows, rw)
		return rw.hidden == 0
	})
	m.rows = rows

	m.cursor = min(m.cursor, max(0, len(rows)-1))
	for i, rw := range rows {
		if rw.r.ID == selected {
			m.cursor = i
			break
		}
	}
}

const pendingGlyph = "…"

// View renders the thread with the cursor, any open form and the status line.
func (m Model) View() string {
	var b strings.Builder
	title := "Comments"
	if m.thread != nil {
		title = fmt.Sprintf("Comments on %s (%d)", m.thread.PostID(), m.thread.Store().Len())
	}
	b.WriteString(m.theme.Title.Render(title))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(m.theme.Thread.Empty.Render("  no comments, press c to write one"))
		b.WriteString("\n")
	}
	for i, rw := range m.rows {
		b.WriteString(m.renderRow(i, rw))
	}

	if m.mode == modeInsert {
		prompt := "Comment: "
		switch m.action {
		case actionReply:
			prompt = "Reply: "
		case actionEdit:
			prompt = "Edit: "
		}
		b.WriteString("\n")
		b.WriteString(m.theme.Form.Frame.Render(prompt + m.input.View()))
		b.WriteString("\n")
	}
	if m.mode == modeHelp {
		help := "Keys: j/k move, g/G top/bottom, c comment on the post, r reply, e edit, dd delete, l like, space or h hide replies, R reload, q quit"
		b.WriteString("\n")
		b.WriteString(m.theme.Footer.Help.Render(help))
		b.WriteString("\n")
	}

	modeStr := map[mode]string{modeNormal: "NORMAL", modeInsert: "INSERT", modeHelp: "HELP"}[m.mode]
	b.WriteString("\n")
	b.WriteString(m.theme.Footer.Status.Render(fmt.Sprintf("[%s] %s", modeStr, m.status)))
	return b.String()
}

func (m Model) renderRow(i int, rw row) string {
	indent := strings.Repeat("  ", rw.depth)
	marker := "  "
	if i == m.cursor {
		marker = m.theme.Thread.Cursor.Render("→ ")
	}

	heart := "♡"
	if rw.r.LikedByMe {
		heart = "♥"
	}
	header := fmt.Sprintf("%s%s%s %s %s",
		marker, indent,
		m.theme.Thread.Author.Render(rw.r.Author.Name),
		m.theme.Thread.Date.Render(printers.FormatDate(rw.r.CreatedAt)),
		m.theme.Thread.Likes.Render(fmt.Sprintf("%s %d", heart, rw.r.LikeCount)),
	)
	for _, kind := range []coordinator.Kind{coordinator.KindCreate, coordinator.KindUpdate, coordinator.KindDelete, coordinator.KindLike} {
		if m.thread.Status(rw.r.ID, kind).Pending {
			header += " " + m.theme.Thread.Pending.Render(pendingGlyph)
			break
		}
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	for _, line := range strings.Split(rw.r.Message, "\n") {
		b.WriteString("  " + indent + "  " + line + "\n")
	}
	for _, kind := range []coordinator.Kind{coordinator.KindCreate, coordinator.KindUpdate, coordinator.KindDelete, coordinator.KindLike} {
		if err := m.thread.Status(rw.r.ID, kind).Err; err != nil {
			b.WriteString("  " + indent + "  " + m.theme.Thread.Error.Render(fmt.Sprintf("%s failed: %s", kind, shortError(err))) + "\n")
		}
	}
	if rw.hidden > 0 {
		label := "replies"
		if rw.hidden == 1 {
			label = "reply"
		}
		b.WriteString("  " + indent + "  " + m.theme.Thread.Hidden.Render(fmt.Sprintf("(%d hidden %s)", rw.hidden, label)) + "\n")
	}
	return b.String()
}

func shortError(err error) string {
	var remote *transport.RemoteError
	if errors.As(err, &remote) && remote.Message != "" {
		return remote.Message
	}
	return err.Error()
}
