package teaui

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/muesli/reflow/ansi"

	"github.com/rytisguru/nested-comments/pkg/app"
	"github.com/rytisguru/nested-comments/pkg/comment"
	"github.com/rytisguru/nested-comments/pkg/coordinator"
	"github.com/rytisguru/nested-comments/pkg/identity"
	"github.com/rytisguru/nested-comments/pkg/store"
	"github.com/rytisguru/nested-comments/pkg/thread"
)

var (
	kyle  = comment.Author{ID: "u1", Name: "Kyle"}
	sally = comment.Author{ID: "u2", Name: "Sally"}
)

func stored(id, parent string, author comment.Author, minute int) *store.Comment {
	at := time.Date(2024, time.May, 1, 8, minute, 0, 0, time.UTC)
	return &store.Comment{
		ID:         id,
		PostID:     "post",
		ParentID:   parent,
		Message:    "message " + id,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		CreatedAt:  at,
		UpdatedAt:  at,
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	counter := 0
	backend := &app.Service{
		Persistence: store.NewMemory(
			stored("a", "", kyle, 1),
			stored("b", "a", sally, 2),
			stored("c", "b", kyle, 3),
			stored("d", "", sally, 4),
		),
		Identity:         identity.Static(kyle),
		MaxMessageLength: 20,
		NewID: func() string {
			counter++
			return fmt.Sprintf("new-%d", counter)
		},
	}
	th := thread.New("post", backend, backend.Identity)
	if err := th.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return New(th)
}

func press(t *testing.T, m Model, key string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyPressMsg
	switch key {
	case "enter":
		msg = tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		msg = tea.KeyPressMsg{Code: tea.KeyEscape}
	default:
		r := []rune(key)[0]
		msg = tea.KeyPressMsg{Code: r, Text: key}
	}
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// settle runs an action command and feeds its result back into the model.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected a command")
	}
	msg := cmd()
	done, ok := msg.(actionDoneMsg)
	if !ok {
		t.Fatalf("expected actionDoneMsg, got %T", msg)
	}
	next, _ := m.Update(done)
	return next.(Model)
}

func rowIDs(m Model) []string {
	out := make([]string, 0, len(m.rows))
	for _, rw := range m.rows {
		out = append(out, rw.r.ID)
	}
	return out
}

func stripANSI(s string) string {
	var b strings.Builder
	ansiSeq := false
	for _, r := range s {
		if r == ansi.Marker {
			ansiSeq = true
			continue
		}
		if ansiSeq {
			if ansi.IsTerminator(r) {
				ansiSeq = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func TestRowsFollowTreeOrder(t *testing.T) {
	m := newTestModel(t)
	if got := strings.Join(rowIDs(m), ","); got != "a,b,c,d" {
		t.Fatalf("rows = %s", got)
	}
	if m.rows[2].depth != 2 {
		t.Fatalf("expected c at depth 2, got %d", m.rows[2].depth)
	}
}

func TestNavigationClampsCursor(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, "k")
	if m.cursor != 0 {
		t.Fatalf("cursor moved above first row")
	}
	for i := 0; i < 10; i++ {
		m, _ = press(t, m, "j")
	}
	if m.cursor != 3 {
		t.Fatalf("cursor = %d, want 3", m.cursor)
	}
	m, _ = press(t, m, "g")
	if m.cursor != 0 {
		t.Fatalf("g should jump to top")
	}
}

func TestHideRepliesCollapsesSubtree(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, "h")
	if got := strings.Join(rowIDs(m), ","); got != "a,d" {
		t.Fatalf("rows = %s", got)
	}
	view := stripANSI(m.View())
	if !strings.Contains(view, "(1 hidden reply)") {
		t.Fatalf("expected hidden count in view:\n%s", view)
	}
	m, _ = press(t, m, "h")
	if len(m.rows) != 4 {
		t.Fatalf("replies not restored: %v", rowIDs(m))
	}
}

func TestReplyAppendsUnderSelection(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, "j")
	m, _ = press(t, m, "r")
	if m.mode != modeInsert || m.action != actionReply || m.target != "b" {
		t.Fatalf("reply form not opened: mode=%d action=%d target=%q", m.mode, m.action, m.target)
	}
	if !m.thread.Views().Get("b").Replying {
		t.Fatalf("view-state should mark b as replying")
	}

	m.input.SetValue("a reply")
	m, cmd := press(t, m, "enter")
	m = settle(t, m, cmd)

	if m.status != "Posted" {
		t.Fatalf("status = %q", m.status)
	}
	if got := strings.Join(rowIDs(m), ","); got != "a,b,c,new-1,d" {
		t.Fatalf("rows = %s", got)
	}
	if m.thread.Views().Get("b").Replying {
		t.Fatalf("reply form should close after confirmation")
	}
	if m.cursor != 1 {
		t.Fatalf("cursor should stay on b, got %d", m.cursor)
	}
}

func TestCommentAddsTopLevel(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, "c")
	m.input.SetValue("top level")
	m, cmd := press(t, m, "enter")
	m = settle(t, m, cmd)
	if got := strings.Join(rowIDs(m), ","); got != "a,b,c,d,new-1" {
		t.Fatalf("rows = %s", got)
	}
}

func TestEmptyMessageKeepsFormOpen(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, "c")
	m, cmd := press(t, m, "enter")
	if cmd != nil {
		t.Fatalf("empty message should not be sent")
	}
	if m.mode != modeInsert {
		t.Fatalf("form should stay open")
	}
	m, _ = press(t, m, "esc")
	if m.mode != modeNormal || m.status != "Cancelled" {
		t.Fatalf("esc should cancel, mode=%d status=%q", m.mode, m.status)
	}
}

func TestEditRequiresAuthor(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, "j")
	m, _ = press(t, m, "e")
	if m.mode != modeNormal || !strings.Contains(m.status, "Only the author") {
		t.Fatalf("editing someone else's comment should be refused, status=%q", m.status)
	}

	m, _ = press(t, m, "k")
	m, _ = press(t, m, "e")
	if m.mode != modeInsert || m.input.Value() != "message a" {
		t.Fatalf("edit form should be prefilled, value=%q", m.input.Value())
	}
	m.input.SetValue("edited")
	m, cmd := press(t, m, "enter")
	m = settle(t, m, cmd)
	if r, _ := m.thread.Get("a"); r.Message != "edited" {
		t.Fatalf("message = %q", r.Message)
	}
}

func TestDoubleDDeletesSubtree(t *testing.T) {
	m := newTestModel(t)
	m, cmd := press(t, m, "d")
	if cmd != nil || !m.awaitingDD {
		t.Fatalf("first d should only arm delete")
	}
	m, cmd = press(t, m, "d")
	m = settle(t, m, cmd)
	if got := strings.Join(rowIDs(m), ","); got != "d" {
		t.Fatalf("rows = %s", got)
	}
	if m.cursor != 0 {
		t.Fatalf("cursor = %d", m.cursor)
	}
}

func TestLikeTogglesCount(t *testing.T) {
	m := newTestModel(t)
	m, cmd := press(t, m, "l")
	m = settle(t, m, cmd)
	r, _ := m.thread.Get("a")
	if r.LikeCount != 1 || !r.LikedByMe {
		t.Fatalf("after like: %+v", r)
	}
	if !strings.Contains(stripANSI(m.View()), "♥ 1") {
		t.Fatalf("view should show the like")
	}

	m, cmd = press(t, m, "l")
	m = settle(t, m, cmd)
	r, _ = m.thread.Get("a")
	if r.LikeCount != 0 || r.LikedByMe {
		t.Fatalf("after unlike: %+v", r)
	}
}

func TestFailedActionShowsError(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, "c")
	m.input.SetValue(strings.Repeat("x", 30))
	m, cmd := press(t, m, "enter")
	m = settle(t, m, cmd)
	if !strings.HasPrefix(m.status, "ERR: message is too long") {
		t.Fatalf("status = %q", m.status)
	}
	if len(m.rows) != 4 {
		t.Fatalf("failed create should not change the tree")
	}
	if m.thread.Status(comment.RootID, coordinator.KindCreate).Err == nil {
		t.Fatalf("status should keep the error")
	}
}

func TestViewListsThread(t *testing.T) {
	m := newTestModel(t)
	view := stripANSI(m.View())
	for _, want := range []string{"Comments on post (4)", "→ Kyle", "message c", "[NORMAL]"} {
		if !strings.Contains(view, want) {
			t.Fatalf("missing %q in view:\n%s", want, view)
		}
	}
}
