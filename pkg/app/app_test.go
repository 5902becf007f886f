package app

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rytisguru/nested-comments/pkg/comment"
	"github.com/rytisguru/nested-comments/pkg/identity"
	"github.com/rytisguru/nested-comments/pkg/store"
	"github.com/rytisguru/nested-comments/pkg/thread"
	"github.com/rytisguru/nested-comments/pkg/transport"
	"github.com/rytisguru/nested-comments/pkg/tree"
)

type switchableUser struct {
	author comment.Author
}

func (u *switchableUser) CurrentUser() comment.Author { return u.author }

func newService(t *testing.T, seed ...*store.Comment) (*Service, *switchableUser) {
	t.Helper()
	user := &switchableUser{author: comment.Author{ID: "u1", Name: "Kyle"}}
	counter := 0
	clock := time.Date(2024, time.May, 1, 8, 0, 0, 0, time.UTC)
	return &Service{
		Persistence: store.NewMemory(seed...),
		Identity:    user,
		Now: func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		},
		NewID: func() string {
			counter++
			return fmt.Sprintf("id-%d", counter)
		},
	}, user
}

func TestCreateReplyAndList(t *testing.T) {
	svc, user := newService(t)
	ctx := context.Background()

	root, err := svc.CreateComment(ctx, transport.CreateRequest{PostID: "p1", Message: "  first  "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if root.ID != "id-1" || root.Message != "first" || root.Author.Name != "Kyle" || !root.IsRoot() {
		t.Fatalf("unexpected root %+v", root)
	}

	user.author = comment.Author{ID: "u2", Name: "Sally"}
	reply, err := svc.CreateComment(ctx, transport.CreateRequest{PostID: "p1", ParentID: root.ID, Message: "second"})
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if reply.ParentID != root.ID {
		t.Fatalf("reply parent = %q", reply.ParentID)
	}

	list, err := svc.ListComments(ctx, "p1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != root.ID || list[1].ID != reply.ID {
		t.Fatalf("unexpected list %v", list)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, user := newService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  transport.CreateRequest
		kind transport.ErrorKind
	}{
		{name: "empty", req: transport.CreateRequest{PostID: "p1", Message: "   "}, kind: transport.KindInvalid},
		{name: "too long", req: transport.CreateRequest{PostID: "p1", Message: strings.Repeat("é", DefaultMaxMessageLength+1)}, kind: transport.KindInvalid},
		{name: "missing post", req: transport.CreateRequest{Message: "hi"}, kind: transport.KindInvalid},
		{name: "missing parent", req: transport.CreateRequest{PostID: "p1", ParentID: "ghost", Message: "hi"}, kind: transport.KindNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateComment(ctx, tc.req)
			if got := transport.KindOf(err); got != tc.kind {
				t.Fatalf("expected %s, got %v", tc.kind, err)
			}
		})
	}

	if _, err := svc.CreateComment(ctx, transport.CreateRequest{PostID: "p1", Message: strings.Repeat("é", DefaultMaxMessageLength)}); err != nil {
		t.Fatalf("message at the limit rejected: %v", err)
	}

	user.author = comment.Author{}
	_, err := svc.CreateComment(ctx, transport.CreateRequest{PostID: "p1", Message: "hi"})
	if transport.KindOf(err) != transport.KindUnauthorized {
		t.Fatalf("expected anonymous create to fail, got %v", err)
	}
}

func TestUpdateAndDeleteRequireAuthor(t *testing.T) {
	svc, user := newService(t)
	ctx := context.Background()
	root, _ := svc.CreateComment(ctx, transport.CreateRequest{PostID: "p1", Message: "mine"})

	user.author = comment.Author{ID: "u2", Name: "Sally"}
	if _, err := svc.UpdateComment(ctx, transport.UpdateRequest{PostID: "p1", ID: root.ID, Message: "hijack"}); transport.KindOf(err) != transport.KindUnauthorized {
		t.Fatalf("expected unauthorized update, got %v", err)
	}
	if _, err := svc.DeleteComment(ctx, transport.DeleteRequest{PostID: "p1", ID: root.ID}); transport.KindOf(err) != transport.KindUnauthorized {
		t.Fatalf("expected unauthorized delete, got %v", err)
	}

	user.author = comment.Author{ID: "u1", Name: "Kyle"}
	updated, err := svc.UpdateComment(ctx, transport.UpdateRequest{PostID: "p1", ID: root.ID, Message: "edited"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Message != "edited" || !updated.CreatedAt.Equal(root.CreatedAt) {
		t.Fatalf("unexpected update %+v", updated)
	}
	if _, err := svc.UpdateComment(ctx, transport.UpdateRequest{PostID: "p1", ID: "ghost", Message: "x"}); transport.KindOf(err) != transport.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteCascades(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	a, _ := svc.CreateComment(ctx, transport.CreateRequest{PostID: "p1", Message: "a"})
	b, _ := svc.CreateComment(ctx, transport.CreateRequest{PostID: "p1", ParentID: a.ID, Message: "b"})
	_, _ = svc.CreateComment(ctx, transport.CreateRequest{PostID: "p1", ParentID: b.ID, Message: "c"})
	d, _ := svc.CreateComment(ctx, transport.CreateRequest{PostID: "p1", Message: "d"})

	res, err := svc.DeleteComment(ctx, transport.DeleteRequest{PostID: "p1", ID: a.ID})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if res.ID != a.ID {
		t.Fatalf("delete confirmed %q", res.ID)
	}
	list, _ := svc.ListComments(ctx, "p1")
	if len(list) != 1 || list[0].ID != d.ID {
		t.Fatalf("unexpected remaining %v", list)
	}
}

func TestDeleteReparents(t *testing.T) {
	svc, _ := newService(t)
	svc.DeletePolicy = tree.Reparent
	ctx := context.Background()
	a, _ := svc.CreateComment(ctx, transport.CreateRequest{PostID: "p1", Message: "a"})
	b, _ := svc.CreateComment(ctx, transport.CreateRequest{PostID: "p1", ParentID: a.ID, Message: "b"})
	c, _ := svc.CreateComment(ctx, transport.CreateRequest{PostID: "p1", ParentID: b.ID, Message: "c"})

	if _, err := svc.DeleteComment(ctx, transport.DeleteRequest{PostID: "p1", ID: b.ID}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, _ := svc.ListComments(ctx, "p1")
	if len(list) != 2 || list[0].ID != a.ID || list[1].ID != c.ID {
		t.Fatalf("unexpected remaining %v", list)
	}
	if list[1].ParentID != a.ID {
		t.Fatalf("reply should move under %s, got parent %q", a.ID, list[1].ParentID)
	}
}

func TestToggleLikeTracksUsers(t *testing.T) {
	svc, user := newService(t)
	ctx := context.Background()
	root, _ := svc.CreateComment(ctx, transport.CreateRequest{PostID: "p1", Message: "like me"})

	res, err := svc.ToggleCommentLike(ctx, transport.LikeRequest{PostID: "p1", ID: root.ID})
	if err != nil || !res.AddLike || res.ID != root.ID {
		t.Fatalf("expected like added, got %+v %v", res, err)
	}
	user.author = comment.Author{ID: "u2", Name: "Sally"}
	if res, _ := svc.ToggleCommentLike(ctx, transport.LikeRequest{PostID: "p1", ID: root.ID}); !res.AddLike {
		t.Fatalf("second user like should be added")
	}

	list, _ := svc.ListComments(ctx, "p1")
	if list[0].LikeCount != 2 || !list[0].LikedByMe {
		t.Fatalf("unexpected like state %+v", list[0])
	}

	if res, _ := svc.ToggleCommentLike(ctx, transport.LikeRequest{PostID: "p1", ID: root.ID}); res.AddLike {
		t.Fatalf("toggle should remove the like")
	}
	list, _ = svc.ListComments(ctx, "p1")
	if list[0].LikeCount != 1 || list[0].LikedByMe {
		t.Fatalf("unexpected like state after unlike %+v", list[0])
	}
}

func TestListOrdersParentsFirst(t *testing.T) {
	at := time.Date(2024, time.May, 1, 8, 0, 0, 0, time.UTC)
	svc, _ := newService(t,
		&store.Comment{ID: "b", PostID: "p1", ParentID: "a", Message: "b", AuthorID: "u1", CreatedAt: at},
		&store.Comment{ID: "a", PostID: "p1", Message: "a", AuthorID: "u1", CreatedAt: at.Add(time.Minute)},
		&store.Comment{ID: "orphan", PostID: "p1", ParentID: "gone", Message: "o", AuthorID: "u1", CreatedAt: at},
	)

	list, err := svc.ListComments(context.Background(), "p1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "a" || list[1].ID != "b" {
		t.Fatalf("unexpected order %v", list)
	}
}

func TestThreadOverService(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	th := thread.New("p1", svc, identity.Static{ID: "u1", Name: "Kyle"})
	if err := th.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	a, err := th.Comment(ctx, "A")
	if err != nil {
		t.Fatalf("comment: %v", err)
	}
	b, err := th.Reply(ctx, a.ID, "B")
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if kids := th.ChildrenOf(a.ID); len(kids) != 1 || kids[0].ID != b.ID {
		t.Fatalf("children of A = %v", kids)
	}
	if _, err := th.ToggleLike(ctx, b.ID); err != nil {
		t.Fatalf("like: %v", err)
	}
	if got, _ := th.Get(b.ID); got.LikeCount != 1 || !got.LikedByMe {
		t.Fatalf("like not applied %+v", got)
	}

	removed, err := th.Delete(ctx, a.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(removed) != 2 || len(th.Roots()) != 0 {
		t.Fatalf("unexpected tree after delete: removed %v roots %v", removed, th.Roots())
	}

	fresh := thread.New("p1", svc, identity.Static{ID: "u1", Name: "Kyle"})
	if err := fresh.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if fresh.Store().Len() != 0 {
		t.Fatalf("backend kept deleted comments: %v", fresh.Store().Records())
	}
}

func TestThreadOverServiceReparentMatchesBackend(t *testing.T) {
	svc, _ := newService(t)
	svc.DeletePolicy = tree.Reparent
	ctx := context.Background()
	me := identity.Static{ID: "u1", Name: "Kyle"}
	th := thread.New("p1", svc, me, thread.WithStore(tree.New(tree.WithDeletePolicy(tree.Reparent))))
	if err := th.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	a, err := th.Comment(ctx, "A")
	if err != nil {
		t.Fatalf("comment: %v", err)
	}
	b, err := th.Reply(ctx, a.ID, "B")
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	removed, err := th.Delete(ctx, a.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(removed) != 1 || removed[0] != a.ID {
		t.Fatalf("removed = %v", removed)
	}
	if roots := th.Roots(); len(roots) != 1 || roots[0].ID != b.ID {
		t.Fatalf("B should be a root now, roots = %v", roots)
	}

	if _, err := th.Edit(ctx, b.ID, "B edited"); err != nil {
		t.Fatalf("edit of re-parented reply: %v", err)
	}

	fresh := thread.New("p1", svc, me)
	if err := fresh.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	local, remote := th.Store().Records(), fresh.Store().Records()
	if len(local) != len(remote) {
		t.Fatalf("local %v, backend %v", local, remote)
	}
	for i := range local {
		if local[i].ID != remote[i].ID || local[i].ParentID != remote[i].ParentID || local[i].Message != remote[i].Message {
			t.Fatalf("record %d differs: local %+v, backend %+v", i, local[i], remote[i])
		}
	}
}
