package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	path    string
	backend string
}

func (c testConfig) BasePath() string    { return c.path }
func (c testConfig) BackendName() string { return c.backend }

func backends(t *testing.T) map[string]Persistence {
	t.Helper()
	out := map[string]Persistence{"memory": NewMemory()}

	d, err := Load(testConfig{path: t.TempDir(), backend: BackendDiskv})
	if err != nil {
		t.Fatalf("diskv: %v", err)
	}
	out["diskv"] = d

	s, err := NewSQL(filepath.Join(t.TempDir(), "comments.db"))
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	out["sqlite"] = s
	return out
}

var base = time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)

func sample(post, id, parent string, minute int) *Comment {
	return &Comment{
		ID:         id,
		PostID:     post,
		ParentID:   parent,
		Message:    "message " + id,
		AuthorID:   "u1",
		AuthorName: "Kyle",
		CreatedAt:  base.Add(time.Duration(minute) * time.Minute),
		UpdatedAt:  base.Add(time.Duration(minute) * time.Minute),
	}
}

func TestPersistenceContract(t *testing.T) {
	for name, p := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			post := "post/one"

			// Stored out of order on purpose.
			for _, c := range []*Comment{
				sample(post, "c3", "c1", 3),
				sample(post, "c1", "", 1),
				sample(post, "c2", "c1", 2),
				sample("post-two", "x1", "", 1),
			} {
				if err := p.Store(ctx, c); err != nil {
					t.Fatalf("store %s: %v", c.ID, err)
				}
			}

			list, err := p.List(ctx, post)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(list) != 3 || list[0].ID != "c1" || list[1].ID != "c2" || list[2].ID != "c3" {
				t.Fatalf("unexpected order: %v", commentIDs(list))
			}
			if !list[0].CreatedAt.Equal(base.Add(time.Minute)) {
				t.Fatalf("created at lost: %s", list[0].CreatedAt)
			}

			got, err := p.Get(ctx, post, "c2")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			got.Message = "edited"
			got.ToggleLike("u2")
			if err := p.Store(ctx, got); err != nil {
				t.Fatalf("update: %v", err)
			}
			again, err := p.Get(ctx, post, "c2")
			if err != nil {
				t.Fatalf("get after update: %v", err)
			}
			if again.Message != "edited" || !again.Liked("u2") || again.ParentID != "c1" {
				t.Fatalf("update not persisted: %+v", again)
			}

			if _, err := p.Get(ctx, post, "missing"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}

			posts, err := p.Posts(ctx)
			if err != nil {
				t.Fatalf("posts: %v", err)
			}
			if len(posts) != 2 || posts[0] != "post-two" || posts[1] != "post/one" {
				t.Fatalf("unexpected posts %v", posts)
			}

			if err := p.Delete(ctx, post, "c2", "c3", "missing"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			list, _ = p.List(ctx, post)
			if len(list) != 1 || list[0].ID != "c1" {
				t.Fatalf("unexpected after delete: %v", commentIDs(list))
			}
			other, _ := p.List(ctx, "post-two")
			if len(other) != 1 {
				t.Fatalf("delete touched another post: %v", commentIDs(other))
			}
		})
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	if _, err := Load(testConfig{path: t.TempDir(), backend: "postgres"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
	if _, err := Load(nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestDiskvRejectsUnsafeIDs(t *testing.T) {
	p, err := NewDiskv(t.TempDir())
	if err != nil {
		t.Fatalf("diskv: %v", err)
	}
	for _, id := range []string{"", "a.b", "../x"} {
		if err := p.Store(context.Background(), sample("p", id, "", 0)); err == nil {
			t.Fatalf("expected %q to be rejected", id)
		}
	}
}

func TestToggleLike(t *testing.T) {
	c := &Comment{}
	if !c.ToggleLike("u1") || !c.Liked("u1") {
		t.Fatalf("expected like added")
	}
	c.ToggleLike("u2")
	cp := c.Clone()
	if c.ToggleLike("u1") || c.Liked("u1") {
		t.Fatalf("expected like removed")
	}
	if !cp.Liked("u1") || len(cp.LikedBy) != 2 {
		t.Fatalf("clone shares likes: %v", cp.LikedBy)
	}
}

func commentIDs(comments []*Comment) []string {
	out := make([]string, 0, len(comments))
	for _, c := range comments {
		out = append(out, c.ID)
	}
	return out
}
