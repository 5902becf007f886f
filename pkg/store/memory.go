package store

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// NewMemory creates a Persistence that lives only as long as the process.
func NewMemory(comments ...*Comment) Persistence {
	m := &memory{posts: make(map[string]map[string]*Comment)}
	for _, c := range comments {
		_ = m.Store(context.Background(), c)
	}
	return m
}

type memory struct {
	mu    sync.Mutex
	posts map[string]map[string]*Comment
}

func (m *memory) List(_ context.Context, postID string) ([]*Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := m.posts[postID]
	out := make([]*Comment, 0, len(items))
	for _, c := range items {
		out = append(out, c.Clone())
	}
	sortComments(out)
	return out, nil
}

func (m *memory) Get(_ context.Context, postID, id string) (*Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.posts[postID][id]
	if !ok {
		return nil, ErrNotFound
	}
	return c.Clone(), nil
}

func (m *memory) Store(_ context.Context, c *Comment) error {
	if c == nil {
		return errors.New("store: nil comment")
	}
	if c.PostID == "" || c.ID == "" {
		return errors.New("store: post id and comment id required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.posts[c.PostID] == nil {
		m.posts[c.PostID] = make(map[string]*Comment)
	}
	m.posts[c.PostID][c.ID] = c.Clone()
	return nil
}

func (m *memory) Delete(_ context.Context, postID string, ids ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.posts[postID], id)
	}
	if len(m.posts[postID]) == 0 {
		delete(m.posts, postID)
	}
	return nil
}

func (m *memory) Posts(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	posts := make([]string, 0, len(m.posts))
	for post := range m.posts {
		posts = append(posts, post)
	}
	sort.Strings(posts)
	return posts, nil
}
