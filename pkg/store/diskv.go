package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// Persistence defines the persistence contract for comments.
type Persistence interface {
	// List returns the comments of postID ordered by creation time.
	List(ctx context.Context, postID string) ([]*Comment, error)
	Get(ctx context.Context, postID, id string) (*Comment, error)
	// Store inserts or replaces c.
	Store(ctx context.Context, c *Comment) error
	// Delete removes ids from postID. Missing ids are ignored.
	Delete(ctx context.Context, postID string, ids ...string) error
	// Posts returns the ids of every post with at least one comment.
	Posts(ctx context.Context) ([]string, error)
}

// NewDiskv creates a Persistence storing one JSON file per comment under
// basePath/<post>/<id>.
func NewDiskv(basePath string) (Persistence, error) {
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

func (p *persistence) read(key string) (*Comment, error) {
	val, err := p.d.Read(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	c := &Comment{}
	if err := json.Unmarshal(val, c); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", key, err)
	}
	pk := keyToPathTransform(key)
	c.ID = pk.FileName
	return c, nil
}

func (p *persistence) List(ctx context.Context, postID string) ([]*Comment, error) {
	all := make([]*Comment, 0)
	for key := range p.d.KeysPrefix(toPost(postID)+keySeparator, ctx.Done()) {
		c, err := p.read(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}
		all = append(all, c)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sortComments(all)
	return all, nil
}

func (p *persistence) Get(_ context.Context, postID, id string) (*Comment, error) {
	if err := validKeyPart(id); err != nil {
		return nil, ErrNotFound
	}
	return p.read(toKey(postID, id))
}

func (p *persistence) Store(_ context.Context, c *Comment) error {
	if c == nil {
		return errors.New("store: nil comment")
	}
	if c.PostID == "" {
		return errors.New("store: post id required")
	}
	if err := validKeyPart(c.ID); err != nil {
		return err
	}
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return p.d.Write(toKey(c.PostID, c.ID), data)
}

func (p *persistence) Delete(_ context.Context, postID string, ids ...string) error {
	for _, id := range ids {
		if validKeyPart(id) != nil {
			continue
		}
		if err := p.d.Erase(toKey(postID, id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("store: delete %s: %w", id, err)
		}
	}
	return nil
}

func (p *persistence) Posts(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	for key := range p.d.Keys(ctx.Done()) {
		pk := keyToPathTransform(key)
		if len(pk.Path) == 0 {
			continue
		}
		post, err := fromPost(pk.Path[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}
		seen[post] = true
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	posts := make([]string, 0, len(seen))
	for post := range seen {
		posts = append(posts, post)
	}
	sort.Strings(posts)
	return posts, nil
}

const keySeparator = "."

func validKeyPart(id string) error {
	if id == "" || strings.ContainsAny(id, keySeparator+"/\\") {
		return fmt.Errorf("store: invalid comment id %q", id)
	}
	return nil
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, keySeparator)
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return strings.Join(append(append([]string(nil), pathKey.Path...), pathKey.FileName), keySeparator)
}

// toKey makes `post.id`.
func toKey(postID, id string) string {
	return toPost(postID) + keySeparator + id
}

// Post ids are free text, so they are stored in a filename-safe encoding.
func toPost(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func fromPost(s string) (string, error) {
	post, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("store: decode post: %w", err)
	}
	return string(post), nil
}
