package tree

import (
	"github.com/rytisguru/nested-comments/pkg/comment"
)

// Index maps a parent id (comment.RootID for top-level comments) to its direct
// children in flat-sequence order. An Index is never mutated after BuildIndex
// returns, so it can be shared freely between readers.
type Index struct {
	children map[string][]comment.Record
	size     int
}

// BuildIndex groups records by ParentID in a single pass, preserving the
// relative order of the input within each group.
func BuildIndex(records []comment.Record) Index {
	children := make(map[string][]comment.Record)
	for _, r := range records {
		children[r.ParentID] = append(children[r.ParentID], r)
	}
	return Index{children: children, size: len(records)}
}

// ChildrenOf returns a copy of the direct children of parentID. The result is
// empty (nil) when parentID has no replies or is unknown.
func (ix Index) ChildrenOf(parentID string) []comment.Record {
	kids := ix.children[parentID]
	if len(kids) == 0 {
		return nil
	}
	return append([]comment.Record(nil), kids...)
}

// Roots returns the top-level comments of the post.
func (ix Index) Roots() []comment.Record {
	return ix.ChildrenOf(comment.RootID)
}

// ReplyCount returns the number of direct children of parentID.
func (ix Index) ReplyCount(parentID string) int {
	return len(ix.children[parentID])
}

// Len returns the number of records the index was built from.
func (ix Index) Len() int {
	return ix.size
}

// Subtree returns id followed by every transitive descendant in breadth-first
// order. It does not check that id itself exists.
func (ix Index) Subtree(id string) []string {
	order := []string{id}
	visited := map[string]bool{id: true}
	for i := 0; i < len(order); i++ {
		for _, child := range ix.children[order[i]] {
			if visited[child.ID] {
				continue
			}
			visited[child.ID] = true
			order = append(order, child.ID)
		}
	}
	return order
}

// Walk visits the subtree below parentID depth first, calling fn with every
// record and its depth (direct children of parentID have depth 0). Returning
// false from fn skips that record's replies.
func (ix Index) Walk(parentID string, fn func(r comment.Record, depth int) bool) {
	var walk func(string, int)
	walk = func(id string, depth int) {
		for _, child := range ix.children[id] {
			if fn(child, depth) {
				walk(child.ID, depth+1)
			}
		}
	}
	walk(parentID, 0)
}
