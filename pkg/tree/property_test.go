package tree

import (
	"reflect"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/rytisguru/nested-comments/pkg/comment"
)

// forest turns a list of parent picks into records that always reference an
// earlier record or the root: pick%(i+1) == i means root.
func forest(picks []int) []comment.Record {
	records := make([]comment.Record, 0, len(picks))
	for i, p := range picks {
		parent := comment.RootID
		if j := p % (i + 1); j != i {
			parent = records[j].ID
		}
		records = append(records, rec("c"+strconv.Itoa(i), parent))
	}
	return records
}

func TestProperty_ChildrenOfMatchesAppendOrder(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("childrenOf returns exactly the records with that parent, in append order", prop.ForAll(
		func(picks []int) bool {
			records := forest(picks)
			s := New()
			for _, r := range records {
				if err := s.Append(r); err != nil {
					return false
				}
			}
			parents := map[string]bool{comment.RootID: true}
			for _, r := range records {
				parents[r.ID] = true
			}
			for parent := range parents {
				var want []string
				for _, r := range records {
					if r.ParentID == parent {
						want = append(want, r.ID)
					}
				}
				got := s.ChildrenOf(parent)
				if len(got) != len(want) {
					return false
				}
				if len(want) > 0 && !reflect.DeepEqual(ids(got), want) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 1000)),
	))

	properties.TestingRun(t)
}

func TestProperty_RemoveSubtreeIsExact(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("removeSubtree drops the node and its descendants and nothing else", prop.ForAll(
		func(picks []int, target int) bool {
			records := forest(picks)
			s := New()
			if err := s.Seed(records); err != nil {
				return false
			}
			id := records[target%len(records)].ID

			descendant := map[string]bool{id: true}
			for _, r := range records {
				if descendant[r.ParentID] {
					descendant[r.ID] = true
				}
			}

			removed, err := s.RemoveSubtree(id)
			if err != nil || len(removed) != len(descendant) {
				return false
			}
			for _, rid := range removed {
				if !descendant[rid] || len(s.ChildrenOf(rid)) != 0 {
					return false
				}
				if _, ok := s.Get(rid); ok {
					return false
				}
			}
			for _, r := range s.Records() {
				if descendant[r.ID] || descendant[r.ParentID] {
					return false
				}
			}
			return s.Len() == len(records)-len(descendant)
		},
		gen.SliceOfN(30, gen.IntRange(0, 1000)).SuchThat(func(v []int) bool { return len(v) > 0 }),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t)
}

func TestProperty_SetLikeIdempotentAndReversible(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("liking twice counts once and unliking restores the count", prop.ForAll(
		func(count int) bool {
			r := rec("1", comment.RootID)
			r.LikeCount = count
			s := New()
			if err := s.Seed([]comment.Record{r}); err != nil {
				return false
			}
			once, _ := s.SetLike("1", true)
			twice, _ := s.SetLike("1", true)
			back, _ := s.SetLike("1", false)
			return once.LikeCount == count+1 && twice.LikeCount == once.LikeCount && back.LikeCount == count
		},
		gen.IntRange(0, 10000),
	))

	properties.TestingRun(t)
}
