package app

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rytisguru/nested-comments/pkg/comment"
	"github.com/rytisguru/nested-comments/pkg/store"
	"github.com/rytisguru/nested-comments/pkg/transport"
)

// PostSummary describes the activity on one post.
type PostSummary struct {
	PostID       string
	Comments     int
	TopLevel     int
	Likes        int
	Authors      []string
	LastActivity time.Time
}

// ReportResult collects the summaries of every post with comments.
type ReportResult struct {
	Posts    []PostSummary
	Comments int
}

const reportConcurrency = 4

// Report summarizes every post in the backend with activity at or after
// since. A zero since includes every post. Posts are read concurrently.
func (s *Service) Report(ctx context.Context, since time.Time) (ReportResult, error) {
	if s.Persistence == nil {
		return ReportResult{}, errNoPersistence
	}
	posts, err := s.Persistence.Posts(ctx)
	if err != nil {
		return ReportResult{}, transport.AsRemote("report", err)
	}

	summaries := make([]PostSummary, len(posts))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(reportConcurrency)
	for i, post := range posts {
		g.Go(func() error {
			all, err := s.Persistence.List(gCtx, post)
			if err != nil {
				return err
			}
			summaries[i] = summarize(post, all)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ReportResult{}, transport.AsRemote("report", err)
	}

	if !since.IsZero() {
		kept := summaries[:0]
		for _, sum := range summaries {
			if !sum.LastActivity.Before(since) {
				kept = append(kept, sum)
			}
		}
		summaries = kept
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].LastActivity.After(summaries[j].LastActivity)
	})
	total := 0
	for _, sum := range summaries {
		total += sum.Comments
	}
	return ReportResult{Posts: summaries, Comments: total}, nil
}

func summarize(post string, all []*store.Comment) PostSummary {
	sum := PostSummary{PostID: post, Comments: len(all)}
	authors := make(map[string]bool)
	for _, c := range all {
		if c.ParentID == comment.RootID {
			sum.TopLevel++
		}
		sum.Likes += len(c.LikedBy)
		if c.AuthorName != "" && !authors[c.AuthorName] {
			authors[c.AuthorName] = true
			sum.Authors = append(sum.Authors, c.AuthorName)
		}
		touched := c.UpdatedAt
		if c.CreatedAt.After(touched) {
			touched = c.CreatedAt
		}
		if touched.After(sum.LastActivity) {
			sum.LastActivity = touched
		}
	}
	sort.Strings(sum.Authors)
	return sum
}
