package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rytisguru/nested-comments/pkg/app"
	"github.com/rytisguru/nested-comments/pkg/comment"
	"github.com/rytisguru/nested-comments/pkg/identity"
	"github.com/rytisguru/nested-comments/pkg/metrics"
	"github.com/rytisguru/nested-comments/pkg/store"
	"github.com/rytisguru/nested-comments/pkg/thread"
	"github.com/rytisguru/nested-comments/pkg/transport"
)

func newTestService(t *testing.T, user comment.Author) (*Service, *prometheus.Registry) {
	t.Helper()
	counter := 0
	clock := time.Date(2024, time.May, 1, 8, 0, 0, 0, time.UTC)
	backend := &app.Service{
		Persistence: store.NewMemory(),
		Identity:    identity.Static(user),
		Now: func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		},
		NewID: func() string {
			counter++
			return fmt.Sprintf("c%d", counter)
		},
	}
	reg := prometheus.NewRegistry()
	svc := NewService(backend)
	svc.Metrics = metrics.NewWithRegistry(reg)
	return svc, reg
}

func TestServiceThreadRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, comment.Author{ID: "u1", Name: "Kyle"})

	root, err := svc.CreateComment(ctx, "post", "", "hello")
	require.NoError(t, err)
	assert.Equal(t, "c1", root.ID)
	assert.Equal(t, "2024-05-01T08:01:00Z", root.CreatedISO)

	reply, err := svc.CreateComment(ctx, "post", root.ID, "hi back")
	require.NoError(t, err)
	assert.Equal(t, root.ID, reply.ParentID)

	comments, count, err := svc.ListComments(ctx, "post")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, comments, 1)
	require.Len(t, comments[0].Replies, 1)
	assert.Equal(t, "hi back", comments[0].Replies[0].Message)

	liked, err := svc.ToggleLike(ctx, "post", reply.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.LikeCount)
	assert.True(t, liked.LikedByMe)

	edited, err := svc.EditComment(ctx, "post", root.ID, "hello again")
	require.NoError(t, err)
	assert.Equal(t, "hello again", edited.Message)
	require.Len(t, edited.Replies, 1)

	removed, err := svc.DeleteComment(ctx, "post", root.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"c1", "c2"}, removed)

	comments, count, err = svc.ListComments(ctx, "post")
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, comments)
}

func TestServiceGetCommentAndPosts(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, comment.Author{ID: "u1", Name: "Kyle"})

	_, err := svc.CreateComment(ctx, "a", "", "first")
	require.NoError(t, err)
	second, err := svc.CreateComment(ctx, "b", "", "second")
	require.NoError(t, err)

	got, err := svc.GetComment(ctx, "b", second.ID)
	require.NoError(t, err)
	assert.Equal(t, "second", got.Message)

	_, err = svc.GetComment(ctx, "b", "missing")
	assert.Error(t, err)

	posts, total, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, posts, 2)
	assert.Equal(t, "b", posts[0].PostID)
	assert.Equal(t, []string{"Kyle"}, posts[0].Authors)
}

func TestServiceRejectsOtherAuthors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, comment.Author{ID: "u1", Name: "Kyle"})
	root, err := svc.CreateComment(ctx, "post", "", "mine")
	require.NoError(t, err)

	svc.Backend.Identity = identity.Static(comment.Author{ID: "u2", Name: "Sally"})
	_, err = svc.EditComment(ctx, "post", root.ID, "theirs")
	assert.True(t, errors.Is(err, thread.ErrForbidden), "got %v", err)

	_, err = svc.CreateComment(ctx, "post", root.ID, "")
	assert.Equal(t, transport.KindInvalid, transport.KindOf(err))
}

func TestServiceRequiresPostAndBackend(t *testing.T) {
	ctx := context.Background()
	_, _, err := (&Service{}).ListComments(ctx, "post")
	assert.Error(t, err)

	svc, _ := newTestService(t, comment.Author{ID: "u1", Name: "Kyle"})
	_, _, err = svc.ListComments(ctx, "")
	assert.Error(t, err)
}

func TestRunnerServesMetrics(t *testing.T) {
	svc, reg := newTestService(t, comment.Author{ID: "u1", Name: "Kyle"})
	_, err := svc.CreateComment(context.Background(), "post", "", "hello")
	require.NoError(t, err)

	r := Runner{Service: svc, Gatherer: reg}
	srv, err := r.NewServer()
	require.NoError(t, err)

	ts := httptest.NewServer(r.Handler(srv))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "nested_comments_remote_calls_total")
	assert.Contains(t, string(body), "nested_comments_tree_comments 1")
}

func TestRunnerRequiresBackend(t *testing.T) {
	_, err := Runner{}.NewServer()
	assert.Error(t, err)
	assert.Equal(t, "/mcp", cleanPath("", "/mcp"))
	assert.Equal(t, "/x", cleanPath("x", "/mcp"))
}

func TestRunnerListenURL(t *testing.T) {
	r := Runner{}
	assert.Equal(t, "http://127.0.0.1:9000/mcp", r.ListenURL(&net.TCPAddr{IP: net.IPv4zero, Port: 9000}))

	r = Runner{HTTPEndpointPath: "comments", HTTPServerCert: "c.pem", HTTPServerKey: "k.pem"}
	assert.Equal(t, "https://[::1]:443/comments", r.ListenURL(&net.TCPAddr{IP: net.IPv6loopback, Port: 443}))
}

func TestRunnerServesUntilCancelled(t *testing.T) {
	svc, reg := newTestService(t, comment.Author{ID: "u1", Name: "Kyle"})
	listening := make(chan net.Addr, 1)
	r := Runner{
		Service:         svc,
		Gatherer:        reg,
		HTTPListenAddr:  "127.0.0.1:0",
		OnHTTPListening: func(a net.Addr) { listening <- a },
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Do(ctx) }()

	var addr net.Addr
	select {
	case addr = <-listening:
	case err := <-done:
		t.Fatalf("runner stopped early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("runner never started listening")
	}

	resp, err := http.Get("http://" + addr.String() + "/metrics")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not shut down")
	}
}
