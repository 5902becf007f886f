package metrics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/rytisguru/nested-comments/pkg/coordinator"
	"github.com/rytisguru/nested-comments/pkg/transport"
)

func getTestMetrics() (*Metrics, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewWithRegistry(reg), reg
}

func TestObserverTracksOutcomes(t *testing.T) {
	m, _ := getTestMetrics()

	m.Started(coordinator.KindCreate, "1")
	if got := testutil.ToFloat64(m.RemoteCallsPending.WithLabelValues("create")); got != 1 {
		t.Fatalf("expected 1 pending, got %f", got)
	}
	m.Finished(coordinator.KindCreate, "1", 20*time.Millisecond, nil)

	m.Started(coordinator.KindDelete, "2")
	m.Finished(coordinator.KindDelete, "2", time.Millisecond, &transport.RemoteError{Kind: transport.KindUnauthorized})

	m.Started(coordinator.KindLike, "3")
	m.Finished(coordinator.KindLike, "3", time.Millisecond, errors.New("boom"))

	cases := []struct {
		action, outcome string
	}{
		{"create", "success"},
		{"delete", "unauthorized"},
		{"like", "error"},
	}
	for _, tc := range cases {
		if got := testutil.ToFloat64(m.RemoteCallsTotal.WithLabelValues(tc.action, tc.outcome)); got != 1 {
			t.Errorf("%s/%s: expected 1, got %f", tc.action, tc.outcome, got)
		}
		if got := testutil.ToFloat64(m.RemoteCallsPending.WithLabelValues(tc.action)); got != 0 {
			t.Errorf("%s: expected nothing pending, got %f", tc.action, got)
		}
	}
}

func TestTreeGauges(t *testing.T) {
	m, reg := getTestMetrics()

	m.SetTreeSize(12)
	m.StaleConfirmation(coordinator.KindUpdate)

	expected := `
# HELP nested_comments_tree_comments Number of comments held in the thread
# TYPE nested_comments_tree_comments gauge
nested_comments_tree_comments 12
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "nested_comments_tree_comments"); err != nil {
		t.Fatalf("unexpected gauge: %v", err)
	}
	if got := testutil.ToFloat64(m.StaleConfirmations.WithLabelValues("update")); got != 1 {
		t.Fatalf("expected 1 stale confirmation, got %f", got)
	}
}
