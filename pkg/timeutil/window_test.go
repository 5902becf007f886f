package timeutil

import (
	"testing"
	"time"
)

func TestParseWindow(t *testing.T) {
	tests := map[string]struct {
		in   string
		want time.Duration
	}{
		"empty":    {in: "", want: 0},
		"days":     {in: "3d", want: 72 * time.Hour},
		"weeks":    {in: "1W", want: 168 * time.Hour},
		"mixed":    {in: "1w2d6h30m", want: (168+48+6)*time.Hour + 30*time.Minute},
		"go style": {in: "90m", want: 90 * time.Minute},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseWindow(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseWindowInvalid(t *testing.T) {
	for _, in := range []string{"noop", "2x", "0d"} {
		if _, err := ParseWindow(in); err == nil {
			t.Errorf("%q: expected error", in)
		}
	}
}

func TestSince(t *testing.T) {
	now := time.Date(2024, time.May, 8, 0, 0, 0, 0, time.UTC)
	if got := Since(now, 0); !got.IsZero() {
		t.Fatalf("zero window should have no start, got %s", got)
	}
	if got := Since(now, week); !got.Equal(time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start %s", got)
	}
}
