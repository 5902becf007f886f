// Package timeutil parses the activity windows accepted by report.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	day  = 24 * time.Hour
	week = 7 * day
)

var calendarUnit = regexp.MustCompile(`(\d+)([wd])`)

// ParseWindow reads a lookback such as "3d", "1w2d" or "36h". Week and day
// units are accepted on top of everything time.ParseDuration understands.
// An empty window means no limit and returns zero.
func ParseWindow(s string) (time.Duration, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, nil
	}

	var total time.Duration
	rest := calendarUnit.ReplaceAllStringFunc(s, func(seg string) string {
		m := calendarUnit.FindStringSubmatch(seg)
		n, _ := strconv.Atoi(m[1])
		if m[2] == "w" {
			total += time.Duration(n) * week
		} else {
			total += time.Duration(n) * day
		}
		return ""
	})
	if rest != "" {
		d, err := time.ParseDuration(rest)
		if err != nil {
			return 0, fmt.Errorf("invalid window %q", s)
		}
		total += d
	}
	if total <= 0 {
		return 0, fmt.Errorf("window %q must be positive", s)
	}
	return total, nil
}

// Since returns the start of a window ending at now. A zero window has no
// start.
func Since(now time.Time, window time.Duration) time.Time {
	if window <= 0 {
		return time.Time{}
	}
	return now.Add(-window)
}
