package model

import (
	"fmt"
	"time"
)

// TimeRange is the selected query time span. It drives the since/step query
// parameters; it never changes how already-fetched data is rendered.
type TimeRange int

const (
	Range30m TimeRange = iota
	Range1h
	Range4h
	Range12h
	Range24h
	RangeAll
	rangeCount
)

var rangeLabels = []string{"30m", "1h", "4h", "12h", "24h", "all"}

var rangeDurations = []time.Duration{
	30 * time.Minute,
	time.Hour,
	4 * time.Hour,
	12 * time.Hour,
	24 * time.Hour,
	0, // unbounded
}

// Ranges returns all selectable ranges in display order.
func Ranges() []TimeRange {
	out := make([]TimeRange, rangeCount)
	for i := range out {
		out[i] = TimeRange(i)
	}
	return out
}

func (r TimeRange) String() string {
	if r < 0 || int(r) >= len(rangeLabels) {
		return "?"
	}
	return rangeLabels[r]
}

// Duration returns the span covered by the range; ok is false for the
// unbounded selection.
func (r TimeRange) Duration() (time.Duration, bool) {
	if r == RangeAll || r < 0 || int(r) >= len(rangeDurations) {
		return 0, false
	}
	return rangeDurations[r], true
}

// Step returns the server-side downsampling granularity for the range.
// Fixed lookup, never recomputed from data.
func (r TimeRange) Step() int {
	switch r {
	case RangeAll:
		return 30
	case Range4h:
		return 6
	case Range1h:
		return 2
	default:
		return 1
	}
}

// Since returns the query lower bound as a unix timestamp; ok is false for
// the unbounded selection, in which case the parameter is omitted and the
// server serves all retained history.
func (r TimeRange) Since(now time.Time) (int64, bool) {
	d, ok := r.Duration()
	if !ok {
		return 0, false
	}
	return now.Add(-d).Unix(), true
}

// ParseRange maps a label like "4h" or "all" back to its range.
func ParseRange(s string) (TimeRange, error) {
	for i, label := range rangeLabels {
		if s == label {
			return TimeRange(i), nil
		}
	}
	return 0, fmt.Errorf("unknown time range %q", s)
}
