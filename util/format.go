package util

import (
	"fmt"
	"time"
)

// FmtAxis renders a y-axis value compactly so it fits the gutter.
func FmtAxis(v float64) string {
	av := v
	if av < 0 {
		av = -av
	}
	switch {
	case av >= 100000:
		return fmt.Sprintf("%.0fk", v/1000)
	case av >= 1000:
		return fmt.Sprintf("%.1fk", v/1000)
	case av >= 10 || v == 0:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.1f", v)
	}
}

// FmtClock renders a unix timestamp as a local wall-clock label.
func FmtClock(ts float64) string {
	return time.Unix(int64(ts), 0).Format("15:04")
}
