package model

// TimeSeriesPoint is one (unix timestamp, value) sample. Tagged marks points
// carrying the on-trip annotation so charts can highlight them.
type TimeSeriesPoint struct {
	X      float64
	Y      float64
	Tagged bool
}

// Series is one labeled line. Label is the stable identity used for
// visibility toggles and legends; Color is a hex color kept stable per label
// across refreshes.
type Series struct {
	Label     string
	Data      []TimeSeriesPoint
	Color     string
	FillBelow bool
}

// Bounds returns the x extent over all points of all series; ok is false
// when there is no data at all.
func Bounds(series []Series) (minX, maxX float64, ok bool) {
	for _, s := range series {
		for _, p := range s.Data {
			if !ok {
				minX, maxX, ok = p.X, p.X, true
				continue
			}
			if p.X < minX {
				minX = p.X
			}
			if p.X > maxX {
				maxX = p.X
			}
		}
	}
	return minX, maxX, ok
}
