package model

// TimeWindow is the single piece of cross-chart shared state: the zoom
// bounds and the hovered timestamp broadcast to every chart. Nil bounds mean
// "fit to data, aligned to the nearest hour"; nil Hovered means no cursor.
//
// The orchestrator owns the only mutable copy. Charts receive the window by
// value, treat it as read-only input and request changes through events.
type TimeWindow struct {
	ZoomMin *float64
	ZoomMax *float64
	Hovered *float64
}

// Zoomed reports whether explicit zoom bounds are set.
func (w TimeWindow) Zoomed() bool {
	return w.ZoomMin != nil && w.ZoomMax != nil
}

// SetZoom stores explicit bounds, normalizing their order.
func (w *TimeWindow) SetZoom(min, max float64) {
	if max < min {
		min, max = max, min
	}
	w.ZoomMin, w.ZoomMax = &min, &max
}

// ResetZoom returns the window to auto-fit.
func (w *TimeWindow) ResetZoom() {
	w.ZoomMin, w.ZoomMax = nil, nil
}

// SetHover stores the hovered timestamp.
func (w *TimeWindow) SetHover(t float64) {
	w.Hovered = &t
}

// ClearHover removes the hover cursor.
func (w *TimeWindow) ClearHover() {
	w.Hovered = nil
}
