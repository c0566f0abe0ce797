package model

import "testing"

func TestTimeWindowZoom(t *testing.T) {
	var w TimeWindow
	if w.Zoomed() {
		t.Error("fresh window should not be zoomed")
	}

	w.SetZoom(200, 100)
	if !w.Zoomed() {
		t.Fatal("window should be zoomed after SetZoom")
	}
	if *w.ZoomMin != 100 || *w.ZoomMax != 200 {
		t.Errorf("zoom bounds not normalized: got [%v, %v]", *w.ZoomMin, *w.ZoomMax)
	}

	w.ResetZoom()
	if w.Zoomed() {
		t.Error("window should not be zoomed after reset")
	}
}

func TestTimeWindowHover(t *testing.T) {
	var w TimeWindow
	w.SetHover(42)
	if w.Hovered == nil || *w.Hovered != 42 {
		t.Fatal("hover not stored")
	}
	w.ClearHover()
	if w.Hovered != nil {
		t.Error("hover not cleared")
	}
}

func TestBounds(t *testing.T) {
	series := []Series{
		{Label: "a", Data: []TimeSeriesPoint{{X: 30, Y: 1}, {X: 10, Y: 2}}},
		{Label: "b", Data: []TimeSeriesPoint{{X: 50, Y: 3}}},
		{Label: "empty"},
	}
	min, max, ok := Bounds(series)
	if !ok || min != 10 || max != 50 {
		t.Errorf("Bounds = (%v, %v, %v), want (10, 50, true)", min, max, ok)
	}

	if _, _, ok := Bounds(nil); ok {
		t.Error("Bounds of no data should report not ok")
	}
}
