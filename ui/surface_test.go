package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/fleetops/pingtop/model"
)

func testSeries(xs ...float64) []model.Series {
	pts := make([]model.TimeSeriesPoint, len(xs))
	for i, x := range xs {
		pts[i] = model.TimeSeriesPoint{X: x, Y: float64(i + 1)}
	}
	return []model.Series{
		{Label: "p50", Data: pts, Color: "#50FA7B"},
		{Label: "p99", Data: pts, Color: "#FF5555"},
	}
}

func newTestSurface(t *testing.T) *Surface {
	t.Helper()
	s := NewSurface(SurfaceOptions{
		Title:       "test",
		ShowAxis:    true,
		ShowLegend:  true,
		Interactive: true,
	}, 60, 14)
	require.False(t, s.Degraded())
	return s
}

func TestAutoFitAlignsToHoursAcrossSurfaces(t *testing.T) {
	series := testSeries(5000, 9100)
	var win model.TimeWindow

	a := newTestSurface(t)
	b := newTestSurface(t)
	a.Render(series, win)
	b.Render(series, win)

	minA, maxA, ok := a.XBounds()
	require.True(t, ok)
	require.Equal(t, 3600.0, minA) // floor(5000/3600)*3600
	require.Equal(t, 10800.0, maxA)

	minB, maxB, _ := b.XBounds()
	require.Equal(t, minA, minB)
	require.Equal(t, maxA, maxB)
}

func TestAutoFitDegenerateSpan(t *testing.T) {
	s := newTestSurface(t)
	s.Render(testSeries(7200), model.TimeWindow{})

	min, max, ok := s.XBounds()
	require.True(t, ok)
	require.Equal(t, 7200.0, min)
	require.Equal(t, 10800.0, max)
}

func TestZoomOverridesAutoFit(t *testing.T) {
	s := newTestSurface(t)
	var win model.TimeWindow
	win.SetZoom(6000, 8000)

	s.Render(testSeries(5000, 9100), win)

	min, max, ok := s.XBounds()
	require.True(t, ok)
	require.Equal(t, 6000.0, min)
	require.Equal(t, 8000.0, max)
}

func TestVisibilityPersistsAcrossRefresh(t *testing.T) {
	s := newTestSurface(t)
	var win model.TimeWindow

	s.Render(testSeries(3600, 7200), win)
	s.ToggleSeries("p50")
	require.Equal(t, []string{"p50"}, s.HiddenSeries())

	// New data under the same labels keeps the toggle.
	s.Render(testSeries(3700, 7300), win)
	require.Equal(t, []string{"p50"}, s.HiddenSeries())
}

func TestVanishedLabelReturnsVisible(t *testing.T) {
	s := newTestSurface(t)
	var win model.TimeWindow

	s.Render(testSeries(3600, 7200), win)
	s.ToggleSeries("p50")

	// p50 drops out of the feed; its toggle is pruned.
	only := []model.Series{{Label: "p99", Data: []model.TimeSeriesPoint{{X: 3600, Y: 1}}}}
	s.Render(only, win)
	require.Empty(t, s.HiddenSeries())

	// When it comes back it starts visible.
	s.Render(testSeries(3600, 7200), win)
	require.Empty(t, s.HiddenSeries())
}

func TestHoverRendersRuleOnlyInsideView(t *testing.T) {
	s := newTestSurface(t)
	var win model.TimeWindow

	win.SetHover(5000)
	s.Render(testSeries(3600, 7200), win)
	rule, ok := s.RuleAt()
	require.True(t, ok)
	require.Equal(t, 5000.0, rule)

	win.SetHover(99999)
	s.Render(testSeries(3600, 7200), win)
	_, ok = s.RuleAt()
	require.False(t, ok)

	win.ClearHover()
	s.Render(testSeries(3600, 7200), win)
	_, ok = s.RuleAt()
	require.False(t, ok)
}

func TestCloseIsExactlyOnce(t *testing.T) {
	s := newTestSurface(t)
	require.False(t, s.Released())

	s.Close()
	require.True(t, s.Released())
	s.Close() // second close is a no-op

	// A released surface renders a placeholder and ignores the mouse.
	out := s.Render(testSeries(3600), model.TimeWindow{})
	require.Contains(t, out, "unavailable")
	_, consumed := s.HandleMouse(tea.MouseMsg{X: 1, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	require.False(t, consumed)
}

func TestResizePreservesToggles(t *testing.T) {
	s := newTestSurface(t)
	s.Render(testSeries(3600, 7200), model.TimeWindow{})
	s.ToggleSeries("p99")

	s.Resize(80, 20)
	require.False(t, s.Degraded())
	require.Equal(t, []string{"p99"}, s.HiddenSeries())
}

func TestTooSmallSurfaceDegrades(t *testing.T) {
	s := NewSurface(SurfaceOptions{Title: "tiny", ShowAxis: true, ShowLegend: true}, 4, 3)
	require.True(t, s.Degraded())

	out := s.Render(testSeries(3600), model.TimeWindow{})
	require.NotEmpty(t, out)
	_, consumed := s.HandleMouse(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionMotion})
	require.False(t, consumed)
}

func dragEvents(x0, x1, y int) []tea.MouseMsg {
	return []tea.MouseMsg{
		{X: x0, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft},
		{X: x1, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft},
		{X: x1, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft},
	}
}

func TestDragZoomEmitsBounds(t *testing.T) {
	s := newTestSurface(t)
	s.SetRect(Rect{X: 0, Y: 0, W: 60, H: 14})
	s.Render(testSeries(3600, 7200), model.TimeWindow{})

	// Row 3 is inside the plot: below the title and the legend row.
	var last Event
	for _, msg := range dragEvents(10, 30, 3) {
		ev, consumed := s.HandleMouse(msg)
		require.True(t, consumed)
		if ev.HasZoom {
			last = ev
		}
	}

	require.True(t, last.HasZoom)
	require.Less(t, last.ZoomMin, last.ZoomMax)
	min, max, _ := s.XBounds()
	require.GreaterOrEqual(t, last.ZoomMin, min)
	require.LessOrEqual(t, last.ZoomMax, max)
}

func TestZeroWidthDragEmitsNothing(t *testing.T) {
	s := newTestSurface(t)
	s.SetRect(Rect{X: 0, Y: 0, W: 60, H: 14})
	s.Render(testSeries(3600, 7200), model.TimeWindow{})

	var sawZoom bool
	for _, msg := range dragEvents(10, 10, 3) {
		ev, _ := s.HandleMouse(msg)
		sawZoom = sawZoom || ev.HasZoom
	}
	require.False(t, sawZoom)
}

func TestWheelZoomNarrowsAroundPointer(t *testing.T) {
	s := newTestSurface(t)
	s.SetRect(Rect{X: 0, Y: 0, W: 60, H: 14})
	s.Render(testSeries(3600, 7200), model.TimeWindow{})
	min, max, _ := s.XBounds()

	ev, consumed := s.HandleMouse(tea.MouseMsg{
		X: 20, Y: 3, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp,
	})
	require.True(t, consumed)
	require.True(t, ev.HasZoom)
	require.Greater(t, ev.ZoomMax-ev.ZoomMin, 0.0)
	require.Less(t, ev.ZoomMax-ev.ZoomMin, max-min)
	require.GreaterOrEqual(t, ev.ZoomMin, min)
	require.LessOrEqual(t, ev.ZoomMax, max)
}

func TestHoverEventFromMotion(t *testing.T) {
	s := newTestSurface(t)
	s.SetRect(Rect{X: 5, Y: 2, W: 60, H: 14})
	s.Render(testSeries(3600, 7200), model.TimeWindow{})

	// Motion inside the plot reports a valid hover timestamp.
	ev, consumed := s.HandleMouse(tea.MouseMsg{X: 5 + 20, Y: 2 + 4, Action: tea.MouseActionMotion})
	require.True(t, consumed)
	require.True(t, ev.HasHover)
	require.True(t, ev.HoverValid)
	min, max, _ := s.XBounds()
	require.GreaterOrEqual(t, ev.Hover, min)
	require.LessOrEqual(t, ev.Hover, max)

	// Motion over the chrome clears the hover.
	ev, consumed = s.HandleMouse(tea.MouseMsg{X: 5 + 1, Y: 2 + 4, Action: tea.MouseActionMotion})
	require.True(t, consumed)
	require.True(t, ev.HasHover)
	require.False(t, ev.HoverValid)

	// Motion outside the rect is not consumed.
	_, consumed = s.HandleMouse(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionMotion})
	require.False(t, consumed)
}

func TestLegendClickTogglesSeries(t *testing.T) {
	s := newTestSurface(t)
	s.SetRect(Rect{X: 0, Y: 0, W: 60, H: 14})
	s.Render(testSeries(3600, 7200), model.TimeWindow{})

	// Legend row sits directly under the title; first entry starts at the
	// gutter edge (6 columns in).
	_, consumed := s.HandleMouse(tea.MouseMsg{
		X: 6, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft,
	})
	require.True(t, consumed)
	require.Equal(t, []string{"p50"}, s.HiddenSeries())
}
