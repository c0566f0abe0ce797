package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	logger "github.com/multiversx/mx-chain-logger-go"

	"github.com/fleetops/pingtop/model"
	"github.com/fleetops/pingtop/plot"
	"github.com/fleetops/pingtop/util"
)

var log = logger.GetOrCreate("ui")

const surfaceTitleRows = 1

// Rect is a surface's cell-space placement on screen, recorded at layout
// time so mouse events can be routed to the surface under the pointer.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether a screen coordinate falls inside the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Event is a surface's change request to the shared TimeWindow. Surfaces
// never mutate the window themselves; the orchestrator applies events.
type Event struct {
	HasZoom  bool
	ZoomMin  float64
	ZoomMax  float64
	HasHover bool
	Hover    float64
	// HoverValid is false when the pointer left the plot area, which clears
	// the hover cursor on every chart.
	HoverValid bool
}

// SurfaceOptions control the chrome on one chart surface.
type SurfaceOptions struct {
	Title       string
	ShowAxis    bool
	ShowLegend  bool
	Interactive bool
}

// Surface owns one plot.Chart for its whole lifetime: the instance is
// created on mount, its datasets and options are mutated on every render so
// per-series visibility toggles survive refreshes, and it is destroyed
// exactly once on Close. The surface holds no TimeWindow state of its own;
// the orchestrator is the single source of truth.
type Surface struct {
	opts  SurfaceOptions
	chart *plot.Chart // nil when creation failed; the surface degrades to a placeholder

	width  int
	height int
	rect   Rect

	dragging     bool
	dragStartCol int

	released bool
}

// NewSurface mounts a surface with a fresh chart instance. When the canvas
// is too small the surface still mounts, rendering a placeholder instead of
// failing the whole dashboard.
func NewSurface(opts SurfaceOptions, width, height int) *Surface {
	s := &Surface{opts: opts, width: width, height: height}
	s.mountChart()
	return s
}

func (s *Surface) mountChart() {
	chart, err := plot.New(plot.Config{
		Width:       s.width,
		Height:      s.height - surfaceTitleRows,
		ShowAxis:    s.opts.ShowAxis,
		ShowLegend:  s.opts.ShowLegend,
		AxisStyle:   dimStyle,
		RuleStyle:   ruleStyle,
		TagStyle:    tagStyle,
		HiddenStyle: hiddenStyle,
	})
	if err != nil {
		log.Warn("chart unavailable, surface degraded", "title", s.opts.Title, "error", err)
		return
	}
	s.chart = chart
}

// SetTitle updates the title line above the chart.
func (s *Surface) SetTitle(title string) { s.opts.Title = title }

// SetRect records the surface's on-screen placement for mouse routing.
func (s *Surface) SetRect(r Rect) { s.rect = r }

// Rect returns the recorded placement.
func (s *Surface) Rect() Rect { return s.rect }

// Resize grows or shrinks the canvas in place; the chart instance, and with
// it the user's visibility toggles, survives.
func (s *Surface) Resize(width, height int) {
	s.width, s.height = width, height
	if s.released {
		return
	}
	if s.chart == nil {
		// A surface degraded by an earlier too-small resize recovers once
		// the terminal grows again.
		s.mountChart()
		return
	}
	if err := s.chart.Resize(width, height-surfaceTitleRows); err != nil {
		log.Warn("chart resize failed, surface degraded", "title", s.opts.Title, "error", err)
		s.chart.Close()
		s.chart = nil
	}
}

// Close releases the chart instance. Safe to call at any time, effective
// exactly once, including mid-poll teardown.
func (s *Surface) Close() {
	if s.released {
		return
	}
	s.released = true
	if s.chart != nil {
		s.chart.Close()
	}
}

// Released reports whether the surface's chart resource has been freed.
func (s *Surface) Released() bool { return s.released }

// Degraded reports whether the surface renders without a chart instance.
func (s *Surface) Degraded() bool { return s.chart == nil }

// autoFitRange is the data-driven bounding range aligned outward to the
// nearest hour boundaries.
func autoFitRange(series []model.Series) (float64, float64, bool) {
	minX, maxX, ok := model.Bounds(series)
	if !ok {
		return 0, 0, false
	}
	lo := util.AlignHourDown(minX)
	hi := util.AlignHourUp(maxX)
	if hi <= lo {
		hi = lo + 3600
	}
	return lo, hi, true
}

// Render draws the series under the shared window. Explicit zoom bounds
// override the hour-aligned auto-fit range; the hovered timestamp renders
// as a vertical rule clipped to the visible range.
func (s *Surface) Render(series []model.Series, win model.TimeWindow) string {
	if s.released || s.chart == nil {
		return s.placeholder()
	}

	if win.Zoomed() {
		s.chart.SetXView(*win.ZoomMin, *win.ZoomMax)
	} else if lo, hi, ok := autoFitRange(series); ok {
		s.chart.SetXView(lo, hi)
	}

	// Carry visibility across the dataset replacement by label; labels not
	// present in the new data drop out, so a series returning later under a
	// previously-unseen label always starts visible.
	hidden := s.chart.Hidden()
	s.chart.SetDatasets(toDatasets(series))
	s.chart.SetHidden(matchLabels(hidden, series))

	min, max, _ := s.chart.XView()
	if win.Hovered != nil && *win.Hovered >= min && *win.Hovered <= max {
		s.chart.SetRule(*win.Hovered)
	} else {
		s.chart.ClearRule()
	}

	title := titleStyle.Render(truncate(s.opts.Title, s.width))
	title += strings.Repeat(" ", s.width-lipgloss.Width(title))
	return title + "\n" + s.chart.View()
}

func (s *Surface) placeholder() string {
	lines := make([]string, s.height)
	msg := dimStyle.Render(truncate("["+s.opts.Title+": chart unavailable]", s.width))
	msg += strings.Repeat(" ", s.width-lipgloss.Width(msg))
	blank := strings.Repeat(" ", s.width)
	for i := range lines {
		lines[i] = blank
	}
	if len(lines) > 0 {
		lines[0] = msg
	}
	return strings.Join(lines, "\n")
}

func toDatasets(series []model.Series) []plot.Dataset {
	out := make([]plot.Dataset, 0, len(series))
	for _, sr := range series {
		points := make([]plot.Point, 0, len(sr.Data))
		for _, p := range sr.Data {
			points = append(points, plot.Point{X: p.X, Y: p.Y, Tagged: p.Tagged})
		}
		out = append(out, plot.Dataset{
			Label:     sr.Label,
			Points:    points,
			Style:     seriesStyle(sr.Color),
			FillBelow: sr.FillBelow,
		})
	}
	return out
}

func matchLabels(hidden []string, series []model.Series) []string {
	present := make(map[string]bool, len(series))
	for _, sr := range series {
		present[sr.Label] = true
	}
	out := hidden[:0]
	for _, l := range hidden {
		if present[l] {
			out = append(out, l)
		}
	}
	return out
}

// HandleMouse translates a screen-space mouse event into a TimeWindow
// change request. Consumed reports whether the event landed on this
// surface. Degraded and non-interactive surfaces consume nothing.
func (s *Surface) HandleMouse(msg tea.MouseMsg) (Event, bool) {
	if s.released || s.chart == nil || !s.opts.Interactive {
		return Event{}, false
	}
	if !s.rect.Contains(msg.X, msg.Y) {
		// A drag that started here may end elsewhere; finish it.
		if s.dragging && msg.Action == tea.MouseActionRelease {
			s.dragging = false
		}
		return Event{}, false
	}

	col := msg.X - s.rect.X
	row := msg.Y - s.rect.Y - surfaceTitleRows
	inPlot := row >= 0 && s.chart.InPlot(col, row)

	switch {
	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		if label, ok := s.chart.LegendLabelAt(col, row); ok {
			s.chart.Toggle(label)
			return Event{}, true
		}
		if inPlot {
			s.dragging = true
			s.dragStartCol = col
		}
		return Event{}, true

	case msg.Action == tea.MouseActionMotion:
		ev := Event{HasHover: true}
		if x, ok := s.chart.XAt(col); ok && inPlot {
			ev.Hover, ev.HoverValid = x, true
			if s.dragging && msg.Button == tea.MouseButtonLeft {
				if z, ok := s.dragZoom(col); ok {
					ev.HasZoom, ev.ZoomMin, ev.ZoomMax = true, z[0], z[1]
				}
			}
		}
		return ev, true

	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionRelease:
		if s.dragging {
			s.dragging = false
			if z, ok := s.dragZoom(col); ok {
				return Event{HasZoom: true, ZoomMin: z[0], ZoomMax: z[1]}, true
			}
		}
		return Event{}, true

	case msg.Button == tea.MouseButtonWheelUp && inPlot:
		return s.wheelZoom(col, 0.75), true

	case msg.Button == tea.MouseButtonWheelDown && inPlot:
		return s.wheelZoom(col, 1.0/0.75), true
	}
	return Event{}, true
}

// dragZoom derives zoom bounds from the drag anchor and the current column.
// A zero-width drag produces no zoom.
func (s *Surface) dragZoom(col int) ([2]float64, bool) {
	if col == s.dragStartCol {
		return [2]float64{}, false
	}
	a, okA := s.chart.XAt(s.dragStartCol)
	b, okB := s.chart.XAt(col)
	if !okA || !okB {
		return [2]float64{}, false
	}
	if a > b {
		a, b = b, a
	}
	return [2]float64{a, b}, true
}

// wheelZoom scales the current view around the value under the pointer.
func (s *Surface) wheelZoom(col int, factor float64) Event {
	min, max, ok := s.chart.XView()
	if !ok {
		return Event{}
	}
	center, ok := s.chart.XAt(col)
	if !ok {
		return Event{}
	}
	newMin := center - (center-min)*factor
	newMax := center + (max-center)*factor
	if newMax <= newMin {
		return Event{}
	}
	return Event{HasZoom: true, ZoomMin: newMin, ZoomMax: newMax}
}

// ToggleSeries flips a series' visibility on this surface's chart.
func (s *Surface) ToggleSeries(label string) {
	if s.chart != nil {
		s.chart.Toggle(label)
	}
}

// XBounds exposes the chart's rendered x range.
func (s *Surface) XBounds() (min, max float64, ok bool) {
	if s.chart == nil {
		return 0, 0, false
	}
	return s.chart.XView()
}

// HiddenSeries exposes the chart's hidden labels.
func (s *Surface) HiddenSeries() []string {
	if s.chart == nil {
		return nil
	}
	return s.chart.Hidden()
}

// RuleAt exposes the chart's reference rule position.
func (s *Surface) RuleAt() (float64, bool) {
	if s.chart == nil {
		return 0, false
	}
	return s.chart.Rule()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
