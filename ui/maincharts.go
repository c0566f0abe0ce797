package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/fleetops/pingtop/model"
)

// MainCharts is the pair of master percentile charts (latency, interval)
// driven by one shared TimeWindow. It does no state merging of its own:
// events from either surface are forwarded upward unchanged.
type MainCharts struct {
	latency  *Surface
	interval *Surface
}

// NewMainCharts mounts both master surfaces.
func NewMainCharts(width, height int, interactive bool) *MainCharts {
	lw, rw := splitWidth(width)
	return &MainCharts{
		latency: NewSurface(SurfaceOptions{
			Title:       "Ping latency percentiles (s)",
			ShowAxis:    true,
			ShowLegend:  true,
			Interactive: interactive,
		}, lw, height),
		interval: NewSurface(SurfaceOptions{
			Title:       "Ping interval percentiles (s)",
			ShowAxis:    true,
			ShowLegend:  true,
			Interactive: interactive,
		}, rw, height),
	}
}

// splitWidth halves the row, leaving one spacer column.
func splitWidth(width int) (int, int) {
	lw := (width - 1) / 2
	return lw, width - 1 - lw
}

// Layout resizes both surfaces and records their screen placement.
func (mc *MainCharts) Layout(x, y, width, height int) {
	lw, rw := splitWidth(width)
	mc.latency.Resize(lw, height)
	mc.interval.Resize(rw, height)
	mc.latency.SetRect(Rect{X: x, Y: y, W: lw, H: height})
	mc.interval.SetRect(Rect{X: x + lw + 1, Y: y, W: rw, H: height})
}

// Render draws both charts over the same window.
func (mc *MainCharts) Render(stats []model.PercentileSnapshot, win model.TimeWindow) string {
	left := mc.latency.Render(LatencySeries(stats), win)
	right := mc.interval.Render(IntervalSeries(stats), win)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

// Surfaces lists both surfaces for routing and teardown.
func (mc *MainCharts) Surfaces() []*Surface {
	return []*Surface{mc.latency, mc.interval}
}

// Close releases both chart instances.
func (mc *MainCharts) Close() {
	mc.latency.Close()
	mc.interval.Close()
}
