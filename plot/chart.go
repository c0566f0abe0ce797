// Package plot renders multi-series line charts into terminal cells using
// braille sub-cell resolution. A Chart is a stateful instance bound to a
// cell canvas: created once, its datasets and view mutated in place across
// refreshes, and closed to release the canvas.
package plot

import (
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fleetops/pingtop/util"
)

// Point is one sample in dataset space. Tagged points are drawn with the
// chart's tag style so annotated samples stand out.
type Point struct {
	X, Y   float64
	Tagged bool
}

// Dataset is one labeled line. Label is the identity used for the hidden
// set and legend hit-testing.
type Dataset struct {
	Label     string
	Points    []Point
	Style     lipgloss.Style
	FillBelow bool
}

// Config describes a chart at creation time. Width and Height are cell
// dimensions of the whole chart including legend and axis chrome.
type Config struct {
	Width, Height int
	ShowAxis      bool
	ShowLegend    bool

	AxisStyle   lipgloss.Style
	RuleStyle   lipgloss.Style
	TagStyle    lipgloss.Style
	HiddenStyle lipgloss.Style
}

const (
	gutterWidth = 6 // "123.4│" when the axis is shown
	axisRows    = 2 // axis line + time labels
	minPlotCols = 4
	minPlotRows = 2
)

// ErrCanvasTooSmall is returned when the requested dimensions cannot hold
// the chrome plus a usable plot area.
var ErrCanvasTooSmall = errors.New("canvas too small for chart")

type cell struct {
	bits     uint8
	sty      lipgloss.Style
	override rune
}

// Chart is one chart instance. It is not safe for concurrent use; all
// mutation happens on the UI loop.
type Chart struct {
	cfg    Config
	width  int
	height int

	datasets []Dataset
	hidden   map[string]bool

	xMin, xMax float64
	hasView    bool

	rule    float64
	hasRule bool

	cells  [][]cell
	closed bool
}

// New creates a chart instance bound to a fresh cell canvas.
func New(cfg Config) (*Chart, error) {
	c := &Chart{
		cfg:    cfg,
		hidden: make(map[string]bool),
	}
	if err := c.alloc(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Chart) alloc(w, h int) error {
	plotW := w - c.gutter()
	plotH := h - c.legendRows() - c.axisHeight()
	if plotW < minPlotCols || plotH < minPlotRows {
		return ErrCanvasTooSmall
	}
	c.width, c.height = w, h
	c.cells = make([][]cell, h)
	for i := range c.cells {
		c.cells[i] = make([]cell, w)
	}
	return nil
}

// Close releases the canvas. Safe to call more than once.
func (c *Chart) Close() {
	c.cells = nil
	c.closed = true
}

// Closed reports whether the instance has been released.
func (c *Chart) Closed() bool { return c.closed }

// Resize reallocates the canvas without resetting datasets, hidden labels,
// view or rule, so a terminal resize never loses user toggles.
func (c *Chart) Resize(w, h int) error {
	if c.closed {
		return ErrCanvasTooSmall
	}
	return c.alloc(w, h)
}

func (c *Chart) gutter() int {
	if c.cfg.ShowAxis {
		return gutterWidth
	}
	return 0
}

func (c *Chart) legendRows() int {
	if c.cfg.ShowLegend {
		return 1
	}
	return 0
}

func (c *Chart) axisHeight() int {
	if c.cfg.ShowAxis {
		return axisRows
	}
	return 0
}

func (c *Chart) plotW() int { return c.width - c.gutter() }
func (c *Chart) plotH() int { return c.height - c.legendRows() - c.axisHeight() }

// SetDatasets replaces the rendered data wholesale. The hidden set is left
// untouched; callers carry visibility across replacement by label.
func (c *Chart) SetDatasets(ds []Dataset) {
	c.datasets = ds
}

// Hidden returns the labels currently toggled off.
func (c *Chart) Hidden() []string {
	out := make([]string, 0, len(c.hidden))
	for label, off := range c.hidden {
		if off {
			out = append(out, label)
		}
	}
	sort.Strings(out)
	return out
}

// SetHidden replaces the hidden set with exactly the given labels.
func (c *Chart) SetHidden(labels []string) {
	c.hidden = make(map[string]bool, len(labels))
	for _, l := range labels {
		c.hidden[l] = true
	}
}

// Toggle flips visibility for one label.
func (c *Chart) Toggle(label string) {
	c.hidden[label] = !c.hidden[label]
}

// IsHidden reports whether a label is toggled off.
func (c *Chart) IsHidden(label string) bool { return c.hidden[label] }

// SetXView sets the rendered x range. Degenerate ranges are widened so the
// chart never divides by a zero span.
func (c *Chart) SetXView(min, max float64) {
	if max < min {
		min, max = max, min
	}
	if max == min {
		max = min + 1
	}
	c.xMin, c.xMax, c.hasView = min, max, true
}

// XView returns the rendered x range.
func (c *Chart) XView() (min, max float64, ok bool) {
	return c.xMin, c.xMax, c.hasView
}

// SetRule places the vertical reference rule at an x value. Values outside
// the view are clipped at render time, not rejected.
func (c *Chart) SetRule(x float64) {
	c.rule, c.hasRule = x, true
}

// ClearRule removes the reference rule.
func (c *Chart) ClearRule() { c.hasRule = false }

// Rule returns the reference rule position, if set.
func (c *Chart) Rule() (float64, bool) { return c.rule, c.hasRule }

// InPlot reports whether a chart-local cell coordinate falls inside the
// data area (excluding legend, gutter and axis chrome).
func (c *Chart) InPlot(col, row int) bool {
	if c.closed {
		return false
	}
	return col >= c.gutter() && col < c.gutter()+c.plotW() &&
		row >= c.legendRows() && row < c.legendRows()+c.plotH()
}

// XAt maps a chart-local column to the x value at that column's center.
func (c *Chart) XAt(col int) (float64, bool) {
	if c.closed || !c.hasView {
		return 0, false
	}
	pc := col - c.gutter()
	if pc < 0 || pc >= c.plotW() {
		return 0, false
	}
	return c.xMin + (float64(pc)+0.5)/float64(c.plotW())*(c.xMax-c.xMin), true
}

// ColAt maps an x value to the chart-local column rendering it.
func (c *Chart) ColAt(x float64) (int, bool) {
	if c.closed || !c.hasView || x < c.xMin || x > c.xMax {
		return 0, false
	}
	pc := int((x - c.xMin) / (c.xMax - c.xMin) * float64(c.plotW()))
	pc = util.ClampInt(pc, 0, c.plotW()-1)
	return c.gutter() + pc, true
}

// legendSpan is the column extent of one legend entry.
type legendSpan struct {
	start, end int // [start, end)
	label      string
}

func (c *Chart) legendSpans() []legendSpan {
	spans := make([]legendSpan, 0, len(c.datasets))
	col := c.gutter()
	for _, d := range c.datasets {
		w := 2 + lipgloss.Width(d.Label) + 2 // "● label  "
		spans = append(spans, legendSpan{start: col, end: col + w - 2, label: d.Label})
		col += w
	}
	return spans
}

// LegendLabelAt returns the legend entry under a chart-local coordinate.
func (c *Chart) LegendLabelAt(col, row int) (string, bool) {
	if c.closed || !c.cfg.ShowLegend || row != 0 {
		return "", false
	}
	for _, s := range c.legendSpans() {
		if col >= s.start && col < s.end {
			return s.label, true
		}
	}
	return "", false
}

// yRange computes the visible y extent, padded and rounded to a "nice"
// ceiling so the axis reads cleanly.
func (c *Chart) yRange() (float64, float64) {
	maxY := math.Inf(-1)
	minY := 0.0
	seen := false
	for _, d := range c.datasets {
		if c.hidden[d.Label] {
			continue
		}
		for _, p := range d.Points {
			if p.X < c.xMin || p.X > c.xMax || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
				continue
			}
			seen = true
			if p.Y > maxY {
				maxY = p.Y
			}
			if p.Y < minY {
				minY = p.Y
			}
		}
	}
	if !seen || maxY <= minY {
		return 0, 1
	}
	return minY, niceCeil(maxY * 1.15)
}

// niceCeil rounds up to a 1/2/2.5/5 multiple of a power of ten.
func niceCeil(v float64) float64 {
	if v <= 0 {
		return 1
	}
	pow := math.Pow(10, math.Floor(math.Log10(v)))
	for _, m := range []float64{1, 2, 2.5, 5, 10} {
		if v <= m*pow {
			return m * pow
		}
	}
	return 10 * pow
}

// braille dot bit for pixel (px%2, py%4), py counted from the cell top.
var brailleBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// setDot lights one pixel. px in [0, 2*plotW), gp is the pixel row counted
// from the top of the plot area in [0, 4*plotH).
func (c *Chart) setDot(px, gp int, sty lipgloss.Style, tagged bool) {
	pw, ph := 2*c.plotW(), 4*c.plotH()
	if px < 0 || px >= pw || gp < 0 || gp >= ph {
		return
	}
	row := c.legendRows() + gp/4
	col := c.gutter() + px/2
	cl := &c.cells[row][col]
	cl.bits |= brailleBits[gp%4][px%2]
	if tagged {
		cl.sty = c.cfg.TagStyle
	} else if cl.override == 0 {
		cl.sty = sty
	}
}

func (c *Chart) drawSegment(x0, g0, x1, g1 int, d Dataset, phEnd int, tagged bool) {
	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := g1 - g0
	if dy < 0 {
		dy = -dy
	}
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if g0 > g1 {
		sy = -1
	}
	err := dx - dy
	x, g := x0, g0
	for {
		c.setDot(x, g, d.Style, tagged && x == x1 && g == g1)
		if d.FillBelow {
			for fg := g + 1; fg < phEnd; fg++ {
				c.setDot(x, fg, d.Style, false)
			}
		}
		if x == x1 && g == g1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			g += sy
		}
	}
}

func (c *Chart) drawDataset(d Dataset, yMin, yMax float64) {
	pw, ph := 2*c.plotW(), 4*c.plotH()
	span := c.xMax - c.xMin
	ySpan := yMax - yMin
	if ySpan <= 0 {
		ySpan = 1
	}

	// Tolerate unsorted input: draw a sorted copy.
	pts := d.Points
	if !sort.SliceIsSorted(pts, func(i, j int) bool { return pts[i].X < pts[j].X }) {
		pts = append([]Point(nil), d.Points...)
		sort.SliceStable(pts, func(i, j int) bool { return pts[i].X < pts[j].X })
	}

	type pixel struct {
		px, gp int
		tagged bool
	}
	var prev *pixel
	for _, p := range pts {
		if p.X < c.xMin || p.X > c.xMax || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			prev = nil // break the line across out-of-range points
			continue
		}
		px := int((p.X - c.xMin) / span * float64(pw-1))
		y := util.Clamp(p.Y, yMin, yMax)
		gp := ph - 1 - int((y-yMin)/ySpan*float64(ph-1))
		cur := pixel{px: px, gp: gp, tagged: p.Tagged}
		if prev == nil {
			c.setDot(px, gp, d.Style, p.Tagged)
			if d.FillBelow {
				for fg := gp + 1; fg < ph; fg++ {
					c.setDot(px, fg, d.Style, false)
				}
			}
		} else {
			c.drawSegment(prev.px, prev.gp, px, gp, d, ph, p.Tagged)
		}
		prev = &cur
	}
}

// View renders the chart into a string of exactly Height lines, each padded
// to Width columns. Returns "" after Close.
func (c *Chart) View() string {
	if c.closed {
		return ""
	}
	if !c.hasView {
		c.SetXView(0, 1)
	}

	// Reset the canvas.
	for r := range c.cells {
		for col := range c.cells[r] {
			c.cells[r][col] = cell{}
		}
	}

	yMin, yMax := c.yRange()
	for _, d := range c.datasets {
		if c.hidden[d.Label] {
			continue
		}
		c.drawDataset(d, yMin, yMax)
	}

	// Reference rule overlays the data, clipped to the plot area.
	if c.hasRule {
		if col, ok := c.ColAt(c.rule); ok {
			for row := c.legendRows(); row < c.legendRows()+c.plotH(); row++ {
				c.cells[row][col] = cell{override: '│', sty: c.cfg.RuleStyle}
			}
		}
	}

	var sb strings.Builder
	if c.cfg.ShowLegend {
		sb.WriteString(c.renderLegend())
		sb.WriteString("\n")
	}
	for row := 0; row < c.plotH(); row++ {
		sb.WriteString(c.renderGutter(row, yMin, yMax))
		for col := c.gutter(); col < c.width; col++ {
			cl := c.cells[c.legendRows()+row][col]
			switch {
			case cl.override != 0:
				sb.WriteString(cl.sty.Render(string(cl.override)))
			case cl.bits != 0:
				sb.WriteString(cl.sty.Render(string(rune(0x2800 + int(cl.bits)))))
			default:
				sb.WriteByte(' ')
			}
		}
		sb.WriteString("\n")
	}
	if c.cfg.ShowAxis {
		sb.WriteString(c.renderAxis())
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (c *Chart) renderLegend() string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", c.gutter()))
	used := c.gutter()
	for _, d := range c.datasets {
		entry := "● " + d.Label
		sty := d.Style
		if c.hidden[d.Label] {
			entry = "○ " + d.Label
			sty = c.cfg.HiddenStyle
		}
		w := lipgloss.Width(entry) + 2
		if used+w > c.width {
			break
		}
		sb.WriteString(sty.Render(entry))
		sb.WriteString("  ")
		used += w
	}
	sb.WriteString(strings.Repeat(" ", c.width-used))
	return sb.String()
}

func (c *Chart) renderGutter(row int, yMin, yMax float64) string {
	if !c.cfg.ShowAxis {
		return ""
	}
	label := ""
	switch row {
	case 0:
		label = util.FmtAxis(yMax)
	case c.plotH() / 2:
		label = util.FmtAxis((yMin + yMax) / 2)
	case c.plotH() - 1:
		label = util.FmtAxis(yMin)
	}
	pad := gutterWidth - 1 - len(label)
	if pad < 0 {
		label = label[:gutterWidth-1]
		pad = 0
	}
	return c.cfg.AxisStyle.Render(strings.Repeat(" ", pad) + label + "│")
}

func (c *Chart) renderAxis() string {
	var sb strings.Builder
	sb.WriteString(c.cfg.AxisStyle.Render(
		strings.Repeat(" ", gutterWidth-1) + "└" + strings.Repeat("─", c.plotW())))
	sb.WriteString("\n")

	left := util.FmtClock(c.xMin)
	right := util.FmtClock(c.xMax)
	gap := c.plotW() - len(left) - len(right)
	if gap < 1 {
		// Not enough columns for both labels; keep the row height stable.
		right, gap = "", c.plotW()-len(left)
		if gap < 0 {
			left, gap = "", c.plotW()
		}
	}
	sb.WriteString(c.cfg.AxisStyle.Render(
		strings.Repeat(" ", gutterWidth) + left + strings.Repeat(" ", gap) + right))
	return sb.String()
}
