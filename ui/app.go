package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/fleetops/pingtop/engine"
	"github.com/fleetops/pingtop/model"
	"github.com/fleetops/pingtop/util"
)

const (
	headerRows = 4 // title, range buttons, banner, blank
	footerRows = 1
	unitHeight = 6
	unitMinW   = 26
	pollBudget = 30 * time.Second
)

// page identifies the current screen.
type page int

const (
	pageDashboard page = iota
	pageUnitDetail
)

type tickMsg time.Time

type pollMsg engine.PollResult

type historyMsg struct {
	unitID  string
	samples []model.UnitSample
	err     error
}

// HistorySource serves the full retained history of one unit for the
// detail page.
type HistorySource interface {
	UnitHistory(ctx context.Context, unitID string) ([]model.UnitSample, error)
}

// Params configures the dashboard model.
type Params struct {
	Fetcher      *engine.Fetcher
	History      HistorySource
	Interval     time.Duration
	MaxUnits     int
	Mouse        bool
	DefaultRange model.TimeRange
	Version      string
}

// Model is the bubbletea model: the dashboard orchestrator. It is the
// single owner of the shared TimeWindow and the range selection; surfaces
// only read the window and hand change requests back as events.
type Model struct {
	fetcher  *engine.Fetcher
	history  HistorySource
	interval time.Duration
	maxUnits int
	mouse    bool
	version  string

	width  int
	height int

	rng    model.TimeRange
	window model.TimeWindow

	// Last-good data; each half is replaced wholesale only by a successful
	// poll newer than the one already applied.
	stats        []model.PercentileSnapshot
	anomalies    []model.AnomalousUnit
	statsSeq     uint64
	anomaliesSeq uint64
	statsErr     string
	anomaliesErr string
	lastUpdate   time.Time
	polled       bool

	main      *MainCharts
	units     map[string]*Surface
	unitOrder []string

	// Unit grid geometry from the last relayout.
	unitCols, unitRows, unitW int
	mainH, unitsY             int

	paused   bool
	showHelp bool

	page          page
	detailUnit    string
	detailScore   uint64
	detailSamples []model.UnitSample
	detailErr     string
	detail        *Surface
}

// NewModel creates the dashboard model.
func NewModel(p Params) Model {
	return Model{
		fetcher:  p.Fetcher,
		history:  p.History,
		interval: p.Interval,
		maxUnits: p.MaxUnits,
		mouse:    p.Mouse,
		version:  p.Version,
		rng:      p.DefaultRange,
		units:    make(map[string]*Surface),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(m.interval), m.pollCmd())
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// pollCmd issues one poll cycle. Fire-and-forget: a slow poll never blocks
// the next tick, and stale results are discarded by the sequence guard.
func (m Model) pollCmd() tea.Cmd {
	fetcher, rng := m.fetcher, m.rng
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), pollBudget)
		defer cancel()
		return pollMsg(fetcher.Poll(ctx, rng))
	}
}

func (m Model) historyCmd(unitID string) tea.Cmd {
	src := m.history
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), pollBudget)
		defer cancel()
		samples, err := src.UnitHistory(ctx, unitID)
		return historyMsg{unitID: unitID, samples: samples, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.relayout()

	case tickMsg:
		if m.paused {
			return m, tick(m.interval)
		}
		return m, tea.Batch(tick(m.interval), m.pollCmd())

	case pollMsg:
		m.applyPoll(engine.PollResult(msg))

	case historyMsg:
		if m.page == pageUnitDetail && msg.unitID == m.detailUnit {
			if msg.err != nil {
				m.detailErr = msg.err.Error()
			} else {
				m.detailErr = ""
				m.detailSamples = msg.samples
			}
		}

	case tea.MouseMsg:
		if m.mouse {
			return m, m.routeMouse(msg)
		}
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.closeAll()
		return m, tea.Quit

	case "?":
		m.showHelp = !m.showHelp

	case "esc":
		switch {
		case m.showHelp:
			m.showHelp = false
		case m.page == pageUnitDetail:
			m.exitDetail()
		default:
			m.window.ResetZoom()
			m.window.ClearHover()
		}

	case "u":
		m.window.ResetZoom()

	case "p":
		m.paused = !m.paused

	case "r":
		return m, m.pollCmd()

	case "1", "2", "3", "4", "5", "6":
		r := model.TimeRange(int(msg.String()[0] - '1'))
		return m.selectRange(r)
	}
	return m, nil
}

// selectRange switches the query time span. Any active zoom was computed
// against the previous data density, so the window resets to auto-fit and a
// poll fires immediately.
func (m Model) selectRange(r model.TimeRange) (tea.Model, tea.Cmd) {
	m.rng = r
	m.window.ResetZoom()
	return m, m.pollCmd()
}

// applyPoll replaces each data half from a poll result, independently, and
// only when the result is newer than what is already applied. Failures keep
// the previous data on screen and surface a banner instead.
func (m *Model) applyPoll(res engine.PollResult) {
	if res.StatsErr != nil {
		m.statsErr = "stats: " + res.StatsErr.Error()
	} else if res.Seq > m.statsSeq {
		m.stats = res.Stats
		m.statsSeq = res.Seq
		m.statsErr = ""
	}
	if res.AnomaliesErr != nil {
		m.anomaliesErr = "anomalies: " + res.AnomaliesErr.Error()
	} else if res.Seq > m.anomaliesSeq {
		m.anomalies = res.Anomalies
		m.anomaliesSeq = res.Seq
		m.anomaliesErr = ""
	}
	m.polled = true
	if res.StatsErr == nil || res.AnomaliesErr == nil {
		m.lastUpdate = time.Now()
	}
	m.reconcileUnits()
}

// relayout recomputes chart geometry after a terminal resize. Chart
// instances are resized in place, never recreated, so visibility toggles
// and the shared window survive.
func (m *Model) relayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	avail := m.height - headerRows - footerRows - 2 // blank + section header
	m.mainH = util.ClampInt(avail/2, 8, 16)
	if m.mainH > avail {
		m.mainH = avail
	}
	m.unitsY = headerRows + m.mainH + 2

	unitAreaH := avail - m.mainH
	m.unitRows = unitAreaH / unitHeight
	m.unitCols = m.width / (unitMinW + 1)
	if m.unitCols < 1 {
		m.unitCols = 1
	}
	m.unitW = (m.width - (m.unitCols - 1)) / m.unitCols

	if m.main == nil {
		m.main = NewMainCharts(m.width, m.mainH, m.mouse)
	}
	m.main.Layout(0, headerRows, m.width, m.mainH)

	m.reconcileUnits()

	if m.detail != nil {
		m.detail.Resize(m.width, m.detailHeight())
		m.detail.SetRect(Rect{X: 0, Y: 3, W: m.width, H: m.detailHeight()})
	}
}

func (m Model) detailHeight() int {
	return m.height - 4 // title, info, blank, footer
}

// visibleUnits caps the anomaly list to the configured maximum and to what
// the current grid can hold.
func (m Model) visibleUnits() []model.AnomalousUnit {
	n := len(m.anomalies)
	if n > m.maxUnits {
		n = m.maxUnits
	}
	if slots := m.unitRows * m.unitCols; n > slots {
		n = slots
	}
	return m.anomalies[:n]
}

// reconcileUnits mounts a surface for every newly visible unit and closes
// the surface of every unit that dropped off the board, so chart instances
// are created and destroyed in lockstep with what is shown.
func (m *Model) reconcileUnits() {
	if m.width <= 0 {
		return
	}
	shown := m.visibleUnits()
	want := make(map[string]bool, len(shown))
	order := make([]string, 0, len(shown))

	for i, unit := range shown {
		want[unit.UnitID] = true
		order = append(order, unit.UnitID)

		s, ok := m.units[unit.UnitID]
		if !ok {
			s = NewSurface(SurfaceOptions{
				ShowAxis:    false,
				ShowLegend:  false,
				Interactive: m.mouse,
			}, m.unitW, unitHeight)
			m.units[unit.UnitID] = s
		} else {
			s.Resize(m.unitW, unitHeight)
		}
		s.SetTitle(fmt.Sprintf("%s  score %s", unit.UnitID, humanize.Comma(int64(unit.Score))))
		s.SetRect(Rect{
			X: (m.unitW + 1) * (i % m.unitCols),
			Y: m.unitsY + unitHeight*(i/m.unitCols),
			W: m.unitW,
			H: unitHeight,
		})
	}

	for id, s := range m.units {
		if !want[id] {
			s.Close()
			delete(m.units, id)
		}
	}
	m.unitOrder = order
}

// closeAll releases every chart instance; runs on quit, even mid-poll.
func (m *Model) closeAll() {
	if m.main != nil {
		m.main.Close()
	}
	for id, s := range m.units {
		s.Close()
		delete(m.units, id)
	}
	if m.detail != nil {
		m.detail.Close()
		m.detail = nil
	}
}

func (m *Model) openDetail(unit model.AnomalousUnit) tea.Cmd {
	m.page = pageUnitDetail
	m.detailUnit = unit.UnitID
	m.detailScore = unit.Score
	m.detailSamples = unit.History
	m.detailErr = ""
	m.detail = NewSurface(SurfaceOptions{
		Title:       "unit " + unit.UnitID,
		ShowAxis:    true,
		ShowLegend:  true,
		Interactive: m.mouse,
	}, m.width, m.detailHeight())
	m.detail.SetRect(Rect{X: 0, Y: 3, W: m.width, H: m.detailHeight()})
	return m.historyCmd(unit.UnitID)
}

func (m *Model) exitDetail() {
	if m.detail != nil {
		m.detail.Close()
		m.detail = nil
	}
	m.page = pageDashboard
	m.detailSamples = nil
	m.detailErr = ""
}

// applyEvent folds a surface's change request into the shared window.
// This is the only place the window mutates in response to chart input.
func (m *Model) applyEvent(ev Event) {
	if ev.HasZoom {
		m.window.SetZoom(ev.ZoomMin, ev.ZoomMax)
	}
	if ev.HasHover {
		if ev.HoverValid {
			m.window.SetHover(ev.Hover)
		} else {
			m.window.ClearHover()
		}
	}
}

func (m *Model) routeMouse(msg tea.MouseMsg) tea.Cmd {
	if m.page == pageUnitDetail {
		if m.detail != nil {
			if ev, ok := m.detail.HandleMouse(msg); ok {
				m.applyEvent(ev)
				return nil
			}
		}
		if msg.Action == tea.MouseActionMotion {
			m.window.ClearHover()
		}
		return nil
	}

	// A click on a unit chart's title row opens the detail page; this must
	// run before the surface swallows the press.
	if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress {
		for i, id := range m.unitOrder {
			s := m.units[id]
			if s == nil {
				continue
			}
			r := s.Rect()
			if msg.Y == r.Y && msg.X >= r.X && msg.X < r.X+r.W {
				return m.openDetail(m.visibleUnits()[i])
			}
		}
	}

	for _, s := range m.allSurfaces() {
		if ev, ok := s.HandleMouse(msg); ok {
			m.applyEvent(ev)
			return nil
		}
	}

	// Pointer over chrome: clear the shared hover on every chart.
	if msg.Action == tea.MouseActionMotion {
		m.window.ClearHover()
	}
	return nil
}

func (m Model) allSurfaces() []*Surface {
	var out []*Surface
	if m.main != nil {
		out = append(out, m.main.Surfaces()...)
	}
	for _, id := range m.unitOrder {
		if s := m.units[id]; s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.page == pageUnitDetail {
		return m.renderDetail()
	}
	return m.renderDashboard()
}

func (m Model) renderDashboard() string {
	var sb strings.Builder
	sb.WriteString(m.renderHeader())

	if !m.polled {
		sb.WriteString("\n Waiting for first poll...")
		return sb.String()
	}

	sb.WriteString(m.main.Render(m.stats, m.window))
	sb.WriteString("\n\n")

	shown := m.visibleUnits()
	sb.WriteString(headerStyle.Render(" Anomalous units"))
	sb.WriteString(dimStyle.Render(fmt.Sprintf("  %d of %d shown, by score", len(shown), len(m.anomalies))))
	sb.WriteString("\n")

	for row := 0; row*m.unitCols < len(shown); row++ {
		blocks := make([]string, 0, m.unitCols)
		for col := 0; col < m.unitCols; col++ {
			i := row*m.unitCols + col
			if i >= len(shown) {
				break
			}
			unit := shown[i]
			s := m.units[unit.UnitID]
			if s == nil {
				continue
			}
			blocks = append(blocks, s.Render(UnitSeries(unit.History), m.window))
		}
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, joinWithSpacer(blocks)...))
		sb.WriteString("\n")
	}

	sb.WriteString(m.renderFooter())
	return sb.String()
}

func joinWithSpacer(blocks []string) []string {
	out := make([]string, 0, len(blocks)*2)
	for i, b := range blocks {
		if i > 0 {
			out = append(out, " ")
		}
		out = append(out, b)
	}
	return out
}

func (m Model) renderHeader() string {
	var sb strings.Builder

	title := titleStyle.Render(" pingtop ") + dimStyle.Render("v"+m.version) +
		valueStyle.Render("  vehicle ping telemetry")
	status := ""
	if m.paused {
		status = critStyle.Render("PAUSED ")
	} else if !m.lastUpdate.IsZero() {
		status = dimStyle.Render("updated " + humanize.Time(m.lastUpdate) + " ")
	}
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}
	sb.WriteString(title + strings.Repeat(" ", gap) + status + "\n")

	sb.WriteString(" " + dimStyle.Render("range:"))
	for _, r := range model.Ranges() {
		label := " " + r.String() + " "
		if r == m.rng {
			sb.WriteString(" " + selectedStyle.Render(label))
		} else {
			sb.WriteString(" " + dimStyle.Render(label))
		}
	}
	sb.WriteString(dimStyle.Render("  (keys 1-6)"))
	sb.WriteString("\n")

	switch {
	case m.statsErr != "" && m.anomaliesErr != "":
		sb.WriteString(" " + critStyle.Render(truncate(m.statsErr+" · "+m.anomaliesErr, m.width-2)))
	case m.statsErr != "":
		sb.WriteString(" " + critStyle.Render(truncate(m.statsErr+" — showing last good data", m.width-2)))
	case m.anomaliesErr != "":
		sb.WriteString(" " + critStyle.Render(truncate(m.anomaliesErr+" — showing last good data", m.width-2)))
	}
	sb.WriteString("\n\n")
	return sb.String()
}

func (m Model) renderFooter() string {
	zoom := "auto-fit"
	if m.window.Zoomed() {
		zoom = "zoomed"
	}
	return helpStyle.Render(fmt.Sprintf(
		" q quit · 1-6 range · drag/wheel zoom (%s) · u reset zoom · click legend to hide · click unit title for detail · p pause · ? help", zoom))
}

func (m Model) renderDetail() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(" unit "+m.detailUnit) +
		dimStyle.Render(fmt.Sprintf("  score %s", humanize.Comma(int64(m.detailScore)))) + "\n")
	switch {
	case m.detailErr != "":
		sb.WriteString(" " + critStyle.Render(truncate("history: "+m.detailErr, m.width-2)) + "\n")
	default:
		sb.WriteString(dimStyle.Render(fmt.Sprintf(" %d samples · full retained history", len(m.detailSamples))) + "\n")
	}
	sb.WriteString("\n")
	if m.detail != nil {
		sb.WriteString(m.detail.Render(UnitSeries(m.detailSamples), m.window))
		sb.WriteString("\n")
	}
	sb.WriteString(helpStyle.Render(" esc back · drag/wheel zoom · u reset zoom · click legend to hide"))
	return sb.String()
}

func (m Model) renderHelp() string {
	lines := []string{
		"",
		titleStyle.Render("  pingtop — vehicle ping telemetry dashboard"),
		"",
		"  1-6        select time range (30m, 1h, 4h, 12h, 24h, all)",
		"  drag       zoom into a time span (any chart; all charts follow)",
		"  wheel      zoom in/out around the pointer",
		"  u          reset zoom to auto-fit",
		"  hover      move the pointer over a chart to see the shared cursor",
		"  click      legend entry toggles that series; unit title opens detail",
		"  p          pause auto-refresh",
		"  r          refresh now",
		"  esc        back / reset",
		"  q          quit",
		"",
		dimStyle.Render("  Charts share one zoom window and one hover cursor. Data refreshes"),
		dimStyle.Render("  every poll; a fetch failure keeps the last good data on screen."),
		"",
		helpStyle.Render("  press ? or esc to close"),
	}
	return strings.Join(lines, "\n")
}
