package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	colorRed     = lipgloss.Color("#FF5555")
	colorYellow  = lipgloss.Color("#F1FA8C")
	colorGreen   = lipgloss.Color("#50FA7B")
	colorCyan    = lipgloss.Color("#8BE9FD")
	colorMagenta = lipgloss.Color("#FF79C6")
	colorOrange  = lipgloss.Color("#FFB86C")
	colorWhite   = lipgloss.Color("#F8F8F2")
	colorGray    = lipgloss.Color("#6272A4")
	colorPanel   = lipgloss.Color("#44475A")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	headerStyle   = lipgloss.NewStyle().Foreground(colorMagenta).Bold(true)
	valueStyle    = lipgloss.NewStyle().Foreground(colorWhite)
	critStyle     = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	okStyle       = lipgloss.NewStyle().Foreground(colorGreen)
	dimStyle      = lipgloss.NewStyle().Foreground(colorGray)
	helpStyle     = lipgloss.NewStyle().Foreground(colorGray)
	selectedStyle = lipgloss.NewStyle().Background(colorPanel).Foreground(colorWhite).Bold(true)
	ruleStyle     = lipgloss.NewStyle().Foreground(colorYellow)
	tagStyle      = lipgloss.NewStyle().Foreground(colorOrange).Bold(true)
	hiddenStyle   = lipgloss.NewStyle().Foreground(colorGray).Strikethrough(true)
)

// quantileColors keeps each quantile in the same hue across refreshes and
// across both master charts.
var quantileColors = map[string]string{
	"p0":    "#6272A4",
	"p25":   "#8BE9FD",
	"p50":   "#50FA7B",
	"p75":   "#F1FA8C",
	"p80":   "#FFB86C",
	"p85":   "#FF79C6",
	"p90":   "#BD93F9",
	"p95":   "#FF5555",
	"p98":   "#FF6E6E",
	"p99":   "#FFFFA5",
	"p99_5": "#D6ACFF",
	"p99_9": "#FF92DF",
}

func seriesStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}
