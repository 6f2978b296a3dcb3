package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/joshuapare/emumem/mem/monitor"
)

var (
	// Color palette
	usedColor   = lipgloss.Color("#FF4B4B")
	freeColor   = lipgloss.Color("#04B575")
	seriesColor = lipgloss.Color("#00D7FF")
	mutedColor  = lipgloss.Color("#666666")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	usedStyle   = lipgloss.NewStyle().Foreground(usedColor)
	freeStyle   = lipgloss.NewStyle().Foreground(freeColor)
	seriesStyle = lipgloss.NewStyle().Foreground(seriesColor)

	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)
)

const (
	usedCell = "█"
	freeCell = "·"
)

// sparkLevels are the glyphs for an eighth-step bar chart.
var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// renderMap draws the block map. With color disabled it falls back to the
// plain '#'/'.' rendering.
func renderMap(m monitor.Map) string {
	if noColor {
		return m.String()
	}
	rows := make([]string, 0, m.Rows)
	for row := range m.Rows {
		var sb strings.Builder
		for col := range m.Cols {
			if m.At(row, col) == monitor.BlockUsed {
				sb.WriteString(usedStyle.Render(usedCell))
			} else {
				sb.WriteString(freeStyle.Render(freeCell))
			}
		}
		rows = append(rows, sb.String())
	}
	return frameStyle.Render(strings.Join(rows, "\n")) + "\n"
}

// renderSeries draws values as a sparkline scaled to ceiling.
func renderSeries(values []int, ceiling int) string {
	if ceiling <= 0 {
		ceiling = 1
	}
	top := len(sparkLevels) - 1
	var sb strings.Builder
	for _, v := range values {
		idx := min(max(v*top/ceiling, 0), top)
		sb.WriteRune(sparkLevels[idx])
	}
	if noColor {
		return sb.String() + "\n"
	}
	return seriesStyle.Render(sb.String()) + "\n"
}

// renderHeader styles a section title.
func renderHeader(title string) string {
	if noColor {
		return title + "\n"
	}
	return headerStyle.Render(title) + "\n"
}
