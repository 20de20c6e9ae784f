package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styles are the panel styles derived from a Theme.
type styles struct {
	canvas  lipgloss.Style
	panel   lipgloss.Style
	header  lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	running lipgloss.Style
	paused  lipgloss.Style
	err     lipgloss.Style
	graph   lipgloss.Style
	help    lipgloss.Style
	sparkHi lipgloss.Style
	sparkMd lipgloss.Style
	sparkLo lipgloss.Style
}

func (t Theme) styles() styles {
	return styles{
		canvas:  lipgloss.NewStyle().Padding(1, 2),
		panel:   lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(t.Muted).Padding(1, 2).Width(42),
		header:  lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		label:   lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:   lipgloss.NewStyle().Foreground(t.Text),
		running: lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		paused:  lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		err:     lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		graph:   lipgloss.NewStyle().Foreground(t.Secondary).Padding(1, 0),
		help:    lipgloss.NewStyle().Foreground(t.Muted).Italic(true).MarginTop(1),
		sparkHi: lipgloss.NewStyle().Foreground(t.Error),
		sparkMd: lipgloss.NewStyle().Foreground(t.Warning),
		sparkLo: lipgloss.NewStyle().Foreground(t.Success),
	}
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders the last width values scaled between their min and max.
func (st styles) Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var result strings.Builder
	for _, v := range values {
		norm := (v - lo) / rng
		idx := int(norm * float64(len(sparkChars)-1))
		idx = max(0, min(idx, len(sparkChars)-1))

		c := string(sparkChars[idx])
		switch {
		case norm > 0.7:
			result.WriteString(st.sparkHi.Render(c))
		case norm > 0.3:
			result.WriteString(st.sparkMd.Render(c))
		default:
			result.WriteString(st.sparkLo.Render(c))
		}
	}
	return result.String()
}

func (st styles) Separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(mid-3, 0))
	right := strings.Repeat("─", max(width-mid-3, 0))
	return st.help.UnsetItalic().UnsetMarginTop().Render(left + " ◆ " + right)
}
