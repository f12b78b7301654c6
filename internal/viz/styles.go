package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are the lipgloss styles derived from a theme.
type Styles struct {
	Canvas  lipgloss.Style
	Panel   lipgloss.Style
	Header  lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Active  lipgloss.Style
	Graph   lipgloss.Style
	Help    lipgloss.Style
	Running lipgloss.Style
	Paused  lipgloss.Style
	Failed  lipgloss.Style
	High    lipgloss.Style
	Mid     lipgloss.Style
	Low     lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Canvas: lipgloss.NewStyle().Padding(1, 2).Foreground(t.Secondary),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(45),
		Header:  lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		Label:   lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		Value:   lipgloss.NewStyle().Foreground(t.Text),
		Active:  lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		Graph:   lipgloss.NewStyle().Foreground(t.Secondary).Padding(1, 0),
		Help:    lipgloss.NewStyle().Foreground(t.Muted).MarginTop(2),
		Running: lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		Paused:  lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		Failed:  lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		High:    lipgloss.NewStyle().Foreground(t.Success),
		Mid:     lipgloss.NewStyle().Foreground(t.Warning),
		Low:     lipgloss.NewStyle().Foreground(t.Error),
	}
}

// ProgressBar renders fraction in [0, 1] as a bar width cells wide.
func (s Styles) ProgressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	filled = max(0, min(filled, width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch {
	case fraction > 0.8:
		return s.High.Render(bar)
	case fraction > 0.4:
		return s.Mid.Render(bar)
	}
	return s.Low.Render(bar)
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders values as a row of block characters, sampling down to
// width.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	step := max(len(values)/width, 1)

	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		idx := int((values[i*step] - lo) / span * float64(len(sparkChars)-1))
		b.WriteRune(sparkChars[max(0, min(idx, len(sparkChars)-1))])
	}
	return b.String()
}
