package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"
)

// PlotOptions sizes a chart in terminal cells.
type PlotOptions struct {
	Width  int
	Height int
}

func (o PlotOptions) withDefaults() PlotOptions {
	if o.Width <= 0 {
		o.Width = 80
	}
	if o.Height <= 0 {
		o.Height = 10
	}
	return o
}

// Column extracts component i of every state. Missing components and
// non-finite values become NaN, which asciigraph leaves blank.
func Column(states [][]float64, i int) []float64 {
	col := make([]float64, len(states))
	for k, x := range states {
		v := math.NaN()
		if i < len(x) && !math.IsInf(x[i], 0) {
			v = x[i]
		}
		col[k] = v
	}
	return col
}

// Plot charts each listed component of states against the sample index,
// one chart per component.
func Plot(times []float64, states [][]float64, components []int, opts PlotOptions) string {
	if len(states) == 0 {
		return "(no data)\n"
	}
	opts = opts.withDefaults()
	span := ""
	if len(times) > 0 {
		span = fmt.Sprintf(" t=[%.4g, %.4g]", times[0], times[len(times)-1])
	}

	var b strings.Builder
	for _, c := range components {
		graph := asciigraph.Plot(Column(states, c),
			asciigraph.Height(opts.Height),
			asciigraph.Width(opts.Width),
			asciigraph.Caption(fmt.Sprintf("x%d%s", c, span)),
		)
		b.WriteString(graph)
		b.WriteString("\n\n")
	}
	return b.String()
}

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Red, asciigraph.Green, asciigraph.Blue,
	asciigraph.Yellow, asciigraph.Cyan, asciigraph.Magenta,
}

// PlotSeries overlays several series on one chart. Series shorter than the
// longest are resampled to match.
func PlotSeries(series [][]float64, caption string, opts PlotOptions) string {
	opts = opts.withDefaults()
	n := 0
	for _, s := range series {
		n = max(n, len(s))
	}
	if n == 0 {
		return "(no data)\n"
	}
	data := make([][]float64, len(series))
	colors := make([]asciigraph.AnsiColor, len(series))
	for i, s := range series {
		data[i] = resample(s, n)
		colors[i] = seriesColors[i%len(seriesColors)]
	}
	return asciigraph.PlotMany(data,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors...),
	) + "\n"
}

// resample stretches s to n points by nearest-index lookup.
func resample(s []float64, n int) []float64 {
	if len(s) == n || len(s) == 0 {
		return s
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = s[i*len(s)/n]
	}
	return out
}

// Legend pairs series names with their chart colors.
func Legend(names []string) string {
	parts := make([]string, len(names))
	for i, name := range names {
		c := seriesColors[i%len(seriesColors)]
		parts[i] = c.String() + "━━ " + asciigraph.Default.String() + name
	}
	return strings.Join(parts, "  ")
}
