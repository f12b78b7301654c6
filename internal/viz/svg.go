package viz

import (
	"bufio"
	"fmt"
	"io"
)

// SVGOptions sizes a trajectory drawing in pixels.
type SVGOptions struct {
	Width, Height int
	Stroke        string
}

// WriteSVG draws the path (xs[i], ys[i]) scaled to fit with a 10% margin.
// Non-finite points are skipped.
func WriteSVG(w io.Writer, xs, ys []float64, opts SVGOptions) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("viz: %d x values for %d y values", len(xs), len(ys))
	}
	if opts.Width <= 0 {
		opts.Width = 640
	}
	if opts.Height <= 0 {
		opts.Height = 480
	}
	if opts.Stroke == "" {
		opts.Stroke = string(ThemeCyberpunk.Secondary)
	}

	b := NewBounds()
	for i := range xs {
		b.Fit(xs[i], ys[i])
	}
	padX, padY := (b.MaxX-b.MinX)*0.1, (b.MaxY-b.MinY)*0.1
	if padX == 0 {
		padX = 1
	}
	if padY == 0 {
		padY = 1
	}
	b.MinX, b.MaxX, b.MinY, b.MaxY = b.MinX-padX, b.MaxX+padX, b.MinY-padY, b.MaxY+padY

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="`, opts.Width, opts.Height, opts.Width, opts.Height, opts.Stroke)

	cmd := "M"
	for i := range xs {
		if !finite(xs[i]) || !finite(ys[i]) {
			cmd = "M"
			continue
		}
		x, y := b.Map(xs[i], ys[i], opts.Width+1, opts.Height+1)
		fmt.Fprintf(bw, "%s%d,%d ", cmd, x, y)
		cmd = "L"
	}
	fmt.Fprint(bw, "\"/>\n</svg>\n")
	return bw.Flush()
}

func finite(v float64) bool { return v-v == 0 }
