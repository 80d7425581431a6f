// Package report renders measurement results as plots.
package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"roimeasure/pkg/stats"
)

// PlotMeanIntensity writes a line plot of mean intensity against z-section,
// one line per time-point. The format follows the file extension.
// It returns the number of lines drawn.
func PlotMeanIntensity(results []stats.ShapeStats, title, path string) (int, error) {
	if len(results) == 0 {
		return 0, fmt.Errorf("no results to plot")
	}

	byTime := make(map[int]plotter.XYs)
	for _, r := range results {
		byTime[r.Coord.T] = append(byTime[r.Coord.T], plotter.XY{X: float64(r.Coord.Z + 1), Y: r.Mean})
	}

	var times []int
	for t := range byTime {
		times = append(times, t)
	}
	sort.Ints(times)

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Z-section"
	p.Y.Label.Text = "Mean intensity"
	p.Legend.Top = true

	colors := palette(len(times))
	for i, t := range times {
		pts := byTime[t]
		sort.Slice(pts, func(a, b int) bool { return pts[a].X < pts[b].X })

		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return 0, fmt.Errorf("time-point %d: %w", t+1, err)
		}
		line.Color = colors[i]
		line.Width = vg.Points(1)
		points.Color = colors[i]
		points.Radius = vg.Points(2)

		p.Add(line, points)
		p.Legend.Add(fmt.Sprintf("T %d", t+1), line)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, err
	}
	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return 0, fmt.Errorf("saving plot: %w", err)
	}
	return len(times), nil
}

// palette spreads n colours around the hue wheel
func palette(n int) []color.Color {
	out := make([]color.Color, n)
	for i := range out {
		h := float64(i) / float64(n)
		out[i] = hsvToRGB(h, 0.8, 0.85)
	}
	return out
}

func hsvToRGB(h, s, v float64) color.RGBA {
	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return color.RGBA{R: uint8(r * 255), G: uint8(g * 255), B: uint8(b * 255), A: 255}
}
