// Package plotting plots data tracked during experiments, either as
// PNG images or as plots in the terminal
package plotting

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Series is a named sequence of values, such as the episodic returns
// of one run
type Series struct {
	Name string
	Data []float64
}

// MovingAverage returns the trailing moving average of data over
// windows of the given size. The first window-1 values are averaged
// over the values seen so far.
func MovingAverage(data []float64, window int) []float64 {
	if window <= 1 {
		out := make([]float64, len(data))
		copy(out, data)
		return out
	}

	out := make([]float64, len(data))
	sum := 0.0
	for i, v := range data {
		sum += v
		if i >= window {
			sum -= data[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// SavePNG plots each series as a line against its index and saves the
// plot to path. The image format is determined by the extension of
// path.
func SavePNG(path, title, xLabel, yLabel string, series ...Series) error {
	if len(series) == 0 {
		return errors.New("savePNG: no data to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	for i, s := range series {
		points := make(plotter.XYs, len(s.Data))
		for j, v := range s.Data {
			points[j] = plotter.XY{X: float64(j), Y: v}
		}

		line, err := plotter.NewLine(points)
		if err != nil {
			return errors.Wrapf(err, "savePNG: could not plot %v", s.Name)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "savePNG: could not save %v", path)
	}
	return nil
}

// Terminal returns a plot of data drawn with text, suitable for
// printing to a terminal
func Terminal(data []float64, caption string, height, width int) string {
	if len(data) == 0 {
		return fmt.Sprintf("%v: no data", caption)
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
