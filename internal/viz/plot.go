package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/episim/internal/dynamo"
)

const (
	DefaultWidth  = 80
	DefaultHeight = 12
)

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Blue,
	asciigraph.Red,
	asciigraph.Yellow,
	asciigraph.Green,
}

// Trajectory overlays every compartment of traj on one chart. names label
// the columns in order; missing names fall back to x<i>.
func Trajectory(traj dynamo.Trajectory, names []string, width, height int) (string, error) {
	if len(traj) == 0 {
		return "", fmt.Errorf("%w: empty trajectory", dynamo.ErrInsufficientData)
	}
	dim := traj.Dim()
	series := make([][]float64, dim)
	labels := make([]string, dim)
	for j := 0; j < dim; j++ {
		col := traj.Column(j)
		if !finite(col) {
			return "", fmt.Errorf("%w: column %d is not finite", dynamo.ErrInvalidValue, j)
		}
		series[j] = col
		labels[j] = fmt.Sprintf("x%d", j)
		if j < len(names) {
			labels[j] = names[j]
		}
	}

	colors := make([]asciigraph.AnsiColor, dim)
	for j := range colors {
		colors[j] = seriesColors[j%len(seriesColors)]
	}

	graph := asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(colors...),
		asciigraph.Caption(strings.Join(labels, " / ")),
	)
	return graph, nil
}

// Series plots one curve with a caption.
func Series(values []float64, caption string, width, height int) (string, error) {
	if len(values) == 0 {
		return "", fmt.Errorf("%w: nothing to plot", dynamo.ErrInsufficientData)
	}
	if !finite(values) {
		return "", fmt.Errorf("%w: %s is not finite", dynamo.ErrInvalidValue, caption)
	}
	return asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	), nil
}

func finite(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
