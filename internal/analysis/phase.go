package analysis

import (
	"strings"

	"github.com/san-kum/episim/internal/dynamo"
)

type PhasePoint struct{ X, Y float64 }

// PhasePortrait2D pairs two compartments of a trajectory, e.g. S against I.
type PhasePortrait2D struct {
	XIndex, YIndex int
	Points         []PhasePoint
}

func PhasePortrait(traj dynamo.Trajectory, xIdx, yIdx int) (*PhasePortrait2D, error) {
	xs, err := Column(traj, xIdx)
	if err != nil {
		return nil, err
	}
	ys, err := Column(traj, yIdx)
	if err != nil {
		return nil, err
	}

	portrait := &PhasePortrait2D{
		XIndex: xIdx,
		YIndex: yIdx,
		Points: make([]PhasePoint, len(xs)),
	}
	for i := range xs {
		portrait.Points[i] = PhasePoint{X: xs[i], Y: ys[i]}
	}
	return portrait, nil
}

// PhasePortraitToASCII rasterises the portrait onto a width x height grid.
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y
	for _, p := range portrait.Points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.05
	maxX += rangeX * 0.05
	minY -= rangeY * 0.05
	maxY += rangeY * 0.05
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// zero axes, only where visible
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
