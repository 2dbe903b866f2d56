package pipeline

import (
	"fmt"
	"image"
	"image/color"
	"strconv"

	"sudoku-scanner/internal/rectify"
	"sudoku-scanner/pkg/geometry"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/mat"
)

var (
	lineColor   = color.RGBA{R: 0, G: 160, B: 255, A: 255}
	edgeColor   = color.RGBA{R: 0, G: 220, B: 0, A: 255}
	cornerColor = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	digitColor  = color.RGBA{R: 220, G: 0, B: 220, A: 255}
)

// inverse returns the homography mapping rectified coordinates back to the source.
func inverse(h [3][3]float64) ([3][3]float64, error) {
	m := mat.NewDense(3, 3, []float64{
		h[0][0], h[0][1], h[0][2],
		h[1][0], h[1][1], h[1][2],
		h[2][0], h[2][1], h[2][2],
	})
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		return [3][3]float64{}, fmt.Errorf("failed to invert homography: %w", err)
	}
	var out [3][3]float64
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r][c] = inv.At(r, c)
		}
	}
	return out, nil
}

// drawOverlay returns a BGR copy of src with merged lines, the four grid
// edges, the corners and the recognized digits drawn on it.
func drawOverlay(src gocv.Mat, stages *Stages, grid *Grid) (gocv.Mat, error) {
	out := gocv.NewMat()
	switch src.Channels() {
	case 1:
		gocv.CvtColor(src, &out, gocv.ColorGrayToBGR)
	case 4:
		gocv.CvtColor(src, &out, gocv.ColorBGRAToBGR)
	default:
		src.CopyTo(&out)
	}

	det := stages.Detection
	w, h := float64(det.Size.X), float64(det.Size.Y)

	for _, l := range det.Lines {
		if l.IsDead() {
			continue
		}
		s := l.Segment(w, h)
		gocv.Line(&out, s.P1.ImagePoint(), s.P2.ImagePoint(), lineColor, 1)
	}
	for _, l := range det.Edges.Lines() {
		s := l.Segment(w, h)
		gocv.Line(&out, s.P1.ImagePoint(), s.P2.ImagePoint(), edgeColor, 2)
	}

	thickness := max(1, min(det.Size.X, det.Size.Y)/200)
	for _, p := range det.Corners.Points() {
		gocv.Circle(&out, p.ImagePoint(), 3*thickness+2, cornerColor, thickness)
	}

	back, err := inverse(stages.Rectified.Homography)
	if err != nil {
		out.Close()
		return gocv.Mat{}, err
	}

	side := float64(stages.Cells.CellSide)
	scale := side / 40
	for r := 0; r < rectify.GridSize; r++ {
		for c := 0; c < rectify.GridSize; c++ {
			d := grid[r][c]
			if !d.Present {
				continue
			}
			center := rectify.Apply(back, geometry.Point2D{
				X: (float64(c) + 0.5) * side,
				Y: (float64(r) + 0.5) * side,
			})
			if !center.IsFinite() || !det.Corners.Contains(center) {
				continue
			}
			text := strconv.Itoa(d.Value)
			size := gocv.GetTextSize(text, gocv.FontHersheySimplex, scale, thickness)
			origin := center.ImagePoint().Add(image.Pt(-size.X/2, size.Y/2))
			gocv.PutText(&out, text, origin, gocv.FontHersheySimplex, scale, digitColor, thickness)
		}
	}

	return out, nil
}
