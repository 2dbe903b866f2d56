package detect

import (
	"sudoku-scanner/internal/config"
	"sudoku-scanner/pkg/geometry"

	"gocv.io/x/gocv"
)

// DetectLines runs the standard Hough transform over a binary mask.
// The result is unordered; theta is in [0, pi).
func DetectLines(mask gocv.Mat, p config.HoughParams) []geometry.PolarLine {
	linesMat := gocv.NewMat()
	defer linesMat.Close()
	gocv.HoughLines(mask, &linesMat, float32(p.Rho), float32(geometry.Radians(p.ThetaDeg)), p.Threshold)

	lines := make([]geometry.PolarLine, 0, linesMat.Rows())
	for i := 0; i < linesMat.Rows(); i++ {
		v := linesMat.GetVecfAt(i, 0)
		lines = append(lines, geometry.PolarLine{Rho: float64(v[0]), Theta: float64(v[1])})
	}
	return lines
}
