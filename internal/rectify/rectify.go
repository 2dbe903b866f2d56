// Package rectify warps the detected grid onto a square and slices it into cells.
package rectify

import (
	"image"
	"math"

	apperrors "sudoku-scanner/internal/errors"
	"sudoku-scanner/pkg/geometry"

	"gocv.io/x/gocv"
)

// minCornerGap is the smallest distance allowed between adjacent corners.
const minCornerGap = 1.0

// Rectified is the grid after perspective correction.
type Rectified struct {
	Image gocv.Mat
	Side  int

	// Homography maps source image coordinates to rectified coordinates.
	Homography [3][3]float64
}

// Close releases the rectified image.
func (r *Rectified) Close() error {
	return r.Image.Close()
}

// Warp maps the quadrilateral q of src onto a square whose side is the longest
// quadrilateral edge rounded up. Corners map to (0,0), (side,0), (side,side)
// and (0,side).
func Warp(src gocv.Mat, q geometry.Quad) (*Rectified, error) {
	if src.Empty() || src.Rows() == 0 || src.Cols() == 0 {
		return nil, apperrors.NewEmptyBuffer()
	}
	if q.IsDegenerate(minCornerGap) {
		return nil, apperrors.NewDegenerateCorner("quad", "adjacent corners coincide")
	}
	if !q.IsConvex() {
		return nil, apperrors.NewDegenerateCorner("quad", "corners do not form a convex quadrilateral")
	}

	side := int(math.Ceil(q.LongestEdge()))
	s := float32(side)

	srcPts := make([]gocv.Point2f, 0, 4)
	for _, p := range q.Points() {
		srcPts = append(srcPts, gocv.Point2f{X: float32(p.X), Y: float32(p.Y)})
	}
	srcVec := gocv.NewPoint2fVectorFromPoints(srcPts)
	defer srcVec.Close()
	dstVec := gocv.NewPoint2fVectorFromPoints([]gocv.Point2f{
		{X: 0, Y: 0},
		{X: s, Y: 0},
		{X: s, Y: s},
		{X: 0, Y: s},
	})
	defer dstVec.Close()

	m := gocv.GetPerspectiveTransform2f(srcVec, dstVec)
	defer m.Close()
	if m.Empty() || m.Rows() != 3 || m.Cols() != 3 {
		return nil, apperrors.NewDegenerateCorner("quad", "no perspective transform")
	}

	var h [3][3]float64
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			v := m.GetDoubleAt(r, c)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, apperrors.NewDegenerateCorner("quad", "singular perspective transform")
			}
			h[r][c] = v
		}
	}

	dst := gocv.NewMat()
	gocv.WarpPerspective(src, &dst, m, image.Point{side, side})

	return &Rectified{Image: dst, Side: side, Homography: h}, nil
}

// Apply maps a point through a homography.
func Apply(h [3][3]float64, p geometry.Point2D) geometry.Point2D {
	x := h[0][0]*p.X + h[0][1]*p.Y + h[0][2]
	y := h[1][0]*p.X + h[1][1]*p.Y + h[1][2]
	w := h[2][0]*p.X + h[2][1]*p.Y + h[2][2]
	return geometry.Point2D{X: x / w, Y: y / w}
}
