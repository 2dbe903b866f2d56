package detect

import (
	"math"

	apperrors "sudoku-scanner/internal/errors"
	"sudoku-scanner/pkg/geometry"

	"gonum.org/v1/gonum/mat"
)

// Intersect solves two standard-form lines by Cramer's rule.
// It returns false when the lines are parallel or cross at an angle whose sine
// is below minSine, or when the solution is not finite.
func Intersect(a, b geometry.Equation, minSine float64) (geometry.Point2D, bool) {
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return geometry.Point2D{}, false
	}

	det := mat.Det(mat.NewDense(2, 2, []float64{
		a.A, a.B,
		b.A, b.B,
	}))
	// |det| / (|na| |nb|) is the sine of the angle between the lines
	if math.Abs(det)/(na*nb) < minSine {
		return geometry.Point2D{}, false
	}

	detX := mat.Det(mat.NewDense(2, 2, []float64{
		a.C, a.B,
		b.C, b.B,
	}))
	detY := mat.Det(mat.NewDense(2, 2, []float64{
		a.A, a.C,
		b.A, b.C,
	}))

	p := geometry.Point2D{X: detX / det, Y: detY / det}
	if !p.IsFinite() {
		return geometry.Point2D{}, false
	}
	return p, true
}

// SolveCorners intersects the boundary edges of a width x height image.
// Each edge is first reduced to the two frame points used during merging.
func SolveCorners(e Edges, width, height, minSine float64) (geometry.Quad, error) {
	top := e.Top.Segment(width, height).Equation()
	bottom := e.Bottom.Segment(width, height).Equation()
	left := e.Left.Segment(width, height).Equation()
	right := e.Right.Segment(width, height).Equation()

	var q geometry.Quad
	pairs := []struct {
		name string
		a, b geometry.Equation
		dst  *geometry.Point2D
	}{
		{"top-left", left, top, &q.TopLeft},
		{"top-right", right, top, &q.TopRight},
		{"bottom-right", right, bottom, &q.BottomRight},
		{"bottom-left", left, bottom, &q.BottomLeft},
	}

	for _, pr := range pairs {
		p, ok := Intersect(pr.a, pr.b, minSine)
		if !ok {
			return geometry.Quad{}, apperrors.NewDegenerateCorner(pr.name, "edges are parallel or nearly parallel")
		}
		*pr.dst = p
	}
	return q, nil
}
