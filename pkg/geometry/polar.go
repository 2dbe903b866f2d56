package geometry

import "math"

// deadTheta marks a line that was merged into another one.
const deadTheta = -100

// PolarLine is a line in Hough normal form: x*cos(Theta) + y*sin(Theta) = Rho.
// Theta is in radians, [0, pi) for live lines.
type PolarLine struct {
	Rho   float64 `json:"rho"`
	Theta float64 `json:"theta"`
}

// DeadLine returns the sentinel value for a merged-away line.
func DeadLine() PolarLine {
	return PolarLine{Rho: 0, Theta: deadTheta}
}

// IsDead reports whether the line is the merged-away sentinel.
func (l PolarLine) IsDead() bool {
	return l.Rho == 0 && l.Theta == deadTheta
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// IsMostlyHorizontal reports whether the line's normal lies between 45 and 135 degrees.
func (l PolarLine) IsMostlyHorizontal() bool {
	return l.Theta > Radians(45) && l.Theta < Radians(135)
}

// BoundaryPoints returns two points of the line on the frame of a width x height image.
// Mostly horizontal lines are cut at x=0 and x=width, the rest at y=0 and y=height.
func (l PolarLine) BoundaryPoints(width, height float64) (Point2D, Point2D) {
	sin, cos := math.Sincos(l.Theta)
	if l.IsMostlyHorizontal() {
		return Point2D{X: 0, Y: l.Rho / sin},
			Point2D{X: width, Y: (l.Rho - width*cos) / sin}
	}
	return Point2D{X: l.Rho / cos, Y: 0},
		Point2D{X: (l.Rho - height*sin) / cos, Y: height}
}

// Segment returns the line clipped to the frame as a two-point segment.
func (l PolarLine) Segment(width, height float64) Segment {
	p1, p2 := l.BoundaryPoints(width, height)
	return Segment{P1: p1, P2: p2}
}

// XIntercept returns where the line crosses y=0.
func (l PolarLine) XIntercept() float64 {
	return l.Rho / math.Cos(l.Theta)
}
