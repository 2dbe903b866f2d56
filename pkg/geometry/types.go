// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"image"
	"math"
)

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint2D creates a new Point2D.
func NewPoint2D(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceSq returns the squared Euclidean distance to another point.
func (p Point2D) DistanceSq(other Point2D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx + dy*dy
}

// Sub returns the difference of two points.
func (p Point2D) Sub(other Point2D) Point2D {
	return Point2D{X: p.X - other.X, Y: p.Y - other.Y}
}

// IsFinite reports whether both coordinates are finite numbers.
func (p Point2D) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// ImagePoint rounds the point to integer pixel coordinates.
func (p Point2D) ImagePoint() image.Point {
	return image.Point{X: int(math.Round(p.X)), Y: int(math.Round(p.Y))}
}

// Segment is a line segment between two points.
type Segment struct {
	P1 Point2D `json:"p1"`
	P2 Point2D `json:"p2"`
}

// Equation returns the standard form A*x + B*y = C of the line through the segment.
func (s Segment) Equation() Equation {
	a := s.P2.Y - s.P1.Y
	b := s.P1.X - s.P2.X
	return Equation{A: a, B: b, C: a*s.P1.X + b*s.P1.Y}
}

// Equation is a line in standard form: A*x + B*y = C.
type Equation struct {
	A, B, C float64
}

// Norm returns the length of the (A, B) normal vector.
func (e Equation) Norm() float64 {
	return math.Hypot(e.A, e.B)
}

// Quad is a quadrilateral with named corners.
type Quad struct {
	TopLeft     Point2D `json:"top_left"`
	TopRight    Point2D `json:"top_right"`
	BottomRight Point2D `json:"bottom_right"`
	BottomLeft  Point2D `json:"bottom_left"`
}

// Points returns the corners ordered TL, TR, BR, BL.
func (q Quad) Points() [4]Point2D {
	return [4]Point2D{q.TopLeft, q.TopRight, q.BottomRight, q.BottomLeft}
}

// EdgeLengths returns the lengths of the top, right, bottom and left edges.
func (q Quad) EdgeLengths() [4]float64 {
	return [4]float64{
		q.TopLeft.Distance(q.TopRight),
		q.TopRight.Distance(q.BottomRight),
		q.BottomRight.Distance(q.BottomLeft),
		q.BottomLeft.Distance(q.TopLeft),
	}
}

// LongestEdge returns the length of the longest edge.
func (q Quad) LongestEdge() float64 {
	longest := 0.0
	for _, l := range q.EdgeLengths() {
		longest = math.Max(longest, l)
	}
	return longest
}

// IsDegenerate returns true if any two adjacent corners are closer than minEdge,
// or if any corner is not a finite point.
func (q Quad) IsDegenerate(minEdge float64) bool {
	for _, p := range q.Points() {
		if !p.IsFinite() {
			return true
		}
	}
	for _, l := range q.EdgeLengths() {
		if l < minEdge {
			return true
		}
	}
	return false
}
