package geometry

import (
	"math"
	"testing"
)

func TestDeadLine(t *testing.T) {
	t.Parallel()

	if !DeadLine().IsDead() {
		t.Fatal("DeadLine() should report IsDead")
	}
	if (PolarLine{Rho: 0, Theta: 0}).IsDead() {
		t.Error("a vertical line through the origin is not dead")
	}
}

func TestBoundaryPoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		line   PolarLine
		p1, p2 Point2D
	}{
		{
			name: "horizontal line at y=40",
			line: PolarLine{Rho: 40, Theta: math.Pi / 2},
			p1:   Point2D{X: 0, Y: 40},
			p2:   Point2D{X: 200, Y: 40},
		},
		{
			name: "vertical line at x=25",
			line: PolarLine{Rho: 25, Theta: 0},
			p1:   Point2D{X: 25, Y: 0},
			p2:   Point2D{X: 25, Y: 100},
		},
		{
			name: "vertical line expressed with theta near pi",
			line: PolarLine{Rho: -25, Theta: math.Pi - 1e-9},
			p1:   Point2D{X: 25, Y: 0},
			p2:   Point2D{X: 25, Y: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p1, p2 := tt.line.BoundaryPoints(200, 100)
			if p1.Distance(tt.p1) > 1e-6 || p2.Distance(tt.p2) > 1e-6 {
				t.Errorf("BoundaryPoints = %v, %v; want %v, %v", p1, p2, tt.p1, tt.p2)
			}
		})
	}
}

func TestSegmentEquation(t *testing.T) {
	t.Parallel()

	eq := Segment{P1: Point2D{X: 0, Y: 10}, P2: Point2D{X: 100, Y: 10}}.Equation()
	// Every point with y=10 satisfies A*x + B*y = C.
	for _, x := range []float64{-5, 0, 33, 100} {
		if got := eq.A*x + eq.B*10; math.Abs(got-eq.C) > 1e-9 {
			t.Errorf("x=%v: A*x+B*y = %v, want %v", x, got, eq.C)
		}
	}
}

func TestQuadIsDegenerate(t *testing.T) {
	t.Parallel()

	square := Quad{
		TopLeft:     Point2D{X: 0, Y: 0},
		TopRight:    Point2D{X: 10, Y: 0},
		BottomRight: Point2D{X: 10, Y: 10},
		BottomLeft:  Point2D{X: 0, Y: 10},
	}
	if square.IsDegenerate(1) {
		t.Error("square should not be degenerate")
	}
	if square.LongestEdge() != 10 {
		t.Errorf("LongestEdge = %v, want 10", square.LongestEdge())
	}

	collapsed := square
	collapsed.TopRight = collapsed.TopLeft
	if !collapsed.IsDegenerate(1) {
		t.Error("coincident adjacent corners should be degenerate")
	}

	nan := square
	nan.BottomLeft.X = math.NaN()
	if !nan.IsDegenerate(1) {
		t.Error("NaN corner should be degenerate")
	}
}

func TestQuadConvexity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		quad   Quad
		convex bool
		area   float64
	}{
		{"square", Quad{Point2D{0, 0}, Point2D{10, 0}, Point2D{10, 10}, Point2D{0, 10}}, true, 100},
		{"trapezoid", Quad{Point2D{2, 0}, Point2D{8, 0}, Point2D{10, 10}, Point2D{0, 10}}, true, 80},
		{"bow tie", Quad{Point2D{0, 0}, Point2D{10, 0}, Point2D{0, 10}, Point2D{10, 10}}, false, 0},
		{"dart", Quad{Point2D{0, 0}, Point2D{10, 0}, Point2D{3, 3}, Point2D{0, 10}}, false, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.quad.IsConvex(); got != tt.convex {
				t.Errorf("IsConvex() = %v, want %v", got, tt.convex)
			}
			if got := tt.quad.Area(); math.Abs(got-tt.area) > 1e-9 {
				t.Errorf("Area() = %v, want %v", got, tt.area)
			}
		})
	}
}

func TestQuadContains(t *testing.T) {
	t.Parallel()

	q := Quad{Point2D{2, 0}, Point2D{8, 0}, Point2D{10, 10}, Point2D{0, 10}}
	for _, p := range []Point2D{{5, 5}, {1, 9}, {7.5, 1}} {
		if !q.Contains(p) {
			t.Errorf("Contains(%v) = false", p)
		}
	}
	for _, p := range []Point2D{{0.5, 1}, {11, 5}, {5, -1}, {5, 11}} {
		if q.Contains(p) {
			t.Errorf("Contains(%v) = true", p)
		}
	}
}
