package geometry

import "math"

// IsConvex returns true if the corners, taken in order, turn the same way at
// every vertex. A self-intersecting (bow-tie) quad is not convex.
func (q Quad) IsConvex() bool {
	pts := q.Points()
	n := len(pts)
	var sign int

	for i := 0; i < n; i++ {
		cross := crossProduct(pts[i], pts[(i+1)%n], pts[(i+2)%n])
		if cross == 0 {
			continue
		}

		currentSign := 1
		if cross < 0 {
			currentSign = -1
		}
		if sign == 0 {
			sign = currentSign
		} else if currentSign != sign {
			return false
		}
	}
	return sign != 0
}

// Area returns the unsigned area enclosed by the corners (shoelace formula).
func (q Quad) Area() float64 {
	pts := q.Points()
	sum := 0.0
	for i := range pts {
		j := (i + 1) % len(pts)
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return math.Abs(sum) / 2
}

// Contains tests if a point is inside the quad using ray casting.
func (q Quad) Contains(p Point2D) bool {
	pts := q.Points()
	inside := false
	n := len(pts)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := pts[i], pts[j]

		// Check if ray from p going right intersects edge pi-pj
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}

	return inside
}

// crossProduct computes the cross product of vectors OA and OB.
func crossProduct(o, a, b Point2D) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}
