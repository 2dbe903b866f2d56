package detect

import (
	"math"
	"slices"

	"sudoku-scanner/internal/config"
	"sudoku-scanner/pkg/geometry"
)

// MergeLines collapses near-duplicate Hough candidates. A line absorbed into
// another is replaced by geometry.DeadLine in place, so indices stay stable.
//
// The merge is greedy: line i takes the mean of itself and every later match,
// and each following comparison for i uses the updated value. The outcome can
// depend on input order.
func MergeLines(lines []geometry.PolarLine, width, height float64, p config.MergeParams) []geometry.PolarLine {
	out := slices.Clone(lines)
	thetaTol := geometry.Radians(p.ThetaToleranceDeg)
	maxDistSq := p.EndpointDistance * p.EndpointDistance

	for i := range out {
		if out[i].IsDead() {
			continue
		}
		for j := range out {
			if j == i || out[j].IsDead() {
				continue
			}
			cur, other := out[i], out[j]
			if math.Abs(cur.Rho-other.Rho) >= p.RhoTolerance ||
				math.Abs(cur.Theta-other.Theta) >= thetaTol {
				continue
			}

			a1, a2 := cur.BoundaryPoints(width, height)
			b1, b2 := other.BoundaryPoints(width, height)
			if a1.DistanceSq(b1) < maxDistSq && a2.DistanceSq(b2) < maxDistSq {
				out[i] = geometry.PolarLine{
					Rho:   (cur.Rho + other.Rho) / 2,
					Theta: (cur.Theta + other.Theta) / 2,
				}
				out[j] = geometry.DeadLine()
			}
		}
	}
	return out
}

// LiveLines returns the lines that were not merged away.
func LiveLines(lines []geometry.PolarLine) []geometry.PolarLine {
	live := make([]geometry.PolarLine, 0, len(lines))
	for _, l := range lines {
		if !l.IsDead() {
			live = append(live, l)
		}
	}
	return live
}
