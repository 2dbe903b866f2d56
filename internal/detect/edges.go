package detect

import (
	"math"

	"sudoku-scanner/internal/config"
	apperrors "sudoku-scanner/internal/errors"
	"sudoku-scanner/pkg/geometry"
)

// Edges are the four lines bounding the grid.
type Edges struct {
	Top    geometry.PolarLine `json:"top"`
	Bottom geometry.PolarLine `json:"bottom"`
	Left   geometry.PolarLine `json:"left"`
	Right  geometry.PolarLine `json:"right"`
}

// Lines returns the edges in top, right, bottom, left order.
func (e Edges) Lines() [4]geometry.PolarLine {
	return [4]geometry.PolarLine{e.Top, e.Right, e.Bottom, e.Left}
}

// candidate is a banded line with the key it is ranked by.
type candidate struct {
	line geometry.PolarLine
	key  float64
}

// less orders by key, breaking ties on theta then rho so the choice does not
// depend on input order.
func (c candidate) less(o candidate) bool {
	if c.key != o.key {
		return c.key < o.key
	}
	if c.line.Theta != o.line.Theta {
		return c.line.Theta < o.line.Theta
	}
	return c.line.Rho < o.line.Rho
}

// SelectEdges picks the outermost near-horizontal and near-vertical lines.
// Horizontal lines are ranked by rho, vertical lines by x-intercept. Dead lines
// and lines outside both bands are ignored.
func SelectEdges(lines []geometry.PolarLine, p config.EdgeParams) (Edges, error) {
	hBand := geometry.Radians(p.HorizontalBandDeg)
	vBand := geometry.Radians(p.VerticalBandDeg)

	var horizontal, vertical []candidate
	for _, l := range lines {
		if l.IsDead() {
			continue
		}
		switch {
		case math.Abs(l.Theta-math.Pi/2) < hBand:
			horizontal = append(horizontal, candidate{line: l, key: l.Rho})
		case l.Theta < vBand || l.Theta > math.Pi-vBand:
			vertical = append(vertical, candidate{line: l, key: l.XIntercept()})
		}
	}

	top, bottom, ok := extremes(horizontal)
	if !ok {
		return Edges{}, apperrors.NewInsufficientEdges("horizontal", len(horizontal))
	}
	left, right, ok := extremes(vertical)
	if !ok {
		return Edges{}, apperrors.NewInsufficientEdges("vertical", len(vertical))
	}

	return Edges{Top: top, Bottom: bottom, Left: left, Right: right}, nil
}

// extremes returns the smallest and largest candidates, never the same one twice.
// The largest is chosen first and the smallest from the rest.
func extremes(cands []candidate) (lo, hi geometry.PolarLine, ok bool) {
	if len(cands) < 2 {
		return lo, hi, false
	}

	hiIdx := 0
	for i := 1; i < len(cands); i++ {
		if cands[hiIdx].less(cands[i]) {
			hiIdx = i
		}
	}

	loIdx := -1
	for i := range cands {
		if i == hiIdx {
			continue
		}
		if loIdx < 0 || cands[i].less(cands[loIdx]) {
			loIdx = i
		}
	}
	return cands[loIdx].line, cands[hiIdx].line, true
}
