package pipeline

import (
	"strings"

	"sudoku-scanner/internal/detect"
	"sudoku-scanner/internal/rectify"
	"sudoku-scanner/internal/sudoku"
	"sudoku-scanner/pkg/geometry"

	"gocv.io/x/gocv"
)

// Digit is the recognition result for one cell.
type Digit struct {
	Value   int
	Present bool
}

// Grid is the recognized puzzle in row-major order.
type Grid [rectify.GridSize][rectify.GridSize]Digit

// Board returns the grid as a puzzle board with 0 for absent cells.
// A present cell read as 0 is also 0 on the board.
func (g *Grid) Board() sudoku.Board {
	var b sudoku.Board
	for r := range g {
		for c := range g[r] {
			if g[r][c].Present {
				b[r][c] = g[r][c].Value
			}
		}
	}
	return b
}

// Givens returns the number of cells that passed the ink test.
func (g *Grid) Givens() int {
	n := 0
	for r := range g {
		for c := range g[r] {
			if g[r][c].Present {
				n++
			}
		}
	}
	return n
}

// String renders the grid with '.' for absent cells and box separators.
func (g *Grid) String() string {
	return formatCells(func(r, c int) (int, bool) {
		return g[r][c].Value, g[r][c].Present
	})
}

// FormatBoard renders a board nine lines high with 3x3 box separators.
// Zeros print as '.'.
func FormatBoard(b sudoku.Board) string {
	return formatCells(func(r, c int) (int, bool) {
		return b[r][c], b[r][c] > 0
	})
}

func formatCells(cell func(r, c int) (int, bool)) string {
	var sb strings.Builder
	for r := 0; r < rectify.GridSize; r++ {
		if r > 0 && r%3 == 0 {
			sb.WriteString("------+-------+------\n")
		}
		for c := 0; c < rectify.GridSize; c++ {
			if c > 0 && c%3 == 0 {
				sb.WriteString("| ")
			}
			if v, ok := cell(r, c); ok {
				sb.WriteByte(byte('0' + v))
			} else {
				sb.WriteByte('.')
			}
			if c < rectify.GridSize-1 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Result is the outcome of a successful run.
type Result struct {
	Grid    Grid
	Corners geometry.Quad
	Edges   detect.Edges
	Lines   []geometry.PolarLine

	// Overlay is the input converted to BGR with the detection drawn on it.
	Overlay gocv.Mat
}

// Close releases the overlay image.
func (r *Result) Close() error {
	return r.Overlay.Close()
}
