package pipeline

import (
	"fmt"

	"sudoku-scanner/internal/digit"
	"sudoku-scanner/internal/rectify"
	"sudoku-scanner/internal/sudoku"
)

// Samples pairs the non-empty cells with the digits of a known board.
// Cells the board marks as 0 are skipped; a non-empty cell the board leaves
// blank, or a blank cell the board fills, is reported as a mismatch.
func Samples(cells *rectify.Grid, known sudoku.Board, featureLen int) ([]digit.Sample, error) {
	var samples []digit.Sample
	for r := range cells.Cells {
		for c := range cells.Cells[r] {
			cell := &cells.Cells[r][c]
			label := known[r][c]
			switch {
			case label == 0 && !cell.Empty:
				return nil, fmt.Errorf("cell (%d,%d) has ink but no label", r, c)
			case label != 0 && cell.Empty:
				return nil, fmt.Errorf("cell (%d,%d) is labeled %d but looks empty", r, c, label)
			case label == 0:
				continue
			}

			features, err := digit.ExtractFeatures(cell.Patch, featureLen)
			if err != nil {
				return nil, fmt.Errorf("cell (%d,%d): %w", r, c, err)
			}
			samples = append(samples, digit.Sample{Label: label, Features: features})
		}
	}
	return samples, nil
}

// ParseBoard reads 81 cells from s, row-major. Digits 1-9 are givens; '0'
// and '.' are empty. Whitespace, '|', '-' and '+' are ignored.
func ParseBoard(s string) (sudoku.Board, error) {
	var b sudoku.Board
	n := 0
	for _, ch := range s {
		var v int
		switch {
		case ch >= '1' && ch <= '9':
			v = int(ch - '0')
		case ch == '0' || ch == '.':
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '|' || ch == '-' || ch == '+':
			continue
		default:
			return b, fmt.Errorf("unexpected character %q in board", ch)
		}
		if n >= 81 {
			return b, fmt.Errorf("board has more than 81 cells")
		}
		b[n/9][n%9] = v
		n++
	}
	if n != 81 {
		return b, fmt.Errorf("board has %d cells, want 81", n)
	}
	return b, nil
}
