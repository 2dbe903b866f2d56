// Package sudoku checks and solves recognized puzzles.
package sudoku

import (
	"errors"
	"fmt"
)

// Board is a 9x9 puzzle; 0 marks an empty cell.
type Board [9][9]int

// ErrUnsolvable is returned when no assignment satisfies the givens.
var ErrUnsolvable = errors.New("puzzle has no solution")

// Conflict is a pair of equal givens sharing a row, column or box.
type Conflict struct {
	Digit      int
	Unit       string // "row", "column" or "box"
	Index      int
	Cell, With [2]int
}

func (c Conflict) String() string {
	return fmt.Sprintf("%d repeated in %s %d at (%d,%d) and (%d,%d)",
		c.Digit, c.Unit, c.Index, c.Cell[0], c.Cell[1], c.With[0], c.With[1])
}

// Conflicts lists every repeated digit in the givens. Empty cells are ignored.
func (b *Board) Conflicts() []Conflict {
	var rows, cols, boxes [9][10]*[2]int
	var out []Conflict
	for row := 0; row < 9; row++ {
		for col := 0; col < 9; col++ {
			digit := b[row][col]
			if digit < 1 || digit > 9 {
				continue
			}
			here := &[2]int{row, col}
			boxIndex := row/3*3 + col/3
			if prev := rows[row][digit]; prev != nil {
				out = append(out, Conflict{Digit: digit, Unit: "row", Index: row, Cell: *prev, With: *here})
			} else {
				rows[row][digit] = here
			}
			if prev := cols[col][digit]; prev != nil {
				out = append(out, Conflict{Digit: digit, Unit: "column", Index: col, Cell: *prev, With: *here})
			} else {
				cols[col][digit] = here
			}
			if prev := boxes[boxIndex][digit]; prev != nil {
				out = append(out, Conflict{Digit: digit, Unit: "box", Index: boxIndex, Cell: *prev, With: *here})
			} else {
				boxes[boxIndex][digit] = here
			}
		}
	}
	return out
}

// Validate reports whether the board is completely and correctly filled.
func (b *Board) Validate() bool {
	var rows, cols, boxes [9][9]bool
	for row := 0; row < 9; row++ {
		for col := 0; col < 9; col++ {
			cell := b[row][col]
			if cell < 1 || cell > 9 {
				return false
			}

			digit := cell - 1
			boxIndex := row/3*3 + col/3
			if rows[row][digit] || cols[col][digit] || boxes[boxIndex][digit] {
				return false
			}

			rows[row][digit], cols[col][digit], boxes[boxIndex][digit] = true, true, true
		}
	}
	return true
}
