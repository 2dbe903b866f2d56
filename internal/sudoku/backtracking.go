package sudoku

import "math/bits"

// allDigits has bits 1..9 set.
const allDigits uint16 = 0x3fe

// solver tracks the digits already used in every row, column and box.
type solver struct {
	board *Board
	rows  [9]uint16
	cols  [9]uint16
	boxes [9]uint16
}

func newSolver(b *Board) *solver {
	s := &solver{board: b}
	for row := range b {
		for col, digit := range b[row] {
			if digit != 0 {
				s.place(row, col, digit)
			}
		}
	}
	return s
}

func (s *solver) place(row, col, digit int) {
	bit := uint16(1) << digit
	s.board[row][col] = digit
	s.rows[row] |= bit
	s.cols[col] |= bit
	s.boxes[row/3*3+col/3] |= bit
}

func (s *solver) clear(row, col, digit int) {
	bit := ^(uint16(1) << digit)
	s.board[row][col] = 0
	s.rows[row] &= bit
	s.cols[col] &= bit
	s.boxes[row/3*3+col/3] &= bit
}

// candidates returns the digits still allowed at (row, col) as a bit set.
func (s *solver) candidates(row, col int) uint16 {
	return allDigits &^ (s.rows[row] | s.cols[col] | s.boxes[row/3*3+col/3])
}

// mostConstrained returns the empty cell with the fewest candidates.
// ok is false when the board is full.
func (s *solver) mostConstrained() (row, col int, mask uint16, ok bool) {
	best := 10
	for r := range s.board {
		for c := range s.board[r] {
			if s.board[r][c] != 0 {
				continue
			}
			m := s.candidates(r, c)
			if n := bits.OnesCount16(m); n < best {
				row, col, mask, best, ok = r, c, m, n, true
				if n <= 1 {
					return
				}
			}
		}
	}
	return
}

func (s *solver) solve() bool {
	row, col, mask, ok := s.mostConstrained()
	if !ok {
		return true
	}
	for mask != 0 {
		digit := bits.TrailingZeros16(mask)
		mask &= mask - 1

		s.place(row, col, digit)
		if s.solve() {
			return true
		}
		s.clear(row, col, digit)
	}
	return false
}

// Solve returns a completed copy of the board. The givens must not conflict.
// Empty cells are filled smallest digit first, most constrained cell first.
func (b Board) Solve() (Board, error) {
	if len(b.Conflicts()) > 0 {
		return b, ErrUnsolvable
	}
	for row := range b {
		for _, digit := range b[row] {
			if digit < 0 || digit > 9 {
				return b, ErrUnsolvable
			}
		}
	}
	if !newSolver(&b).solve() {
		return b, ErrUnsolvable
	}
	return b, nil
}
