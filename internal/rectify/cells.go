package rectify

import (
	"fmt"
	"image"

	"sudoku-scanner/internal/config"
	apperrors "sudoku-scanner/internal/errors"

	"gocv.io/x/gocv"
)

// GridSize is the number of cells along each side of the puzzle.
const GridSize = 9

// Cell is one square of the rectified grid.
type Cell struct {
	Row, Col int

	// Bounds is the cell's region of the rectified image, clipped to the image.
	Bounds image.Rectangle

	// Patch is the binarized cell, always CellSide x CellSide.
	// Pixels beyond the image edge are background.
	Patch gocv.Mat

	// Ink is the zeroth binary moment of the patch.
	Ink   float64
	Empty bool
}

// Grid holds the 81 segmented cells.
type Grid struct {
	Cells    [GridSize][GridSize]Cell
	CellSide int

	// built counts the cells holding a patch, in row-major order.
	built int
}

// Close releases the cell patches. It is safe to call on a partly built grid
// and more than once.
func (g *Grid) Close() {
	for i := 0; i < g.built; i++ {
		g.Cells[i/GridSize][i%GridSize].Patch.Close()
	}
	g.built = 0
}

// Present returns the cells that carry enough ink to be classified, row-major.
func (g *Grid) Present() []*Cell {
	var out []*Cell
	for r := range g.Cells {
		for c := range g.Cells[r] {
			if !g.Cells[r][c].Empty {
				out = append(out, &g.Cells[r][c])
			}
		}
	}
	return out
}

// clampBlockSize keeps an adaptive threshold block odd, at least 3 and no larger than side.
func clampBlockSize(block, side int) int {
	if block > side {
		block = side
	}
	if block%2 == 0 {
		block--
	}
	if block < 3 {
		block = 3
	}
	return block
}

// Binarize re-thresholds a rectified image so ink is foreground.
// The caller owns the returned Mat.
func Binarize(rectified gocv.Mat, p config.CellParams) gocv.Mat {
	side := min(rectified.Cols(), rectified.Rows())
	binary := gocv.NewMat()
	gocv.AdaptiveThreshold(rectified, &binary, 255,
		gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinaryInv,
		clampBlockSize(p.BlockSize, side), float32(p.C))
	return binary
}

// Segment binarizes a rectified grid and slices it into 9x9 cells of side
// ceil(width/9). A cell is empty when its ink is at most EmptyRatio of its area.
func Segment(rectified gocv.Mat, p config.CellParams) (*Grid, error) {
	if rectified.Empty() {
		return nil, apperrors.NewEmptyBuffer()
	}
	if rectified.Channels() != 1 {
		return nil, fmt.Errorf("expected grayscale image, got %d channels", rectified.Channels())
	}

	binary := Binarize(rectified, p)
	defer binary.Close()

	w, h := binary.Cols(), binary.Rows()
	pix := binary.ToBytes()
	dist := (w + GridSize - 1) / GridSize
	frame := image.Rect(0, 0, w, h)
	area := float64(dist * dist)

	g := &Grid{CellSide: dist}
	for row := 0; row < GridSize; row++ {
		for col := 0; col < GridSize; col++ {
			x0, y0 := col*dist, row*dist
			patch := make([]byte, dist*dist)
			for y := 0; y < dist && y0+y < h; y++ {
				for x := 0; x < dist && x0+x < w; x++ {
					patch[y*dist+x] = pix[(y0+y)*w+x0+x]
				}
			}

			borrowed, err := gocv.NewMatFromBytes(dist, dist, gocv.MatTypeCV8UC1, patch)
			if err != nil {
				g.Close()
				return nil, fmt.Errorf("failed to create cell (%d,%d): %w", row, col, err)
			}
			mat := borrowed.Clone()
			borrowed.Close()

			ink := gocv.Moments(mat, true)["m00"]
			g.Cells[row][col] = Cell{
				Row:    row,
				Col:    col,
				Bounds: image.Rect(x0, y0, x0+dist, y0+dist).Intersect(frame),
				Patch:  mat,
				Ink:    ink,
				Empty:  ink <= area*p.EmptyRatio,
			}
			g.built++
		}
	}
	return g, nil
}
