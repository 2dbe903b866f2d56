package rectify

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"sudoku-scanner/internal/config"
	apperrors "sudoku-scanner/internal/errors"
	"sudoku-scanner/pkg/geometry"

	"gocv.io/x/gocv"
)

func square(s float64) geometry.Quad {
	return geometry.Quad{
		TopLeft:     geometry.Point2D{X: 0, Y: 0},
		TopRight:    geometry.Point2D{X: s, Y: 0},
		BottomRight: geometry.Point2D{X: s, Y: s},
		BottomLeft:  geometry.Point2D{X: 0, Y: s},
	}
}

func TestWarpIdentity(t *testing.T) {
	t.Parallel()

	const side = 64
	src := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(200, 0, 0, 0), side, side, gocv.MatTypeCV8UC1)
	defer src.Close()
	gocv.Circle(&src, image.Pt(20, 30), 9, color.RGBA{10, 10, 10, 0}, -1)
	gocv.Line(&src, image.Pt(0, 50), image.Pt(63, 55), color.RGBA{90, 90, 90, 0}, 3)

	r, err := Warp(src, square(side))
	if err != nil {
		t.Fatalf("Warp() = %v", err)
	}
	defer r.Close()

	if r.Side != side {
		t.Fatalf("Side = %d, want %d", r.Side, side)
	}
	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(src, r.Image, &diff)
	if n := gocv.CountNonZero(diff); n != 0 {
		t.Errorf("identity warp changed %d pixels", n)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			if math.Abs(r.Homography[i][j]-want) > 1e-9 {
				t.Errorf("H[%d][%d] = %v, want %v", i, j, r.Homography[i][j], want)
			}
		}
	}
}

func TestWarpPerspective(t *testing.T) {
	t.Parallel()

	src := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0), 200, 200, gocv.MatTypeCV8UC1)
	defer src.Close()

	q := geometry.Quad{
		TopLeft:     geometry.Point2D{X: 20, Y: 30},
		TopRight:    geometry.Point2D{X: 170, Y: 20},
		BottomRight: geometry.Point2D{X: 180, Y: 160},
		BottomLeft:  geometry.Point2D{X: 25, Y: 175},
	}
	r, err := Warp(src, q)
	if err != nil {
		t.Fatalf("Warp() = %v", err)
	}
	defer r.Close()

	if want := int(math.Ceil(q.LongestEdge())); r.Side != want {
		t.Errorf("Side = %d, want %d", r.Side, want)
	}
	if r.Image.Cols() != r.Side || r.Image.Rows() != r.Side {
		t.Errorf("image %dx%d, want square of %d", r.Image.Cols(), r.Image.Rows(), r.Side)
	}

	s := float64(r.Side)
	want := [4]geometry.Point2D{{X: 0, Y: 0}, {X: s, Y: 0}, {X: s, Y: s}, {X: 0, Y: s}}
	for i, p := range q.Points() {
		if got := Apply(r.Homography, p); got.Distance(want[i]) > 1e-3 {
			t.Errorf("corner %d maps to %v, want %v", i, got, want[i])
		}
	}
}

func TestWarpDegenerate(t *testing.T) {
	t.Parallel()

	src := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0), 50, 50, gocv.MatTypeCV8UC1)
	defer src.Close()

	collapsed := square(40)
	collapsed.TopRight = collapsed.TopLeft

	twisted := square(40)
	twisted.BottomRight, twisted.BottomLeft = twisted.BottomLeft, twisted.BottomRight

	for _, q := range []geometry.Quad{collapsed, twisted} {
		_, err := Warp(src, q)
		if !errors.Is(err, apperrors.ErrDegenerateCorner) {
			t.Errorf("Warp(%+v) = %v, want DegenerateCorner", q, err)
		}
	}
}

func TestSegmentTiling(t *testing.T) {
	t.Parallel()

	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0), 90, 90, gocv.MatTypeCV8UC1)
	defer img.Close()

	g, err := Segment(img, config.DefaultParams().Cells)
	if err != nil {
		t.Fatalf("Segment() = %v", err)
	}
	defer g.Close()

	if g.CellSide != 10 {
		t.Fatalf("CellSide = %d, want 10", g.CellSide)
	}

	covered := make([]int, 90*90)
	for r := 0; r < GridSize; r++ {
		for c := 0; c < GridSize; c++ {
			cell := g.Cells[r][c]
			if cell.Row != r || cell.Col != c {
				t.Errorf("cell (%d,%d) labelled (%d,%d)", r, c, cell.Row, cell.Col)
			}
			if cell.Bounds.Dx() != 10 || cell.Bounds.Dy() != 10 {
				t.Errorf("cell (%d,%d) bounds %v", r, c, cell.Bounds)
			}
			for y := cell.Bounds.Min.Y; y < cell.Bounds.Max.Y; y++ {
				for x := cell.Bounds.Min.X; x < cell.Bounds.Max.X; x++ {
					covered[y*90+x]++
				}
			}
			if !cell.Empty {
				t.Errorf("blank cell (%d,%d) reported present", r, c)
			}
		}
	}
	for i, n := range covered {
		if n != 1 {
			t.Fatalf("pixel %d covered %d times", i, n)
		}
	}
	if len(g.Present()) != 0 {
		t.Errorf("Present() = %d cells, want 0", len(g.Present()))
	}
}

func TestSegmentDetectsInk(t *testing.T) {
	t.Parallel()

	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0), 180, 180, gocv.MatTypeCV8UC1)
	defer img.Close()
	// A solid blob filling most of cell (4, 6)
	gocv.Rectangle(&img, image.Rect(6*20+3, 4*20+3, 7*20-3, 5*20-3), color.RGBA{0, 0, 0, 0}, -1)

	g, err := Segment(img, config.DefaultParams().Cells)
	if err != nil {
		t.Fatalf("Segment() = %v", err)
	}
	defer g.Close()

	present := g.Present()
	if len(present) != 1 || present[0].Row != 4 || present[0].Col != 6 {
		for _, c := range present {
			t.Logf("present: (%d,%d) ink=%v", c.Row, c.Col, c.Ink)
		}
		t.Fatalf("expected only cell (4,6) present")
	}
}

func TestSegmentClipsLastCells(t *testing.T) {
	t.Parallel()

	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0), 100, 100, gocv.MatTypeCV8UC1)
	defer img.Close()

	g, err := Segment(img, config.DefaultParams().Cells)
	if err != nil {
		t.Fatalf("Segment() = %v", err)
	}
	defer g.Close()

	// ceil(100/9) = 12, so the last column starts at 96 and is clipped to 4 pixels.
	last := g.Cells[8][8]
	if g.CellSide != 12 || last.Bounds != image.Rect(96, 96, 100, 100) {
		t.Errorf("CellSide=%d last bounds=%v", g.CellSide, last.Bounds)
	}
	if last.Patch.Cols() != 12 || last.Patch.Rows() != 12 {
		t.Errorf("patch %dx%d, want 12x12", last.Patch.Cols(), last.Patch.Rows())
	}
	if got := last.Patch.GetUCharAt(11, 11); got != 0 {
		t.Errorf("out-of-range pixel = %d, want background", got)
	}
}

func TestClampBlockSize(t *testing.T) {
	t.Parallel()

	tests := []struct{ block, side, want int }{
		{101, 500, 101},
		{101, 90, 89},
		{101, 91, 91},
		{101, 2, 3},
	}
	for _, tt := range tests {
		if got := clampBlockSize(tt.block, tt.side); got != tt.want {
			t.Errorf("clampBlockSize(%d, %d) = %d, want %d", tt.block, tt.side, got, tt.want)
		}
	}
}

func TestEmptyBuffer(t *testing.T) {
	t.Parallel()

	empty := gocv.NewMat()
	defer empty.Close()

	if _, err := Warp(empty, square(40)); !errors.Is(err, apperrors.ErrUnreadableImage) {
		t.Errorf("Warp() = %v, want UnreadableImage", err)
	}
	if _, err := Segment(empty, config.DefaultParams().Cells); !errors.Is(err, apperrors.ErrUnreadableImage) {
		t.Errorf("Segment() = %v, want UnreadableImage", err)
	}
}

func TestGridCloseOnlyBuiltCells(t *testing.T) {
	t.Parallel()

	var unbuilt Grid
	unbuilt.Close()

	partial := &Grid{CellSide: 4}
	partial.Cells[0][0].Patch = gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 4, 4, gocv.MatTypeCV8UC1)
	partial.built = 1
	partial.Close()
	if partial.built != 0 {
		t.Errorf("built = %d after Close, want 0", partial.built)
	}
	partial.Close()

	src := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0), 90, 90, gocv.MatTypeCV8UC1)
	defer src.Close()
	g, err := Segment(src, config.DefaultParams().Cells)
	if err != nil {
		t.Fatalf("Segment() = %v", err)
	}
	if g.built != GridSize*GridSize {
		t.Errorf("built = %d, want %d", g.built, GridSize*GridSize)
	}
	g.Close()
}
