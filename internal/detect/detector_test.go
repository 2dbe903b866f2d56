package detect

import (
	"errors"
	"image"
	"testing"

	"sudoku-scanner/internal/config"
	apperrors "sudoku-scanner/internal/errors"
	"sudoku-scanner/pkg/geometry"

	"gocv.io/x/gocv"
)

// drawGrid renders a 9x9 grid with its outer frame at [lo, hi] on a white page.
func drawGrid(size, lo, hi int) gocv.Mat {
	m := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0), size, size, gocv.MatTypeCV8UC1)
	step := float64(hi-lo) / 9
	for i := 0; i <= 9; i++ {
		p := lo + int(float64(i)*step+0.5)
		gocv.Line(&m, image.Pt(p, lo), image.Pt(p, hi), black, 2)
		gocv.Line(&m, image.Pt(lo, p), image.Pt(hi, p), black, 2)
	}
	return m
}

func TestDetectSyntheticGrid(t *testing.T) {
	t.Parallel()

	img := drawGrid(300, 30, 270)
	defer img.Close()

	params := config.DefaultParams().WithHoughThreshold(120)
	res, err := NewDetector(params).Detect(img)
	if err != nil {
		t.Fatalf("Detect() = %v", err)
	}

	want := [4]geometry.Point2D{{X: 30, Y: 30}, {X: 270, Y: 30}, {X: 270, Y: 270}, {X: 30, Y: 270}}
	for i, p := range res.Corners.Points() {
		if p.Distance(want[i]) > 4 {
			t.Errorf("corner %d = %v, want within 4px of %v", i, p, want[i])
		}
	}
	if res.Size != image.Pt(300, 300) {
		t.Errorf("Size = %v", res.Size)
	}
	if len(res.Lines) != len(res.Candidates) {
		t.Errorf("merged lines %d != candidates %d", len(res.Lines), len(res.Candidates))
	}
}

func TestDetectBlankPage(t *testing.T) {
	t.Parallel()

	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0), 100, 100, gocv.MatTypeCV8UC1)
	defer img.Close()

	_, err := NewDetector(config.DefaultParams()).Detect(img)
	if !errors.Is(err, apperrors.ErrNoGridFound) {
		t.Errorf("Detect() = %v, want NoGridFound", err)
	}
}

func TestDetectDoesNotModifyInput(t *testing.T) {
	t.Parallel()

	img := drawGrid(300, 30, 270)
	defer img.Close()
	before := img.Clone()
	defer before.Close()

	_, _ = NewDetector(config.DefaultParams().WithHoughThreshold(120)).Detect(img)

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(img, before, &diff)
	if n := gocv.CountNonZero(diff); n != 0 {
		t.Errorf("input changed in %d pixels", n)
	}
}

func TestDetectEmptyBuffer(t *testing.T) {
	t.Parallel()

	empty := gocv.NewMat()
	defer empty.Close()

	_, err := NewDetector(config.DefaultParams()).Detect(empty)
	if !errors.Is(err, apperrors.ErrUnreadableImage) {
		t.Errorf("Detect() = %v, want UnreadableImage", err)
	}
}
