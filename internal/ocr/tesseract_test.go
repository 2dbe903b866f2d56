package ocr

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"sudoku-scanner/internal/digit"

	"gocv.io/x/gocv"
)

func TestParseDigit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want int
	}{
		{"7", 7},
		{" 3\n", 3},
		{"l9", 9},
	}
	for _, tt := range tests {
		got, err := parseDigit(tt.text)
		if err != nil || got != tt.want {
			t.Errorf("parseDigit(%q) = %d, %v, want %d", tt.text, got, err, tt.want)
		}
	}

	for _, text := range []string{"", "0", "??"} {
		if _, err := parseDigit(text); !errors.Is(err, digit.ErrNoDigit) {
			t.Errorf("parseDigit(%q) error = %v, want ErrNoDigit", text, err)
		}
	}
}

func TestPreprocessForOCR(t *testing.T) {
	t.Parallel()

	patch := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 40, 40, gocv.MatTypeCV8UC1)
	defer patch.Close()
	ink := color.RGBA{255, 255, 255, 0}
	gocv.Line(&patch, image.Pt(20, 8), image.Pt(20, 32), ink, 4)
	gocv.Line(&patch, image.Pt(0, 0), image.Pt(39, 0), ink, 2) // grid fragment

	out := preprocessForOCR(patch)
	defer out.Close()

	if out.Rows() < minHeight {
		t.Errorf("rows = %d, want at least %d", out.Rows(), minHeight)
	}
	if got := out.GetUCharAt(0, 0); got != 255 {
		t.Errorf("padding = %d, want white", got)
	}
	if gocv.CountNonZero(out) == out.Rows()*out.Cols() {
		t.Error("digit stroke was lost")
	}

	// The border fragment must be cleared: scan the row where it was, inside the padding.
	pad := max(4, 40/4)
	scale := float64(out.Rows()) / float64(40+2*pad)
	y := int(float64(pad) * scale)
	for x := int(float64(pad+5) * scale); x < int(float64(pad+15)*scale); x++ {
		if out.GetUCharAt(y, x) < 128 {
			t.Fatalf("border fragment survived at (%d,%d)", x, y)
		}
	}
}
