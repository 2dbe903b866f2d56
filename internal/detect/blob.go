package detect

import (
	"fmt"

	apperrors "sudoku-scanner/internal/errors"

	"gocv.io/x/gocv"
)

// IsolateLargestBlob keeps only the largest connected foreground component of a
// binary mask and erodes it once with the cross kernel used for dilation.
// The caller owns the returned Mat.
func IsolateLargestBlob(mask gocv.Mat, kernelSize int) (gocv.Mat, error) {
	w, h := mask.Cols(), mask.Rows()
	pix := mask.ToBytes()
	if len(pix) != w*h {
		return gocv.NewMat(), fmt.Errorf("expected single-channel 8-bit mask, got %d bytes for %dx%d", len(pix), w, h)
	}

	if !keepLargestComponent(pix, w, h) {
		return gocv.NewMat(), apperrors.NewNoGridFound(w, h)
	}

	borrowed, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC1, pix)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to create mask: %w", err)
	}
	isolated := borrowed.Clone()
	borrowed.Close()

	kernel := crossKernel(kernelSize)
	defer kernel.Close()
	gocv.Erode(isolated, &isolated, kernel)

	return isolated, nil
}
