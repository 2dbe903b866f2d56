// Package detect finds the outer boundary of a sudoku grid in a grayscale photograph.
package detect

import (
	"image"

	"sudoku-scanner/internal/config"

	"gocv.io/x/gocv"
)

// crossKernel returns a size x size cross-shaped structuring element.
func crossKernel(size int) gocv.Mat {
	return gocv.GetStructuringElement(gocv.MorphCross, image.Point{size, size})
}

// Binarize turns a grayscale image into a mask where dark strokes are white foreground.
// The source is not modified. The caller owns the returned Mat.
func Binarize(gray gocv.Mat, p config.BinarizeParams) gocv.Mat {
	// Blur to suppress paper texture before thresholding
	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{p.BlurKernel, p.BlurKernel}, 0, 0, gocv.BorderDefault)

	// Adaptive threshold copes with uneven lighting across the page
	binary := gocv.NewMat()
	gocv.AdaptiveThreshold(blurred, &binary, 255,
		gocv.AdaptiveThresholdMean, gocv.ThresholdBinary, p.BlockSize, float32(p.C))

	// Strokes were dark; make them foreground
	gocv.BitwiseNot(binary, &binary)

	// Close small gaps in the grid lines
	kernel := crossKernel(p.KernelSize)
	defer kernel.Close()
	gocv.Dilate(binary, &binary, kernel)

	return binary
}
