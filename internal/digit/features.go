package digit

import (
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"
)

// FeatureShape returns the width and height a cell is resized to before
// flattening. Square lengths give a square thumbnail; anything else a single row.
func FeatureShape(n int) image.Point {
	k := int(math.Round(math.Sqrt(float64(n))))
	if k*k == n {
		return image.Point{X: k, Y: k}
	}
	return image.Point{X: n, Y: 1}
}

// ExtractFeatures resizes a single-channel cell patch and flattens it row-major
// into n raw intensities.
func ExtractFeatures(patch gocv.Mat, n int) ([]float64, error) {
	if patch.Empty() {
		return nil, fmt.Errorf("empty cell")
	}
	if patch.Channels() != 1 {
		return nil, fmt.Errorf("expected single-channel cell, got %d channels", patch.Channels())
	}

	f32 := gocv.NewMat()
	defer f32.Close()
	patch.ConvertTo(&f32, gocv.MatTypeCV32F)

	shape := FeatureShape(n)
	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(f32, &resized, shape, 0, 0, gocv.InterpolationArea)

	out := make([]float64, 0, n)
	for y := 0; y < shape.Y; y++ {
		for x := 0; x < shape.X; x++ {
			out = append(out, float64(resized.GetFloatAt(y, x)))
		}
	}
	return out, nil
}
