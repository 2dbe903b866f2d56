// Package image handles decoding photographs into grayscale Mats and writing results back out.
package image

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	apperrors "sudoku-scanner/internal/errors"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"
	_ "golang.org/x/image/tiff"
)

// Decode opens an image file, applying EXIF orientation.
// WebP files the registered decoders reject are retried with the webp package.
func Decode(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		data, readErr := os.ReadFile(path) //nolint:gosec // user-provided image path
		if readErr != nil {
			return nil, apperrors.NewUnreadableImage(path, readErr)
		}
		img, err = webp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, apperrors.NewUnreadableImage(path, err)
		}
	}
	if img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		return nil, apperrors.NewUnreadableImage(path, fmt.Errorf("zero dimensions"))
	}
	return img, nil
}

// DecodeBytes decodes an in-memory image the same way Decode does for files.
func DecodeBytes(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		img, err = webp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, apperrors.NewUnreadableImage("<memory>", err)
		}
	}
	if img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		return nil, apperrors.NewUnreadableImage("<memory>", fmt.Errorf("zero dimensions"))
	}
	return img, nil
}

// ToGray converts any image to 8-bit luminance with a zero origin.
func ToGray(img image.Image) *image.Gray {
	// imaging.Grayscale stores identical R, G and B channels.
	nrgba := imaging.Grayscale(img)
	b := nrgba.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := nrgba.Pix[y*nrgba.Stride:]
		dst := gray.Pix[y*gray.Stride:]
		for x := 0; x < b.Dx(); x++ {
			dst[x] = src[x*4]
		}
	}
	return gray
}

// GrayToMat copies a grayscale image into a new CV_8UC1 Mat.
func GrayToMat(g *image.Gray) (gocv.Mat, error) {
	w, h := g.Bounds().Dx(), g.Bounds().Dy()
	if w == 0 || h == 0 {
		return gocv.NewMat(), fmt.Errorf("empty image")
	}
	pix := make([]byte, w*h)
	for y := 0; y < h; y++ {
		off := g.PixOffset(g.Bounds().Min.X, g.Bounds().Min.Y+y)
		copy(pix[y*w:(y+1)*w], g.Pix[off:off+w])
	}
	m, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC1, pix)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to create mat: %w", err)
	}
	// The Mat borrows pix; clone so it owns its data.
	owned := m.Clone()
	m.Close()
	return owned, nil
}

// LoadGray decodes the image at path into a CV_8UC1 Mat.
func LoadGray(path string) (gocv.Mat, error) {
	img, err := Decode(path)
	if err != nil {
		return gocv.NewMat(), err
	}
	return GrayToMat(ToGray(img))
}

// SaveMat writes a Mat to path. The format follows the extension; .webp is written lossless.
func SaveMat(path string, m gocv.Mat) error {
	if m.Empty() {
		return fmt.Errorf("empty image")
	}
	img, err := m.ToImage()
	if err != nil {
		return fmt.Errorf("failed to convert mat: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if strings.EqualFold(filepath.Ext(path), ".webp") {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer f.Close()
		if err := webp.Encode(f, img, &webp.Options{Lossless: true}); err != nil {
			return fmt.Errorf("failed to encode webp: %w", err)
		}
		return nil
	}

	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}
