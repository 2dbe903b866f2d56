// Package ocr provides a Tesseract-backed digit recognizer for grid cells.
package ocr

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"

	"sudoku-scanner/internal/digit"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"
)

// DigitChars is the whitelist for sudoku cells.
const DigitChars = "123456789"

// minHeight is the cell height Tesseract is given after upscaling.
const minHeight = 96

// Engine recognizes single printed digits using Tesseract.
// A gosseract client is not safe for concurrent use, so calls are serialized.
type Engine struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// NewEngine creates a new OCR engine configured for one digit per image.
func NewEngine() (*Engine, error) {
	client := gosseract.NewClient()

	if err := client.SetLanguage("eng"); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}

	// Digits aren't words; keep the dictionary from rewriting them
	_ = client.SetVariable("load_system_dawg", "false")
	_ = client.SetVariable("load_freq_dawg", "false")

	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_CHAR); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set PSM: %w", err)
	}
	if err := client.SetWhitelist(DigitChars); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set whitelist: %w", err)
	}

	return &Engine{client: client}, nil
}

// Close releases OCR resources.
func (e *Engine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// Recognize reads the digit in a binarized cell (ink non-zero on zero).
// It returns digit.ErrNoDigit when Tesseract finds no digit.
func (e *Engine) Recognize(patch gocv.Mat) (int, error) {
	if patch.Empty() {
		return 0, fmt.Errorf("empty image")
	}

	processed := preprocessForOCR(patch)
	defer processed.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, processed)
	if err != nil {
		return 0, fmt.Errorf("failed to encode image: %w", err)
	}
	defer buf.Close()

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.client.SetImageFromBytes(buf.GetBytes()); err != nil {
		return 0, fmt.Errorf("failed to set image: %w", err)
	}
	text, err := e.client.Text()
	if err != nil {
		return 0, fmt.Errorf("OCR failed: %w", err)
	}
	return parseDigit(text)
}

// parseDigit returns the first whitelisted digit in text.
func parseDigit(text string) (int, error) {
	i := strings.IndexAny(text, DigitChars)
	if i < 0 {
		return 0, digit.ErrNoDigit
	}
	return int(text[i] - '0'), nil
}

// preprocessForOCR turns white-on-black cell ink into dark text on a light,
// padded and upscaled image.
func preprocessForOCR(patch gocv.Mat) gocv.Mat {
	inverted := gocv.NewMat()
	defer inverted.Close()
	gocv.BitwiseNot(patch, &inverted)

	// Clear the cell border where grid line fragments survive thresholding
	margin := max(1, patch.Rows()/10)
	white := gocv.NewScalar(255, 255, 255, 0)
	rows, cols := inverted.Rows(), inverted.Cols()
	for _, r := range []image.Rectangle{
		image.Rect(0, 0, cols, margin),
		image.Rect(0, rows-margin, cols, rows),
		image.Rect(0, 0, margin, rows),
		image.Rect(cols-margin, 0, cols, rows),
	} {
		region := inverted.Region(r)
		region.SetTo(white)
		region.Close()
	}

	padded := gocv.NewMat()
	defer padded.Close()
	pad := max(4, patch.Rows()/4)
	gocv.CopyMakeBorder(inverted, &padded, pad, pad, pad, pad, gocv.BorderConstant, color.RGBA{255, 255, 255, 0})

	scaled := gocv.NewMat()
	if padded.Rows() < minHeight {
		scale := float64(minHeight) / float64(padded.Rows())
		gocv.Resize(padded, &scaled, image.Point{}, scale, scale, gocv.InterpolationCubic)
	} else {
		padded.CopyTo(&scaled)
	}
	return scaled
}
