package detect

import "image"

// Temporary and final labels used while isolating the largest component.
const (
	labelPending byte = 64
	labelKeep    byte = 255
	labelErase   byte = 0

	foregroundMin byte = 128
)

// floodFill relabels the 4-connected region of pixels matching match that contains
// (x, y) and returns its area. The fill is iterative so large regions cannot
// exhaust the goroutine stack.
func floodFill(pix []byte, w, h, x, y int, match func(byte) bool, label byte) int {
	if x < 0 || x >= w || y < 0 || y >= h || !match(pix[y*w+x]) {
		return 0
	}

	area := 0
	stack := []image.Point{{X: x, Y: y}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= w || p.Y < 0 || p.Y >= h {
			continue
		}
		idx := p.Y*w + p.X
		if !match(pix[idx]) {
			continue
		}
		pix[idx] = label
		area++

		stack = append(stack,
			image.Point{X: p.X + 1, Y: p.Y},
			image.Point{X: p.X - 1, Y: p.Y},
			image.Point{X: p.X, Y: p.Y + 1},
			image.Point{X: p.X, Y: p.Y - 1},
		)
	}
	return area
}

func isForeground(v byte) bool { return v >= foregroundMin }

func isPending(v byte) bool { return v == labelPending }

// keepLargestComponent labels every foreground component, keeps the largest as
// 255 and erases the rest. It returns false when there is no foreground at all.
func keepLargestComponent(pix []byte, w, h int) bool {
	maxArea := 0
	var seed image.Point

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !isForeground(pix[y*w+x]) {
				continue
			}
			area := floodFill(pix, w, h, x, y, isForeground, labelPending)
			if area > maxArea {
				maxArea = area
				seed = image.Point{X: x, Y: y}
			}
		}
	}
	if maxArea == 0 {
		return false
	}

	floodFill(pix, w, h, seed.X, seed.Y, isPending, labelKeep)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if pix[y*w+x] == labelPending {
				floodFill(pix, w, h, x, y, isPending, labelErase)
			}
		}
	}
	return true
}
