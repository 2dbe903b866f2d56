package detect

import (
	"image"
	"log/slog"

	"sudoku-scanner/internal/config"
	apperrors "sudoku-scanner/internal/errors"
	applog "sudoku-scanner/internal/log"
	"sudoku-scanner/pkg/geometry"

	"gocv.io/x/gocv"
)

// Result holds everything found while locating the grid.
type Result struct {
	Size       image.Point          // width and height of the searched image
	Candidates []geometry.PolarLine // raw Hough output
	Lines      []geometry.PolarLine // merged candidates; dead entries kept in place
	Edges      Edges
	Corners    geometry.Quad
}

// Detector runs binarization through corner solving.
type Detector struct {
	params config.Params
	logger *slog.Logger
}

// Option configures a Detector.
type Option func(*Detector)

// WithLogger sets the logger for stage diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(d *Detector) { d.logger = l }
}

// NewDetector creates a Detector with the given parameters.
func NewDetector(params config.Params, opts ...Option) *Detector {
	d := &Detector{params: params}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = applog.OrDefault(d.logger)
	return d
}

// Detect locates the grid corners in a grayscale or BGR image.
// The input is not modified.
func (d *Detector) Detect(src gocv.Mat) (*Result, error) {
	if src.Empty() || src.Rows() == 0 || src.Cols() == 0 {
		return nil, apperrors.NewEmptyBuffer()
	}

	gray := src
	if src.Channels() != 1 {
		gray = gocv.NewMat()
		defer gray.Close()
		gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)
	}
	w, h := gray.Cols(), gray.Rows()

	mask := Binarize(gray, d.params.Binarize)
	defer mask.Close()

	grid, err := IsolateLargestBlob(mask, d.params.Binarize.KernelSize)
	if err != nil {
		return nil, err
	}
	defer grid.Close()

	candidates := DetectLines(grid, d.params.Hough)
	d.logger.Debug("hough lines", "candidates", len(candidates), "threshold", d.params.Hough.Threshold)

	merged := MergeLines(candidates, float64(w), float64(h), d.params.Merge)
	d.logger.Debug("lines merged", "live", len(LiveLines(merged)))

	edges, err := SelectEdges(merged, d.params.Edges)
	if err != nil {
		return nil, err
	}

	corners, err := SolveCorners(edges, float64(w), float64(h), d.params.Edges.MinIntersectSine)
	if err != nil {
		return nil, err
	}
	d.logger.Debug("corners solved",
		"tl", corners.TopLeft, "tr", corners.TopRight,
		"br", corners.BottomRight, "bl", corners.BottomLeft,
		"area", corners.Area())

	return &Result{
		Size:       image.Point{X: w, Y: h},
		Candidates: candidates,
		Lines:      merged,
		Edges:      edges,
		Corners:    corners,
	}, nil
}
