package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sudoku-scanner/internal/config"
	"sudoku-scanner/internal/detect"
	"sudoku-scanner/internal/digit"
	apperrors "sudoku-scanner/internal/errors"
	applog "sudoku-scanner/internal/log"
	"sudoku-scanner/internal/rectify"

	"gocv.io/x/gocv"
	"golang.org/x/sync/errgroup"
)

// Pipeline turns an image into a recognized grid.
type Pipeline struct {
	params     config.Params
	recognizer digit.Recognizer
	detector   *detect.Detector
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for stage diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a Pipeline. The recognizer may be nil when only Locate is used.
func New(params config.Params, recognizer digit.Recognizer, opts ...Option) *Pipeline {
	p := &Pipeline{
		params:     params,
		recognizer: recognizer,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = applog.OrDefault(p.logger)
	p.detector = detect.NewDetector(params, detect.WithLogger(p.logger))
	return p
}

// Stages holds the intermediate products of Locate.
type Stages struct {
	Detection *detect.Result
	Rectified *rectify.Rectified
	Cells     *rectify.Grid
}

// Close releases the rectified image and cell patches.
func (s *Stages) Close() {
	if s.Cells != nil {
		s.Cells.Close()
	}
	if s.Rectified != nil {
		s.Rectified.Close()
	}
}

// Locate detects the grid in src, rectifies it and segments the cells.
// src may be grayscale or BGR and is not modified.
func (p *Pipeline) Locate(src gocv.Mat) (*Stages, error) {
	if src.Empty() || src.Rows() == 0 || src.Cols() == 0 {
		return nil, apperrors.NewEmptyBuffer()
	}

	gray := src
	if src.Channels() != 1 {
		gray = gocv.NewMat()
		defer gray.Close()
		gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)
	}

	det, err := p.detector.Detect(gray)
	if err != nil {
		return nil, err
	}

	rect, err := rectify.Warp(gray, det.Corners)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("grid rectified", "side", rect.Side)

	cells, err := rectify.Segment(rect.Image, p.params.Cells)
	if err != nil {
		rect.Close()
		return nil, err
	}
	p.logger.Debug("cells segmented", "side", cells.CellSide, "present", len(cells.Present()))

	return &Stages{Detection: det, Rectified: rect, Cells: cells}, nil
}

// Run locates the grid, recognizes every non-empty cell and draws the overlay.
// Any stage error aborts the run; no partial grid is returned.
func (p *Pipeline) Run(ctx context.Context, src gocv.Mat) (*Result, error) {
	if p.recognizer == nil {
		return nil, fmt.Errorf("pipeline has no recognizer")
	}

	start := time.Now()
	stages, err := p.Locate(src)
	if err != nil {
		return nil, err
	}
	defer stages.Close()

	grid, err := p.recognize(ctx, stages.Cells)
	if err != nil {
		return nil, err
	}

	overlay, err := drawOverlay(src, stages, &grid)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("scan complete", "givens", grid.Givens(), "elapsed", time.Since(start))

	return &Result{
		Grid:    grid,
		Corners: stages.Detection.Corners,
		Edges:   stages.Detection.Edges,
		Lines:   detect.LiveLines(stages.Detection.Lines),
		Overlay: overlay,
	}, nil
}

// recognize classifies the present cells concurrently. Each goroutine writes
// only its own cell's slot. Presence comes from the ink test alone; a backend
// that cannot read an inked cell leaves it present with value 0.
func (p *Pipeline) recognize(ctx context.Context, cells *rectify.Grid) (Grid, error) {
	var grid Grid

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, p.params.Workers))

	for _, cell := range cells.Present() {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			value, err := p.recognizer.Recognize(cell.Patch)
			switch {
			case errors.Is(err, digit.ErrNoDigit):
				p.logger.Warn("cell not read", "row", cell.Row, "col", cell.Col)
				value = 0
			case err != nil:
				return fmt.Errorf("failed to recognize cell (%d,%d): %w", cell.Row, cell.Col, err)
			}
			grid[cell.Row][cell.Col] = Digit{Value: value, Present: true}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Grid{}, err
	}
	return grid, nil
}
