package main

import (
	"context"
	"fmt"
	"log/slog"

	"sudoku-scanner/internal/config"
	"sudoku-scanner/internal/digit"
	"sudoku-scanner/internal/ocr"
)

// newRecognizer builds the digit backend named by params.Classifier.Recognizer.
func newRecognizer(ctx context.Context, params config.Params, logger *slog.Logger) (digit.Recognizer, error) {
	switch params.Classifier.Recognizer {
	case config.RecognizerSVM:
		c, err := digit.NewClassifier(ctx, params.Classifier, params.Workers, digit.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		logger.Debug("svm ready", "history", c.History())
		return c, nil
	case config.RecognizerTesseract:
		e, err := ocr.NewEngine()
		if err != nil {
			return nil, fmt.Errorf("failed to start tesseract: %w", err)
		}
		return e, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownRecognizer, params.Classifier.Recognizer)
	}
}
