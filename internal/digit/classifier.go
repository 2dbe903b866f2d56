package digit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"sudoku-scanner/internal/config"
	applog "sudoku-scanner/internal/log"

	"gocv.io/x/gocv"
)

// State tracks how a Classifier obtained its model.
type State int

const (
	StateUninitialized State = iota
	StateTrainingDataLoaded
	StateModelLoadedFromCache
	StateModelTrained
	StateReady
)

func (s State) String() string {
	switch s {
	case StateTrainingDataLoaded:
		return "TrainingDataLoaded"
	case StateModelLoadedFromCache:
		return "ModelLoadedFromCache"
	case StateModelTrained:
		return "ModelTrained"
	case StateReady:
		return "Ready"
	default:
		return "Uninitialized"
	}
}

// ErrNoDigit is returned by a Recognizer that found no digit in an inked cell.
var ErrNoDigit = errors.New("no digit recognized")

// Recognizer reads the digit in a binarized cell patch (ink is non-zero).
type Recognizer interface {
	Recognize(patch gocv.Mat) (int, error)
	Close() error
}

// Classifier is the SVM-backed Recognizer.
type Classifier struct {
	model   *Model
	history []State
	logger  *slog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithLogger sets the logger used while loading or training.
func WithLogger(l *slog.Logger) Option {
	return func(c *Classifier) { c.logger = l }
}

func newClassifier(opts []Option) *Classifier {
	c := &Classifier{history: []State{StateUninitialized}}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = applog.OrDefault(c.logger)
	return c
}

func (c *Classifier) advance(s State) {
	c.history = append(c.history, s)
}

// NewClassifierFromModel wraps an existing model.
func NewClassifierFromModel(m *Model, opts ...Option) (*Classifier, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model: %w", err)
	}
	c := newClassifier(opts)
	c.model = m
	c.advance(StateReady)
	return c, nil
}

// NewClassifier loads the cached model at p.ModelPath, or trains one from
// p.TrainingPath and caches it when no model file exists. A model file that
// exists but cannot be used is an error; it is never silently replaced.
func NewClassifier(ctx context.Context, p config.ClassifierParams, workers int, opts ...Option) (*Classifier, error) {
	c := newClassifier(opts)

	if p.ModelPath != "" {
		m, err := LoadModel(p.ModelPath)
		switch {
		case err == nil:
			c.model = m
			c.advance(StateModelLoadedFromCache)
			c.advance(StateReady)
			c.logger.Debug("model loaded", "path", p.ModelPath, "classes", m.Classes, "features", m.FeatureLen)
			return c, nil
		case !errors.Is(err, os.ErrNotExist):
			return nil, err
		}
	}

	ds, err := LoadCSV(p.TrainingPath)
	if err != nil {
		return nil, err
	}
	c.advance(StateTrainingDataLoaded)
	c.logger.Debug("training data loaded", "path", p.TrainingPath, "samples", len(ds.Samples), "features", ds.FeatureLen)

	m, err := Train(ctx, ds, TrainParams{
		C:       p.C,
		MaxIter: p.MaxIter,
		Epsilon: p.Epsilon,
		Scale:   p.Scale,
		Seed:    p.Seed,
		Workers: workers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to train classifier: %w", err)
	}
	c.model = m
	c.advance(StateModelTrained)
	c.logger.Info("classifier trained", "samples", len(ds.Samples), "accuracy", m.Accuracy(ds.Samples))

	if p.ModelPath != "" {
		if err := SaveModel(p.ModelPath, m); err != nil {
			return nil, err
		}
		c.logger.Debug("model saved", "path", p.ModelPath)
	}

	c.advance(StateReady)
	return c, nil
}

// State returns the current lifecycle state.
func (c *Classifier) State() State {
	return c.history[len(c.history)-1]
}

// History returns every state the classifier passed through.
func (c *Classifier) History() []State {
	return append([]State(nil), c.history...)
}

// Model returns the underlying model.
func (c *Classifier) Model() *Model {
	return c.model
}

// Classify predicts the label of a cell patch. It is safe for concurrent use.
func (c *Classifier) Classify(patch gocv.Mat) (int, error) {
	raw, err := ExtractFeatures(patch, c.model.FeatureLen)
	if err != nil {
		return 0, err
	}
	return c.model.PredictRaw(raw), nil
}

// Recognize implements Recognizer.
func (c *Classifier) Recognize(patch gocv.Mat) (int, error) {
	return c.Classify(patch)
}

// Close implements Recognizer.
func (c *Classifier) Close() error {
	return nil
}
