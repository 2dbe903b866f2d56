package digit

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	apperrors "sudoku-scanner/internal/errors"

	"gonum.org/v1/gonum/floats"
)

// ModelVersion is written into every persisted model.
const ModelVersion = 1

// Machine separates two classes: a positive decision votes for Positive.
type Machine struct {
	Positive int       `json:"positive"`
	Negative int       `json:"negative"`
	Weights  []float64 `json:"weights"`
	Bias     float64   `json:"bias"`
}

// Hyperparameters records how a model was trained.
type Hyperparameters struct {
	C       float64 `json:"c"`
	MaxIter int     `json:"max_iter"`
	Epsilon float64 `json:"epsilon"`
	Seed    int64   `json:"seed"`
}

// Model is a trained one-vs-one linear classifier. It is immutable once built
// and safe for concurrent Predict calls.
type Model struct {
	Version    int             `json:"version"`
	FeatureLen int             `json:"feature_len"`
	Shape      [2]int          `json:"feature_shape"` // thumbnail width, height
	Scale      float64         `json:"scale"`
	Classes    []int           `json:"classes"`
	Machines   []Machine       `json:"machines"`
	Hyper      Hyperparameters `json:"hyperparameters"`
}

// Validate checks internal consistency of a deserialized model.
func (m *Model) Validate() error {
	if m.Version != ModelVersion {
		return fmt.Errorf("unsupported model version %d", m.Version)
	}
	if m.FeatureLen <= 0 {
		return fmt.Errorf("invalid feature length %d", m.FeatureLen)
	}
	if m.Shape[0]*m.Shape[1] != m.FeatureLen {
		return fmt.Errorf("feature shape %v does not hold %d features", m.Shape, m.FeatureLen)
	}
	if m.Scale <= 0 || math.IsNaN(m.Scale) || math.IsInf(m.Scale, 0) {
		return fmt.Errorf("invalid scale %v", m.Scale)
	}
	if len(m.Classes) < 2 {
		return fmt.Errorf("need at least two classes, have %d", len(m.Classes))
	}
	if want := len(m.Classes) * (len(m.Classes) - 1) / 2; len(m.Machines) != want {
		return fmt.Errorf("have %d machines, want %d for %d classes", len(m.Machines), want, len(m.Classes))
	}

	known := make(map[int]bool, len(m.Classes))
	for _, c := range m.Classes {
		known[c] = true
	}
	for i, mc := range m.Machines {
		if len(mc.Weights) != m.FeatureLen {
			return fmt.Errorf("machine %d has %d weights, want %d", i, len(mc.Weights), m.FeatureLen)
		}
		if !known[mc.Positive] || !known[mc.Negative] || mc.Positive == mc.Negative {
			return fmt.Errorf("machine %d separates unknown classes %d/%d", i, mc.Positive, mc.Negative)
		}
		if floats.HasNaN(mc.Weights) || math.IsNaN(mc.Bias) {
			return fmt.Errorf("machine %d has NaN weights", i)
		}
	}
	return nil
}

// Predict returns the class with the most pairwise votes for a scaled feature
// vector. Ties go to the smaller class label.
func (m *Model) Predict(x []float64) int {
	votes := make(map[int]int, len(m.Classes))
	for _, mc := range m.Machines {
		if floats.Dot(mc.Weights, x)+mc.Bias > 0 {
			votes[mc.Positive]++
		} else {
			votes[mc.Negative]++
		}
	}

	best, bestVotes := m.Classes[0], -1
	for _, c := range m.Classes {
		if votes[c] > bestVotes {
			best, bestVotes = c, votes[c]
		}
	}
	return best
}

// PredictRaw scales raw 0..255 features and predicts.
func (m *Model) PredictRaw(raw []float64) int {
	x := make([]float64, len(raw))
	floats.ScaleTo(x, m.Scale, raw)
	return m.Predict(x)
}

// Accuracy returns the fraction of samples predicted correctly.
func (m *Model) Accuracy(samples []Sample) float64 {
	if len(samples) == 0 {
		return 0
	}
	correct := 0
	for _, s := range samples {
		if m.PredictRaw(s.Features) == s.Label {
			correct++
		}
	}
	return float64(correct) / float64(len(samples))
}

// SaveModel persists a model as JSON, creating parent directories as needed.
func SaveModel(path string, m *Model) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize model: %w", err)
	}

	// Write then rename so a crash never leaves a truncated model behind.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write model: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to write model: %w", err)
	}
	return nil
}

// LoadModel reads a model written by SaveModel. A missing file returns an error
// matching fs.ErrNotExist; a file that cannot be decoded or fails validation
// returns a ModelCorrupt error.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided model path
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read model: %w", err)
	}

	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, apperrors.NewModelCorrupt(path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, apperrors.NewModelCorrupt(path, err)
	}
	return &m, nil
}
