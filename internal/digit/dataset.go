// Package digit trains and applies the linear classifier that reads printed digits from grid cells.
package digit

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"slices"
	"strconv"

	apperrors "sudoku-scanner/internal/errors"
)

// Sample is one labeled feature vector with raw 0..255 intensities.
type Sample struct {
	Label    int
	Features []float64
}

// Dataset is a rectangular set of samples.
type Dataset struct {
	Samples    []Sample
	FeatureLen int
}

// Classes returns the distinct labels in ascending order.
func (d *Dataset) Classes() []int {
	var classes []int
	for _, s := range d.Samples {
		if !slices.Contains(classes, s.Label) {
			classes = append(classes, s.Label)
		}
	}
	slices.Sort(classes)
	return classes
}

// Add appends a sample, enforcing the dataset's feature length.
func (d *Dataset) Add(s Sample) error {
	if d.FeatureLen == 0 {
		d.FeatureLen = len(s.Features)
	}
	if len(s.Features) != d.FeatureLen || d.FeatureLen == 0 {
		return apperrors.NewIrregularTrainingData("<memory>", len(d.Samples)+1,
			fmt.Sprintf("sample has %d features, want %d", len(s.Features), d.FeatureLen))
	}
	d.Samples = append(d.Samples, s)
	return nil
}

// Split shuffles a copy of the samples and moves the given fraction into a held-out set.
func (d *Dataset) Split(holdout float64, seed int64) (train, test *Dataset) {
	idx := make([]int, len(d.Samples))
	for i := range idx {
		idx[i] = i
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

	n := int(float64(len(idx)) * holdout)
	train = &Dataset{FeatureLen: d.FeatureLen}
	test = &Dataset{FeatureLen: d.FeatureLen}
	for k, i := range idx {
		if k < n {
			test.Samples = append(test.Samples, d.Samples[i])
		} else {
			train.Samples = append(train.Samples, d.Samples[i])
		}
	}
	return train, test
}

// LoadCSV reads a training corpus from path.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path) //nolint:gosec // user-provided training path
	if err != nil {
		return nil, fmt.Errorf("failed to open training data: %w", err)
	}
	defer f.Close()
	return ReadCSV(f, path)
}

// ReadCSV parses rows of "label,f0,...,fN-1". A first row whose label is not an
// integer is treated as a header. Any ragged or unparsable row fails the whole
// read before a dataset is returned.
func ReadCSV(r io.Reader, name string) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	ds := &Dataset{}
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.NewIrregularTrainingData(name, line, err.Error())
		}
		if len(rec) < 2 {
			return nil, apperrors.NewIrregularTrainingData(name, line, "row needs a label and at least one feature")
		}

		label, err := strconv.Atoi(rec[0])
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, apperrors.NewIrregularTrainingData(name, line, fmt.Sprintf("bad label %q", rec[0]))
		}

		n := len(rec) - 1
		if ds.FeatureLen == 0 {
			ds.FeatureLen = n
		} else if n != ds.FeatureLen {
			return nil, apperrors.NewIrregularTrainingData(name, line,
				fmt.Sprintf("row has %d features, earlier rows have %d", n, ds.FeatureLen))
		}

		features := make([]float64, n)
		for i, field := range rec[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, apperrors.NewIrregularTrainingData(name, line, fmt.Sprintf("bad feature %q", field))
			}
			features[i] = v
		}
		ds.Samples = append(ds.Samples, Sample{Label: label, Features: features})
	}

	if len(ds.Samples) == 0 {
		return nil, apperrors.NewIrregularTrainingData(name, 0, "no samples")
	}
	return ds, nil
}

// WriteCSV writes samples in the format ReadCSV accepts, without a header.
func WriteCSV(w io.Writer, samples []Sample) error {
	cw := csv.NewWriter(w)
	for _, s := range samples {
		rec := make([]string, 0, len(s.Features)+1)
		rec = append(rec, strconv.Itoa(s.Label))
		for _, v := range s.Features {
			rec = append(rec, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("failed to write sample: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// AppendCSV appends samples to the CSV at path, creating it if needed.
func AppendCSV(path string, samples []Sample) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // user-provided path
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	if err := WriteCSV(f, samples); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
