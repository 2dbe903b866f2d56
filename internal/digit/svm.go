package digit

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	apperrors "sudoku-scanner/internal/errors"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// TrainParams are the hyperparameters of the one-vs-one linear C-SVC.
type TrainParams struct {
	C       float64 // soft-margin penalty
	MaxIter int     // passes over the data per machine
	Epsilon float64 // stop when the projected gradient spread falls below this
	Scale   float64 // multiplies raw intensities before training and prediction
	Seed    int64
	Workers int // machines trained concurrently
}

// Train fits one linear machine per class pair. Samples keep their raw
// intensities; Scale is applied here and stored in the model.
func Train(ctx context.Context, ds *Dataset, p TrainParams) (*Model, error) {
	if ds == nil || len(ds.Samples) == 0 {
		return nil, apperrors.NewIrregularTrainingData("<dataset>", 0, "no samples")
	}
	classes := ds.Classes()
	if len(classes) < 2 {
		return nil, apperrors.NewIrregularTrainingData("<dataset>", 0,
			fmt.Sprintf("need at least two classes, found %d", len(classes)))
	}

	// Scale once and append the constant bias feature.
	byClass := make(map[int][][]float64, len(classes))
	for _, s := range ds.Samples {
		if len(s.Features) != ds.FeatureLen {
			return nil, apperrors.NewIrregularTrainingData("<dataset>", 0, "ragged sample")
		}
		x := make([]float64, ds.FeatureLen+1)
		floats.ScaleTo(x[:ds.FeatureLen], p.Scale, s.Features)
		x[ds.FeatureLen] = 1
		byClass[s.Label] = append(byClass[s.Label], x)
	}

	type pair struct{ pos, neg int }
	var pairs []pair
	for i := 0; i < len(classes); i++ {
		for j := i + 1; j < len(classes); j++ {
			pairs = append(pairs, pair{classes[i], classes[j]})
		}
	}

	machines := make([]Machine, len(pairs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, p.Workers))
	for k, pr := range pairs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			pos, neg := byClass[pr.pos], byClass[pr.neg]
			x := make([][]float64, 0, len(pos)+len(neg))
			y := make([]float64, 0, len(pos)+len(neg))
			for _, v := range pos {
				x = append(x, v)
				y = append(y, 1)
			}
			for _, v := range neg {
				x = append(x, v)
				y = append(y, -1)
			}
			rng := rand.New(rand.NewSource(p.Seed + int64(k)))
			w := trainBinary(x, y, p.C, p.MaxIter, p.Epsilon, rng)
			machines[k] = Machine{
				Positive: pr.pos,
				Negative: pr.neg,
				Weights:  w[:ds.FeatureLen],
				Bias:     w[ds.FeatureLen],
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	shape := FeatureShape(ds.FeatureLen)
	return &Model{
		Version:    ModelVersion,
		FeatureLen: ds.FeatureLen,
		Shape:      [2]int{shape.X, shape.Y},
		Scale:      p.Scale,
		Classes:    classes,
		Machines:   machines,
		Hyper: Hyperparameters{
			C:       p.C,
			MaxIter: p.MaxIter,
			Epsilon: p.Epsilon,
			Seed:    p.Seed,
		},
	}, nil
}

// trainBinary solves the L1-loss linear SVM dual by coordinate descent.
// Labels are +1 or -1; x already carries the bias feature.
func trainBinary(x [][]float64, y []float64, c float64, maxIter int, eps float64, rng *rand.Rand) []float64 {
	n := len(x)
	w := make([]float64, len(x[0]))
	alpha := make([]float64, n)
	qd := make([]float64, n)
	for i := range x {
		qd[i] = floats.Dot(x[i], x[i])
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}

	for iter := 0; iter < maxIter; iter++ {
		rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })

		pgMax, pgMin := math.Inf(-1), math.Inf(1)
		for _, i := range order {
			g := y[i]*floats.Dot(w, x[i]) - 1

			var pg float64
			switch {
			case alpha[i] == 0:
				pg = math.Min(g, 0)
			case alpha[i] == c:
				pg = math.Max(g, 0)
			default:
				pg = g
			}
			pgMax = math.Max(pgMax, pg)
			pgMin = math.Min(pgMin, pg)

			if math.Abs(pg) > 1e-12 {
				old := alpha[i]
				alpha[i] = math.Min(math.Max(old-g/qd[i], 0), c)
				floats.AddScaled(w, (alpha[i]-old)*y[i], x[i])
			}
		}
		if pgMax-pgMin <= eps {
			break
		}
	}
	return w
}
