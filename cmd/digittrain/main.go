// Command digittrain builds the digit training corpus and fits the SVM to it.
//
// Usage: digittrain -csv train.csv [-model svm.json] [-holdout 0.2]
//
//	digittrain -csv train.csv -from-image puzzle.jpg -labels puzzle.txt
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"sudoku-scanner/internal/config"
	"sudoku-scanner/internal/digit"
	"sudoku-scanner/internal/image"
	applog "sudoku-scanner/internal/log"
	"sudoku-scanner/internal/pipeline"
)

var (
	flagCSV        = flag.String("csv", "train.csv", "Training CSV (label followed by raw intensities)")
	flagModel      = flag.String("model", "", "Write the trained model to this path")
	flagHoldout    = flag.Float64("holdout", 0, "Fraction of samples held out for evaluation")
	flagSeed       = flag.Int64("seed", 1, "Seed for the holdout split and coordinate descent order")
	flagParallel   = flag.Int("j", 4, "Number of parallel workers")
	flagC          = flag.Float64("c", 100, "SVM regularization constant")
	flagMaxIter    = flag.Int("max-iter", 1000, "Max coordinate descent passes per machine")
	flagFromImage  = flag.String("from-image", "", "Extract labeled cells from this puzzle image and append them to -csv")
	flagLabels     = flag.String("labels", "", "Text file with the 81 cells of -from-image ('.' or 0 for empty)")
	flagFeatureLen = flag.Int("features", 400, "Feature length for extracted cells")
	flagNoTrain    = flag.Bool("no-train", false, "Only extract samples, do not train")
	flagVerbose    = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if *flagFromImage != "" {
		if *flagLabels == "" {
			fmt.Println("Usage: digittrain -csv <file> -from-image <image> -labels <board.txt>")
			os.Exit(1)
		}
		n, err := extract(*flagFromImage, *flagLabels, *flagCSV)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Extraction failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Appended %d samples from %s to %s\n", n, *flagFromImage, *flagCSV)
		if *flagNoTrain {
			return
		}
	}

	if err := train(); err != nil {
		fmt.Fprintf(os.Stderr, "Training failed: %v\n", err)
		os.Exit(1)
	}
}

// extract segments the puzzle image and appends one sample per labeled cell.
func extract(imagePath, labelsPath, csvPath string) (int, error) {
	text, err := os.ReadFile(labelsPath)
	if err != nil {
		return 0, fmt.Errorf("failed to read labels: %w", err)
	}
	board, err := pipeline.ParseBoard(string(text))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", labelsPath, err)
	}

	src, err := image.LoadGray(imagePath)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	logger := applog.New(os.Stderr, *flagVerbose)
	stages, err := pipeline.New(config.DefaultParams(), nil, pipeline.WithLogger(logger)).Locate(src)
	if err != nil {
		return 0, err
	}
	defer stages.Close()

	samples, err := pipeline.Samples(stages.Cells, board, *flagFeatureLen)
	if err != nil {
		return 0, err
	}
	if err := digit.AppendCSV(csvPath, samples); err != nil {
		return 0, err
	}
	return len(samples), nil
}

func train() error {
	ds, err := digit.LoadCSV(*flagCSV)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d samples of %d features from %s\n", len(ds.Samples), ds.FeatureLen, *flagCSV)

	trainSet, testSet := ds, (*digit.Dataset)(nil)
	if *flagHoldout > 0 {
		trainSet, testSet = ds.Split(*flagHoldout, *flagSeed)
		fmt.Printf("Holding out %d samples\n", len(testSet.Samples))
	}

	counts := map[int]int{}
	for _, s := range trainSet.Samples {
		counts[s.Label]++
	}
	labels := make([]int, 0, len(counts))
	for l := range counts {
		labels = append(labels, l)
	}
	sort.Ints(labels)
	fmt.Printf("\n%-6s %8s\n", "Label", "Samples")
	for _, l := range labels {
		fmt.Printf("%-6d %8d\n", l, counts[l])
	}

	defaults := config.DefaultParams().Classifier
	start := time.Now()
	model, err := digit.Train(context.Background(), trainSet, digit.TrainParams{
		C:       *flagC,
		MaxIter: *flagMaxIter,
		Epsilon: defaults.Epsilon,
		Scale:   defaults.Scale,
		Seed:    *flagSeed,
		Workers: *flagParallel,
	})
	if err != nil {
		return err
	}
	fmt.Printf("\nTrained %d machines in %v\n", len(model.Machines), time.Since(start).Round(time.Millisecond))
	fmt.Printf("Training accuracy: %.2f%%\n", model.Accuracy(trainSet.Samples)*100)

	if testSet != nil && len(testSet.Samples) > 0 {
		fmt.Printf("Holdout accuracy:  %.2f%%\n", model.Accuracy(testSet.Samples)*100)
		printConfusion(model, testSet)
	}

	if *flagModel != "" {
		if err := digit.SaveModel(*flagModel, model); err != nil {
			return err
		}
		fmt.Printf("Model saved to %s\n", *flagModel)
	}
	return nil
}

// printConfusion lists every misclassified holdout label pair.
func printConfusion(model *digit.Model, ds *digit.Dataset) {
	type pair struct{ want, got int }
	misses := map[pair]int{}
	for _, s := range ds.Samples {
		if got := model.PredictRaw(s.Features); got != s.Label {
			misses[pair{s.Label, got}]++
		}
	}
	if len(misses) == 0 {
		return
	}

	keys := make([]pair, 0, len(misses))
	for k := range misses {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].want != keys[j].want {
			return keys[i].want < keys[j].want
		}
		return keys[i].got < keys[j].got
	})

	fmt.Printf("\n%-6s %-9s %6s\n", "Label", "Predicted", "Count")
	for _, k := range keys {
		fmt.Printf("%-6d %-9d %6d\n", k.want, k.got, misses[k])
	}
}
