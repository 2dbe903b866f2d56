package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sudoku-scanner/internal/digit"

	"github.com/spf13/cobra"
)

// NewTrainCmd creates the train command.
func NewTrainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the digit classifier and cache the model",
		Long: `Train fits the linear SVM to a CSV corpus and writes the model to the
cache, replacing any model already there. Each CSV row is a label
followed by the raw 0-255 intensities of one cell thumbnail.

Examples:
  # Train from the configured corpus
  sudoku-scanner train

  # Train from a specific file into a specific model path
  sudoku-scanner train --training digits.csv --model svm.json`,
		Args: cobra.NoArgs,
		RunE: runTrainCmd,
	}

	cmd.Flags().String("model", "", "Model output path")
	cmd.Flags().String("training", "", "Training CSV path")

	return cmd
}

// runTrainCmd executes the train command.
func runTrainCmd(cmd *cobra.Command, _ []string) error {
	params, err := loadParams(cmd)
	if err != nil {
		return err
	}
	params, err = applyClassifierFlags(cmd, params)
	if err != nil {
		return err
	}
	if err := validate(params); err != nil {
		return err
	}

	logger := newLogger(cmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cp := params.Classifier
	ds, err := digit.LoadCSV(cp.TrainingPath)
	if err != nil {
		return err
	}
	logger.Debug("training data loaded", "path", cp.TrainingPath, "samples", len(ds.Samples))

	model, err := digit.Train(ctx, ds, digit.TrainParams{
		C:       cp.C,
		MaxIter: cp.MaxIter,
		Epsilon: cp.Epsilon,
		Scale:   cp.Scale,
		Seed:    cp.Seed,
		Workers: params.Workers,
	})
	if err != nil {
		return fmt.Errorf("failed to train classifier: %w", err)
	}
	if err := digit.SaveModel(cp.ModelPath, model); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Trained on %d samples, %d classes %v\n", len(ds.Samples), len(model.Classes), model.Classes)
	fmt.Fprintf(out, "Training accuracy: %.2f%%\n", model.Accuracy(ds.Samples)*100)
	fmt.Fprintf(out, "Model saved to %s\n", cp.ModelPath)
	return nil
}
