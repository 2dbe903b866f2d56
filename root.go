package main

import (
	"fmt"
	"log/slog"
	"os"

	"sudoku-scanner/internal/config"
	apperrors "sudoku-scanner/internal/errors"
	applog "sudoku-scanner/internal/log"
	"sudoku-scanner/internal/version"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sudoku-scanner",
		Short: "Read printed sudoku puzzles from photographs",
		Long: `sudoku-scanner finds the puzzle grid in a photograph, corrects its
perspective, cuts it into 81 cells and recognizes the printed digits.

Digits are read by a linear SVM trained from a CSV corpus and cached
under the XDG cache directory, or by Tesseract with --recognizer tesseract.`,
		Version:       version.Get(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: sudoku-scanner.yaml in current or XDG config directory)")

	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewTrainCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	// A .env file is optional.
	_ = godotenv.Load()

	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// newLogger builds the stderr logger selected by --verbose.
func newLogger(cmd *cobra.Command) *slog.Logger {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose = false
	}
	return applog.New(cmd.ErrOrStderr(), verbose)
}

// loadParams resolves parameters from defaults, the configuration file and
// the environment, in that order. An explicit --config that does not exist
// is an error; a missing default file is not.
func loadParams(cmd *cobra.Command) (config.Params, error) {
	explicit, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Params{}, err
	}

	params := config.DefaultParams()
	if path := config.FindConfigFile(explicit); path != "" {
		params, err = config.Load(path)
		if err != nil {
			return params, err
		}
	} else if explicit != "" {
		return params, fmt.Errorf("%s: %w", explicit, config.ErrConfigNotFound)
	}

	params, err = config.ApplyEnv(params)
	if err != nil {
		return params, fmt.Errorf("invalid environment: %w", err)
	}
	return params, nil
}

// applyClassifierFlags lets --training and --model override the loaded params.
func applyClassifierFlags(cmd *cobra.Command, params config.Params) (config.Params, error) {
	for _, f := range []struct {
		name  string
		apply func(config.Params, string) config.Params
	}{
		{"training", config.Params.WithTrainingPath},
		{"model", config.Params.WithModelPath},
	} {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		v, err := cmd.Flags().GetString(f.name)
		if err != nil {
			return params, err
		}
		params = f.apply(params, v)
	}
	return params, nil
}

// validate wraps a configuration error for display.
func validate(params config.Params) error {
	if err := params.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	return nil
}

// exitCode maps errors to process exit codes: 2 for a page without a usable
// grid, 3 for bad training data or models, 1 for everything else.
func exitCode(err error) int {
	kind, ok := apperrors.KindOf(err)
	if !ok {
		return 1
	}
	switch kind.Category() {
	case apperrors.CategoryDetection:
		return 2
	case apperrors.CategoryConfig:
		return 3
	default:
		return 1
	}
}
