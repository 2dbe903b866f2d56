package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"sudoku-scanner/internal/image"
	"sudoku-scanner/internal/pipeline"
	"sudoku-scanner/internal/sudoku"

	"github.com/spf13/cobra"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <image>",
		Short: "Recognize the puzzle in a photograph",
		Long: `Scan locates the sudoku grid in an image, rectifies it and prints the
recognized digits, with '.' for empty cells.

Examples:
  # Print the recognized grid
  sudoku-scanner scan puzzle.jpg

  # Save a diagnostic overlay and solve the puzzle
  sudoku-scanner scan --overlay overlay.png --solve puzzle.jpg

  # Use Tesseract instead of the SVM
  sudoku-scanner scan --recognizer tesseract puzzle.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: runScanCmd,
	}

	cmd.Flags().StringP("overlay", "o", "",
		"Write the detection overlay to this path (.png, .jpg or .webp)")
	cmd.Flags().BoolP("solve", "s", false,
		"Solve the recognized puzzle and print the solution")
	cmd.Flags().String("model", "",
		"Cached SVM model path")
	cmd.Flags().String("training", "",
		"Training CSV used when no cached model exists")
	cmd.Flags().StringP("recognizer", "r", "",
		"Digit recognizer: svm or tesseract")
	cmd.Flags().IntP("workers", "j", 0,
		"Concurrent cell classifications (default: number of CPUs)")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	params, err := loadParams(cmd)
	if err != nil {
		return err
	}
	params, err = applyClassifierFlags(cmd, params)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("recognizer") {
		name, _ := cmd.Flags().GetString("recognizer")
		params = params.WithRecognizer(name)
	}
	if cmd.Flags().Changed("workers") {
		n, _ := cmd.Flags().GetInt("workers")
		params = params.WithWorkers(n)
	}
	if err := validate(params); err != nil {
		return err
	}

	overlayPath, err := cmd.Flags().GetString("overlay")
	if err != nil {
		return err
	}
	solve, err := cmd.Flags().GetBool("solve")
	if err != nil {
		return err
	}

	logger := newLogger(cmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := image.LoadGray(args[0])
	if err != nil {
		return err
	}
	defer src.Close()
	logger.Debug("image loaded", "path", args[0], "width", src.Cols(), "height", src.Rows())

	recognizer, err := newRecognizer(ctx, params, logger)
	if err != nil {
		return err
	}
	defer recognizer.Close()

	res, err := pipeline.New(params, recognizer, pipeline.WithLogger(logger)).Run(ctx, src)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	defer res.Close()

	out := cmd.OutOrStdout()
	fmt.Fprint(out, res.Grid.String())
	fmt.Fprintf(out, "\n%d givens\n", res.Grid.Givens())

	if overlayPath != "" {
		if err := image.SaveMat(overlayPath, res.Overlay); err != nil {
			return fmt.Errorf("failed to save overlay: %w", err)
		}
		fmt.Fprintf(out, "Overlay written to %s\n", overlayPath)
	}

	if solve {
		return printSolution(out, res.Grid.Board())
	}
	return nil
}

// printSolution reports conflicting givens or the solved board.
func printSolution(out io.Writer, board sudoku.Board) error {
	if conflicts := board.Conflicts(); len(conflicts) > 0 {
		for _, c := range conflicts {
			fmt.Fprintf(out, "conflict: %s\n", c)
		}
		return fmt.Errorf("recognized puzzle has %d conflicting givens", len(conflicts))
	}

	solved, err := board.Solve()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nSolution:\n%s", pipeline.FormatBoard(solved))
	return nil
}

