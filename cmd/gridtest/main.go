// Command gridtest runs grid detection on an image and prints every stage's result.
package main

import (
	"flag"
	"fmt"
	"os"

	"sudoku-scanner/internal/config"
	"sudoku-scanner/internal/image"
	applog "sudoku-scanner/internal/log"
	"sudoku-scanner/internal/pipeline"
	"sudoku-scanner/pkg/geometry"
)

func main() {
	imagePath := flag.String("image", "", "Path to puzzle image (JPEG, PNG, TIFF, WebP)")
	configPath := flag.String("config", "", "Configuration file")
	threshold := flag.Int("threshold", 0, "Hough vote threshold (0 keeps the configured value)")
	overlayPath := flag.String("overlay", "", "Write the rectified grid to this path")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: gridtest -image <path> [-config file] [-threshold 200] [-overlay out.png] [-v]")
		os.Exit(1)
	}

	params := config.DefaultParams()
	if *configPath != "" {
		var err error
		params, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
	}
	if *threshold > 0 {
		params = params.WithHoughThreshold(*threshold)
	}
	if err := params.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid parameters: %v\n", err)
		os.Exit(1)
	}

	src, err := image.LoadGray(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	defer src.Close()
	fmt.Printf("Loaded image: %dx%d pixels\n", src.Cols(), src.Rows())

	fmt.Printf("\nParameters:\n")
	fmt.Printf("  Binarize: blur %d, block %d, C %.1f, kernel %d\n",
		params.Binarize.BlurKernel, params.Binarize.BlockSize, params.Binarize.C, params.Binarize.KernelSize)
	fmt.Printf("  Hough: rho %.1f, theta %.1f deg, threshold %d\n",
		params.Hough.Rho, params.Hough.ThetaDeg, params.Hough.Threshold)
	fmt.Printf("  Merge: rho tol %.1f, theta tol %.1f deg, endpoint %.1f px\n",
		params.Merge.RhoTolerance, params.Merge.ThetaToleranceDeg, params.Merge.EndpointDistance)

	fmt.Printf("\nLocating grid...\n")
	logger := applog.New(os.Stderr, *verbose)
	stages, err := pipeline.New(params, nil, pipeline.WithLogger(logger)).Locate(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Detection failed: %v\n", err)
		os.Exit(1)
	}
	defer stages.Close()

	det := stages.Detection
	fmt.Printf("\nHough candidates: %d\n", len(det.Candidates))
	fmt.Printf("%-6s %10s %10s %8s\n", "Index", "Rho", "Theta", "State")
	for i, l := range det.Lines {
		state := "live"
		if l.IsDead() {
			state = "merged"
			l = det.Candidates[i]
		}
		fmt.Printf("%-6d %10.2f %10.2f %8s\n", i, l.Rho, geometry.Degrees(l.Theta), state)
	}

	fmt.Printf("\nEdges:\n")
	for _, e := range []struct {
		name string
		line geometry.PolarLine
	}{
		{"top", det.Edges.Top},
		{"right", det.Edges.Right},
		{"bottom", det.Edges.Bottom},
		{"left", det.Edges.Left},
	} {
		fmt.Printf("  %-6s rho %8.2f  theta %6.2f deg\n", e.name, e.line.Rho, geometry.Degrees(e.line.Theta))
	}

	fmt.Printf("\nCorners:\n")
	for i, name := range []string{"top-left", "top-right", "bottom-right", "bottom-left"} {
		p := det.Corners.Points()[i]
		fmt.Printf("  %-12s (%.1f, %.1f)\n", name, p.X, p.Y)
	}

	fmt.Printf("\nRectified side: %d px, cell side: %d px\n", stages.Rectified.Side, stages.Cells.CellSide)
	fmt.Printf("Non-empty cells: %d\n", len(stages.Cells.Present()))
	for r := range stages.Cells.Cells {
		for c := range stages.Cells.Cells[r] {
			if stages.Cells.Cells[r][c].Empty {
				fmt.Print(". ")
			} else {
				fmt.Print("# ")
			}
		}
		fmt.Println()
	}

	if *overlayPath != "" {
		if err := image.SaveMat(*overlayPath, stages.Rectified.Image); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to save rectified grid: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nRectified grid written to %s\n", *overlayPath)
	}
}
