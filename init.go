package main

import (
	"fmt"
	"os"
	"path/filepath"

	"sudoku-scanner/internal/config"

	"github.com/spf13/cobra"
)

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the default parameters",
		Long: `Init writes every tunable parameter with its default value so it can be
edited. Without --output the file goes to the XDG config directory.

Examples:
  # Create ~/.config/sudoku-scanner/sudoku-scanner.yaml
  sudoku-scanner init

  # Create a config in the current directory, overwriting any existing one
  sudoku-scanner init -o sudoku-scanner.yaml -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", "",
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if outputPath == "" {
		outputPath = filepath.Join(config.XDGConfigDir(), config.DefaultConfigFile)
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	if err := config.Save(outputPath, config.DefaultParams()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created configuration file: %s\n", outputPath)
	return nil
}
