package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// AppName is used for XDG directory paths.
const AppName = "sudoku-scanner"

// DefaultConfigFile is the configuration file name searched for by FindConfigFile.
const DefaultConfigFile = "sudoku-scanner.yaml"

// Environment variables read by ApplyEnv.
const (
	EnvTrainingPath   = "SUDOKU_TRAINING_PATH"
	EnvModelPath      = "SUDOKU_MODEL_PATH"
	EnvWorkers        = "SUDOKU_WORKERS"
	EnvHoughThreshold = "SUDOKU_HOUGH_THRESHOLD"
	EnvRecognizer     = "SUDOKU_RECOGNIZER"
)

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Load reads YAML parameters from path over DefaultParams.
// Fields missing from the file keep their defaults.
func Load(path string) (Params, error) {
	params := DefaultParams()

	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path
	if err != nil {
		if os.IsNotExist(err) {
			return params, ErrConfigNotFound
		}
		return params, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &params); err != nil {
		return params, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return params, nil
}

// Save writes params as YAML, creating parent directories as needed.
func Save(path string, params Params) error {
	data, err := yaml.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for sudoku-scanner.yaml in the current directory
// 3. Look for it in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		p := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	p := filepath.Join(XDGConfigDir(), DefaultConfigFile)
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}

// XDGConfigDir returns the XDG config directory for the scanner.
// On Linux: ~/.config/sudoku-scanner
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for the scanner.
// On Linux: ~/.cache/sudoku-scanner
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// DefaultModelPath returns where a trained classifier is cached.
func DefaultModelPath() string {
	return filepath.Join(XDGCacheDir(), "svm.json")
}

// ApplyEnv overrides params from SUDOKU_* environment variables.
// Unset variables leave the corresponding field alone.
func ApplyEnv(p Params) (Params, error) {
	if v := os.Getenv(EnvTrainingPath); v != "" {
		p.Classifier.TrainingPath = v
	}
	if v := os.Getenv(EnvModelPath); v != "" {
		p.Classifier.ModelPath = v
	}
	if v := os.Getenv(EnvRecognizer); v != "" {
		p.Classifier.Recognizer = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		p.Workers = n
	}
	if v := os.Getenv(EnvHoughThreshold); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, fmt.Errorf("%s: %w", EnvHoughThreshold, err)
		}
		p.Hough.Threshold = n
	}
	return p, nil
}
