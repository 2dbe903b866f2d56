package config

import "errors"

// Validation errors returned by Params.Validate.
var (
	ErrInvalidBlurKernel    = errors.New("invalid blur kernel: must be a positive odd number")
	ErrInvalidBlockSize     = errors.New("invalid threshold block size: must be an odd number >= 3")
	ErrInvalidKernelSize    = errors.New("invalid morphology kernel size: must be positive")
	ErrInvalidHough         = errors.New("invalid hough parameters: resolutions and threshold must be positive")
	ErrInvalidMerge         = errors.New("invalid merge tolerances: must be non-negative")
	ErrInvalidIntersectSine = errors.New("invalid min intersect sine: must be in (0, 1)")
	ErrInvalidEmptyRatio    = errors.New("invalid empty ratio: must be in [0, 1)")
	ErrInvalidClassifier    = errors.New("invalid classifier parameters: C, max iterations, epsilon and scale must be positive")
	ErrUnknownRecognizer    = errors.New("unknown recognizer: must be svm or tesseract")
	ErrInvalidWorkers       = errors.New("invalid workers: must be positive")
)
