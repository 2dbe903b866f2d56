// Package config holds the tunable parameters for every pipeline stage.
package config

import "runtime"

// Params groups all tunables by pipeline stage.
type Params struct {
	Binarize   BinarizeParams   `yaml:"binarize"`
	Hough      HoughParams      `yaml:"hough"`
	Merge      MergeParams      `yaml:"merge"`
	Edges      EdgeParams       `yaml:"edges"`
	Cells      CellParams       `yaml:"cells"`
	Classifier ClassifierParams `yaml:"classifier"`

	// Workers bounds the number of cells classified concurrently.
	Workers int `yaml:"workers"`
}

// BinarizeParams controls blur, thresholding and the cross-kernel morphology.
type BinarizeParams struct {
	BlurKernel int     `yaml:"blur_kernel"` // odd, Gaussian kernel side
	BlockSize  int     `yaml:"block_size"`  // odd, adaptive threshold neighbourhood
	C          float64 `yaml:"c"`
	KernelSize int     `yaml:"kernel_size"` // cross structuring element side
}

// HoughParams controls the standard Hough line transform.
type HoughParams struct {
	Rho       float64 `yaml:"rho"`       // distance resolution in pixels
	ThetaDeg  float64 `yaml:"theta_deg"` // angle resolution in degrees
	Threshold int     `yaml:"threshold"` // accumulator votes
}

// MergeParams controls near-duplicate line merging.
type MergeParams struct {
	RhoTolerance      float64 `yaml:"rho_tolerance"`
	ThetaToleranceDeg float64 `yaml:"theta_tolerance_deg"`
	EndpointDistance  float64 `yaml:"endpoint_distance"`
}

// EdgeParams controls boundary line selection and corner solving.
type EdgeParams struct {
	HorizontalBandDeg float64 `yaml:"horizontal_band_deg"` // half-width around 90°
	VerticalBandDeg   float64 `yaml:"vertical_band_deg"`   // half-width around 0°/180°

	// MinIntersectSine is the smallest |sin| of the angle between two edges
	// for which an intersection is accepted.
	MinIntersectSine float64 `yaml:"min_intersect_sine"`
}

// CellParams controls cell re-thresholding and emptiness screening.
type CellParams struct {
	BlockSize  int     `yaml:"block_size"`
	C          float64 `yaml:"c"`
	EmptyRatio float64 `yaml:"empty_ratio"` // empty when m00 <= area*EmptyRatio
}

// ClassifierParams controls digit recognition.
type ClassifierParams struct {
	Recognizer   string  `yaml:"recognizer"` // "svm" or "tesseract"
	TrainingPath string  `yaml:"training_path"`
	ModelPath    string  `yaml:"model_path"`
	C            float64 `yaml:"c"`
	MaxIter      int     `yaml:"max_iter"`
	Epsilon      float64 `yaml:"epsilon"`
	Scale        float64 `yaml:"scale"` // applied to raw 0..255 intensities
	Seed         int64   `yaml:"seed"`
}

// Recognizer backend names.
const (
	RecognizerSVM       = "svm"
	RecognizerTesseract = "tesseract"
)

// DefaultParams returns parameters tuned for printed puzzles photographed at
// roughly 500 to 1500 pixels across.
func DefaultParams() Params {
	return Params{
		Binarize: BinarizeParams{
			BlurKernel: 11,
			BlockSize:  5,
			C:          2,
			KernelSize: 3,
		},
		Hough: HoughParams{
			Rho:       1,
			ThetaDeg:  1,
			Threshold: 200,
		},
		Merge: MergeParams{
			RhoTolerance:      20,
			ThetaToleranceDeg: 10,
			EndpointDistance:  64,
		},
		Edges: EdgeParams{
			HorizontalBandDeg: 10,
			VerticalBandDeg:   10,
			MinIntersectSine:  0.01,
		},
		Cells: CellParams{
			BlockSize:  101,
			C:          1,
			EmptyRatio: 0.2,
		},
		Classifier: ClassifierParams{
			Recognizer:   RecognizerSVM,
			TrainingPath: "train.csv",
			ModelPath:    DefaultModelPath(),
			C:            100,
			MaxIter:      1000,
			Epsilon:      1e-6,
			Scale:        1.0 / 255,
			Seed:         1,
		},
		Workers: runtime.NumCPU(),
	}
}

// WithHoughThreshold returns a copy of params with a different accumulator threshold.
// Small or low-resolution images need a lower threshold.
func (p Params) WithHoughThreshold(votes int) Params {
	p.Hough.Threshold = votes
	return p
}

// WithModelPath returns a copy of params that caches the classifier at path.
func (p Params) WithModelPath(path string) Params {
	p.Classifier.ModelPath = path
	return p
}

// WithTrainingPath returns a copy of params that trains from the CSV at path.
func (p Params) WithTrainingPath(path string) Params {
	p.Classifier.TrainingPath = path
	return p
}

// WithRecognizer returns a copy of params using the named recognizer backend.
func (p Params) WithRecognizer(name string) Params {
	p.Classifier.Recognizer = name
	return p
}

// WithWorkers returns a copy of params with a different classification fan-out.
func (p Params) WithWorkers(n int) Params {
	p.Workers = n
	return p
}

// Validate checks parameters that would otherwise fail deep inside OpenCV.
func (p Params) Validate() error {
	if p.Binarize.BlurKernel < 1 || p.Binarize.BlurKernel%2 == 0 {
		return ErrInvalidBlurKernel
	}
	if p.Binarize.BlockSize < 3 || p.Binarize.BlockSize%2 == 0 ||
		p.Cells.BlockSize < 3 || p.Cells.BlockSize%2 == 0 {
		return ErrInvalidBlockSize
	}
	if p.Binarize.KernelSize < 1 {
		return ErrInvalidKernelSize
	}
	if p.Hough.Rho <= 0 || p.Hough.ThetaDeg <= 0 || p.Hough.Threshold < 1 {
		return ErrInvalidHough
	}
	if p.Merge.RhoTolerance < 0 || p.Merge.ThetaToleranceDeg < 0 || p.Merge.EndpointDistance < 0 {
		return ErrInvalidMerge
	}
	if p.Edges.MinIntersectSine <= 0 || p.Edges.MinIntersectSine >= 1 {
		return ErrInvalidIntersectSine
	}
	if p.Cells.EmptyRatio < 0 || p.Cells.EmptyRatio >= 1 {
		return ErrInvalidEmptyRatio
	}
	if p.Classifier.C <= 0 || p.Classifier.MaxIter < 1 || p.Classifier.Epsilon <= 0 || p.Classifier.Scale <= 0 {
		return ErrInvalidClassifier
	}
	switch p.Classifier.Recognizer {
	case RecognizerSVM, RecognizerTesseract:
	default:
		return ErrUnknownRecognizer
	}
	if p.Workers < 1 {
		return ErrInvalidWorkers
	}
	return nil
}
