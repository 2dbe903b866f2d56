// Package errors defines the structured error taxonomy shared by every pipeline stage.
package errors

import (
	"errors"
	"fmt"
)

// Category groups error kinds by who can fix them.
type Category string

const (
	// CategoryDetection covers images in which no usable grid geometry was found.
	CategoryDetection Category = "detection"
	// CategoryConfig covers bad training data and unusable persisted models.
	CategoryConfig Category = "config"
	// CategoryInput covers images that could not be read at all.
	CategoryInput Category = "input"
)

// Kind enum for structured error handling.
type Kind string

const (
	// Detection errors
	KindNoGridFound       Kind = "NO_GRID_FOUND"
	KindInsufficientEdges Kind = "INSUFFICIENT_EDGES"
	KindDegenerateCorner  Kind = "DEGENERATE_CORNER"

	// Config errors
	KindIrregularTrainingData Kind = "IRREGULAR_TRAINING_DATA"
	KindModelCorrupt          Kind = "MODEL_CORRUPT"

	// Input errors
	KindUnreadableImage Kind = "UNREADABLE_IMAGE"
)

// Category returns the category a kind belongs to.
func (k Kind) Category() Category {
	switch k {
	case KindNoGridFound, KindInsufficientEdges, KindDegenerateCorner:
		return CategoryDetection
	case KindIrregularTrainingData, KindModelCorrupt:
		return CategoryConfig
	default:
		return CategoryInput
	}
}

// Sentinels for errors.Is. A *Error matches the sentinel of its Kind.
var (
	ErrNoGridFound           = &Error{Kind: KindNoGridFound, Message: "no grid found"}
	ErrInsufficientEdges     = &Error{Kind: KindInsufficientEdges, Message: "insufficient edges"}
	ErrDegenerateCorner      = &Error{Kind: KindDegenerateCorner, Message: "degenerate corner"}
	ErrIrregularTrainingData = &Error{Kind: KindIrregularTrainingData, Message: "irregular training data"}
	ErrModelCorrupt          = &Error{Kind: KindModelCorrupt, Message: "model corrupt"}
	ErrUnreadableImage       = &Error{Kind: KindUnreadableImage, Message: "unreadable image"}
)

// Error represents a structured pipeline error.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same Kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Category returns the category of the error's kind.
func (e *Error) Category() Category {
	return e.Kind.Category()
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// Factory functions for common errors

func NewNoGridFound(width, height int) *Error {
	return &Error{
		Kind:    KindNoGridFound,
		Message: "no foreground component in binarized image",
		Details: map[string]any{
			"width":  width,
			"height": height,
		},
	}
}

func NewInsufficientEdges(band string, found int) *Error {
	return &Error{
		Kind:    KindInsufficientEdges,
		Message: fmt.Sprintf("need two distinct %s lines, found %d", band, found),
		Details: map[string]any{
			"band":  band,
			"found": found,
		},
	}
}

func NewDegenerateCorner(corner string, reason string) *Error {
	return &Error{
		Kind:    KindDegenerateCorner,
		Message: fmt.Sprintf("corner %s: %s", corner, reason),
		Details: map[string]any{
			"corner": corner,
		},
	}
}

func NewIrregularTrainingData(path string, line int, reason string) *Error {
	return &Error{
		Kind:    KindIrregularTrainingData,
		Message: fmt.Sprintf("%s:%d: %s", path, line, reason),
		Details: map[string]any{
			"path": path,
			"line": line,
		},
	}
}

func NewModelCorrupt(path string, cause error) *Error {
	return &Error{
		Kind:    KindModelCorrupt,
		Message: fmt.Sprintf("cannot use model file %s", path),
		Details: map[string]any{
			"path": path,
		},
		Cause: cause,
	}
}

// NewEmptyBuffer reports an in-memory image with no pixels.
func NewEmptyBuffer() *Error {
	return &Error{
		Kind:    KindUnreadableImage,
		Message: "image buffer is empty",
		Details: map[string]any{
			"path": "<buffer>",
		},
	}
}

func NewUnreadableImage(path string, cause error) *Error {
	return &Error{
		Kind:    KindUnreadableImage,
		Message: fmt.Sprintf("cannot decode image %s", path),
		Details: map[string]any{
			"path": path,
		},
		Cause: cause,
	}
}
