package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestErrorIsMatchesKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		sentinel error
		category Category
	}{
		{"no grid", NewNoGridFound(10, 10), ErrNoGridFound, CategoryDetection},
		{"edges", NewInsufficientEdges("vertical", 1), ErrInsufficientEdges, CategoryDetection},
		{"corner", NewDegenerateCorner("TL", "parallel"), ErrDegenerateCorner, CategoryDetection},
		{"csv", NewIrregularTrainingData("train.csv", 3, "ragged"), ErrIrregularTrainingData, CategoryConfig},
		{"model", NewModelCorrupt("svm.json", io.ErrUnexpectedEOF), ErrModelCorrupt, CategoryConfig},
		{"image", NewUnreadableImage("x.png", io.EOF), ErrUnreadableImage, CategoryInput},
		{"empty buffer", NewEmptyBuffer(), ErrUnreadableImage, CategoryInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			wrapped := fmt.Errorf("stage failed: %w", tt.err)
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("errors.Is(%v, sentinel) = false", wrapped)
			}
			var e *Error
			if !errors.As(wrapped, &e) {
				t.Fatal("errors.As failed")
			}
			if e.Category() != tt.category {
				t.Errorf("Category() = %s, want %s", e.Category(), tt.category)
			}
		})
	}
}

func TestErrorIsRejectsOtherKinds(t *testing.T) {
	t.Parallel()

	err := NewNoGridFound(1, 1)
	if errors.Is(err, ErrModelCorrupt) {
		t.Error("NoGridFound should not match ModelCorrupt")
	}
}

func TestUnwrapKeepsCause(t *testing.T) {
	t.Parallel()

	err := NewModelCorrupt("m.json", io.ErrUnexpectedEOF)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("cause should be reachable through Unwrap")
	}
	if k, ok := KindOf(fmt.Errorf("wrap: %w", err)); !ok || k != KindModelCorrupt {
		t.Errorf("KindOf = %v, %v", k, ok)
	}
}
