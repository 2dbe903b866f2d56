package detect

import (
	"errors"
	"math"
	"slices"
	"testing"

	"sudoku-scanner/internal/config"
	apperrors "sudoku-scanner/internal/errors"
	"sudoku-scanner/pkg/geometry"
)

func gridLines() []geometry.PolarLine {
	return []geometry.PolarLine{
		{Rho: 20, Theta: math.Pi / 2},       // top
		{Rho: 60, Theta: math.Pi / 2},       // inner
		{Rho: 180, Theta: math.Pi/2 + 0.01}, // bottom
		{Rho: 15, Theta: 0},                 // left
		{Rho: 90, Theta: 0.02},              // inner
		{Rho: -170, Theta: math.Pi - 0.01},  // right, expressed near 180°
		{Rho: 100, Theta: math.Pi / 4},      // diagonal noise
		geometry.DeadLine(),
	}
}

func TestSelectEdges(t *testing.T) {
	t.Parallel()

	e, err := SelectEdges(gridLines(), config.DefaultParams().Edges)
	if err != nil {
		t.Fatalf("SelectEdges() = %v", err)
	}
	if e.Top.Rho != 20 || e.Bottom.Rho != 180 {
		t.Errorf("top/bottom = %v / %v", e.Top, e.Bottom)
	}
	if e.Left.Rho != 15 || e.Right.Rho != -170 {
		t.Errorf("left/right = %v / %v", e.Left, e.Right)
	}
}

func TestSelectEdgesOrderIndependent(t *testing.T) {
	t.Parallel()

	base := gridLines()
	want, err := SelectEdges(base, config.DefaultParams().Edges)
	if err != nil {
		t.Fatal(err)
	}

	for shift := range base {
		rotated := append(slices.Clone(base[shift:]), base[:shift]...)
		reversed := slices.Clone(rotated)
		slices.Reverse(reversed)

		for _, lines := range [][]geometry.PolarLine{rotated, reversed} {
			got, err := SelectEdges(lines, config.DefaultParams().Edges)
			if err != nil {
				t.Fatalf("shift %d: %v", shift, err)
			}
			if got != want {
				t.Errorf("shift %d: got %+v, want %+v", shift, got, want)
			}
		}
	}
}

func TestSelectEdgesInsufficient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		lines []geometry.PolarLine
	}{
		{
			name:  "no lines",
			lines: nil,
		},
		{
			name: "single horizontal",
			lines: []geometry.PolarLine{
				{Rho: 20, Theta: math.Pi / 2},
				{Rho: 10, Theta: 0}, {Rho: 90, Theta: 0},
			},
		},
		{
			name: "single vertical",
			lines: []geometry.PolarLine{
				{Rho: 20, Theta: math.Pi / 2}, {Rho: 80, Theta: math.Pi / 2},
				{Rho: 10, Theta: 0},
			},
		},
		{
			name: "only dead and diagonal lines",
			lines: []geometry.PolarLine{
				geometry.DeadLine(), geometry.DeadLine(),
				{Rho: 10, Theta: math.Pi / 4}, {Rho: 50, Theta: math.Pi / 4},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := SelectEdges(tt.lines, config.DefaultParams().Edges)
			if !errors.Is(err, apperrors.ErrInsufficientEdges) {
				t.Errorf("SelectEdges() = %v, want InsufficientEdges", err)
			}
		})
	}
}
