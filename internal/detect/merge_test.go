package detect

import (
	"math"
	"testing"

	"sudoku-scanner/internal/config"
	"sudoku-scanner/pkg/geometry"
)

func TestMergeLinesSingleSurvivor(t *testing.T) {
	t.Parallel()

	lines := []geometry.PolarLine{
		{Rho: 100, Theta: math.Pi / 2},
		{Rho: 105, Theta: math.Pi/2 + 0.02},
		{Rho: 110, Theta: math.Pi/2 - 0.01},
		{Rho: 300, Theta: math.Pi / 2},
	}

	got := MergeLines(lines, 400, 400, config.DefaultParams().Merge)
	if len(got) != len(lines) {
		t.Fatalf("len = %d, want %d: dead lines must stay in place", len(got), len(lines))
	}

	live := LiveLines(got)
	if len(live) != 2 {
		t.Fatalf("live lines = %v, want 2", live)
	}
	if !got[1].IsDead() || !got[2].IsDead() {
		t.Errorf("absorbed lines should be dead: %v", got)
	}
	if got[3] != lines[3] {
		t.Errorf("distant line changed: %v", got[3])
	}
	if math.Abs(got[0].Rho-106.25) > 1e-9 {
		t.Errorf("merged rho = %v, want greedy mean 106.25", got[0].Rho)
	}
}

func TestMergeLinesDoesNotModifyInput(t *testing.T) {
	t.Parallel()

	lines := []geometry.PolarLine{
		{Rho: 50, Theta: 0},
		{Rho: 52, Theta: 0.01},
	}
	_ = MergeLines(lines, 200, 200, config.DefaultParams().Merge)
	if lines[1].IsDead() {
		t.Error("input slice was modified")
	}
}

func TestMergeLinesTolerances(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		lines []geometry.PolarLine
		live  int
	}{
		{
			name:  "rho too far apart",
			lines: []geometry.PolarLine{{Rho: 100, Theta: 0}, {Rho: 125, Theta: 0}},
			live:  2,
		},
		{
			name:  "theta too far apart",
			lines: []geometry.PolarLine{{Rho: 100, Theta: math.Pi / 2}, {Rho: 100, Theta: math.Pi/2 + geometry.Radians(12)}},
			live:  2,
		},
		{
			name:  "endpoints diverge across a wide image",
			lines: []geometry.PolarLine{{Rho: 100, Theta: math.Pi / 2}, {Rho: 100, Theta: math.Pi/2 + geometry.Radians(8)}},
			live:  2,
		},
		{
			name:  "dead lines are skipped",
			lines: []geometry.PolarLine{geometry.DeadLine(), geometry.DeadLine(), {Rho: 5, Theta: 0}},
			live:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := MergeLines(tt.lines, 1000, 1000, config.DefaultParams().Merge)
			if n := len(LiveLines(got)); n != tt.live {
				t.Errorf("live = %d, want %d (%v)", n, tt.live, got)
			}
		})
	}
}
