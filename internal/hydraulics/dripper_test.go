package hydraulics

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeonardoBeccarini/drip_planner/internal/model/entities"
)

// oracle walks all candidates in the same order and keeps the first minimum.
func oracle(t *testing.T, target float64) []float64 {
	if target <= 1.0 {
		return []float64{1.0}
	}
	e := []float64{8, 4, 2, 1}
	var cands [][]float64
	cands = append(cands, []float64{1.0})
	for _, a := range e {
		cands = append(cands, []float64{a})
	}
	for _, a := range e {
		for _, b := range e {
			cands = append(cands, []float64{a, b})
		}
	}
	for _, a := range e {
		for _, b := range e {
			for _, c := range e {
				cands = append(cands, []float64{a, b, c})
			}
		}
	}
	require.Len(t, cands, 85)

	best, bestDiff := cands[0], math.Inf(1)
	for _, c := range cands {
		var s float64
		for _, f := range c {
			s += f
		}
		if d := math.Abs(s - target); d < bestDiff {
			best, bestDiff = c, d
		}
	}
	return best
}

func TestBestCombo_LowTargets(t *testing.T) {
	for _, target := range []float64{1.0, 0.5, 0, -3} {
		c := BestCombo(target)
		assert.Equal(t, "1x (1.0 L/h)", c.Label())
		assert.Equal(t, 1.0, c.ActualFlow)
	}
}

func TestBestCombo_Known(t *testing.T) {
	cases := []struct {
		target float64
		label  string
		actual float64
	}{
		{1.5, "1x (1.0 L/h)", 1.0}, // tie with 2.0, the initial single 1.0 wins
		{3, "2x (2.0+1.0 L/h)", 3.0},
		{6, "2x (4.0+2.0 L/h)", 6.0},
		{7, "3x (4.0+2.0+1.0 L/h)", 7.0},
		{9, "2x (8.0+1.0 L/h)", 9.0},
		{13, "3x (8.0+4.0+1.0 L/h)", 13.0},
		{30, "3x (8.0+8.0+8.0 L/h)", 24.0},
	}
	for _, c := range cases {
		got := BestCombo(c.target)
		assert.Equal(t, c.label, got.Label(), "target %v", c.target)
		assert.Equal(t, c.actual, got.ActualFlow, "target %v", c.target)
	}
}

func TestBestCombo_MatchesOracle(t *testing.T) {
	for i := 0; i <= 300; i++ {
		target := float64(i) / 10
		want := oracle(t, target)
		got := BestCombo(target)
		require.Equal(t, want, got.Emitters, "target %v", target)

		var sum float64
		for _, f := range want {
			sum += f
		}
		require.Equal(t, sum, got.ActualFlow)
		require.LessOrEqual(t, len(got.Emitters), 3)
	}
}

func TestBestCombo_ReturnsIndependentSlices(t *testing.T) {
	a := BestCombo(6)
	a.Emitters[0] = 99
	b := BestCombo(6)
	assert.Equal(t, []float64{4, 2}, b.Emitters)
}

func ExampleBestCombo() {
	c := BestCombo(6)
	fmt.Println(c.Label(), entities.FormatFlow(c.ActualFlow))
	// Output: 2x (4.0+2.0 L/h) 6.0
}
