package hydraulics

import (
	"math"

	"github.com/LeonardoBeccarini/drip_planner/internal/model/entities"
)

// BestCombo finds the combination of one to three standard emitters whose
// summed flow is closest to target.
//
// Candidates are enumerated singles, then pairs, then triples, each as
// nested loops over the emitters in descending flow order. Only a strictly
// smaller difference replaces the current best, so ties go to the candidate
// met first. The enumeration is deliberately exhaustive.
func BestCombo(targetLH float64) entities.DripperCombo {
	if targetLH <= 1.0 {
		return entities.DripperCombo{Emitters: []float64{1.0}, ActualFlow: 1.0}
	}

	emitters := entities.StandardEmitters()
	best := []float64{1.0}
	minDiff := math.Abs(1.0 - targetLH)

	consider := func(combo ...float64) {
		var sum float64
		for _, f := range combo {
			sum += f
		}
		if d := math.Abs(sum - targetLH); d < minDiff {
			minDiff = d
			best = combo
		}
	}

	for _, d1 := range emitters {
		consider(d1)
	}
	for _, d1 := range emitters {
		for _, d2 := range emitters {
			consider(d1, d2)
		}
	}
	for _, d1 := range emitters {
		for _, d2 := range emitters {
			for _, d3 := range emitters {
				consider(d1, d2, d3)
			}
		}
	}

	var actual float64
	for _, f := range best {
		actual += f
	}
	return entities.DripperCombo{Emitters: best, ActualFlow: actual}
}
