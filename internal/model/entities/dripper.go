package entities

import (
	"fmt"
	"strconv"
	"strings"
)

// StandardEmitters lists the available dripper flows (L/h) in search order.
// It is returned by value so callers cannot mutate the table.
func StandardEmitters() [4]float64 {
	return [4]float64{8.0, 4.0, 2.0, 1.0}
}

// DripperCombo is the resolved set of 1..3 emitters feeding one outlet.
type DripperCombo struct {
	Emitters   []float64 `json:"emitters"`       // L/h each, in discovery order
	ActualFlow float64   `json:"actual_flow_lh"` // sum of Emitters
}

// Label renders the combo as "{count}x (f1+f2 L/h)".
func (d DripperCombo) Label() string {
	parts := make([]string, len(d.Emitters))
	for i, f := range d.Emitters {
		parts[i] = FormatFlow(f)
	}
	return fmt.Sprintf("%dx (%s L/h)", len(d.Emitters), strings.Join(parts, "+"))
}

// DripperTally counts emitters per standard flow, as entered for a direct-soil line.
type DripperTally map[float64]int

// TotalFlow returns Σ flow×count in L/h. Negative counts contribute nothing.
func (t DripperTally) TotalFlow() float64 {
	var total float64
	for _, flow := range StandardEmitters() {
		if n := t[flow]; n > 0 {
			total += flow * float64(n)
		}
	}
	return total
}

// FormatFlow prints a flow with at least one decimal ("2.0", "2.5", "0.125").
func FormatFlow(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
