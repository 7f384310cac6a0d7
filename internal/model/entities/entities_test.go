package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectorCounts_K(t *testing.T) {
	c := ConnectorCounts{Elbows: 2, Tees: 1, Straights: 3}
	assert.InDelta(t, 2*1.3+1.8+3*0.5, c.TotalK(), 1e-12)
	assert.InDelta(t, 2*1.3+1.8, c.TurnK(), 1e-12)
	assert.Zero(t, ConnectorKind("valve").K())
}

func TestDripperCombo_Label(t *testing.T) {
	assert.Equal(t, "3x (8.0+4.0+1.0 L/h)", DripperCombo{Emitters: []float64{8, 4, 1}}.Label())
}

func TestDripperTally_TotalFlow(t *testing.T) {
	tally := DripperTally{1: 4, 2: 10, 8: 1, 3: 100, 4: -2}
	assert.Equal(t, 32.0, tally.TotalFlow())
}

func TestFormatFlow(t *testing.T) {
	assert.Equal(t, "2.0", FormatFlow(2))
	assert.Equal(t, "2.5", FormatFlow(2.5))
	assert.Equal(t, "0.125", FormatFlow(0.125))
}

func TestMode_ResultType(t *testing.T) {
	assert.Equal(t, "planters_scenario", ModePlanters.ResultType())
	assert.Equal(t, "continuous", ModeContinuous.ResultType())
}
