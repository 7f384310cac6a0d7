package planner

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeonardoBeccarini/drip_planner/internal/hydraulics"
	"github.com/LeonardoBeccarini/drip_planner/internal/model/entities"
	"github.com/LeonardoBeccarini/drip_planner/internal/model/messages"
)

func TestPlanToPoint(t *testing.T) {
	req := messages.ScenarioRequest{Mode: entities.ModeContinuous, LengthM: 40, TotalFlowLH: 120}
	evt := messages.PlanComputedEvent{
		PlanID:    "abc",
		ProjectID: "garden-7",
		Request:   req,
		Result:    hydraulics.NewEngine(nil).Run(req),
		Timestamp: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	p := PlanToPoint(evt)
	assert.Equal(t, Measurement, p.Name())
	assert.Equal(t, evt.Timestamp, p.Time())

	tags := map[string]string{}
	for _, tag := range p.TagList() {
		tags[tag.Key] = tag.Value
	}
	assert.Equal(t, map[string]string{
		"mode":         "continuous",
		"main_pipe_mm": "16",
		"range":        "Range: 40-50m",
		"project_id":   "garden-7",
	}, tags)

	fields := map[string]interface{}{}
	for _, f := range p.FieldList() {
		fields[f.Key] = f.Value
	}
	assert.Equal(t, "abc", fields["plan_id"])
	assert.Equal(t, true, fields["catalog_fallback"])
	assert.Equal(t, 120.0, fields["total_flow_lh"])
	assert.Contains(t, fields, "end_pressure_bar")
	assert.Contains(t, fields, "reynolds")
}

func TestPlanToPoint_NoDebugNoProject(t *testing.T) {
	p := PlanToPoint(messages.PlanComputedEvent{PlanID: "x"})
	for _, tag := range p.TagList() {
		assert.NotEqual(t, "project_id", tag.Key)
	}
	for _, f := range p.FieldList() {
		assert.NotEqual(t, "reynolds", f.Key)
	}
	assert.False(t, p.Time().IsZero())
}

func TestBuildFlux(t *testing.T) {
	q := buildFlux("plans", 90, 5)
	require.True(t, strings.Contains(q, `from(bucket: "plans")`))
	assert.Contains(t, q, "range(start: -90m)")
	assert.Contains(t, q, `r._measurement == "drip_plan"`)
	assert.Contains(t, q, "limit(n:5)")
}

func TestFloatOf(t *testing.T) {
	assert.Equal(t, 1.5, floatOf(1.5))
	assert.Equal(t, 3.0, floatOf(int64(3)))
	assert.Equal(t, 2.25, floatOf(" 2.25 "))
	assert.Zero(t, floatOf(nil))
}
