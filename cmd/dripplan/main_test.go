package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeonardoBeccarini/drip_planner/internal/model/messages"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestPlantersTable(t *testing.T) {
	out, err := execute(t, "planters", "--length", "30", "--outlets", "3", "--flows", "2,6")
	require.NoError(t, err)
	assert.Contains(t, out, "planters_scenario")
	assert.Contains(t, out, "16mm")
	assert.Contains(t, out, "Planter 2 (Req: 6.0L): 5mm -> 2x (4.0+2.0 L/h) = 6.0L/h")
	assert.Contains(t, out, "Planter 3 (Req: 2.0L)")
	assert.Contains(t, out, "10.00 L/h")
}

func TestContinuousJSON(t *testing.T) {
	out, err := execute(t, "continuous", "--length", "40", "--drippers", "2.0=30,4=15",
		"--elbows", "2", "--tees", "1", "--straights", "3", "--json")
	require.NoError(t, err)

	var res messages.ScenarioResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "continuous", res.Type)
	assert.Equal(t, 120.0, res.TotalFlowLH)
	assert.Equal(t, 1.164, res.RequiredInletPressureBar)
	assert.False(t, res.CatalogFallback)
}

func TestValidationError(t *testing.T) {
	_, err := execute(t, "planters", "--outlets=-1")
	require.ErrorIs(t, err, messages.ErrNoOutlets)

	_, err = execute(t, "continuous", "--drippers", "3=1")
	require.ErrorIs(t, err, messages.ErrInvalidDripperCount)
}

func TestCatalogRoundTrip(t *testing.T) {
	out, err := execute(t, "catalog")
	require.NoError(t, err)
	assert.Contains(t, out, "nominal_diameter_mm")

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o644))

	table, err := execute(t, "continuous", "--catalog", path, "--length", "40", "--flow", "120")
	require.NoError(t, err)
	assert.Contains(t, table, "1.164 bar")
	assert.NotContains(t, table, "Note")
}
