package catalog

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeonardoBeccarini/drip_planner/internal/hydraulics"
	"github.com/LeonardoBeccarini/drip_planner/internal/model/entities"
)

var _ hydraulics.PipeLookup = (*Catalog)(nil)

func TestDefault_Lookup(t *testing.T) {
	c := Default()
	p, ok := c.PipeByNominal(16)
	require.True(t, ok)
	assert.Equal(t, 13.6, p.InternalMM)
	assert.Equal(t, 1.2, p.WallMM)

	_, ok = c.PipeByNominal(40)
	assert.False(t, ok)

	for _, p := range c.Pipes() {
		assert.Less(t, p.InternalMM, p.NominalMM, "pipe %v", p.NominalMM)
	}
	assert.Len(t, c.Fittings(), 5)

	d := c.Drippers()
	require.Len(t, d, 1)
	assert.Equal(t, 0.5, d[0].ExponentX)
	assert.Equal(t, 1.0, d[0].MinPressureBar)
	assert.Equal(t, 4.0, d[0].MaxPressureBar)

	d[0].ExponentX = 9
	assert.Equal(t, 0.5, c.Drippers()[0].ExponentX, "Drippers returns a copy")
}

func TestPipes_Sorted(t *testing.T) {
	c := New([]entities.PipeSpec{
		{NominalMM: 32, InternalMM: 28},
		{NominalMM: 16, InternalMM: 13.6},
		{NominalMM: 25, InternalMM: 22},
	}, nil)
	got := c.Pipes()
	require.Len(t, got, 3)
	assert.Equal(t, []float64{16, 25, 32}, []float64{got[0].NominalMM, got[1].NominalMM, got[2].NominalMM})
}

func TestReplace_ConcurrentReads(t *testing.T) {
	c := Default()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				_, _ = c.PipeByNominal(25)
			}
		}()
	}
	for j := 0; j < 50; j++ {
		c.Replace(DefaultPipes(), nil)
	}
	wg.Wait()
	assert.Equal(t, 7, c.Len())
	assert.Len(t, c.Fittings(), 5)
}

type stubSource struct {
	pipes []entities.PipeSpec
	err   error
}

func (s stubSource) Fetch(context.Context) ([]entities.PipeSpec, []entities.FittingSpec, error) {
	return s.pipes, nil, s.err
}

func TestRefresh(t *testing.T) {
	c := Default()

	err := Refresh(context.Background(), c, stubSource{err: errors.New("down")})
	require.Error(t, err)
	assert.Equal(t, 7, c.Len())

	require.NoError(t, Refresh(context.Background(), c, stubSource{}))
	assert.Equal(t, 7, c.Len())

	require.NoError(t, Refresh(context.Background(), c, stubSource{pipes: []entities.PipeSpec{{NominalMM: 16, InternalMM: 14}}}))
	assert.Equal(t, 1, c.Len())
	p, ok := c.PipeByNominal(16)
	require.True(t, ok)
	assert.Equal(t, 14.0, p.InternalMM)
}

func TestRefresh_RejectsUnusableBore(t *testing.T) {
	c := Default()
	for name, rows := range map[string][]entities.PipeSpec{
		"missing bore":  {{NominalMM: 16}},
		"bore too wide": {{NominalMM: 16, InternalMM: 16}, {NominalMM: 25, InternalMM: 22}},
		"NaN bore":      {{NominalMM: 16, InternalMM: math.NaN()}},
		"zero nominal":  {{InternalMM: 3}},
	} {
		err := Refresh(context.Background(), c, stubSource{pipes: rows})
		require.Error(t, err, name)
	}
	assert.Equal(t, 7, c.Len())
	p, ok := c.PipeByNominal(16)
	require.True(t, ok)
	assert.Equal(t, 13.6, p.InternalMM)

	res := hydraulics.NewEngine(c).Continuous(30, 100, entities.ConnectorCounts{})
	assert.False(t, math.IsNaN(res.RequiredInletPressureBar))
	require.NotNil(t, res.DebugInfo)
	assert.False(t, math.IsInf(res.DebugInfo.Velocity, 0))
}
