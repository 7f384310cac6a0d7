package catalog

import (
	"sort"
	"sync"

	"github.com/LeonardoBeccarini/drip_planner/internal/model/entities"
)

// Catalog is an in-memory pipe and fitting catalog. Reads may run
// concurrently with Replace.
type Catalog struct {
	mu       sync.RWMutex
	pipes    map[float64]entities.PipeSpec
	fittings []entities.FittingSpec
	drippers []entities.DripperSpec
}

// New indexes pipes by nominal diameter. A later duplicate wins.
func New(pipes []entities.PipeSpec, fittings []entities.FittingSpec) *Catalog {
	c := &Catalog{drippers: DefaultDrippers()}
	c.Replace(pipes, fittings)
	return c
}

// Default returns the catalog shipped with the planner.
func Default() *Catalog {
	return New(DefaultPipes(), DefaultFittings())
}

// PipeByNominal implements hydraulics.PipeLookup.
func (c *Catalog) PipeByNominal(nominalMM float64) (entities.PipeSpec, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.pipes[nominalMM]
	return p, ok
}

// Pipes returns every pipe sorted by nominal diameter.
func (c *Catalog) Pipes() []entities.PipeSpec {
	c.mu.RLock()
	out := make([]entities.PipeSpec, 0, len(c.pipes))
	for _, p := range c.pipes {
		out = append(out, p)
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].NominalMM < out[j].NominalMM })
	return out
}

// Fittings returns a copy of the fitting rows.
func (c *Catalog) Fittings() []entities.FittingSpec {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]entities.FittingSpec(nil), c.fittings...)
}

// Drippers returns a copy of the emitter rows.
func (c *Catalog) Drippers() []entities.DripperSpec {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]entities.DripperSpec(nil), c.drippers...)
}

// SetDrippers replaces the emitter rows.
func (c *Catalog) SetDrippers(drippers []entities.DripperSpec) {
	c.mu.Lock()
	c.drippers = append([]entities.DripperSpec(nil), drippers...)
	c.mu.Unlock()
}

// Replace swaps the whole content atomically. A nil fittings slice keeps the
// current fittings.
func (c *Catalog) Replace(pipes []entities.PipeSpec, fittings []entities.FittingSpec) {
	idx := make(map[float64]entities.PipeSpec, len(pipes))
	for _, p := range pipes {
		idx[p.NominalMM] = p
	}
	c.mu.Lock()
	c.pipes = idx
	if fittings != nil {
		c.fittings = append([]entities.FittingSpec(nil), fittings...)
	}
	c.mu.Unlock()
}

// Len reports the number of pipes.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pipes)
}
