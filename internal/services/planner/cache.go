package planner

import (
	"sync"
	"time"

	"github.com/LeonardoBeccarini/drip_planner/internal/model/messages"
)

// recentPlans keeps the last N plans in memory; it answers /plans/latest
// when InfluxDB is disabled or unreachable.
type recentPlans struct {
	mu    sync.RWMutex
	max   int
	plans []messages.PlanComputedEvent // oldest first
}

func newRecentPlans(max int) *recentPlans {
	if max <= 0 {
		max = 100
	}
	return &recentPlans{max: max}
}

func (c *recentPlans) add(evt messages.PlanComputedEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.plans = append(c.plans, evt)
	if over := len(c.plans) - c.max; over > 0 {
		c.plans = append(c.plans[:0:0], c.plans[over:]...)
	}
}

// latest returns up to limit summaries newer than since, newest first.
func (c *recentPlans) latest(since time.Time, limit int) []messages.PlanSummary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]messages.PlanSummary, 0, min(limit, len(c.plans)))
	for i := len(c.plans) - 1; i >= 0 && len(out) < limit; i-- {
		p := c.plans[i]
		if p.Timestamp.Before(since) {
			break
		}
		out = append(out, summarize(p))
	}
	return out
}

func (c *recentPlans) get(planID string) (messages.PlanComputedEvent, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := len(c.plans) - 1; i >= 0; i-- {
		if c.plans[i].PlanID == planID {
			return c.plans[i], true
		}
	}
	return messages.PlanComputedEvent{}, false
}

func summarize(p messages.PlanComputedEvent) messages.PlanSummary {
	return messages.PlanSummary{
		PlanID:                   p.PlanID,
		ProjectID:                p.ProjectID,
		Mode:                     string(p.Request.Mode),
		MainPipeMM:               p.Result.MainPipeMM(),
		LengthM:                  p.Request.LengthM,
		TotalFlowLH:              p.Result.TotalFlowLH,
		RequiredInletPressureBar: p.Result.RequiredInletPressureBar,
		Timestamp:                p.Timestamp.UTC().Format(time.RFC3339),
	}
}
