package hydraulics

import (
	"fmt"
	"strconv"

	"github.com/LeonardoBeccarini/drip_planner/internal/model/entities"
	"github.com/LeonardoBeccarini/drip_planner/internal/model/messages"
)

// Engine runs irrigation scenarios against a pipe catalog. It holds no
// mutable state; the same inputs always give the same result.
type Engine struct {
	catalog PipeLookup
}

// NewEngine builds an engine over the given catalog. A nil catalog makes every
// lookup fall back to the nominal×ratio bore.
func NewEngine(catalog PipeLookup) *Engine {
	return &Engine{catalog: catalog}
}

// Run dispatches a validated request to the matching topology.
func (e *Engine) Run(req messages.ScenarioRequest) messages.ScenarioResult {
	if req.Mode == entities.ModePlanters {
		return e.Planters(req.LengthM, req.NumOutlets, req.SpecificFlowsLH, req.Connectors)
	}
	return e.Continuous(req.LengthM, req.ContinuousFlow(), req.Connectors)
}

// Planters sizes a main line feeding numOutlets evenly spaced planters.
// specificFlows is padded with the default 2.0 L/h when shorter than numOutlets.
// numOutlets must be >= 1; the caller validates.
func (e *Engine) Planters(lengthM float64, numOutlets int, specificFlows []float64, connectors entities.ConnectorCounts) messages.ScenarioResult {
	pipe := ResolvePipe(e.catalog, lengthM)
	tubing := SecondaryTubing(pipe.NominalMM)

	details := make([]string, 0, numOutlets)
	outletFlows := make([]float64, 0, numOutlets)
	for i := 0; i < numOutlets; i++ {
		target := messages.DefaultOutletFlowL
		if i < len(specificFlows) {
			target = specificFlows[i]
		}
		combo := BestCombo(target)
		details = append(details, fmt.Sprintf("Planter %d (Req: %sL): %s -> %s = %sL/h",
			i+1, entities.FormatFlow(target), tubing, combo.Label(), entities.FormatFlow(combo.ActualFlow)))
		outletFlows = append(outletFlows, combo.ActualFlow)
	}

	var totalFlow float64
	for _, f := range outletFlows {
		totalFlow += f
	}

	var kPerSegment float64
	if numOutlets > 0 {
		kPerSegment = connectors.TotalK() / float64(numOutlets)
	}
	spacing := lengthM / float64(numOutlets)

	w := newWalk(numOutlets)
	current := totalFlow
	for i := 0; i < numOutlets; i++ {
		w.step(SegmentLoss(current, pipe.InternalMM, spacing, kPerSegment), pipe.InternalMM, float64(i+1)*spacing)
		current -= outletFlows[i]
		if current < 0 {
			current = 0
		}
	}

	res := w.result(entities.ModePlanters, lengthM, totalFlow)
	res.RecommendedMainPipeMM = pipe.NominalMM
	res.RecommendedPlanterPipe = tubing
	res.DetailedPlantersList = details
	res.CatalogFallback = pipe.Fallback
	return res
}

// Continuous sizes a drip line buried along the whole run. The run is cut into
// ContinuousSegments equal slices and the flow drops linearly along them.
func (e *Engine) Continuous(lengthM, totalFlowLH float64, connectors entities.ConnectorCounts) messages.ScenarioResult {
	pipe := ResolvePipe(e.catalog, lengthM)

	n := ContinuousSegments
	segLen := lengthM / float64(n)
	drop := totalFlowLH / float64(n)
	kPerSegment := connectors.TurnK() / float64(n)

	w := newWalk(n)
	current := totalFlowLH
	for i := 0; i < n; i++ {
		w.step(SegmentLoss(current, pipe.InternalMM, segLen, kPerSegment), pipe.InternalMM, float64(i+1)*segLen)
		current -= drop
		if current < 0 {
			current = 0
		}
	}

	res := w.result(entities.ModeContinuous, lengthM, totalFlowLH)
	res.RecommendedPipeMM = pipe.NominalMM
	res.CatalogFallback = pipe.Fallback
	return res
}

// walk accumulates segment losses from the supply end.
type walk struct {
	x, loss    []float64
	cumulative float64
	debug      *messages.DebugInfo
}

func newWalk(points int) *walk {
	if points < 0 {
		points = 0
	}
	return &walk{
		x:    make([]float64, 1, points+1),
		loss: make([]float64, 1, points+1),
	}
}

func (w *walk) step(seg entities.Segment, internalMM, atM float64) {
	if w.debug == nil {
		w.debug = &messages.DebugInfo{
			Velocity:    seg.VelocityMS,
			Reynolds:    seg.Reynolds,
			FrictionF:   seg.FrictionFactor,
			SegmentFlow: seg.FlowLH,
			SegmentLoss: seg.LossBar,
			InternalDia: internalMM,
		}
	}
	w.cumulative += seg.LossBar
	w.x = append(w.x, atM)
	w.loss = append(w.loss, w.cumulative)
}

// RequiredInlet is the inlet pressure that still leaves MinEndPressureBar at
// the far end after totalLossBar, with the safety margin applied.
func RequiredInlet(totalLossBar float64) float64 {
	return (MinEndPressureBar + totalLossBar) * SafetyMargin
}

func (w *walk) result(mode entities.Mode, lengthM, totalFlow float64) messages.ScenarioResult {
	inlet := RequiredInlet(w.cumulative)
	y := make([]float64, len(w.loss))
	for i, l := range w.loss {
		y[i] = Round(inlet-l, 3)
	}
	return messages.ScenarioResult{
		Type:                     mode.ResultType(),
		RangeClassification:      ClassifyLength(lengthM),
		TotalFlowLH:              Round(totalFlow, 2),
		RequiredInletPressureBar: Round(inlet, 3),
		GraphData:                messages.GraphData{X: w.x, Y: y},
		DebugInfo:                w.debug,
	}
}

// Round rounds v to the given number of decimals, half to even on the exact
// binary value (2.675 becomes 2.67).
func Round(v float64, places int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return r
}
