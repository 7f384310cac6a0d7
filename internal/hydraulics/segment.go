package hydraulics

import (
	"math"

	"github.com/LeonardoBeccarini/drip_planner/internal/model/entities"
)

// Regime classifies a Reynolds number.
type Regime string

const (
	RegimeStagnant  Regime = "stagnant"
	RegimeLaminar   Regime = "laminar"
	RegimeBlasius   Regime = "transitional-turbulent"
	RegimeTurbulent Regime = "turbulent"
)

// Velocity returns the mean velocity (m/s) of flowLH through a bore of
// internalMM. Non-positive flow gives 0.
func Velocity(flowLH, internalMM float64) float64 {
	if flowLH <= 0 {
		return 0
	}
	q := flowLH / LitresHourToM3s
	d := internalMM / 1000.0
	area := math.Pi * math.Pow(d/2, 2)
	return q / area
}

// Reynolds returns v·d/ν for a velocity in m/s and a bore in mm.
func Reynolds(velocity, internalMM float64) float64 {
	return velocity * (internalMM / 1000.0) / KinematicViscosity
}

// RegimeOf maps a Reynolds number to its friction branch. Lower bounds are inclusive.
func RegimeOf(re float64) Regime {
	switch {
	case re < LaminarLimit:
		return RegimeLaminar
	case re < TurbulentLimit:
		return RegimeBlasius
	default:
		return RegimeTurbulent
	}
}

// FrictionFactor returns the Darcy friction factor for re > 0: 64/Re when
// laminar, Blasius 0.3164·Re^-0.25 up to 1e5, a fixed 0.02 above.
func FrictionFactor(re float64) float64 {
	switch RegimeOf(re) {
	case RegimeLaminar:
		return 64 / re
	case RegimeBlasius:
		return BlasiusCoeff / math.Pow(re, 0.25)
	default:
		return TurbulentFriction
	}
}

// frictionFor guards near-stagnant flow before dividing by Re.
func frictionFor(velocity, internalMM float64) (f, re float64) {
	if velocity < StagnantVelocity {
		return StagnantFriction, 0
	}
	re = Reynolds(velocity, internalMM)
	return FrictionFactor(re), re
}

// SegmentLoss computes the major (Darcy–Weisbach) plus minor (K) pressure loss
// over lengthM of pipe, in bar, along with the velocity, friction factor and
// Reynolds number it used. Non-positive flow yields all zeros.
func SegmentLoss(flowLH, internalMM, lengthM, kMinor float64) entities.Segment {
	seg := entities.Segment{FlowLH: flowLH, LengthM: lengthM, KMinor: kMinor}
	if flowLH <= 0 {
		return seg
	}

	v := Velocity(flowLH, internalMM)
	f, re := frictionFor(v, internalMM)
	d := internalMM / 1000.0

	frictionHead := f * (lengthM / d) * (v * v) / (2 * Gravity)
	minorHead := kMinor * (v * v) / (2 * Gravity)

	seg.VelocityMS = v
	seg.FrictionFactor = f
	seg.Reynolds = re
	seg.LossBar = (frictionHead + minorHead) / MetersPerBar
	return seg
}
