// Package hydraulics sizes drip-irrigation main lines and predicts the
// pressure available along them.
//
// Every exported operation is a pure function of its arguments plus the
// read-only pipe catalog; nothing here performs I/O or keeps state between
// calls, so an Engine can be shared freely.
package hydraulics

// Physical constants.
const (
	KinematicViscosity = 1.004e-6 // m²/s, water at ~20°C
	Gravity            = 9.81     // m/s²
	MetersPerBar       = 10.197   // metres of water column per bar
	LitresHourToM3s    = 3_600_000.0
)

// Flow regime thresholds and friction constants.
const (
	StagnantVelocity  = 0.01 // m/s; below this the flow is treated as stagnant
	StagnantFriction  = 0.03
	LaminarLimit      = 2000.0
	TurbulentLimit    = 100000.0
	TurbulentFriction = 0.02
	BlasiusCoeff      = 0.3164
)

// Sizing policy.
const (
	MinEndPressureBar = 1.0
	SafetyMargin      = 1.15

	// FallbackInternalRatio derives an internal bore from the nominal size when the
	// catalog has no entry. It is a modelling approximation, not a measured value.
	FallbackInternalRatio = 0.85

	ContinuousSegments = 50
)
