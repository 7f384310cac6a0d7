package entities

// Segment is one discretized slice of the main line. It lives only for the
// duration of a single scenario computation.
type Segment struct {
	FlowLH         float64 // inbound flow
	LengthM        float64
	KMinor         float64 // per-segment share of the fitting losses
	VelocityMS     float64
	Reynolds       float64
	FrictionFactor float64
	LossBar        float64
}
