package entities

// ConnectorKind names a fitting counted on the main line.
type ConnectorKind string

const (
	ConnectorElbow    ConnectorKind = "elbow"
	ConnectorTee      ConnectorKind = "tee"
	ConnectorStraight ConnectorKind = "straight"
)

// Loss coefficients (K-values) per fitting.
const (
	KElbow    = 1.3
	KTee      = 1.8
	KStraight = 0.5
)

// K returns the fixed loss coefficient of the connector kind, 0 for unknown kinds.
func (k ConnectorKind) K() float64 {
	switch k {
	case ConnectorElbow:
		return KElbow
	case ConnectorTee:
		return KTee
	case ConnectorStraight:
		return KStraight
	default:
		return 0
	}
}

// ConnectorCounts holds the fittings installed along the whole run.
type ConnectorCounts struct {
	Elbows    int `json:"elbows"`
	Tees      int `json:"tees"`
	Straights int `json:"straights"`
}

// TotalK sums the K-values of every fitting on the run.
func (c ConnectorCounts) TotalK() float64 {
	return c.TurnK() + float64(c.Straights)*ConnectorStraight.K()
}

// TurnK sums only the direction-changing fittings (elbows and tees).
// Continuous drip lines ignore straight couplers.
func (c ConnectorCounts) TurnK() float64 {
	return float64(c.Elbows)*ConnectorElbow.K() + float64(c.Tees)*ConnectorTee.K()
}
