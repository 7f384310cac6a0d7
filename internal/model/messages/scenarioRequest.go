package messages

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/LeonardoBeccarini/drip_planner/internal/model/entities"
)

// Defaults applied to fields a decoded request leaves out.
const (
	DefaultLengthM     = 10.0
	DefaultOutlets     = 5
	DefaultOutletFlowL = 2.0
)

// Input ranges of the planning form.
const (
	MaxLengthM      = 150.0
	MaxOutlets      = 50
	MaxOutletFlowL  = 10.0
	MaxDripperCount = 500
	MaxConnectors   = 100
)

var (
	ErrUnknownMode         = errors.New("unknown mode")
	ErrInvalidLength       = errors.New("length_m must be in (0, 150]")
	ErrNoOutlets           = errors.New("num_outlets must be >= 1")
	ErrTooManyOutlets      = errors.New("num_outlets must be <= 50")
	ErrNegativeFlow        = errors.New("flows must be >= 0")
	ErrFlowTooHigh         = errors.New("specific_flows_lh entries must be <= 10")
	ErrNegativeConnectors  = errors.New("connector counts must be >= 0")
	ErrTooManyConnectors   = errors.New("connector counts must be <= 100")
	ErrInvalidDripperCount = errors.New("invalid dripper_counts entry")
)

// ScenarioRequest is the input record handed to the engine by any front end
// (HTTP, MQTT, gRPC, CLI).
type ScenarioRequest struct {
	Mode       entities.Mode            `json:"mode"`
	LengthM    float64                  `json:"length_m"`
	Connectors entities.ConnectorCounts `json:"connectors"`

	// continuous only
	TotalFlowLH   float64        `json:"total_flow_lh,omitempty"`
	DripperCounts map[string]int `json:"dripper_counts,omitempty"` // "2.0" -> 10 ; overrides TotalFlowLH when set

	// planters only
	NumOutlets      int       `json:"num_outlets"`
	SpecificFlowsLH []float64 `json:"specific_flows_lh,omitempty"`
}

// UnmarshalJSON decodes strictly and fills the fields the desktop tool
// pre-filled, but only when they are absent: an explicit 0 is kept and
// rejected by Validate.
func (r *ScenarioRequest) UnmarshalJSON(b []byte) error {
	type plain ScenarioRequest
	var aux struct {
		plain
		LengthM    *float64 `json:"length_m"`
		NumOutlets *int     `json:"num_outlets"`
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&aux); err != nil {
		return err
	}

	*r = ScenarioRequest(aux.plain)
	if r.Mode == "" {
		r.Mode = entities.ModeContinuous
	}
	r.LengthM = DefaultLengthM
	if aux.LengthM != nil {
		r.LengthM = *aux.LengthM
	}
	switch {
	case aux.NumOutlets != nil:
		r.NumOutlets = *aux.NumOutlets
	case r.Mode == entities.ModePlanters:
		r.NumOutlets = DefaultOutlets
	}
	return nil
}

// Validate enforces the ranges the engine assumes but never checks.
func (r ScenarioRequest) Validate() error {
	switch r.Mode {
	case entities.ModeContinuous, entities.ModePlanters:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, r.Mode)
	}
	if !(r.LengthM > 0 && r.LengthM <= MaxLengthM) {
		return fmt.Errorf("%w (got %v)", ErrInvalidLength, r.LengthM)
	}
	for _, n := range []int{r.Connectors.Elbows, r.Connectors.Tees, r.Connectors.Straights} {
		if n < 0 {
			return ErrNegativeConnectors
		}
		if n > MaxConnectors {
			return fmt.Errorf("%w (got %d)", ErrTooManyConnectors, n)
		}
	}

	if r.Mode == entities.ModeContinuous {
		if r.TotalFlowLH < 0 {
			return fmt.Errorf("%w: total_flow_lh=%v", ErrNegativeFlow, r.TotalFlowLH)
		}
		if _, err := r.Tally(); err != nil {
			return err
		}
		return nil
	}

	if r.NumOutlets < 1 {
		return fmt.Errorf("%w (got %d)", ErrNoOutlets, r.NumOutlets)
	}
	if r.NumOutlets > MaxOutlets {
		return fmt.Errorf("%w (got %d)", ErrTooManyOutlets, r.NumOutlets)
	}
	for i, f := range r.SpecificFlowsLH {
		if f < 0 {
			return fmt.Errorf("%w: specific_flows_lh[%d]=%v", ErrNegativeFlow, i, f)
		}
		if f > MaxOutletFlowL {
			return fmt.Errorf("%w: specific_flows_lh[%d]=%v", ErrFlowTooHigh, i, f)
		}
	}
	return nil
}

// Tally parses DripperCounts; nil when the request carries none.
func (r ScenarioRequest) Tally() (entities.DripperTally, error) {
	if len(r.DripperCounts) == 0 {
		return nil, nil
	}
	allowed := map[float64]bool{}
	for _, f := range entities.StandardEmitters() {
		allowed[f] = true
	}
	t := make(entities.DripperTally, len(r.DripperCounts))
	for k, n := range r.DripperCounts {
		f, err := strconv.ParseFloat(strings.TrimSpace(k), 64)
		if err != nil || !allowed[f] {
			return nil, fmt.Errorf("%w: %q is not a standard emitter", ErrInvalidDripperCount, k)
		}
		if n < 0 || n > MaxDripperCount {
			return nil, fmt.Errorf("%w: %q has count %d (0..%d)", ErrInvalidDripperCount, k, n, MaxDripperCount)
		}
		t[f] += n
	}
	return t, nil
}

// ContinuousFlow is the total system flow for continuous mode: the dripper
// tally when present, TotalFlowLH otherwise.
func (r ScenarioRequest) ContinuousFlow() float64 {
	if t, err := r.Tally(); err == nil && t != nil {
		return t.TotalFlow()
	}
	return r.TotalFlowLH
}

// IsValidation reports whether err came from Validate.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrUnknownMode, ErrInvalidLength, ErrNoOutlets, ErrTooManyOutlets,
		ErrNegativeFlow, ErrFlowTooHigh, ErrNegativeConnectors, ErrTooManyConnectors,
		ErrInvalidDripperCount,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
