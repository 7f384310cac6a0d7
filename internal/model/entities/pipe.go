package entities

// PipeSpec is one catalog row describing a pipe by its nominal size.
// The engine only reads it; the catalog owns it.
type PipeSpec struct {
	PipeType   string  `json:"pipe_type" yaml:"pipe_type"`
	NominalMM  float64 `json:"nominal_diameter_mm" yaml:"nominal_diameter_mm"`   // labeled size
	WallMM     float64 `json:"wall_thickness_mm" yaml:"wall_thickness_mm"`       // wall thickness
	InternalMM float64 `json:"internal_diameter_mm" yaml:"internal_diameter_mm"` // bore used by the hydraulics
	FlowType   string  `json:"flow_type,omitempty" yaml:"flow_type,omitempty"`
	Notes      string  `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// FittingSpec is an informational catalog row for a fitting and its K-values
// for small and large bores.
type FittingSpec struct {
	Name        string  `json:"fitting_name" yaml:"fitting_name"`
	Symbol      string  `json:"engineering_symbol" yaml:"engineering_symbol"`
	KSmall      float64 `json:"k_value_small" yaml:"k_value_small"`
	KLarge      float64 `json:"k_value_large" yaml:"k_value_large"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
}

// DripperSpec is an informational catalog row for an emitter model. The
// engine sizes outlets from the fixed standard emitter flows instead.
type DripperSpec struct {
	DripperType    string  `json:"dripper_type" yaml:"dripper_type"`
	FlowRates      string  `json:"flow_rates" yaml:"flow_rates"` // e.g. "1.0 / 2.0 / 4.0 / 8.0 L/h"
	PhysicalType   string  `json:"physical_type" yaml:"physical_type"`
	ExponentX      float64 `json:"exponent_x" yaml:"exponent_x"` // q = k·P^x
	MinPressureBar float64 `json:"min_pressure_bar" yaml:"min_pressure_bar"`
	MaxPressureBar float64 `json:"max_pressure_bar" yaml:"max_pressure_bar"`
	Notes          string  `json:"notes,omitempty" yaml:"notes,omitempty"`
}
