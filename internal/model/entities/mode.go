package entities

// Mode is the irrigation topology of a scenario.
type Mode string

const (
	ModeContinuous Mode = "continuous" // uniformly draining drip line in the soil
	ModePlanters   Mode = "planters"   // discrete outlets fed by secondary tubing
)

// ResultType is the classification label carried by a result record.
func (m Mode) ResultType() string {
	if m == ModePlanters {
		return "planters_scenario"
	}
	return string(ModeContinuous)
}
