package messages

import "time"

// PlanComputedEvent is published by the planner after each computation and
// returned by its HTTP and gRPC front ends.
type PlanComputedEvent struct {
	PlanID    string          `json:"plan_id"`
	ProjectID string          `json:"project_id,omitempty"`
	Request   ScenarioRequest `json:"request"`
	Result    ScenarioResult  `json:"result"`
	Timestamp time.Time       `json:"timestamp"`
}

// PlanSummary is the flattened row served by /plans/latest.
type PlanSummary struct {
	PlanID                   string  `json:"plan_id"`
	ProjectID                string  `json:"project_id,omitempty"`
	Mode                     string  `json:"mode"`
	MainPipeMM               float64 `json:"main_pipe_mm"`
	LengthM                  float64 `json:"length_m"`
	TotalFlowLH              float64 `json:"total_flow_lh"`
	RequiredInletPressureBar float64 `json:"required_inlet_pressure_bar"`
	Timestamp                string  `json:"timestamp"` // RFC3339
}

// PlanRejectedEvent is published instead of a result when a bus request
// cannot be computed.
type PlanRejectedEvent struct {
	ProjectID string    `json:"project_id,omitempty"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}
