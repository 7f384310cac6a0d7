package messages

// GraphData is the pressure-vs-distance series. X and Y always have equal length
// and X[0] is the supply end.
type GraphData struct {
	X []float64 `json:"x"` // m
	Y []float64 `json:"y"` // bar
}

// DebugInfo is the physical snapshot of the first segment of the run.
type DebugInfo struct {
	Velocity    float64 `json:"velocity"`
	Reynolds    float64 `json:"reynolds"`
	FrictionF   float64 `json:"friction_f"`
	SegmentFlow float64 `json:"segment_flow"`
	SegmentLoss float64 `json:"segment_loss"`
	InternalDia float64 `json:"internal_dia"`
}

// ScenarioResult is the engine's output record. Continuous results fill
// RecommendedPipeMM; planters results fill the RecommendedMain/Planter fields.
type ScenarioResult struct {
	Type                     string     `json:"type"`
	RangeClassification      string     `json:"range_classification"`
	RecommendedPipeMM        float64    `json:"recommended_pipe_mm,omitempty"`
	RecommendedMainPipeMM    float64    `json:"recommended_main_pipe_mm,omitempty"`
	RecommendedPlanterPipe   string     `json:"recommended_planter_pipe,omitempty"`
	DetailedPlantersList     []string   `json:"detailed_planters_list,omitempty"`
	TotalFlowLH              float64    `json:"total_flow_lh"`
	RequiredInletPressureBar float64    `json:"required_inlet_pressure_bar"`
	GraphData                GraphData  `json:"graph_data"`
	DebugInfo                *DebugInfo `json:"debug_info,omitempty"`

	// CatalogFallback is true when the internal diameter came from the
	// nominal×ratio fallback rather than the catalog.
	CatalogFallback bool `json:"catalog_fallback,omitempty"`
}

// MainPipeMM returns the main-line nominal size regardless of the topology.
func (r ScenarioResult) MainPipeMM() float64 {
	if r.RecommendedMainPipeMM != 0 {
		return r.RecommendedMainPipeMM
	}
	return r.RecommendedPipeMM
}
