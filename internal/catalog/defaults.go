package catalog

import "github.com/LeonardoBeccarini/drip_planner/internal/model/entities"

// DefaultPipes are the polyethylene drip pipes stocked by garden suppliers.
func DefaultPipes() []entities.PipeSpec {
	return []entities.PipeSpec{
		{PipeType: "Spaghetti tubing", NominalMM: 5, WallMM: 1.0, InternalMM: 3.0, FlowType: "laminar/turbulent", Notes: "end fittings only"},
		{PipeType: "Pipe 16 (standard)", NominalMM: 16, WallMM: 1.2, InternalMM: 13.6, FlowType: "turbulent", Notes: "most common lateral"},
		{PipeType: "Pipe 20", NominalMM: 20, WallMM: 1.4, InternalMM: 17.2, FlowType: "turbulent", Notes: "long laterals"},
		{PipeType: "Pipe 25", NominalMM: 25, WallMM: 1.5, InternalMM: 22.0, FlowType: "turbulent", Notes: "main line, medium garden"},
		{PipeType: "Pipe 32", NominalMM: 32, WallMM: 2.0, InternalMM: 28.0, FlowType: "turbulent", Notes: "main line / supply"},
		{PipeType: "Pipe 50", NominalMM: 50, WallMM: 3.0, InternalMM: 44.0, FlowType: "turbulent", Notes: "main line, farms and parks"},
		{PipeType: "Pipe 63", NominalMM: 63, WallMM: 3.8, InternalMM: 55.4, FlowType: "turbulent", Notes: "main line, long distances"},
	}
}

// DefaultFittings lists fitting K-values for small and large bores.
func DefaultFittings() []entities.FittingSpec {
	return []entities.FittingSpec{
		{Name: "Coupling", Symbol: "=", KSmall: 0.6, KLarge: 0.4, Description: "straight join between pipes"},
		{Name: "Elbow 90", Symbol: "L", KSmall: 1.3, KLarge: 1.1, Description: "90 degree turn"},
		{Name: "Tee (run)", Symbol: "T-run", KSmall: 0.6, KLarge: 0.5, Description: "straight through with side branch"},
		{Name: "Tee (branch)", Symbol: "T-branch", KSmall: 1.8, KLarge: 1.5, Description: "turn off the main line"},
		{Name: "Inlet saddle", Symbol: "Inlet", KSmall: 0.8, KLarge: 0.6, Description: "line start at the source"},
	}
}

// DefaultDrippers lists the emitter models on sale; informational only.
func DefaultDrippers() []entities.DripperSpec {
	return []entities.DripperSpec{
		{DripperType: "Button dripper", FlowRates: "1.0 / 2.0 / 4.0 / 8.0 L/h", PhysicalType: "on-line", ExponentX: 0.5, MinPressureBar: 1.0, MaxPressureBar: 4.0, Notes: "depends on model"},
	}
}
