package hydraulics

import (
	"fmt"

	"github.com/LeonardoBeccarini/drip_planner/internal/model/entities"
)

// PipeLookup is the catalog collaborator. Implementations must be safe for
// concurrent reads.
type PipeLookup interface {
	PipeByNominal(nominalMM float64) (entities.PipeSpec, bool)
}

// PipeSelection is the outcome of resolving a run length to a main pipe.
type PipeSelection struct {
	NominalMM  float64
	InternalMM float64
	Fallback   bool // internal diameter was synthesized, not read from the catalog
}

// NominalForLength applies the fixed length breakpoints (inclusive upper bounds).
func NominalForLength(lengthM float64) float64 {
	switch {
	case lengthM <= 60:
		return 16
	case lengthM <= 100:
		return 25
	default:
		return 32
	}
}

// ResolvePipe picks the nominal size for the run and reads its bore from the
// catalog, falling back to nominal×FallbackInternalRatio on a miss.
func ResolvePipe(lookup PipeLookup, lengthM float64) PipeSelection {
	nominal := NominalForLength(lengthM)
	if lookup != nil {
		if p, ok := lookup.PipeByNominal(nominal); ok {
			return PipeSelection{NominalMM: nominal, InternalMM: p.InternalMM}
		}
	}
	return PipeSelection{NominalMM: nominal, InternalMM: nominal * FallbackInternalRatio, Fallback: true}
}

// ClassifyLength labels the run with its 10 m bracket, e.g. "Range: 20-30m".
func ClassifyLength(lengthM float64) string {
	lower := int(lengthM) / 10 * 10
	return fmt.Sprintf("Range: %d-%dm", lower, lower+10)
}

// SecondaryTubing picks the spaghetti tubing feeding each planter.
func SecondaryTubing(mainNominalMM float64) string {
	switch {
	case mainNominalMM == 16:
		return "5mm"
	case mainNominalMM == 25:
		return "6mm"
	case mainNominalMM >= 32:
		return "7mm"
	default:
		return "5mm"
	}
}
