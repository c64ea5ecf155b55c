package schedule

import (
	"fmt"
	"math"
)

// Bounds is the derived temperature range handed to the annealer as fixed
// (non-tuned) parameters.
type Bounds struct {
	MinTemp float64
	MaxTemp float64
}

// InvalidTemperatureRangeError indicates the requested probability targets or
// the degeneracy count violate the domain constraints of the bound formulas.
type InvalidTemperatureRangeError struct {
	Reason string
}

func (e *InvalidTemperatureRangeError) Error() string {
	return "invalid temperature range: " + e.Reason
}

// ComputeBounds maps energy gaps and target transition probabilities to a
// temperature range:
//
//	MaxTemp = -ΔE_hot / ln(p_hot)
//	MinTemp = -ΔE_cold / ln(p_cold / degeneracy)
//
// pHot and pCold are caller-supplied targets and must lie strictly inside
// (0, 1). The cold ratio p_cold/degeneracy must also stay inside (0, 1) so
// its logarithm is strictly negative.
func ComputeBounds(g GapEstimate, pHot, pCold float64) (Bounds, error) {
	if pHot <= 0 || pHot >= 1 {
		return Bounds{}, &InvalidTemperatureRangeError{
			Reason: fmt.Sprintf("p_hot must be in (0, 1), got %g", pHot),
		}
	}
	if pCold <= 0 || pCold >= 1 {
		return Bounds{}, &InvalidTemperatureRangeError{
			Reason: fmt.Sprintf("p_cold must be in (0, 1), got %g", pCold),
		}
	}
	if g.Degeneracy < 1 {
		return Bounds{}, &InvalidTemperatureRangeError{
			Reason: fmt.Sprintf("degeneracy count must be at least 1, got %d", g.Degeneracy),
		}
	}

	coldRatio := pCold / float64(g.Degeneracy)
	if coldRatio <= 0 || coldRatio >= 1 {
		return Bounds{}, &InvalidTemperatureRangeError{
			Reason: fmt.Sprintf("p_cold/degeneracy = %g is outside (0, 1)", coldRatio),
		}
	}

	return Bounds{
		MaxTemp: -g.DeltaEHot / math.Log(pHot),
		MinTemp: -g.DeltaECold / math.Log(coldRatio),
	}, nil
}
