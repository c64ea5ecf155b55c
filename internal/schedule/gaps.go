// Package schedule derives the fixed temperature range for a
// parallel-tempering run from the structure of the problem instance: the
// hottest temperature must make the largest single-flip energy change likely,
// the coldest must make the smallest one rare.
package schedule

import (
	"math"

	"github.com/annealtools/isingtune/internal/ising"
)

// GapEstimate holds the single-flip energy change bounds of an instance and
// the multiplicity of minimal transitions.
type GapEstimate struct {
	// DeltaEHot is twice the largest mean-field magnitude: an upper bound on
	// the energy change of any single spin flip.
	DeltaEHot float64
	// DeltaECold is twice the smallest nonzero coefficient magnitude: the
	// smallest energy scale a flip can resolve.
	DeltaECold float64
	// Degeneracy counts the variables whose minimal local transition sits at
	// the global minimum. It is 1 when the scaling correction is disabled.
	Degeneracy int
}

// DegenerateInstanceError indicates an instance with no nonzero couplings and
// no nonzero fields, for which energy gaps are undefined.
type DegenerateInstanceError struct{}

func (e *DegenerateInstanceError) Error() string {
	return "degenerate instance: no nonzero couplings or fields to estimate energy gaps"
}

// EstimateGaps computes the hot and cold energy gaps of an Ising instance.
// When scalingCorrection is enabled, the degeneracy count corrects the cold
// probability estimate for near-degenerate minimal transitions; otherwise it
// is fixed at 1.
func EstimateGaps(m *ising.Model, scalingCorrection bool) (GapEstimate, error) {
	n := m.NumVariables()

	var maxMeanField float64
	minMeanField := math.Inf(1)

	// localMin[i] is the smallest nonzero coefficient magnitude touching
	// variable i, used for the degeneracy count below.
	localMin := make([]float64, n)

	for i := 0; i < n; i++ {
		meanField := 0.0
		local := math.Inf(1)

		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			c := math.Abs(m.Coupling(i, j))
			if c == 0 {
				continue
			}
			meanField += c
			if c < local {
				local = c
			}
			if c < minMeanField {
				minMeanField = c
			}
		}

		f := math.Abs(m.Field(i))
		if f != 0 {
			meanField += f
			if f < local {
				local = f
			}
			if f < minMeanField {
				minMeanField = f
			}
		}

		localMin[i] = local
		if meanField > maxMeanField {
			maxMeanField = meanField
		}
	}

	if math.IsInf(minMeanField, 1) {
		return GapEstimate{}, &DegenerateInstanceError{}
	}

	degeneracy := 1
	if scalingCorrection {
		degeneracy = 0
		for i := 0; i < n; i++ {
			if localMin[i] == minMeanField {
				degeneracy++
			}
		}
	}

	return GapEstimate{
		DeltaEHot:  2 * maxMeanField,
		DeltaECold: 2 * minMeanField,
		Degeneracy: degeneracy,
	}, nil
}
