// Package scoring converts raw solver output into the scalar loss the search
// algorithm ranks trials by: the time-to-solution (TTS), the runtime needed to
// hit the ground state at a target confidence given the observed success rate.
package scoring

import (
	"fmt"
	"math"

	"github.com/annealtools/isingtune/pkg/logger"
)

// Default scorer settings.
const (
	DefaultSuccessQuantile = 0.99
	DefaultOptimalityGap   = 0.05
	DefaultFailValue       = 1e10
)

// Scorer computes time-to-solution from observed objective values.
type Scorer struct {
	// SuccessQuantile is the target confidence s in (0, 1).
	SuccessQuantile float64
	// OptimalityGap is the relative gap in [0, 1): a read succeeds when its
	// energy is at or below groundState * (1 - OptimalityGap). The gap is
	// multiplicative, which assumes a negative ground-state energy.
	OptimalityGap float64
	// FailValue is the sentinel loss reported when no read succeeded.
	FailValue float64
}

// NewScorer creates a Scorer with the default quantile, gap and sentinel.
func NewScorer() *Scorer {
	return &Scorer{
		SuccessQuantile: DefaultSuccessQuantile,
		OptimalityGap:   DefaultOptimalityGap,
		FailValue:       DefaultFailValue,
	}
}

// Evaluation carries the scored loss together with the diagnostic values
// behind it.
type Evaluation struct {
	// Loss is the trial's TTS in seconds, or FailValue when no read succeeded.
	Loss float64
	// SuccessProb is the fraction of reads at or below the success threshold.
	SuccessProb float64
	// Extrapolated is true when Loss was extrapolated from a partial success
	// rate rather than returned as the raw runtime or the fail sentinel.
	Extrapolated bool
}

// Evaluate scores one trial. energies holds one best-found objective value per
// independent solver read; meanRuntime is the mean wall-clock seconds of a
// read. The result is monotonically non-increasing in the success probability
// for a fixed runtime.
func (s *Scorer) Evaluate(energies []float64, meanRuntime, groundState float64) (Evaluation, error) {
	if len(energies) == 0 {
		return Evaluation{}, fmt.Errorf("at least one energy observation is required")
	}
	if meanRuntime <= 0 {
		return Evaluation{}, fmt.Errorf("mean runtime must be positive, got %g", meanRuntime)
	}
	if s.SuccessQuantile <= 0 || s.SuccessQuantile >= 1 {
		return Evaluation{}, fmt.Errorf("success quantile must be in (0, 1), got %g", s.SuccessQuantile)
	}
	if s.OptimalityGap < 0 || s.OptimalityGap >= 1 {
		return Evaluation{}, fmt.Errorf("optimality gap must be in [0, 1), got %g", s.OptimalityGap)
	}

	threshold := groundState * (1 - s.OptimalityGap)
	succeeded := 0
	for _, e := range energies {
		if e <= threshold {
			succeeded++
		}
	}
	pSucc := float64(succeeded) / float64(len(energies))

	switch {
	case pSucc == 0:
		// No run met the criterion: the estimate is undefined, so flag it
		// with the sentinel instead of extrapolating from nothing.
		logger.Info("tts: no successful reads", "p_succ", 0.0, "threshold", threshold)
		return Evaluation{Loss: s.FailValue, SuccessProb: 0}, nil
	case pSucc >= s.SuccessQuantile:
		// Already at or above the target confidence; extrapolating would
		// underestimate the cost.
		logger.Info("tts: target confidence reached", "p_succ", pSucc, "tts_sec", meanRuntime)
		return Evaluation{Loss: meanRuntime, SuccessProb: pSucc}, nil
	default:
		tts := meanRuntime * math.Log(1-s.SuccessQuantile) / math.Log(1-pSucc)
		logger.Info("tts: extrapolated", "p_succ", pSucc, "tts_sec", tts)
		return Evaluation{Loss: tts, SuccessProb: pSucc, Extrapolated: true}, nil
	}
}

// Score returns just the scalar loss for a trial.
func (s *Scorer) Score(energies []float64, meanRuntime, groundState float64) (float64, error) {
	ev, err := s.Evaluate(energies, meanRuntime, groundState)
	if err != nil {
		return 0, err
	}
	return ev.Loss, nil
}
