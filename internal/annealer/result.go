package annealer

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/annealtools/isingtune/internal/ising"
)

// Read is the solver's output for one independent run: the best objective
// value it found and the wall-clock time it took.
type Read struct {
	// BestEnergy is the solver's reported best energy. By solver convention
	// this is half the true Hamiltonian value; Energies applies the rescale.
	BestEnergy float64 `json:"best_energy"`
	// RuntimeSec is the read's wall-clock runtime in seconds.
	RuntimeSec float64 `json:"runtime_sec"`
}

// Result is the solver's output for one invocation. The first read is a
// warm-up that covers solver initialization and is excluded from all
// aggregate accessors.
type Result struct {
	Reads []Read `json:"reads"`
}

// Energies returns the true Hamiltonian value of each representative read:
// the warm-up read is dropped and the solver's half-valued convention is
// rescaled by a factor of two.
func (r *Result) Energies() ([]float64, error) {
	if len(r.Reads) < 2 {
		return nil, fmt.Errorf("need at least 2 reads (first is warm-up), got %d", len(r.Reads))
	}
	energies := make([]float64, 0, len(r.Reads)-1)
	for _, read := range r.Reads[1:] {
		energies = append(energies, 2*read.BestEnergy)
	}
	return energies, nil
}

// MeanRuntime returns the mean wall-clock runtime in seconds across the
// representative reads, excluding the warm-up.
func (r *Result) MeanRuntime() (float64, error) {
	if len(r.Reads) < 2 {
		return 0, fmt.Errorf("need at least 2 reads (first is warm-up), got %d", len(r.Reads))
	}
	runtimes := make([]float64, 0, len(r.Reads)-1)
	for _, read := range r.Reads[1:] {
		if read.RuntimeSec <= 0 {
			return 0, fmt.Errorf("read runtime must be positive, got %f", read.RuntimeSec)
		}
		runtimes = append(runtimes, read.RuntimeSec)
	}
	return stat.Mean(runtimes, nil), nil
}

// Sampler is the external solver collaborator: one call runs the configured
// number of independent reads against a problem instance and blocks until
// they complete or ctx is cancelled.
type Sampler interface {
	Sample(ctx context.Context, m *ising.Model, params Params) (*Result, error)
}
