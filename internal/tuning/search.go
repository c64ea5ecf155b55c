// Package tuning drives the solver parameter search. It wires the sampler,
// the scorer, and a search algorithm into an evaluation loop and keeps the
// full trial history.
package tuning

import (
	"fmt"
	"math"
	"sort"

	"github.com/annealtools/isingtune/pkg/utils"
)

// Distribution selects how a parameter's values are drawn from its range.
type Distribution string

const (
	// DistUniform draws real values uniformly over [Low, High].
	DistUniform Distribution = "uniform"
	// DistLogUniform draws real values uniformly in log space over [Low, High].
	DistLogUniform Distribution = "log_uniform"
	// DistUniformInt draws integer values uniformly over [Low, High].
	DistUniformInt Distribution = "uniform_int"
	// DistLogUniformInt draws integer values log-uniformly over [Low, High].
	DistLogUniformInt Distribution = "log_uniform_int"
)

// Parameter describes one tunable solver parameter and its search range.
type Parameter struct {
	Name string
	Dist Distribution
	Low  float64
	High float64
}

// Validate checks the parameter range against its distribution.
func (p Parameter) Validate() error {
	if p.Name == "" {
		return &InvalidSpaceError{Reason: "parameter name is required"}
	}
	switch p.Dist {
	case DistUniform, DistUniformInt:
		if p.Low > p.High {
			return &InvalidSpaceError{Reason: fmt.Sprintf("parameter %q: low %g exceeds high %g", p.Name, p.Low, p.High)}
		}
	case DistLogUniform, DistLogUniformInt:
		if p.Low <= 0 {
			return &InvalidSpaceError{Reason: fmt.Sprintf("parameter %q: log-uniform range requires low > 0, got %g", p.Name, p.Low)}
		}
		if p.Low > p.High {
			return &InvalidSpaceError{Reason: fmt.Sprintf("parameter %q: low %g exceeds high %g", p.Name, p.Low, p.High)}
		}
	default:
		return &InvalidSpaceError{Reason: fmt.Sprintf("parameter %q: unknown distribution %q", p.Name, p.Dist)}
	}
	return nil
}

// Space is the set of parameters a search explores.
type Space []Parameter

// Validate checks every parameter and rejects duplicate names.
func (s Space) Validate() error {
	if len(s) == 0 {
		return &InvalidSpaceError{Reason: "search space is empty"}
	}
	seen := make(map[string]bool, len(s))
	for _, p := range s {
		if err := p.Validate(); err != nil {
			return err
		}
		if seen[p.Name] {
			return &InvalidSpaceError{Reason: fmt.Sprintf("duplicate parameter %q", p.Name)}
		}
		seen[p.Name] = true
	}
	return nil
}

// Names returns the parameter names in sorted order.
func (s Space) Names() []string {
	names := make([]string, len(s))
	for i, p := range s {
		names[i] = p.Name
	}
	sort.Strings(names)
	return names
}

// Assignment maps parameter names to concrete values for one trial.
type Assignment map[string]float64

// InvalidSpaceError indicates a malformed search space definition.
type InvalidSpaceError struct {
	Reason string
}

func (e *InvalidSpaceError) Error() string {
	return fmt.Sprintf("invalid search space: %s", e.Reason)
}

// SearchAlgorithm proposes parameter assignments and observes their losses.
// Implementations may be stateless (random search) or build a model of the
// objective from observed losses.
type SearchAlgorithm interface {
	// Suggest proposes the assignment for the next trial.
	Suggest(space Space) (Assignment, error)
	// Observe reports the loss obtained for a previously suggested assignment.
	Observe(assignment Assignment, loss float64)
	// Name returns the name of the search strategy.
	Name() string
}

// RandomSearch samples every parameter independently from its distribution.
type RandomSearch struct {
	src *utils.RandSource
}

// NewRandomSearch creates a random search seeded with seed. A zero seed
// produces a time-based seed.
func NewRandomSearch(seed int64) *RandomSearch {
	return &RandomSearch{src: utils.NewRandSource(seed)}
}

func (r *RandomSearch) Name() string {
	return "random"
}

// Suggest draws a fresh value for every parameter in the space.
func (r *RandomSearch) Suggest(space Space) (Assignment, error) {
	if err := space.Validate(); err != nil {
		return nil, err
	}

	assignment := make(Assignment, len(space))
	for _, p := range space {
		var v float64
		switch p.Dist {
		case DistUniform:
			v = r.src.Uniform(p.Low, p.High)
		case DistLogUniform:
			v = r.src.LogUniform(p.Low, p.High)
		case DistUniformInt:
			v = math.Round(r.src.Uniform(p.Low, p.High))
		case DistLogUniformInt:
			v = math.Round(r.src.LogUniform(p.Low, p.High))
		}
		assignment[p.Name] = v
	}
	return assignment, nil
}

// Observe is a no-op: random search is memoryless.
func (r *RandomSearch) Observe(assignment Assignment, loss float64) {}
