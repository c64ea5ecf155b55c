// Package annealer defines the boundary to the external parallel-tempering
// solver: the statically typed run parameters, the per-read results, and a
// subprocess adapter that speaks JSON to a solver executable. The sampling
// algorithm itself lives entirely on the other side of this boundary.
package annealer

import (
	"fmt"
	"math"
)

// ProblemType tags the representation of the submitted matrix.
type ProblemType string

const (
	ProblemIsing ProblemType = "ising"
	ProblemQUBO  ProblemType = "qubo"
)

// Precision selects the solver's numeric precision.
type Precision string

const (
	PrecisionFloat32 Precision = "float32"
	PrecisionFloat64 Precision = "float64"
)

// UpdateStrategy selects the solver's spin-update ordering within a sweep.
type UpdateStrategy string

const (
	UpdateSequential UpdateStrategy = "sequential"
	UpdateRandom     UpdateStrategy = "random"
)

// InitStrategy selects how the solver initializes replica states.
type InitStrategy string

const (
	InitRandom InitStrategy = "random"
	InitOnes   InitStrategy = "ones"
	InitZeros  InitStrategy = "zeros"
)

// Params enumerates every recognized solver option with its type. Tuned
// values are merged in through Apply; anything the solver does not recognize
// is rejected there rather than forwarded blindly.
type Params struct {
	NumSweeps   int `json:"num_sweeps"`
	NumReads    int `json:"num_reads"`
	NumReplicas int `json:"num_replicas"`

	// MinTemp and MaxTemp define the temperature ladder endpoints. Temps, if
	// set, is an explicit ladder that takes precedence over the endpoints.
	MinTemp float64   `json:"min_temp"`
	MaxTemp float64   `json:"max_temp"`
	Temps   []float64 `json:"temps,omitempty"`

	ProblemType    ProblemType    `json:"problem_type"`
	Precision      Precision      `json:"precision"`
	UpdateStrategy UpdateStrategy `json:"update_strategy"`
	InitStrategy   InitStrategy   `json:"initialize_strategy"`

	RecomputeEnergy bool `json:"recompute_energy"`
	SortOutput      bool `json:"sort_output"`
	Parallel        bool `json:"parallel"`
	ReplicaExchange bool `json:"replica_exchange"`
}

// DefaultParams creates a parameter set with solver defaults. Callers
// typically override the temperature endpoints from computed bounds and merge
// tuned values through Apply.
func DefaultParams() Params {
	return Params{
		NumSweeps:       1000,
		NumReads:        100,
		NumReplicas:     8,
		MinTemp:         0.3,
		MaxTemp:         5.0,
		ProblemType:     ProblemIsing,
		Precision:       PrecisionFloat64,
		UpdateStrategy:  UpdateSequential,
		InitStrategy:    InitRandom,
		RecomputeEnergy: true,
		SortOutput:      false,
		Parallel:        true,
		ReplicaExchange: true,
	}
}

// UnknownParameterError indicates a tuned parameter name the solver boundary
// does not recognize.
type UnknownParameterError struct {
	Name string
}

func (e *UnknownParameterError) Error() string {
	return "unknown annealer parameter: " + e.Name
}

// Apply merges a tuned assignment over the receiver. Integer-valued options
// coerce floating-point draws by rounding, since search spaces may emit
// floats even for integer distributions. Unknown keys fail.
func (p *Params) Apply(assignment map[string]float64) error {
	for name, value := range assignment {
		switch name {
		case "num_sweeps":
			p.NumSweeps = int(math.Round(value))
		case "num_reads":
			p.NumReads = int(math.Round(value))
		case "num_replicas":
			p.NumReplicas = int(math.Round(value))
		case "min_temp":
			p.MinTemp = value
		case "max_temp":
			p.MaxTemp = value
		default:
			return &UnknownParameterError{Name: name}
		}
	}
	return nil
}

// Validate checks the parameter set before a solver invocation.
func (p *Params) Validate() error {
	if p.NumSweeps <= 0 {
		return fmt.Errorf("num_sweeps must be positive, got %d", p.NumSweeps)
	}
	if p.NumReads <= 0 {
		return fmt.Errorf("num_reads must be positive, got %d", p.NumReads)
	}
	if p.NumReplicas <= 0 {
		return fmt.Errorf("num_replicas must be positive, got %d", p.NumReplicas)
	}

	if len(p.Temps) > 0 {
		for i, temp := range p.Temps {
			if temp <= 0 {
				return fmt.Errorf("temps[%d] must be positive, got %f", i, temp)
			}
		}
	} else {
		if p.MinTemp <= 0 {
			return fmt.Errorf("min_temp must be positive, got %f", p.MinTemp)
		}
		if p.MaxTemp <= p.MinTemp {
			return fmt.Errorf("max_temp %f must exceed min_temp %f", p.MaxTemp, p.MinTemp)
		}
	}

	switch p.ProblemType {
	case ProblemIsing, ProblemQUBO:
	default:
		return fmt.Errorf("invalid problem type: %s (must be ising or qubo)", p.ProblemType)
	}
	switch p.Precision {
	case PrecisionFloat32, PrecisionFloat64:
	default:
		return fmt.Errorf("invalid precision: %s (must be float32 or float64)", p.Precision)
	}
	switch p.UpdateStrategy {
	case UpdateSequential, UpdateRandom:
	default:
		return fmt.Errorf("invalid update strategy: %s (must be sequential or random)", p.UpdateStrategy)
	}
	switch p.InitStrategy {
	case InitRandom, InitOnes, InitZeros:
	default:
		return fmt.Errorf("invalid initialize strategy: %s (must be random, ones, or zeros)", p.InitStrategy)
	}

	return nil
}
