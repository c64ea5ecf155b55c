// Package ising holds the immutable problem representation the tuning
// pipeline operates on: a symmetric coupling matrix with a local field
// vector, plus the equivalent QUBO form and the exact transform between
// the two.
package ising

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Triplet is one nonzero matrix entry in (row, col, value) form.
type Triplet struct {
	Row   int
	Col   int
	Value float64
}

// Model is an Ising problem instance: a symmetric coupling matrix J with a
// zero diagonal and a local field vector h. Immutable after construction.
type Model struct {
	n int
	j *mat.SymDense
	h *mat.VecDense
}

// MalformedInstanceError indicates the raw instance data does not describe a
// valid square symmetric problem.
type MalformedInstanceError struct {
	Reason string
}

func (e *MalformedInstanceError) Error() string {
	return "malformed instance: " + e.Reason
}

// NewModel builds a Model over n variables from coupling triplets and an
// optional field vector. Duplicate (row, col) triplets are merged by
// summation, with (i, j) and (j, i) treated as the same entry. Diagonal
// triplets are discarded: self-couplings carry no meaning in the Ising form.
// fields may be nil for a zero-field instance.
func NewModel(n int, couplings []Triplet, fields []float64) (*Model, error) {
	if n <= 0 {
		return nil, &MalformedInstanceError{Reason: fmt.Sprintf("variable count must be positive, got %d", n)}
	}
	if fields != nil && len(fields) != n {
		return nil, &MalformedInstanceError{Reason: fmt.Sprintf("field vector length %d does not match %d variables", len(fields), n)}
	}

	merged, err := mergeTriplets(n, couplings)
	if err != nil {
		return nil, err
	}

	j := mat.NewSymDense(n, nil)
	for key, v := range merged {
		if key.row == key.col {
			continue
		}
		j.SetSym(key.row, key.col, v)
	}

	h := mat.NewVecDense(n, nil)
	for i, v := range fields {
		h.SetVec(i, v)
	}

	return &Model{n: n, j: j, h: h}, nil
}

type entryKey struct {
	row, col int
}

// mergeTriplets deduplicates triplets by summation, normalizing (i, j) and
// (j, i) to a single key, and validates index bounds.
func mergeTriplets(n int, triplets []Triplet) (map[entryKey]float64, error) {
	merged := make(map[entryKey]float64, len(triplets))
	for _, t := range triplets {
		if t.Row < 0 || t.Row >= n || t.Col < 0 || t.Col >= n {
			return nil, &MalformedInstanceError{
				Reason: fmt.Sprintf("entry (%d, %d) out of range for %d variables", t.Row, t.Col, n),
			}
		}
		key := entryKey{row: t.Row, col: t.Col}
		if key.row > key.col {
			key.row, key.col = key.col, key.row
		}
		merged[key] += t.Value
	}
	return merged, nil
}

// NumVariables returns the number of spin variables N.
func (m *Model) NumVariables() int {
	return m.n
}

// Coupling returns J[i, j]. The diagonal is identically zero.
func (m *Model) Coupling(i, j int) float64 {
	if i == j {
		return 0
	}
	return m.j.At(i, j)
}

// Field returns h[i].
func (m *Model) Field(i int) float64 {
	return m.h.AtVec(i)
}

// Triplets returns the nonzero upper-triangle coupling entries.
func (m *Model) Triplets() []Triplet {
	var out []Triplet
	for i := 0; i < m.n; i++ {
		for j := i + 1; j < m.n; j++ {
			if v := m.j.At(i, j); v != 0 {
				out = append(out, Triplet{Row: i, Col: j, Value: v})
			}
		}
	}
	return out
}

// Fields returns a copy of the field vector h.
func (m *Model) Fields() []float64 {
	out := make([]float64, m.n)
	for i := 0; i < m.n; i++ {
		out[i] = m.h.AtVec(i)
	}
	return out
}

// Energy evaluates the Hamiltonian sᵀJs + hᵀs at a spin assignment
// s ∈ {-1, +1}ᴺ. The quadratic term runs over the full symmetric matrix, so
// each coupled pair contributes twice.
func (m *Model) Energy(spins []float64) (float64, error) {
	if len(spins) != m.n {
		return 0, &MalformedInstanceError{
			Reason: fmt.Sprintf("spin vector length %d does not match %d variables", len(spins), m.n),
		}
	}
	s := mat.NewVecDense(m.n, spins)
	return mat.Inner(s, m.j, s) + mat.Dot(m.h, s), nil
}
