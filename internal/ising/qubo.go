package ising

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// QUBO is a quadratic unconstrained binary optimization instance in the
// symmetric convention: an N×N matrix Q whose diagonal carries the linear
// terms. The objective is xᵀQx over x ∈ {0, 1}ᴺ.
type QUBO struct {
	n int
	q *mat.SymDense
}

// NewQUBO builds a QUBO over n variables from matrix triplets. Duplicate
// entries merge by summation, with (i, j) and (j, i) treated as the same
// entry. Diagonal triplets are kept: they are the linear coefficients.
func NewQUBO(n int, entries []Triplet) (*QUBO, error) {
	if n <= 0 {
		return nil, &MalformedInstanceError{Reason: fmt.Sprintf("variable count must be positive, got %d", n)}
	}
	merged, err := mergeTriplets(n, entries)
	if err != nil {
		return nil, err
	}

	q := mat.NewSymDense(n, nil)
	for key, v := range merged {
		q.SetSym(key.row, key.col, v)
	}
	return &QUBO{n: n, q: q}, nil
}

// NumVariables returns the number of binary variables N.
func (q *QUBO) NumVariables() int {
	return q.n
}

// At returns Q[i, j].
func (q *QUBO) At(i, j int) float64 {
	return q.q.At(i, j)
}

// Value evaluates the objective xᵀQx at a binary assignment x ∈ {0, 1}ᴺ.
func (q *QUBO) Value(x []float64) (float64, error) {
	if len(x) != q.n {
		return 0, &MalformedInstanceError{
			Reason: fmt.Sprintf("assignment length %d does not match %d variables", len(x), q.n),
		}
	}
	v := mat.NewVecDense(q.n, x)
	return mat.Inner(v, q.q, v), nil
}

// ToIsing converts the QUBO to the equivalent Ising form via the substitution
// x = (σ + 1) / 2:
//
//	J = (Q - diag(Q)) / 4
//	h = (𝟙ᵀ Q) / 2
//
// The constant offset is discarded; it does not move the argmin. The
// resulting Hamiltonian sᵀJs + hᵀs equals xᵀQx minus that offset at
// corresponding assignments.
func (q *QUBO) ToIsing() (*Model, error) {
	j := mat.NewSymDense(q.n, nil)
	h := make([]float64, q.n)

	for i := 0; i < q.n; i++ {
		for k := 0; k < q.n; k++ {
			h[k] += q.q.At(i, k) / 2
			if i < k {
				j.SetSym(i, k, q.q.At(i, k)/4)
			}
		}
	}

	hv := mat.NewVecDense(q.n, h)
	return &Model{n: q.n, j: j, h: hv}, nil
}
