package ising

import (
	"math"
	"testing"
)

func TestNewModel(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		couplings []Triplet
		fields    []float64
		wantErr   bool
	}{
		{
			name: "valid instance",
			n:    3,
			couplings: []Triplet{
				{Row: 0, Col: 1, Value: -1.0},
				{Row: 1, Col: 2, Value: 0.5},
			},
			fields: []float64{0.1, 0, -0.2},
		},
		{
			name:      "zero variables",
			n:         0,
			couplings: nil,
			wantErr:   true,
		},
		{
			name:      "negative variables",
			n:         -2,
			couplings: nil,
			wantErr:   true,
		},
		{
			name: "row out of range",
			n:    2,
			couplings: []Triplet{
				{Row: 2, Col: 0, Value: 1.0},
			},
			wantErr: true,
		},
		{
			name: "negative column",
			n:    2,
			couplings: []Triplet{
				{Row: 0, Col: -1, Value: 1.0},
			},
			wantErr: true,
		},
		{
			name:      "field length mismatch",
			n:         3,
			couplings: nil,
			fields:    []float64{1.0, 2.0},
			wantErr:   true,
		},
		{
			name:      "nil fields allowed",
			n:         2,
			couplings: []Triplet{{Row: 0, Col: 1, Value: 1.0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewModel(tt.n, tt.couplings, tt.fields)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				var malformed *MalformedInstanceError
				if !asMalformed(err, &malformed) {
					t.Fatalf("expected MalformedInstanceError, got %T: %v", err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if m.NumVariables() != tt.n {
				t.Fatalf("NumVariables() = %d, want %d", m.NumVariables(), tt.n)
			}
		})
	}
}

func asMalformed(err error, target **MalformedInstanceError) bool {
	m, ok := err.(*MalformedInstanceError)
	if ok {
		*target = m
	}
	return ok
}

func TestNewModelDeduplicatesBySummation(t *testing.T) {
	m, err := NewModel(2, []Triplet{
		{Row: 0, Col: 1, Value: 1.5},
		{Row: 0, Col: 1, Value: 0.5},
		{Row: 1, Col: 0, Value: -1.0}, // transpose entry merges into the same key
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.Coupling(0, 1); got != 1.0 {
		t.Fatalf("Coupling(0, 1) = %f, want 1.0", got)
	}
}

func TestNewModelSymmetry(t *testing.T) {
	m, err := NewModel(3, []Triplet{
		{Row: 0, Col: 2, Value: -2.5},
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Coupling(0, 2) != m.Coupling(2, 0) {
		t.Fatalf("coupling matrix is not symmetric: %f vs %f", m.Coupling(0, 2), m.Coupling(2, 0))
	}
}

func TestNewModelDiscardsDiagonal(t *testing.T) {
	m, err := NewModel(2, []Triplet{
		{Row: 0, Col: 0, Value: 5.0},
		{Row: 0, Col: 1, Value: 1.0},
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.Coupling(0, 0); got != 0 {
		t.Fatalf("Coupling(0, 0) = %f, want 0 (diagonal excluded)", got)
	}
}

func TestModelEnergy(t *testing.T) {
	// H(s) = sᵀJs + hᵀs with J01 = -1, h = (0.5, 0).
	m, err := NewModel(2, []Triplet{{Row: 0, Col: 1, Value: -1.0}}, []float64{0.5, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name  string
		spins []float64
		want  float64
	}{
		{name: "aligned up", spins: []float64{1, 1}, want: -2 + 0.5},
		{name: "aligned down", spins: []float64{-1, -1}, want: -2 - 0.5},
		{name: "anti-aligned", spins: []float64{1, -1}, want: 2 + 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Energy(tt.spins)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Fatalf("Energy(%v) = %f, want %f", tt.spins, got, tt.want)
			}
		})
	}

	if _, err := m.Energy([]float64{1}); err == nil {
		t.Fatalf("expected error for wrong spin vector length")
	}
}
