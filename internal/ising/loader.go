package ising

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ParseTriplets reads a whitespace-delimited triplet list (row, col, value).
// Blank lines and lines starting with '#' are skipped. Indices are zero-based;
// the returned variable count is inferred from the largest index seen.
func ParseTriplets(r io.Reader) (int, []Triplet, error) {
	var (
		triplets []Triplet
		maxIndex = -1
		lineNo   int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 3 {
			return 0, nil, &MalformedInstanceError{
				Reason: fmt.Sprintf("line %d: expected 3 fields (row col value), got %d", lineNo, len(fields)),
			}
		}

		row, err := strconv.Atoi(fields[0])
		if err != nil {
			return 0, nil, &MalformedInstanceError{Reason: fmt.Sprintf("line %d: bad row index %q", lineNo, fields[0])}
		}
		col, err := strconv.Atoi(fields[1])
		if err != nil {
			return 0, nil, &MalformedInstanceError{Reason: fmt.Sprintf("line %d: bad column index %q", lineNo, fields[1])}
		}
		value, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return 0, nil, &MalformedInstanceError{Reason: fmt.Sprintf("line %d: bad value %q", lineNo, fields[2])}
		}
		if row < 0 || col < 0 {
			return 0, nil, &MalformedInstanceError{Reason: fmt.Sprintf("line %d: negative index (%d, %d)", lineNo, row, col)}
		}

		triplets = append(triplets, Triplet{Row: row, Col: col, Value: value})
		if row > maxIndex {
			maxIndex = row
		}
		if col > maxIndex {
			maxIndex = col
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, nil, fmt.Errorf("failed to read instance: %w", err)
	}
	if maxIndex < 0 {
		return 0, nil, &MalformedInstanceError{Reason: "no coupling entries found"}
	}

	return maxIndex + 1, triplets, nil
}

// ParseInstance parses a triplet list describing one half of a symmetric
// coupling matrix and builds the symmetrized Model.
func ParseInstance(r io.Reader) (*Model, error) {
	n, triplets, err := ParseTriplets(r)
	if err != nil {
		return nil, err
	}
	return NewModel(n, triplets, nil)
}

// ParseQUBO parses a triplet list as an upper-triangular QUBO matrix.
func ParseQUBO(r io.Reader) (*QUBO, error) {
	n, triplets, err := ParseTriplets(r)
	if err != nil {
		return nil, err
	}
	return NewQUBO(n, triplets)
}

// LoadInstance loads and parses an instance triplet file.
func LoadInstance(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open instance file %s: %w", path, err)
	}
	defer f.Close()

	m, err := ParseInstance(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse instance file %s: %w", path, err)
	}
	return m, nil
}

// LoadQUBO loads and parses a QUBO triplet file.
func LoadQUBO(path string) (*QUBO, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open instance file %s: %w", path, err)
	}
	defer f.Close()

	q, err := ParseQUBO(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse instance file %s: %w", path, err)
	}
	return q, nil
}

// ParseGroundState reads a reference file whose first line is a tab-delimited
// (label, value) pair and returns the known optimal objective value.
func ParseGroundState(r io.Reader) (float64, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return 0, fmt.Errorf("failed to read reference: %w", err)
		}
		return 0, fmt.Errorf("reference is empty")
	}

	fields := strings.Fields(scanner.Text())
	if len(fields) < 2 {
		return 0, fmt.Errorf("reference first line must be a (label, value) pair, got %q", scanner.Text())
	}
	value, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, fmt.Errorf("bad ground-state value %q: %w", fields[1], err)
	}
	return value, nil
}

// LoadGroundState loads the ground-state reference value from a file.
func LoadGroundState(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open reference file %s: %w", path, err)
	}
	defer f.Close()

	v, err := ParseGroundState(f)
	if err != nil {
		return 0, fmt.Errorf("failed to parse reference file %s: %w", path, err)
	}
	return v, nil
}
