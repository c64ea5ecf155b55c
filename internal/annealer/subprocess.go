package annealer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/annealtools/isingtune/internal/ising"
)

// Subprocess invokes a solver executable, writing a JSON request to its
// stdin and reading a JSON Result from its stdout. It is the production
// integration point for an out-of-process annealer.
type Subprocess struct {
	Command string
	Args    []string
}

// NewSubprocess creates a Subprocess sampler for the given solver command.
func NewSubprocess(command string, args ...string) *Subprocess {
	return &Subprocess{Command: command, Args: args}
}

// request is the wire format handed to the solver executable.
type request struct {
	NumVariables int          `json:"num_variables"`
	Couplings    [][3]float64 `json:"couplings"`
	Fields       []float64    `json:"fields"`
	Params       Params       `json:"params"`
}

// Sample runs the solver once. The invocation is cancelled with ctx; stderr
// is folded into the returned error on failure.
func (s *Subprocess) Sample(ctx context.Context, m *ising.Model, params Params) (*Result, error) {
	if s.Command == "" {
		return nil, fmt.Errorf("solver command is required")
	}

	req := request{
		NumVariables: m.NumVariables(),
		Fields:       m.Fields(),
		Params:       params,
	}
	for _, t := range m.Triplets() {
		req.Couplings = append(req.Couplings, [3]float64{float64(t.Row), float64(t.Col), t.Value})
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode solver request: %w", err)
	}

	cmd := exec.CommandContext(ctx, s.Command, s.Args...)
	cmd.Stdin = bytes.NewReader(payload)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("solver invocation failed: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("solver invocation failed: %w", err)
	}

	var result Result
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode solver response: %w", err)
	}
	if len(result.Reads) == 0 {
		return nil, fmt.Errorf("solver returned no reads")
	}
	return &result, nil
}
