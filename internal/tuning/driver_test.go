package tuning

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/annealtools/isingtune/internal/annealer"
	"github.com/annealtools/isingtune/internal/ising"
	"github.com/annealtools/isingtune/internal/metrics"
	"github.com/annealtools/isingtune/internal/scoring"
)

// stubSampler returns a fixed result for every call, optionally failing on
// selected calls (1-based).
type stubSampler struct {
	calls  int
	failOn map[int]bool
	cancel context.CancelFunc
}

func (s *stubSampler) Sample(ctx context.Context, m *ising.Model, params annealer.Params) (*annealer.Result, error) {
	s.calls++
	if s.failOn[s.calls] {
		return nil, errors.New("solver exited with status 1")
	}
	if s.cancel != nil && s.calls == 2 {
		s.cancel()
	}
	// First read is the warm-up; reported energies are half the objective.
	return &annealer.Result{Reads: []annealer.Read{
		{BestEnergy: -5, RuntimeSec: 1.2},
		{BestEnergy: -5, RuntimeSec: 0.5},
		{BestEnergy: -5, RuntimeSec: 0.5},
		{BestEnergy: -4.5, RuntimeSec: 0.5},
	}}, nil
}

func driverModel(t *testing.T) *ising.Model {
	t.Helper()
	m, err := ising.NewModel(4, []ising.Triplet{
		{Row: 0, Col: 1, Value: -1},
		{Row: 1, Col: 2, Value: -1},
		{Row: 2, Col: 3, Value: -1},
	}, nil)
	if err != nil {
		t.Fatalf("failed to build model: %v", err)
	}
	return m
}

func driverObjective(t *testing.T) Objective {
	t.Helper()
	return Objective{
		Model:       driverModel(t),
		GroundState: -10,
		Base:        annealer.DefaultParams(),
	}
}

// With the stub's reads the scored energies are -10, -10, -9 against a ground
// state of -10, so every successful trial lands on the same extrapolated TTS.
func stubLoss() float64 {
	return 0.5 * math.Log(0.01) / math.Log(1.0/3.0)
}

func TestDriverRun(t *testing.T) {
	collector := metrics.NewCollector()
	d, err := NewDriver(driverObjective(t), testSpace(), &stubSampler{}, NewRandomSearch(11), scoring.NewScorer(), collector)
	if err != nil {
		t.Fatalf("NewDriver failed: %v", err)
	}
	if d.State() != StateIdle {
		t.Fatalf("initial state = %s, want %s", d.State(), StateIdle)
	}

	result, err := d.Run(context.Background(), 5)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Trials != 5 {
		t.Errorf("Trials = %d, want 5", result.Trials)
	}
	if result.Failures != 0 {
		t.Errorf("Failures = %d, want 0", result.Failures)
	}
	if result.State != StateConverged {
		t.Errorf("State = %s, want %s", result.State, StateConverged)
	}
	if d.State() != StateConverged {
		t.Errorf("driver state = %s, want %s", d.State(), StateConverged)
	}

	want := stubLoss()
	if math.Abs(result.Best.Loss-want) > 1e-9 {
		t.Errorf("Best.Loss = %f, want %f", result.Best.Loss, want)
	}
	if result.Best.Evaluation == nil {
		t.Fatal("best trial has no evaluation")
	}
	if math.Abs(result.Best.Evaluation.SuccessProb-2.0/3.0) > 1e-12 {
		t.Errorf("SuccessProb = %f, want 2/3", result.Best.Evaluation.SuccessProb)
	}

	history := d.History()
	if len(history) != 5 {
		t.Fatalf("history has %d trials, want 5", len(history))
	}
	for i, trial := range history {
		if trial.Index != i {
			t.Errorf("history[%d].Index = %d", i, trial.Index)
		}
		if err := trial.Params.Validate(); err != nil {
			t.Errorf("history[%d] has invalid params: %v", i, err)
		}
		if len(trial.Assignment) != len(testSpace()) {
			t.Errorf("history[%d] assignment has %d values", i, len(trial.Assignment))
		}
	}

	if got := len(collector.Series("loss")); got != 5 {
		t.Errorf("collector recorded %d loss points, want 5", got)
	}
}

func TestDriverRetainsSolverResult(t *testing.T) {
	d, err := NewDriver(driverObjective(t), testSpace(), &stubSampler{failOn: map[int]bool{2: true}}, NewRandomSearch(9), scoring.NewScorer(), nil)
	if err != nil {
		t.Fatalf("NewDriver failed: %v", err)
	}
	if _, err := d.Run(context.Background(), 3); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	history := d.History()
	ok := history[0]
	if ok.Result == nil {
		t.Fatal("successful trial lost its solver result")
	}
	if len(ok.Result.Reads) != 4 {
		t.Fatalf("retained result has %d reads, want 4", len(ok.Result.Reads))
	}
	if ok.Result.Reads[1].BestEnergy != -5 || ok.Result.Reads[1].RuntimeSec != 0.5 {
		t.Errorf("Reads[1] = %+v, want best energy -5 and runtime 0.5", ok.Result.Reads[1])
	}

	if failed := history[1]; failed.Result != nil {
		t.Error("failed trial carries a solver result")
	}
}

func TestDriverDeterministicRuns(t *testing.T) {
	run := func() []Trial {
		d, err := NewDriver(driverObjective(t), testSpace(), &stubSampler{}, NewRandomSearch(23), scoring.NewScorer(), nil)
		if err != nil {
			t.Fatalf("NewDriver failed: %v", err)
		}
		if _, err := d.Run(context.Background(), 4); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		return d.History()
	}

	first := run()
	second := run()
	for i := range first {
		for name, v := range first[i].Assignment {
			if second[i].Assignment[name] != v {
				t.Fatalf("trial %d: %s = %g vs %g across identically seeded runs",
					i, name, v, second[i].Assignment[name])
			}
		}
	}
}

func TestDriverFailedTrialContinues(t *testing.T) {
	sampler := &stubSampler{failOn: map[int]bool{2: true}}
	scorer := scoring.NewScorer()
	d, err := NewDriver(driverObjective(t), testSpace(), sampler, NewRandomSearch(3), scorer, nil)
	if err != nil {
		t.Fatalf("NewDriver failed: %v", err)
	}

	result, err := d.Run(context.Background(), 4)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Trials != 4 {
		t.Errorf("Trials = %d, want 4", result.Trials)
	}
	if result.Failures != 1 {
		t.Errorf("Failures = %d, want 1", result.Failures)
	}

	failed := d.History()[1]
	if !failed.Failed() {
		t.Fatal("second trial not marked failed")
	}
	if failed.Loss != scorer.FailValue {
		t.Errorf("failed trial loss = %g, want fail value %g", failed.Loss, scorer.FailValue)
	}
	if result.Best.Failed() {
		t.Error("best trial is a failed trial")
	}
}

func TestDriverContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sampler := &stubSampler{cancel: cancel}
	d, err := NewDriver(driverObjective(t), testSpace(), sampler, NewRandomSearch(5), scoring.NewScorer(), nil)
	if err != nil {
		t.Fatalf("NewDriver failed: %v", err)
	}

	result, err := d.Run(ctx, 100)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Trials >= 100 {
		t.Errorf("Trials = %d, expected early stop", result.Trials)
	}
	if result.Best.Failed() {
		t.Error("best trial is a failed trial")
	}
}

func TestNewDriverValidation(t *testing.T) {
	objective := driverObjective(t)
	space := testSpace()
	sampler := &stubSampler{}
	search := NewRandomSearch(1)

	tests := []struct {
		name string
		fn   func() (*Driver, error)
	}{
		{name: "missing model", fn: func() (*Driver, error) {
			return NewDriver(Objective{GroundState: -1, Base: annealer.DefaultParams()}, space, sampler, search, nil, nil)
		}},
		{name: "missing sampler", fn: func() (*Driver, error) {
			return NewDriver(objective, space, nil, search, nil, nil)
		}},
		{name: "missing search", fn: func() (*Driver, error) {
			return NewDriver(objective, space, sampler, nil, nil, nil)
		}},
		{name: "invalid space", fn: func() (*Driver, error) {
			return NewDriver(objective, Space{}, sampler, search, nil, nil)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.fn(); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

// failingSearch errors on every suggestion.
type failingSearch struct{}

func (f *failingSearch) Suggest(space Space) (Assignment, error) {
	return nil, errors.New("no candidates available")
}

func (f *failingSearch) Observe(assignment Assignment, loss float64) {}

func (f *failingSearch) Name() string { return "failing" }

func TestDriverRecoversAfterSuggestError(t *testing.T) {
	d, err := NewDriver(driverObjective(t), testSpace(), &stubSampler{}, &failingSearch{}, scoring.NewScorer(), nil)
	if err != nil {
		t.Fatalf("NewDriver failed: %v", err)
	}

	if _, err := d.Run(context.Background(), 3); err == nil {
		t.Fatal("expected error from failing suggestion")
	}
	if got := d.State(); got == StateEvaluating {
		t.Fatalf("state after failed run = %s, driver is wedged", got)
	}

	_, err = d.Run(context.Background(), 3)
	if err == nil {
		t.Fatal("expected error from failing suggestion")
	}
	if strings.Contains(err.Error(), "in progress") {
		t.Fatalf("second run rejected as in progress: %v", err)
	}
}

func TestDriverRecoversAfterUnknownParameter(t *testing.T) {
	// The space is valid in isolation but names a parameter the solver
	// boundary does not accept.
	space := Space{{Name: "beta_schedule", Dist: DistUniform, Low: 0, High: 1}}
	d, err := NewDriver(driverObjective(t), space, &stubSampler{}, NewRandomSearch(2), scoring.NewScorer(), nil)
	if err != nil {
		t.Fatalf("NewDriver failed: %v", err)
	}

	if _, err := d.Run(context.Background(), 3); err == nil {
		t.Fatal("expected error for unknown parameter")
	}
	if got := d.State(); got == StateEvaluating {
		t.Fatalf("state after failed run = %s, driver is wedged", got)
	}
}

func TestDriverRejectsBadBudget(t *testing.T) {
	d, err := NewDriver(driverObjective(t), testSpace(), &stubSampler{}, NewRandomSearch(1), nil, nil)
	if err != nil {
		t.Fatalf("NewDriver failed: %v", err)
	}
	if _, err := d.Run(context.Background(), 0); err == nil {
		t.Fatal("zero budget accepted")
	}
}
