package tuning

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/annealtools/isingtune/internal/annealer"
	"github.com/annealtools/isingtune/internal/ising"
	"github.com/annealtools/isingtune/internal/metrics"
	"github.com/annealtools/isingtune/internal/scoring"
	"github.com/annealtools/isingtune/pkg/logger"
)

// State is the phase of a tuning run.
type State string

const (
	// StateIdle means the driver has not started evaluating yet.
	StateIdle State = "idle"
	// StateEvaluating means the driver is inside the evaluation loop.
	StateEvaluating State = "evaluating"
	// StateConverged means the run finished its evaluation budget.
	StateConverged State = "converged"
)

// Objective bundles everything a loss evaluation needs from the problem side:
// how to run the solver on the instance and how to score the outcome.
type Objective struct {
	// Model is the instance passed to the sampler on every trial.
	Model *ising.Model
	// GroundState is the reference energy used by the scorer.
	GroundState float64
	// Base holds the solver parameters that stay fixed across trials.
	// Suggested assignments are applied on top of a copy of it.
	Base annealer.Params
}

// RunResult is the outcome of a full tuning run.
type RunResult struct {
	Best     Trial
	Trials   int
	Failures int
	State    State
	Elapsed  time.Duration
}

// Driver runs the search loop: suggest an assignment, run the solver, score
// the reads, feed the loss back to the search algorithm.
type Driver struct {
	objective Objective
	sampler   annealer.Sampler
	search    SearchAlgorithm
	scorer    *scoring.Scorer
	space     Space
	collector *metrics.Collector

	mu      sync.RWMutex
	state   State
	history History
}

// NewDriver creates a tuning driver. The collector is optional; when nil no
// per-trial series are recorded.
func NewDriver(objective Objective, space Space, sampler annealer.Sampler, search SearchAlgorithm, scorer *scoring.Scorer, collector *metrics.Collector) (*Driver, error) {
	if objective.Model == nil {
		return nil, fmt.Errorf("problem instance is required")
	}
	if sampler == nil {
		return nil, fmt.Errorf("sampler is required")
	}
	if search == nil {
		return nil, fmt.Errorf("search algorithm is required")
	}
	if scorer == nil {
		scorer = scoring.NewScorer()
	}
	if err := space.Validate(); err != nil {
		return nil, err
	}
	return &Driver{
		objective: objective,
		sampler:   sampler,
		search:    search,
		scorer:    scorer,
		space:     space,
		collector: collector,
		state:     StateIdle,
	}, nil
}

// State returns the driver's current phase.
func (d *Driver) State() State {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// History returns a copy of the trials evaluated so far.
func (d *Driver) History() []Trial {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.history.Trials()
}

// Run evaluates maxEvals trials and returns the best one. A failed solver run
// does not abort the loop: the trial is recorded with the fail-value loss and
// the search continues. Run stops early when ctx is cancelled, returning the
// best trial found up to that point.
func (d *Driver) Run(ctx context.Context, maxEvals int) (*RunResult, error) {
	if maxEvals <= 0 {
		return nil, fmt.Errorf("evaluation budget must be positive, got %d", maxEvals)
	}

	d.mu.Lock()
	if d.state == StateEvaluating {
		d.mu.Unlock()
		return nil, fmt.Errorf("tuning run already in progress")
	}
	d.state = StateEvaluating
	d.history = History{}
	d.mu.Unlock()

	start := time.Now()
	failures := 0

	for i := 0; i < maxEvals; i++ {
		if err := ctx.Err(); err != nil {
			return d.finish(start, failures, err)
		}

		trial, err := d.evaluate(ctx, i)
		if err != nil {
			// Only context cancellation aborts the loop.
			if ctx.Err() != nil {
				return d.finish(start, failures, ctx.Err())
			}
			d.mu.Lock()
			d.state = StateIdle
			d.mu.Unlock()
			return nil, err
		}
		if trial.Failed() {
			failures++
			logger.Warn("solver run failed",
				"trial", trial.Index,
				"error", trial.Err.Error())
		} else {
			logger.Info("trial evaluated",
				"trial", trial.Index,
				"loss", trial.Loss,
				"success_prob", trial.Evaluation.SuccessProb)
		}

		d.mu.Lock()
		d.history.Append(trial)
		d.mu.Unlock()

		d.search.Observe(trial.Assignment, trial.Loss)
		if d.collector != nil {
			d.collector.Record("loss", trial.Index, trial.Loss)
			if trial.Evaluation != nil {
				d.collector.Record("p_succ", trial.Index, trial.Evaluation.SuccessProb)
				d.collector.Record("mean_runtime_sec", trial.Index, trial.MeanRuntime)
			}
		}
	}

	return d.finish(start, failures, nil)
}

// evaluate runs one trial end to end. Solver and scoring failures are folded
// into the returned trial; only suggestion or parameter errors propagate.
func (d *Driver) evaluate(ctx context.Context, index int) (Trial, error) {
	assignment, err := d.search.Suggest(d.space)
	if err != nil {
		return Trial{}, fmt.Errorf("failed to suggest trial %d: %w", index, err)
	}

	params := d.objective.Base
	if err := params.Apply(assignment); err != nil {
		return Trial{}, fmt.Errorf("failed to apply trial %d assignment: %w", index, err)
	}
	if err := params.Validate(); err != nil {
		return Trial{}, fmt.Errorf("trial %d produced invalid parameters: %w", index, err)
	}

	trial := Trial{
		Index:      index,
		Assignment: assignment,
		Params:     params,
		StartedAt:  time.Now(),
	}

	result, err := d.sampler.Sample(ctx, d.objective.Model, params)
	if err != nil {
		trial.Err = err
		trial.Loss = d.scorer.FailValue
		trial.FinishedAt = time.Now()
		return trial, nil
	}
	trial.Result = result

	energies, err := result.Energies()
	if err == nil {
		var meanRuntime float64
		meanRuntime, err = result.MeanRuntime()
		if err == nil {
			var eval scoring.Evaluation
			eval, err = d.scorer.Evaluate(energies, meanRuntime, d.objective.GroundState)
			if err == nil {
				trial.Evaluation = &eval
				trial.Loss = eval.Loss
				trial.MeanRuntime = meanRuntime
			}
		}
	}
	if err != nil {
		trial.Err = err
		trial.Loss = d.scorer.FailValue
	}
	trial.FinishedAt = time.Now()
	return trial, nil
}

func (d *Driver) finish(start time.Time, failures int, cause error) (*RunResult, error) {
	d.mu.Lock()
	d.state = StateConverged
	best, ok := d.history.Best()
	trials := d.history.Len()
	d.mu.Unlock()

	if !ok {
		if cause != nil {
			return nil, fmt.Errorf("tuning stopped before any trial completed: %w", cause)
		}
		return nil, fmt.Errorf("tuning finished without completing any trial")
	}

	result := &RunResult{
		Best:     best,
		Trials:   trials,
		Failures: failures,
		State:    StateConverged,
		Elapsed:  time.Since(start),
	}
	logger.Info("tuning run finished",
		"trials", result.Trials,
		"failures", result.Failures,
		"best_trial", result.Best.Index,
		"best_loss", result.Best.Loss,
		"elapsed", result.Elapsed.String())
	return result, nil
}
