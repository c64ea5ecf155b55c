package tuning

import (
	"time"

	"github.com/annealtools/isingtune/internal/annealer"
	"github.com/annealtools/isingtune/internal/scoring"
)

// Trial records one evaluated parameter assignment. A trial whose solver run
// failed carries the error and the fail-value loss instead of an evaluation.
type Trial struct {
	Index       int
	Assignment  Assignment
	Params      annealer.Params
	Loss        float64
	MeanRuntime float64
	Evaluation  *scoring.Evaluation
	// Result is the raw solver output behind Loss, kept for later
	// inspection of per-read energies and runtimes. Nil when the solver
	// invocation itself failed.
	Result     *annealer.Result
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

// Failed reports whether the trial's solver run produced an error.
func (t Trial) Failed() bool {
	return t.Err != nil
}

// History is the append-only record of all trials in a run.
type History struct {
	trials []Trial
}

// Append adds a completed trial to the history.
func (h *History) Append(t Trial) {
	h.trials = append(h.trials, t)
}

// Len returns the number of recorded trials.
func (h *History) Len() int {
	return len(h.trials)
}

// At returns the trial at index i.
func (h *History) At(i int) Trial {
	return h.trials[i]
}

// Trials returns a copy of the recorded trials in order.
func (h *History) Trials() []Trial {
	out := make([]Trial, len(h.trials))
	copy(out, h.trials)
	return out
}

// Best returns the trial with the lowest loss. Ties keep the earliest trial.
// The second return is false when the history is empty.
func (h *History) Best() (Trial, bool) {
	if len(h.trials) == 0 {
		return Trial{}, false
	}
	best := h.trials[0]
	for _, t := range h.trials[1:] {
		if t.Loss < best.Loss {
			best = t
		}
	}
	return best, true
}
