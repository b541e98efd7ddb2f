package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/store"
)

// Outcome is the result of one resolved problem.
type Outcome struct {
	Problem model.Problem
	Mode    model.OperationKind
	Correct bool
	// Answered is false for skips and timeouts.
	Answered  bool
	Submitted int
	Latency   float64
}

// Recorder writes outcomes and session records to a repository.
type Recorder struct {
	repo store.Repository
	now  func() time.Time
}

// NewRecorder returns a Recorder stamping records with now.
func NewRecorder(repo store.Repository, now func() time.Time) *Recorder {
	if now == nil {
		now = time.Now
	}
	return &Recorder{repo: repo, now: now}
}

// RecordOutcome stores a solve sample for a correct answer and a wrong-answer
// record for an incorrect numeric answer. Skips and timeouts store nothing.
func (r *Recorder) RecordOutcome(ctx context.Context, o Outcome) error {
	if o.Correct {
		err := r.repo.AppendSolveSample(ctx, model.SolveSample{
			Latency:   o.Latency,
			Mode:      o.Mode,
			Timestamp: r.now(),
		})
		if err != nil {
			return fmt.Errorf("failed to save solve sample: %w", err)
		}
		return nil
	}
	if !o.Answered {
		return nil
	}
	err := r.repo.AppendWrongAnswer(ctx, model.WrongAnswer{
		ProblemText: o.Problem.Text,
		Submitted:   o.Submitted,
		Correct:     o.Problem.Answer,
		Kind:        o.Problem.Kind,
		Timestamp:   r.now(),
	})
	if err != nil {
		return fmt.Errorf("failed to save wrong answer: %w", err)
	}
	return nil
}

// RecordSession stores a finished session.
func (r *Recorder) RecordSession(ctx context.Context, rec model.SessionRecord) error {
	if err := r.repo.AppendSession(ctx, rec); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
