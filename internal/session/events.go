// Package session runs practice sessions: one problem in flight at a time,
// timed answers, chain rounds and the final summary.
package session

import (
	"errors"
	"strconv"

	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/timer"
)

var (
	// ErrInvalidAnswer is returned when the submitted text is not an integer.
	ErrInvalidAnswer = errors.New("session: answer is not a number")
	// ErrNotAccepting is returned when no problem is waiting for an answer.
	ErrNotAccepting = errors.New("session: not accepting answers")
	// ErrNoSession is returned when ending a session that is not running.
	ErrNoSession = errors.New("session: no active session")
)

// Phase is the current phase of a practice session.
type Phase int

const (
	PhaseIdle           Phase = iota // No session started
	PhaseDisplaying                  // Chain steps are being revealed
	PhaseAwaitingAnswer              // Timer running, input enabled
	PhaseResolved                    // Showing feedback before the next problem
	PhaseEnded                       // Summary computed and saved
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseDisplaying:
		return "displaying"
	case PhaseAwaitingAnswer:
		return "awaiting"
	case PhaseResolved:
		return "resolved"
	case PhaseEnded:
		return "ended"
	default:
		return "idle"
	}
}

// Resolution describes how a problem was resolved.
type Resolution struct {
	Problem model.Problem
	Correct bool
	// Answered is false for skips and timeouts.
	Answered  bool
	TimedOut  bool
	Submitted int
	Latency   float64
	Streak    int
}

// StepReveal is one step of a chain round shown to the learner.
type StepReveal struct {
	Index int
	Count int
	Step  model.SequenceStep
}

// Text returns the step as displayed: the first step unsigned, later steps signed.
func (r StepReveal) Text() string {
	if r.Index == 0 {
		return strconv.Itoa(r.Step.Value)
	}
	return string(r.Step.Sign) + strconv.Itoa(r.Step.Value)
}

// Last reports whether this is the final step of the round.
func (r StepReveal) Last() bool {
	return r.Index == r.Count-1
}

// Listener receives presentation events. Callbacks run on the goroutine that
// drives the scheduler.
type Listener interface {
	ProblemChanged(p model.Problem, phase Phase)
	TimerTick(t timer.Tick)
	AnswerResolved(r Resolution)
	StepRevealed(r StepReveal)
	SessionEnded(rec model.SessionRecord)
}

// NopListener ignores every event.
type NopListener struct{}

func (NopListener) ProblemChanged(model.Problem, Phase) {}
func (NopListener) TimerTick(timer.Tick)                {}
func (NopListener) AnswerResolved(Resolution)           {}
func (NopListener) StepRevealed(StepReveal)             {}
func (NopListener) SessionEnded(model.SessionRecord)    {}
