package session

import (
	"time"

	"github.com/verte-zerg/mathdrill/internal/generator"
	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/sched"
)

// DefaultRevealInterval is the time each chain step stays on screen.
const DefaultRevealInterval = time.Second

// PlayerState is the state of one chain round.
type PlayerState int

const (
	PlayerIdle PlayerState = iota
	PlayerDisplaying
	PlayerAwaitingAnswer
	PlayerResolved
)

// String returns the state name.
func (s PlayerState) String() string {
	switch s {
	case PlayerDisplaying:
		return "displaying"
	case PlayerAwaitingAnswer:
		return "awaiting"
	case PlayerResolved:
		return "resolved"
	default:
		return "idle"
	}
}

// Player reveals the steps of a chain round one at a time and then hands the
// round over for answering.
type Player struct {
	sched    sched.Scheduler
	gen      *generator.Generator
	interval time.Duration

	state   PlayerState
	steps   []model.SequenceStep
	total   int
	next    int
	pending sched.Handle

	onReveal func(StepReveal)
	onReady  func(model.Problem)
}

// NewPlayer returns an idle Player. A non-positive interval uses DefaultRevealInterval.
func NewPlayer(s sched.Scheduler, gen *generator.Generator, interval time.Duration) *Player {
	if interval <= 0 {
		interval = DefaultRevealInterval
	}
	return &Player{sched: s, gen: gen, interval: interval}
}

// Play starts a fresh round. Step i is revealed i intervals after Play; one
// interval after the last step onReady receives the chain problem.
func (p *Player) Play(settings model.Settings, onReveal func(StepReveal), onReady func(model.Problem)) {
	p.Stop()
	p.steps, p.total = p.gen.GenerateSequence(settings.ChainLength, settings)
	p.onReveal = onReveal
	p.onReady = onReady
	p.state = PlayerDisplaying
	p.reveal()
}

// Resolve marks the current round as answered.
func (p *Player) Resolve() {
	if p.state == PlayerAwaitingAnswer {
		p.state = PlayerResolved
	}
}

// Stop cancels any pending reveal and returns to idle.
func (p *Player) Stop() {
	sched.Cancel(p.pending)
	p.pending = nil
	p.state = PlayerIdle
	p.steps = nil
	p.total = 0
	p.next = 0
}

// State returns the round state.
func (p *Player) State() PlayerState {
	return p.state
}

// Steps returns the steps of the current round.
func (p *Player) Steps() []model.SequenceStep {
	return p.steps
}

// Total returns the running total of the current round.
func (p *Player) Total() int {
	return p.total
}

func (p *Player) reveal() {
	p.pending = nil
	if p.state != PlayerDisplaying {
		return
	}
	if p.next >= len(p.steps) {
		p.state = PlayerAwaitingAnswer
		if p.onReady != nil {
			p.onReady(generator.ChainProblem(p.total))
		}
		return
	}
	r := StepReveal{Index: p.next, Count: len(p.steps), Step: p.steps[p.next]}
	p.next++
	p.pending = p.sched.AfterFunc(p.interval, p.reveal)
	if p.onReveal != nil {
		p.onReveal(r)
	}
}
