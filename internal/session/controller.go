package session

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/mathdrill/internal/generator"
	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/sched"
	"github.com/verte-zerg/mathdrill/internal/stats"
	"github.com/verte-zerg/mathdrill/internal/timer"
)

// DefaultFeedbackDelay is how long a resolved problem stays on screen.
const DefaultFeedbackDelay = time.Second

// Options configures a Controller. Zero values select defaults.
type Options struct {
	FeedbackDelay  time.Duration
	RevealInterval time.Duration
	Listener       Listener
	// Logf reports persistence failures. Nil discards them.
	Logf  func(format string, args ...any)
	NewID func() string
}

// State is a snapshot of the running session.
type State struct {
	Phase      Phase
	Mode       model.OperationKind
	Problem    model.Problem
	Correct    int
	Total      int
	Streak     int
	BestStreak int
	// TargetReached is set once BestStreak reaches Settings.TargetStreak.
	TargetReached bool
	Latencies     []float64
}

// Controller orchestrates one practice run at a time.
type Controller struct {
	sched    sched.Scheduler
	gen      *generator.Generator
	recorder *stats.Recorder
	timer    *timer.Timer
	player   *Player
	opts     Options

	cfg        model.Config
	phase      Phase
	problem    model.Problem
	correct    int
	total      int
	streak     int
	bestStreak int
	latencies  []float64
	advance    sched.Handle
	last       model.SessionRecord
}

// NewController wires a controller to its collaborators.
func NewController(s sched.Scheduler, gen *generator.Generator, recorder *stats.Recorder, opts Options) *Controller {
	if opts.FeedbackDelay <= 0 {
		opts.FeedbackDelay = DefaultFeedbackDelay
	}
	if opts.Listener == nil {
		opts.Listener = NopListener{}
	}
	if opts.Logf == nil {
		opts.Logf = func(string, ...any) {}
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Controller{
		sched:    s,
		gen:      gen,
		recorder: recorder,
		timer:    timer.New(s),
		player:   NewPlayer(s, gen, opts.RevealInterval),
		opts:     opts,
	}
}

// Start begins a new session, abandoning any session in progress without saving it.
func (c *Controller) Start(_ context.Context, cfg model.Config) {
	c.cancelPending()
	if _, ok := model.ParseKind(string(cfg.Mode)); !ok {
		cfg.Mode = model.Addition
	}
	c.cfg = cfg
	c.correct = 0
	c.total = 0
	c.streak = 0
	c.bestStreak = 0
	c.latencies = nil
	c.last = model.SessionRecord{}
	c.nextProblem()
}

// Submit resolves the current problem with raw. It is ignored with
// ErrNotAccepting while chain steps are shown or between problems, and
// rejected with ErrInvalidAnswer, without side effects, when raw is not an
// integer.
func (c *Controller) Submit(ctx context.Context, raw string) (Resolution, error) {
	if c.phase != PhaseAwaitingAnswer {
		return Resolution{}, ErrNotAccepting
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return Resolution{}, fmt.Errorf("%w: %q", ErrInvalidAnswer, raw)
	}
	latency := c.timer.Stop()
	return c.resolve(ctx, Resolution{
		Problem:   c.problem,
		Correct:   value == c.problem.Answer,
		Answered:  true,
		Submitted: value,
		Latency:   latency,
	}), nil
}

// Skip resolves the current problem as incorrect.
func (c *Controller) Skip(ctx context.Context) (Resolution, error) {
	if c.phase != PhaseAwaitingAnswer {
		return Resolution{}, ErrNotAccepting
	}
	latency := c.timer.Stop()
	return c.resolve(ctx, Resolution{Problem: c.problem, Latency: latency}), nil
}

// Timeout resolves the current problem as timed out. The timer deadline
// calls it automatically in timed sessions.
func (c *Controller) Timeout(ctx context.Context) (Resolution, error) {
	if c.phase != PhaseAwaitingAnswer {
		return Resolution{}, ErrNotAccepting
	}
	return c.timeout(ctx, c.timer.Stop()), nil
}

func (c *Controller) timeout(ctx context.Context, elapsed float64) Resolution {
	return c.resolve(ctx, Resolution{Problem: c.problem, TimedOut: true, Latency: elapsed})
}

// End stops the session, saves its record and returns it. The problem in
// flight, if any, is not counted.
func (c *Controller) End(ctx context.Context) (model.SessionRecord, error) {
	if c.phase == PhaseIdle || c.phase == PhaseEnded {
		return c.last, ErrNoSession
	}
	c.cancelPending()
	rec := stats.Summarize(c.cfg.Mode, c.correct, c.total, c.latencies, c.bestStreak, c.sched.Now())
	rec.ID = c.opts.NewID()
	if err := c.recorder.RecordSession(ctx, rec); err != nil {
		c.opts.Logf("%v", err)
	}
	c.phase = PhaseEnded
	c.last = rec
	c.opts.Listener.SessionEnded(rec)
	return rec, nil
}

// SetListener replaces the event listener. Nil installs NopListener.
func (c *Controller) SetListener(l Listener) {
	if l == nil {
		l = NopListener{}
	}
	c.opts.Listener = l
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// State returns a snapshot of the session counters.
func (c *Controller) State() State {
	target := c.cfg.Settings.TargetStreak
	return State{
		Phase:         c.phase,
		Mode:          c.cfg.Mode,
		Problem:       c.problem,
		Correct:       c.correct,
		Total:         c.total,
		Streak:        c.streak,
		BestStreak:    c.bestStreak,
		TargetReached: target > 0 && c.bestStreak >= target,
		Latencies:     append([]float64(nil), c.latencies...),
	}
}

// Elapsed returns the seconds spent on the current problem so far.
func (c *Controller) Elapsed() float64 {
	return c.timer.Elapsed()
}

func (c *Controller) nextProblem() {
	c.advance = nil
	if c.cfg.Mode == model.Chain {
		c.problem = model.Problem{Kind: model.Chain, Text: model.ChainText}
		c.phase = PhaseDisplaying
		c.opts.Listener.ProblemChanged(c.problem, c.phase)
		c.player.Play(c.cfg.Settings, func(r StepReveal) { c.opts.Listener.StepRevealed(r) }, c.await)
		return
	}
	c.await(c.gen.Generate(c.cfg.Mode, c.cfg.Settings))
}

func (c *Controller) await(p model.Problem) {
	c.problem = p
	c.phase = PhaseAwaitingAnswer
	c.opts.Listener.ProblemChanged(p, c.phase)
	var deadline time.Duration
	if c.cfg.Timed && c.cfg.Settings.TargetTime > 0 {
		deadline = time.Duration(c.cfg.Settings.TargetTime * float64(time.Second))
	}
	c.timer.Start(timer.Options{
		Deadline: deadline,
		OnTick:   func(t timer.Tick) { c.opts.Listener.TimerTick(t) },
		OnTimeout: func(elapsed float64) {
			if c.phase == PhaseAwaitingAnswer {
				c.timeout(context.Background(), elapsed)
			}
		},
	})
}

func (c *Controller) resolve(ctx context.Context, r Resolution) Resolution {
	c.total++
	if r.Correct {
		c.correct++
		c.streak++
		c.bestStreak = max(c.bestStreak, c.streak)
		c.latencies = append(c.latencies, r.Latency)
	} else {
		c.streak = 0
	}
	r.Streak = c.streak
	c.phase = PhaseResolved
	c.player.Resolve()

	err := c.recorder.RecordOutcome(ctx, stats.Outcome{
		Problem:   r.Problem,
		Mode:      c.cfg.Mode,
		Correct:   r.Correct,
		Answered:  r.Answered,
		Submitted: r.Submitted,
		Latency:   r.Latency,
	})
	if err != nil {
		c.opts.Logf("%v", err)
	}
	c.opts.Listener.AnswerResolved(r)

	sched.Cancel(c.advance)
	c.advance = c.sched.AfterFunc(c.opts.FeedbackDelay, c.nextProblem)
	return r
}

func (c *Controller) cancelPending() {
	c.timer.Stop()
	c.player.Stop()
	sched.Cancel(c.advance)
	c.advance = nil
}
