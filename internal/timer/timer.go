// Package timer measures the response time of one problem.
package timer

import (
	"time"

	"github.com/verte-zerg/mathdrill/internal/sched"
)

// TickInterval is the period of progress callbacks.
const TickInterval = 50 * time.Millisecond

// Progress thresholds for escalation levels.
const (
	WarningThreshold = 0.6
	DangerThreshold  = 0.8
)

// Level is a presentation hint derived from deadline progress.
type Level int

// Escalation levels.
const (
	LevelNormal Level = iota
	LevelWarning
	LevelDanger
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelDanger:
		return "danger"
	default:
		return "normal"
	}
}

// LevelFor maps a progress fraction to a level.
func LevelFor(progress float64) Level {
	switch {
	case progress >= DangerThreshold:
		return LevelDanger
	case progress >= WarningThreshold:
		return LevelWarning
	default:
		return LevelNormal
	}
}

// Tick reports the state of a running timer. Progress stays 0 without a deadline.
type Tick struct {
	Elapsed  float64
	Progress float64
	Level    Level
}

// Options configures one timed run.
type Options struct {
	// Deadline is optional; zero disables the timeout.
	Deadline  time.Duration
	OnTick    func(Tick)
	OnTimeout func(elapsed float64)
}

// Timer measures elapsed seconds between Start and Stop.
type Timer struct {
	sched     sched.Scheduler
	opts      Options
	running   bool
	startedAt time.Time
	tick      sched.Handle
	deadline  sched.Handle
}

// New returns a stopped Timer using s for time and callbacks.
func New(s sched.Scheduler) *Timer {
	return &Timer{sched: s}
}

// Start records the reference instant. A running timer is restarted.
func (t *Timer) Start(opts Options) {
	t.cancel()
	t.opts = opts
	t.running = true
	t.startedAt = t.sched.Now()
	if opts.Deadline > 0 {
		t.deadline = t.sched.AfterFunc(opts.Deadline, t.expire)
	}
	if opts.OnTick != nil || opts.Deadline > 0 {
		t.tick = t.sched.AfterFunc(TickInterval, t.fire)
	}
}

// Running reports whether Start was called without a matching Stop.
func (t *Timer) Running() bool {
	return t.running
}

// Elapsed returns seconds since Start, or 0 when stopped.
func (t *Timer) Elapsed() float64 {
	if !t.running {
		return 0
	}
	return t.sched.Now().Sub(t.startedAt).Seconds()
}

// Stop returns the elapsed seconds and clears the reference instant.
// Stopping a stopped timer returns 0.
func (t *Timer) Stop() float64 {
	if !t.running {
		return 0
	}
	elapsed := t.Elapsed()
	t.cancel()
	return elapsed
}

func (t *Timer) cancel() {
	sched.Cancel(t.tick)
	sched.Cancel(t.deadline)
	t.tick = nil
	t.deadline = nil
	t.running = false
}

func (t *Timer) fire() {
	if !t.running {
		return
	}
	elapsed := t.Elapsed()
	tick := Tick{Elapsed: elapsed}
	if d := t.opts.Deadline; d > 0 {
		tick.Progress = min(elapsed/d.Seconds(), 1)
		tick.Level = LevelFor(tick.Progress)
	}
	t.tick = t.sched.AfterFunc(TickInterval, t.fire)
	if t.opts.OnTick != nil {
		t.opts.OnTick(tick)
	}
}

func (t *Timer) expire() {
	if !t.running {
		return
	}
	elapsed := t.Elapsed()
	t.cancel()
	if t.opts.OnTimeout != nil {
		t.opts.OnTimeout(elapsed)
	}
}
