// Package sched schedules delayed callbacks that all run on one goroutine.
package sched

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Handle cancels a scheduled callback. Cancel is idempotent.
type Handle interface {
	Cancel()
}

// Scheduler runs callbacks after a delay and reports the current time.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Handle
	Now() time.Time
}

// Cancel cancels h when it is non-nil.
func Cancel(h Handle) {
	if h != nil {
		h.Cancel()
	}
}

// Loop is a wall-clock Scheduler. Fired callbacks are queued on Tasks and
// must be executed by a single consumer, either Run or a UI event loop.
type Loop struct {
	tasks     chan func()
	done      chan struct{}
	closeOnce sync.Once
}

// NewLoop returns a Loop with a small task buffer.
func NewLoop() *Loop {
	return &Loop{
		tasks: make(chan func(), 64),
		done:  make(chan struct{}),
	}
}

type loopHandle struct {
	timer     *time.Timer
	cancelled atomic.Bool
}

func (h *loopHandle) Cancel() {
	h.cancelled.Store(true)
	h.timer.Stop()
}

// Now implements Scheduler.
func (l *Loop) Now() time.Time {
	return time.Now()
}

// AfterFunc implements Scheduler. A callback cancelled after it was queued
// but before it ran is dropped by the consumer.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Handle {
	h := &loopHandle{}
	task := func() {
		if h.cancelled.Load() {
			return
		}
		fn()
	}
	h.timer = time.AfterFunc(d, func() {
		select {
		case l.tasks <- task:
		case <-l.done:
		}
	})
	return h
}

// Tasks returns the queue of fired callbacks.
func (l *Loop) Tasks() <-chan func() {
	return l.tasks
}

// Done is closed once the loop is closed.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Run executes queued callbacks until ctx is cancelled or the loop is closed.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.done:
			return
		case task := <-l.tasks:
			task()
		}
	}
}

// Close stops delivering callbacks. Pending timers still fire but are discarded.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		close(l.done)
	})
}
