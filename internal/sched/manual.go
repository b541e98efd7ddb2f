package sched

import "time"

// Manual is a Scheduler driven by Advance. It never uses the wall clock and
// runs callbacks synchronously in due-time order.
type Manual struct {
	now     time.Time
	seq     int
	pending []*manualTask
}

type manualTask struct {
	due       time.Time
	seq       int
	fn        func()
	cancelled bool
}

func (t *manualTask) Cancel() {
	t.cancelled = true
}

// NewManual returns a Manual scheduler starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now implements Scheduler.
func (m *Manual) Now() time.Time {
	return m.now
}

// AfterFunc implements Scheduler.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}
	m.seq++
	task := &manualTask{due: m.now.Add(d), seq: m.seq, fn: fn}
	m.pending = append(m.pending, task)
	return task
}

// Advance moves the clock forward by d, running every callback that becomes
// due, including callbacks scheduled by earlier callbacks within the window.
func (m *Manual) Advance(d time.Duration) {
	target := m.now.Add(d)
	for {
		idx := m.next(target)
		if idx < 0 {
			break
		}
		task := m.pending[idx]
		m.pending = append(m.pending[:idx], m.pending[idx+1:]...)
		if task.due.After(m.now) {
			m.now = task.due
		}
		task.fn()
	}
	m.now = target
}

// Pending returns the number of scheduled, uncancelled callbacks.
func (m *Manual) Pending() int {
	n := 0
	for _, t := range m.pending {
		if !t.cancelled {
			n++
		}
	}
	return n
}

func (m *Manual) next(target time.Time) int {
	best := -1
	kept := m.pending[:0]
	for _, t := range m.pending {
		if !t.cancelled {
			kept = append(kept, t)
		}
	}
	m.pending = kept
	for i, t := range m.pending {
		if t.due.After(target) {
			continue
		}
		if best < 0 || t.due.Before(m.pending[best].due) ||
			(t.due.Equal(m.pending[best].due) && t.seq < m.pending[best].seq) {
			best = i
		}
	}
	return best
}
