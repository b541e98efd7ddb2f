package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/mathdrill/internal/sched"
)

func newManual() *sched.Manual {
	return sched.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
}

func TestStopReturnsElapsed(t *testing.T) {
	clock := newManual()
	tm := New(clock)

	tm.Start(Options{})
	clock.Advance(1500 * time.Millisecond)
	assert.InDelta(t, 1.5, tm.Stop(), 1e-9)
	assert.False(t, tm.Running())
}

func TestStopWithoutStartIsZero(t *testing.T) {
	tm := New(newManual())
	assert.Zero(t, tm.Stop())

	tm.Start(Options{})
	tm.Stop()
	assert.Zero(t, tm.Stop())
}

func TestTicksWithoutDeadline(t *testing.T) {
	clock := newManual()
	tm := New(clock)
	var ticks []Tick
	tm.Start(Options{OnTick: func(tk Tick) { ticks = append(ticks, tk) }})

	clock.Advance(200 * time.Millisecond)
	require.Len(t, ticks, 4)
	assert.InDelta(t, 0.2, ticks[3].Elapsed, 1e-9)
	assert.Zero(t, ticks[3].Progress)
	assert.Equal(t, LevelNormal, ticks[3].Level)

	tm.Stop()
	clock.Advance(time.Second)
	assert.Len(t, ticks, 4)
}

func TestEscalationLevels(t *testing.T) {
	clock := newManual()
	tm := New(clock)
	var ticks []Tick
	tm.Start(Options{
		Deadline: time.Second,
		OnTick:   func(tk Tick) { ticks = append(ticks, tk) },
	})

	clock.Advance(950 * time.Millisecond)
	require.Len(t, ticks, 19)
	assert.Equal(t, LevelNormal, ticks[10].Level) // 0.55
	assert.Equal(t, LevelWarning, ticks[11].Level) // 0.60
	assert.Equal(t, LevelWarning, ticks[14].Level) // 0.75
	assert.Equal(t, LevelDanger, ticks[15].Level)  // 0.80
	assert.InDelta(t, 0.95, ticks[18].Progress, 1e-9)
}

func TestTimeoutFiresOnce(t *testing.T) {
	clock := newManual()
	tm := New(clock)
	timeouts := 0
	var timeoutElapsed float64
	ticksAfter := 0
	tm.Start(Options{
		Deadline: 2 * time.Second,
		OnTick: func(Tick) {
			if timeouts > 0 {
				ticksAfter++
			}
		},
		OnTimeout: func(elapsed float64) {
			timeouts++
			timeoutElapsed = elapsed
		},
	})

	clock.Advance(5 * time.Second)
	assert.Equal(t, 1, timeouts)
	assert.InDelta(t, 2.0, timeoutElapsed, 1e-9)
	assert.Zero(t, ticksAfter)
	assert.False(t, tm.Running())
	assert.Zero(t, tm.Stop())
	assert.Zero(t, clock.Pending())
}

func TestRestartCancelsPreviousRun(t *testing.T) {
	clock := newManual()
	tm := New(clock)
	first := 0
	tm.Start(Options{
		Deadline:  time.Second,
		OnTimeout: func(float64) { first++ },
	})
	clock.Advance(500 * time.Millisecond)

	second := 0
	tm.Start(Options{
		Deadline:  time.Second,
		OnTimeout: func(float64) { second++ },
	})
	clock.Advance(700 * time.Millisecond)
	assert.Zero(t, first)
	assert.Zero(t, second)

	clock.Advance(300 * time.Millisecond)
	assert.Zero(t, first)
	assert.Equal(t, 1, second)
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "normal", LevelNormal.String())
	assert.Equal(t, "warning", LevelWarning.String())
	assert.Equal(t, "danger", LevelDanger.String())
}
