package generator

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/mathdrill/internal/model"
)

// scriptedRand replays fixed draws. Intn values are returned as-is.
type scriptedRand struct {
	ints   []int
	floats []float64
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	if v >= n {
		return n - 1
	}
	return v
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func settingsFor(digits int) model.Settings {
	s := model.DefaultSettings()
	s.DigitRange = digits
	return s
}

func TestCeiling(t *testing.T) {
	tests := []struct {
		digits int
		want   int
	}{
		{1, 9},
		{2, 99},
		{3, 999},
		{0, 99},
		{7, 99},
		{-1, 99},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Ceiling(tt.digits), "digits=%d", tt.digits)
	}
}

func TestGenerateMultiplicationPinned(t *testing.T) {
	g := NewWithRand(&scriptedRand{ints: []int{5, 6}})
	p := g.Generate(model.Multiplication, settingsFor(2))

	assert.Equal(t, 7, p.OperandA)
	assert.Equal(t, 8, p.OperandB)
	assert.Equal(t, 56, p.Answer)
	assert.Equal(t, "7 × 8", p.Text)
	assert.Equal(t, model.Multiplication, p.Kind)
}

func TestGenerateRanges(t *testing.T) {
	for _, digits := range []int{1, 2, 3} {
		ceiling := Ceiling(digits)
		factor := min(ceiling, 12)
		g := NewWithRand(rand.New(rand.NewSource(int64(digits))))
		s := settingsFor(digits)

		for i := 0; i < 2000; i++ {
			p := g.Generate(model.Multiplication, s)
			require.GreaterOrEqual(t, p.OperandA, 2)
			require.LessOrEqual(t, p.OperandA, factor)
			require.GreaterOrEqual(t, p.OperandB, 2)
			require.LessOrEqual(t, p.OperandB, factor)
			require.Equal(t, p.OperandA*p.OperandB, p.Answer)

			p = g.Generate(model.Addition, s)
			require.GreaterOrEqual(t, p.OperandA, 1)
			require.LessOrEqual(t, p.OperandA, ceiling)
			require.GreaterOrEqual(t, p.OperandB, 1)
			require.LessOrEqual(t, p.OperandB, ceiling)
			require.Equal(t, p.OperandA+p.OperandB, p.Answer)

			p = g.Generate(model.Subtraction, s)
			require.GreaterOrEqual(t, p.Answer, 0)
			require.LessOrEqual(t, p.OperandB, p.OperandA)
			require.Equal(t, p.OperandA-p.OperandB, p.Answer)

			p = g.Generate(model.Division, s)
			require.GreaterOrEqual(t, p.OperandB, 2)
			require.LessOrEqual(t, p.OperandB, factor)
			require.GreaterOrEqual(t, p.Answer, 1)
			require.LessOrEqual(t, p.Answer, factor)
			require.Zero(t, p.OperandA%p.OperandB)
			require.Equal(t, p.OperandA/p.OperandB, p.Answer)
		}
	}
}

func TestGenerateMixedResolvesKind(t *testing.T) {
	g := NewWithRand(rand.New(rand.NewSource(42)))
	seen := map[model.OperationKind]bool{}
	for i := 0; i < 500; i++ {
		p := g.Generate(model.Mixed, settingsFor(2))
		require.NotEqual(t, model.Mixed, p.Kind)
		seen[p.Kind] = true
	}
	assert.Len(t, seen, 4)
}

func TestGenerateUnknownKindFallsBackToAddition(t *testing.T) {
	g := NewWithRand(&scriptedRand{ints: []int{2, 3}})
	p := g.Generate(model.OperationKind("modulo"), settingsFor(1))
	assert.Equal(t, model.Addition, p.Kind)
	assert.Equal(t, "3 + 4", p.Text)
	assert.Equal(t, 7, p.Answer)
}

func TestGenerateInvalidDigitRange(t *testing.T) {
	g := NewWithRand(rand.New(rand.NewSource(9)))
	for i := 0; i < 500; i++ {
		p := g.Generate(model.Addition, settingsFor(9))
		require.LessOrEqual(t, p.OperandA, 99)
		require.LessOrEqual(t, p.OperandB, 99)
	}
}

func TestGenerateSequencePinned(t *testing.T) {
	rnd := &scriptedRand{
		ints:   []int{9, 4, 2, 1},
		floats: []float64{0.1, 0.9, 0.2},
	}
	steps, total := NewWithRand(rnd).GenerateSequence(4, settingsFor(2))

	want := []model.SequenceStep{
		{Value: 10, Sign: model.Plus},
		{Value: 5, Sign: model.Plus},
		{Value: 3, Sign: model.Minus},
		{Value: 2, Sign: model.Plus},
	}
	assert.Equal(t, want, steps)
	assert.Equal(t, 14, total)
}

func TestGenerateSequenceFallsBackToAddition(t *testing.T) {
	// First step is 1, so the subtraction bound is 0 and the step turns positive.
	rnd := &scriptedRand{
		ints:   []int{0, 6},
		floats: []float64{0.95},
	}
	steps, total := NewWithRand(rnd).GenerateSequence(2, settingsFor(1))
	require.Len(t, steps, 2)
	assert.Equal(t, model.Plus, steps[1].Sign)
	assert.Equal(t, 7, steps[1].Value)
	assert.Equal(t, 8, total)
}

func TestGenerateSequenceInvariants(t *testing.T) {
	for seed := int64(0); seed < 300; seed++ {
		g := NewWithRand(rand.New(rand.NewSource(seed)))
		digits := int(seed%3) + 1
		limit := min(Ceiling(digits), 50)
		length := int(seed%12) + 1

		steps, total := g.GenerateSequence(length, settingsFor(digits))
		require.Len(t, steps, length)
		require.Equal(t, model.Plus, steps[0].Sign)

		running := 0
		for _, step := range steps {
			require.GreaterOrEqual(t, step.Value, 1)
			require.LessOrEqual(t, step.Value, limit)
			running += step.Signed()
			require.GreaterOrEqual(t, running, 0)
			if step.Sign == model.Minus {
				require.Greater(t, running, 0)
			}
		}
		require.Equal(t, running, total)
	}
}

func TestGenerateSequenceMinimumLength(t *testing.T) {
	steps, total := New().GenerateSequence(0, model.DefaultSettings())
	require.Len(t, steps, 1)
	assert.Equal(t, steps[0].Value, total)
}
