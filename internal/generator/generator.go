// Package generator builds arithmetic problems and chain sequences.
package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/verte-zerg/mathdrill/internal/model"
)

const (
	factorCeiling = 12
	stepCeiling   = 50
	plusChance    = 0.6
)

var mixedKinds = []model.OperationKind{
	model.Multiplication,
	model.Addition,
	model.Subtraction,
	model.Division,
}

// Rand is the randomness used by a Generator. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Generator produces randomized problems.
type Generator struct {
	rnd Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewWithRand returns a Generator drawing from rnd.
func NewWithRand(rnd Rand) *Generator {
	return &Generator{rnd: rnd}
}

// Ceiling maps a digit range to the largest operand value.
func Ceiling(digitRange int) int {
	switch digitRange {
	case 1:
		return 9
	case 2:
		return 99
	case 3:
		return 999
	default:
		return 99
	}
}

// Generate returns one problem of the given kind.
func (g *Generator) Generate(kind model.OperationKind, settings model.Settings) model.Problem {
	ceiling := Ceiling(settings.DigitRange)
	if kind == model.Mixed {
		kind = mixedKinds[g.rnd.Intn(len(mixedKinds))]
	}
	factor := min(ceiling, factorCeiling)

	switch kind {
	case model.Multiplication:
		a := g.between(2, factor)
		b := g.between(2, factor)
		return newProblem(model.Multiplication, "×", a, b, a*b)
	case model.Subtraction:
		a := g.between(1, ceiling)
		b := g.between(1, a)
		return newProblem(model.Subtraction, "-", a, b, a-b)
	case model.Division:
		b := g.between(2, factor)
		q := g.between(1, factor)
		return newProblem(model.Division, "÷", b*q, b, q)
	default:
		a := g.between(1, ceiling)
		b := g.between(1, ceiling)
		return newProblem(model.Addition, "+", a, b, a+b)
	}
}

// GenerateSequence returns a chain of signed steps whose running total never
// drops to zero or below after a subtraction, together with the final total.
func (g *Generator) GenerateSequence(length int, settings model.Settings) ([]model.SequenceStep, int) {
	if length < 1 {
		length = 1
	}
	limit := min(Ceiling(settings.DigitRange), stepCeiling)

	steps := make([]model.SequenceStep, 0, length)
	first := g.between(1, limit)
	steps = append(steps, model.SequenceStep{Value: first, Sign: model.Plus})
	total := first

	for i := 1; i < length; i++ {
		if g.rnd.Float64() < plusChance {
			v := g.between(1, limit)
			steps = append(steps, model.SequenceStep{Value: v, Sign: model.Plus})
			total += v
			continue
		}
		bound := min(total-1, limit)
		if bound <= 0 {
			v := g.between(1, limit)
			steps = append(steps, model.SequenceStep{Value: v, Sign: model.Plus})
			total += v
			continue
		}
		v := g.between(1, bound)
		steps = append(steps, model.SequenceStep{Value: v, Sign: model.Minus})
		total -= v
	}
	return steps, total
}

// ChainProblem wraps a sequence total as a problem.
func ChainProblem(total int) model.Problem {
	return model.Problem{
		Answer: total,
		Kind:   model.Chain,
		Text:   model.ChainText,
	}
}

func (g *Generator) between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.rnd.Intn(hi-lo+1)
}

func newProblem(kind model.OperationKind, op string, a, b, answer int) model.Problem {
	return model.Problem{
		OperandA: a,
		OperandB: b,
		Answer:   answer,
		Operator: op,
		Kind:     kind,
		Text:     fmt.Sprintf("%d %s %d", a, op, b),
	}
}
