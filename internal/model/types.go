// Package model defines shared data structures.
package model

import "time"

// OperationKind names a practice mode or the concrete operation of a problem.
type OperationKind string

// Supported operation kinds.
const (
	Addition       OperationKind = "addition"
	Subtraction    OperationKind = "subtraction"
	Multiplication OperationKind = "multiplication"
	Division       OperationKind = "division"
	Mixed          OperationKind = "mixed"
	Chain          OperationKind = "chain"
)

// Kinds lists every kind in display order.
var Kinds = []OperationKind{Addition, Subtraction, Multiplication, Division, Mixed, Chain}

// ParseKind returns the kind named by s.
func ParseKind(s string) (OperationKind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// ChainText is the display text of every chain problem.
const ChainText = "Chain Math"

// Problem is a single generated question. Chain problems only carry Answer,
// Text and Kind.
type Problem struct {
	OperandA int
	OperandB int
	Answer   int
	Operator string
	Kind     OperationKind
	Text     string
}

// Sign is the sign of a sequence step.
type Sign string

// Step signs.
const (
	Plus  Sign = "+"
	Minus Sign = "-"
)

// SequenceStep is one signed number of a chain round.
type SequenceStep struct {
	Value int
	Sign  Sign
}

// Signed returns the step value with its sign applied.
func (s SequenceStep) Signed() int {
	if s.Sign == Minus {
		return -s.Value
	}
	return s.Value
}

// Settings holds process-wide practice settings.
type Settings struct {
	DigitRange   int
	ChainLength  int
	TargetTime   float64
	TargetStreak int
}

// DefaultSettings returns the settings used when nothing is stored.
func DefaultSettings() Settings {
	return Settings{
		DigitRange:   2,
		ChainLength:  5,
		TargetTime:   5,
		TargetStreak: 10,
	}
}

// Config defines one practice run.
type Config struct {
	Mode     OperationKind
	Settings Settings
	// Timed enables the per-problem deadline of Settings.TargetTime seconds.
	Timed bool
}

// SolveSample is the latency of one correctly solved problem.
type SolveSample struct {
	Latency   float64
	Mode      OperationKind
	Timestamp time.Time
}

// SessionRecord summarizes a finished practice run. AverageLatency and
// BestLatency are meaningful only when Latencies is non-empty.
type SessionRecord struct {
	ID             string
	Mode           OperationKind
	Correct        int
	Total          int
	Accuracy       int
	AverageLatency float64
	BestLatency    float64
	Latencies      []float64
	BestStreak     int
	Timestamp      time.Time
}

// HasLatency reports whether the record carries latency aggregates.
func (r SessionRecord) HasLatency() bool {
	return len(r.Latencies) > 0
}

// WrongAnswer records an incorrect numeric submission.
type WrongAnswer struct {
	ProblemText string
	Submitted   int
	Correct     int
	Kind        OperationKind
	Timestamp   time.Time
}

// Store caps.
const (
	MaxSessions     = 100
	MaxSolveSamples = 500
	MaxWrongAnswers = 100
)
