package store

import (
	"context"
	"sync"

	"github.com/verte-zerg/mathdrill/internal/model"
)

// Memory is an in-process Repository.
type Memory struct {
	mu       sync.Mutex
	sessions []model.SessionRecord
	samples  []model.SolveSample
	wrong    []model.WrongAnswer
}

var _ Repository = (*Memory)(nil)

// NewMemory returns an empty Memory repository.
func NewMemory() *Memory {
	return &Memory{}
}

// AppendSession implements Repository.
func (m *Memory) AppendSession(_ context.Context, rec model.SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.Latencies = append([]float64(nil), rec.Latencies...)
	m.sessions = TrimFIFO(append(m.sessions, rec), model.MaxSessions)
	return nil
}

// AppendSolveSample implements Repository.
func (m *Memory) AppendSolveSample(_ context.Context, sample model.SolveSample) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.samples = TrimFIFO(append(m.samples, sample), model.MaxSolveSamples)
	return nil
}

// AppendWrongAnswer implements Repository.
func (m *Memory) AppendWrongAnswer(_ context.Context, rec model.WrongAnswer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wrong = TrimFIFO(append(m.wrong, rec), model.MaxWrongAnswers)
	return nil
}

// LoadSessions implements Repository.
func (m *Memory) LoadSessions(_ context.Context) ([]model.SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.SessionRecord, len(m.sessions))
	for i, rec := range m.sessions {
		rec.Latencies = append([]float64(nil), rec.Latencies...)
		out[i] = rec
	}
	return out, nil
}

// LoadSolveSamples implements Repository.
func (m *Memory) LoadSolveSamples(_ context.Context) ([]model.SolveSample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.SolveSample(nil), m.samples...), nil
}

// LoadWrongAnswers implements Repository.
func (m *Memory) LoadWrongAnswers(_ context.Context) ([]model.WrongAnswer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.WrongAnswer(nil), m.wrong...), nil
}

// ClearAll implements Repository.
func (m *Memory) ClearAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = nil
	m.samples = nil
	m.wrong = nil
	return nil
}
