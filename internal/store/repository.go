// Package store persists sessions, solve samples and wrong answers.
package store

import (
	"context"

	"github.com/verte-zerg/mathdrill/internal/model"
)

// Repository is the capped append-only history used by the drill core.
// Appends evict the oldest entries once a cap is exceeded.
type Repository interface {
	AppendSession(ctx context.Context, rec model.SessionRecord) error
	AppendSolveSample(ctx context.Context, sample model.SolveSample) error
	AppendWrongAnswer(ctx context.Context, rec model.WrongAnswer) error
	LoadSessions(ctx context.Context) ([]model.SessionRecord, error)
	LoadSolveSamples(ctx context.Context) ([]model.SolveSample, error)
	LoadWrongAnswers(ctx context.Context) ([]model.WrongAnswer, error)
	ClearAll(ctx context.Context) error
}

// TrimFIFO keeps the last limit entries of items, dropping the oldest.
func TrimFIFO[T any](items []T, limit int) []T {
	if limit <= 0 {
		return nil
	}
	if len(items) <= limit {
		return items
	}
	out := make([]T, limit)
	copy(out, items[len(items)-limit:])
	return out
}
